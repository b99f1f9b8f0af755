// Package grpc_control lets operators drive the price engine and request swap
// quotes over gRPC.
package grpc_control

import (
	"context"
	"encoding/json"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"gamefi-market/src/amm"
	"gamefi-market/src/engine"
	"gamefi-market/src/logger"
	"gamefi-market/src/models"
)

// ControlService implements EngineControlServer
type ControlService struct {
	Engine     *engine.PriceEngine
	Calculator *amm.Calculator
	Pools      []models.MPool
	Config     *models.MConfig
	Logger     *logger.Logger
	// engineCtx bounds engines started over gRPC
	engineCtx context.Context
}

// NewControlService creates a new instance of ControlService
func NewControlService(
	ctx context.Context,
	cfg *models.MConfig,
	eng *engine.PriceEngine,
	calc *amm.Calculator,
	pools []models.MPool,
	log *logger.Logger,
) *ControlService {
	return &ControlService{
		Engine:     eng,
		Calculator: calc,
		Pools:      pools,
		Config:     cfg,
		Logger:     log,
		engineCtx:  ctx,
	}
}

// -----------------------------------------------------------------------------

// toStruct converts any JSON-encodable value to a protobuf Struct
func toStruct(v interface{}) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

// -----------------------------------------------------------------------------

func (s *ControlService) GetPrices(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error) {
	return toStruct(map[string]interface{}{
		"prices":      s.Engine.GetCurrentPrices(),
		"last_update": s.Engine.LastUpdate(),
		"running":     s.Engine.IsRunning(),
	})
}

// -----------------------------------------------------------------------------

func (s *ControlService) TickNow(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error) {
	prices := s.Engine.UpdatePrices(ctx)
	s.Logger.Info("gRPC: manual tick for %d tokens", len(prices))
	return toStruct(map[string]interface{}{
		"prices":      prices,
		"last_update": s.Engine.LastUpdate(),
	})
}

// -----------------------------------------------------------------------------

func (s *ControlService) StartEngine(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error) {
	if err := s.Engine.Start(s.engineCtx); err != nil {
		return nil, status.Errorf(codes.Internal, "start engine: %v", err)
	}
	s.Logger.Info("gRPC: engine started")
	return toStruct(map[string]interface{}{"running": s.Engine.IsRunning()})
}

// -----------------------------------------------------------------------------

func (s *ControlService) StopEngine(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error) {
	s.Engine.Stop()
	s.Logger.Info("gRPC: engine stopped")
	return toStruct(map[string]interface{}{"running": s.Engine.IsRunning()})
}

// -----------------------------------------------------------------------------

// QuoteSwap reads pool or reserve_in/reserve_out, amount_in and the optional
// slippage_tolerance_percent and balance fields
func (s *ControlService) QuoteSwap(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()
	number := func(key string) (float64, bool) {
		v, ok := fields[key]
		if !ok {
			return 0, false
		}
		if _, isNum := v.GetKind().(*structpb.Value_NumberValue); !isNum {
			return 0, false
		}
		return v.GetNumberValue(), true
	}

	amountIn, _ := number("amount_in")
	if err := amm.ValidateAmount(amountIn); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	var pool models.MPool
	if name := fields["pool"].GetStringValue(); name != "" {
		p, err := amm.FindPool(s.Pools, name)
		if err != nil {
			return nil, status.Error(codes.NotFound, err.Error())
		}
		pool = p
	} else {
		pool.ReserveIn, _ = number("reserve_in")
		pool.ReserveOut, _ = number("reserve_out")
		if pool.ReserveIn <= 0 || pool.ReserveOut <= 0 {
			return nil, status.Error(codes.InvalidArgument, "pool or positive reserve_in/reserve_out required")
		}
	}

	slippage := s.Config.AMM.DefaultSlippagePercent
	if v, ok := number("slippage_tolerance_percent"); ok {
		slippage = v
	}
	balance := -1.0
	if v, ok := number("balance"); ok {
		balance = v
	}

	quote := s.Calculator.Quote(pool, amountIn, slippage)
	return toStruct(map[string]interface{}{
		"pool":     pool.Name,
		"quote":    quote,
		"warnings": amm.Assess(quote, amm.AssessParams{SlippageTolerancePercent: slippage, Balance: balance}),
	})
}
