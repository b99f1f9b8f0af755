package grpc_control

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// Messages are well-known protobuf types, so the service is described by hand
// instead of being generated from a .proto file.

const ServiceName = "gamefi.control.v1.EngineControl"

const (
	EngineControl_GetPrices_FullMethodName   = "/" + ServiceName + "/GetPrices"
	EngineControl_TickNow_FullMethodName     = "/" + ServiceName + "/TickNow"
	EngineControl_StartEngine_FullMethodName = "/" + ServiceName + "/StartEngine"
	EngineControl_StopEngine_FullMethodName  = "/" + ServiceName + "/StopEngine"
	EngineControl_QuoteSwap_FullMethodName   = "/" + ServiceName + "/QuoteSwap"
)

// EngineControlServer is the server API for the EngineControl service
type EngineControlServer interface {
	GetPrices(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	TickNow(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	StartEngine(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	StopEngine(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	QuoteSwap(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// -----------------------------------------------------------------------------

func RegisterEngineControlServer(s grpc.ServiceRegistrar, srv EngineControlServer) {
	s.RegisterService(&EngineControl_ServiceDesc, srv)
}

// -----------------------------------------------------------------------------

func emptyHandler(fullMethod string, call func(EngineControlServer, context.Context, *emptypb.Empty) (*structpb.Struct, error)) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(emptypb.Empty)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(EngineControlServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(EngineControlServer), ctx, req.(*emptypb.Empty))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// -----------------------------------------------------------------------------

func structHandler(fullMethod string, call func(EngineControlServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(EngineControlServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(EngineControlServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// -----------------------------------------------------------------------------

var EngineControl_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*EngineControlServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetPrices", Handler: emptyHandler(EngineControl_GetPrices_FullMethodName, EngineControlServer.GetPrices)},
		{MethodName: "TickNow", Handler: emptyHandler(EngineControl_TickNow_FullMethodName, EngineControlServer.TickNow)},
		{MethodName: "StartEngine", Handler: emptyHandler(EngineControl_StartEngine_FullMethodName, EngineControlServer.StartEngine)},
		{MethodName: "StopEngine", Handler: emptyHandler(EngineControl_StopEngine_FullMethodName, EngineControlServer.StopEngine)},
		{MethodName: "QuoteSwap", Handler: structHandler(EngineControl_QuoteSwap_FullMethodName, EngineControlServer.QuoteSwap)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gamefi/control/v1/engine_control.proto",
}

// -----------------------------------------------------------------------------
// Client
// -----------------------------------------------------------------------------

type EngineControlClient struct {
	cc grpc.ClientConnInterface
}

func NewEngineControlClient(cc grpc.ClientConnInterface) *EngineControlClient {
	return &EngineControlClient{cc: cc}
}

func (c *EngineControlClient) invoke(ctx context.Context, method string, in interface{}, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *EngineControlClient) GetPrices(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, EngineControl_GetPrices_FullMethodName, &emptypb.Empty{}, opts...)
}

func (c *EngineControlClient) TickNow(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, EngineControl_TickNow_FullMethodName, &emptypb.Empty{}, opts...)
}

func (c *EngineControlClient) StartEngine(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, EngineControl_StartEngine_FullMethodName, &emptypb.Empty{}, opts...)
}

func (c *EngineControlClient) StopEngine(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, EngineControl_StopEngine_FullMethodName, &emptypb.Empty{}, opts...)
}

func (c *EngineControlClient) QuoteSwap(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, EngineControl_QuoteSwap_FullMethodName, in, opts...)
}
