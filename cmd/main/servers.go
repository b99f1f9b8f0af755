package main

import (
	"context"
	"fmt"
	"net"
	"sync"

	"google.golang.org/grpc"

	"gamefi-market/src/amm"
	"gamefi-market/src/engine"
	pb "gamefi-market/src/grpc_control"
	"gamefi-market/src/interfaces"
	"gamefi-market/src/logger"
	"gamefi-market/src/models"
	"gamefi-market/src/publisher"
	"gamefi-market/src/server"
)

const feedBuffer = 16

// -----------------------------------------------------------------------------

// startServers orchestrates the startup of the HTTP and gRPC servers
func startServers(
	ctx context.Context,
	wg *sync.WaitGroup,
	srv *server.APIServer,
	config *models.MConfig,
	eng *engine.PriceEngine,
	calc *amm.Calculator,
	pools []models.MPool,
	appLogger *logger.Logger,
) {
	// 1. HTTP/WebSocket API
	var exchanger interfaces.IDataExchanger = srv
	go func() {
		if err := exchanger.Start(); err != nil {
			appLogger.Critical("Server failed: %v", err)
		}
	}()

	// 2. Tick feed into the WebSocket hub
	updates, unsubscribe := eng.SubscribeChannel(feedBuffer)
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer unsubscribe()
		srv.Consume(ctx, updates)
	}()

	// 3. gRPC Control Server
	addr := fmt.Sprintf("%s:%d", config.GrpcHost, config.GrpcPort)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		appLogger.Critical("failed to listen for gRPC: %v", err)
		return
	}
	grpcServer := grpc.NewServer()
	controlService := pb.NewControlService(ctx, config, eng, calc, pools, appLogger.Named("ControlService"))
	pb.RegisterEngineControlServer(grpcServer, controlService)

	wg.Add(1)
	go func() {
		defer wg.Done()
		appLogger.Info("Starting gRPC Control Server on %s", addr)
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Critical("failed to serve gRPC: %v", err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()
		grpcServer.GracefulStop()
	}()
}

// -----------------------------------------------------------------------------

// startPublisher forwards ticks to Kafka when brokers are configured
func startPublisher(ctx context.Context, wg *sync.WaitGroup, config *models.MConfig, eng *engine.PriceEngine, appLogger *logger.Logger) {
	if len(config.Publisher.Brokers) == 0 {
		appLogger.Info("No Kafka brokers configured, tick publishing disabled")
		return
	}

	kafkaLogger := appLogger.Named("KafkaPublisher")
	pub, err := publisher.NewKafkaPublisher(config.Publisher, kafkaLogger)
	if err != nil {
		appLogger.Error("Kafka publisher disabled: %v", err)
		return
	}

	var closer interfaces.IPricePublisher = pub
	updates, unsubscribe := eng.SubscribeChannel(feedBuffer)
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer unsubscribe()
		defer closer.Close()
		pub.Run(ctx, updates)
	}()
	appLogger.Info("Publishing ticks to %v topic %s", config.Publisher.Brokers, config.Publisher.Topic)
}
