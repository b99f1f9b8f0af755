package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"gamefi-market/src/config"
	"gamefi-market/src/logger"
	"gamefi-market/src/server"
)

func main() {
	// 1. Parse command line flags
	configPath := flag.String("config", "config/default.yaml", "path to config file")
	flag.Parse()

	// 2. Load config
	conf, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// 3. Setup Logger
	appLogger := logger.NewLogger(conf.LogLevel, conf.Name)

	// 4. Lifecycle Management
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 5. Setup Components
	store, err := setupStore(ctx, conf.MConfig, appLogger)
	if err != nil {
		os.Exit(1)
	}
	defer store.Close()

	registry, appMetrics := setupMetrics()
	eng := setupEngine(conf.MConfig, store, appMetrics, appLogger)
	calc, pools := setupAMM(conf.MConfig)
	analyzer := setupAnalysis(conf.MConfig)

	// 6. Restore or seed prices
	if err := eng.Initialize(ctx); err != nil {
		appLogger.Critical("Failed to initialize engine: %v", err)
	}

	srv := server.NewAPIServer(conf.MConfig, server.Dependencies{
		Engine:        eng,
		Calculator:    calc,
		Analyzer:      analyzer,
		Pools:         pools,
		Metrics:       appMetrics,
		Gatherer:      registry,
		EngineContext: ctx,
	}, appLogger.Named("APIServer"))

	// 7. Start Servers and fan-out
	var wg sync.WaitGroup
	startServers(ctx, &wg, srv, conf.MConfig, eng, calc, pools, appLogger)
	startPublisher(ctx, &wg, conf.MConfig, eng, appLogger)

	// 8. Run the engine until a signal arrives
	if err := eng.Start(ctx); err != nil {
		appLogger.Critical("Failed to start engine: %v", err)
	}
	appLogger.Info("Engine running, ticking every %v", eng.Interval())

	<-ctx.Done()
	appLogger.Info("Shutdown signal received")

	eng.Stop()
	if err := srv.Stop(); err != nil {
		appLogger.Error("Server shutdown failed: %v", err)
	}
	wg.Wait()
	appLogger.Info("Shutdown complete.")
}
