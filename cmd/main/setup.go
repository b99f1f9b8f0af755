package main

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"gamefi-market/src/amm"
	"gamefi-market/src/analysis"
	"gamefi-market/src/engine"
	"gamefi-market/src/interfaces"
	"gamefi-market/src/logger"
	"gamefi-market/src/metrics"
	"gamefi-market/src/models"
	"gamefi-market/src/storage"
	"gamefi-market/src/utils"
)

// -----------------------------------------------------------------------------

// setupStore opens the backend selected by storage.db_type
func setupStore(ctx context.Context, config *models.MConfig, appLogger *logger.Logger) (interfaces.IPriceStore, error) {
	store, err := storage.NewPriceStore(config, appLogger)
	if err != nil {
		appLogger.Critical("Failed to create store: %v", err)
		return nil, err
	}
	if err := store.Initialize(ctx); err != nil {
		appLogger.Critical("Failed to initialize %s store: %v", config.Storage.DBType, err)
		return nil, err
	}
	appLogger.Info("Using %s store", config.Storage.DBType)
	return store, nil
}

// -----------------------------------------------------------------------------

// setupMetrics builds a private registry with the process collectors
func setupMetrics() (*prometheus.Registry, *metrics.Metrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg, metrics.NewMetrics(reg)
}

// -----------------------------------------------------------------------------

// setupEngine builds the price engine, gated on the trading calendar when asked
func setupEngine(config *models.MConfig, store interfaces.IPriceStore, m *metrics.Metrics, appLogger *logger.Logger) *engine.PriceEngine {
	engineLogger := appLogger.Named("PriceEngine")

	opts := []engine.Option{
		engine.WithRandomSource(engine.NewSeededSource(config.Engine.Seed)),
		engine.WithMetrics(m),
	}
	if config.Engine.MarketHoursOnly {
		scheduler := utils.NewMarketScheduler([]string{config.Engine.CalendarMIC}, appLogger.Named("MarketScheduler"))
		opts = append(opts, engine.WithMarketGate(scheduler.AnyMarketOpen))
		engineLogger.Info("Timer ticks limited to %s trading hours", config.Engine.CalendarMIC)
	}

	return engine.NewPriceEngine(config, store, engineLogger, opts...)
}

// -----------------------------------------------------------------------------

// setupAMM builds the swap calculator and the configured pools
func setupAMM(config *models.MConfig) (*amm.Calculator, []models.MPool) {
	return amm.NewCalculator(config.AMM), amm.PoolsFromConfig(config.AMM.Pools)
}

// -----------------------------------------------------------------------------

// setupAnalysis initializes the analysis facade
func setupAnalysis(config *models.MConfig) *analysis.AnalysisFacade {
	return analysis.NewAnalysisFacade(logger.NewLogger(config.LogLevel, "Analysis"))
}
