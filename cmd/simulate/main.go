// Command simulate runs the price engine offline against a virtual clock and
// prints the resulting chart series and a sample swap quote as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"gamefi-market/src/amm"
	"gamefi-market/src/config"
	"gamefi-market/src/engine"
	"gamefi-market/src/logger"
	"gamefi-market/src/models"
	"gamefi-market/src/storage"
)

type report struct {
	Ticks   int                          `json:"ticks"`
	Prices  map[string]models.MPriceData `json:"prices"`
	Chart   []models.MChartPoint         `json:"chart"`
	Quote   *models.MSwapQuote           `json:"quote,omitempty"`
	Pool    string                       `json:"pool,omitempty"`
	Warning []models.MSwapWarning        `json:"warnings,omitempty"`
}

func main() {
	configPath := flag.String("config", "config/default.yaml", "path to config file")
	ticks := flag.Int("ticks", 288, "number of ticks to simulate")
	hours := flag.Float64("hours", 24, "chart window in hours")
	seed := flag.Uint64("seed", 42, "random seed (0 = clock seeded)")
	amount := flag.Float64("amount", 1000, "amount swapped in the sample quote")
	flag.Parse()

	conf, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	conf.Engine.Seed = *seed

	// Keep stdout clean for the JSON report
	appLogger := logger.NewLoggerWithWriter(os.Stderr, conf.LogLevel, "Simulate")

	interval := time.Duration(conf.Engine.TickIntervalSeconds) * time.Second
	clock := time.Now().Add(-time.Duration(*ticks) * interval)

	eng := engine.NewPriceEngine(conf.MConfig, storage.NewMemoryStore(), appLogger.Named("PriceEngine"),
		engine.WithRandomSource(engine.NewSeededSource(conf.Engine.Seed)),
		engine.WithClock(func() time.Time { return clock }),
	)

	ctx := context.Background()
	if err := eng.Initialize(ctx); err != nil {
		appLogger.Critical("Failed to initialize engine: %v", err)
	}

	for i := 0; i < *ticks; i++ {
		clock = clock.Add(interval)
		eng.UpdatePrices(ctx)
	}
	appLogger.Info("Simulated %d ticks of %v", *ticks, interval)

	out := report{
		Ticks:  *ticks,
		Prices: eng.GetCurrentPrices(),
		Chart:  eng.GetChartData(*hours),
	}

	pools := amm.PoolsFromConfig(conf.AMM.Pools)
	if len(pools) > 0 {
		calc := amm.NewCalculator(conf.AMM)
		q := calc.Quote(pools[0], *amount, conf.AMM.DefaultSlippagePercent)
		out.Quote = &q
		out.Pool = pools[0].Name
		out.Warning = amm.Assess(q, amm.AssessParams{
			SlippageTolerancePercent: conf.AMM.DefaultSlippagePercent,
			Balance:                  -1,
		})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		appLogger.Error("Failed to write report: %v", err)
		os.Exit(1)
	}
}
