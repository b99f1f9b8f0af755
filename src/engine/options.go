package engine

import (
	"time"

	"gamefi-market/src/metrics"
)

// Option customises a PriceEngine at construction
type Option func(*PriceEngine)

// WithRandomSource replaces the seeded PCG generator
func WithRandomSource(rng RandomSource) Option {
	return func(e *PriceEngine) {
		if rng != nil {
			e.rng = rng
		}
	}
}

// WithChartRandomSource replaces the generator behind random chart volumes
func WithChartRandomSource(rng RandomSource) Option {
	return func(e *PriceEngine) {
		if rng != nil {
			e.chartRng = rng
		}
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(e *PriceEngine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithMetrics records tick, subscriber and store metrics
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *PriceEngine) {
		e.metrics = m
	}
}

// WithMarketGate skips timer ticks while open(now) is false.
// On-demand UpdatePrices calls are never gated.
func WithMarketGate(open func(time.Time) bool) Option {
	return func(e *PriceEngine) {
		e.marketOpen = open
	}
}
