// Package analysis derives candles and return statistics from the engine's
// tick history.
package analysis

import (
	"sort"
	"time"

	"gamefi-market/src/analysis/core"
	"gamefi-market/src/logger"
	"gamefi-market/src/models"
)

type AnalysisFacade struct {
	Resampler *TimeSeriesResampler
	Logger    *logger.Logger
}

// -----------------------------------------------------------------------------

func NewAnalysisFacade(log *logger.Logger) *AnalysisFacade {
	return &AnalysisFacade{
		Resampler: &TimeSeriesResampler{},
		Logger:    log,
	}
}

// -----------------------------------------------------------------------------

// series extracts the symbol's aligned timestamp/price/volume arrays
func series(history []models.MPriceHistoryEntry, symbol string) ([]int64, []float64, []float64) {
	var ts []int64
	var prices, volumes []float64
	for _, e := range history {
		p, ok := e.Prices[symbol]
		if !ok {
			continue
		}
		ts = append(ts, e.Timestamp.Unix())
		prices = append(prices, p)
		volumes = append(volumes, float64(e.Volumes[symbol]))
	}
	return ts, prices, volumes
}

// -----------------------------------------------------------------------------

// Candles builds OHLC candles of width window for symbol, oldest first
func (a *AnalysisFacade) Candles(history []models.MPriceHistoryEntry, symbol string, window time.Duration) []models.MCandle {
	candles := []models.MCandle{}

	windowSeconds := int64(window.Seconds())
	if windowSeconds <= 0 {
		a.Logger.Warning("Invalid candle window %v", window)
		return candles
	}

	ts, prices, volumes := series(history, symbol)
	groups := a.Resampler.ResampleMultiData(ts, windowSeconds, prices, volumes)

	prevClose := 0.0
	for _, g := range groups {
		o := core.ComputeOHLCV(g.DataArrays[0], g.DataArrays[1])
		candles = append(candles, models.MCandle{
			Symbol:        symbol,
			Start:         time.Unix(g.StartTime, 0).UTC(),
			End:           time.Unix(g.EndTime, 0).UTC(),
			Open:          o.Open,
			High:          o.High,
			Low:           o.Low,
			Close:         o.Close,
			AvgPrice:      o.AvgPrice,
			Volume:        o.Volume,
			Ticks:         len(g.DataArrays[0]),
			ChangePercent: core.CalculateChangePercent(o.Close, prevClose) * 100,
		})
		prevClose = o.Close
	}
	return candles
}

// -----------------------------------------------------------------------------

// TokenStats measures the realised behaviour of token over history
func (a *AnalysisFacade) TokenStats(history []models.MPriceHistoryEntry, token models.MTokenPriceConfig) models.MTokenStats {
	stats := models.MTokenStats{
		Symbol:               token.Symbol,
		ConfiguredVolatility: token.Volatility,
		Correlations:         map[string]float64{},
	}

	_, prices, volumes := series(history, token.Symbol)
	rs := core.SummarizeReturns(prices)
	stats.Samples = rs.Samples
	if rs.Samples == 0 {
		return stats
	}

	stats.MeanReturnPercent = rs.Mean * 100
	stats.RealizedVolatility = rs.Volatility
	stats.LastReturnZScore = rs.LastZScore

	meanVol, _ := core.CalculateMeanStd(volumes)
	stats.VolumeAnomalyRatio = core.CalculateAnomalyRatio(volumes[len(volumes)-1], meanVol)

	for _, other := range otherSymbols(history, token.Symbol) {
		x, y := pairedReturns(history, token.Symbol, other)
		stats.Correlations[other] = core.CalculateCorrelation(x, y)
	}

	return stats
}

// -----------------------------------------------------------------------------

func otherSymbols(history []models.MPriceHistoryEntry, symbol string) []string {
	seen := make(map[string]bool)
	for _, e := range history {
		for sym := range e.Prices {
			if sym != symbol {
				seen[sym] = true
			}
		}
	}
	out := make([]string, 0, len(seen))
	for sym := range seen {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}

// -----------------------------------------------------------------------------

// pairedReturns returns step returns of a and b over ticks where both are priced
func pairedReturns(history []models.MPriceHistoryEntry, a, b string) ([]float64, []float64) {
	var pa, pb []float64
	for _, e := range history {
		va, okA := e.Prices[a]
		vb, okB := e.Prices[b]
		if okA && okB && va != 0 && vb != 0 {
			pa = append(pa, va)
			pb = append(pb, vb)
		}
	}
	return core.CalculateReturns(pa), core.CalculateReturns(pb)
}
