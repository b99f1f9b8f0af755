package analysis

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamefi-market/src/analysis/core"
	"gamefi-market/src/logger"
	"gamefi-market/src/models"
)

func buildHistory(start time.Time, farm, land []float64) []models.MPriceHistoryEntry {
	var h []models.MPriceHistoryEntry
	for i := range farm {
		h = append(h, models.MPriceHistoryEntry{
			Timestamp: start.Add(time.Duration(i) * 5 * time.Minute),
			Prices:    map[string]float64{"FARM": farm[i], "LAND": land[i]},
			Volumes:   map[string]int64{"FARM": int64(1000 * (i + 1)), "LAND": 500},
		})
	}
	return h
}

func newFacade() *AnalysisFacade {
	return NewAnalysisFacade(logger.NewLoggerWithWriter(io.Discard, "ERROR", "test"))
}

// -----------------------------------------------------------------------------

func TestCandles(t *testing.T) {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	farm := []float64{1.0, 1.2, 0.9, 1.1, 1.3, 1.25}
	land := []float64{15, 15, 15, 15, 15, 15}
	history := buildHistory(start, farm, land)

	candles := newFacade().Candles(history, "FARM", 15*time.Minute)
	require.Len(t, candles, 2)

	first := candles[0]
	assert.Equal(t, start, first.Start)
	assert.Equal(t, start.Add(15*time.Minute), first.End)
	assert.Equal(t, 1.0, first.Open)
	assert.Equal(t, 1.2, first.High)
	assert.Equal(t, 0.9, first.Low)
	assert.Equal(t, 0.9, first.Close)
	assert.Equal(t, 3, first.Ticks)
	assert.Equal(t, 6000.0, first.Volume)
	assert.Zero(t, first.ChangePercent)

	second := candles[1]
	assert.Equal(t, 1.1, second.Open)
	assert.Equal(t, 1.25, second.Close)
	assert.InDelta(t, (1.25-0.9)/0.9*100, second.ChangePercent, 1e-9)

	assert.Empty(t, newFacade().Candles(history, "NOPE", time.Hour))
	assert.Empty(t, newFacade().Candles(history, "FARM", 0))
}

// -----------------------------------------------------------------------------

func TestTokenStats(t *testing.T) {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	farm := []float64{1.0, 1.1, 1.0, 1.1, 1.0}
	land := []float64{10, 11, 10, 11, 10}
	history := buildHistory(start, farm, land)

	token := models.MTokenPriceConfig{Symbol: "FARM", Volatility: 0.08}
	stats := newFacade().TokenStats(history, token)

	assert.Equal(t, 4, stats.Samples)
	assert.Equal(t, 0.08, stats.ConfiguredVolatility)
	assert.Greater(t, stats.RealizedVolatility, 0.0)
	assert.InDelta(t, 1.0, stats.Correlations["LAND"], 1e-9)
	assert.InDelta(t, 5000.0/3000.0, stats.VolumeAnomalyRatio, 1e-9)

	empty := newFacade().TokenStats(nil, token)
	assert.Zero(t, empty.Samples)
	assert.NotNil(t, empty.Correlations)
}

// -----------------------------------------------------------------------------

func TestResampleIndices(t *testing.T) {
	r := &TimeSeriesResampler{}
	windows := r.ResampleIndices([]int64{0, 30, 59, 60, 185}, 60)

	require.Len(t, windows, 3)
	assert.Equal(t, []int{0, 1, 2}, windows[0].Indices)
	assert.Equal(t, []int{3}, windows[1].Indices)
	assert.Equal(t, int64(180), windows[2].StartTime)
	assert.Empty(t, r.ResampleIndices(nil, 60))
	assert.Empty(t, r.ResampleIndices([]int64{1}, 0))
}

// -----------------------------------------------------------------------------

func TestCoreHelpers(t *testing.T) {
	o := core.ComputeOHLCV([]float64{2, 4, 1, 3}, []float64{1, 1})
	assert.Equal(t, core.OHLCV{Open: 2, High: 4, Low: 1, Close: 3, Volume: 2, AvgPrice: 2.5}, o)
	assert.Equal(t, core.OHLCV{}, core.ComputeOHLCV(nil, nil))

	assert.Equal(t, []float64{1, -0.5}, core.CalculateReturns([]float64{1, 2, 1}))
	assert.Nil(t, core.CalculateReturns([]float64{1}))

	mean, std := core.CalculateMeanStd([]float64{2, 4})
	assert.Equal(t, 3.0, mean)
	assert.Equal(t, 1.0, std)
	assert.Zero(t, core.CalculateZScore(5, 1, 0))
	assert.Equal(t, 1.0, core.CalculateAnomalyRatio(0, 0))
}

// -----------------------------------------------------------------------------

func TestSummarizeReturns(t *testing.T) {
	assert.Equal(t, core.ReturnStats{}, core.SummarizeReturns([]float64{1.25}))

	// returns +0.1 and -0.1
	rs := core.SummarizeReturns([]float64{1, 1.1, 0.99})
	assert.Equal(t, 2, rs.Samples)
	assert.InDelta(t, 0.0, rs.Mean, 1e-12)
	assert.InDelta(t, 0.1, rs.Volatility, 1e-12)
	assert.InDelta(t, -1.0, rs.LastZScore, 1e-9)
}

// -----------------------------------------------------------------------------

func TestCalculateCorrelation(t *testing.T) {
	x := []float64{0.01, -0.02, 0.03, -0.01}
	assert.InDelta(t, 1.0, core.CalculateCorrelation(x, x), 1e-12)

	neg := []float64{-0.01, 0.02, -0.03, 0.01}
	assert.InDelta(t, -1.0, core.CalculateCorrelation(x, neg), 1e-12)

	assert.Zero(t, core.CalculateCorrelation(x, []float64{0, 0, 0, 0}))
	assert.Zero(t, core.CalculateCorrelation(x, x[:3]))
}
