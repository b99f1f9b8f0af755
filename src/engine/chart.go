package engine

import (
	"math"

	"gamefi-market/src/models"
	"gamefi-market/src/utils"
)

// chartTimeLayout is the HH:MM label of a chart point
const chartTimeLayout = "15:04"

// -----------------------------------------------------------------------------

// GetChartData projects the last hours of history into chart points, oldest
// first. The window holds floor(hours*60/interval minutes) ticks at most.
func (e *PriceEngine) GetChartData(hours float64) []models.MChartPoint {
	if hours <= 0 || math.IsNaN(hours) {
		return []models.MChartPoint{}
	}
	window := math.Floor(hours * 60 / e.interval.Minutes())
	if window > float64(e.capacity) {
		window = float64(e.capacity)
	}
	points := int(window)
	if points <= 0 {
		return []models.MChartPoint{}
	}

	e.mu.RLock()
	entries := e.history.GetLatest(points)
	e.mu.RUnlock()

	chart := make([]models.MChartPoint, 0, len(entries))
	for _, entry := range entries {
		prices := make(map[string]float64, len(entry.Prices))
		for sym, p := range entry.Prices {
			prices[sym] = p
		}

		chart = append(chart, models.MChartPoint{
			Time:      entry.Timestamp.Local().Format(chartTimeLayout),
			Timestamp: entry.Timestamp,
			Prices:    prices,
			Volume:    e.chartVolumeFor(entry),
		})
	}
	return chart
}

// -----------------------------------------------------------------------------

func (e *PriceEngine) chartVolumeFor(entry models.MPriceHistoryEntry) int64 {
	if e.chartVolume == ChartVolumeRecorded {
		return entry.TotalVolume()
	}
	e.chartMu.Lock()
	u := e.chartRng.Float64()
	e.chartMu.Unlock()
	return int64(utils.InitialVolumeMin + int(u*utils.InitialVolumeSpan))
}
