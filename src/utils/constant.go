package utils

import (
	"math"
	"time"
)

// -----------------------------------------------------------------------------

// Simulation defaults: one tick every 5 minutes, 24 hours of chart history.
const (
	DefaultTickInterval    = 5 * time.Minute
	DefaultHistoryHours    = 24
	DefaultHistoryCapacity = 288

	// Initial volume is drawn from [InitialVolumeMin, InitialVolumeMin+InitialVolumeSpan)
	InitialVolumeMin  = 10000
	InitialVolumeSpan = 50000
	VolumeFloor       = 5000
	VolumeJitter      = 0.10
)

// -----------------------------------------------------------------------------

// CalculateHistoryCapacity returns how many ticks cover hours at the given interval.
// 24h at 5 minutes gives 288.
func CalculateHistoryCapacity(hours float64, interval time.Duration) int {
	if hours <= 0 || interval <= 0 {
		return 0
	}
	return int(math.Floor(hours * float64(time.Hour) / float64(interval)))
}
