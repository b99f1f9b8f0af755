package models

import "time"

// MPriceHistoryEntry is one tick of the chart history.
type MPriceHistoryEntry struct {
	Timestamp time.Time          `json:"timestamp"`
	Prices    map[string]float64 `json:"prices"`
	Volumes   map[string]int64   `json:"volumes,omitempty"`
}

// TotalVolume sums the recorded per-token volumes of the entry.
func (e MPriceHistoryEntry) TotalVolume() int64 {
	var total int64
	for _, v := range e.Volumes {
		total += v
	}
	return total
}
