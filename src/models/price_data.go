package models

import "time"

// MPriceData is the live simulated quote of one token.
type MPriceData struct {
	Symbol        string    `json:"symbol"`
	Price         float64   `json:"price"`
	PreviousPrice float64   `json:"previous_price"`
	Change24h     float64   `json:"change_24h"` // one-tick delta, kept under its historical name
	Volume24h     int64     `json:"volume_24h"`
	Timestamp     time.Time `json:"timestamp"`
}

// MPriceSnapshot is what channel subscribers receive after every tick.
type MPriceSnapshot struct {
	Prices    map[string]MPriceData `json:"prices"`
	Timestamp time.Time             `json:"timestamp"`
	Metrics   MTickMetrics          `json:"metrics"`
}

// ClonePrices copies a price table so callers never share the engine's map.
func ClonePrices(src map[string]MPriceData) map[string]MPriceData {
	dst := make(map[string]MPriceData, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
