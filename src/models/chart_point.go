package models

import (
	"encoding/json"
	"time"
)

// MChartPoint is one display row of the price chart.
// JSON form is flat: {"time": "...", "FARM": 1.23, ..., "volume": 42000}.
type MChartPoint struct {
	Time      string
	Timestamp time.Time
	Prices    map[string]float64
	Volume    int64
}

// -----------------------------------------------------------------------------

func (p MChartPoint) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(p.Prices)+3)
	for sym, price := range p.Prices {
		out[sym] = price
	}
	out["time"] = p.Time
	out["timestamp"] = p.Timestamp
	out["volume"] = p.Volume
	return json.Marshal(out)
}
