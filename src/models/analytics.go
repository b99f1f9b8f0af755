package models

import "time"

// MCandle is an OHLC summary of the ticks that fell in one time window.
type MCandle struct {
	Symbol        string    `json:"symbol"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	Open          float64   `json:"open"`
	High          float64   `json:"high"`
	Low           float64   `json:"low"`
	Close         float64   `json:"close"`
	AvgPrice      float64   `json:"avg_price"`
	Volume        float64   `json:"volume"`
	Ticks         int       `json:"ticks"`
	ChangePercent float64   `json:"change_percent"` // close vs the previous candle's close
}

// MTokenStats compares the realised tick returns of a token with its profile.
type MTokenStats struct {
	Symbol               string             `json:"symbol"`
	Samples              int                `json:"samples"`
	MeanReturnPercent    float64            `json:"mean_return_percent"`
	RealizedVolatility   float64            `json:"realized_volatility"` // stdev of fractional tick returns
	ConfiguredVolatility float64            `json:"configured_volatility"`
	LastReturnZScore     float64            `json:"last_return_z_score"`
	VolumeAnomalyRatio   float64            `json:"volume_anomaly_ratio"` // last volume / mean volume
	Correlations         map[string]float64 `json:"correlations"`         // tick-return correlation with other tokens
}
