package models

// MTickMetrics describes the work done by one engine tick.
type MTickMetrics struct {
	TickDurationSeconds float64 `json:"tick_duration_seconds"`
	Tokens              int     `json:"tokens"`
	Subscribers         int     `json:"subscribers"`
	FailedSubscribers   int     `json:"failed_subscribers"`
}
