package models

// -----------------------------------------------------------------------------
// Server State Structure
// -----------------------------------------------------------------------------

type MLatestData struct {
	Type      string                `json:"type"` // "INITIAL" or "UPDATE"
	Prices    map[string]MPriceData `json:"prices"`
	Timestamp int64                 `json:"timestamp"`
	Metrics   MTickMetrics          `json:"metrics"`
}

// -----------------------------------------------------------------------------
// SubscribeCommand for client messages
// -----------------------------------------------------------------------------

type MSubscribeCommand struct {
	Command string   `json:"command"`
	Symbols []string `json:"symbols"`
}
