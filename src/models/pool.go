package models

// MPool is a constant-product pool supplied by the caller.
// ReserveIn is the quote asset (e.g. USDG), ReserveOut the base token.
type MPool struct {
	Name        string  `json:"name"`
	QuoteSymbol string  `json:"quote_symbol"`
	BaseSymbol  string  `json:"base_symbol"`
	ReserveIn   float64 `json:"reserve_in"`
	ReserveOut  float64 `json:"reserve_out"`
}
