package models

// MSwapQuote is the full breakdown of a proposed constant-product swap.
type MSwapQuote struct {
	AmountIn           float64 `json:"amount_in"`
	AmountOut          float64 `json:"amount_out"` // pre-fee
	OutputAfterFee     float64 `json:"output_after_fee"`
	MinOutput          float64 `json:"min_output"`
	FeeAmount          float64 `json:"fee_amount"`
	SlippageAmount     float64 `json:"slippage_amount"`
	SpotPrice          float64 `json:"spot_price"`
	ExecutionPrice     float64 `json:"execution_price"`
	AvgPrice           float64 `json:"avg_price"`
	PriceImpactPercent float64 `json:"price_impact_percent"`
	K                  float64 `json:"k"`
	NewReserveIn       float64 `json:"new_reserve_in"`
	NewReserveOut      float64 `json:"new_reserve_out"`
	NewRatio           string  `json:"new_ratio"`
}

// Warning severities
const (
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// MSwapWarning is an advisory produced on top of a quote; it never blocks the quote itself.
type MSwapWarning struct {
	Code     string `json:"code"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}
