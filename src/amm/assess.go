package amm

import (
	"fmt"

	"gamefi-market/src/models"
)

// Warning thresholds, in percent
const (
	ImpactWarnPercent     = 5.0
	ImpactCriticalPercent = 15.0
	SlippageWarnPercent   = 5.0
	ImbalancePercent      = 80.0
)

// Warning codes
const (
	WarnPriceImpact         = "price_impact"
	WarnHighSlippage        = "high_slippage"
	WarnInsufficientBalance = "insufficient_balance"
	WarnPoolImbalance       = "pool_imbalance"
)

// AssessParams carries the caller context a quote alone does not have
type AssessParams struct {
	SlippageTolerancePercent float64
	// Balance of the input asset; negative means unknown and skips the check
	Balance float64
}

// -----------------------------------------------------------------------------

// Assess returns advisory warnings for a quote. It never rejects the quote.
func Assess(q models.MSwapQuote, p AssessParams) []models.MSwapWarning {
	warnings := []models.MSwapWarning{}

	switch {
	case q.PriceImpactPercent >= ImpactCriticalPercent:
		warnings = append(warnings, models.MSwapWarning{
			Code:     WarnPriceImpact,
			Severity: models.SeverityCritical,
			Message:  fmt.Sprintf("price impact %.2f%% is very high", q.PriceImpactPercent),
		})
	case q.PriceImpactPercent >= ImpactWarnPercent:
		warnings = append(warnings, models.MSwapWarning{
			Code:     WarnPriceImpact,
			Severity: models.SeverityWarning,
			Message:  fmt.Sprintf("price impact %.2f%% is high", q.PriceImpactPercent),
		})
	}

	if p.SlippageTolerancePercent > SlippageWarnPercent {
		warnings = append(warnings, models.MSwapWarning{
			Code:     WarnHighSlippage,
			Severity: models.SeverityWarning,
			Message:  fmt.Sprintf("slippage tolerance %.2f%% may cause a poor fill", p.SlippageTolerancePercent),
		})
	}

	if p.Balance >= 0 && p.Balance < q.AmountIn {
		warnings = append(warnings, models.MSwapWarning{
			Code:     WarnInsufficientBalance,
			Severity: models.SeverityCritical,
			Message:  fmt.Sprintf("balance %.4f is below amount %.4f", p.Balance, q.AmountIn),
		})
	}

	if sum := q.NewReserveIn + q.NewReserveOut; sum > 0 {
		share := q.NewReserveIn / sum * 100
		if share > ImbalancePercent || share < 100-ImbalancePercent {
			warnings = append(warnings, models.MSwapWarning{
				Code:     WarnPoolImbalance,
				Severity: models.SeverityWarning,
				Message:  fmt.Sprintf("pool would be imbalanced (%s)", q.NewRatio),
			})
		}
	}

	return warnings
}
