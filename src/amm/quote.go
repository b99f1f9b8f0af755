// Package amm prices swaps against constant-product (x*y=k) pools.
// Every function here is pure: no state, no I/O, no panics.
package amm

import (
	"errors"
	"fmt"
	"math"

	"gamefi-market/src/models"
)

var (
	ErrSlippageExceeded = errors.New("slippage exceeded")
	ErrInvalidAmount    = errors.New("invalid amount")
)

// -----------------------------------------------------------------------------

// QuoteSwap quotes selling amountIn of the reserveIn asset for the reserveOut
// asset. The fee is taken from the output and leaves the pool, so the
// projected reserves use the pre-fee output.
//
// A non-positive or non-finite amountIn is quoted as zero input: no output,
// execution price equal to spot and no price impact. Non-positive or
// non-finite reserves yield a zero quote.
func QuoteSwap(reserveIn, reserveOut, amountIn, feePercent, slippageTolerancePercent float64) models.MSwapQuote {
	return quote(reserveIn, reserveOut, amountIn, feePercent, slippageTolerancePercent, FeeBurned)
}

// -----------------------------------------------------------------------------

func quote(x, y, dx, feePercent, slippagePercent float64, policy FeePolicy) models.MSwapQuote {
	if !finite(dx) || dx <= 0 {
		dx = 0
	}
	if !finite(feePercent) || feePercent < 0 {
		feePercent = 0
	}
	if !finite(slippagePercent) || slippagePercent < 0 {
		slippagePercent = 0
	}

	if !finite(x) || !finite(y) || x <= 0 || y <= 0 {
		return models.MSwapQuote{AmountIn: dx, NewRatio: "0:0"}
	}

	k := x * y
	spot := y / x

	dy := y * dx / (x + dx)
	fee := dy * feePercent / 100
	afterFee := dy - fee
	slippage := afterFee * slippagePercent / 100
	minOutput := afterFee - slippage

	execution := spot
	impact := 0.0
	avg := 0.0
	if dx > 0 {
		execution = dy / dx
		impact = (spot - execution) / spot * 100
		if dy > 0 {
			avg = dx / dy
		}
	}

	newIn := x + dx
	newOut := y - dy
	if policy == FeeToLiquidity {
		newOut = y - afterFee
	}

	return models.MSwapQuote{
		AmountIn:           dx,
		AmountOut:          dy,
		OutputAfterFee:     afterFee,
		MinOutput:          minOutput,
		FeeAmount:          fee,
		SlippageAmount:     slippage,
		SpotPrice:          spot,
		ExecutionPrice:     execution,
		AvgPrice:           avg,
		PriceImpactPercent: impact,
		K:                  k,
		NewReserveIn:       newIn,
		NewReserveOut:      newOut,
		NewRatio:           ratio(newIn, newOut),
	}
}

// -----------------------------------------------------------------------------

// ratio renders the integer percentage split of a and b, e.g. "52:48"
func ratio(a, b float64) string {
	sum := a + b
	if sum <= 0 || !finite(sum) {
		return "0:0"
	}
	return fmt.Sprintf("%d:%d", int64(math.Round(a/sum*100)), int64(math.Round(b/sum*100)))
}

// -----------------------------------------------------------------------------

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// -----------------------------------------------------------------------------

// CheckMinOutput reports ErrSlippageExceeded when an execution delivered less
// than the quote's minimum output
func CheckMinOutput(actualOut float64, q models.MSwapQuote) error {
	if !finite(actualOut) || actualOut < q.MinOutput {
		return fmt.Errorf("%w: got %.6f, minimum %.6f", ErrSlippageExceeded, actualOut, q.MinOutput)
	}
	return nil
}

// -----------------------------------------------------------------------------

// ApplyQuote returns the pool as it would look after the quoted swap
func ApplyQuote(pool models.MPool, q models.MSwapQuote) models.MPool {
	pool.ReserveIn = q.NewReserveIn
	pool.ReserveOut = q.NewReserveOut
	return pool
}

// -----------------------------------------------------------------------------

// ImpermanentLoss is the LP value change versus holding for a price ratio r
// (new price / entry price). 0 at r = 1, negative otherwise.
func ImpermanentLoss(priceRatio float64) float64 {
	if !finite(priceRatio) || priceRatio <= 0 {
		return 0
	}
	return 2*math.Sqrt(priceRatio)/(1+priceRatio) - 1
}

// -----------------------------------------------------------------------------

// ValidateAmount rejects amounts a caller should not submit for execution.
// QuoteSwap itself tolerates them.
func ValidateAmount(amount float64) error {
	if !finite(amount) || amount <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}
	return nil
}
