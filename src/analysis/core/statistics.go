package core

import "math"

// ReturnStats summarises the step returns of one token's tick series
type ReturnStats struct {
	Samples    int
	Mean       float64
	Volatility float64 // population std of step returns
	LastZScore float64
}

// -----------------------------------------------------------------------------

// SummarizeReturns measures the step returns of a price series. The
// volatility is directly comparable to a token's configured per-tick
// volatility, since the walk draws each return from N(0, volatility).
func SummarizeReturns(prices []float64) ReturnStats {
	returns := CalculateReturns(prices)
	if len(returns) == 0 {
		return ReturnStats{}
	}

	mean, std := CalculateMeanStd(returns)
	return ReturnStats{
		Samples:    len(returns),
		Mean:       mean,
		Volatility: std,
		LastZScore: CalculateZScore(returns[len(returns)-1], mean, std),
	}
}

// -----------------------------------------------------------------------------

// CalculateMeanStd returns the mean and population standard deviation
func CalculateMeanStd(data []float64) (float64, float64) {
	if len(data) == 0 {
		return 0, 0
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	variance := 0.0
	for _, v := range data {
		d := v - mean
		variance += d * d
	}
	return mean, math.Sqrt(variance / float64(len(data)))
}

// -----------------------------------------------------------------------------

// CalculateCorrelation is the Pearson coefficient of two return series of
// equal length. Flat or short series yield 0.
func CalculateCorrelation(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 {
		return 0
	}

	meanX, stdX := CalculateMeanStd(x)
	meanY, stdY := CalculateMeanStd(y)
	if stdX == 0 || stdY == 0 {
		return 0
	}

	// centred products keep small tick returns from cancelling out
	cov := 0.0
	for i := range x {
		cov += (x[i] - meanX) * (y[i] - meanY)
	}
	cov /= float64(len(x))

	r := cov / (stdX * stdY)
	if math.IsNaN(r) {
		return 0
	}
	return math.Max(-1, math.Min(1, r))
}

// -----------------------------------------------------------------------------

// CalculateZScore is the distance of value from mean in units of std
func CalculateZScore(value, mean, std float64) float64 {
	if std == 0 {
		return 0
	}
	return (value - mean) / std
}
