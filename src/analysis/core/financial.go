package core

import "math"

// OHLCV is the summary of one price/volume window
type OHLCV struct {
	Open     float64
	High     float64
	Low      float64
	Close    float64
	Volume   float64
	AvgPrice float64
}

// -----------------------------------------------------------------------------

// ComputeOHLCV calculates OHLCV and AvgPrice from price/volume arrays.
// volumes may be shorter than prices; missing volumes count as 0.
func ComputeOHLCV(prices []float64, volumes []float64) OHLCV {
	if len(prices) == 0 {
		return OHLCV{}
	}

	high := -math.MaxFloat64
	low := math.MaxFloat64
	totalVol := 0.0
	sumPrice := 0.0

	for i, p := range prices {
		if p > high {
			high = p
		}
		if p < low {
			low = p
		}
		if i < len(volumes) {
			totalVol += volumes[i]
		}
		sumPrice += p
	}

	return OHLCV{
		Open:     prices[0],
		High:     high,
		Low:      low,
		Close:    prices[len(prices)-1],
		Volume:   totalVol,
		AvgPrice: sumPrice / float64(len(prices)),
	}
}

// -----------------------------------------------------------------------------

// CalculateChangePercent calculates the fractional change (0.05 = +5%).
func CalculateChangePercent(current, previous float64) float64 {
	if previous == 0 {
		return 0.0
	}
	return (current - previous) / previous
}

// -----------------------------------------------------------------------------

// CalculateReturns turns a price series into fractional step returns.
// Steps from a zero price are skipped.
func CalculateReturns(prices []float64) []float64 {
	if len(prices) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] == 0 {
			continue
		}
		returns = append(returns, CalculateChangePercent(prices[i], prices[i-1]))
	}
	return returns
}

// -----------------------------------------------------------------------------

// CalculateAnomalyRatio computes volume anomaly
func CalculateAnomalyRatio(currentVol, avgVol float64) float64 {
	if avgVol <= 0 {
		if currentVol == 0 {
			return 1.0
		}
		return currentVol
	}
	return currentVol / avgVol
}
