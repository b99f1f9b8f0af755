package engine

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"
)

// RandomSource yields uniform values in [0, 1). *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

// -----------------------------------------------------------------------------

// NewSeededSource returns a PCG generator. Seed 0 draws a seed from the clock.
func NewSeededSource(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// -----------------------------------------------------------------------------

// newChartSource returns a PCG stream independent of the price walk, so chart
// reads never shift the simulated prices
func newChartSource(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed^0xc2b2ae3d27d4eb4f, seed))
}

// -----------------------------------------------------------------------------

// standardNormal draws one N(0,1) sample with the Box-Muller transform
func standardNormal(rng RandomSource) float64 {
	u1 := rng.Float64()
	for u1 <= 0 {
		u1 = rng.Float64()
	}
	u2 := rng.Float64()
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

// -----------------------------------------------------------------------------

// round2 rounds to cents, half away from zero
func round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// -----------------------------------------------------------------------------

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
