package amm

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamefi-market/src/models"
)

func TestQuoteSwapReferenceExample(t *testing.T) {
	q := QuoteSwap(1000, 1000, 100, 0.3, 0.5)

	assert.InDelta(t, 90.909090909, q.AmountOut, 1e-6)
	assert.InDelta(t, 90.636363636, q.OutputAfterFee, 1e-6)
	assert.InDelta(t, 0.272727272, q.FeeAmount, 1e-6)
	assert.InDelta(t, 90.636363636*0.995, q.MinOutput, 1e-6)
	assert.InDelta(t, 1.0, q.SpotPrice, 1e-12)
	assert.InDelta(t, 0.909090909, q.ExecutionPrice, 1e-6)
	assert.InDelta(t, 9.090909090, q.PriceImpactPercent, 1e-6)
	assert.InDelta(t, 1.1, q.AvgPrice, 1e-9)
	assert.Equal(t, 1_000_000.0, q.K)
	assert.Equal(t, 1100.0, q.NewReserveIn)
	assert.InDelta(t, 909.090909090, q.NewReserveOut, 1e-6)
	assert.Equal(t, "55:45", q.NewRatio)
}

// -----------------------------------------------------------------------------

func TestQuoteSwapZeroInput(t *testing.T) {
	for _, dx := range []float64{0, -5, math.NaN(), math.Inf(1), math.Inf(-1)} {
		q := QuoteSwap(2000, 500, dx, 0.3, 0.5)
		assert.Zero(t, q.AmountIn)
		assert.Zero(t, q.AmountOut)
		assert.Zero(t, q.OutputAfterFee)
		assert.Zero(t, q.MinOutput)
		assert.Equal(t, 0.25, q.SpotPrice)
		assert.Equal(t, 0.25, q.ExecutionPrice)
		assert.Zero(t, q.PriceImpactPercent)
		assert.Zero(t, q.AvgPrice)
		assert.Equal(t, 2000.0, q.NewReserveIn)
		assert.Equal(t, 500.0, q.NewReserveOut)
		assert.Equal(t, "80:20", q.NewRatio)
	}
}

// -----------------------------------------------------------------------------

func TestQuoteSwapInvalidReserves(t *testing.T) {
	cases := [][2]float64{{0, 1000}, {1000, 0}, {-1, 1000}, {math.NaN(), 1}, {1, math.Inf(1)}}
	for _, c := range cases {
		q := QuoteSwap(c[0], c[1], 10, 0.3, 0.5)
		assert.Zero(t, q.SpotPrice)
		assert.Zero(t, q.AmountOut)
		assert.Zero(t, q.ExecutionPrice)
		assert.Zero(t, q.PriceImpactPercent)
		assert.Equal(t, "0:0", q.NewRatio)
	}
}

// -----------------------------------------------------------------------------

func TestFeeMonotonicity(t *testing.T) {
	prev := math.Inf(1)
	for fee := 0.0; fee < 100; fee += 0.5 {
		out := QuoteSwap(5000, 1200, 250, fee, 0.5).OutputAfterFee
		require.Less(t, out, prev, "fee %.1f", fee)
		prev = out
	}
}

// -----------------------------------------------------------------------------

func TestPriceImpactMonotonicity(t *testing.T) {
	prev := 0.0
	for dx := 1.0; dx <= 1e6; dx *= 1.7 {
		impact := QuoteSwap(10000, 10000, dx, 0.3, 0.5).PriceImpactPercent
		require.Greater(t, impact, prev, "amount %.2f", dx)
		prev = impact
	}
}

// -----------------------------------------------------------------------------

func TestFeePolicy(t *testing.T) {
	pool := models.MPool{Name: "USDG-FARM", ReserveIn: 1000, ReserveOut: 1000}

	burned := (&Calculator{FeePercent: 0.3}).Quote(pool, 100, 0.5)
	kept := NewCalculator(models.MAMMConfig{FeePercent: 0.3, FeeToLiquidity: true}).Quote(pool, 100, 0.5)

	assert.InDelta(t, 1000-burned.AmountOut, burned.NewReserveOut, 1e-9)
	assert.InDelta(t, 1000-kept.OutputAfterFee, kept.NewReserveOut, 1e-9)
	assert.Greater(t, kept.NewReserveIn*kept.NewReserveOut, kept.K)
	assert.InDelta(t, burned.K, burned.NewReserveIn*burned.NewReserveOut, 1e-6)
	assert.Equal(t, "fee_to_liquidity", FeeToLiquidity.String())
	assert.Equal(t, "fee_burned", FeeBurned.String())
}

// -----------------------------------------------------------------------------

func TestApplyAndCheckMinOutput(t *testing.T) {
	pool := models.MPool{Name: "p", ReserveIn: 1000, ReserveOut: 1000}
	q := QuoteSwap(pool.ReserveIn, pool.ReserveOut, 100, 0.3, 0.5)

	next := ApplyQuote(pool, q)
	assert.Equal(t, "p", next.Name)
	assert.Equal(t, q.NewReserveIn, next.ReserveIn)
	assert.Equal(t, q.NewReserveOut, next.ReserveOut)

	assert.NoError(t, CheckMinOutput(q.OutputAfterFee, q))
	assert.NoError(t, CheckMinOutput(q.MinOutput, q))
	err := CheckMinOutput(q.MinOutput-0.01, q)
	assert.True(t, errors.Is(err, ErrSlippageExceeded))
}

// -----------------------------------------------------------------------------

func TestValidateAmountAndPools(t *testing.T) {
	assert.NoError(t, ValidateAmount(1))
	assert.ErrorIs(t, ValidateAmount(0), ErrInvalidAmount)
	assert.ErrorIs(t, ValidateAmount(math.NaN()), ErrInvalidAmount)

	pools := PoolsFromConfig([]models.MPoolConfig{{Name: "USDG-FARM", ReserveIn: 1, ReserveOut: 2}})
	p, err := FindPool(pools, "USDG-FARM")
	require.NoError(t, err)
	assert.Equal(t, 2.0, p.ReserveOut)
	_, err = FindPool(pools, "nope")
	assert.Error(t, err)
}

// -----------------------------------------------------------------------------

func TestImpermanentLoss(t *testing.T) {
	assert.Zero(t, ImpermanentLoss(1))
	assert.InDelta(t, -0.05719, ImpermanentLoss(2), 1e-5)
	assert.InDelta(t, ImpermanentLoss(4), ImpermanentLoss(0.25), 1e-12)
	assert.Zero(t, ImpermanentLoss(0))
}

// -----------------------------------------------------------------------------

func FuzzQuoteSwapInvariant(f *testing.F) {
	seeds := [][3]float64{
		{1000, 1000, 100},
		{1e9, 1e9, 1},
		{50, 2_000_000, 49},
		{1, 1, 999},
	}
	for _, s := range seeds {
		f.Add(s[0], s[1], s[2], 0.3)
	}

	f.Fuzz(func(t *testing.T, x, y, dx, fee float64) {
		if !finite(x) || !finite(y) || x < 1e-3 || y < 1e-3 || x > 1e15 || y > 1e15 {
			return
		}
		// beyond 1000x the pool the subtraction y-dy loses the precision the check needs
		if !finite(dx) || dx <= 0 || dx > x*1e3 {
			return
		}
		if !finite(fee) || fee < 0 || fee >= 100 {
			return
		}

		q := QuoteSwap(x, y, dx, fee, 1)

		// output never drains the pool and the pre-fee product is preserved
		require.Less(t, q.AmountOut, y)
		require.GreaterOrEqual(t, q.AmountOut, 0.0)
		require.InEpsilon(t, q.K, q.NewReserveIn*q.NewReserveOut, 1e-9)
		require.LessOrEqual(t, q.OutputAfterFee, q.AmountOut)
		require.LessOrEqual(t, q.MinOutput, q.OutputAfterFee)
		require.GreaterOrEqual(t, q.PriceImpactPercent, 0.0)
	})
}
