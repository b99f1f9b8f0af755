package amm

import (
	"fmt"

	"gamefi-market/src/models"
)

// FeePolicy decides where the swap fee goes
type FeePolicy int

const (
	// FeeBurned removes the fee from the system: reserveOut drops by the pre-fee output
	FeeBurned FeePolicy = iota
	// FeeToLiquidity keeps the fee in the pool for liquidity providers
	FeeToLiquidity
)

func (p FeePolicy) String() string {
	switch p {
	case FeeToLiquidity:
		return "fee_to_liquidity"
	default:
		return "fee_burned"
	}
}

// -----------------------------------------------------------------------------

// Calculator quotes swaps with a fixed fee and fee policy
type Calculator struct {
	FeePercent float64
	Policy     FeePolicy
}

// -----------------------------------------------------------------------------

func NewCalculator(cfg models.MAMMConfig) *Calculator {
	c := &Calculator{FeePercent: cfg.FeePercent}
	if cfg.FeeToLiquidity {
		c.Policy = FeeToLiquidity
	}
	return c
}

// -----------------------------------------------------------------------------

// Quote prices amountIn of the pool's quote asset
func (c *Calculator) Quote(pool models.MPool, amountIn, slippageTolerancePercent float64) models.MSwapQuote {
	return quote(pool.ReserveIn, pool.ReserveOut, amountIn, c.FeePercent, slippageTolerancePercent, c.Policy)
}

// -----------------------------------------------------------------------------

// FindPool returns the pool named name
func FindPool(pools []models.MPool, name string) (models.MPool, error) {
	for _, p := range pools {
		if p.Name == name {
			return p, nil
		}
	}
	return models.MPool{}, fmt.Errorf("pool %q not found", name)
}

// -----------------------------------------------------------------------------

// PoolsFromConfig converts configured pools
func PoolsFromConfig(cfg []models.MPoolConfig) []models.MPool {
	pools := make([]models.MPool, 0, len(cfg))
	for _, p := range cfg {
		pools = append(pools, models.MPool{
			Name:        p.Name,
			QuoteSymbol: p.QuoteSymbol,
			BaseSymbol:  p.BaseSymbol,
			ReserveIn:   p.ReserveIn,
			ReserveOut:  p.ReserveOut,
		})
	}
	return pools
}
