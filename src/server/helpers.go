package server

import (
	"gamefi-market/src/models"
)

// -----------------------------------------------------------------------------

// filterPrices keeps the symbols in set; a nil set keeps everything
func filterPrices(prices map[string]models.MPriceData, set map[string]bool) map[string]models.MPriceData {
	if set == nil {
		return prices
	}
	out := make(map[string]models.MPriceData, len(set))
	for sym, p := range prices {
		if set[sym] {
			out[sym] = p
		}
	}
	return out
}
