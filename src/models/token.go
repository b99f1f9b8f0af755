package models

// MTokenPriceConfig is the static simulation profile of one tradable token.
type MTokenPriceConfig struct {
	Symbol     string  `yaml:"symbol" json:"symbol"`
	BasePrice  float64 `yaml:"base_price" json:"base_price"`
	Volatility float64 `yaml:"volatility" json:"volatility"` // fractional stdev per tick
	MinPrice   float64 `yaml:"min_price" json:"min_price"`
	MaxPrice   float64 `yaml:"max_price" json:"max_price"`
}
