package config

import (
	"gamefi-market/src/models"
	"gamefi-market/src/utils"
)

// Defaults for fields left empty in the file
const (
	DefaultName            = "gamefi-market"
	DefaultHost            = "0.0.0.0"
	DefaultPort            = 8080
	DefaultGrpcPort        = 50051
	DefaultLogLevel        = "INFO"
	DefaultDBType          = "sqlite"
	DefaultDBPath          = "gamefi.db"
	DefaultKeyPrefix       = "gamefi"
	DefaultTopic           = "gamefi.prices"
	DefaultFeePercent      = 0.3
	DefaultSlippagePercent = 0.5
	DefaultChartVolume     = "random"
)

// DefaultTokens is the token catalogue used when the file lists none
var DefaultTokens = []models.MTokenPriceConfig{
	{Symbol: "FARM", BasePrice: 1.25, Volatility: 0.08, MinPrice: 0.5, MaxPrice: 5.0},
	{Symbol: "SEED", BasePrice: 0.45, Volatility: 0.12, MinPrice: 0.1, MaxPrice: 2.0},
	{Symbol: "HARV", BasePrice: 2.10, Volatility: 0.06, MinPrice: 0.8, MaxPrice: 8.0},
	{Symbol: "LAND", BasePrice: 15.0, Volatility: 0.05, MinPrice: 5.0, MaxPrice: 50.0},
}

// -----------------------------------------------------------------------------

// presetDefaults seeds the fields where zero is a valid setting. The file is
// decoded on top of it.
func presetDefaults() models.MConfig {
	return models.MConfig{
		AMM: models.MAMMConfig{
			FeePercent:             DefaultFeePercent,
			DefaultSlippagePercent: DefaultSlippagePercent,
		},
	}
}

// -----------------------------------------------------------------------------

// ApplyDefaults fills every unset field. Fee and slippage are preset before
// decoding instead, since 0 is a valid value for both.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = DefaultName
	}
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.GrpcHost == "" {
		c.GrpcHost = c.Host
	}
	if c.GrpcPort == 0 {
		c.GrpcPort = DefaultGrpcPort
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}

	if c.Storage.DBType == "" {
		c.Storage.DBType = DefaultDBType
	}
	if c.Storage.DBType == DefaultDBType && c.Storage.DBPath == "" {
		c.Storage.DBPath = DefaultDBPath
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = DefaultKeyPrefix
	}

	if c.Engine.TickIntervalSeconds == 0 {
		c.Engine.TickIntervalSeconds = int(utils.DefaultTickInterval.Seconds())
	}
	if c.Engine.HistoryCapacity == 0 {
		c.Engine.HistoryCapacity = utils.DefaultHistoryCapacity
	}
	if c.Engine.ChartVolume == "" {
		c.Engine.ChartVolume = DefaultChartVolume
	}

	if len(c.Tokens) == 0 {
		c.Tokens = append([]models.MTokenPriceConfig(nil), DefaultTokens...)
	}

	if c.Publisher.Topic == "" {
		c.Publisher.Topic = DefaultTopic
	}
}
