package config

import (
	"fmt"
	"strings"
)

// -----------------------------------------------------------------------------

// Validate performs basic configuration validation
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("application name cannot be empty")
	}

	// Server
	if c.Host == "" {
		return fmt.Errorf("server host cannot be empty")
	}
	if c.Port <= 1024 || c.Port > 65535 {
		return fmt.Errorf("invalid server port number: %d (must be between 1025 and 65535)", c.Port)
	}
	if c.GrpcPort < 0 || c.GrpcPort > 65535 {
		return fmt.Errorf("invalid grpc port number: %d", c.GrpcPort)
	}

	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateEngine(); err != nil {
		return err
	}
	if err := c.validateTokens(); err != nil {
		return err
	}
	return c.validateAMM()
}

// -----------------------------------------------------------------------------

func (c *Config) validateStorage() error {
	switch strings.ToLower(c.Storage.DBType) {
	case "memory":
	case "sqlite":
		if c.Storage.DBPath == "" {
			return fmt.Errorf("database path cannot be empty for sqlite")
		}
	case "postgres":
		if c.Storage.DBConnectionString == "" {
			return fmt.Errorf("connection string cannot be empty for postgres")
		}
	case "redis":
		if c.Storage.RedisAddr == "" {
			return fmt.Errorf("redis address cannot be empty for redis")
		}
	case "":
		return fmt.Errorf("database type cannot be empty")
	default:
		return fmt.Errorf("unsupported database type: %s", c.Storage.DBType)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (c *Config) validateEngine() error {
	if c.Engine.TickIntervalSeconds <= 0 {
		return fmt.Errorf("tick interval must be greater than 0")
	}
	if c.Engine.HistoryCapacity <= 0 {
		return fmt.Errorf("history capacity must be greater than 0")
	}
	if c.Engine.ChartVolume != "random" && c.Engine.ChartVolume != "recorded" {
		return fmt.Errorf("chart volume must be 'random' or 'recorded', got '%s'", c.Engine.ChartVolume)
	}
	if c.Engine.MarketHoursOnly && c.Engine.CalendarMIC == "" {
		return fmt.Errorf("calendar_mic is required when market_hours_only is set")
	}
	return nil
}

// -----------------------------------------------------------------------------

func (c *Config) validateTokens() error {
	if len(c.Tokens) == 0 {
		return fmt.Errorf("at least one token must be configured")
	}

	seen := make(map[string]bool, len(c.Tokens))
	for i, t := range c.Tokens {
		if t.Symbol == "" {
			return fmt.Errorf("token %d must have a symbol", i)
		}
		if seen[t.Symbol] {
			return fmt.Errorf("duplicate token symbol '%s'", t.Symbol)
		}
		seen[t.Symbol] = true

		if t.MaxPrice <= 0 {
			return fmt.Errorf("token '%s': max price must be greater than 0", t.Symbol)
		}
		if t.MinPrice < 0 || t.MinPrice > t.BasePrice || t.BasePrice > t.MaxPrice {
			return fmt.Errorf("token '%s': prices must satisfy 0 <= min <= base <= max", t.Symbol)
		}
		if t.Volatility < 0 {
			return fmt.Errorf("token '%s': volatility cannot be negative", t.Symbol)
		}
	}
	return nil
}

// -----------------------------------------------------------------------------

func (c *Config) validateAMM() error {
	if c.AMM.FeePercent < 0 || c.AMM.FeePercent >= 100 {
		return fmt.Errorf("fee percent must be in [0, 100)")
	}
	if c.AMM.DefaultSlippagePercent < 0 || c.AMM.DefaultSlippagePercent > 100 {
		return fmt.Errorf("default slippage percent must be in [0, 100]")
	}

	names := make(map[string]bool, len(c.AMM.Pools))
	for i, p := range c.AMM.Pools {
		if p.Name == "" {
			return fmt.Errorf("pool %d must have a name", i)
		}
		if names[p.Name] {
			return fmt.Errorf("duplicate pool name '%s'", p.Name)
		}
		names[p.Name] = true
		if p.ReserveIn <= 0 || p.ReserveOut <= 0 {
			return fmt.Errorf("pool '%s': reserves must be positive", p.Name)
		}
	}
	return nil
}
