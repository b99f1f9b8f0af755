package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gamefi-market/src/helpers"
)

// Environment overrides
const (
	EnvDBType       = "GAMEFI_DB_TYPE"
	EnvDBPath       = "GAMEFI_DB_PATH"
	EnvDBConnection = "GAMEFI_DB_CONNECTION"
	EnvRedisAddr    = "GAMEFI_REDIS_ADDR"
	EnvKafkaBrokers = "GAMEFI_KAFKA_BROKERS"
	EnvLogLevel     = "GAMEFI_LOG_LEVEL"
	EnvSeed         = "GAMEFI_SEED"
)

// -----------------------------------------------------------------------------

// ApplyEnv overrides file values with the GAMEFI_* variables that are set
func (c *Config) ApplyEnv() error {
	if v, ok := os.LookupEnv(EnvDBType); ok {
		c.Storage.DBType = v
	}
	if v, ok := os.LookupEnv(EnvDBPath); ok {
		c.Storage.DBPath = v
	}
	if v, ok := os.LookupEnv(EnvDBConnection); ok {
		c.Storage.DBConnectionString = v
	}
	if v, ok := os.LookupEnv(EnvRedisAddr); ok {
		c.Storage.RedisAddr = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		c.LogLevel = v
	}
	if v, ok := os.LookupEnv(EnvKafkaBrokers); ok {
		c.Publisher.Brokers = splitList(v)
	}
	if v, ok := os.LookupEnv(EnvSeed); ok {
		seed, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return helpers.NewConfigurationError(fmt.Sprintf("invalid %s", EnvSeed), err)
		}
		c.Engine.Seed = seed
	}
	return nil
}

// -----------------------------------------------------------------------------

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
