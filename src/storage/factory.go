package storage

import (
	"fmt"
	"strings"

	"gamefi-market/src/interfaces"
	"gamefi-market/src/logger"
	"gamefi-market/src/models"
)

// Supported storage.db_type values
const (
	DBTypeMemory   = "memory"
	DBTypeSQLite   = "sqlite"
	DBTypePostgres = "postgres"
	DBTypeRedis    = "redis"
)

// -----------------------------------------------------------------------------

// NewPriceStore builds the backend selected by storage.db_type. The caller
// still has to call Initialize.
func NewPriceStore(cfg *models.MConfig, log *logger.Logger) (interfaces.IPriceStore, error) {
	switch strings.ToLower(cfg.Storage.DBType) {
	case DBTypeMemory:
		return NewMemoryStore(), nil
	case DBTypePostgres:
		return NewPostgresStore(cfg, log.Named("PostgresStore"))
	case DBTypeRedis:
		return NewRedisStore(cfg, log.Named("RedisStore"))
	case DBTypeSQLite, "":
		return NewSQLiteStore(cfg, log.Named("SQLiteStore"))
	default:
		return nil, fmt.Errorf("unsupported storage db_type: %s", cfg.Storage.DBType)
	}
}
