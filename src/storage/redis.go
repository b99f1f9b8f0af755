package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gamefi-market/src/logger"
	"gamefi-market/src/models"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "gamefi"

// -----------------------------------------------------------------------------

// RedisStore keeps the three engine records under prefixed keys:
// <prefix>:prices (JSON object), <prefix>:history (list of JSON entries,
// trimmed to capacity) and <prefix>:last_update (RFC3339 string).
type RedisStore struct {
	Config *models.MConfig
	Client *redis.Client
	Logger *logger.Logger
	prefix string
}

// -----------------------------------------------------------------------------

func NewRedisStore(cfg *models.MConfig, log *logger.Logger) (*RedisStore, error) {
	if cfg.Storage.RedisAddr == "" {
		return nil, fmt.Errorf("redis store requires storage.redis_addr")
	}
	prefix := cfg.Storage.KeyPrefix
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &RedisStore{
		Config: cfg,
		Logger: log,
		prefix: prefix,
	}, nil
}

// -----------------------------------------------------------------------------

func (r *RedisStore) key(name string) string {
	return r.prefix + ":" + name
}

// -----------------------------------------------------------------------------

func (r *RedisStore) Initialize(ctx context.Context) error {
	r.Client = redis.NewClient(&redis.Options{
		Addr:     r.Config.Storage.RedisAddr,
		Password: r.Config.Storage.RedisPassword,
		DB:       r.Config.Storage.RedisDB,
	})

	if err := r.Client.Ping(ctx).Err(); err != nil {
		r.Client.Close()
		return fmt.Errorf("failed to connect to redis at %s: %w", r.Config.Storage.RedisAddr, err)
	}

	r.Logger.Info("RedisStore connected (prefix: %s)", r.prefix)
	return nil
}

// -----------------------------------------------------------------------------

func (r *RedisStore) LoadPrices(ctx context.Context) (map[string]models.MPriceData, error) {
	prices := make(map[string]models.MPriceData)

	raw, err := r.Client.Get(ctx, r.key("prices")).Bytes()
	if errors.Is(err, redis.Nil) {
		return prices, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(raw, &prices); err != nil {
		return nil, fmt.Errorf("corrupt price table: %w", err)
	}
	return prices, nil
}

// -----------------------------------------------------------------------------

func (r *RedisStore) SavePrices(ctx context.Context, prices map[string]models.MPriceData) error {
	raw, err := json.Marshal(prices)
	if err != nil {
		return err
	}
	return r.Client.Set(ctx, r.key("prices"), raw, 0).Err()
}

// -----------------------------------------------------------------------------

func (r *RedisStore) LoadHistory(ctx context.Context) ([]models.MPriceHistoryEntry, error) {
	items, err := r.Client.LRange(ctx, r.key("history"), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	history := make([]models.MPriceHistoryEntry, 0, len(items))
	for i, item := range items {
		var entry models.MPriceHistoryEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			return nil, fmt.Errorf("corrupt history entry %d: %w", i, err)
		}
		history = append(history, entry)
	}
	return history, nil
}

// -----------------------------------------------------------------------------

func (r *RedisStore) AppendHistory(ctx context.Context, entry models.MPriceHistoryEntry, capacity int) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	pipe := r.Client.TxPipeline()
	pipe.RPush(ctx, r.key("history"), raw)
	if capacity > 0 {
		pipe.LTrim(ctx, r.key("history"), int64(-capacity), -1)
	}
	_, err = pipe.Exec(ctx)
	return err
}

// -----------------------------------------------------------------------------

func (r *RedisStore) LoadLastUpdate(ctx context.Context) (time.Time, error) {
	value, err := r.Client.Get(ctx, r.key("last_update")).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return parseLastUpdate(value)
}

// -----------------------------------------------------------------------------

func (r *RedisStore) SaveLastUpdate(ctx context.Context, t time.Time) error {
	return r.Client.Set(ctx, r.key("last_update"), formatLastUpdate(t), 0).Err()
}

// -----------------------------------------------------------------------------

func (r *RedisStore) Close() error {
	if r.Client != nil {
		return r.Client.Close()
	}
	return nil
}
