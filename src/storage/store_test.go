package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gamefi-market/src/interfaces"
	"gamefi-market/src/logger"
	"gamefi-market/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logger.Logger {
	return logger.NewLoggerWithWriter(&bytes.Buffer{}, "DEBUG", "StoreTest")
}

func historyEntry(minute int, price float64) models.MPriceHistoryEntry {
	return models.MPriceHistoryEntry{
		Timestamp: time.Date(2025, 1, 1, 0, minute, 0, 0, time.UTC),
		Prices:    map[string]float64{"FARM": price, "SEED": price / 2},
		Volumes:   map[string]int64{"FARM": 12000, "SEED": 8000},
	}
}

// runStoreSuite checks the IPriceStore contract against any backend
func runStoreSuite(t *testing.T, store interfaces.IPriceStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("empty state", func(t *testing.T) {
		prices, err := store.LoadPrices(ctx)
		require.NoError(t, err)
		assert.Empty(t, prices)

		last, err := store.LoadLastUpdate(ctx)
		require.NoError(t, err)
		assert.True(t, last.IsZero())
	})

	t.Run("price table round trip", func(t *testing.T) {
		ts := time.Date(2025, 1, 1, 12, 30, 0, 123456789, time.UTC)
		in := map[string]models.MPriceData{
			"FARM": {Symbol: "FARM", Price: 1.27, PreviousPrice: 1.25, Change24h: 1.6, Volume24h: 42000, Timestamp: ts},
			"SEED": {Symbol: "SEED", Price: 0.45, PreviousPrice: 0.45, Change24h: 0, Volume24h: 9000, Timestamp: ts},
		}
		require.NoError(t, store.SavePrices(ctx, in))

		out, err := store.LoadPrices(ctx)
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Equal(t, 1.27, out["FARM"].Price)
		assert.Equal(t, 1.25, out["FARM"].PreviousPrice)
		assert.Equal(t, int64(42000), out["FARM"].Volume24h)
		assert.True(t, ts.Equal(out["FARM"].Timestamp))

		// overwrite
		farm := in["FARM"]
		farm.Price = 1.3
		in["FARM"] = farm
		require.NoError(t, store.SavePrices(ctx, in))
		out, err = store.LoadPrices(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1.3, out["FARM"].Price)
	})

	t.Run("history trimmed to capacity", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			require.NoError(t, store.AppendHistory(ctx, historyEntry(i, float64(i+1)), 3))
		}

		history, err := store.LoadHistory(ctx)
		require.NoError(t, err)
		require.Len(t, history, 3)
		assert.Equal(t, 3.0, history[0].Prices["FARM"])
		assert.Equal(t, 5.0, history[2].Prices["FARM"])
		assert.Equal(t, int64(20000), history[2].TotalVolume())
		assert.True(t, history[0].Timestamp.Before(history[2].Timestamp))
	})

	t.Run("history keeps ticks sharing a timestamp", func(t *testing.T) {
		same := historyEntry(30, 7)
		require.NoError(t, store.AppendHistory(ctx, same, 3))
		same.Prices = map[string]float64{"FARM": 8, "SEED": 4}
		require.NoError(t, store.AppendHistory(ctx, same, 3))

		history, err := store.LoadHistory(ctx)
		require.NoError(t, err)
		require.Len(t, history, 3)
		assert.Equal(t, 5.0, history[0].Prices["FARM"])
		assert.Equal(t, 7.0, history[1].Prices["FARM"])
		assert.Equal(t, 8.0, history[2].Prices["FARM"])
		assert.True(t, history[1].Timestamp.Equal(history[2].Timestamp))
	})

	t.Run("last update round trip", func(t *testing.T) {
		ts := time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC)
		require.NoError(t, store.SaveLastUpdate(ctx, ts))

		got, err := store.LoadLastUpdate(ctx)
		require.NoError(t, err)
		assert.True(t, ts.Equal(got))
	})
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Initialize(context.Background()))
	runStoreSuite(t, store)

	require.NoError(t, store.RegisterTokens(context.Background(), []models.MTokenPriceConfig{{Symbol: "FARM"}}))
	assert.Len(t, store.Tokens(), 1)
}

func TestSQLiteStore(t *testing.T) {
	cfg := &models.MConfig{Storage: models.MStorageConfig{
		DBType: DBTypeSQLite,
		DBPath: filepath.Join(t.TempDir(), "gamefi.db"),
	}}

	store, err := NewSQLiteStore(cfg, testLogger())
	require.NoError(t, err)
	require.NoError(t, store.Initialize(context.Background()))
	t.Cleanup(func() { store.Close() })

	runStoreSuite(t, store)

	require.NoError(t, store.RegisterTokens(context.Background(), []models.MTokenPriceConfig{
		{Symbol: "FARM", BasePrice: 1.25, Volatility: 0.08, MinPrice: 0.1, MaxPrice: 10},
	}))
	var count int
	require.NoError(t, store.DB.QueryRow(`SELECT COUNT(*) FROM tokens`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	cfg := &models.MConfig{Storage: models.MStorageConfig{DBPath: filepath.Join(t.TempDir(), "reopen.db")}}

	first, err := NewSQLiteStore(cfg, testLogger())
	require.NoError(t, err)
	require.NoError(t, first.Initialize(ctx))
	require.NoError(t, first.AppendHistory(ctx, historyEntry(1, 2), 288))
	require.NoError(t, first.Close())

	second, err := NewSQLiteStore(cfg, testLogger())
	require.NoError(t, err)
	require.NoError(t, second.Initialize(ctx))
	defer second.Close()

	history, err := second.LoadHistory(ctx)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("GAMEFI_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("GAMEFI_TEST_REDIS_ADDR not set")
	}

	cfg := &models.MConfig{Storage: models.MStorageConfig{
		RedisAddr: addr,
		KeyPrefix: "gamefi-test-" + time.Now().Format("150405.000000"),
	}}
	store, err := NewRedisStore(cfg, testLogger())
	require.NoError(t, err)
	require.NoError(t, store.Initialize(context.Background()))
	t.Cleanup(func() {
		ctx := context.Background()
		store.Client.Del(ctx, store.key("prices"), store.key("history"), store.key("last_update"))
		store.Close()
	})

	runStoreSuite(t, store)
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("GAMEFI_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("GAMEFI_TEST_POSTGRES_DSN not set")
	}

	cfg := &models.MConfig{Storage: models.MStorageConfig{DBConnectionString: dsn}}
	store, err := NewPostgresStore(cfg, testLogger())
	require.NoError(t, err)
	store.Schema = "gamefi_test_" + time.Now().Format("150405")
	require.NoError(t, store.Initialize(context.Background()))
	t.Cleanup(func() {
		store.DB.Exec(`DROP SCHEMA "` + store.Schema + `" CASCADE`)
		store.Close()
	})

	runStoreSuite(t, store)
}

func TestNewPriceStore(t *testing.T) {
	log := testLogger()

	s, err := NewPriceStore(&models.MConfig{Storage: models.MStorageConfig{DBType: "memory"}}, log)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = NewPriceStore(&models.MConfig{Storage: models.MStorageConfig{DBPath: "x.db"}}, log)
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)

	_, err = NewPriceStore(&models.MConfig{Storage: models.MStorageConfig{DBType: "redis"}}, log)
	assert.Error(t, err)

	_, err = NewPriceStore(&models.MConfig{Storage: models.MStorageConfig{DBType: "mongo"}}, log)
	assert.Error(t, err)
}

func TestSanitizeIdentifier(t *testing.T) {
	assert.Equal(t, "gamefi_market", sanitizeIdentifier("gamefi-market"))
	assert.Equal(t, "gamefi", sanitizeIdentifier(""))
}
