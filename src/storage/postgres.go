package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gamefi-market/src/logger"
	"gamefi-market/src/models"

	_ "github.com/lib/pq"
)

// -----------------------------------------------------------------------------

type PostgresStore struct {
	Config *models.MConfig
	DB     *sql.DB
	Schema string
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

// NewPostgresStore builds a store whose schema is named after the running executable
func NewPostgresStore(cfg *models.MConfig, log *logger.Logger) (*PostgresStore, error) {
	if cfg.Storage.DBConnectionString == "" {
		return nil, fmt.Errorf("postgres store requires storage.db_connection_string")
	}

	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable name: %w", err)
	}
	name := filepath.Base(exe)
	name = strings.TrimSuffix(name, filepath.Ext(name))

	return &PostgresStore{
		Config: cfg,
		Schema: sanitizeIdentifier(name),
		Logger: log,
	}, nil
}

// -----------------------------------------------------------------------------

// sanitizeIdentifier keeps letters, digits and underscores
func sanitizeIdentifier(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "gamefi"
	}
	return b.String()
}

// -----------------------------------------------------------------------------

func (d *PostgresStore) table(name string) string {
	return fmt.Sprintf(`"%s"."%s"`, d.Schema, name)
}

// -----------------------------------------------------------------------------

func (d *PostgresStore) Initialize(ctx context.Context) error {
	db, err := sql.Open("postgres", d.Config.Storage.DBConnectionString)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return err
	}

	d.DB = db

	if _, err := d.DB.ExecContext(ctx, fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS "%s"`, d.Schema)); err != nil {
		return fmt.Errorf("failed to create schema %s: %w", d.Schema, err)
	}

	if err := d.createTables(ctx); err != nil {
		return err
	}

	d.Logger.Info("PostgresStore initialized successfully (Schema: %s)", d.Schema)
	return nil
}

// -----------------------------------------------------------------------------

func (d *PostgresStore) createTables(ctx context.Context) error {
	queries := []struct {
		name  string
		query string
	}{
		{"price_state", fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				symbol TEXT PRIMARY KEY,
				price DOUBLE PRECISION NOT NULL,
				previous_price DOUBLE PRECISION NOT NULL,
				change_24h DOUBLE PRECISION NOT NULL,
				volume_24h BIGINT NOT NULL,
				timestamp BIGINT NOT NULL
			);`, d.table("price_state"))},
		{"price_history", fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGSERIAL PRIMARY KEY,
				ts BIGINT NOT NULL,
				prices TEXT NOT NULL,
				volumes TEXT
			);`, d.table("price_history"))},
		{"engine_meta", fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				key TEXT PRIMARY KEY,
				value TEXT NOT NULL
			);`, d.table("engine_meta"))},
		{"tokens", fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				symbol TEXT PRIMARY KEY,
				base_price DOUBLE PRECISION,
				volatility DOUBLE PRECISION,
				min_price DOUBLE PRECISION,
				max_price DOUBLE PRECISION,
				updated_at TIMESTAMPTZ
			);`, d.table("tokens"))},
	}

	for _, q := range queries {
		if _, err := d.DB.ExecContext(ctx, q.query); err != nil {
			return fmt.Errorf("failed to create %s: %w", q.name, err)
		}
	}
	return nil
}

// -----------------------------------------------------------------------------

func (d *PostgresStore) LoadPrices(ctx context.Context) (map[string]models.MPriceData, error) {
	rows, err := d.DB.QueryContext(ctx, fmt.Sprintf(
		`SELECT symbol, price, previous_price, change_24h, volume_24h, timestamp FROM %s`, d.table("price_state")))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	prices := make(map[string]models.MPriceData)
	for rows.Next() {
		var p models.MPriceData
		var ts int64
		if err := rows.Scan(&p.Symbol, &p.Price, &p.PreviousPrice, &p.Change24h, &p.Volume24h, &ts); err != nil {
			return nil, err
		}
		p.Timestamp = fromUnixNano(ts)
		prices[p.Symbol] = p
	}
	return prices, rows.Err()
}

// -----------------------------------------------------------------------------

func (d *PostgresStore) SavePrices(ctx context.Context, prices map[string]models.MPriceData) error {
	tx, err := d.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (symbol, price, previous_price, change_24h, volume_24h, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (symbol) DO UPDATE SET
			price = EXCLUDED.price,
			previous_price = EXCLUDED.previous_price,
			change_24h = EXCLUDED.change_24h,
			volume_24h = EXCLUDED.volume_24h,
			timestamp = EXCLUDED.timestamp
	`, d.table("price_state")))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range prices {
		if _, err := stmt.ExecContext(ctx, p.Symbol, p.Price, p.PreviousPrice, p.Change24h, p.Volume24h, toUnixNano(p.Timestamp)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// -----------------------------------------------------------------------------

func (d *PostgresStore) LoadHistory(ctx context.Context) ([]models.MPriceHistoryEntry, error) {
	rows, err := d.DB.QueryContext(ctx, fmt.Sprintf(
		`SELECT ts, prices, COALESCE(volumes, '') FROM %s ORDER BY id ASC`, d.table("price_history")))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []models.MPriceHistoryEntry
	for rows.Next() {
		var ts int64
		var prices, volumes string
		if err := rows.Scan(&ts, &prices, &volumes); err != nil {
			return nil, err
		}
		entry, err := decodeHistoryEntry(ts, prices, volumes)
		if err != nil {
			return nil, err
		}
		history = append(history, entry)
	}
	return history, rows.Err()
}

// -----------------------------------------------------------------------------

func (d *PostgresStore) AppendHistory(ctx context.Context, entry models.MPriceHistoryEntry, capacity int) error {
	prices, volumes, err := encodeHistoryMaps(entry)
	if err != nil {
		return err
	}

	tx, err := d.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	historyTable := d.table("price_history")
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (ts, prices, volumes) VALUES ($1, $2, $3)
	`, historyTable), toUnixNano(entry.Timestamp), prices, volumes); err != nil {
		return err
	}

	if capacity > 0 {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`
			DELETE FROM %s WHERE id NOT IN (
				SELECT id FROM %s ORDER BY id DESC LIMIT $1
			)`, historyTable, historyTable), capacity); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// -----------------------------------------------------------------------------

func (d *PostgresStore) LoadLastUpdate(ctx context.Context) (time.Time, error) {
	var value string
	err := d.DB.QueryRowContext(ctx, fmt.Sprintf(`SELECT value FROM %s WHERE key = $1`, d.table("engine_meta")), lastUpdateKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return parseLastUpdate(value)
}

// -----------------------------------------------------------------------------

func (d *PostgresStore) SaveLastUpdate(ctx context.Context, t time.Time) error {
	_, err := d.DB.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`, d.table("engine_meta")), lastUpdateKey, formatLastUpdate(t))
	return err
}

// -----------------------------------------------------------------------------

// RegisterTokens upserts the token catalogue
func (d *PostgresStore) RegisterTokens(ctx context.Context, tokens []models.MTokenPriceConfig) error {
	if len(tokens) == 0 {
		return nil
	}

	tx, err := d.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (symbol, base_price, volatility, min_price, max_price, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (symbol) DO UPDATE SET
			base_price = EXCLUDED.base_price,
			volatility = EXCLUDED.volatility,
			min_price = EXCLUDED.min_price,
			max_price = EXCLUDED.max_price,
			updated_at = EXCLUDED.updated_at
	`, d.table("tokens")))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, t := range tokens {
		if _, err := stmt.ExecContext(ctx, t.Symbol, t.BasePrice, t.Volatility, t.MinPrice, t.MaxPrice, time.Now().UTC()); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// -----------------------------------------------------------------------------

func (d *PostgresStore) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}
