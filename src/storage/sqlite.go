package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gamefi-market/src/logger"
	"gamefi-market/src/models"

	_ "modernc.org/sqlite"
)

// -----------------------------------------------------------------------------

type SQLiteStore struct {
	Config *models.MConfig
	DB     *sql.DB
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewSQLiteStore(cfg *models.MConfig, log *logger.Logger) (*SQLiteStore, error) {
	if cfg.Storage.DBPath == "" {
		return nil, fmt.Errorf("sqlite store requires storage.db_path")
	}
	return &SQLiteStore{
		Config: cfg,
		Logger: log,
	}, nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteStore) Initialize(ctx context.Context) error {
	db, err := sql.Open("sqlite", d.Config.Storage.DBPath)
	if err != nil {
		return err
	}

	// One writer keeps SQLite from returning SQLITE_BUSY under the tick loop
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return err
	}

	d.DB = db

	// PRAGMA optimizations
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode = WAL;"); err != nil {
		d.Logger.Warning("Failed to set WAL mode: %v", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA synchronous = NORMAL;"); err != nil {
		d.Logger.Warning("Failed to set synchronous mode: %v", err)
	}

	return d.createTables(ctx)
}

// -----------------------------------------------------------------------------

func (d *SQLiteStore) createTables(ctx context.Context) error {
	statements := map[string]string{
		"price_state": `
			CREATE TABLE IF NOT EXISTS price_state (
				symbol TEXT PRIMARY KEY,
				price REAL NOT NULL,
				previous_price REAL NOT NULL,
				change_24h REAL NOT NULL,
				volume_24h INTEGER NOT NULL,
				timestamp INTEGER NOT NULL
			);`,
		"price_history": `
			CREATE TABLE IF NOT EXISTS price_history (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				ts INTEGER NOT NULL,
				prices TEXT NOT NULL,
				volumes TEXT
			);`,
		"engine_meta": `
			CREATE TABLE IF NOT EXISTS engine_meta (
				key TEXT PRIMARY KEY,
				value TEXT NOT NULL
			);`,
		"tokens": `
			CREATE TABLE IF NOT EXISTS tokens (
				symbol TEXT PRIMARY KEY,
				base_price REAL,
				volatility REAL,
				min_price REAL,
				max_price REAL,
				updated_at INTEGER
			);`,
	}

	for _, table := range []string{"price_state", "price_history", "engine_meta", "tokens"} {
		if _, err := d.DB.ExecContext(ctx, statements[table]); err != nil {
			return fmt.Errorf("failed to create %s: %w", table, err)
		}
	}
	return nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteStore) LoadPrices(ctx context.Context) (map[string]models.MPriceData, error) {
	rows, err := d.DB.QueryContext(ctx, `
		SELECT symbol, price, previous_price, change_24h, volume_24h, timestamp FROM price_state
	`)
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

func (d *SQLiteStore) SavePrices(ctx context.Context, prices map[string]models.MPriceData) error {
	tx, err := d.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO price_state (symbol, price, previous_price, change_24h, volume_24h, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (symbol) DO UPDATE SET
			price = excluded.price,
			previous_price = excluded.previous_price,
			change_24h = excluded.change_24h,
			volume_24h = excluded.volume_24h,
			timestamp = excluded.timestamp
	`)
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

func (d *SQLiteStore) LoadHistory(ctx context.Context) ([]models.MPriceHistoryEntry, error) {
	rows, err := d.DB.QueryContext(ctx, `SELECT ts, prices, COALESCE(volumes, '') FROM price_history ORDER BY id ASC`)
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

func (d *SQLiteStore) AppendHistory(ctx context.Context, entry models.MPriceHistoryEntry, capacity int) error {
	prices, volumes, err := encodeHistoryMaps(entry)
	if err != nil {
		return err
	}

	tx, err := d.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO price_history (ts, prices, volumes) VALUES (?, ?, ?)`,
		toUnixNano(entry.Timestamp), prices, volumes,
	); err != nil {
		return err
	}

	if capacity > 0 {
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM price_history WHERE id NOT IN (
				SELECT id FROM price_history ORDER BY id DESC LIMIT ?
			)`, capacity); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// -----------------------------------------------------------------------------

func (d *SQLiteStore) LoadLastUpdate(ctx context.Context) (time.Time, error) {
	var value string
	err := d.DB.QueryRowContext(ctx, `SELECT value FROM engine_meta WHERE key = ?`, lastUpdateKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return parseLastUpdate(value)
}

// -----------------------------------------------------------------------------

func (d *SQLiteStore) SaveLastUpdate(ctx context.Context, t time.Time) error {
	_, err := d.DB.ExecContext(ctx, `
		INSERT INTO engine_meta (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
	`, lastUpdateKey, formatLastUpdate(t))
	return err
}

// -----------------------------------------------------------------------------

// RegisterTokens upserts the token catalogue so external tools can read it
func (d *SQLiteStore) RegisterTokens(ctx context.Context, tokens []models.MTokenPriceConfig) error {
	if len(tokens) == 0 {
		return nil
	}

	tx, err := d.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO tokens (symbol, base_price, volatility, min_price, max_price, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (symbol) DO UPDATE SET
			base_price = excluded.base_price,
			volatility = excluded.volatility,
			min_price = excluded.min_price,
			max_price = excluded.max_price,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC().UnixNano()
	for _, t := range tokens {
		if _, err := stmt.ExecContext(ctx, t.Symbol, t.BasePrice, t.Volatility, t.MinPrice, t.MaxPrice, now); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// -----------------------------------------------------------------------------

func (d *SQLiteStore) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}
