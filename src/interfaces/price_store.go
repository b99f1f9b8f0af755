package interfaces

import (
	"context"
	"time"

	"gamefi-market/src/models"
)

// -----------------------------------------------------------------------------
// IPriceStore defines the contract for persisting engine state.
// Three logical records: current price table, history log, last update time.
// -----------------------------------------------------------------------------

type IPriceStore interface {

	// Initialize sets up schema, tables or connections.
	Initialize(ctx context.Context) error

	// -----------------------------------------------------------------------------

	// LoadPrices returns the persisted price table (empty map when none).
	LoadPrices(ctx context.Context) (map[string]models.MPriceData, error)

	// SavePrices overwrites the persisted price table.
	SavePrices(ctx context.Context, prices map[string]models.MPriceData) error

	// -----------------------------------------------------------------------------

	// LoadHistory returns the persisted history, oldest first.
	LoadHistory(ctx context.Context) ([]models.MPriceHistoryEntry, error)

	// AppendHistory appends one entry and drops the oldest beyond capacity.
	AppendHistory(ctx context.Context, entry models.MPriceHistoryEntry, capacity int) error

	// -----------------------------------------------------------------------------

	// LoadLastUpdate returns the last tick time; zero time when never updated.
	LoadLastUpdate(ctx context.Context) (time.Time, error)

	// SaveLastUpdate stores the last tick time.
	SaveLastUpdate(ctx context.Context, t time.Time) error

	// -----------------------------------------------------------------------------

	// Close releases the underlying connection.
	Close() error
}

// -----------------------------------------------------------------------------
// ITokenRegistry is implemented by stores that also keep the token catalogue.
// -----------------------------------------------------------------------------

type ITokenRegistry interface {
	RegisterTokens(ctx context.Context, tokens []models.MTokenPriceConfig) error
}
