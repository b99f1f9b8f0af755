package storage

import (
	"context"
	"sync"
	"time"

	"gamefi-market/src/models"
)

// -----------------------------------------------------------------------------

// MemoryStore keeps engine state in process memory. Used for tests and the
// offline simulator; state is lost on exit.
type MemoryStore struct {
	mu         sync.RWMutex
	prices     map[string]models.MPriceData
	history    []models.MPriceHistoryEntry
	lastUpdate time.Time
	tokens     []models.MTokenPriceConfig
}

// -----------------------------------------------------------------------------

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{prices: make(map[string]models.MPriceData)}
}

// -----------------------------------------------------------------------------

func (m *MemoryStore) Initialize(ctx context.Context) error {
	return nil
}

// -----------------------------------------------------------------------------

func (m *MemoryStore) LoadPrices(ctx context.Context) (map[string]models.MPriceData, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return models.ClonePrices(m.prices), nil
}

// -----------------------------------------------------------------------------

func (m *MemoryStore) SavePrices(ctx context.Context, prices map[string]models.MPriceData) error {
	m.mu.Lock()
	m.prices = models.ClonePrices(prices)
	m.mu.Unlock()
	return nil
}

// -----------------------------------------------------------------------------

func (m *MemoryStore) LoadHistory(ctx context.Context) ([]models.MPriceHistoryEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.MPriceHistoryEntry, len(m.history))
	copy(out, m.history)
	return out, nil
}

// -----------------------------------------------------------------------------

func (m *MemoryStore) AppendHistory(ctx context.Context, entry models.MPriceHistoryEntry, capacity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.history = append(m.history, entry)
	if capacity > 0 && len(m.history) > capacity {
		m.history = append([]models.MPriceHistoryEntry(nil), m.history[len(m.history)-capacity:]...)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (m *MemoryStore) LoadLastUpdate(ctx context.Context) (time.Time, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastUpdate, nil
}

// -----------------------------------------------------------------------------

func (m *MemoryStore) SaveLastUpdate(ctx context.Context, t time.Time) error {
	m.mu.Lock()
	m.lastUpdate = t
	m.mu.Unlock()
	return nil
}

// -----------------------------------------------------------------------------

// RegisterTokens records the token catalogue
func (m *MemoryStore) RegisterTokens(ctx context.Context, tokens []models.MTokenPriceConfig) error {
	m.mu.Lock()
	m.tokens = append([]models.MTokenPriceConfig(nil), tokens...)
	m.mu.Unlock()
	return nil
}

// -----------------------------------------------------------------------------

// Tokens returns the registered token catalogue
func (m *MemoryStore) Tokens() []models.MTokenPriceConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.MTokenPriceConfig(nil), m.tokens...)
}

// -----------------------------------------------------------------------------

func (m *MemoryStore) Close() error {
	return nil
}
