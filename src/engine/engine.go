// Package engine simulates GameFi token prices with a clamped Gaussian random
// walk, keeps a bounded tick history and fans every tick out to subscribers.
package engine

import (
	"context"
	"sync"
	"time"

	"gamefi-market/src/helpers"
	"gamefi-market/src/interfaces"
	"gamefi-market/src/logger"
	"gamefi-market/src/metrics"
	"gamefi-market/src/models"
	"gamefi-market/src/storage"
	"gamefi-market/src/utils"
)

// Chart volume modes (engine.chart_volume)
const (
	ChartVolumeRandom   = "random"
	ChartVolumeRecorded = "recorded"
)

// -----------------------------------------------------------------------------

// PriceEngine owns the live price table and the tick history
type PriceEngine struct {
	Config *models.MConfig
	Store  interfaces.IPriceStore
	Logger *logger.Logger

	tokens      []models.MTokenPriceConfig
	tokenIndex  map[string]models.MTokenPriceConfig
	interval    time.Duration
	capacity    int
	chartVolume string

	rng        RandomSource
	rngMu      sync.Mutex
	chartRng   RandomSource
	chartMu    sync.Mutex
	now        func() time.Time
	metrics    *metrics.Metrics
	marketOpen func(time.Time) bool
	errors     *helpers.ErrorHandler

	// tickMu serialises ticks; mu guards the state they produce
	tickMu     sync.Mutex
	mu         sync.RWMutex
	prices     map[string]models.MPriceData
	history    *utils.RingBuffer
	lastUpdate time.Time

	subMu       sync.RWMutex
	subscribers []subscription
	channels    []channelSubscription

	runMu   sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// -----------------------------------------------------------------------------

// NewPriceEngine builds an engine for cfg.Tokens. A nil store falls back to memory.
func NewPriceEngine(cfg *models.MConfig, store interfaces.IPriceStore, log *logger.Logger, opts ...Option) *PriceEngine {
	if log == nil {
		log = logger.NewLogger(cfg.LogLevel, "PriceEngine")
	}
	if store == nil {
		store = storage.NewMemoryStore()
	}

	interval := time.Duration(cfg.Engine.TickIntervalSeconds) * time.Second
	if interval <= 0 {
		interval = utils.DefaultTickInterval
	}

	capacity := cfg.Engine.HistoryCapacity
	if capacity <= 0 {
		capacity = utils.CalculateHistoryCapacity(utils.DefaultHistoryHours, interval)
	}

	chartVolume := cfg.Engine.ChartVolume
	if chartVolume != ChartVolumeRecorded {
		chartVolume = ChartVolumeRandom
	}

	e := &PriceEngine{
		Config:      cfg,
		Store:       store,
		Logger:      log,
		tokens:      append([]models.MTokenPriceConfig(nil), cfg.Tokens...),
		tokenIndex:  make(map[string]models.MTokenPriceConfig, len(cfg.Tokens)),
		interval:    interval,
		capacity:    capacity,
		chartVolume: chartVolume,
		now:         time.Now,
		errors:      helpers.NewErrorHandler(log),
		prices:      make(map[string]models.MPriceData),
		history:     utils.NewRingBuffer(capacity),
	}
	for _, t := range e.tokens {
		e.tokenIndex[t.Symbol] = t
	}

	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = NewSeededSource(cfg.Engine.Seed)
	}
	if e.chartRng == nil {
		e.chartRng = newChartSource(cfg.Engine.Seed)
	}

	return e
}

// -----------------------------------------------------------------------------

// Initialize restores persisted state and creates missing tokens at their base
// price. Store read failures are logged and the engine starts fresh.
func (e *PriceEngine) Initialize(ctx context.Context) error {
	e.tickMu.Lock()
	defer e.tickMu.Unlock()

	if reg, ok := e.Store.(interfaces.ITokenRegistry); ok {
		if err := reg.RegisterTokens(ctx, e.tokens); err != nil {
			e.storeFailed("register_tokens", err)
		}
	}

	loaded, err := e.Store.LoadPrices(ctx)
	if err != nil {
		e.Logger.Warning("Could not load persisted prices, starting fresh: %v", err)
		loaded = nil
	}

	history, err := e.Store.LoadHistory(ctx)
	if err != nil {
		e.Logger.Warning("Could not load price history: %v", err)
		history = nil
	}

	lastUpdate, err := e.Store.LoadLastUpdate(ctx)
	if err != nil {
		e.Logger.Warning("Could not load last update time: %v", err)
		lastUpdate = time.Time{}
	}

	now := e.now().UTC()
	prices := make(map[string]models.MPriceData, len(e.tokens))
	created := 0

	for _, t := range e.tokens {
		if p, ok := loaded[t.Symbol]; ok {
			prices[t.Symbol] = p
			continue
		}
		prices[t.Symbol] = models.MPriceData{
			Symbol:        t.Symbol,
			Price:         t.BasePrice,
			PreviousPrice: t.BasePrice,
			Change24h:     0,
			Volume24h:     int64(utils.InitialVolumeMin + int(e.random()*utils.InitialVolumeSpan)),
			Timestamp:     now,
		}
		created++
	}

	if created > 0 {
		if err := e.Store.SavePrices(ctx, prices); err != nil {
			e.storeFailed("save_prices", err)
		}
	}

	e.mu.Lock()
	e.prices = prices
	e.history.Load(history)
	e.lastUpdate = lastUpdate
	e.mu.Unlock()

	for sym, p := range prices {
		e.metrics.SetPrice(sym, p.Price)
	}

	e.Logger.Info("Initialized %d tokens (%d new), %d history entries", len(prices), created, e.history.Size())
	return nil
}

// -----------------------------------------------------------------------------

// GetCurrentPrices returns a copy of the live price table
func (e *PriceEngine) GetCurrentPrices() map[string]models.MPriceData {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return models.ClonePrices(e.prices)
}

// -----------------------------------------------------------------------------

// GetTokenPrice returns the current price, or 1 for an unknown symbol
func (e *PriceEngine) GetTokenPrice(symbol string) float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if p, ok := e.prices[symbol]; ok {
		return p.Price
	}
	return 1
}

// -----------------------------------------------------------------------------

// GetPriceChange returns the last change percent, or 0 for an unknown symbol
func (e *PriceEngine) GetPriceChange(symbol string) float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if p, ok := e.prices[symbol]; ok {
		return p.Change24h
	}
	return 0
}

// -----------------------------------------------------------------------------

func (e *PriceEngine) GetTokenConfig(symbol string) (models.MTokenPriceConfig, bool) {
	t, ok := e.tokenIndex[symbol]
	return t, ok
}

// -----------------------------------------------------------------------------

// GetAllConfigs returns token profiles in configuration order
func (e *PriceEngine) GetAllConfigs() []models.MTokenPriceConfig {
	return append([]models.MTokenPriceConfig(nil), e.tokens...)
}

// -----------------------------------------------------------------------------

// GetHistory returns the tick history, oldest first
func (e *PriceEngine) GetHistory() []models.MPriceHistoryEntry {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.history.GetAll()
}

// -----------------------------------------------------------------------------

func (e *PriceEngine) LastUpdate() time.Time {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lastUpdate
}

// -----------------------------------------------------------------------------

func (e *PriceEngine) Interval() time.Duration {
	return e.interval
}

// -----------------------------------------------------------------------------

// ErrorCount returns subscriber and store failures seen so far
func (e *PriceEngine) ErrorCount() int {
	return e.errors.ErrorCount()
}

// -----------------------------------------------------------------------------

func (e *PriceEngine) random() float64 {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	return e.rng.Float64()
}

// -----------------------------------------------------------------------------

func (e *PriceEngine) storeFailed(operation string, err error) {
	e.errors.Handle(helpers.NewStorageError(operation, err), "PriceEngine")
	e.metrics.StoreFailed(operation)
}
