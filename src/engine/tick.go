package engine

import (
	"context"
	"math"
	"time"

	"gamefi-market/src/models"
	"gamefi-market/src/utils"
)

// -----------------------------------------------------------------------------

// UpdatePrices advances every token by one random-walk step, persists the
// result and notifies subscribers. The returned table is also what
// GetCurrentPrices reports afterwards, whatever the store did.
func (e *PriceEngine) UpdatePrices(ctx context.Context) map[string]models.MPriceData {
	e.tickMu.Lock()
	defer e.tickMu.Unlock()

	start := time.Now()
	now := e.now().UTC()

	e.mu.RLock()
	current := models.ClonePrices(e.prices)
	e.mu.RUnlock()

	next := make(map[string]models.MPriceData, len(e.tokens))
	entry := models.MPriceHistoryEntry{
		Timestamp: now,
		Prices:    make(map[string]float64, len(e.tokens)),
		Volumes:   make(map[string]int64, len(e.tokens)),
	}

	e.rngMu.Lock()
	for _, t := range e.tokens {
		p := e.step(t, current[t.Symbol], now)
		next[t.Symbol] = p
		entry.Prices[t.Symbol] = p.Price
		entry.Volumes[t.Symbol] = p.Volume24h
	}
	e.rngMu.Unlock()

	e.mu.Lock()
	e.prices = next
	e.history.Append(entry)
	e.lastUpdate = now
	e.mu.Unlock()

	if err := e.Store.SavePrices(ctx, next); err != nil {
		e.storeFailed("save_prices", err)
	}
	if err := e.Store.AppendHistory(ctx, entry, e.capacity); err != nil {
		e.storeFailed("append_history", err)
	}
	if err := e.Store.SaveLastUpdate(ctx, now); err != nil {
		e.storeFailed("save_last_update", err)
	}

	for sym, p := range next {
		e.metrics.SetPrice(sym, p.Price)
	}

	subscribers, failed := e.notify(next)

	elapsed := time.Since(start).Seconds()
	e.metrics.ObserveTick(elapsed)
	e.publish(models.MPriceSnapshot{
		Prices:    next,
		Timestamp: now,
		Metrics: models.MTickMetrics{
			TickDurationSeconds: elapsed,
			Tokens:              len(next),
			Subscribers:         subscribers,
			FailedSubscribers:   failed,
		},
	})

	e.Logger.Debug("Tick complete: %d tokens, %d/%d subscribers failed, %.4fs", len(next), failed, subscribers, elapsed)
	return models.ClonePrices(next)
}

// -----------------------------------------------------------------------------

// step computes one token's next record. The caller holds rngMu.
func (e *PriceEngine) step(t models.MTokenPriceConfig, prev models.MPriceData, now time.Time) models.MPriceData {
	current := t.BasePrice
	previous := t.BasePrice
	volume := prev.Volume24h
	if prev.Symbol != "" {
		current = prev.Price
		previous = prev.PreviousPrice
	}

	changePercent := standardNormal(e.rng) * t.Volatility
	price := clamp(current*(1+changePercent), t.MinPrice, t.MaxPrice)
	// rounding may cross a bound that is not a whole cent
	price = clamp(round2(price), t.MinPrice, t.MaxPrice)

	change := 0.0
	if previous > 0 {
		change = round2((price - previous) / previous * 100)
	}

	jitter := e.rng.Float64()*2*utils.VolumeJitter - utils.VolumeJitter
	newVolume := math.Max(utils.VolumeFloor, float64(volume)*(1+jitter))

	return models.MPriceData{
		Symbol:        t.Symbol,
		Price:         price,
		PreviousPrice: current,
		Change24h:     change,
		Volume24h:     int64(newVolume),
		Timestamp:     now,
	}
}
