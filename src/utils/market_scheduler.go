package utils

import (
	"sync"
	"time"

	"gamefi-market/src/logger"
)

// MarketScheduler gates timer-driven simulation ticks to the opening hours of
// one or more trading calendars. A scheduler without calendars is always open.
type MarketScheduler struct {
	Calendars []*TradingCalendar
	Logger    *logger.Logger
	mu        sync.RWMutex
}

// -----------------------------------------------------------------------------

func NewMarketScheduler(mics []string, l *logger.Logger) *MarketScheduler {
	ms := &MarketScheduler{Logger: l}
	ms.SetCalendars(mics)
	return ms
}

// -----------------------------------------------------------------------------

// SetCalendars replaces the tracked calendars
func (ms *MarketScheduler) SetCalendars(mics []string) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.Calendars = ms.Calendars[:0]
	seen := make(map[string]bool)
	for _, mic := range mics {
		if mic == "" || seen[mic] {
			continue
		}
		seen[mic] = true
		ms.Calendars = append(ms.Calendars, GetCalendar(mic))
	}

	if ms.Logger != nil {
		ms.Logger.Info("MarketScheduler: tracking %d calendars.", len(ms.Calendars))
	}
}

// -----------------------------------------------------------------------------

// AnyMarketOpen reports whether any tracked market is open at t
func (ms *MarketScheduler) AnyMarketOpen(t time.Time) bool {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	if len(ms.Calendars) == 0 {
		return true
	}

	for _, cal := range ms.Calendars {
		if cal.IsOpenOnMinute(t.UTC()) {
			return true
		}
	}
	return false
}
