package engine

import (
	"context"
	"time"
)

// -----------------------------------------------------------------------------

// Start runs a catch-up tick when the last update is older than one interval,
// then ticks on a timer until Stop or ctx cancellation. Calling Start on a
// running engine does nothing; after ctx is cancelled Start may be called again.
func (e *PriceEngine) Start(ctx context.Context) error {
	e.runMu.Lock()
	if e.running {
		e.runMu.Unlock()
		e.Logger.Debug("Price engine already running")
		return nil
	}

	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	e.cancel = cancel
	e.done = done
	e.running = true
	go e.loop(loopCtx, done)
	e.runMu.Unlock()

	// subscribers of the catch-up tick may query the engine, so runMu is released
	last := e.LastUpdate()
	if last.IsZero() || e.now().Sub(last) >= e.interval {
		e.Logger.Info("Running catch-up tick (last update: %v)", last)
		e.UpdatePrices(ctx)
	}

	e.Logger.Info("Price engine started (interval %v, %d tokens)", e.interval, len(e.tokens))
	return nil
}

// -----------------------------------------------------------------------------

// Stop cancels the timer and waits for the loop to exit. Safe when not running
// and after the start context was cancelled. It waits for an in-flight tick,
// so subscribers must not call it synchronously from their callback.
func (e *PriceEngine) Stop() {
	e.runMu.Lock()
	if !e.running {
		e.runMu.Unlock()
		return
	}
	cancel, done := e.cancel, e.done
	e.clearRunState()
	e.runMu.Unlock()

	cancel()
	<-done
	e.Logger.Info("Price engine stopped")
}

// -----------------------------------------------------------------------------

func (e *PriceEngine) IsRunning() bool {
	e.runMu.Lock()
	defer e.runMu.Unlock()
	return e.running
}

// -----------------------------------------------------------------------------

// clearRunState marks the engine stopped. Callers hold runMu.
func (e *PriceEngine) clearRunState() {
	e.running = false
	e.cancel = nil
	e.done = nil
}

// -----------------------------------------------------------------------------

func (e *PriceEngine) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer e.loopExited(done)

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if e.marketOpen != nil && !e.marketOpen(e.now()) {
				e.Logger.Debug("Market closed, tick skipped")
				continue
			}
			e.UpdatePrices(ctx)
		}
	}
}

// -----------------------------------------------------------------------------

// loopExited clears the run state when the loop ended on its own context.
// A loop already detached by Stop, or replaced by a later Start, leaves it alone.
func (e *PriceEngine) loopExited(done chan struct{}) {
	e.runMu.Lock()
	defer e.runMu.Unlock()

	if e.done != done {
		return
	}
	e.cancel()
	e.clearRunState()
	e.Logger.Info("Price engine stopped (context done)")
}
