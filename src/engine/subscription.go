package engine

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"gamefi-market/src/models"
)

// Subscriber receives the price table after every tick. A returned error or a
// panic is logged and does not affect other subscribers.
type Subscriber func(prices map[string]models.MPriceData) error

type subscription struct {
	id string
	fn Subscriber
}

type channelSubscription struct {
	id string
	ch chan models.MPriceSnapshot
}

// -----------------------------------------------------------------------------

// Subscribe registers fn and returns its unsubscribe function.
// Callbacks run synchronously, in registration order, at the end of each tick.
func (e *PriceEngine) Subscribe(fn Subscriber) func() {
	id := uuid.NewString()

	e.subMu.Lock()
	e.subscribers = append(e.subscribers, subscription{id: id, fn: fn})
	e.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.subMu.Lock()
			defer e.subMu.Unlock()
			for i, s := range e.subscribers {
				if s.id == id {
					e.subscribers = append(e.subscribers[:i], e.subscribers[i+1:]...)
					return
				}
			}
		})
	}
}

// -----------------------------------------------------------------------------

// SubscribeChannel returns a buffered snapshot channel. Sends never block the
// tick: when the buffer is full the snapshot is dropped for that subscriber.
// The returned function unsubscribes and closes the channel.
func (e *PriceEngine) SubscribeChannel(buffer int) (<-chan models.MPriceSnapshot, func()) {
	if buffer <= 0 {
		buffer = 1
	}
	sub := channelSubscription{id: uuid.NewString(), ch: make(chan models.MPriceSnapshot, buffer)}

	e.subMu.Lock()
	e.channels = append(e.channels, sub)
	e.subMu.Unlock()

	var once sync.Once
	return sub.ch, func() {
		once.Do(func() {
			e.subMu.Lock()
			defer e.subMu.Unlock()
			for i, c := range e.channels {
				if c.id == sub.id {
					e.channels = append(e.channels[:i], e.channels[i+1:]...)
					break
				}
			}
			close(sub.ch)
		})
	}
}

// -----------------------------------------------------------------------------

// SubscriberCount returns callback and channel subscribers
func (e *PriceEngine) SubscriberCount() int {
	e.subMu.RLock()
	defer e.subMu.RUnlock()
	return len(e.subscribers) + len(e.channels)
}

// -----------------------------------------------------------------------------

// notify runs the callbacks and reports how many ran and how many failed
func (e *PriceEngine) notify(prices map[string]models.MPriceData) (int, int) {
	e.subMu.RLock()
	subs := append([]subscription(nil), e.subscribers...)
	e.subMu.RUnlock()

	failed := 0
	for _, s := range subs {
		snapshot := models.ClonePrices(prices)
		err := e.errors.SafeCall(fmt.Sprintf("subscriber %s", s.id), func() error {
			return s.fn(snapshot)
		})
		if err != nil {
			failed++
			e.metrics.SubscriberFailed()
		}
	}
	return len(subs), failed
}

// -----------------------------------------------------------------------------

func (e *PriceEngine) publish(snapshot models.MPriceSnapshot) {
	e.subMu.RLock()
	defer e.subMu.RUnlock()

	for _, c := range e.channels {
		s := snapshot
		s.Prices = models.ClonePrices(snapshot.Prices)
		select {
		case c.ch <- s:
		default:
			e.metrics.SnapshotDropped()
			e.Logger.Debug("Subscriber %s is full, snapshot dropped", c.id)
		}
	}
}
