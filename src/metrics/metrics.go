// Package metrics exposes prometheus collectors for the engine, the AMM
// endpoints and the websocket hub. A nil *Metrics is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "gamefi"

// Metrics groups every collector of the service
type Metrics struct {
	TicksTotal         prometheus.Counter
	TickDuration       prometheus.Histogram
	SubscriberFailures prometheus.Counter
	DroppedSnapshots   prometheus.Counter
	StoreErrors        *prometheus.CounterVec
	TokenPrice         *prometheus.GaugeVec
	QuotesTotal        *prometheus.CounterVec
	WebsocketClients   prometheus.Gauge
}

// -----------------------------------------------------------------------------

// NewMetrics creates the collectors and registers them on reg (skipped when reg is nil)
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TicksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "engine", Name: "ticks_total",
			Help: "Number of completed price ticks.",
		}),
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "engine", Name: "tick_duration_seconds",
			Help:    "Duration of a tick including persistence and notification.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
		SubscriberFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "engine", Name: "subscriber_failures_total",
			Help: "Subscriber callbacks that returned an error or panicked.",
		}),
		DroppedSnapshots: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "engine", Name: "dropped_snapshots_total",
			Help: "Snapshots dropped because a channel subscriber was full.",
		}),
		StoreErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "store", Name: "errors_total",
			Help: "Persistence failures by operation.",
		}, []string{"operation"}),
		TokenPrice: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "engine", Name: "token_price",
			Help: "Current simulated token price.",
		}, []string{"symbol"}),
		QuotesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "amm", Name: "quotes_total",
			Help: "Swap quotes served, by pool.",
		}, []string{"pool"}),
		WebsocketClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "server", Name: "websocket_clients",
			Help: "Connected websocket clients.",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.TicksTotal, m.TickDuration, m.SubscriberFailures, m.DroppedSnapshots,
			m.StoreErrors, m.TokenPrice, m.QuotesTotal, m.WebsocketClients,
		)
	}
	return m
}

// -----------------------------------------------------------------------------

func (m *Metrics) ObserveTick(seconds float64) {
	if m == nil {
		return
	}
	m.TicksTotal.Inc()
	m.TickDuration.Observe(seconds)
}

func (m *Metrics) SubscriberFailed() {
	if m == nil {
		return
	}
	m.SubscriberFailures.Inc()
}

func (m *Metrics) SnapshotDropped() {
	if m == nil {
		return
	}
	m.DroppedSnapshots.Inc()
}

func (m *Metrics) StoreFailed(operation string) {
	if m == nil {
		return
	}
	m.StoreErrors.WithLabelValues(operation).Inc()
}

func (m *Metrics) SetPrice(symbol string, price float64) {
	if m == nil {
		return
	}
	m.TokenPrice.WithLabelValues(symbol).Set(price)
}

func (m *Metrics) QuoteServed(pool string) {
	if m == nil {
		return
	}
	if pool == "" {
		pool = "custom"
	}
	m.QuotesTotal.WithLabelValues(pool).Inc()
}

func (m *Metrics) SetWebsocketClients(n int) {
	if m == nil {
		return
	}
	m.WebsocketClients.Set(float64(n))
}
