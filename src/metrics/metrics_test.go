package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.ObserveTick(0.01)
	m.ObserveTick(0.02)
	m.SubscriberFailed()
	m.StoreFailed("save_prices")
	m.SetPrice("FARM", 1.27)
	m.QuoteServed("")
	m.SetWebsocketClients(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.TicksTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SubscriberFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreErrors.WithLabelValues("save_prices")))
	assert.Equal(t, 1.27, testutil.ToFloat64(m.TokenPrice.WithLabelValues("FARM")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.QuotesTotal.WithLabelValues("custom")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.WebsocketClients))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveTick(1)
		m.SubscriberFailed()
		m.SnapshotDropped()
		m.StoreFailed("x")
		m.SetPrice("FARM", 1)
		m.QuoteServed("p")
		m.SetWebsocketClients(1)
	})
}
