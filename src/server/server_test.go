package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamefi-market/src/engine"
	"gamefi-market/src/logger"
	"gamefi-market/src/metrics"
	"gamefi-market/src/models"
	"gamefi-market/src/storage"
)

func testConfig() *models.MConfig {
	return &models.MConfig{
		Name: "test", Host: "127.0.0.1", Port: 8099, LogLevel: "ERROR",
		Engine: models.MEngineConfig{TickIntervalSeconds: 300, HistoryCapacity: 288, Seed: 7},
		Tokens: []models.MTokenPriceConfig{
			{Symbol: "FARM", BasePrice: 1.25, Volatility: 0.08, MinPrice: 0.5, MaxPrice: 5},
			{Symbol: "LAND", BasePrice: 15, Volatility: 0.05, MinPrice: 5, MaxPrice: 50},
		},
		AMM: models.MAMMConfig{FeePercent: 0.3, DefaultSlippagePercent: 0.5},
	}
}

func newTestServer(t *testing.T) (*APIServer, *engine.PriceEngine) {
	t.Helper()
	cfg := testConfig()
	log := logger.NewLoggerWithWriter(io.Discard, "CRITICAL", "test")

	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)

	eng := engine.NewPriceEngine(cfg, storage.NewMemoryStore(), log, engine.WithMetrics(m))
	require.NoError(t, eng.Initialize(context.Background()))
	t.Cleanup(eng.Stop)

	s := NewAPIServer(cfg, Dependencies{
		Engine:   eng,
		Metrics:  m,
		Gatherer: reg,
		Pools: []models.MPool{
			{Name: "USDG-FARM", QuoteSymbol: "USDG", BaseSymbol: "FARM", ReserveIn: 100000, ReserveOut: 80000},
		},
	}, log)
	t.Cleanup(func() { s.Stop() })
	return s, eng
}

func do(t *testing.T, s *APIServer, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

// -----------------------------------------------------------------------------

func TestPriceEndpoints(t *testing.T) {
	s, _ := newTestServer(t)

	w := do(t, s, http.MethodGet, "/api/prices", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var prices struct {
		Prices map[string]models.MPriceData `json:"prices"`
	}
	decode(t, w, &prices)
	assert.Equal(t, 1.25, prices.Prices["FARM"].Price)

	w = do(t, s, http.MethodGet, "/api/prices/NOPE", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var unknown map[string]interface{}
	decode(t, w, &unknown)
	assert.Equal(t, 1.0, unknown["price"])
	assert.Equal(t, 0.0, unknown["change_24h"])
	assert.Equal(t, false, unknown["known"])

	w = do(t, s, http.MethodGet, "/api/tokens", nil)
	var tokens []models.MTokenPriceConfig
	decode(t, w, &tokens)
	assert.Len(t, tokens, 2)
}

// -----------------------------------------------------------------------------

func TestTickChartAndHistory(t *testing.T) {
	s, eng := newTestServer(t)

	for i := 0; i < 3; i++ {
		w := do(t, s, http.MethodPost, "/api/engine/tick", nil)
		require.Equal(t, http.StatusOK, w.Code)
	}
	assert.Len(t, eng.GetHistory(), 3)

	w := do(t, s, http.MethodGet, "/api/chart?hours=24", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var chart []map[string]interface{}
	decode(t, w, &chart)
	require.Len(t, chart, 3)
	assert.Contains(t, chart[0], "FARM")
	assert.Contains(t, chart[0], "time")
	assert.Contains(t, chart[0], "volume")

	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodGet, "/api/chart?hours=abc", nil).Code)

	w = do(t, s, http.MethodGet, "/api/history", nil)
	var history []models.MPriceHistoryEntry
	decode(t, w, &history)
	assert.Len(t, history, 3)
}

// -----------------------------------------------------------------------------

func TestCandlesAndStats(t *testing.T) {
	s, _ := newTestServer(t)
	do(t, s, http.MethodPost, "/api/engine/tick", nil)
	do(t, s, http.MethodPost, "/api/engine/tick", nil)

	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/api/candles/NOPE", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodGet, "/api/candles/FARM?window=x", nil).Code)

	w := do(t, s, http.MethodGet, "/api/candles/FARM?window=1h", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var candles []models.MCandle
	decode(t, w, &candles)
	assert.NotEmpty(t, candles)

	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/api/stats/NOPE", nil).Code)
	w = do(t, s, http.MethodGet, "/api/stats/FARM", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats models.MTokenStats
	decode(t, w, &stats)
	assert.Equal(t, "FARM", stats.Symbol)
	assert.Equal(t, 1, stats.Samples)
}

// -----------------------------------------------------------------------------

func TestEngineStartStop(t *testing.T) {
	s, eng := newTestServer(t)

	w := do(t, s, http.MethodPost, "/api/engine/start", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, eng.IsRunning())

	w = do(t, s, http.MethodPost, "/api/engine/stop", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, eng.IsRunning())
}

// -----------------------------------------------------------------------------

func TestQuoteEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	w := do(t, s, http.MethodPost, "/api/quote", map[string]interface{}{
		"reserve_in": 1000, "reserve_out": 1000, "amount_in": 100, "balance": 50,
	})
	require.Equal(t, http.StatusOK, w.Code)
	var resp quoteResponse
	decode(t, w, &resp)
	assert.InDelta(t, 90.909090, resp.Quote.AmountOut, 1e-5)
	assert.InDelta(t, 9.090909, resp.Quote.PriceImpactPercent, 1e-5)

	codes := map[string]string{}
	for _, warning := range resp.Warnings {
		codes[warning.Code] = warning.Severity
	}
	assert.Equal(t, models.SeverityWarning, codes["price_impact"])
	assert.Equal(t, models.SeverityCritical, codes["insufficient_balance"])

	w = do(t, s, http.MethodPost, "/api/quote", map[string]interface{}{"pool": "USDG-FARM", "amount_in": 10})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &resp)
	assert.Equal(t, "USDG-FARM", resp.Pool)
	assert.Empty(t, resp.Warnings)

	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodPost, "/api/quote", map[string]interface{}{"pool": "X", "amount_in": 1}).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPost, "/api/quote", map[string]interface{}{"pool": "USDG-FARM", "amount_in": 0}).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPost, "/api/quote", map[string]interface{}{"amount_in": 1}).Code)
}

// -----------------------------------------------------------------------------

func TestPoolsHealthAndMetrics(t *testing.T) {
	s, _ := newTestServer(t)

	w := do(t, s, http.MethodGet, "/api/pools", nil)
	var pools []poolView
	decode(t, w, &pools)
	require.Len(t, pools, 1)
	assert.Equal(t, 0.8, pools[0].SpotPrice)

	w = do(t, s, http.MethodGet, "/api/health", nil)
	var health map[string]interface{}
	decode(t, w, &health)
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, false, health["engine_running"])

	do(t, s, http.MethodPost, "/api/engine/tick", nil)
	w = do(t, s, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "gamefi_engine_ticks_total 1")
}

// -----------------------------------------------------------------------------

func TestWebSocketStream(t *testing.T) {
	s, _ := newTestServer(t)
	s.startHub()

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var msg models.MLatestData
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "INITIAL", msg.Type)
	assert.Len(t, msg.Prices, 2)

	require.NoError(t, conn.WriteJSON(models.MSubscribeCommand{Command: "subscribe", Symbols: []string{"FARM"}}))
	msg = models.MLatestData{}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "INITIAL", msg.Type)
	assert.Len(t, msg.Prices, 1)
	assert.Contains(t, msg.Prices, "FARM")

	s.Broadcast(models.MPriceSnapshot{
		Timestamp: time.Now(),
		Prices: map[string]models.MPriceData{
			"FARM": {Symbol: "FARM", Price: 1.3},
			"LAND": {Symbol: "LAND", Price: 15.2},
		},
	})
	msg = models.MLatestData{}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "UPDATE", msg.Type)
	assert.Equal(t, map[string]models.MPriceData{"FARM": {Symbol: "FARM", Price: 1.3}}, msg.Prices)

	require.Eventually(t, func() bool { return s.connections.Load() == 1 }, time.Second, 10*time.Millisecond)
}

// -----------------------------------------------------------------------------

func TestConsumeForwardsSnapshots(t *testing.T) {
	s, eng := newTestServer(t)
	s.startHub()

	updates, cancel := eng.SubscribeChannel(4)
	done := make(chan struct{})
	go func() {
		s.Consume(context.Background(), updates)
		close(done)
	}()

	eng.UpdatePrices(context.Background())
	require.Eventually(t, func() bool {
		s.stateMutex.RLock()
		defer s.stateMutex.RUnlock()
		return s.latestState.Type == "UPDATE" && len(s.latestState.Prices) == 2
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	<-done
}
