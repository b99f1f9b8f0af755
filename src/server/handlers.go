package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gamefi-market/src/amm"
	"gamefi-market/src/models"
)

const (
	defaultChartHours   = 24.0
	defaultCandleWindow = time.Hour
)

// -----------------------------------------------------------------------------
// Prices
// -----------------------------------------------------------------------------

func (s *APIServer) getPrices(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"prices":      s.deps.Engine.GetCurrentPrices(),
		"last_update": s.deps.Engine.LastUpdate(),
	})
}

// -----------------------------------------------------------------------------

// getTokenPrice answers unknown symbols with the engine defaults
func (s *APIServer) getTokenPrice(c *gin.Context) {
	symbol := c.Param("symbol")
	_, known := s.deps.Engine.GetTokenConfig(symbol)

	c.JSON(http.StatusOK, gin.H{
		"symbol":     symbol,
		"known":      known,
		"price":      s.deps.Engine.GetTokenPrice(symbol),
		"change_24h": s.deps.Engine.GetPriceChange(symbol),
	})
}

// -----------------------------------------------------------------------------

func (s *APIServer) getChart(c *gin.Context) {
	hours := defaultChartHours
	if raw := c.Query("hours"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "hours must be a non-negative number"})
			return
		}
		hours = v
	}
	c.JSON(http.StatusOK, s.deps.Engine.GetChartData(hours))
}

// -----------------------------------------------------------------------------

func (s *APIServer) getHistory(c *gin.Context) {
	c.JSON(http.StatusOK, s.deps.Engine.GetHistory())
}

// -----------------------------------------------------------------------------

func (s *APIServer) getTokens(c *gin.Context) {
	c.JSON(http.StatusOK, s.deps.Engine.GetAllConfigs())
}

// -----------------------------------------------------------------------------

func (s *APIServer) getCandles(c *gin.Context) {
	symbol := c.Param("symbol")
	if _, ok := s.deps.Engine.GetTokenConfig(symbol); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown token " + symbol})
		return
	}

	window := defaultCandleWindow
	if raw := c.Query("window"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d < time.Minute {
			c.JSON(http.StatusBadRequest, gin.H{"error": "window must be a duration of at least 1m"})
			return
		}
		window = d
	}

	c.JSON(http.StatusOK, s.deps.Analyzer.Candles(s.deps.Engine.GetHistory(), symbol, window))
}

// -----------------------------------------------------------------------------

func (s *APIServer) getStats(c *gin.Context) {
	symbol := c.Param("symbol")
	token, ok := s.deps.Engine.GetTokenConfig(symbol)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown token " + symbol})
		return
	}
	c.JSON(http.StatusOK, s.deps.Analyzer.TokenStats(s.deps.Engine.GetHistory(), token))
}

// -----------------------------------------------------------------------------
// Engine control
// -----------------------------------------------------------------------------

func (s *APIServer) postTick(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"prices": s.deps.Engine.UpdatePrices(c.Request.Context())})
}

// -----------------------------------------------------------------------------

func (s *APIServer) postStart(c *gin.Context) {
	if err := s.deps.Engine.Start(s.deps.EngineContext); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"running": s.deps.Engine.IsRunning()})
}

// -----------------------------------------------------------------------------

func (s *APIServer) postStop(c *gin.Context) {
	s.deps.Engine.Stop()
	c.JSON(http.StatusOK, gin.H{"running": s.deps.Engine.IsRunning()})
}

// -----------------------------------------------------------------------------
// AMM
// -----------------------------------------------------------------------------

type poolView struct {
	models.MPool
	SpotPrice float64 `json:"spot_price"`
}

func (s *APIServer) getPools(c *gin.Context) {
	views := make([]poolView, 0, len(s.deps.Pools))
	for _, p := range s.deps.Pools {
		views = append(views, poolView{MPool: p, SpotPrice: amm.QuoteSwap(p.ReserveIn, p.ReserveOut, 0, 0, 0).SpotPrice})
	}
	c.JSON(http.StatusOK, views)
}

// -----------------------------------------------------------------------------

type quoteRequest struct {
	Pool              string   `json:"pool"`
	ReserveIn         float64  `json:"reserve_in"`
	ReserveOut        float64  `json:"reserve_out"`
	AmountIn          float64  `json:"amount_in"`
	SlippageTolerance *float64 `json:"slippage_tolerance_percent"`
	Balance           *float64 `json:"balance"`
}

type quoteResponse struct {
	Pool     string                `json:"pool,omitempty"`
	Quote    models.MSwapQuote     `json:"quote"`
	Warnings []models.MSwapWarning `json:"warnings"`
}

func (s *APIServer) postQuote(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := amm.ValidateAmount(req.AmountIn); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pool := models.MPool{ReserveIn: req.ReserveIn, ReserveOut: req.ReserveOut}
	if req.Pool != "" {
		p, err := amm.FindPool(s.deps.Pools, req.Pool)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		pool = p
	} else if pool.ReserveIn <= 0 || pool.ReserveOut <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pool or positive reserve_in/reserve_out required"})
		return
	}

	slippage := s.Config.AMM.DefaultSlippagePercent
	if req.SlippageTolerance != nil {
		slippage = *req.SlippageTolerance
	}
	balance := -1.0
	if req.Balance != nil {
		balance = *req.Balance
	}

	quote := s.deps.Calculator.Quote(pool, req.AmountIn, slippage)
	s.deps.Metrics.QuoteServed(pool.Name)

	c.JSON(http.StatusOK, quoteResponse{
		Pool:     pool.Name,
		Quote:    quote,
		Warnings: amm.Assess(quote, amm.AssessParams{SlippageTolerancePercent: slippage, Balance: balance}),
	})
}

// -----------------------------------------------------------------------------
// Health and metrics
// -----------------------------------------------------------------------------

func (s *APIServer) getHealth(c *gin.Context) {
	s.stateMutex.RLock()
	timestamp := s.latestState.Timestamp
	s.stateMutex.RUnlock()

	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"connections":    s.connections.Load(),
		"latest_update":  timestamp,
		"engine_running": s.deps.Engine.IsRunning(),
	})
}

// -----------------------------------------------------------------------------

func (s *APIServer) getMetrics() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(s.deps.Gatherer, promhttp.HandlerOpts{}))
}
