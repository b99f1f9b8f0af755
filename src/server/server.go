// Package server exposes the engine and the swap calculator over HTTP and
// streams ticks to WebSocket clients.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"gamefi-market/src/amm"
	"gamefi-market/src/analysis"
	"gamefi-market/src/engine"
	"gamefi-market/src/logger"
	"gamefi-market/src/metrics"
	"gamefi-market/src/models"
)

const shutdownTimeout = 5 * time.Second

// Dependencies are the components the API serves
type Dependencies struct {
	Engine     *engine.PriceEngine
	Calculator *amm.Calculator
	Analyzer   *analysis.AnalysisFacade
	Pools      []models.MPool
	Metrics    *metrics.Metrics
	Gatherer   prometheus.Gatherer
	// EngineContext bounds engines started through the API; Background when nil
	EngineContext context.Context
}

// -----------------------------------------------------------------------------
// APIServer
// -----------------------------------------------------------------------------

type APIServer struct {
	Config *models.MConfig
	Logger *logger.Logger
	deps   Dependencies
	router *gin.Engine
	http   *http.Server

	// WebSocket clients, owned by the hub goroutine
	clients     map[*Client]struct{}
	connections atomic.Int64
	broadcast   chan *models.MLatestData
	register    chan *Client
	unregister  chan *Client
	direct      chan directMessage
	quit        chan struct{}
	hubOnce     sync.Once
	stopOnce    sync.Once
	hubDone     chan struct{}

	// Local cache
	latestState *models.MLatestData
	stateMutex  sync.RWMutex
}

// -----------------------------------------------------------------------------
// Constructor
// -----------------------------------------------------------------------------

func NewAPIServer(cfg *models.MConfig, deps Dependencies, logger *logger.Logger) *APIServer {
	// Set Gin mode
	if !strings.EqualFold(cfg.LogLevel, "DEBUG") {
		gin.SetMode(gin.ReleaseMode)
	}

	if deps.Calculator == nil {
		deps.Calculator = amm.NewCalculator(cfg.AMM)
	}
	if deps.Analyzer == nil {
		deps.Analyzer = analysis.NewAnalysisFacade(logger.Named("Analysis"))
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}
	if deps.EngineContext == nil {
		deps.EngineContext = context.Background()
	}

	s := &APIServer{
		Config:  cfg,
		Logger:  logger,
		deps:    deps,
		router:  gin.Default(),
		clients: make(map[*Client]struct{}),
		// Buffered so a burst of ticks never blocks the engine
		broadcast:  make(chan *models.MLatestData, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		direct:     make(chan directMessage),
		quit:       make(chan struct{}),
		hubDone:    make(chan struct{}),
		latestState: &models.MLatestData{
			Type:   "INITIAL",
			Prices: make(map[string]models.MPriceData),
		},
	}

	// Add CORS Middleware
	s.router.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if strings.HasPrefix(origin, "http://127.0.0.1:") || strings.HasPrefix(origin, "http://localhost:") {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	s.setupRoutes()

	s.http = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// -----------------------------------------------------------------------------
// Route Setup
// -----------------------------------------------------------------------------

func (s *APIServer) setupRoutes() {
	api := s.router.Group("/api")

	// Prices and chart
	api.GET("/prices", s.getPrices)
	api.GET("/prices/:symbol", s.getTokenPrice)
	api.GET("/chart", s.getChart)
	api.GET("/history", s.getHistory)
	api.GET("/tokens", s.getTokens)
	api.GET("/candles/:symbol", s.getCandles)
	api.GET("/stats/:symbol", s.getStats)

	// Engine control
	api.POST("/engine/tick", s.postTick)
	api.POST("/engine/start", s.postStart)
	api.POST("/engine/stop", s.postStop)

	// AMM
	api.GET("/pools", s.getPools)
	api.POST("/quote", s.postQuote)

	api.GET("/health", s.getHealth)
	s.router.GET("/metrics", s.getMetrics())

	// WebSocket endpoint
	s.router.GET("/ws", s.handleWebSocket)
}

// -----------------------------------------------------------------------------
// Server Lifecycle
// -----------------------------------------------------------------------------

// Handler exposes the router, mainly for tests
func (s *APIServer) Handler() http.Handler {
	return s.router
}

// -----------------------------------------------------------------------------

// Start runs the hub and serves HTTP until Stop. Returns nil after Stop.
func (s *APIServer) Start() error {
	s.Logger.Info("Starting server on %s", s.http.Addr)

	s.startHub()

	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// -----------------------------------------------------------------------------

// Stop shuts HTTP down gracefully and disconnects WebSocket clients
func (s *APIServer) Stop() error {
	var err error
	s.stopOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err = s.http.Shutdown(ctx)

		close(s.quit)
		s.hubOnce.Do(func() { close(s.hubDone) })
		<-s.hubDone
	})
	return err
}

// -----------------------------------------------------------------------------

func (s *APIServer) startHub() {
	s.hubOnce.Do(func() {
		go s.handleWebsockets()
	})
}

// -----------------------------------------------------------------------------

// Consume broadcasts every snapshot from updates until it closes or ctx ends
func (s *APIServer) Consume(ctx context.Context, updates <-chan models.MPriceSnapshot) {
	for {
		select {
		case <-ctx.Done():
			return
		case snapshot, ok := <-updates:
			if !ok {
				return
			}
			s.Broadcast(snapshot)
		}
	}
}
