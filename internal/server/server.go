// Package server provides the HTTP API for Kaiseki.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hyperjump/kaiseki/internal/config"
	"github.com/hyperjump/kaiseki/internal/explain"
	"github.com/hyperjump/kaiseki/internal/metrics"
	"github.com/hyperjump/kaiseki/internal/safety"
	"github.com/hyperjump/kaiseki/internal/store"
)

// Server is the HTTP server for the Kaiseki API.
type Server struct {
	engine  *explain.Engine
	store   *store.Store
	guard   *safety.Guard
	monitor *metrics.Monitor
	config  *config.ServerConfig
	logger  *zap.Logger
	server  *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(
	engine *explain.Engine,
	st *store.Store,
	guard *safety.Guard,
	monitor *metrics.Monitor,
	cfg *config.ServerConfig,
	logger *zap.Logger,
) *Server {
	return &Server{
		engine:  engine,
		store:   st,
		guard:   guard,
		monitor: monitor,
		config:  cfg,
		logger:  logger,
	}
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Router builds the chi router. Exposed separately so tests can drive
// handlers without binding a socket.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/explain", s.handleExplain)
	r.Post("/api/v1/validate", s.handleValidate)
	r.Post("/api/v1/corpus", s.handleCorpusIngest)
	r.Delete("/api/v1/corpus", s.handleCorpusReset)
	r.Get("/api/v1/corpus/stats", s.handleCorpusStats)
	r.Get("/api/v1/metrics", s.handleMetrics)
	r.Get("/api/v1/metrics/history", s.handleMetricsHistory)
	r.Get("/health", s.handleHealth)
	return r
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
