// Package api serves the detection engine over HTTP.
package api

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/Veraticus/fintrack/internal/api/handlers"
	"github.com/Veraticus/fintrack/internal/api/middleware"
)

// Config holds API server configuration. With a Certificate the server
// speaks HTTPS only.
type Config struct {
	Certificate    *tls.Certificate
	AllowedOrigins []string
	Port           int
}

// DefaultConfig returns the defaults for the API server.
func DefaultConfig() Config {
	return Config{
		Port:           8080,
		AllowedOrigins: middleware.DefaultCORSConfig().AllowedOrigins,
	}
}

// Server is the HTTP API server.
type Server struct {
	router     chi.Router
	engine     handlers.Detection
	httpServer *http.Server
	logger     *slog.Logger
	config     Config
	mu         sync.Mutex
	closed     bool
}

// NewServer creates a new API server backed by engine.
func NewServer(cfg Config, engine handlers.Detection, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config: cfg,
		router: chi.NewRouter(),
		logger: logger,
		engine: engine,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures global middleware.
func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(chimw.Recoverer)

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowedOrigins = s.config.AllowedOrigins
	s.router.Use(middleware.CORS(corsConfig))

	s.router.Use(middleware.Logging(s.logger))
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check (no /api prefix - for load balancers)
	s.router.Get("/health", handlers.NewHealthHandler().ServeHTTP)

	s.router.Route("/api/owners/{ownerID}", func(r chi.Router) {
		duplicatesHandler := handlers.NewDuplicatesHandler(s.engine)
		r.Get("/duplicates", duplicatesHandler.Scan)
		r.Post("/duplicates/check", duplicatesHandler.Check)

		suggestionsHandler := handlers.NewSuggestionsHandler(s.engine)
		r.Get("/suggest", suggestionsHandler.Suggest)
		r.Get("/category-patterns", suggestionsHandler.Patterns)
	})
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	if s.config.Certificate != nil {
		httpServer.TLSConfig = &tls.Config{
			Certificates: []tls.Certificate{*s.config.Certificate},
			MinVersion:   tls.VersionTLS12,
		}
	}
	s.httpServer = httpServer
	s.mu.Unlock()

	s.logger.Info("starting API server", "addr", addr, "tls", s.config.Certificate != nil)

	var err error
	if httpServer.TLSConfig != nil {
		err = httpServer.ListenAndServeTLS("", "")
	} else {
		err = httpServer.ListenAndServe()
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server. A server shut down before
// Start never listens.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")

	s.mu.Lock()
	s.closed = true
	httpServer := s.httpServer
	s.mu.Unlock()

	if httpServer == nil {
		return nil
	}

	return httpServer.Shutdown(ctx)
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}
