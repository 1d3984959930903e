// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/tradehub/internal/platform/config"
	"github.com/taibuivan/tradehub/internal/platform/constants"
	"github.com/taibuivan/tradehub/internal/platform/metrics"
	"github.com/taibuivan/tradehub/internal/platform/middleware"
	"github.com/taibuivan/tradehub/internal/trading/catalog"
	"github.com/taibuivan/tradehub/internal/users/auth"
	"github.com/taibuivan/tradehub/internal/users/onboarding"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in cmd/api with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Health holds the /health, /ready and /internal/db probes.
	Health HealthHandlers

	// Metrics serves the Prometheus exposition.
	Metrics http.Handler

	// SessionRefresh renews near-expiry session cookies before routing.
	// Optional.
	SessionRefresh func(http.Handler) http.Handler

	// Auth handles /signup, /signin and /signout.
	Auth *auth.Handler

	// Onboarding handles the onboarding steps and the gated pages.
	Onboarding *onboarding.Handler

	// Catalog serves the bearer-only trading catalogue.
	Catalog *catalog.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(ctx context.Context, cfg *config.Config, log *slog.Logger, collector *metrics.Collector, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log, collector))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.NewRateLimiter(ctx, constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst).Middleware)
	r.Use(middleware.PanicRecovery())
	if h.SessionRefresh != nil {
		r.Use(h.SessionRefresh)
	}
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Health.Liveness)
	r.Get("/ready", h.Health.Readiness)
	if h.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.Metrics)
	}
	r.With(middleware.RequireAPIKey(cfg.InternalAPIKey)).Get("/internal/db", h.Health.Database)

	// # Application API
	h.Auth.RegisterRoutes(r)
	r.Mount("/onboarding", h.Onboarding.Routes())
	r.Mount("/v1", h.Catalog.Routes())

	// # Pages
	h.Onboarding.PageRoutes(r)

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
