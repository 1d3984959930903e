// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/taibuivan/tradehub/internal/api"
	"github.com/taibuivan/tradehub/internal/platform/config"
	"github.com/taibuivan/tradehub/internal/platform/constants"
	"github.com/taibuivan/tradehub/internal/platform/identity"
	"github.com/taibuivan/tradehub/internal/platform/identity/gotrue"
	"github.com/taibuivan/tradehub/internal/platform/identity/local"
	"github.com/taibuivan/tradehub/internal/platform/metrics"
	"github.com/taibuivan/tradehub/internal/platform/middleware"
	"github.com/taibuivan/tradehub/internal/platform/migration"
	pgstore "github.com/taibuivan/tradehub/internal/platform/postgres"
	redisstore "github.com/taibuivan/tradehub/internal/platform/redis"
	"github.com/taibuivan/tradehub/internal/platform/sec"
	"github.com/taibuivan/tradehub/internal/trading/catalog"
	"github.com/taibuivan/tradehub/internal/users/auth"
	"github.com/taibuivan/tradehub/internal/users/onboarding"
	"github.com/taibuivan/tradehub/internal/users/session"
)

var skipMigrations bool

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	cmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "start without applying pending migrations")
	return cmd
}

// runServe wires every dependency and blocks until a shutdown signal.
//
// # Startup Sequence
//
//  1. Load configuration and build the logger.
//  2. Connect to PostgreSQL (pgxpool) and Redis.
//  3. Run database migrations (idempotent).
//  4. Build the metrics registry.
//  5. Select the identity backend.
//  6. Wire HTTP handlers.
//  7. Start the HTTP server with graceful shutdown.
func runServe(_ *cobra.Command, _ []string) error {
	// ── 1. Configuration & Logger ─────────────────────────────────────────
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// Root context cancelled on SIGTERM/SIGINT. It also stops the rate limiter janitor.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// Use a 30s deadline so misconfiguration is caught quickly rather than hanging.
	startupCtx, startupCancel := context.WithTimeout(ctx, 30*time.Second)
	defer startupCancel()

	// ── 2. PostgreSQL & Redis ─────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, pgstore.Options{MaxConns: cfg.DatabaseMaxConns}, log)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, cfg.RedisPoolSize, log)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 3. Migrations ─────────────────────────────────────────────────────
	if !skipMigrations {
		if err := migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}

	// ── 4. Metrics ────────────────────────────────────────────────────────
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	// ── 5. Identity Backend ───────────────────────────────────────────────
	provider, err := newIdentityProvider(cfg, pool, rdb)
	if err != nil {
		return fmt.Errorf("initialize identity backend: %w", err)
	}

	// ── 6. Domain Wiring ──────────────────────────────────────────────────
	health := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		},
		CheckCache: func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		},
	}, log)

	bindings := session.NewRefreshStore(rdb)
	issuer := session.NewIssuer(cfg.IsProduction(), bindings, collector)
	refresher := session.NewRefresher(provider, bindings, issuer, cfg.SessionRefreshLeeway, collector)

	cookieAuthenticator := session.NewAuthenticator(provider, session.BearerOrCookie, collector)
	bearerAuthenticator := session.NewAuthenticator(provider, session.BearerOnly, collector)

	profiles := onboarding.NewProfileRepository(pool)
	mirror := onboarding.NewMirror(profiles, provider, collector)
	gate := onboarding.NewGate(cookieAuthenticator, profiles)

	authService := auth.NewService(provider, profiles, mirror)
	catalogService := catalog.NewService(catalog.NewPostgresRepository(pool))

	handlers := api.Handlers{
		Health:         health,
		Metrics:        metrics.Handler(registry),
		SessionRefresh: refresher.Middleware,
		Auth:           auth.NewHandler(authService, issuer, originPolicy(cfg, "POST, OPTIONS"), collector),
		Onboarding:     onboarding.NewHandler(mirror, gate, cookieAuthenticator, originPolicy(cfg, "GET, POST, OPTIONS"), collector),
		Catalog:        catalog.NewHandler(catalogService, bearerAuthenticator, originPolicy(cfg, "GET, OPTIONS"), collector),
	}

	// ── 7. HTTP Server & Graceful Shutdown ────────────────────────────────
	server := api.NewServer(ctx, cfg, log, collector, handlers)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
		return err
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("server stopped cleanly")
	return nil
}

// newIdentityProvider returns the identity collaborator selected by IDENTITY_BACKEND.
func newIdentityProvider(cfg *config.Config, pool *pgxpool.Pool, rdb *redis.Client) (identity.Provider, error) {
	switch cfg.IdentityBackend {
	case config.BackendLocal:
		tokens, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
		if err != nil {
			return nil, err
		}
		return local.NewProvider(local.NewAccountRepository(pool), local.NewTokenRepository(rdb), tokens), nil
	default:
		httpClient := &http.Client{Timeout: cfg.AuthTimeout}
		return gotrue.New(cfg.AuthURL, cfg.AuthPublicKey, cfg.AuthServiceKey, gotrue.WithHTTPClient(httpClient)), nil
	}
}

// originPolicy builds the CORS policy of one route family.
func originPolicy(cfg *config.Config, methods string) middleware.OriginPolicy {
	return middleware.OriginPolicy{
		AllowList: cfg.AllowedOrigins,
		Methods:   methods,
		Headers:   constants.DefaultAllowHeaders,
	}
}
