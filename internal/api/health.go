// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/taibuivan/tradehub/internal/platform/respond"
)

// probeTimeout bounds each dependency ping.
const probeTimeout = 2 * time.Second

// HealthDependencies holds the injectable dependency checkers for the probes.
type HealthDependencies struct {
	// CheckDatabase pings the PostgreSQL pool.
	CheckDatabase func(ctx context.Context) error

	// CheckCache pings the Redis client.
	CheckCache func(ctx context.Context) error
}

// HealthHandlers are the probe endpoints.
type HealthHandlers struct {
	// Liveness handles GET /health.
	Liveness http.HandlerFunc

	// Readiness handles GET /ready.
	Readiness http.HandlerFunc

	// Database handles GET /internal/db. Mount it behind the API key guard.
	Database http.HandlerFunc
}

type healthHandler struct {
	dependencies HealthDependencies
	logger       *slog.Logger
}

type checkResult struct {
	Name  string `json:"name"`
	IsOK  bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// NewHealthHandlers creates the probe http.HandlerFuncs.
func NewHealthHandlers(deps HealthDependencies, logger *slog.Logger) HealthHandlers {
	handler := &healthHandler{dependencies: deps, logger: logger}
	return HealthHandlers{
		Liveness:  handler.liveness,
		Readiness: handler.readiness,
		Database:  handler.database,
	}
}

// liveness handles GET /health (Liveness probe).
func (handler *healthHandler) liveness(writer http.ResponseWriter, _ *http.Request) {
	respond.OK(writer, map[string]string{"status": "ok"})
}

// readiness handles GET /ready (Readiness probe).
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	results := make([]checkResult, 0, 2)
	isSystemReady := true

	for _, probe := range []struct {
		name  string
		check func(ctx context.Context) error
	}{
		{"postgres", handler.dependencies.CheckDatabase},
		{"redis", handler.dependencies.CheckCache},
	} {
		if probe.check == nil {
			continue
		}
		result := handler.run(request.Context(), probe.name, probe.check)
		isSystemReady = isSystemReady && result.IsOK
		results = append(results, result)
	}

	responseStatus, httpStatus := "ready", http.StatusOK
	if !isSystemReady {
		responseStatus, httpStatus = "degraded", http.StatusServiceUnavailable
	}

	respond.JSON(writer, httpStatus, respond.SuccessEnvelope{Data: map[string]any{
		"status": responseStatus,
		"checks": results,
	}})
}

// database handles GET /internal/db. The error text stays in the logs.
func (handler *healthHandler) database(writer http.ResponseWriter, request *http.Request) {
	if handler.dependencies.CheckDatabase == nil {
		respond.JSON(writer, http.StatusServiceUnavailable, respond.SuccessEnvelope{Data: map[string]string{"database": "unconfigured"}})
		return
	}

	result := handler.run(request.Context(), "postgres", handler.dependencies.CheckDatabase)
	if !result.IsOK {
		respond.JSON(writer, http.StatusServiceUnavailable, respond.SuccessEnvelope{Data: map[string]string{"database": "unreachable"}})
		return
	}

	respond.OK(writer, map[string]string{"database": "reachable"})
}

func (handler *healthHandler) run(ctx context.Context, name string, check func(ctx context.Context) error) checkResult {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	result := checkResult{Name: name, IsOK: true}
	if err := check(ctx); err != nil {
		result.IsOK = false
		result.Error = err.Error()
		handler.logger.ErrorContext(ctx, "readiness_check_failed", slog.String("dependency", name), slog.Any("error", err))
	}
	return result
}
