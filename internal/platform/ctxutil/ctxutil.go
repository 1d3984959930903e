// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil stores and reads the per-request values named in ctxkey.
// Every getter returns a usable zero value when nothing was stored.
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/tradehub/internal/platform/ctxkey"
	"github.com/taibuivan/tradehub/internal/platform/identity"
)

// # Tracing

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID returns "" outside a request.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger falls back to [slog.Default].
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// # Identity

func WithAuthUser(ctx context.Context, user *identity.User) context.Context {
	return context.WithValue(ctx, ctxkey.KeyUser, user)
}

// GetAuthUser returns nil for anonymous requests.
func GetAuthUser(ctx context.Context) *identity.User {
	user, _ := ctx.Value(ctxkey.KeyUser).(*identity.User)
	return user
}

// WithOnboardingState records the state a gate decided on, so the page
// handler renders the same state the redirect was based on.
func WithOnboardingState(ctx context.Context, state string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyOnboardingState, state)
}

// GetOnboardingState reports the recorded state and whether one was recorded.
func GetOnboardingState(ctx context.Context) (string, bool) {
	state, ok := ctx.Value(ctxkey.KeyOnboardingState).(string)
	return state, ok
}
