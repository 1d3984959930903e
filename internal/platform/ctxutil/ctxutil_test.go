// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ctxutil_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/tradehub/internal/platform/ctxutil"
	"github.com/taibuivan/tradehub/internal/platform/identity"
)

/*
TestContext_Defaults verifies every getter is safe on an empty context.
*/
func TestContext_Defaults(t *testing.T) {
	ctx := context.Background()

	assert.Empty(t, ctxutil.GetRequestID(ctx))
	assert.Equal(t, slog.Default(), ctxutil.GetLogger(ctx))
	assert.Nil(t, ctxutil.GetAuthUser(ctx))

	_, ok := ctxutil.GetOnboardingState(ctx)
	assert.False(t, ok)
}

/*
TestContext_RoundTrip verifies each value comes back as stored.
*/
func TestContext_RoundTrip(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	user := &identity.User{ID: "user-123", Metadata: identity.Metadata{identity.MetaUsername: "steve"}}

	ctx := ctxutil.WithRequestID(context.Background(), "req-1")
	ctx = ctxutil.WithLogger(ctx, logger)
	ctx = ctxutil.WithAuthUser(ctx, user)
	ctx = ctxutil.WithOnboardingState(ctx, "needs_interests")

	assert.Equal(t, "req-1", ctxutil.GetRequestID(ctx))
	assert.Same(t, logger, ctxutil.GetLogger(ctx))
	assert.Equal(t, "steve", ctxutil.GetAuthUser(ctx).Metadata.Username())

	state, ok := ctxutil.GetOnboardingState(ctx)
	assert.True(t, ok)
	assert.Equal(t, "needs_interests", state)
}

/*
TestContext_NilLogger verifies a stored nil logger still yields a usable one.
*/
func TestContext_NilLogger(t *testing.T) {
	ctx := ctxutil.WithLogger(context.Background(), nil)
	assert.NotNil(t, ctxutil.GetLogger(ctx))
}
