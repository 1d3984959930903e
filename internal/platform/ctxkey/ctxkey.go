// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxkey names the per-request values carried in [context.Context].
// Read and write them through ctxutil, never directly.
package ctxkey

// Key values can only be built in this package, so other packages cannot collide with them.
type Key struct{ name string }

func (k Key) String() string {
	return "tradehub." + k.name
}

var (
	// KeyRequestID holds the X-Request-ID correlation value.
	KeyRequestID = Key{"request_id"}

	// KeyLogger holds the per-request *slog.Logger.
	KeyLogger = Key{"logger"}

	// KeyUser holds the *identity.User resolved from a bearer token or the session cookie.
	KeyUser = Key{"user"}

	// KeyOnboardingState holds the onboarding state the page gate decided on.
	KeyOnboardingState = Key{"onboarding_state"}
)
