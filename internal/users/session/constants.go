// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import "time"

// # Cookie Policy

const (
	// CookieName is the only piece of client-side session state.
	CookieName = "mth_session"

	// CookiePath scopes the cookie to the whole site.
	CookiePath = "/"

	// SignUpMaxAge is the lifetime of a cookie issued at sign-up. Sign-up
	// sessions are provisional until onboarding completes.
	SignUpMaxAge = 7 * 24 * time.Hour

	// SignInMaxAge is the lifetime of a cookie issued at sign-in or refresh.
	SignInMaxAge = 30 * 24 * time.Hour

	// BindingTTL is how long the server remembers the refresh token behind a cookie.
	BindingTTL = SignInMaxAge

	// DefaultRefreshLeeway is how close to expiry an access token must be
	// before the refresher renews it.
	DefaultRefreshLeeway = 10 * time.Minute
)

// # Authentication Failure Reasons
//
// Recorded in logs and metrics only. Clients always see the same 401.

const (
	ReasonMissingCredentials = "missing_credentials"
	ReasonMalformedHeader    = "malformed_header"
	ReasonMalformedToken     = "malformed_token"
	ReasonRejected           = "rejected"
)

// # Refresh Outcomes

const (
	outcomeFresh      = "fresh"
	outcomeRefreshed  = "refreshed"
	outcomeUnreadable = "unreadable"
	outcomeFailed     = "failed"
)
