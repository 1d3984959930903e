// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package session keeps browser sessions alive and tells the API who is calling.

Components:

  - Authenticator: bearer header or session cookie → identity, or one 401.
  - Issuer: writes the mth_session cookie with a fixed attribute policy.
  - Refresher: middleware that renews near-expiry cookies before routing.
  - RefreshStore: server-side binding from a cookie's access token to its refresh token.
*/
package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taibuivan/tradehub/internal/platform/apperr"
	"github.com/taibuivan/tradehub/internal/platform/constants"
	"github.com/taibuivan/tradehub/internal/platform/ctxutil"
	"github.com/taibuivan/tradehub/internal/platform/identity"
	"github.com/taibuivan/tradehub/internal/platform/metrics"
)

// UserResolver verifies an access token with the identity provider.
type UserResolver interface {
	GetUser(ctx context.Context, accessToken string) (*identity.User, error)
}

// Source selects where the authenticator looks for a token.
type Source int

const (
	// BearerOnly accepts the Authorization header only (API-style calls).
	BearerOnly Source = iota

	// BearerOrCookie falls back to the session cookie when no header is sent
	// (browser navigation).
	BearerOrCookie
)

// Authenticator resolves the identity behind a request.
type Authenticator struct {
	resolver  UserResolver
	source    Source
	collector *metrics.Collector
}

// NewAuthenticator constructs an [Authenticator].
func NewAuthenticator(resolver UserResolver, source Source, collector *metrics.Collector) *Authenticator {
	return &Authenticator{
		resolver:  resolver,
		source:    source,
		collector: collector,
	}
}

/*
Authenticate returns the identity behind request.

Description: Missing credentials, a header without the "Bearer " prefix, a
malformed token and a token the provider rejects all produce the same
401 Unauthenticated error. Only logs and metrics see the reason.

Returns:
  - *identity.User: Verified identity, metadata included
  - error: apperr.Unauthenticated, or apperr.Upstream when the provider is unreachable
*/
func (authenticator *Authenticator) Authenticate(request *http.Request) (*identity.User, error) {
	ctx := request.Context()

	token, reason := extractToken(request, authenticator.source == BearerOrCookie)
	if reason != "" {
		return nil, authenticator.fail(ctx, reason)
	}

	user, err := authenticator.resolver.GetUser(ctx, token)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidToken) {
			return nil, authenticator.fail(ctx, ReasonRejected)
		}
		return nil, apperr.Upstream(err)
	}

	if user == nil || user.ID == "" {
		return nil, authenticator.fail(ctx, ReasonRejected)
	}

	return user, nil
}

func (authenticator *Authenticator) fail(ctx context.Context, reason string) error {
	authenticator.collector.RecordAuthFailure(reason)
	ctxutil.GetLogger(ctx).DebugContext(ctx, "authentication_failed", slog.String("reason", reason))
	return apperr.Unauthenticated(errors.New(reason))
}

// PresentedToken returns the access token a request carries, from the
// Authorization header or the session cookie, or "" when there is none.
func PresentedToken(request *http.Request) string {
	token, _ := extractToken(request, true)
	return token
}

// extractToken returns the token or the reason none could be read.
func extractToken(request *http.Request, allowCookie bool) (string, string) {
	header := request.Header.Get(constants.HeaderAuthorization)

	if header == "" {
		if !allowCookie {
			return "", ReasonMissingCredentials
		}
		cookie, err := request.Cookie(CookieName)
		if err != nil || cookie.Value == "" {
			return "", ReasonMissingCredentials
		}
		return validToken(cookie.Value)
	}

	if !strings.HasPrefix(header, constants.BearerPrefix) {
		return "", ReasonMalformedHeader
	}

	return validToken(strings.TrimSpace(strings.TrimPrefix(header, constants.BearerPrefix)))
}

func validToken(token string) (string, string) {
	if token == "" || strings.ContainsAny(token, " \t\r\n") {
		return "", ReasonMalformedToken
	}
	return token, ""
}
