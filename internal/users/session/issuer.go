// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/taibuivan/tradehub/internal/platform/ctxutil"
	"github.com/taibuivan/tradehub/internal/platform/identity"
	"github.com/taibuivan/tradehub/internal/platform/metrics"
)

// Kind is the path through which a cookie is issued.
type Kind string

const (
	KindSignUp  Kind = "signup"
	KindSignIn  Kind = "signin"
	KindRefresh Kind = "refresh"
)

// MaxAge returns the cookie lifetime of k.
func (k Kind) MaxAge() time.Duration {
	if k == KindSignUp {
		return SignUpMaxAge
	}
	return SignInMaxAge
}

// Issuer writes session cookies.
type Issuer struct {
	secure    bool
	store     RefreshStore
	collector *metrics.Collector
}

// NewIssuer constructs an [Issuer]. secure must be true only in production.
// store may be nil, in which case sessions are never refreshed silently.
func NewIssuer(secure bool, store RefreshStore, collector *metrics.Collector) *Issuer {
	return &Issuer{
		secure:    secure,
		store:     store,
		collector: collector,
	}
}

/*
Issue writes the session cookie for a freshly verified session.

Description: Nothing is written when the session has no access token, as
happens after a sign-up awaiting email confirmation. The refresh token is bound
server-side; a binding failure is logged and the cookie is still issued.

Returns:
  - bool: whether a cookie was written
*/
func (issuer *Issuer) Issue(ctx context.Context, writer http.ResponseWriter, session *identity.Session, kind Kind) bool {
	if !session.Active() {
		return false
	}

	if issuer.store != nil && session.RefreshToken != "" {
		if err := issuer.store.Bind(ctx, session.AccessToken, session.RefreshToken, BindingTTL); err != nil {
			ctxutil.GetLogger(ctx).WarnContext(ctx, "session_binding_failed",
				slog.String("kind", string(kind)),
				slog.String("error", err.Error()),
			)
		}
	}

	http.SetCookie(writer, issuer.Cookie(session.AccessToken, kind.MaxAge()))
	issuer.collector.RecordCookieIssued(string(kind))

	return true
}

/*
Clear expires the session cookie and forgets the refresh binding of accessToken.
accessToken may be empty.
*/
func (issuer *Issuer) Clear(ctx context.Context, writer http.ResponseWriter, accessToken string) {
	if issuer.store != nil && accessToken != "" {
		if err := issuer.store.Unbind(ctx, accessToken); err != nil {
			ctxutil.GetLogger(ctx).WarnContext(ctx, "session_unbind_failed", slog.String("error", err.Error()))
		}
	}

	cookie := issuer.Cookie("", 0)
	cookie.MaxAge = -1
	cookie.Expires = time.Unix(0, 0)
	http.SetCookie(writer, cookie)
}

// Cookie builds the session cookie with the fixed attribute policy.
func (issuer *Issuer) Cookie(value string, maxAge time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     CookiePath,
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   issuer.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
