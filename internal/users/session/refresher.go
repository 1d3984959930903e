// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/taibuivan/tradehub/internal/platform/constants"
	"github.com/taibuivan/tradehub/internal/platform/ctxutil"
	"github.com/taibuivan/tradehub/internal/platform/identity"
	"github.com/taibuivan/tradehub/internal/platform/metrics"
	"github.com/taibuivan/tradehub/internal/platform/sec"
)

// SessionRenewer exchanges a refresh token for a new session.
type SessionRenewer interface {
	RefreshSession(ctx context.Context, refreshToken string) (*identity.Session, error)
}

// Refresher keeps session cookies warm. It never rejects a request.
type Refresher struct {
	renewer   SessionRenewer
	store     RefreshStore
	issuer    *Issuer
	leeway    time.Duration
	now       func() time.Time
	collector *metrics.Collector
}

// RefresherOption customises a [Refresher].
type RefresherOption func(*Refresher)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) RefresherOption {
	return func(r *Refresher) {
		r.now = now
	}
}

// NewRefresher constructs a [Refresher]. A non-positive leeway falls back to
// [DefaultRefreshLeeway].
func NewRefresher(renewer SessionRenewer, store RefreshStore, issuer *Issuer, leeway time.Duration, collector *metrics.Collector, opts ...RefresherOption) *Refresher {
	if leeway <= 0 {
		leeway = DefaultRefreshLeeway
	}

	refresher := &Refresher{
		renewer:   renewer,
		store:     store,
		issuer:    issuer,
		leeway:    leeway,
		now:       time.Now,
		collector: collector,
	}

	for _, opt := range opts {
		opt(refresher)
	}

	return refresher
}

/*
Middleware renews the session cookie ahead of routing.

# Flow
 1. Static assets and requests without a session cookie pass untouched.
 2. A cookie whose access token expires later than now + leeway passes untouched.
 3. Otherwise the bound refresh token is exchanged for a new session.
 4. On success the new access token replaces the cookie on the forwarded
    request and is written to the response with the sign-in policy.
 5. On any failure the original request is forwarded as is.
*/
func (refresher *Refresher) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if isStaticAsset(request.URL.Path) {
			next.ServeHTTP(writer, request)
			return
		}

		cookie, err := request.Cookie(CookieName)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(writer, request)
			return
		}

		next.ServeHTTP(writer, refresher.refresh(writer, request, cookie.Value))
	})
}

// refresh returns the request to forward: rewritten on success, the original otherwise.
func (refresher *Refresher) refresh(writer http.ResponseWriter, request *http.Request, accessToken string) *http.Request {
	ctx := request.Context()
	logger := ctxutil.GetLogger(ctx)

	expiresAt, err := sec.PeekExpiry(accessToken)
	if err != nil {
		refresher.collector.RecordSessionRefresh(outcomeUnreadable)
		return request
	}

	if expiresAt.After(refresher.now().Add(refresher.leeway)) {
		refresher.collector.RecordSessionRefresh(outcomeFresh)
		return request
	}

	refreshToken, err := refresher.store.Lookup(ctx, accessToken)
	if err != nil {
		refresher.warn(ctx, logger, "session_refresh_lookup_failed", err)
		return request
	}

	session, err := refresher.renewer.RefreshSession(ctx, refreshToken)
	if err == nil && !session.Active() {
		err = errors.New("session: provider returned no access token")
	}
	if err != nil {
		refresher.warn(ctx, logger, "session_refresh_failed", err)
		return request
	}

	refresher.issuer.Issue(ctx, writer, session, KindRefresh)

	if err := refresher.store.Unbind(ctx, accessToken); err != nil {
		logger.WarnContext(ctx, "session_refresh_unbind_failed", slog.String("error", err.Error()))
	}

	refresher.collector.RecordSessionRefresh(outcomeRefreshed)
	return withSessionCookie(request, session.AccessToken)
}

func (refresher *Refresher) warn(ctx context.Context, logger *slog.Logger, message string, err error) {
	refresher.collector.RecordSessionRefresh(outcomeFailed)
	logger.WarnContext(ctx, message, slog.String("error", err.Error()))
}

// withSessionCookie clones request with the session cookie replaced.
func withSessionCookie(request *http.Request, accessToken string) *http.Request {
	cookies := request.Cookies()

	rewritten := request.Clone(request.Context())
	rewritten.Header.Del(constants.HeaderCookie)

	for _, cookie := range cookies {
		if cookie.Name == CookieName {
			cookie = &http.Cookie{Name: CookieName, Value: accessToken}
		}
		rewritten.AddCookie(cookie)
	}

	return rewritten
}

var staticExtensions = map[string]bool{
	".svg":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
	".ico":  true,
}

// isStaticAsset reports whether p names a static file the refresher skips.
func isStaticAsset(p string) bool {
	if strings.HasPrefix(p, "/static/") || p == "/favicon.ico" {
		return true
	}
	return staticExtensions[strings.ToLower(path.Ext(p))]
}
