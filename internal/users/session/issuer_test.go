// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tradehub/internal/platform/identity"
	"github.com/taibuivan/tradehub/internal/users/session"
)

/*
TestIssuer_Issue verifies the cookie attributes and lifetime per issuance path.
*/
func TestIssuer_Issue(t *testing.T) {
	tests := []struct {
		name       string
		kind       session.Kind
		secure     bool
		wantMaxAge int
	}{
		{"sign-up in development", session.KindSignUp, false, 7 * 24 * 3600},
		{"sign-in in development", session.KindSignIn, false, 30 * 24 * 3600},
		{"sign-in in production", session.KindSignIn, true, 30 * 24 * 3600},
		{"refresh", session.KindRefresh, true, 30 * 24 * 3600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemoryStore()
			issuer := session.NewIssuer(tt.secure, store, nil)
			recorder := httptest.NewRecorder()

			issued := issuer.Issue(context.Background(), recorder, &identity.Session{
				AccessToken:  "access-token",
				RefreshToken: "refresh-token",
			}, tt.kind)
			require.True(t, issued)

			cookies := recorder.Result().Cookies()
			require.Len(t, cookies, 1)

			cookie := cookies[0]
			assert.Equal(t, "mth_session", cookie.Name)
			assert.Equal(t, "access-token", cookie.Value)
			assert.Equal(t, "/", cookie.Path)
			assert.Equal(t, tt.wantMaxAge, cookie.MaxAge)
			assert.True(t, cookie.HttpOnly)
			assert.Equal(t, tt.secure, cookie.Secure)
			assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)

			refreshToken, ok := store.bound("access-token")
			assert.True(t, ok)
			assert.Equal(t, "refresh-token", refreshToken)
		})
	}
}

/*
TestIssuer_NoAccessToken never writes a cookie for an inactive session.
*/
func TestIssuer_NoAccessToken(t *testing.T) {
	issuer := session.NewIssuer(false, newMemoryStore(), nil)

	for _, pending := range []*identity.Session{nil, {User: &identity.User{ID: "u"}}, {RefreshToken: "r"}} {
		recorder := httptest.NewRecorder()
		assert.False(t, issuer.Issue(context.Background(), recorder, pending, session.KindSignUp))
		assert.Empty(t, recorder.Header().Values("Set-Cookie"))
	}
}

/*
TestIssuer_BindingFailure still issues the cookie.
*/
func TestIssuer_BindingFailure(t *testing.T) {
	store := newMemoryStore()
	store.failBind = errStoreDown
	recorder := httptest.NewRecorder()

	issued := session.NewIssuer(false, store, nil).Issue(context.Background(), recorder, &identity.Session{
		AccessToken:  "a",
		RefreshToken: "r",
	}, session.KindSignIn)

	assert.True(t, issued)
	assert.Len(t, recorder.Result().Cookies(), 1)
}

/*
TestIssuer_Clear expires the cookie and drops the binding.
*/
func TestIssuer_Clear(t *testing.T) {
	store := newMemoryStore()
	require.NoError(t, store.Bind(context.Background(), "a", "r", session.BindingTTL))

	recorder := httptest.NewRecorder()
	session.NewIssuer(true, store, nil).Clear(context.Background(), recorder, "a")

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "mth_session", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Equal(t, -1, cookies[0].MaxAge)

	_, ok := store.bound("a")
	assert.False(t, ok)
}
