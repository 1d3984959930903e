// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tradehub/internal/platform/identity/identitytest"
	"github.com/taibuivan/tradehub/internal/platform/middleware"
	"github.com/taibuivan/tradehub/internal/users/auth"
	"github.com/taibuivan/tradehub/internal/users/session"
)

const allowedOrigin = "http://localhost:3000"

func newRouter(provider *identitytest.Provider, profiles *memoryProfiles) chi.Router {
	handler := auth.NewHandler(
		newService(provider, profiles),
		session.NewIssuer(false, nil, nil),
		middleware.OriginPolicy{AllowList: []string{allowedOrigin}, Methods: "POST, OPTIONS"},
		nil,
	)

	router := chi.NewRouter()
	handler.RegisterRoutes(router)
	return router
}

func post(router http.Handler, path, origin, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	if origin != "" {
		request.Header.Set("Origin", origin)
	}
	for _, cookie := range cookies {
		request.AddCookie(cookie)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func sessionCookie(t *testing.T, recorder *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == session.CookieName {
			return cookie
		}
	}
	return nil
}

/*
TestHandler_SignUp verifies the 201 body and the 7-day cookie.
*/
func TestHandler_SignUp(t *testing.T) {
	t.Run("active session", func(t *testing.T) {
		router := newRouter(identitytest.New(), newMemoryProfiles())

		recorder := post(router, "/signup", allowedOrigin, `{"email":"steve@example.com","password":"secret1","name":"Steve"}`)
		require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

		var body struct {
			Data struct {
				User struct {
					ID string `json:"id"`
				} `json:"user"`
				Profile struct {
					ID   string `json:"id"`
					Role string `json:"role"`
				} `json:"profile"`
			} `json:"data"`
		}
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))
		assert.Equal(t, body.Data.User.ID, body.Data.Profile.ID)
		assert.Equal(t, "member", body.Data.Profile.Role)

		cookie := sessionCookie(t, recorder)
		require.NotNil(t, cookie)
		assert.Equal(t, int(session.SignUpMaxAge.Seconds()), cookie.MaxAge)
		assert.True(t, cookie.HttpOnly)
	})

	t.Run("awaiting confirmation", func(t *testing.T) {
		provider := identitytest.New()
		provider.RequireConfirmation = true
		router := newRouter(provider, newMemoryProfiles())

		recorder := post(router, "/signup", allowedOrigin, `{"email":"steve@example.com","password":"secret1","name":"Steve"}`)

		require.Equal(t, http.StatusCreated, recorder.Code)
		assert.Nil(t, sessionCookie(t, recorder))
	})

	t.Run("foreign origin", func(t *testing.T) {
		provider := identitytest.New()
		router := newRouter(provider, newMemoryProfiles())

		recorder := post(router, "/signup", "https://evil.example.com", `{"email":"steve@example.com","password":"secret1","name":"Steve"}`)

		assert.Equal(t, http.StatusForbidden, recorder.Code)
		assert.Zero(t, provider.Calls("SignUp"))
	})

	t.Run("invalid json", func(t *testing.T) {
		router := newRouter(identitytest.New(), newMemoryProfiles())

		recorder := post(router, "/signup", allowedOrigin, `{"email":`)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

/*
TestHandler_SignIn verifies the 30-day cookie and the shared 401.
*/
func TestHandler_SignIn(t *testing.T) {
	provider := identitytest.New()
	existing := provider.AddUser("steve@example.com", "secret1", nil)
	router := newRouter(provider, newMemoryProfiles())

	recorder := post(router, "/signin", allowedOrigin, `{"email":"steve@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	cookie := sessionCookie(t, recorder)
	require.NotNil(t, cookie)
	assert.Equal(t, int(session.SignInMaxAge.Seconds()), cookie.MaxAge)
	assert.NotEqual(t, existing.AccessToken, cookie.Value)
	assert.NotContains(t, recorder.Body.String(), `"profile"`)

	recorder = post(router, "/signin", allowedOrigin, `{"email":"steve@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, recorder.Body.String(), auth.MsgInvalidCredentials)
	assert.Nil(t, sessionCookie(t, recorder))
}

/*
TestHandler_SignOut verifies the cookie is cleared with or without a session.
*/
func TestHandler_SignOut(t *testing.T) {
	provider := identitytest.New()
	current := provider.AddUser("steve@example.com", "secret1", nil)
	router := newRouter(provider, newMemoryProfiles())

	tests := []struct {
		name    string
		cookies []*http.Cookie
	}{
		{"with session", []*http.Cookie{{Name: session.CookieName, Value: current.AccessToken}}},
		{"without session", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := post(router, "/signout", allowedOrigin, "", tt.cookies...)

			assert.Equal(t, http.StatusNoContent, recorder.Code)
			cookie := sessionCookie(t, recorder)
			require.NotNil(t, cookie)
			assert.Empty(t, cookie.Value)
			assert.Negative(t, cookie.MaxAge)
		})
	}

	assert.Equal(t, 1, provider.Calls("SignOut"))
}

/*
TestHandler_Preflight verifies OPTIONS answers 200 on every public route.
*/
func TestHandler_Preflight(t *testing.T) {
	router := newRouter(identitytest.New(), newMemoryProfiles())

	for _, path := range []string{"/signup", "/signin", "/signout"} {
		t.Run(path, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodOptions, path, nil)
			request.Header.Set("Origin", allowedOrigin)

			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, request)

			assert.Equal(t, http.StatusOK, recorder.Code)
			assert.Equal(t, allowedOrigin, recorder.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, "POST, OPTIONS", recorder.Header().Get("Access-Control-Allow-Methods"))
		})
	}
}
