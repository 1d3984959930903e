// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tradehub/internal/platform/apperr"
	"github.com/taibuivan/tradehub/internal/platform/ctxutil"
	"github.com/taibuivan/tradehub/internal/platform/identity"
	"github.com/taibuivan/tradehub/internal/platform/middleware"
)

// stubAuthenticator returns a fixed outcome.
type stubAuthenticator struct {
	user *identity.User
	err  error
}

func (s stubAuthenticator) Authenticate(*http.Request) (*identity.User, error) {
	return s.user, s.err
}

/*
TestAuthenticate verifies the identity reaches the handler and failures stop the chain.
*/
func TestAuthenticate(t *testing.T) {
	tests := []struct {
		name       string
		stub       stubAuthenticator
		wantStatus int
		wantCode   string
	}{
		{"valid identity", stubAuthenticator{user: &identity.User{ID: "user-1"}}, http.StatusOK, ""},
		{"rejected token", stubAuthenticator{err: apperr.Unauthenticated(errors.New("rejected"))}, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"provider down", stubAuthenticator{err: apperr.Upstream(errors.New("dial tcp"))}, http.StatusInternalServerError, "UPSTREAM_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen *identity.User
			next := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				seen = ctxutil.GetAuthUser(request.Context())
				writer.WriteHeader(http.StatusOK)
			})

			recorder := httptest.NewRecorder()
			middleware.Authenticate(tt.stub)(next).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/v1/servers", nil))

			assert.Equal(t, tt.wantStatus, recorder.Code)
			if tt.wantCode == "" {
				require.NotNil(t, seen)
				assert.Equal(t, "user-1", seen.ID)
				return
			}

			assert.Nil(t, seen)
			var body map[string]any
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body["code"])
			assert.NotContains(t, recorder.Body.String(), "dial tcp")
		})
	}
}

/*
TestAuthenticate_LogsUserID verifies the request log line carries the resolved identity.
*/
func TestAuthenticate_LogsUserID(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	handler := middleware.StructuredLogger(logger, nil)(
		middleware.Authenticate(stubAuthenticator{user: &identity.User{ID: "user-42"}})(
			http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
				writer.WriteHeader(http.StatusOK)
			}),
		),
	)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/store", nil))

	assert.Contains(t, logs.String(), `"user_id":"user-42"`)
	assert.Contains(t, logs.String(), `"status":200`)
}

/*
TestRequireAPIKey verifies header and query key sources and the empty-key lockout.
*/
func TestRequireAPIKey(t *testing.T) {
	tests := []struct {
		name       string
		expected   string
		target     string
		header     string
		wantStatus int
	}{
		{"header key", "s3cret", "/internal/db", "s3cret", http.StatusOK},
		{"query key", "s3cret", "/internal/db?key=s3cret", "", http.StatusOK},
		{"wrong key", "s3cret", "/internal/db", "guess", http.StatusUnauthorized},
		{"missing key", "s3cret", "/internal/db", "", http.StatusUnauthorized},
		{"unconfigured key", "", "/internal/db?key=", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
				writer.WriteHeader(http.StatusOK)
			})

			request := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.header != "" {
				request.Header.Set("X-API-Key", tt.header)
			}
			recorder := httptest.NewRecorder()

			middleware.RequireAPIKey(tt.expected)(next).ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
		})
	}
}
