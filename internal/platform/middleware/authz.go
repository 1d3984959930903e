// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"

	"github.com/taibuivan/tradehub/internal/platform/apperr"
	"github.com/taibuivan/tradehub/internal/platform/constants"
	"github.com/taibuivan/tradehub/internal/platform/ctxutil"
	"github.com/taibuivan/tradehub/internal/platform/identity"
	"github.com/taibuivan/tradehub/internal/platform/respond"
	"github.com/taibuivan/tradehub/internal/platform/sec"
)

// RequestAuthenticator resolves the identity behind a request.
//
// Defining it here keeps the middleware independent of the session package,
// so tests can inject a stub.
type RequestAuthenticator interface {
	Authenticate(request *http.Request) (*identity.User, error)
}

// Authenticate requires a valid identity on every request it guards.
//
// # Flow
//  1. Resolve the identity through the [RequestAuthenticator].
//  2. On failure, respond with the authenticator's error (401 or 500) and stop.
//  3. Inject the [*identity.User] into the context and tag the request log line.
func Authenticate(authenticator RequestAuthenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			user, err := authenticator.Authenticate(request)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			if tagger, ok := writer.(userTagger); ok {
				tagger.tagUser(user.ID)
			}

			ctx := ctxutil.WithAuthUser(request.Context(), user)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAPIKey guards internal endpoints with a shared secret, read from the
// X-API-Key header or the 'key' query parameter. An empty expected key
// rejects every request.
func RequireAPIKey(expected string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			given := request.Header.Get(constants.HeaderXAPIKey)
			if given == "" {
				given = request.URL.Query().Get(constants.APIKeyQueryParam)
			}

			if !sec.ConstantTimeEqual(given, expected) {
				respond.Error(writer, request, apperr.Unauthorized("Invalid API key"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
