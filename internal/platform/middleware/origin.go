// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"
	"slices"

	"github.com/taibuivan/tradehub/internal/platform/apperr"
	"github.com/taibuivan/tradehub/internal/platform/constants"
	"github.com/taibuivan/tradehub/internal/platform/metrics"
	"github.com/taibuivan/tradehub/internal/platform/respond"
)

// # Origin Gate

// OriginPolicy is the CORS configuration of one route family.
type OriginPolicy struct {
	// AllowList holds the exact origins allowed to call the routes.
	AllowList []string

	// Methods is the Access-Control-Allow-Methods value, e.g. "POST, OPTIONS".
	Methods string

	// Headers is the Access-Control-Allow-Headers value. Defaults to
	// [constants.DefaultAllowHeaders] when empty.
	Headers string
}

// OriginDecision is the outcome of checking one Origin header.
type OriginDecision struct {
	Allowed bool
	Headers http.Header
}

// DecideOrigin checks origin against the allow-list of policy.
//
// Matching is exact: no wildcard and no suffix matching. The returned headers
// always describe the allowed methods and headers, but only echo the origin
// back when it is allowed.
func DecideOrigin(origin string, policy OriginPolicy) OriginDecision {
	allowHeaders := policy.Headers
	if allowHeaders == "" {
		allowHeaders = constants.DefaultAllowHeaders
	}

	headers := http.Header{}
	headers.Set(constants.HeaderAllowMethods, policy.Methods)
	headers.Set(constants.HeaderAllowHeaders, allowHeaders)

	allowed := origin != "" && slices.Contains(policy.AllowList, origin)
	if allowed {
		headers.Set(constants.HeaderAllowOrigin, origin)
		headers.Set(constants.HeaderAllowCreds, "true")
		headers.Set(constants.HeaderExposeHeaders, constants.DefaultExposeHeaders)
		headers.Set(constants.HeaderVary, constants.HeaderOrigin)
	}

	return OriginDecision{Allowed: allowed, Headers: headers}
}

// OriginGate applies [DecideOrigin] to every request.
//
// # Flow
//  1. CORS headers are written on every response, rejected or not.
//  2. OPTIONS is answered with 200 and never reaches the next handler.
//  3. A mutating request from an origin outside the allow-list is rejected
//     with 403 ORIGIN_NOT_ALLOWED before any auth or body work.
//  4. Everything else proceeds.
func OriginGate(policy OriginPolicy, collector *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			decision := DecideOrigin(request.Header.Get(constants.HeaderOrigin), policy)

			for name, values := range decision.Headers {
				writer.Header()[name] = values
			}

			if request.Method == http.MethodOptions {
				writer.WriteHeader(http.StatusOK)
				return
			}

			if isMutating(request.Method) && !decision.Allowed {
				collector.RecordOriginRejected()
				respond.Error(writer, request, apperr.OriginNotAllowed())
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// Preflight answers OPTIONS for routes registered inside a group, where the
// router only reaches group middleware once a route matched. Mount it behind
// [OriginGate], which writes the headers.
func Preflight(writer http.ResponseWriter, _ *http.Request) {
	writer.WriteHeader(http.StatusOK)
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}
