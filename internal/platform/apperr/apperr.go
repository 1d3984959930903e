// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr is the error taxonomy of the Trading Hub API.

Identity, storage and validation failures are turned into an [AppError]
before they leave the service layer; respond.Error turns that into the
response. Status by constructor:

  - OriginNotAllowed, Forbidden: 403
  - Unauthenticated, Unauthorized: 401
  - ValidationError: 400
  - NotFound: 404
  - Conflict: 409
  - RateLimited: 429
  - Upstream, Internal: 500

Cause is logged, never serialized.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Machine-readable codes sent in the "code" field.
const (
	CodeValidation       = "VALIDATION_ERROR"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeForbidden        = "FORBIDDEN"
	CodeOriginNotAllowed = "ORIGIN_NOT_ALLOWED"
	CodeNotFound         = "NOT_FOUND"
	CodeConflict         = "CONFLICT"
	CodeRateLimited      = "RATE_LIMITED"
	CodeUpstream         = "UPSTREAM_ERROR"
	CodeInternal         = "INTERNAL_ERROR"
)

// UnauthenticatedMessage is the only message a client sees for a failed
// token check, whatever the reason.
const UnauthenticatedMessage = "Unauthorized"

const genericMessage = "An unexpected error occurred"

// AppError is a failure with everything needed to answer the client.
type AppError struct {
	Code       string       `json:"code"`
	Message    string       `json:"error"`
	HTTPStatus int          `json:"-"`
	Cause      error        `json:"-"`
	Details    []FieldError `json:"details,omitempty"`
}

// FieldError names one invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

func (e *AppError) Unwrap() error { return e.Cause }

func newError(status int, code, message string, cause error) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status, Cause: cause}
}

// # 4xx

// NotFound reports a missing resource, e.g. NotFound("Profile").
func NotFound(resource string) *AppError {
	return newError(http.StatusNotFound, CodeNotFound, resource+" not found", nil)
}

// Unauthorized is a 401 with a caller-chosen message, used for bad credentials.
func Unauthorized(msg string) *AppError {
	return newError(http.StatusUnauthorized, CodeUnauthorized, msg, nil)
}

// Unauthenticated is the 401 for every token failure. reason stays server-side.
func Unauthenticated(reason error) *AppError {
	return newError(http.StatusUnauthorized, CodeUnauthorized, UnauthenticatedMessage, reason)
}

// OriginNotAllowed rejects a request from an origin outside the allow-list.
func OriginNotAllowed() *AppError {
	return newError(http.StatusForbidden, CodeOriginNotAllowed, "Origin not allowed", nil)
}

func Forbidden(msg string) *AppError {
	return newError(http.StatusForbidden, CodeForbidden, msg, nil)
}

// Conflict reports a uniqueness violation, such as a taken username.
func Conflict(msg string) *AppError {
	return newError(http.StatusConflict, CodeConflict, msg, nil)
}

// ValidationError is a 400 with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	appError := newError(http.StatusBadRequest, CodeValidation, msg, nil)
	appError.Details = details
	return appError
}

func RateLimited(retryAfterSeconds int) *AppError {
	return newError(http.StatusTooManyRequests, CodeRateLimited,
		fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds), nil)
}

// # 5xx

// Internal wraps an unexpected failure behind a generic message.
func Internal(cause error) *AppError {
	return newError(http.StatusInternalServerError, CodeInternal, genericMessage, cause)
}

// Upstream wraps an identity provider failure. The provider's text is never sent.
func Upstream(cause error) *AppError {
	return newError(http.StatusInternalServerError, CodeUpstream, genericMessage, cause)
}

// As extracts the [*AppError] from err's chain, or nil.
func As(err error) *AppError {
	var appError *AppError
	if errors.As(err, &appError) {
		return appError
	}
	return nil
}
