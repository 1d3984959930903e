// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tradehub/internal/platform/apperr"
)

/*
TestConstructors verifies the status and code of every constructor.
*/
func TestConstructors(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")

	tests := []struct {
		name       string
		err        *apperr.AppError
		wantStatus int
		wantCode   string
	}{
		{"not found", apperr.NotFound("Profile"), http.StatusNotFound, apperr.CodeNotFound},
		{"unauthorized", apperr.Unauthorized("Invalid credentials"), http.StatusUnauthorized, apperr.CodeUnauthorized},
		{"unauthenticated", apperr.Unauthenticated(cause), http.StatusUnauthorized, apperr.CodeUnauthorized},
		{"origin", apperr.OriginNotAllowed(), http.StatusForbidden, apperr.CodeOriginNotAllowed},
		{"forbidden", apperr.Forbidden("no"), http.StatusForbidden, apperr.CodeForbidden},
		{"conflict", apperr.Conflict("taken"), http.StatusConflict, apperr.CodeConflict},
		{"validation", apperr.ValidationError("bad"), http.StatusBadRequest, apperr.CodeValidation},
		{"rate limited", apperr.RateLimited(3), http.StatusTooManyRequests, apperr.CodeRateLimited},
		{"upstream", apperr.Upstream(cause), http.StatusInternalServerError, apperr.CodeUpstream},
		{"internal", apperr.Internal(cause), http.StatusInternalServerError, apperr.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, tt.err.HTTPStatus)
			assert.Equal(t, tt.wantCode, tt.err.Code)
		})
	}
}

/*
TestCauseStaysServerSide verifies the cause is reachable but not in the message.
*/
func TestCauseStaysServerSide(t *testing.T) {
	cause := errors.New("token is expired")
	err := apperr.Unauthenticated(cause)

	assert.Equal(t, apperr.UnauthenticatedMessage, err.Error())
	assert.ErrorIs(t, err, cause)
}

/*
TestAs verifies extraction through wrapping.
*/
func TestAs(t *testing.T) {
	wrapped := fmt.Errorf("signin: %w", apperr.Conflict("taken"))

	appErr := apperr.As(wrapped)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusConflict, appErr.HTTPStatus)

	assert.Nil(t, apperr.As(errors.New("plain")))
}
