// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package respond writes every HTTP response of the service.
//
// Success bodies are {"data": ...}. Failures are {"error", "code", "details"}
// with the status taken from the [apperr.AppError] behind the failure, so the
// web client parses both without per-route cases.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/taibuivan/tradehub/internal/platform/apperr"
	"github.com/taibuivan/tradehub/internal/platform/ctxutil"
)

// SuccessEnvelope wraps every successful payload.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// ListEnvelope is the payload of a bounded list.
type ListEnvelope struct {
	Items any `json:"items"`
	Limit int `json:"limit"`
}

// ErrorEnvelope is the body of every failure.
type ErrorEnvelope struct {
	Error   string              `json:"error"`
	Code    string              `json:"code"`
	Details []apperr.FieldError `json:"details,omitempty"`
}

// JSON writes payload with the given status.
func JSON(writer http.ResponseWriter, statusCode int, payload any) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(payload)
}

func OK(writer http.ResponseWriter, data any) {
	JSON(writer, http.StatusOK, SuccessEnvelope{Data: data})
}

func Created(writer http.ResponseWriter, data any) {
	JSON(writer, http.StatusCreated, SuccessEnvelope{Data: data})
}

// Items writes a list together with the limit it was read with.
func Items(writer http.ResponseWriter, items any, limit int) {
	OK(writer, ListEnvelope{Items: items, Limit: limit})
}

func NoContent(writer http.ResponseWriter) {
	writer.WriteHeader(http.StatusNoContent)
}

// SeeOther sends the browser to path with a GET, whatever the original method.
func SeeOther(writer http.ResponseWriter, request *http.Request, path string) {
	writer.Header().Set("Cache-Control", "no-store")
	http.Redirect(writer, request, path, http.StatusSeeOther)
}

// Error writes err as an [ErrorEnvelope].
//
// Errors that are not an [apperr.AppError] become a 500 with a generic
// message. Every 5xx is logged with its cause; the cause never reaches the body.
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	var appError *apperr.AppError
	if !errors.As(err, &appError) {
		appError = apperr.Internal(err)
	}

	if appError.HTTPStatus >= http.StatusInternalServerError {
		ctx := request.Context()
		ctxutil.GetLogger(ctx).ErrorContext(ctx, "api_server_error",
			slog.String("code", appError.Code),
			slog.String("request_id", ctxutil.GetRequestID(ctx)),
			slog.Any("cause", appError.Cause),
		)
	}

	JSON(writer, appError.HTTPStatus, ErrorEnvelope{
		Error:   appError.Message,
		Code:    appError.Code,
		Details: appError.Details,
	})
}
