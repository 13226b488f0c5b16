// Copyright (c) 2026 Trackbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package respond writes every BFF response in one JSON envelope.
//
// Success bodies are {"data": ...} (plus "meta" for lists); failures are
// {"error", "code", "details"}. The SPA and the terminal client both rely on
// "code" to tell an expired session (SESSION_EXPIRED) apart from other 401s.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/taibuivan/trackbook/internal/platform/apperr"
	"github.com/taibuivan/trackbook/internal/platform/ctxutil"
	"github.com/taibuivan/trackbook/pkg/pagination"
)

// SuccessEnvelope wraps every successful body. Meta is set for paged lists only.
type SuccessEnvelope struct {
	Data any              `json:"data"`
	Meta *pagination.Meta `json:"meta,omitempty"`
}

// ErrorEnvelope is the JSON envelope for error responses.
type ErrorEnvelope struct {
	Error   string              `json:"error"`
	Code    string              `json:"code"`
	Details []apperr.FieldError `json:"details,omitempty"`
}

// JSON writes a JSON response with the given status code.
func JSON(writer http.ResponseWriter, statusCode int, payload any) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(payload)
}

// OK writes data with status 200.
func OK(writer http.ResponseWriter, data any) {
	JSON(writer, http.StatusOK, SuccessEnvelope{Data: data})
}

// Created writes data with status 201.
func Created(writer http.ResponseWriter, data any) {
	JSON(writer, http.StatusCreated, SuccessEnvelope{Data: data})
}

// Paginated writes one page of a list with its page metadata.
func Paginated(writer http.ResponseWriter, data any, metadata pagination.Meta) {
	JSON(writer, http.StatusOK, SuccessEnvelope{Data: data, Meta: &metadata})
}

// NoContent writes a 204 No Content response.
func NoContent(writer http.ResponseWriter) {
	writer.WriteHeader(http.StatusNoContent)
}

// Error converts any Go error into a standardized JSON API error response.
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	var appError *apperr.AppError
	if !errors.As(err, &appError) {
		// Unexpected internal error: log full details but hide them from the client for security.
		ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "unhandled_error_swallowed",
			slog.String("error", err.Error()),
		)
		appError = apperr.Internal(err)
	}

	// 5xx means we or the reading-plan backend failed; 4xx is the caller's problem.
	if appError.HTTPStatus >= http.StatusInternalServerError {
		ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "api_server_error",
			slog.String("code", appError.Code),
			slog.Any("cause", appError.Cause),
		)
	}

	JSON(writer, appError.HTTPStatus, ErrorEnvelope{
		Error:   appError.Message,
		Code:    appError.Code,
		Details: appError.Details,
	})
}
