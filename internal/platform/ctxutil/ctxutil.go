// Copyright (c) 2026 Trackbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package ctxutil carries request-scoped values through [context.Context]:
the correlation id, the request logger, the caller's token claims and the
server-side session id.

Keys are unexported, so only this package can read or write them.
*/
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/trackbook/internal/platform/sec"
)

type key int

const (
	keyRequestID key = iota
	keyLogger
	keyUser
	keySessionID
)

// # Request Tracing

// WithRequestID returns a new context with the provided request ID attached.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyRequestID, id)
}

// GetRequestID retrieves the request ID from the context.
// Returns an empty string if not found.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(keyRequestID).(string)
	return id
}

// # Structured Logging

// WithLogger returns a new context with the provided logger attached.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, keyLogger, logger)
}

// GetLogger retrieves the logger from the context.
// If no logger is found, it returns the global default logger.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(keyLogger).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return logger
}

// # Identity & Access

// WithAuthUser returns a new context with the provided auth claims attached.
func WithAuthUser(ctx context.Context, user *sec.AuthClaims) context.Context {
	return context.WithValue(ctx, keyUser, user)
}

// GetAuthUser retrieves the [*sec.AuthClaims] from the [context.Context].
func GetAuthUser(ctx context.Context) *sec.AuthClaims {
	claims, ok := ctx.Value(keyUser).(*sec.AuthClaims)
	if !ok {
		return nil
	}
	return claims
}

// GetAccessToken returns the bearer token of the authenticated caller, if any.
func GetAccessToken(ctx context.Context) string {
	if claims := GetAuthUser(ctx); claims != nil {
		return claims.AccessToken
	}
	return ""
}

// # Sessions

// WithSessionID returns a new context carrying the server-side session identifier.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keySessionID, id)
}

// GetSessionID retrieves the session identifier, or "" for bearer-token callers.
func GetSessionID(ctx context.Context) string {
	id, _ := ctx.Value(keySessionID).(string)
	return id
}
