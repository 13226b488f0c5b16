// Copyright (c) 2026 Trackbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package middleware provides the HTTP processing chain of the Trackbook BFF.

Standard Stack:

  - Trace: RequestID generation for log correlation.
  - Log: Structured request logging (slog) with a per-request logger.
  - Guard: Per-IP rate limiting and CORS for the SPA origins.
  - Safe: Panic recovery so one bad request never takes the server down.
  - Identity: Session cookie or bearer token resolution (see [Authenticate]).
*/
package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/taibuivan/trackbook/internal/platform/constants"
	"github.com/taibuivan/trackbook/internal/platform/ctxutil"
)

// # Request Tracing

// RequestID attaches a correlation ID to every request. A client-supplied
// X-Request-ID is kept; otherwise a time-ordered UUIDv7 is minted.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			requestID := request.Header.Get(constants.HeaderXRequestID)
			if requestID == "" {
				requestID = newRequestID()
			}

			ctx := ctxutil.WithRequestID(request.Context(), requestID)
			writer.Header().Set(constants.HeaderXRequestID, requestID)

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

func newRequestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// # Request Logging

// statusRecorder remembers the status code written by downstream handlers.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (recorder *statusRecorder) WriteHeader(code int) {
	recorder.status = code
	recorder.ResponseWriter.WriteHeader(code)
}

// Unwrap lets [http.ResponseController] reach the underlying writer.
func (recorder *statusRecorder) Unwrap() http.ResponseWriter {
	return recorder.ResponseWriter
}

func newStatusRecorder(writer http.ResponseWriter) *statusRecorder {
	if recorder, ok := writer.(*statusRecorder); ok {
		return recorder
	}
	return &statusRecorder{ResponseWriter: writer, status: http.StatusOK}
}

// StructuredLogger logs one line per request and injects a request-scoped
// logger into the context for downstream handlers and services.
func StructuredLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			startTime := time.Now()

			requestLogger := logger.With(
				slog.String("request_id", ctxutil.GetRequestID(request.Context())),
				slog.String("method", request.Method),
				slog.String("path", request.URL.Path),
				slog.String("ip", RealIP(request)),
			)

			ctx := ctxutil.WithLogger(request.Context(), requestLogger)
			recorder := newStatusRecorder(writer)

			next.ServeHTTP(recorder, request.WithContext(ctx))

			level := slog.LevelInfo
			switch {
			case recorder.status >= http.StatusInternalServerError:
				level = slog.LevelError
			case recorder.status >= http.StatusBadRequest:
				level = slog.LevelWarn
			}

			attrs := []any{
				slog.Int("status", recorder.status),
				slog.Int64("latency_ms", time.Since(startTime).Milliseconds()),
				slog.String("user_agent", request.UserAgent()),
			}

			requestLogger.Log(ctx, level, "http_request_finished", attrs...)
		})
	}
}

// # Rate Limiting

type rateLimitClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles requests per client IP using token buckets.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*rateLimitClient
	limit   rate.Limit
	burst   int
}

// NewRateLimiter creates a limiter allowing rps requests per second per IP.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*rateLimitClient),
		limit:   rate.Limit(rps),
		burst:   burst,
	}
}

// Cleanup evicts idle clients every interval until ctx is cancelled.
func (limiter *RateLimiter) Cleanup(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			limiter.evict(time.Now().Add(-idle))
		case <-ctx.Done():
			return
		}
	}
}

func (limiter *RateLimiter) evict(before time.Time) {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	for ip, client := range limiter.clients {
		if client.lastSeen.Before(before) {
			delete(limiter.clients, ip)
		}
	}
}

func (limiter *RateLimiter) allow(ip string) bool {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	client, found := limiter.clients[ip]
	if !found {
		client = &rateLimitClient{limiter: rate.NewLimiter(limiter.limit, limiter.burst)}
		limiter.clients[ip] = client
	}
	client.lastSeen = time.Now()

	return client.limiter.Allow()
}

// Handler returns the middleware form of the limiter.
func (limiter *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if !limiter.allow(RealIP(request)) {
			writeError(writer, http.StatusTooManyRequests, "TOO_MANY_REQUESTS", "Rate limit exceeded")
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RateLimit builds a limiter with the platform defaults and starts its
// cleanup loop, which stops when ctx is cancelled.
func RateLimit(ctx context.Context) func(http.Handler) http.Handler {
	limiter := NewRateLimiter(constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst)
	go limiter.Cleanup(ctx, constants.RateLimitCleanupInterval, constants.RateLimitClientTTL)
	return limiter.Handler
}

// # Reliability & Safety

// PanicRecovery recovers from panics, logs the stack trace, and returns 500.
func PanicRecovery() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					stackTrace := make([]byte, 4096)
					length := runtime.Stack(stackTrace, false)

					ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "panic_recovered",
						slog.Any("error", err),
						slog.String("stack", string(stackTrace[:length])),
					)

					writeError(writer, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "An unexpected error occurred")
				}
			}()

			next.ServeHTTP(writer, request)
		})
	}
}

// # Cross-Origin Resource Sharing

// OriginPolicy is the configuration the CORS middleware needs.
type OriginPolicy interface {
	IsDevelopment() bool
	AllowedOrigins() []string
}

// CORS admits the configured SPA origins. Development admits any origin so a
// local dev server on another port can talk to the BFF with its cookie.
func CORS(policy OriginPolicy) func(http.Handler) http.Handler {
	options := cors.Options{
		AllowedOrigins:   policy.AllowedOrigins(),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", constants.HeaderAuthorization, constants.HeaderXRequestID},
		ExposedHeaders:   []string{constants.HeaderXRequestID},
		AllowCredentials: true,
		MaxAge:           300,
	}

	if policy.IsDevelopment() {
		options.AllowOriginFunc = func(_ *http.Request, _ string) bool { return true }
	}

	return cors.Handler(options)
}

// # Middleware Helpers

// RealIP extracts the client IP, respecting common proxy headers.
func RealIP(request *http.Request) string {
	if ip := request.Header.Get(constants.HeaderXRealIP); ip != "" {
		return ip
	}

	if forwarded := request.Header.Get(constants.HeaderXForwardedFor); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}

	host, _, err := net.SplitHostPort(request.RemoteAddr)
	if err != nil {
		return request.RemoteAddr
	}
	return host
}

// writeError outputs the same error shape as respond.Error without depending on it.
func writeError(writer http.ResponseWriter, status int, code, message string) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(status)
	_ = json.NewEncoder(writer).Encode(map[string]string{
		constants.FieldCode:  code,
		constants.FieldError: message,
	})
}
