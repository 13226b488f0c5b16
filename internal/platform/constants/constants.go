// Copyright (c) 2026 Trackbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Session: Cookie naming and storage keys.
  - Upstream: Reading-plan backend defaults.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "trackbook"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	// Upstream calls can take up to RemoteDefaultTimeout, so this stays above it.
	DefaultWriteTimeout = 45 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 40 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 50.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 100

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Session

const (
	// SessionCookieName carries the opaque server-side session identifier.
	SessionCookieName = "trackbook_session"

	// SessionCookiePath scopes the session cookie to the whole site.
	SessionCookiePath = "/"

	// SessionTokenKey is the session entry holding the upstream access token.
	SessionTokenKey = "trackbook_token"

	// SessionUserKey is the session entry holding the JSON-encoded user.
	SessionUserKey = "trackbook_user"
)

// # Upstream

const (
	// RemoteDefaultTimeout bounds a single upstream call, retries excluded.
	RemoteDefaultTimeout = 30 * time.Second

	// RemoteDefaultRetries is the number of extra attempts for idempotent calls.
	RemoteDefaultRetries = 3

	// RemoteRetryInitialInterval is the first backoff delay between attempts.
	RemoteRetryInitialInterval = 200 * time.Millisecond

	// RemoteRetryMaxInterval caps the backoff delay between attempts.
	RemoteRetryMaxInterval = 2 * time.Second
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderAuthorization = "Authorization"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldMeta    = "meta"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldItems   = "items"
	FieldTotal   = "total"
	FieldMessage = "message"
	FieldStatus  = "status"
	FieldChecks  = "checks"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixSession    = "trackbook:session:"
	RedisPrefixPlanDetail = "trackbook:plan:detail:"
)
