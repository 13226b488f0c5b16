// Copyright (c) 2026 Trackbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis provides the managed client behind server-side sessions and the
plan detail cache.

Both users of this client hold volatile data only: a session hash expires after
inactivity and a cached plan is dropped after a short TTL or on any write to the
plan. Losing Redis logs every user out but never loses reading progress, which
lives in the reading-plan backend.
*/
package redis

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Default timeouts for Redis operations.
const (
	dialTimeout  = 3 * time.Second
	readTimeout  = 2 * time.Second
	writeTimeout = 2 * time.Second
	pingTimeout  = 2 * time.Second
)

// Pool sizing. The BFF issues at most a handful of commands per request.
const (
	poolSize     = 10
	minIdleConns = 2
	maxIdleConns = 5
)

/*
NewClient parses a Redis URL and returns a ready-to-use client.

Parameters:
  - context: Context for the initial ping.
  - redisURL: Redis connection URL (redis:// or rediss://).
  - logger: Structured logger for connection events.

Returns:
  - *redis.Client: A connected client. The caller owns Close.
  - error: Invalid URL or failed ping.
*/
func NewClient(context stdctx.Context, redisURL string, logger *slog.Logger) (*redis.Client, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}

	options.PoolSize = poolSize
	options.MinIdleConns = minIdleConns
	options.MaxIdleConns = maxIdleConns

	options.DialTimeout = dialTimeout
	options.ReadTimeout = readTimeout
	options.WriteTimeout = writeTimeout

	client := redis.NewClient(options)

	// Fail fast: sessions cannot work without Redis.
	if err := Ping(context, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis_client_connected",
		slog.String("addr", options.Addr),
		slog.Int("db", options.DB),
		slog.Int("pool_size", options.PoolSize),
	)

	return client, nil
}

// Ping verifies that the Redis client is healthy. Used at startup and by /ready.
func Ping(context stdctx.Context, client *redis.Client) error {
	pingCtx, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis: ping failed: %w", err)
	}

	return nil
}
