// Copyright (c) 2026 Trackbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/trackbook/internal/platform/constants"
)

// RedisStore keeps one session as a Redis hash. Every read or write pushes the
// expiry back by the configured TTL.
type RedisStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisStore creates a store for the hash at key.
func NewRedisStore(client *redis.Client, key string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, key: key, ttl: ttl}
}

/*
Get implements [Store].

Description: Reads one hash field and refreshes the session TTL when the
field exists.
*/
func (store *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := store.client.HGet(ctx, store.key, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis_session_get_failed: %w", err)
	}

	if err := store.client.Expire(ctx, store.key, store.ttl).Err(); err != nil {
		return "", false, fmt.Errorf("redis_session_touch_failed: %w", err)
	}

	return value, true, nil
}

// Set implements [Store]. The write and the TTL refresh run in one transaction.
func (store *RedisStore) Set(ctx context.Context, key, value string) error {
	_, err := store.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, store.key, key, value)
		pipe.Expire(ctx, store.key, store.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis_session_set_failed: %w", err)
	}
	return nil
}

// Clear implements [Store].
func (store *RedisStore) Clear(ctx context.Context) error {
	if err := store.client.Del(ctx, store.key).Err(); err != nil {
		return fmt.Errorf("redis_session_clear_failed: %w", err)
	}
	return nil
}

// # Factory

// RedisFactory hands out one [RedisStore] per session identifier.
type RedisFactory struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisFactory creates a factory whose sessions live for ttl after last use.
func NewRedisFactory(client *redis.Client, ttl time.Duration) *RedisFactory {
	return &RedisFactory{client: client, ttl: ttl}
}

// For returns the store of sessionID.
func (factory *RedisFactory) For(sessionID string) Store {
	return NewRedisStore(factory.client, constants.RedisPrefixSession+sessionID, factory.ttl)
}
