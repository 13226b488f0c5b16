// Copyright (c) 2026 Trackbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package plan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/trackbook/internal/platform/constants"
)

// # Cache Implementation

// redisCache stores plans as JSON strings with a fixed TTL.
type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a [Cache] backed by Redis.
func NewRedisCache(client *redis.Client, ttl time.Duration) Cache {
	return &redisCache{client: client, ttl: ttl}
}

// Get implements [Cache].
func (cache *redisCache) Get(ctx context.Context, userID string, planID int) (*PlanWithDetails, bool, error) {
	data, err := cache.client.Get(ctx, cacheKey(userID, planID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("plan_cache_get_failed: %w", err)
	}

	var plan PlanWithDetails
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, false, fmt.Errorf("plan_cache_decode_failed: %w", err)
	}

	return &plan, true, nil
}

// Set implements [Cache].
func (cache *redisCache) Set(ctx context.Context, userID string, plan *PlanWithDetails) error {
	data, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("plan_cache_encode_failed: %w", err)
	}

	if err := cache.client.Set(ctx, cacheKey(userID, plan.ID), data, cache.ttl).Err(); err != nil {
		return fmt.Errorf("plan_cache_set_failed: %w", err)
	}
	return nil
}

// Invalidate implements [Cache].
func (cache *redisCache) Invalidate(ctx context.Context, userID string, planID int) error {
	if err := cache.client.Del(ctx, cacheKey(userID, planID)).Err(); err != nil {
		return fmt.Errorf("plan_cache_invalidate_failed: %w", err)
	}
	return nil
}

// cacheKey scopes entries by user so one reader never sees another's copy.
func cacheKey(userID string, planID int) string {
	return constants.RedisPrefixPlanDetail + userID + ":" + strconv.Itoa(planID)
}
