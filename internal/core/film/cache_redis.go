// Copyright (c) 2026 CinePocket. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package film

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/cinepocket/internal/platform/constants"
)

// RedisFilterCache implements [FilterCache] with a single JSON value in Redis.
type RedisFilterCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisFilterCache constructs a Redis backed filter cache. The entry
// expires after ttl even if no write invalidates it.
func NewRedisFilterCache(client *redis.Client, ttl time.Duration) *RedisFilterCache {
	return &RedisFilterCache{client: client, ttl: ttl}
}

// Get returns the cached filters, or nil when the key is absent.
func (cache *RedisFilterCache) Get(context context.Context) (*Filters, error) {
	payload, err := cache.client.Get(context, constants.RedisKeyFilters).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis: get filters: %w", err)
	}

	filters := &Filters{}
	if err := json.Unmarshal(payload, filters); err != nil {
		return nil, fmt.Errorf("redis: decode filters: %w", err)
	}
	return filters, nil
}

// Set stores filters under the shared key with the configured TTL.
func (cache *RedisFilterCache) Set(context context.Context, filters *Filters) error {
	payload, err := json.Marshal(filters)
	if err != nil {
		return fmt.Errorf("redis: encode filters: %w", err)
	}
	if err := cache.client.Set(context, constants.RedisKeyFilters, payload, cache.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set filters: %w", err)
	}
	return nil
}

// Invalidate drops the cached entry.
func (cache *RedisFilterCache) Invalidate(context context.Context) error {
	if err := cache.client.Del(context, constants.RedisKeyFilters).Err(); err != nil {
		return fmt.Errorf("redis: invalidate filters: %w", err)
	}
	return nil
}
