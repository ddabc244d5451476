// Copyright (c) 2026 Plume. All rights reserved.

package blogcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// entryTTL bounds how long an entry may live without being read. It is a
// memory-pressure optimization; correctness comes from explicit Remove calls.
const entryTTL = 24 * time.Hour

// RedisCache implements [Cache] on a shared Redis instance.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a Redis-backed [Cache].
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Get returns the bytes stored under key, or (nil, nil) on a miss.
func (cache *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := cache.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("blogcache: redis get failed: %w", err)
	}
	return value, nil
}

// Set stores value under key.
func (cache *RedisCache) Set(ctx context.Context, key string, value []byte) error {
	if err := cache.client.Set(ctx, key, value, entryTTL).Err(); err != nil {
		return fmt.Errorf("blogcache: redis set failed: %w", err)
	}
	return nil
}

// Remove deletes key. Removing an absent key is not an error.
func (cache *RedisCache) Remove(ctx context.Context, key string) error {
	if err := cache.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("blogcache: redis remove failed: %w", err)
	}
	return nil
}
