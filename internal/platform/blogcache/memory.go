// Copyright (c) 2026 Plume. All rights reserved.

package blogcache

import (
	"context"
	"sync"
)

// MemoryCache is an in-process [Cache] used by tests and single-node
// deployments that run without Redis.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemoryCache creates an empty in-memory [Cache].
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string][]byte)}
}

// Get returns the bytes stored under key, or (nil, nil) on a miss.
func (cache *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	cache.mu.RLock()
	defer cache.mu.RUnlock()

	value, ok := cache.entries[key]
	if !ok {
		return nil, nil
	}

	// Copy so callers cannot mutate the stored entry.
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Set stores value under key.
func (cache *MemoryCache) Set(_ context.Context, key string, value []byte) error {
	cache.mu.Lock()
	defer cache.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	cache.entries[key] = stored
	return nil
}

// Remove deletes key. Removing an absent key is not an error.
func (cache *MemoryCache) Remove(_ context.Context, key string) error {
	cache.mu.Lock()
	defer cache.mu.Unlock()

	delete(cache.entries, key)
	return nil
}
