// Copyright (c) 2026 Plume. All rights reserved.

/*
Package blogcache implements the cache-aside policy for blog collections.

Reads check the cache first and fall through to the repository on a miss,
storing the result for the next reader. Writes never update cache entries in
place: the service mutates the repository first, then removes every key whose
scope the write could affect, so the next read repopulates from storage.

Consistency contract:

  - An invalidated key is absent, not stale, until the next successful read.
  - Repository mutation always completes before invalidation is issued.
  - Explicit invalidation is the correctness mechanism; TTLs on the Redis
    backend are an optimization only.
*/
package blogcache

import (
	"context"
	"encoding/json"
	"fmt"
)

// Well-known keys for whole-collection cache entries. The blog core owns
// this naming; backends treat keys as opaque strings.
const (
	// KeyAllCategories caches the full category collection.
	KeyAllCategories = "blog:categories:all"

	// KeyAllTags caches the full tag collection.
	KeyAllTags = "blog:tags:all"

	// KeyPostsIndex caches the recent published posts for the index page.
	KeyPostsIndex = "blog:posts:index"
)

// ArchiveKey returns the composite key for a monthly archive collection.
func ArchiveKey(year, month int) string {
	return fmt.Sprintf("blog:posts:archive:%04d-%02d", year, month)
}

// Cache is the byte-level cache contract consumed by the blog services.
//
// Get reports a miss as (nil, nil); errors are reserved for backend
// failures, which propagate to the caller unchanged.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// GetOrLoad returns the cached value under key, or invokes load, stores the
// result, and returns it.
//
// A corrupt cache entry (undecodable JSON) is treated as a miss and
// overwritten by the freshly loaded value.
func GetOrLoad[T any](ctx context.Context, cache Cache, key string, load func(context.Context) (T, error)) (T, error) {
	var zero T

	raw, err := cache.Get(ctx, key)
	if err != nil {
		return zero, err
	}

	if raw != nil {
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
	}

	loaded, err := load(ctx)
	if err != nil {
		return zero, err
	}

	encoded, err := json.Marshal(loaded)
	if err != nil {
		// Unserializable values are served uncached rather than failing the read.
		return loaded, nil
	}

	if err := cache.Set(ctx, key, encoded); err != nil {
		return zero, err
	}

	return loaded, nil
}
