// Copyright (c) 2026 Plume. All rights reserved.

package blogcache_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plumehq/plume/internal/platform/blogcache"
)

func TestMemoryCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	cache := blogcache.NewMemoryCache()

	// Miss before any write
	got, err := cache.Get(ctx, blogcache.KeyAllTags)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, cache.Set(ctx, blogcache.KeyAllTags, []byte(`["a"]`)))

	got, err = cache.Get(ctx, blogcache.KeyAllTags)
	require.NoError(t, err)
	assert.Equal(t, []byte(`["a"]`), got)

	require.NoError(t, cache.Remove(ctx, blogcache.KeyAllTags))

	// Absent, not stale, after removal
	got, err = cache.Get(ctx, blogcache.KeyAllTags)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryCache_RemoveAbsentKey(t *testing.T) {
	cache := blogcache.NewMemoryCache()
	assert.NoError(t, cache.Remove(context.Background(), "never-set"))
}

/*
TestGetOrLoad verifies the read-through behavior: load on miss, cache hit on
the second read, reload after invalidation.
*/
func TestGetOrLoad(t *testing.T) {
	ctx := context.Background()
	cache := blogcache.NewMemoryCache()

	loads := 0
	load := func(context.Context) ([]string, error) {
		loads++
		return []string{"technology", "golang"}, nil
	}

	// 1. Miss populates the cache
	got, err := blogcache.GetOrLoad(ctx, cache, blogcache.KeyAllTags, load)
	require.NoError(t, err)
	assert.Equal(t, []string{"technology", "golang"}, got)
	assert.Equal(t, 1, loads)

	// 2. Hit does not call load again
	got, err = blogcache.GetOrLoad(ctx, cache, blogcache.KeyAllTags, load)
	require.NoError(t, err)
	assert.Equal(t, []string{"technology", "golang"}, got)
	assert.Equal(t, 1, loads)

	// 3. Invalidation forces a reload
	require.NoError(t, cache.Remove(ctx, blogcache.KeyAllTags))

	_, err = blogcache.GetOrLoad(ctx, cache, blogcache.KeyAllTags, load)
	require.NoError(t, err)
	assert.Equal(t, 2, loads)
}

func TestGetOrLoad_CorruptEntryReloads(t *testing.T) {
	ctx := context.Background()
	cache := blogcache.NewMemoryCache()

	require.NoError(t, cache.Set(ctx, blogcache.KeyPostsIndex, []byte("{not json")))

	got, err := blogcache.GetOrLoad(ctx, cache, blogcache.KeyPostsIndex, func(context.Context) (int, error) {
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, got)

	// The corrupt entry was overwritten with the decoded value.
	raw, err := cache.Get(ctx, blogcache.KeyPostsIndex)
	require.NoError(t, err)
	assert.Equal(t, []byte("42"), raw)
}

func TestGetOrLoad_LoadErrorNotCached(t *testing.T) {
	ctx := context.Background()
	cache := blogcache.NewMemoryCache()

	_, err := blogcache.GetOrLoad(ctx, cache, "k", func(context.Context) (string, error) {
		return "", assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	raw, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestArchiveKey(t *testing.T) {
	assert.Equal(t, "blog:posts:archive:2018-09", blogcache.ArchiveKey(2018, 9))
	assert.Equal(t, "blog:posts:archive:2020-11", blogcache.ArchiveKey(2020, 11))
}
