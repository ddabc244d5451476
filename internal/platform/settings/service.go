// Copyright (c) 2026 Plume. All rights reserved.

package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/plumehq/plume/internal/platform/apperr"
	"github.com/plumehq/plume/internal/platform/blogcache"
	"github.com/plumehq/plume/internal/platform/constants"
)

// # Service Layer

// Service loads and saves settings groups with cache-aside semantics.
//
// Reads hit the cache first and fall through to core.meta on a miss; saves
// write the repository and then remove the cache entry so the next read
// repopulates.
type Service struct {
	repository Repository
	cache      blogcache.Cache
	logger     *slog.Logger
}

// NewService constructs a new [Service] with its dependencies.
func NewService(repository Repository, cache blogcache.Cache, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		cache:      cache,
		logger:     logger,
	}
}

/*
Load retrieves the settings group stored under name.

Description: Checks the cache, then core.meta. When the group has never been
saved, the provided defaults are returned instead of an error.

Parameters:
  - ctx: context.Context
  - service: *Service
  - name: string (meta key, e.g. [BlogSettingsName])
  - defaults: T (zero-configuration fallback)

Returns:
  - T: The stored or default settings
  - error: Storage or cache backend failures
*/
func Load[T any](ctx context.Context, service *Service, name string, defaults T) (T, error) {
	cacheKey := constants.RedisPrefixSettings + name

	return blogcache.GetOrLoad(ctx, service.cache, cacheKey, func(ctx context.Context) (T, error) {
		meta, err := service.repository.Get(ctx, name)
		if err != nil {
			if apperr.IsNotFound(err) {
				return defaults, nil
			}
			var zero T
			return zero, fmt.Errorf("settings_load_failed: %w", err)
		}

		var value T
		if err := json.Unmarshal([]byte(meta.Value), &value); err != nil {
			// A corrupt document falls back to defaults; the next save repairs it.
			service.logger.Warn("settings_document_corrupt", slog.String("name", name))
			return defaults, nil
		}

		return value, nil
	})
}

/*
Save persists the settings group under name and invalidates its cache entry.

Parameters:
  - ctx: context.Context
  - service: *Service
  - name: string (meta key)
  - value: T

Returns:
  - error: Serialization or storage failures
*/
func Save[T any](ctx context.Context, service *Service, name string, value T) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("settings_encode_failed: %w", err)
	}

	meta := &Meta{Key: name, Value: string(encoded)}
	if err := service.repository.Upsert(ctx, meta); err != nil {
		return fmt.Errorf("settings_save_failed: %w", err)
	}

	// Invalidate after the write lands so readers never see a stale group.
	if err := service.cache.Remove(ctx, constants.RedisPrefixSettings+name); err != nil {
		return fmt.Errorf("settings_invalidate_failed: %w", err)
	}

	service.logger.Info("settings_saved", slog.String("name", name))

	return nil
}

// Blog is a convenience wrapper returning the [BlogSettings] group.
func (service *Service) Blog(ctx context.Context) (BlogSettings, error) {
	return Load(ctx, service, BlogSettingsName, DefaultBlogSettings())
}

// Core is a convenience wrapper returning the [CoreSettings] group.
func (service *Service) Core(ctx context.Context) (CoreSettings, error) {
	return Load(ctx, service, CoreSettingsName, DefaultCoreSettings())
}

// SaveBlog persists the [BlogSettings] group.
func (service *Service) SaveBlog(ctx context.Context, value BlogSettings) error {
	return Save(ctx, service, BlogSettingsName, value)
}

// SaveCore persists the [CoreSettings] group.
func (service *Service) SaveCore(ctx context.Context, value CoreSettings) error {
	return Save(ctx, service, CoreSettingsName, value)
}
