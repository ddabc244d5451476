// Copyright (c) 2026 Plume. All rights reserved.

package category

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/plumehq/plume/internal/platform/apperr"
	"github.com/plumehq/plume/internal/platform/blogcache"
	"github.com/plumehq/plume/internal/platform/settings"
	"github.com/plumehq/plume/internal/platform/validate"
	"github.com/plumehq/plume/pkg/slug"
)

// TitleMaxLen is the maximum category title length in characters.
const TitleMaxLen = 250

// # Service Layer

// Service orchestrates category reads and writes.
//
// Reads go through the cache; every write mutates the repository first and
// then removes [blogcache.KeyAllCategories] so the next read repopulates.
type Service struct {
	repository Repository
	cache      blogcache.Cache
	settings   *settings.Service
	logger     *slog.Logger
}

// NewService constructs a new [Service] with its dependencies.
func NewService(repository Repository, cache blogcache.Cache, settingsService *settings.Service, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		cache:      cache,
		settings:   settingsService,
		logger:     logger,
	}
}

// # Reads

// All returns every category, cache-aside on [blogcache.KeyAllCategories].
func (service *Service) All(ctx context.Context) ([]*Category, error) {
	return blogcache.GetOrLoad(ctx, service.cache, blogcache.KeyAllCategories,
		func(ctx context.Context) ([]*Category, error) {
			return service.repository.All(ctx)
		})
}

// Get returns the category with the given id.
func (service *Service) Get(ctx context.Context, id int) (*Category, error) {
	category, err := service.repository.Get(ctx, id)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("Category")
		}
		return nil, fmt.Errorf("category_service_get_failed: %w", err)
	}
	return category, nil
}

// GetBySlug returns the category with the given slug.
func (service *Service) GetBySlug(ctx context.Context, categorySlug string) (*Category, error) {
	category, err := service.repository.GetBySlug(ctx, categorySlug)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("Category")
		}
		return nil, fmt.Errorf("category_service_get_by_slug_failed: %w", err)
	}
	return category, nil
}

// # Writes

/*
Create adds a new category with a unique slug derived from the title.

Description: The title must be present and within length. A title that
collides case-insensitively with an existing category is rejected. The slug
comes from the taxonomy pipeline: ASCII slugification, a random 6-character
fallback for titles with no Latin letters, then -2/-3 suffixing against the
existing slugs.

Parameters:
  - ctx: context.Context
  - title: string
  - note: string

Returns:
  - *Category: The created category with its assigned ID
  - error: Validation, conflict, or storage failures
*/
func (service *Service) Create(ctx context.Context, title, note string) (*Category, error) {
	v := &validate.Validator{}
	v.Required("Title", title).MaxLen("Title", title, TitleMaxLen)
	if err := v.Err(); err != nil {
		return nil, err
	}

	existing, err := service.repository.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("category_service_create_list_failed: %w", err)
	}

	if titleTaken(existing, title, 0) {
		return nil, apperr.Conflict(fmt.Sprintf("'%s' already exists.", title))
	}

	categorySlug, err := taxonomySlug(ctx, title, existing, 0)
	if err != nil {
		return nil, err
	}

	category := &Category{Title: title, Slug: categorySlug, Note: note}
	if err := service.repository.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("category_service_create_failed: %w", err)
	}

	// Invalidate after the write lands.
	if err := service.cache.Remove(ctx, blogcache.KeyAllCategories); err != nil {
		return nil, fmt.Errorf("category_service_invalidate_failed: %w", err)
	}

	service.logger.Info("category_created",
		slog.Int("id", category.ID),
		slog.String("slug", category.Slug),
	)

	return category, nil
}

/*
Update persists title and note changes, recomputing the slug from the title.

Description: The category's own slug is excluded from the duplicate and
uniqueness checks, so a pure casing change of the title is accepted.

Parameters:
  - ctx: context.Context
  - category: *Category

Returns:
  - *Category: The updated category
  - error: Validation, conflict, or storage failures
*/
func (service *Service) Update(ctx context.Context, category *Category) (*Category, error) {
	if category == nil {
		return nil, apperr.BadArgument("Category must not be nil")
	}

	v := &validate.Validator{}
	v.Required("Title", category.Title).MaxLen("Title", category.Title, TitleMaxLen)
	if err := v.Err(); err != nil {
		return nil, err
	}

	existing, err := service.repository.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("category_service_update_list_failed: %w", err)
	}

	if titleTaken(existing, category.Title, category.ID) {
		return nil, apperr.Conflict(fmt.Sprintf("'%s' already exists.", category.Title))
	}

	categorySlug, err := taxonomySlug(ctx, category.Title, existing, category.ID)
	if err != nil {
		return nil, err
	}
	category.Slug = categorySlug

	if err := service.repository.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("category_service_update_failed: %w", err)
	}

	if err := service.cache.Remove(ctx, blogcache.KeyAllCategories); err != nil {
		return nil, fmt.Errorf("category_service_invalidate_failed: %w", err)
	}

	service.logger.Info("category_updated", slog.Int("id", category.ID))

	return category, nil
}

/*
Delete removes a category and reassigns its posts to the default category.

Description: Deleting the default category is rejected before the repository
or the cache is touched.

Parameters:
  - ctx: context.Context
  - id: int

Returns:
  - error: Conflict when id is the default category, or storage failures
*/
func (service *Service) Delete(ctx context.Context, id int) error {
	blogSettings, err := service.settings.Blog(ctx)
	if err != nil {
		return fmt.Errorf("category_service_delete_settings_failed: %w", err)
	}

	if id == blogSettings.DefaultCategoryID {
		return apperr.Conflict("The default category cannot be deleted.")
	}

	if err := service.repository.Delete(ctx, id, blogSettings.DefaultCategoryID); err != nil {
		if apperr.IsNotFound(err) {
			return apperr.NotFound("Category")
		}
		return fmt.Errorf("category_service_delete_failed: %w", err)
	}

	if err := service.cache.Remove(ctx, blogcache.KeyAllCategories); err != nil {
		return fmt.Errorf("category_service_invalidate_failed: %w", err)
	}

	service.logger.Info("category_deleted", slog.Int("id", id))

	return nil
}

// SetDefault marks an existing category as the default for new posts.
func (service *Service) SetDefault(ctx context.Context, id int) error {
	if _, err := service.Get(ctx, id); err != nil {
		return err
	}

	blogSettings, err := service.settings.Blog(ctx)
	if err != nil {
		return fmt.Errorf("category_service_set_default_settings_failed: %w", err)
	}

	blogSettings.DefaultCategoryID = id
	if err := service.settings.SaveBlog(ctx, blogSettings); err != nil {
		return fmt.Errorf("category_service_set_default_save_failed: %w", err)
	}

	service.logger.Info("default_category_changed", slog.Int("id", id))

	return nil
}

// # Slug Helpers

// titleTaken reports whether another category already uses the title,
// compared case-insensitively. selfID excludes the category being updated.
func titleTaken(existing []*Category, title string, selfID int) bool {
	for _, c := range existing {
		if c.ID != selfID && strings.EqualFold(c.Title, title) {
			return true
		}
	}
	return false
}

// taxonomySlug derives a unique category slug from the title. Titles that
// slugify to nothing (no Latin letters at all) get a random 6-character slug.
func taxonomySlug(ctx context.Context, title string, existing []*Category, selfID int) (string, error) {
	candidate := slug.Make(title)
	if candidate == "" {
		candidate = slug.Random(6)
	}

	taken := make(map[string]bool, len(existing))
	for _, c := range existing {
		if c.ID != selfID {
			taken[c.Slug] = true
		}
	}

	return slug.Unique(ctx, candidate, func(_ context.Context, s string) (bool, error) {
		return taken[s], nil
	})
}
