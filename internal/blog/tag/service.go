// Copyright (c) 2026 Plume. All rights reserved.

package tag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/plumehq/plume/internal/platform/apperr"
	"github.com/plumehq/plume/internal/platform/blogcache"
	"github.com/plumehq/plume/internal/platform/validate"
	"github.com/plumehq/plume/pkg/slug"
)

// TitleMaxLen is the maximum tag title length in characters.
const TitleMaxLen = 250

// # Service Layer

// Service orchestrates tag reads and writes.
//
// Reads go through the cache; every write mutates the repository first and
// then removes [blogcache.KeyAllTags] so the next read repopulates.
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

// # Reads

// All returns every tag, cache-aside on [blogcache.KeyAllTags].
func (service *Service) All(ctx context.Context) ([]*Tag, error) {
	return blogcache.GetOrLoad(ctx, service.cache, blogcache.KeyAllTags,
		func(ctx context.Context) ([]*Tag, error) {
			return service.repository.All(ctx)
		})
}

// Get returns the tag with the given id.
func (service *Service) Get(ctx context.Context, id int) (*Tag, error) {
	tag, err := service.repository.Get(ctx, id)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("Tag")
		}
		return nil, fmt.Errorf("tag_service_get_failed: %w", err)
	}
	return tag, nil
}

// GetBySlug returns the tag with the given slug.
func (service *Service) GetBySlug(ctx context.Context, tagSlug string) (*Tag, error) {
	tag, err := service.repository.GetBySlug(ctx, tagSlug)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("Tag")
		}
		return nil, fmt.Errorf("tag_service_get_by_slug_failed: %w", err)
	}
	return tag, nil
}

// # Writes

/*
Create adds a new tag with a unique slug derived from the title.

Description: Titles with no Latin letters slugify to nothing and receive a
random 6-character slug instead. A title colliding case-insensitively with an
existing tag is rejected.

Parameters:
  - ctx: context.Context
  - tag: *Tag (Title required; Slug is assigned here)

Returns:
  - *Tag: The created tag with its assigned ID and slug
  - error: Validation, conflict, or storage failures
*/
func (service *Service) Create(ctx context.Context, tag *Tag) (*Tag, error) {
	if tag == nil {
		return nil, apperr.BadArgument("Tag must not be nil")
	}

	v := &validate.Validator{}
	v.Required("Title", tag.Title).MaxLen("Title", tag.Title, TitleMaxLen)
	if err := v.Err(); err != nil {
		return nil, err
	}

	existing, err := service.repository.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("tag_service_create_list_failed: %w", err)
	}

	if titleTaken(existing, tag.Title, 0) {
		return nil, apperr.Conflict(fmt.Sprintf("'%s' already exists.", tag.Title))
	}

	tagSlug, err := taxonomySlug(ctx, tag.Title, existing, 0)
	if err != nil {
		return nil, err
	}
	tag.Slug = tagSlug

	if err := service.repository.Create(ctx, tag); err != nil {
		return nil, fmt.Errorf("tag_service_create_failed: %w", err)
	}

	// Invalidate after the write lands.
	if err := service.cache.Remove(ctx, blogcache.KeyAllTags); err != nil {
		return nil, fmt.Errorf("tag_service_invalidate_failed: %w", err)
	}

	service.logger.Info("tag_created",
		slog.Int("id", tag.ID),
		slog.String("slug", tag.Slug),
	)

	return tag, nil
}

/*
Update persists title and note changes, recomputing the slug from the title.

Description: The tag's own id is excluded from the duplicate and uniqueness
checks, so a pure casing change of the title is accepted.

Parameters:
  - ctx: context.Context
  - tag: *Tag

Returns:
  - *Tag: The updated tag
  - error: Validation, conflict, or storage failures
*/
func (service *Service) Update(ctx context.Context, tag *Tag) (*Tag, error) {
	if tag == nil {
		return nil, apperr.BadArgument("Tag must not be nil")
	}

	v := &validate.Validator{}
	v.Required("Title", tag.Title).MaxLen("Title", tag.Title, TitleMaxLen)
	if err := v.Err(); err != nil {
		return nil, err
	}

	existing, err := service.repository.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("tag_service_update_list_failed: %w", err)
	}

	if titleTaken(existing, tag.Title, tag.ID) {
		return nil, apperr.Conflict(fmt.Sprintf("'%s' already exists.", tag.Title))
	}

	tagSlug, err := taxonomySlug(ctx, tag.Title, existing, tag.ID)
	if err != nil {
		return nil, err
	}
	tag.Slug = tagSlug

	if err := service.repository.Update(ctx, tag); err != nil {
		return nil, fmt.Errorf("tag_service_update_failed: %w", err)
	}

	if err := service.cache.Remove(ctx, blogcache.KeyAllTags); err != nil {
		return nil, fmt.Errorf("tag_service_invalidate_failed: %w", err)
	}

	service.logger.Info("tag_updated", slog.Int("id", tag.ID))

	return tag, nil
}

// Delete removes a tag and invalidates the tag collection cache.
func (service *Service) Delete(ctx context.Context, id int) error {
	if err := service.repository.Delete(ctx, id); err != nil {
		if apperr.IsNotFound(err) {
			return apperr.NotFound("Tag")
		}
		return fmt.Errorf("tag_service_delete_failed: %w", err)
	}

	if err := service.cache.Remove(ctx, blogcache.KeyAllTags); err != nil {
		return fmt.Errorf("tag_service_invalidate_failed: %w", err)
	}

	service.logger.Info("tag_deleted", slog.Int("id", id))

	return nil
}

// # Slug Helpers

// titleTaken reports whether another tag already uses the title, compared
// case-insensitively. selfID excludes the tag being updated.
func titleTaken(existing []*Tag, title string, selfID int) bool {
	for _, t := range existing {
		if t.ID != selfID && strings.EqualFold(t.Title, title) {
			return true
		}
	}
	return false
}

// taxonomySlug derives a unique tag slug from the title. Titles that slugify
// to nothing get a random 6-character slug.
func taxonomySlug(ctx context.Context, title string, existing []*Tag, selfID int) (string, error) {
	candidate := slug.Make(title)
	if candidate == "" {
		candidate = slug.Random(6)
	}

	taken := make(map[string]bool, len(existing))
	for _, t := range existing {
		if t.ID != selfID {
			taken[t.Slug] = true
		}
	}

	return slug.Unique(ctx, candidate, func(_ context.Context, s string) (bool, error) {
		return taken[s], nil
	})
}
