// Copyright (c) 2026 Plume. All rights reserved.

package post

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/plumehq/plume/internal/platform/apperr"
	"github.com/plumehq/plume/internal/platform/blogcache"
	"github.com/plumehq/plume/internal/platform/settings"
	"github.com/plumehq/plume/pkg/oembed"
	"github.com/plumehq/plume/pkg/pagination"
	"github.com/plumehq/plume/pkg/slug"
)

// Op tells the slug resolver whether it is serving a create or an update.
type Op int

const (
	// OpCreate resolves against every existing slug in the day scope,
	// including the caller's own (a re-created post still gets a suffix).
	OpCreate Op = iota

	// OpUpdate excludes the post's own id, so saving without a title change
	// keeps the same slug.
	OpUpdate
)

// # Service Layer

// Service orchestrates blog post reads and writes.
//
// Cached collections (index, monthly archives) follow the cache-aside
// policy: every write mutates the repository first, then removes the
// affected keys.
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

// # Slug Resolution

/*
ResolveSlug derives a unique slug for a post created on a given day.

Description: The title goes through the ASCII pipeline first; titles with no
Latin letters fall back to the percent-encoded title, truncated so no encoded
triplet is cut mid-way. Uniqueness is scoped to (slug, year, month, day):
on collision the resolver bumps the slug's trailing -N suffix (adding -2 to
a bare slug) until a free slug is found, so "blog-post-title-2" resolves to
"blog-post-title-3".

Parameters:
  - ctx: context.Context
  - title: string
  - createdOn: time.Time (day scope for uniqueness)
  - op: Op (create collides even with postID's own slug; update excludes it)
  - postID: int

Returns:
  - string: The unique slug
  - error: Repository failures during the collision probes
*/
func (service *Service) ResolveSlug(ctx context.Context, title string, createdOn time.Time, op Op, postID int) (string, error) {
	candidate := slug.Make(title)
	if candidate == "" {
		candidate = slug.TruncateEncoded(slug.Encode(title), slug.MaxLen)
	}
	if candidate == "" {
		// Untitled drafts still need a stable address.
		candidate = slug.Random(8)
	}

	return slug.Unique(ctx, candidate, func(ctx context.Context, s string) (bool, error) {
		existing, err := service.repository.GetBySlug(ctx, s, createdOn)
		if err != nil {
			if apperr.IsNotFound(err) {
				return false, nil
			}
			return false, err
		}
		if op == OpUpdate && existing.ID == postID {
			return false, nil
		}
		return true, nil
	})
}

// # Reads

// Get returns a post by id with its body rendered.
func (service *Service) Get(ctx context.Context, id int) (*Post, error) {
	post, err := service.repository.Get(ctx, id)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("Post")
		}
		return nil, fmt.Errorf("post_service_get_failed: %w", err)
	}

	post.BodyRendered = oembed.Parse(post.Body)
	return post, nil
}

// GetBySlug returns the post published under slug on the given day, with its
// body rendered.
func (service *Service) GetBySlug(ctx context.Context, postSlug string, year, month, day int) (*Post, error) {
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)

	post, err := service.repository.GetBySlug(ctx, postSlug, date)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("Post")
		}
		return nil, fmt.Errorf("post_service_get_by_slug_failed: %w", err)
	}

	post.BodyRendered = oembed.Parse(post.Body)
	return post, nil
}

// List returns a page of posts for the admin surface. No cache: the admin
// needs to see drafts and fresh writes immediately.
func (service *Service) List(ctx context.Context, query ListQuery) ([]*Post, int, error) {
	if query.Type == "" {
		query.Type = TypePost
	}
	if query.Page.Limit == 0 {
		query.Page = pagination.Params{Page: pagination.DefaultPage, Limit: pagination.DefaultLimit}
	}

	posts, total, err := service.repository.List(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("post_service_list_failed: %w", err)
	}
	return posts, total, nil
}

// Index returns the most recent published posts for the front page,
// cache-aside on [blogcache.KeyPostsIndex].
func (service *Service) Index(ctx context.Context) ([]*Post, error) {
	blogSettings, err := service.settings.Blog(ctx)
	if err != nil {
		return nil, fmt.Errorf("post_service_index_settings_failed: %w", err)
	}

	posts, err := blogcache.GetOrLoad(ctx, service.cache, blogcache.KeyPostsIndex,
		func(ctx context.Context) ([]*Post, error) {
			posts, _, err := service.repository.List(ctx, ListQuery{
				Type:   TypePost,
				Status: StatusPublished,
				Page:   pagination.Params{Page: 1, Limit: blogSettings.PostsPerPage},
			})
			return posts, err
		})
	if err != nil {
		return nil, err
	}

	for _, p := range posts {
		p.BodyRendered = oembed.Parse(p.Body)
	}
	return posts, nil
}

// Archive returns the published posts of a month, cache-aside on the
// composite archive key.
func (service *Service) Archive(ctx context.Context, year, month int) ([]*Post, error) {
	posts, err := blogcache.GetOrLoad(ctx, service.cache, blogcache.ArchiveKey(year, month),
		func(ctx context.Context) ([]*Post, error) {
			posts, _, err := service.repository.List(ctx, ListQuery{
				Type:   TypePost,
				Status: StatusPublished,
				Year:   year,
				Month:  month,
				Page:   pagination.Params{Page: 1, Limit: pagination.MaxLimit},
			})
			return posts, err
		})
	if err != nil {
		return nil, err
	}

	for _, p := range posts {
		p.BodyRendered = oembed.Parse(p.Body)
	}
	return posts, nil
}

// # Writes

/*
Create validates, slugs, and persists a new blog post.

Parameters:
  - ctx: context.Context
  - post: *Post (Title, Body, Status, CategoryID, TagIDs)

Returns:
  - *Post: The created post with ID, slug and timestamps assigned
  - error: Validation or storage failures
*/
func (service *Service) Create(ctx context.Context, post *Post) (*Post, error) {
	if post == nil {
		return nil, apperr.BadArgument("Post must not be nil")
	}

	if post.Type == "" {
		post.Type = TypePost
	}
	if post.Status == "" {
		post.Status = StatusDraft
	}

	if err := post.ValidateTitle(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if post.CreatedOn.IsZero() {
		post.CreatedOn = now
	}
	post.UpdatedOn = now

	if post.Type == TypePost && post.CategoryID == 0 {
		blogSettings, err := service.settings.Blog(ctx)
		if err != nil {
			return nil, fmt.Errorf("post_service_create_settings_failed: %w", err)
		}
		post.CategoryID = blogSettings.DefaultCategoryID
	}

	postSlug, err := service.ResolveSlug(ctx, post.Title, post.CreatedOn, OpCreate, post.ID)
	if err != nil {
		return nil, fmt.Errorf("post_service_create_slug_failed: %w", err)
	}
	post.Slug = postSlug

	if err := service.repository.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("post_service_create_failed: %w", err)
	}

	if err := service.invalidate(ctx, post.CreatedOn); err != nil {
		return nil, err
	}

	service.logger.Info("post_created",
		slog.Int("id", post.ID),
		slog.String("slug", post.Slug),
		slog.String("status", string(post.Status)),
	)

	return post, nil
}

/*
Update validates and persists changes to an existing blog post.

Description: The slug is re-resolved from the title within the post's
original day scope; the post's own id is excluded so an unchanged title keeps
its slug.

Parameters:
  - ctx: context.Context
  - post: *Post

Returns:
  - *Post: The updated post
  - error: Validation, not-found, or storage failures
*/
func (service *Service) Update(ctx context.Context, post *Post) (*Post, error) {
	if post == nil {
		return nil, apperr.BadArgument("Post must not be nil")
	}

	if err := post.ValidateTitle(); err != nil {
		return nil, err
	}

	current, err := service.repository.Get(ctx, post.ID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("Post")
		}
		return nil, fmt.Errorf("post_service_update_lookup_failed: %w", err)
	}

	// The day scope of the slug is pinned to the original publish date.
	post.Type = current.Type
	post.CreatedOn = current.CreatedOn
	post.UpdatedOn = time.Now().UTC()

	postSlug, err := service.ResolveSlug(ctx, post.Title, post.CreatedOn, OpUpdate, post.ID)
	if err != nil {
		return nil, fmt.Errorf("post_service_update_slug_failed: %w", err)
	}
	post.Slug = postSlug

	if err := service.repository.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("post_service_update_failed: %w", err)
	}

	if err := service.invalidate(ctx, post.CreatedOn); err != nil {
		return nil, err
	}

	service.logger.Info("post_updated", slog.Int("id", post.ID))

	return post, nil
}

// Delete removes a post and invalidates the index and its archive month.
func (service *Service) Delete(ctx context.Context, id int) error {
	current, err := service.repository.Get(ctx, id)
	if err != nil {
		if apperr.IsNotFound(err) {
			return apperr.NotFound("Post")
		}
		return fmt.Errorf("post_service_delete_lookup_failed: %w", err)
	}

	if err := service.repository.Delete(ctx, id); err != nil {
		return fmt.Errorf("post_service_delete_failed: %w", err)
	}

	if err := service.invalidate(ctx, current.CreatedOn); err != nil {
		return err
	}

	service.logger.Info("post_deleted", slog.Int("id", id))

	return nil
}

// invalidate removes the index key and the archive key of the affected month.
// Called strictly after the repository mutation has landed.
func (service *Service) invalidate(ctx context.Context, createdOn time.Time) error {
	if err := service.cache.Remove(ctx, blogcache.KeyPostsIndex); err != nil {
		return fmt.Errorf("post_service_invalidate_failed: %w", err)
	}
	if err := service.cache.Remove(ctx, blogcache.ArchiveKey(createdOn.Year(), int(createdOn.Month()))); err != nil {
		return fmt.Errorf("post_service_invalidate_failed: %w", err)
	}
	return nil
}
