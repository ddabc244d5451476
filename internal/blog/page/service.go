// Copyright (c) 2026 Plume. All rights reserved.

/*
Package page manages site pages (about, docs, ...) stored alongside posts.

Pages differ from posts in three ways: their slugs never get -N suffixes (a
duplicate is a hard conflict), their slug scope is global rather than
per-day, and they can form a two-level hierarchy through a parent page whose
navigation is authored as markdown with [[Page Title]] wiki links.
*/
package page

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/yuin/goldmark"

	"github.com/plumehq/plume/internal/blog/post"
	"github.com/plumehq/plume/internal/platform/apperr"
	"github.com/plumehq/plume/pkg/oembed"
	"github.com/plumehq/plume/pkg/pagination"
	"github.com/plumehq/plume/pkg/slug"
)

// wikiLinkPattern matches [[Page Title]] links in navigation markdown.
var wikiLinkPattern = regexp.MustCompile(`\[\[([^\]]+)\]\]`)

// # Slug Pipeline

// SlugifyTitle derives a page slug from the title.
//
// Titles with no Latin letters fall back to the percent-encoded title cut at
// the raw 250-byte boundary, even when that leaves a trailing partial
// escape. Existing page URLs depend on this exact form.
func SlugifyTitle(title string) string {
	if s := slug.Make(title); s != "" {
		return s
	}
	return slug.HardTruncate(slug.Encode(title), slug.MaxLen)
}

// NavToHTML renders a parent page's navigation markdown to HTML.
//
// [[Page Title]] wiki links become regular markdown links targeting
// /<parentSlug>/<slug-of-title> before the markdown is rendered.
func NavToHTML(navMarkdown, parentSlug string) string {
	linked := wikiLinkPattern.ReplaceAllStringFunc(navMarkdown, func(match string) string {
		title := wikiLinkPattern.FindStringSubmatch(match)[1]
		return fmt.Sprintf(`[%s](/%s/%s "%s")`, title, parentSlug, SlugifyTitle(title), title)
	})

	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(linked), &buf); err != nil {
		return ""
	}
	return buf.String()
}

// # Service Layer

// Service orchestrates page reads and writes on the shared post repository.
type Service struct {
	repository post.Repository
	logger     *slog.Logger
}

// NewService constructs a new [Service] with its dependencies.
func NewService(repository post.Repository, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		logger:     logger,
	}
}

/*
EnsureSlug verifies that a page slug is free.

Description: Unlike post slugs, page slugs are never suffixed; a collision
with another page is a conflict. The page's own id is excluded so updates
keep their slug.

Parameters:
  - ctx: context.Context
  - pageSlug: string
  - page: *post.Post (the page being created or updated)

Returns:
  - error: Conflict when another page owns the slug
*/
func (service *Service) EnsureSlug(ctx context.Context, pageSlug string, page *post.Post) error {
	pages, _, err := service.repository.List(ctx, post.ListQuery{
		Type: post.TypePage,
		Page: pagination.Params{Page: 1, Limit: pagination.MaxLimit},
	})
	if err != nil {
		return fmt.Errorf("page_service_ensure_slug_failed: %w", err)
	}

	for _, existing := range pages {
		if existing.Slug == pageSlug && existing.ID != page.ID {
			return apperr.Conflict(fmt.Sprintf("'%s' already exists.", pageSlug))
		}
	}

	return nil
}

// Get returns a page by id with its body rendered.
func (service *Service) Get(ctx context.Context, id int) (*post.Post, error) {
	page, err := service.repository.Get(ctx, id)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("Page")
		}
		return nil, fmt.Errorf("page_service_get_failed: %w", err)
	}
	if page.Type != post.TypePage {
		return nil, apperr.NotFound("Page")
	}

	page.BodyRendered = oembed.Parse(page.Body)
	return page, nil
}

// GetBySlug returns the page with the given slug, with its body rendered.
func (service *Service) GetBySlug(ctx context.Context, pageSlug string) (*post.Post, error) {
	pages, _, err := service.repository.List(ctx, post.ListQuery{
		Type: post.TypePage,
		Page: pagination.Params{Page: 1, Limit: pagination.MaxLimit},
	})
	if err != nil {
		return nil, fmt.Errorf("page_service_get_by_slug_failed: %w", err)
	}

	for _, page := range pages {
		if page.Slug == pageSlug {
			page.BodyRendered = oembed.Parse(page.Body)
			return page, nil
		}
	}

	return nil, apperr.NotFound("Page")
}

// List returns all pages under a parent (or the root pages when parentID is
// zero).
func (service *Service) List(ctx context.Context, parentID int) ([]*post.Post, error) {
	pages, _, err := service.repository.List(ctx, post.ListQuery{
		Type:     post.TypePage,
		ParentID: parentID,
		Page:     pagination.Params{Page: 1, Limit: pagination.MaxLimit},
	})
	if err != nil {
		return nil, fmt.Errorf("page_service_list_failed: %w", err)
	}
	return pages, nil
}

/*
Create validates, slugs, and persists a new page.

Description: Draft pages may be untitled; published pages require a title.
The slug comes from [SlugifyTitle] and must be globally free among pages.

Parameters:
  - ctx: context.Context
  - page: *post.Post

Returns:
  - *post.Post: The created page
  - error: Validation, conflict, or storage failures
*/
func (service *Service) Create(ctx context.Context, page *post.Post) (*post.Post, error) {
	if page == nil {
		return nil, apperr.BadArgument("Page must not be nil")
	}

	page.Type = post.TypePage
	if page.Status == "" {
		page.Status = post.StatusDraft
	}

	if err := page.ValidateTitle(); err != nil {
		return nil, err
	}

	pageSlug := SlugifyTitle(page.Title)
	if err := service.EnsureSlug(ctx, pageSlug, page); err != nil {
		return nil, err
	}
	page.Slug = pageSlug

	now := time.Now().UTC()
	if page.CreatedOn.IsZero() {
		page.CreatedOn = now
	}
	page.UpdatedOn = now

	if err := service.repository.Create(ctx, page); err != nil {
		return nil, fmt.Errorf("page_service_create_failed: %w", err)
	}

	service.logger.Info("page_created",
		slog.Int("id", page.ID),
		slog.String("slug", page.Slug),
	)

	return page, nil
}

// Update validates and persists changes to an existing page.
func (service *Service) Update(ctx context.Context, page *post.Post) (*post.Post, error) {
	if page == nil {
		return nil, apperr.BadArgument("Page must not be nil")
	}

	page.Type = post.TypePage
	if err := page.ValidateTitle(); err != nil {
		return nil, err
	}

	current, err := service.repository.Get(ctx, page.ID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("Page")
		}
		return nil, fmt.Errorf("page_service_update_lookup_failed: %w", err)
	}

	pageSlug := SlugifyTitle(page.Title)
	if err := service.EnsureSlug(ctx, pageSlug, page); err != nil {
		return nil, err
	}
	page.Slug = pageSlug
	page.CreatedOn = current.CreatedOn
	page.UpdatedOn = time.Now().UTC()

	if err := service.repository.Update(ctx, page); err != nil {
		return nil, fmt.Errorf("page_service_update_failed: %w", err)
	}

	service.logger.Info("page_updated", slog.Int("id", page.ID))

	return page, nil
}

// Delete removes a page.
func (service *Service) Delete(ctx context.Context, id int) error {
	if _, err := service.Get(ctx, id); err != nil {
		return err
	}

	if err := service.repository.Delete(ctx, id); err != nil {
		return fmt.Errorf("page_service_delete_failed: %w", err)
	}

	service.logger.Info("page_deleted", slog.Int("id", id))

	return nil
}
