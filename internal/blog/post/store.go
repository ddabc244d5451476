package post

import (
	"context"
	"time"

	"github.com/plumehq/plume/pkg/pagination"
)

// ListQuery selects a page of posts from the repository.
type ListQuery struct {
	// Type restricts results to posts or pages. Empty means both.
	Type Type

	// Status restricts results to a publication state. Empty means any.
	Status Status

	// CategoryID, TagID, and ParentID filter when non-zero.
	CategoryID int
	TagID      int
	ParentID   int

	// Year/Month restrict to a monthly archive when Year is non-zero.
	Year  int
	Month int

	Page pagination.Params
}

// Repository is the persistence contract shared by posts and pages.
type Repository interface {
	// List returns a page of posts matching the query, newest first, plus
	// the total match count.
	List(ctx context.Context, query ListQuery) ([]*Post, int, error)

	// Get returns the post with the given id, or a not-found error.
	Get(ctx context.Context, id int) (*Post, error)

	// GetBySlug returns the post with the given slug published on the given
	// date, or a not-found error. Slug uniqueness is scoped per day.
	GetBySlug(ctx context.Context, slug string, createdOn time.Time) (*Post, error)

	// Create inserts the post and its tag links, populating its ID.
	Create(ctx context.Context, post *Post) error

	// Update persists the post and replaces its tag links.
	Update(ctx context.Context, post *Post) error

	// Delete removes the post and its tag links.
	Delete(ctx context.Context, id int) error
}
