package tag

import "context"

// Repository is the persistence contract for tags.
type Repository interface {
	// All returns every tag ordered by title, with post counts.
	All(ctx context.Context) ([]*Tag, error)

	// Get returns the tag with the given id, or a not-found error.
	Get(ctx context.Context, id int) (*Tag, error)

	// GetBySlug returns the tag with the given slug, or a not-found error.
	GetBySlug(ctx context.Context, slug string) (*Tag, error)

	// Create inserts the tag and populates its ID.
	Create(ctx context.Context, tag *Tag) error

	// Update persists title, slug and note changes.
	Update(ctx context.Context, tag *Tag) error

	// Delete removes the tag and its post associations.
	Delete(ctx context.Context, id int) error
}
