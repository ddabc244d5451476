package category

import "context"

// Repository is the persistence contract for categories.
type Repository interface {
	// All returns every category ordered by title, with post counts.
	All(ctx context.Context) ([]*Category, error)

	// Get returns the category with the given id, or a not-found error.
	Get(ctx context.Context, id int) (*Category, error)

	// GetBySlug returns the category with the given slug, or a not-found error.
	GetBySlug(ctx context.Context, slug string) (*Category, error)

	// Create inserts the category and populates its ID.
	Create(ctx context.Context, category *Category) error

	// Update persists title, slug and note changes.
	Update(ctx context.Context, category *Category) error

	// Delete removes the category and reassigns its posts to defaultCategoryID.
	Delete(ctx context.Context, id, defaultCategoryID int) error
}
