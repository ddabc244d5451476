package settings

import "context"

// Repository is the persistence contract for settings meta rows.
type Repository interface {
	// Get returns the meta row for key, or a not-found error.
	Get(ctx context.Context, key string) (*Meta, error)

	// Upsert inserts or replaces the meta row for meta.Key.
	Upsert(ctx context.Context, meta *Meta) error
}
