package category

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/plumehq/plume/internal/platform/database/schema"
	"github.com/plumehq/plume/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) All(ctx context.Context) ([]*Category, error) {
	query := fmt.Sprintf(`
		SELECT c.%s, c.%s, c.%s, c.%s,
		       COUNT(p.%s) FILTER (WHERE p.%s = 'published' AND p.%s = 'post')
		FROM %s c
		LEFT JOIN %s p ON p.%s = c.%s
		GROUP BY c.%s
		ORDER BY c.%s ASC
	`,
		schema.RefCategory.ID, schema.RefCategory.Title, schema.RefCategory.Slug, schema.RefCategory.Note,
		schema.RefPost.ID, schema.RefPost.Status, schema.RefPost.Type,
		schema.RefCategory.Table,
		schema.RefPost.Table, schema.RefPost.CategoryID, schema.RefCategory.ID,
		schema.RefCategory.ID,
		schema.RefCategory.Title,
	)

	rows, err := repository.db.Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_categories")
	}
	defer rows.Close()

	categories := make([]*Category, 0)
	for rows.Next() {
		c := &Category{}
		if err := rows.Scan(&c.ID, &c.Title, &c.Slug, &c.Note, &c.Count); err != nil {
			return nil, dberr.Wrap(err, "scan_category")
		}
		categories = append(categories, c)
	}

	return categories, nil
}

func (repository *PostgresRepository) Get(ctx context.Context, id int) (*Category, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s FROM %s WHERE %s = $1`,
		schema.RefCategory.ID, schema.RefCategory.Title, schema.RefCategory.Slug, schema.RefCategory.Note,
		schema.RefCategory.Table, schema.RefCategory.ID)

	c := &Category{}
	err := repository.db.QueryRow(ctx, query, id).Scan(&c.ID, &c.Title, &c.Slug, &c.Note)
	if err != nil {
		return nil, dberr.Wrap(err, "get_category_by_id")
	}

	return c, nil
}

func (repository *PostgresRepository) GetBySlug(ctx context.Context, slug string) (*Category, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s FROM %s WHERE %s = $1`,
		schema.RefCategory.ID, schema.RefCategory.Title, schema.RefCategory.Slug, schema.RefCategory.Note,
		schema.RefCategory.Table, schema.RefCategory.Slug)

	c := &Category{}
	err := repository.db.QueryRow(ctx, query, slug).Scan(&c.ID, &c.Title, &c.Slug, &c.Note)
	if err != nil {
		return nil, dberr.Wrap(err, "get_category_by_slug")
	}

	return c, nil
}

func (repository *PostgresRepository) Create(ctx context.Context, category *Category) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3) RETURNING %s`,
		schema.RefCategory.Table,
		schema.RefCategory.Title, schema.RefCategory.Slug, schema.RefCategory.Note,
		schema.RefCategory.ID)

	err := repository.db.QueryRow(ctx, query, category.Title, category.Slug, category.Note).Scan(&category.ID)
	if err != nil {
		return dberr.Wrap(err, "create_category")
	}

	return nil
}

func (repository *PostgresRepository) Update(ctx context.Context, category *Category) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = $2, %s = $3 WHERE %s = $4`,
		schema.RefCategory.Table,
		schema.RefCategory.Title, schema.RefCategory.Slug, schema.RefCategory.Note,
		schema.RefCategory.ID)

	tag, err := repository.db.Exec(ctx, query, category.Title, category.Slug, category.Note, category.ID)
	if err != nil {
		return dberr.Wrap(err, "update_category")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}

// Delete reassigns the category's posts to the default category inside one
// transaction, then removes the row.
func (repository *PostgresRepository) Delete(ctx context.Context, id, defaultCategoryID int) error {
	tx, err := repository.db.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "delete_category_begin")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	reassign := fmt.Sprintf(`UPDATE %s SET %s = $1 WHERE %s = $2`,
		schema.RefPost.Table, schema.RefPost.CategoryID, schema.RefPost.CategoryID)
	if _, err := tx.Exec(ctx, reassign, defaultCategoryID, id); err != nil {
		return dberr.Wrap(err, "delete_category_reassign_posts")
	}

	remove := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.RefCategory.Table, schema.RefCategory.ID)
	tag, err := tx.Exec(ctx, remove, id)
	if err != nil {
		return dberr.Wrap(err, "delete_category")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return dberr.Wrap(err, "delete_category_commit")
	}

	return nil
}
