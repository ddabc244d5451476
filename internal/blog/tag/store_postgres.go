package tag

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

func (repository *PostgresRepository) All(ctx context.Context) ([]*Tag, error) {
	query := fmt.Sprintf(`
		SELECT t.%s, t.%s, t.%s, t.%s,
		       COUNT(pt.%s)
		FROM %s t
		LEFT JOIN %s pt ON pt.%s = t.%s
		GROUP BY t.%s
		ORDER BY t.%s ASC
	`,
		schema.RefTag.ID, schema.RefTag.Title, schema.RefTag.Slug, schema.RefTag.Note,
		schema.RefPostTag.PostID,
		schema.RefTag.Table,
		schema.RefPostTag.Table, schema.RefPostTag.TagID, schema.RefTag.ID,
		schema.RefTag.ID,
		schema.RefTag.Title,
	)

	rows, err := repository.db.Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_tags")
	}
	defer rows.Close()

	tags := make([]*Tag, 0)
	for rows.Next() {
		t := &Tag{}
		if err := rows.Scan(&t.ID, &t.Title, &t.Slug, &t.Note, &t.Count); err != nil {
			return nil, dberr.Wrap(err, "scan_tag")
		}
		tags = append(tags, t)
	}

	return tags, nil
}

func (repository *PostgresRepository) Get(ctx context.Context, id int) (*Tag, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s FROM %s WHERE %s = $1`,
		schema.RefTag.ID, schema.RefTag.Title, schema.RefTag.Slug, schema.RefTag.Note,
		schema.RefTag.Table, schema.RefTag.ID)

	t := &Tag{}
	err := repository.db.QueryRow(ctx, query, id).Scan(&t.ID, &t.Title, &t.Slug, &t.Note)
	if err != nil {
		return nil, dberr.Wrap(err, "get_tag_by_id")
	}

	return t, nil
}

func (repository *PostgresRepository) GetBySlug(ctx context.Context, slug string) (*Tag, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s FROM %s WHERE %s = $1`,
		schema.RefTag.ID, schema.RefTag.Title, schema.RefTag.Slug, schema.RefTag.Note,
		schema.RefTag.Table, schema.RefTag.Slug)

	t := &Tag{}
	err := repository.db.QueryRow(ctx, query, slug).Scan(&t.ID, &t.Title, &t.Slug, &t.Note)
	if err != nil {
		return nil, dberr.Wrap(err, "get_tag_by_slug")
	}

	return t, nil
}

func (repository *PostgresRepository) Create(ctx context.Context, tag *Tag) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3) RETURNING %s`,
		schema.RefTag.Table,
		schema.RefTag.Title, schema.RefTag.Slug, schema.RefTag.Note,
		schema.RefTag.ID)

	err := repository.db.QueryRow(ctx, query, tag.Title, tag.Slug, tag.Note).Scan(&tag.ID)
	if err != nil {
		return dberr.Wrap(err, "create_tag")
	}

	return nil
}

func (repository *PostgresRepository) Update(ctx context.Context, tag *Tag) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = $2, %s = $3 WHERE %s = $4`,
		schema.RefTag.Table,
		schema.RefTag.Title, schema.RefTag.Slug, schema.RefTag.Note,
		schema.RefTag.ID)

	cmdTag, err := repository.db.Exec(ctx, query, tag.Title, tag.Slug, tag.Note, tag.ID)
	if err != nil {
		return dberr.Wrap(err, "update_tag")
	}
	if cmdTag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}

// Delete removes the tag's post associations and then the tag, in one
// transaction.
func (repository *PostgresRepository) Delete(ctx context.Context, id int) error {
	tx, err := repository.db.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "delete_tag_begin")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	unlink := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.RefPostTag.Table, schema.RefPostTag.TagID)
	if _, err := tx.Exec(ctx, unlink, id); err != nil {
		return dberr.Wrap(err, "delete_tag_unlink_posts")
	}

	remove := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.RefTag.Table, schema.RefTag.ID)
	cmdTag, err := tx.Exec(ctx, remove, id)
	if err != nil {
		return dberr.Wrap(err, "delete_tag")
	}
	if cmdTag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return dberr.Wrap(err, "delete_tag_commit")
	}

	return nil
}
