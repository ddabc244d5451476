package post

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
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

// postColumns is the SELECT list shared by every read query.
func postColumns(alias string) string {
	cols := schema.RefPost.Columns()
	prefixed := make([]string, len(cols))
	for i, c := range cols {
		prefixed[i] = alias + "." + c
	}
	return strings.Join(prefixed, ", ")
}

func scanPost(row pgx.Row) (*Post, error) {
	p := &Post{}
	err := row.Scan(
		&p.ID, &p.Type, &p.Title, &p.Slug, &p.Body, &p.Excerpt,
		&p.Status, &p.CategoryID, &p.ParentID, &p.CreatedOn, &p.UpdatedOn,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (repository *PostgresRepository) List(ctx context.Context, query ListQuery) ([]*Post, int, error) {
	conditions := []string{"TRUE"}
	args := []any{}
	arg := func(value any) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if query.Type != "" {
		conditions = append(conditions, fmt.Sprintf("p.%s = %s", schema.RefPost.Type, arg(query.Type)))
	}
	if query.Status != "" {
		conditions = append(conditions, fmt.Sprintf("p.%s = %s", schema.RefPost.Status, arg(query.Status)))
	}
	if query.CategoryID != 0 {
		conditions = append(conditions, fmt.Sprintf("p.%s = %s", schema.RefPost.CategoryID, arg(query.CategoryID)))
	}
	if query.ParentID != 0 {
		conditions = append(conditions, fmt.Sprintf("p.%s = %s", schema.RefPost.ParentID, arg(query.ParentID)))
	}
	if query.TagID != 0 {
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM %s pt WHERE pt.%s = p.%s AND pt.%s = %s)",
			schema.RefPostTag.Table, schema.RefPostTag.PostID, schema.RefPost.ID,
			schema.RefPostTag.TagID, arg(query.TagID)))
	}
	if query.Year != 0 {
		conditions = append(conditions, fmt.Sprintf(
			"EXTRACT(YEAR FROM p.%s) = %s", schema.RefPost.CreatedOn, arg(query.Year)))
		if query.Month != 0 {
			conditions = append(conditions, fmt.Sprintf(
				"EXTRACT(MONTH FROM p.%s) = %s", schema.RefPost.CreatedOn, arg(query.Month)))
		}
	}

	where := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s p WHERE %s`, schema.RefPost.Table, where)
	total := 0
	if err := repository.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_posts")
	}

	listQuery := fmt.Sprintf(`
		SELECT %s FROM %s p
		WHERE %s
		ORDER BY p.%s DESC
		LIMIT %s OFFSET %s
	`,
		postColumns("p"), schema.RefPost.Table, where, schema.RefPost.CreatedOn,
		arg(query.Page.Limit), arg(query.Page.Offset()))

	rows, err := repository.db.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_posts")
	}
	defer rows.Close()

	posts := make([]*Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_post")
		}
		posts = append(posts, p)
	}

	if err := repository.loadTagLinks(ctx, posts); err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

func (repository *PostgresRepository) Get(ctx context.Context, id int) (*Post, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s p WHERE p.%s = $1`,
		postColumns("p"), schema.RefPost.Table, schema.RefPost.ID)

	p, err := scanPost(repository.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_post_by_id")
	}

	if err := repository.loadTagLinks(ctx, []*Post{p}); err != nil {
		return nil, err
	}

	return p, nil
}

func (repository *PostgresRepository) GetBySlug(ctx context.Context, slug string, createdOn time.Time) (*Post, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s p
		WHERE p.%s = $1 AND p.%s::date = $2
	`,
		postColumns("p"), schema.RefPost.Table,
		schema.RefPost.Slug, schema.RefPost.CreatedOn)

	day := time.Date(createdOn.Year(), createdOn.Month(), createdOn.Day(), 0, 0, 0, 0, time.UTC)

	p, err := scanPost(repository.db.QueryRow(ctx, query, slug, day))
	if err != nil {
		return nil, dberr.Wrap(err, "get_post_by_slug")
	}

	if err := repository.loadTagLinks(ctx, []*Post{p}); err != nil {
		return nil, err
	}

	return p, nil
}

func (repository *PostgresRepository) Create(ctx context.Context, post *Post) error {
	tx, err := repository.db.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "create_post_begin")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING %s
	`,
		schema.RefPost.Table,
		schema.RefPost.Type, schema.RefPost.Title, schema.RefPost.Slug,
		schema.RefPost.Body, schema.RefPost.Excerpt, schema.RefPost.Status,
		schema.RefPost.CategoryID, schema.RefPost.ParentID,
		schema.RefPost.CreatedOn, schema.RefPost.UpdatedOn,
		schema.RefPost.ID,
	)

	err = tx.QueryRow(ctx, query,
		post.Type, post.Title, post.Slug, post.Body, post.Excerpt, post.Status,
		post.CategoryID, post.ParentID, post.CreatedOn, post.UpdatedOn,
	).Scan(&post.ID)
	if err != nil {
		return dberr.Wrap(err, "create_post")
	}

	if err := replaceTagLinks(ctx, tx, post); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return dberr.Wrap(err, "create_post_commit")
	}

	return nil
}

func (repository *PostgresRepository) Update(ctx context.Context, post *Post) error {
	tx, err := repository.db.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "update_post_begin")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := fmt.Sprintf(`
		UPDATE %s SET %s = $1, %s = $2, %s = $3, %s = $4, %s = $5,
		              %s = $6, %s = $7, %s = $8
		WHERE %s = $9
	`,
		schema.RefPost.Table,
		schema.RefPost.Title, schema.RefPost.Slug, schema.RefPost.Body,
		schema.RefPost.Excerpt, schema.RefPost.Status,
		schema.RefPost.CategoryID, schema.RefPost.ParentID, schema.RefPost.UpdatedOn,
		schema.RefPost.ID,
	)

	cmdTag, err := tx.Exec(ctx, query,
		post.Title, post.Slug, post.Body, post.Excerpt, post.Status,
		post.CategoryID, post.ParentID, post.UpdatedOn, post.ID,
	)
	if err != nil {
		return dberr.Wrap(err, "update_post")
	}
	if cmdTag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	if err := replaceTagLinks(ctx, tx, post); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return dberr.Wrap(err, "update_post_commit")
	}

	return nil
}

func (repository *PostgresRepository) Delete(ctx context.Context, id int) error {
	tx, err := repository.db.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "delete_post_begin")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	unlink := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.RefPostTag.Table, schema.RefPostTag.PostID)
	if _, err := tx.Exec(ctx, unlink, id); err != nil {
		return dberr.Wrap(err, "delete_post_unlink_tags")
	}

	remove := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.RefPost.Table, schema.RefPost.ID)
	cmdTag, err := tx.Exec(ctx, remove, id)
	if err != nil {
		return dberr.Wrap(err, "delete_post")
	}
	if cmdTag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return dberr.Wrap(err, "delete_post_commit")
	}

	return nil
}

// replaceTagLinks rewrites the post_tag rows for the post inside tx.
func replaceTagLinks(ctx context.Context, tx pgx.Tx, post *Post) error {
	unlink := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.RefPostTag.Table, schema.RefPostTag.PostID)
	if _, err := tx.Exec(ctx, unlink, post.ID); err != nil {
		return dberr.Wrap(err, "clear_post_tags")
	}

	link := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2)`,
		schema.RefPostTag.Table, schema.RefPostTag.PostID, schema.RefPostTag.TagID)
	for _, tagID := range post.TagIDs {
		if _, err := tx.Exec(ctx, link, post.ID, tagID); err != nil {
			return dberr.Wrap(err, "link_post_tag")
		}
	}

	return nil
}

// loadTagLinks populates TagIDs for the given posts in one query.
func (repository *PostgresRepository) loadTagLinks(ctx context.Context, posts []*Post) error {
	if len(posts) == 0 {
		return nil
	}

	byID := make(map[int]*Post, len(posts))
	ids := make([]int, 0, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}

	query := fmt.Sprintf(`SELECT %s, %s FROM %s WHERE %s = ANY($1)`,
		schema.RefPostTag.PostID, schema.RefPostTag.TagID,
		schema.RefPostTag.Table, schema.RefPostTag.PostID)

	rows, err := repository.db.Query(ctx, query, ids)
	if err != nil {
		return dberr.Wrap(err, "load_post_tags")
	}
	defer rows.Close()

	for rows.Next() {
		var postID, tagID int
		if err := rows.Scan(&postID, &tagID); err != nil {
			return dberr.Wrap(err, "scan_post_tag")
		}
		if p, ok := byID[postID]; ok {
			p.TagIDs = append(p.TagIDs, tagID)
		}
	}

	return nil
}
