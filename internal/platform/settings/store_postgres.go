package settings

import (
	"context"
	"fmt"
	"time"

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

func (repository *PostgresRepository) Get(ctx context.Context, key string) (*Meta, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s FROM %s WHERE %s = $1`,
		schema.RefMeta.Key, schema.RefMeta.Value, schema.RefMeta.UpdatedOn,
		schema.RefMeta.Table, schema.RefMeta.Key)

	meta := &Meta{}
	err := repository.db.QueryRow(ctx, query, key).Scan(&meta.Key, &meta.Value, &meta.UpdatedOn)
	if err != nil {
		return nil, dberr.Wrap(err, "get_meta")
	}

	return meta, nil
}

func (repository *PostgresRepository) Upsert(ctx context.Context, meta *Meta) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, $3)
		ON CONFLICT (%s) DO UPDATE SET %s = EXCLUDED.%s, %s = EXCLUDED.%s
	`,
		schema.RefMeta.Table, schema.RefMeta.Key, schema.RefMeta.Value, schema.RefMeta.UpdatedOn,
		schema.RefMeta.Key,
		schema.RefMeta.Value, schema.RefMeta.Value,
		schema.RefMeta.UpdatedOn, schema.RefMeta.UpdatedOn,
	)

	meta.UpdatedOn = time.Now().UTC()

	if _, err := repository.db.Exec(ctx, query, meta.Key, meta.Value, meta.UpdatedOn); err != nil {
		return dberr.Wrap(err, "upsert_meta")
	}

	return nil
}
