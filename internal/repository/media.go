package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
)

const mediaColumns = `id, storage_key, filename, content_type, size, created`

func scanMedia(row pgx.Row) (*Media, error) {
	var m Media
	if err := row.Scan(&m.ID, &m.StorageKey, &m.Filename, &m.ContentType, &m.Size, &m.Created); err != nil {
		return nil, wrap(err)
	}
	return &m, nil
}

func (q *Queries) CreateMedia(ctx context.Context, m Media) (*Media, error) {
	return scanMedia(q.db.QueryRow(ctx,
		`INSERT INTO media (storage_key, filename, content_type, size) VALUES ($1, $2, $3, $4) RETURNING `+mediaColumns,
		m.StorageKey, m.Filename, m.ContentType, m.Size))
}

func (q *Queries) FindMedia(ctx context.Context, id int64) (*Media, error) {
	return scanMedia(q.db.QueryRow(ctx, `SELECT `+mediaColumns+` FROM media WHERE id = $1`, id))
}

// ListMedia returns uploads newest first.
func (q *Queries) ListMedia(ctx context.Context, p Page) ([]Media, error) {
	rows, err := q.db.Query(ctx,
		`SELECT `+mediaColumns+` FROM media ORDER BY created DESC, id DESC LIMIT $1 OFFSET $2`, p.limit(), p.offset())
	if err != nil {
		return nil, wrap(err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Media, error) {
		m, err := scanMedia(row)
		if err != nil {
			return Media{}, err
		}
		return *m, nil
	})
}
