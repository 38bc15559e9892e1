// Package repository holds the PostgreSQL queries of the blog and its
// goose migrations.
package repository

import (
	"context"
	"embed"
	"io/fs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/inkwell/pkg/db"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrations returns the SQL migrations with the files at the root.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrations, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Queries runs statements against a pool or a transaction.
type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns Queries bound to tx.
func (q *Queries) WithTx(tx pgx.Tx) *Queries {
	return &Queries{db: tx}
}

// InTx runs fn in a transaction when the Queries are bound to a pool, and
// directly (through a savepoint) when they already run inside one.
func (q *Queries) InTx(ctx context.Context, fn func(tx pgx.Tx, q *Queries) error) error {
	b, ok := q.db.(db.Beginner)
	if !ok {
		return fn(nil, q)
	}
	return db.WithTx(ctx, b, func(tx pgx.Tx) error {
		return fn(tx, q.WithTx(tx))
	})
}
