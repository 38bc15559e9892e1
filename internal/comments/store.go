package comments

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/inkwell/internal/repository"
	"github.com/dmitrymomot/inkwell/pkg/job"
)

// Store is the data access the controller needs.
type Store interface {
	FindCommenterByEmail(ctx context.Context, email string) (*repository.Commenter, error)
	FindCommenter(ctx context.Context, id int64) (*repository.Commenter, error)
	CreateCommenter(ctx context.Context, email, name string) (*repository.Commenter, error)
	FindComment(ctx context.Context, id int64) (*repository.Comment, error)
	KnownIPs(ctx context.Context, commenterID int64) ([]string, error)
	CreateComment(ctx context.Context, c repository.Comment) (*repository.Comment, error)
	ConfirmComment(ctx context.Context, id int64) error
	FindArticle(ctx context.Context, id int64) (*repository.Article, error)
	// Within runs fn in one transaction. tx is nil when the store is not
	// backed by a database.
	Within(ctx context.Context, fn func(tx pgx.Tx, s Store) error) error
}

// Enqueuer schedules jobs inside a caller's transaction.
type Enqueuer interface {
	EnqueueTx(ctx context.Context, tx pgx.Tx, name string, payload any, opts ...job.EnqueueOption) error
}

// NewStore adapts repository queries to Store.
func NewStore(q *repository.Queries) Store {
	return queriesStore{q}
}

type queriesStore struct {
	*repository.Queries
}

func (s queriesStore) Within(ctx context.Context, fn func(tx pgx.Tx, s Store) error) error {
	return s.InTx(ctx, func(tx pgx.Tx, q *repository.Queries) error {
		return fn(tx, queriesStore{q})
	})
}
