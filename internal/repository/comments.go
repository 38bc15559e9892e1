package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

const commenterColumns = `id, email, name, is_active, created`

func scanCommenter(row pgx.Row) (*Commenter, error) {
	var c Commenter
	if err := row.Scan(&c.ID, &c.Email, &c.Name, &c.IsActive, &c.Created); err != nil {
		return nil, wrap(err)
	}
	return &c, nil
}

func (q *Queries) FindCommenterByEmail(ctx context.Context, email string) (*Commenter, error) {
	return scanCommenter(q.db.QueryRow(ctx,
		`SELECT `+commenterColumns+` FROM blog_commenters WHERE lower(email) = lower($1)`, email))
}

func (q *Queries) FindCommenter(ctx context.Context, id int64) (*Commenter, error) {
	return scanCommenter(q.db.QueryRow(ctx,
		`SELECT `+commenterColumns+` FROM blog_commenters WHERE id = $1`, id))
}

func (q *Queries) CreateCommenter(ctx context.Context, email, name string) (*Commenter, error) {
	return scanCommenter(q.db.QueryRow(ctx,
		`INSERT INTO blog_commenters (email, name) VALUES ($1, $2) RETURNING `+commenterColumns,
		email, name))
}

const commentColumns = `c.id, c.article_id, c.in_reply_to, c.commenter_id, c.ip, c.comment, c.confirm_key, c.is_visible, c.created, coalesce(p.name, '')`

const commentFrom = ` FROM blog_comments c LEFT JOIN blog_commenters p ON p.id = c.commenter_id`

func scanComment(row pgx.Row) (*Comment, error) {
	var c Comment
	err := row.Scan(&c.ID, &c.ArticleID, &c.InReplyTo, &c.CommenterID, &c.IP, &c.Comment, &c.ConfirmKey, &c.IsVisible, &c.Created, &c.Name)
	if err != nil {
		return nil, wrap(err)
	}
	return &c, nil
}

func (q *Queries) FindComment(ctx context.Context, id int64) (*Comment, error) {
	return scanComment(q.db.QueryRow(ctx, `SELECT `+commentColumns+commentFrom+` WHERE c.id = $1`, id))
}

// VisibleComments returns the confirmed comments of an article, oldest first.
func (q *Queries) VisibleComments(ctx context.Context, articleID int64) ([]Comment, error) {
	rows, err := q.db.Query(ctx,
		`SELECT `+commentColumns+commentFrom+` WHERE c.article_id = $1 AND c.is_visible ORDER BY c.created`, articleID)
	if err != nil {
		return nil, wrap(err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Comment, error) {
		c, err := scanComment(row)
		if err != nil {
			return Comment{}, err
		}
		return *c, nil
	})
}

// KnownIPs returns the distinct addresses of a commenter's visible comments.
func (q *Queries) KnownIPs(ctx context.Context, commenterID int64) ([]string, error) {
	rows, err := q.db.Query(ctx,
		`SELECT DISTINCT ip FROM blog_comments WHERE commenter_id = $1 AND is_visible`, commenterID)
	if err != nil {
		return nil, wrap(err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (q *Queries) CreateComment(ctx context.Context, c Comment) (*Comment, error) {
	var id int64
	err := q.db.QueryRow(ctx,
		`INSERT INTO blog_comments (article_id, in_reply_to, commenter_id, ip, comment, confirm_key, is_visible)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		c.ArticleID, c.InReplyTo, c.CommenterID, c.IP, c.Comment, c.ConfirmKey, c.IsVisible).Scan(&id)
	if err != nil {
		return nil, wrap(err)
	}
	return q.FindComment(ctx, id)
}

// ConfirmComment makes a comment visible and clears its key.
func (q *Queries) ConfirmComment(ctx context.Context, id int64) error {
	tag, err := q.db.Exec(ctx,
		`UPDATE blog_comments SET is_visible = TRUE, confirm_key = NULL WHERE id = $1`, id)
	if err != nil {
		return wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// PurgeUnconfirmed deletes invisible comments that still carry a confirm
// key and were created before cutoff.
func (q *Queries) PurgeUnconfirmed(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := q.db.Exec(ctx,
		`DELETE FROM blog_comments WHERE NOT is_visible AND confirm_key IS NOT NULL AND created < $1`, cutoff)
	if err != nil {
		return 0, wrap(err)
	}
	return tag.RowsAffected(), nil
}
