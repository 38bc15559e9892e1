package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
)

const userColumns = `id, username, password, salt, role, github_login, created`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Password, &u.Salt, &u.Role, &u.GitHubLogin, &u.Created)
	if err != nil {
		return nil, wrap(err)
	}
	return &u, nil
}

// FindUserByUsername matches case-insensitively. Wildcards in username are
// escaped.
func (q *Queries) FindUserByUsername(ctx context.Context, username string) (*User, error) {
	return scanUser(q.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username ILIKE $1 ESCAPE '\' LIMIT 1`,
		escapeLike(username)))
}

func (q *Queries) FindUserByGitHubLogin(ctx context.Context, login string) (*User, error) {
	return scanUser(q.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(github_login) = lower($1)`, login))
}

func (q *Queries) CreateUser(ctx context.Context, u User) (*User, error) {
	return scanUser(q.db.QueryRow(ctx,
		`INSERT INTO users (username, password, salt, role, github_login)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+userColumns,
		u.Username, u.Password, u.Salt, u.Role, u.GitHubLogin))
}
