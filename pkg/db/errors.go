package db

import "errors"

var (
	// ErrInvalidURL wraps a DATABASE_URL that pgx cannot parse.
	ErrInvalidURL = errors.New("db: invalid DATABASE_URL")
	// ErrUnreachable wraps the last error once every connect attempt failed.
	ErrUnreachable = errors.New("db: postgres unreachable")
	ErrNotReady    = errors.New("db: not ready")
	ErrMigrate     = errors.New("db: migrate")
	// ErrUnknownCommand is returned for anything but up, down and status.
	ErrUnknownCommand = errors.New("db: unknown migrate command")
)
