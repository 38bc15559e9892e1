package redis

import "errors"

var (
	ErrNoURL      = errors.New("redis: REDIS_URL is empty")
	ErrInvalidURL = errors.New("redis: invalid REDIS_URL")
	// ErrUnreachable wraps the last ping error once every attempt failed.
	ErrUnreachable = errors.New("redis: server unreachable")
	ErrNotReady    = errors.New("redis: not ready")
)
