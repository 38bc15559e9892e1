package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Shutdown returns a shutdown hook that closes the pool.
func Shutdown(pool *pgxpool.Pool) func(ctx context.Context) error {
	return func(context.Context) error {
		pool.Close()
		return nil
	}
}

// Healthcheck reports ErrNotReady while the pool cannot be pinged.
func Healthcheck(pool *pgxpool.Pool) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if pool == nil {
			return fmt.Errorf("%w: no pool", ErrNotReady)
		}
		if err := pool.Ping(ctx); err != nil {
			return fmt.Errorf("%w: ping: %w", ErrNotReady, err)
		}
		return nil
	}
}
