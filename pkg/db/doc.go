// Package db connects to PostgreSQL through a pgx pool and runs goose
// migrations.
//
// # Configuration
//
//	DATABASE_URL                - PostgreSQL connection URL (required)
//	DATABASE_MAX_OPEN_CONNS     - Maximum open connections (default: 10)
//	DATABASE_MIN_CONNS          - Minimum idle connections (default: 2)
//	DATABASE_HEALTHCHECK_PERIOD - Health check interval (default: 1m)
//	DATABASE_MAX_CONN_IDLE_TIME - Maximum connection idle time (default: 10m)
//	DATABASE_MAX_CONN_LIFETIME  - Maximum connection lifetime (default: 30m)
//	DATABASE_RETRY_ATTEMPTS     - Connection retry attempts (default: 3)
//	DATABASE_RETRY_INTERVAL     - Base retry interval (default: 5s)
//	DATABASE_MIGRATIONS_TABLE   - Migrations table name (default: schema_migrations)
//
// # Usage
//
//	pool, err := db.Connect(ctx, cfg.DB)
//	if err != nil {
//		return err
//	}
//
//	if err := db.Migrate(ctx, pool, repository.Migrations(), cfg.DB.MigrationsTable, db.MigrateUp, log); err != nil {
//		return err
//	}
//
//	err = db.WithTx(ctx, pool, func(tx pgx.Tx) error {
//		_, err := tx.Exec(ctx, "DELETE FROM blog_comments WHERE id = $1", id)
//		return err
//	})
//
// Healthcheck and Shutdown return hooks for the health endpoints and the
// server's shutdown sequence.
package db
