package db

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Migrate commands.
const (
	MigrateUp     = "up"
	MigrateDown   = "down"
	MigrateStatus = "status"
)

// Migrate runs a goose command against the migrations in fsys.
// The SQL files are expected at the root of fsys.
func Migrate(ctx context.Context, pool *pgxpool.Pool, fsys fs.FS, table, command string, log *slog.Logger) error {
	run, ok := migrateCommands[command]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCommand, command)
	}
	if command == "" {
		command = MigrateUp
	}

	// Shares the pool's connections; closing it would close the pool.
	db := stdlib.OpenDBFromPool(pool)

	goose.SetBaseFS(fsys)
	goose.SetLogger(&gooseLoggerAdapter{log})
	goose.SetTableName(table)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("%w: dialect: %w", ErrMigrate, err)
	}
	if err := run(ctx, db, "."); err != nil {
		return fmt.Errorf("%w %s: %w", ErrMigrate, command, err)
	}
	return nil
}

var migrateCommands = map[string]func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error{
	"":            goose.UpContext,
	MigrateUp:     goose.UpContext,
	MigrateDown:   goose.DownContext,
	MigrateStatus: goose.StatusContext,
}

type gooseLoggerAdapter struct {
	log *slog.Logger
}

func (g *gooseLoggerAdapter) Printf(format string, args ...any) {
	g.log.Info(fmt.Sprintf(format, args...))
}

// Fatalf logs only; goose returns the error to Migrate afterwards.
func (g *gooseLoggerAdapter) Fatalf(format string, args ...any) {
	g.log.Error(fmt.Sprintf(format, args...))
}
