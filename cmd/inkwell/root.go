package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/inkwell/internal/config"
	"github.com/dmitrymomot/inkwell/middlewares"
	"github.com/dmitrymomot/inkwell/pkg/db"
	"github.com/dmitrymomot/inkwell/pkg/logger"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "inkwell",
		Short: "Inkwell is a small blog engine.",
		Long: `Inkwell serves a blog with comments, an article editor and a media library.

Settings are read from the environment, see internal/config.`,
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newMigrateCmd(), newUserCmd())
	return root
}

// env is what every command starts from.
type env struct {
	cfg  *config.Config
	log  *slog.Logger
	pool *pgxpool.Pool
}

func setup(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logger.New(cfg.Logger, middlewares.RequestIDExtractor())

	pool, err := db.Connect(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return &env{cfg: cfg, log: log, pool: pool}, nil
}
