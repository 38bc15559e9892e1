package main

import (
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/inkwell/internal/repository"
	"github.com/dmitrymomot/inkwell/pkg/db"
	"github.com/dmitrymomot/inkwell/pkg/job"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Apply or inspect the database migrations",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{db.MigrateUp, db.MigrateDown, db.MigrateStatus},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			command := db.MigrateUp
			if len(args) == 1 {
				command = args[0]
			}

			e, err := setup(ctx)
			if err != nil {
				return err
			}
			defer e.pool.Close()

			if err := db.Migrate(ctx, e.pool, repository.Migrations(), e.cfg.DB.MigrationsTable, command, e.log); err != nil {
				return err
			}
			// the job queue tables only move forward
			if command == db.MigrateUp {
				return job.Migrate(ctx, e.pool, e.log)
			}
			return nil
		},
	}
}
