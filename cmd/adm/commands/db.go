// Package commands provides CLI commands for the admin tool
package commands

import (
	"context"
	"database/sql"

	"quizarena/internal/database"
	"quizarena/internal/observability"
	contextutils "quizarena/internal/utils"

	"github.com/spf13/cobra"
)

// DatabaseCommands returns the database management commands
func DatabaseCommands(dbManager *database.Manager, logger *observability.Logger, databaseURL string, db *sql.DB) *cobra.Command {
	dbCmd := &cobra.Command{
		Use:   "db",
		Short: "Database management commands",
		Long: `Database management commands for the quiz backend.

Available commands:
  migrate   - Apply pending migrations
  rollback  - Roll back migrations
  stats     - Show database statistics`,
	}

	dbCmd.AddCommand(migrateCmd(dbManager, logger, databaseURL))
	dbCmd.AddCommand(rollbackCmd(dbManager, logger, databaseURL))
	dbCmd.AddCommand(statsCmd(logger, db))

	return dbCmd
}

func migrateCmd(dbManager *database.Manager, logger *observability.Logger, databaseURL string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx := context.Background()
			if err := dbManager.RunMigrations(databaseURL); err != nil {
				logger.Error(ctx, "Migration failed", err, nil)
				return err
			}
			logger.Info(ctx, "Migrations applied", nil)
			return nil
		},
	}
}

func rollbackCmd(dbManager *database.Manager, logger *observability.Logger, databaseURL string) *cobra.Command {
	var steps int

	cmd := &cobra.Command{
		Use:   "rollback",
		Short: "Roll back database migrations",
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx := context.Background()
			if err := dbManager.RollbackMigrations(databaseURL, steps); err != nil {
				logger.Error(ctx, "Rollback failed", err, nil)
				return err
			}
			logger.Info(ctx, "Rollback completed", map[string]interface{}{"steps": steps})
			return nil
		},
	}

	cmd.Flags().IntVar(&steps, "steps", 1, "Number of migrations to roll back")

	return cmd
}

func statsCmd(logger *observability.Logger, db *sql.DB) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show database statistics",
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx := context.Background()

			stats := map[string]interface{}{"database": "PostgreSQL", "status": "connected"}
			for _, table := range []string{"questions", "user_state", "answer_log", "leaderboard_score", "leaderboard_streak"} {
				var count int
				if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table).Scan(&count); err != nil {
					logger.Error(ctx, "Failed to count table rows", err, map[string]interface{}{"table": table})
					return contextutils.WrapErrorf(err, "failed to count rows in %s", table)
				}
				stats[table] = count
			}

			logger.Info(ctx, "Database statistics", stats)
			return nil
		},
	}
}
