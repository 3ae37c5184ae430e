package main

// Run database migrations:
//   go run ./cmd/migrate up
//   go run ./cmd/migrate status

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"resume-viewer/internal/shared/config"
	"resume-viewer/internal/shared/storage/db"
	"resume-viewer/internal/shared/telemetry"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var databaseURL string

	root := &cobra.Command{
		Use:           "migrate [command]",
		Short:         "Apply or inspect the resumes schema migrations",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&databaseURL, "database-url", "", "database URL (defaults to DATABASE_URL)")

	run := func(fn func(ctx context.Context, conn *sql.DB, dialect db.Dialect, cmd *cobra.Command) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			telemetry.Init(cfg.LogLevel)
			url := databaseURL
			if url == "" {
				url = cfg.DatabaseURL
			}
			dialect, _, _, err := db.Parse(url)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			conn, err := db.Connect(ctx, url, db.OptionsFromEnv(db.DefaultMigrateOptions()))
			if err != nil {
				return err
			}
			defer conn.Close()
			return fn(ctx, conn, dialect, cmd)
		}
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: run(func(ctx context.Context, conn *sql.DB, dialect db.Dialect, _ *cobra.Command) error {
				return db.RunMigrations(ctx, conn, dialect)
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			Args:  cobra.NoArgs,
			RunE: run(func(ctx context.Context, conn *sql.DB, dialect db.Dialect, _ *cobra.Command) error {
				return db.RollbackMigration(ctx, conn, dialect)
			}),
		},
		&cobra.Command{
			Use:   "status",
			Short: "Print the state of every migration",
			Args:  cobra.NoArgs,
			RunE: run(func(ctx context.Context, conn *sql.DB, dialect db.Dialect, _ *cobra.Command) error {
				return db.MigrationStatus(ctx, conn, dialect)
			}),
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			Args:  cobra.NoArgs,
			RunE: run(func(ctx context.Context, conn *sql.DB, dialect db.Dialect, cmd *cobra.Command) error {
				version, err := db.MigrationVersion(ctx, conn, dialect)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), version)
				return nil
			}),
		},
	)
	return root
}
