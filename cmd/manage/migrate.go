package main

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq" // postgres driver for rollbacks
	"github.com/spf13/cobra"

	"github.com/pageza/foodgram/backend/internal/database"
)

func newMigrateCmd(a *app) *cobra.Command {
	var rollback bool
	var dir string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Long: `Apply pending schema migrations. PostgreSQL runs the SQL files in the
migrations directory; SQLite is migrated from the models.

With --rollback the most recently applied PostgreSQL migration is reverted
using its _rollback.sql companion.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if dir == "" {
				dir = cfg.Database.MigrationsDir
			}

			if rollback {
				if cfg.Database.Driver != "postgres" {
					return fmt.Errorf("rollback is only supported for postgres, not %s", cfg.Database.Driver)
				}
				db, err := sql.Open("postgres", cfg.Database.DSN())
				if err != nil {
					return fmt.Errorf("failed to connect to database: %w", err)
				}
				defer db.Close()

				name, err := database.Rollback(cmd.Context(), db, dir)
				if errors.Is(err, database.ErrNothingToRollback) {
					cmd.Println("Nothing to roll back")
					return nil
				}
				if err != nil {
					return err
				}
				cmd.Printf("Rolled back %s\n", name)
				return nil
			}

			_, db, err := a.setup()
			if err != nil {
				return err
			}
			if err := database.RunMigrations(db, dir); err != nil {
				return err
			}
			cmd.Println("Migrations applied")
			return nil
		},
	}

	cmd.Flags().BoolVar(&rollback, "rollback", false, "Revert the last applied migration")
	cmd.Flags().StringVar(&dir, "dir", "", "Migrations directory (defaults to database.migrations_dir)")
	return cmd
}
