package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/lernify/internal/config"
	"github.com/jonathan/lernify/internal/db"
	"github.com/jonathan/lernify/internal/db/sqlite"
	"github.com/spf13/cobra"
)

var migrateFlags cliFlags

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Long:  `Apply the embedded schema migrations to the configured PostgreSQL or SQLite database.`,
	RunE:  runMigrate,
}

func init() {
	bindConfigFlags(migrateCmd, &migrateFlags)
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(&migrateFlags)
	if err != nil {
		return err
	}

	applied, err := migrate(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(applied) == 0 {
		fmt.Fprintf(out, "✓ %s schema is up to date\n", cfg.Store)
		return nil
	}
	versions := make([]string, len(applied))
	for i, v := range applied {
		versions[i] = fmt.Sprintf("%04d", v)
	}
	fmt.Fprintf(out, "✓ applied %d migration(s) to %s: %s\n", len(applied), cfg.Store, strings.Join(versions, ", "))
	return nil
}

// migrate applies pending migrations and returns the versions it applied.
func migrate(ctx context.Context, cfg config.Config) ([]int, error) {
	switch cfg.Store {
	case config.StorePostgres:
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		defer database.Close()
		return database.Migrate(ctx)

	case config.StoreSQLite:
		// Open migrates; a second pass reports nothing pending.
		store, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		return store.Migrate(ctx)

	default:
		return nil, fmt.Errorf("store %q has no schema to migrate", cfg.Store)
	}
}
