package main

import (
	"fmt"
	"os"

	"github.com/jonathan/lernify/internal/catalog"
	"github.com/jonathan/lernify/internal/config"
	"github.com/spf13/cobra"
)

// cliFlags are the configuration flags shared by commands that open a store.
type cliFlags struct {
	configPath  string
	port        int
	store       string
	databaseURL string
	sqlitePath  string
	catalogPath string
	logMode     string
	corsOrigins []string
}

func bindConfigFlags(cmd *cobra.Command, f *cliFlags) {
	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "Path to JSON config file")
	cmd.Flags().StringVar(&f.store, "store", "", "Store backend: postgres, sqlite or memory (default sqlite)")
	cmd.Flags().StringVar(&f.databaseURL, "database-url", "", "PostgreSQL connection URL (default $DATABASE_URL)")
	cmd.Flags().StringVar(&f.sqlitePath, "sqlite-path", "", "SQLite database file (default data/lernify.db)")
	cmd.Flags().StringVar(&f.catalogPath, "catalog", "", "Roadmap catalog file, JSON or YAML (default built-in)")
	cmd.Flags().StringVar(&f.logMode, "log-mode", "", "Log mode: development or production")
}

// resolveConfig layers defaults, the optional config file, the environment and
// flags, in increasing precedence.
func resolveConfig(f *cliFlags) (config.Config, error) {
	var cfg config.Config
	if f.configPath != "" {
		loaded, err := config.LoadConfig(f.configPath)
		if err != nil {
			return config.Config{}, err
		}
		if err := loaded.Validate(); err != nil {
			return config.Config{}, err
		}
		cfg = *loaded
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	if f.port != 0 {
		cfg.Port = f.port
	}
	if len(f.corsOrigins) > 0 {
		cfg.CORSOrigins = f.corsOrigins
	}
	if f.store != "" {
		cfg.Store = f.store
	}
	if f.databaseURL != "" {
		cfg.DatabaseURL = f.databaseURL
	}
	if f.sqlitePath != "" {
		cfg.SQLitePath = f.sqlitePath
	}
	if f.catalogPath != "" {
		cfg.CatalogPath = f.catalogPath
	}
	if f.logMode != "" {
		cfg.LogMode = f.logMode
	}

	merged := cfg.MergeWithDefaults(config.Defaults())
	if err := merged.Validate(); err != nil {
		return config.Config{}, err
	}
	if err := merged.RequireBackend(); err != nil {
		return config.Config{}, err
	}
	return merged, nil
}

// loadCatalog reads the catalog file, falling back to the built-in roadmaps.
func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return cat, nil
}
