package main

import (
	"context"
	"fmt"

	"github.com/jonathan/lernify/internal/config"
	"github.com/jonathan/lernify/internal/db"
	"github.com/jonathan/lernify/internal/db/sqlite"
	"github.com/jonathan/lernify/internal/progress"
	"github.com/jonathan/lernify/internal/server"
)

// stores are the persistence backends the server runs on.
type stores struct {
	accounts server.DBClient
	progress progress.Store
	close    func()
}

// openStores connects the configured backend and brings its schema up to date.
// The memory backend keeps accounts in an in-process SQLite database and
// progress in a MemoryStore; nothing survives a restart.
func openStores(ctx context.Context, cfg config.Config) (*stores, error) {
	switch cfg.Store {
	case config.StorePostgres:
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if _, err := database.Migrate(ctx); err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return &stores{accounts: database, progress: database, close: database.Close}, nil

	case config.StoreSQLite:
		store, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &stores{accounts: store, progress: store, close: store.Close}, nil

	case config.StoreMemory:
		store, err := sqlite.Open(ctx, ":memory:")
		if err != nil {
			return nil, err
		}
		return &stores{accounts: store, progress: progress.NewMemoryStore(), close: store.Close}, nil

	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}
