// Package config provides configuration loading and validation for the server and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store backends.
const (
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
	StoreMemory   = "memory"
)

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or CLI flags.
type Config struct {
	// Server
	Port        int      `json:"port,omitempty"`         // HTTP listen port
	CORSOrigins []string `json:"cors_origins,omitempty"` // Allowed CORS origins; empty allows any

	// Persistence
	Store       string `json:"store,omitempty"`        // postgres, sqlite or memory
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	SQLitePath  string `json:"sqlite_path,omitempty"`  // SQLite database file

	// Catalog
	CatalogPath string `json:"catalog_path,omitempty"` // JSON or YAML roadmap catalog; built-in when empty

	// Logging
	LogMode string `json:"log_mode,omitempty"` // development or production
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Port:       8080,
		Store:      StoreSQLite,
		SQLitePath: filepath.Join("data", "lernify.db"),
		LogMode:    "development",
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Required-ness of backend-specific fields is checked after merging with flags.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535, got %d", c.Port)
	}

	switch strings.ToLower(c.Store) {
	case "", StorePostgres, StoreSQLite, StoreMemory:
	default:
		return fmt.Errorf("config error: 'store' must be one of postgres, sqlite, memory; got %q", c.Store)
	}

	switch strings.ToLower(c.LogMode) {
	case "", "dev", "development", "prod", "production":
	default:
		return fmt.Errorf("config error: 'log_mode' must be development or production; got %q", c.LogMode)
	}

	if c.CatalogPath != "" {
		if _, err := os.Stat(c.CatalogPath); os.IsNotExist(err) {
			return fmt.Errorf("config error: catalog file not found: %s", c.CatalogPath)
		}
	}

	for _, origin := range c.CORSOrigins {
		if strings.TrimSpace(origin) == "" {
			return fmt.Errorf("config error: 'cors_origins' contains an empty entry")
		}
	}

	return nil
}

// RequireBackend checks that the fields the selected store needs are present.
func (c *Config) RequireBackend() error {
	switch strings.ToLower(c.Store) {
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config error: 'database_url' is required for the postgres store")
		}
	case StoreSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("config error: 'sqlite_path' is required for the sqlite store")
		}
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if len(result.CORSOrigins) == 0 {
		result.CORSOrigins = defaults.CORSOrigins
	}
	if result.Store == "" {
		result.Store = defaults.Store
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.SQLitePath == "" {
		result.SQLitePath = defaults.SQLitePath
	}
	if result.CatalogPath == "" {
		result.CatalogPath = defaults.CatalogPath
	}
	if result.LogMode == "" {
		result.LogMode = defaults.LogMode
	}
	result.Store = strings.ToLower(result.Store)

	return result
}
