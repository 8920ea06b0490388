package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	content := `{
		"port": 9090,
		"store": "postgres",
		"database_url": "postgres://localhost/lernify",
		"cors_origins": ["http://localhost:5173"],
		"log_mode": "production"
	}`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, StorePostgres, cfg.Store)
	assert.Equal(t, "postgres://localhost/lernify", cfg.DatabaseURL)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	assert.Equal(t, "production", cfg.LogMode)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")
	require.NoError(t, os.WriteFile(configPath, []byte(`{"port": "eighty"`), 0644))

	_, err := LoadConfig(configPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig("/nonexistent/config.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"empty is valid", Config{}, ""},
		{"defaults are valid", Defaults(), ""},
		{"negative port", Config{Port: -1}, "'port'"},
		{"port too large", Config{Port: 70000}, "'port'"},
		{"unknown store", Config{Store: "mongo"}, "'store'"},
		{"unknown log mode", Config{LogMode: "verbose"}, "'log_mode'"},
		{"missing catalog", Config{CatalogPath: "/nonexistent/catalog.yaml"}, "catalog file not found"},
		{"blank cors origin", Config{CORSOrigins: []string{" "}}, "'cors_origins'"},
		{"uppercase store", Config{Store: "SQLite"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRequireBackend(t *testing.T) {
	assert.Error(t, (&Config{Store: StorePostgres}).RequireBackend())
	assert.NoError(t, (&Config{Store: StorePostgres, DatabaseURL: "postgres://x"}).RequireBackend())
	assert.Error(t, (&Config{Store: StoreSQLite}).RequireBackend())
	assert.NoError(t, (&Config{Store: StoreSQLite, SQLitePath: "x.db"}).RequireBackend())
	assert.NoError(t, (&Config{Store: StoreMemory}).RequireBackend())
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{Port: 9000, Store: "Postgres"}

	merged := cfg.MergeWithDefaults(Defaults())

	assert.Equal(t, 9000, merged.Port, "explicit value wins")
	assert.Equal(t, StorePostgres, merged.Store, "store is lower-cased")
	assert.Equal(t, filepath.Join("data", "lernify.db"), merged.SQLitePath)
	assert.Equal(t, "development", merged.LogMode)
	assert.Equal(t, "Postgres", cfg.Store, "receiver is not modified")
}

func TestMergeWithDefaults_EmptyDefaults(t *testing.T) {
	cfg := Config{CatalogPath: "catalog.yaml"}

	merged := cfg.MergeWithDefaults(Config{})

	assert.Equal(t, "catalog.yaml", merged.CatalogPath)
	assert.Zero(t, merged.Port)
	assert.Empty(t, merged.Store)
}
