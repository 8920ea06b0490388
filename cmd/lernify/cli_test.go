package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/lernify/internal/catalog"
	"github.com/jonathan/lernify/internal/config"
	"github.com/jonathan/lernify/internal/db"
	"github.com/jonathan/lernify/internal/db/sqlite"
	"github.com/jonathan/lernify/internal/progress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command in-process and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	migrateFlags = cliFlags{}
	catalogShowFile = ""
	progressShowFlags = learnerFlags{}
	dashboardFlags = learnerFlags{}

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const goCatalog = `domains:
  - name: Go
    steps:
      - id: syntax
        title: Syntax
        description: Types and control flow
      - id: testing
        title: Testing
policy:
  step_max_score: 10
  step_pass_score: 6
  final_max_score: 100
  final_pass_score: 70
`

func TestResolveConfig_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	cfg, err := resolveConfig(&cliFlags{})
	require.NoError(t, err)
	assert.Equal(t, config.Defaults(), cfg)
}

func TestResolveConfig_Layering(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env@localhost/lernify")
	catalogPath := writeFile(t, "catalog.yaml", goCatalog)
	configPath := writeFile(t, "config.json", `{"port": 9000, "store": "postgres", "log_mode": "production", "catalog_path": "`+catalogPath+`"}`)

	t.Run("file and environment", func(t *testing.T) {
		cfg, err := resolveConfig(&cliFlags{configPath: configPath})
		require.NoError(t, err)
		assert.Equal(t, 9000, cfg.Port)
		assert.Equal(t, config.StorePostgres, cfg.Store)
		assert.Equal(t, "postgres://env@localhost/lernify", cfg.DatabaseURL)
		assert.Equal(t, "production", cfg.LogMode)
		assert.Equal(t, catalogPath, cfg.CatalogPath)
	})

	t.Run("flags win", func(t *testing.T) {
		cfg, err := resolveConfig(&cliFlags{
			configPath:  configPath,
			port:        9100,
			store:       "SQLite",
			sqlitePath:  "/tmp/lernify-test.db",
			databaseURL: "postgres://flag@localhost/lernify",
			corsOrigins: []string{"http://localhost:5173"},
		})
		require.NoError(t, err)
		assert.Equal(t, 9100, cfg.Port)
		assert.Equal(t, config.StoreSQLite, cfg.Store)
		assert.Equal(t, "/tmp/lernify-test.db", cfg.SQLitePath)
		assert.Equal(t, "postgres://flag@localhost/lernify", cfg.DatabaseURL)
		assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	})
}

func TestResolveConfig_Errors(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	tests := []struct {
		name  string
		flags cliFlags
	}{
		{"unknown store", cliFlags{store: "redis"}},
		{"postgres without url", cliFlags{store: "postgres"}},
		{"bad log mode", cliFlags{logMode: "verbose"}},
		{"missing catalog", cliFlags{catalogPath: "/nonexistent/catalog.yaml"}},
		{"missing config file", cliFlags{configPath: "/nonexistent/config.json"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolveConfig(&tt.flags)
			assert.Error(t, err)
		})
	}
}

func TestLoadCatalog(t *testing.T) {
	cat, err := loadCatalog("")
	require.NoError(t, err)
	assert.True(t, cat.HasDomain("Frontend Development"))

	cat, err = loadCatalog(writeFile(t, "catalog.yaml", goCatalog))
	require.NoError(t, err)
	assert.Equal(t, []string{"Go"}, cat.Domains())
	assert.Equal(t, 6, cat.Policy().StepPassScore)

	_, err = loadCatalog(writeFile(t, "catalog.json", `{"domains": []}`))
	assert.Error(t, err)
}

func TestCatalogValidateCommand(t *testing.T) {
	path := writeFile(t, "catalog.yaml", goCatalog)

	out, err := execute(t, "catalog", "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "1 domains, 2 steps")

	bad := writeFile(t, "bad.json", `{"domains": [{"name": "Go", "steps": []}]}`)
	_, err = execute(t, "catalog", "validate", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")

	_, err = execute(t, "catalog", "validate")
	assert.Error(t, err)
}

func TestCatalogShowCommand(t *testing.T) {
	out, err := execute(t, "catalog", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "ROADMAP CATALOG")
	assert.Contains(t, out, "Backend Development (3 steps)")

	out, err = execute(t, "catalog", "show", "--file", writeFile(t, "catalog.yaml", goCatalog))
	require.NoError(t, err)
	assert.Contains(t, out, "Go (2 steps)")
	assert.Contains(t, out, "pass 6 / 10")
}

func TestMigrateCommand_SQLite(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	dbPath := filepath.Join(t.TempDir(), "nested", "lernify.db")

	out, err := execute(t, "migrate", "--store", "sqlite", "--sqlite-path", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "sqlite schema is up to date")
	assert.FileExists(t, dbPath)
}

func TestMigrateCommand_Memory(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := execute(t, "migrate", "--store", "memory")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no schema")
}

func TestOpenStores(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		st, err := openStores(ctx, config.Config{Store: config.StoreMemory})
		require.NoError(t, err)
		defer st.close()
		assert.NoError(t, st.accounts.Ping(ctx))
		assert.NotNil(t, st.progress)
	})

	t.Run("sqlite", func(t *testing.T) {
		st, err := openStores(ctx, config.Config{Store: config.StoreSQLite, SQLitePath: filepath.Join(t.TempDir(), "l.db")})
		require.NoError(t, err)
		defer st.close()
		assert.NoError(t, st.accounts.Ping(ctx))
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := openStores(ctx, config.Config{Store: "redis"})
		assert.Error(t, err)
	})
}

// seedLearner writes a user with Frontend progress into a fresh SQLite file.
func seedLearner(t *testing.T) (dbPath, userID string) {
	t.Helper()
	ctx := context.Background()
	dbPath = filepath.Join(t.TempDir(), "lernify.db")

	store, err := sqlite.Open(ctx, dbPath)
	require.NoError(t, err)
	defer store.Close()

	id, err := store.CreateUser(ctx, db.NewUser{
		FirstName:     "Grace",
		LastName:      "Hopper",
		Email:         "grace@example.com",
		Phone:         "9876543210",
		Qualification: "PhD",
		PasswordHash:  "unused",
	})
	require.NoError(t, err)

	svc := progress.NewService(catalog.Default(), store)
	_, err = svc.InitializeProgress(ctx, id.String(), "Frontend Development")
	require.NoError(t, err)
	_, err = svc.SubmitAssessment(ctx, id.String(), "Frontend Development", "html-css", 15)
	require.NoError(t, err)
	return dbPath, id.String()
}

func TestProgressShowCommand(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	dbPath, userID := seedLearner(t)

	t.Run("by id", func(t *testing.T) {
		out, err := execute(t, "progress", "show", "--store", "sqlite", "--sqlite-path", dbPath,
			"--user", userID, "--domain", "Frontend Development")
		require.NoError(t, err)
		assert.Contains(t, out, "FRONTEND DEVELOPMENT")
		assert.Contains(t, out, "33%")
		assert.Contains(t, out, "  passed   html-css")
		assert.Contains(t, out, "▶ unlocked js-fund")
	})

	t.Run("by email", func(t *testing.T) {
		out, err := execute(t, "progress", "show", "--store", "sqlite", "--sqlite-path", dbPath,
			"--user", "Grace@Example.com", "--domain", "Frontend Development")
		require.NoError(t, err)
		assert.Contains(t, out, "html-css")
	})

	t.Run("not started", func(t *testing.T) {
		_, err := execute(t, "progress", "show", "--store", "sqlite", "--sqlite-path", dbPath,
			"--user", userID, "--domain", "AI & ML")
		var notFound *progress.NotFoundError
		assert.ErrorAs(t, err, &notFound)
	})

	t.Run("unknown domain", func(t *testing.T) {
		_, err := execute(t, "progress", "show", "--store", "sqlite", "--sqlite-path", dbPath,
			"--user", userID, "--domain", "Cooking")
		var unknown *catalog.UnknownDomainError
		assert.ErrorAs(t, err, &unknown)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := execute(t, "progress", "show", "--store", "sqlite", "--sqlite-path", dbPath,
			"--user", "nobody@example.com", "--domain", "Frontend Development")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})
}

func TestDashboardCommand(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	dbPath, userID := seedLearner(t)

	out, err := execute(t, "dashboard", "--store", "sqlite", "--sqlite-path", dbPath, "--user", userID)
	require.NoError(t, err)
	assert.Contains(t, out, "PROGRESS DASHBOARD")
	assert.Contains(t, out, "Frontend Development")
	assert.Contains(t, out, " 33%  1/3")

	_, err = execute(t, "dashboard", "--store", "memory", "--user", userID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no saved progress")
}
