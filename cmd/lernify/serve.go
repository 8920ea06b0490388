package main

import (
	"fmt"

	"github.com/jonathan/lernify/internal/config"
	"github.com/jonathan/lernify/internal/logging"
	"github.com/jonathan/lernify/internal/progress"
	"github.com/jonathan/lernify/internal/server"
	"github.com/spf13/cobra"
)

var serveFlags cliFlags

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server exposing accounts, roadmaps, assessments, the progress dashboard, video suggestions and resumes.`,
	RunE:  runServe,
}

func init() {
	bindConfigFlags(serveCmd, &serveFlags)
	serveCmd.Flags().IntVar(&serveFlags.port, "port", 0, "Port to listen on (default 8080)")
	serveCmd.Flags().StringSliceVar(&serveFlags.corsOrigins, "cors-origin", nil, "Allowed CORS origin, repeatable (default any)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(&serveFlags)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogMode)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	cat, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return err
	}

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return fmt.Errorf("failed to load JWT config: %w", err)
	}
	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return fmt.Errorf("failed to load password config: %w", err)
	}

	ctx := cmd.Context()
	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()

	srv, err := server.New(
		server.Config{Port: cfg.Port, CORSOrigins: cfg.CORSOrigins},
		server.Deps{
			DB:        st.accounts,
			Progress:  progress.NewService(cat, st.progress, progress.WithLogger(logger)),
			JWT:       server.NewJWTService(jwtConfig),
			Passwords: passwordConfig,
			Logger:    logger,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	logger.Info("configuration loaded",
		"store", cfg.Store,
		"port", cfg.Port,
		"domains", len(cat.Domains()),
	)
	return srv.Start(ctx)
}
