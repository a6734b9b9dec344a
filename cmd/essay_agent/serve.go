package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/everwrite/essay-coach/internal/chat"
	"github.com/everwrite/essay-coach/internal/config"
	"github.com/everwrite/essay-coach/internal/db"
	"github.com/everwrite/essay-coach/internal/llm"
	"github.com/everwrite/essay-coach/internal/observability"
	"github.com/everwrite/essay-coach/internal/review"
	"github.com/everwrite/essay-coach/internal/server"
	"github.com/everwrite/essay-coach/internal/suggest"
)

var (
	servePort   int
	serveConfig string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for essay review rounds, suggestions, and counselor chat.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	serveCmd.Flags().StringVar(&serveConfig, "config", "", "Path to JSON config file")
	rootCmd.AddCommand(serveCmd)
}

// loadConfig resolves configuration in precedence order: flags, then
// config file, then environment, then built-in defaults.
func loadConfig() (config.Config, error) {
	cfg := config.Config{}
	if serveConfig != "" {
		fileCfg, err := config.LoadConfig(serveConfig)
		if err != nil {
			return cfg, err
		}
		cfg = *fileCfg
	}
	if servePort != 0 {
		cfg.Port = servePort
	}
	cfg.FromEnv()
	cfg = cfg.MergeWithDefaults(config.Defaults())

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	if cfg.DatabaseURL == "" {
		return cfg, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if cfg.APIKey == "" {
		return cfg, fmt.Errorf("GEMINI_API_KEY or OPENAI_API_KEY environment variable is required")
	}
	return cfg, nil
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := observability.NewLogger(os.Getenv("APP_ENV"))
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	client, err := llm.NewClient(ctx, llm.ConfigForProvider(llm.Provider(cfg.Provider)), cfg.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create AI client: %w", err)
	}
	defer client.Close()

	reviewer := llm.NewReviewer(client)
	planner := suggest.NewPlanner(suggest.CountRange{Min: cfg.SuggestionMin, Max: cfg.SuggestionMax}, nil)

	reviews := review.NewService(database, reviewer, planner, nil, logger)
	chats := chat.NewService(database, reviewer, logger)

	srv, err := server.New(server.Config{
		Port:          cfg.Port,
		ReviewTimeout: time.Duration(cfg.ReviewTimeoutSeconds) * time.Second,
	}, reviews, chats, logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
