package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/everwrite/essay-coach/internal/config"
	"github.com/everwrite/essay-coach/internal/db"
	"github.com/everwrite/essay-coach/internal/llm"
	"github.com/everwrite/essay-coach/internal/observability"
	"github.com/everwrite/essay-coach/internal/review"
	"github.com/everwrite/essay-coach/internal/suggest"
	"github.com/everwrite/essay-coach/internal/types"
	"go.uber.org/zap"
)

var (
	reviewEssayFile string
	reviewPrompt    string
	reviewAssistID  string
	reviewVerbose   bool
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Run one review round from the command line",
	Long: `Run one review round against an essay file and print the scored result.

Without --assist this creates a new session and runs a baseline review.
With --assist it continues an existing session, so edits since the last
round are classified and scored progressively.`,
	RunE: runReview,
}

func init() {
	reviewCmd.Flags().StringVar(&reviewEssayFile, "file", "", "Path to the essay text file (required)")
	reviewCmd.Flags().StringVar(&reviewPrompt, "prompt", "", "Essay prompt (required for a new session)")
	reviewCmd.Flags().StringVar(&reviewAssistID, "assist", "", "Existing assist ID to continue")
	reviewCmd.Flags().BoolVar(&reviewVerbose, "verbose", false, "Print score history after the round")
	_ = reviewCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(reviewCmd)
}

func runReview(_ *cobra.Command, _ []string) error {
	essayBytes, err := os.ReadFile(reviewEssayFile)
	if err != nil {
		return fmt.Errorf("failed to read essay file: %w", err)
	}
	essay := string(essayBytes)

	cfg := config.Config{}
	cfg.FromEnv()
	cfg = cfg.MergeWithDefaults(config.Defaults())
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY or OPENAI_API_KEY environment variable is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.ReviewTimeoutSeconds)*time.Second)
	defer cancel()

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

	planner := suggest.NewPlanner(suggest.CountRange{Min: cfg.SuggestionMin, Max: cfg.SuggestionMax}, nil)
	reviews := review.NewService(database, llm.NewReviewer(client), planner, nil, zap.NewNop())

	assistID := reviewAssistID
	if assistID == "" {
		if reviewPrompt == "" {
			return fmt.Errorf("--prompt is required when starting a new session")
		}
		assist, err := reviews.CreateAssist(ctx, reviewPrompt, essay)
		if err != nil {
			return fmt.Errorf("failed to create session: %w", err)
		}
		assistID = assist.ID.String()
		fmt.Printf("Created session %s\n", assistID)
	}

	resp, err := reviews.GenerateReview(ctx, types.ReviewRequest{
		AssistID: assistID,
		Content:  essay,
		Prompt:   reviewPrompt,
	})
	if err != nil {
		return fmt.Errorf("review round failed: %w", err)
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintReview(resp)

	if reviewVerbose {
		history, err := reviews.Scores(ctx, assistID)
		if err != nil {
			return fmt.Errorf("failed to load score history: %w", err)
		}
		printer.PrintScoreHistory(history)
	}

	return nil
}
