// Package main provides the entry point for the Essay Coach HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "essay_agent",
	Short: "Essay Coach HTTP API Server",
	Long:  "Essay Coach tracks essay drafts across review rounds, classifies edits, scores progress, and manages AI-generated suggestions via REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
