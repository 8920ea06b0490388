// Package main provides the entry point for the LernifyRoad API server and tools.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "lernify",
	Short:        "LernifyRoad learning-progress server",
	Long:         "LernifyRoad tracks learners through ordered domain roadmaps, gating each step on an assessment score, via a REST API.",
	SilenceUsage: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
