// Package main provides the entry point for the job enrichment agent CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "enrichment_agent",
	Short: "Job posting enrichment engine",
	Long:  "Enrichment agent derives versioned annotations (skills, sections, embeddings, clusters) from scraped job postings, recording every run in an append-only enrichment ledger.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
