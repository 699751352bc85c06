package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-enricher/internal/config"
	"github.com/jonathan/job-enricher/internal/observability"
)

var extractCmd = &cobra.Command{
	Use:   "extract <description-file>",
	Short: "Extract skills from a job posting file",
	Long:  "Runs the skill extraction strategies against a local text file and prints the ranked skills without touching the database. Useful for tuning weights and alias tables.",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

var (
	extractConfigPath  string
	extractSummaryPath string
	extractVerbose     bool
)

func init() {
	extractCmd.Flags().StringVarP(&extractConfigPath, "config", "c", "", "Path to JSON config file")
	extractCmd.Flags().StringVar(&extractSummaryPath, "summary", "", "Optional file holding the posting summary")
	extractCmd.Flags().BoolVarP(&extractVerbose, "verbose", "v", false, "Also print the classified sections")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(_ *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg := &config.Config{}
	if extractConfigPath != "" {
		fileCfg, err := config.LoadConfig(extractConfigPath)
		if err != nil {
			return err
		}
		cfg = fileCfg
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	description, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read description file: %w", err)
	}

	var summary string
	if extractSummaryPath != "" {
		data, err := os.ReadFile(extractSummaryPath)
		if err != nil {
			return fmt.Errorf("failed to read summary file: %w", err)
		}
		summary = string(data)
	}

	comps, err := buildExtractor(ctx, cfg)
	if err != nil {
		return err
	}
	defer comps.close()

	result := comps.extractor.ExtractSkills(ctx, summary, string(description))

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintExtractionResult(result)
	if extractVerbose {
		printer.PrintSections(comps.classifier.ClassifySections(string(description)))
	}
	return nil
}
