package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-enricher/internal/db"
	"github.com/jonathan/job-enricher/internal/ledger"
	"github.com/jonathan/job-enricher/internal/observability"
	"github.com/jonathan/job-enricher/internal/types"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the enrichment version distribution",
	Long:  "Reports, per enrichment type and version, how many ledger rows exist broken down by outcome. Useful for tracking re-enrichment progress after a model upgrade.",
	RunE:  runStatus,
}

var (
	statusDatabaseURL string
	statusTypes       []string
)

func init() {
	statusCmd.Flags().StringVar(&statusDatabaseURL, "db-url", "", "Database URL (defaults to DATABASE_URL)")
	statusCmd.Flags().StringSliceVarP(&statusTypes, "type", "t", nil, "Enrichment types to report (default: all)")

	rootCmd.AddCommand(statusCmd)
}

func runStatus(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	if statusDatabaseURL == "" {
		statusDatabaseURL = os.Getenv("DATABASE_URL")
	}
	if statusDatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL not set (set DATABASE_URL environment variable or use --db-url flag)")
	}

	database, err := db.Connect(ctx, statusDatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	reportTypes := statusTypes
	if len(reportTypes) == 0 {
		reportTypes = []string{
			types.EnrichmentTypeSkills,
			types.EnrichmentTypeEmbeddings,
			types.EnrichmentTypeClustering,
			types.EnrichmentTypeSectionClassification,
		}
	}

	l := ledger.New(database)
	printer := observability.NewPrinter(os.Stdout)

	for _, enrichmentType := range reportTypes {
		stats, err := l.VersionDistribution(ctx, enrichmentType)
		if err != nil {
			return err
		}
		printer.PrintVersionDistribution(enrichmentType, stats)
	}
	return nil
}
