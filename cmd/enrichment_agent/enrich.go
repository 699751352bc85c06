package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-enricher/internal/alias"
	"github.com/jonathan/job-enricher/internal/clustering"
	"github.com/jonathan/job-enricher/internal/config"
	"github.com/jonathan/job-enricher/internal/db"
	"github.com/jonathan/job-enricher/internal/embedding"
	"github.com/jonathan/job-enricher/internal/extraction"
	"github.com/jonathan/job-enricher/internal/ledger"
	"github.com/jonathan/job-enricher/internal/llm"
	"github.com/jonathan/job-enricher/internal/observability"
	"github.com/jonathan/job-enricher/internal/pipeline"
	"github.com/jonathan/job-enricher/internal/scoring"
	"github.com/jonathan/job-enricher/internal/sections"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Run one enrichment batch",
	Long:  "Selects job postings that lack a successful enrichment at the configured version, processes them, and records every outcome in the enrichment ledger. Already-enriched jobs are never reprocessed unless --reenrich targets an older version.",
	RunE:  runEnrich,
}

var (
	enrichConfigPath   string
	enrichTypes        []string
	enrichModelID      string
	enrichModelVersion string
	enrichDatabaseURL  string
	enrichBatchSize    int
	enrichReenrich     bool
	enrichInterval     time.Duration
	enrichVerbose      bool
)

func init() {
	enrichCmd.Flags().StringVarP(&enrichConfigPath, "config", "c", "", "Path to JSON config file")
	enrichCmd.Flags().StringSliceVarP(&enrichTypes, "type", "t", []string{"skills"}, "Enrichment types to run (skills, embeddings, clustering, section_classification)")
	enrichCmd.Flags().StringVar(&enrichModelID, "model-id", "", "Model identifier, e.g. skill_extractor")
	enrichCmd.Flags().StringVar(&enrichModelVersion, "model-version", "", "Model version, e.g. v2.1")
	enrichCmd.Flags().StringVar(&enrichDatabaseURL, "db-url", "", "Database URL (defaults to DATABASE_URL)")
	enrichCmd.Flags().IntVar(&enrichBatchSize, "batch-size", 0, "Maximum jobs per type per run")
	enrichCmd.Flags().BoolVar(&enrichReenrich, "reenrich", false, "Select jobs enriched at older versions instead of never-enriched jobs")
	enrichCmd.Flags().DurationVar(&enrichInterval, "interval", 0, "Keep running batches on this interval, reloading file-backed config between runs (0 runs once)")
	enrichCmd.Flags().BoolVarP(&enrichVerbose, "verbose", "v", false, "Print detailed progress")

	rootCmd.AddCommand(enrichCmd)
}

// loadEnrichConfig merges the optional config file with flags and the
// environment; flags win over the file, the file wins over nothing
func loadEnrichConfig() (*config.Config, error) {
	cfg := &config.Config{
		DatabaseURL:  enrichDatabaseURL,
		ModelID:      enrichModelID,
		ModelVersion: enrichModelVersion,
		BatchSize:    enrichBatchSize,
		Verbose:      enrichVerbose,
	}

	if enrichConfigPath != "" {
		fileCfg, err := config.LoadConfig(enrichConfigPath)
		if err != nil {
			return nil, err
		}
		merged := cfg.MergeWithDefaults(*fileCfg)
		merged.Verbose = cfg.Verbose || fileCfg.Verbose
		merged.EnableSemantic = fileCfg.EnableSemantic
		merged.EnableEntity = fileCfg.EnableEntity
		cfg = &merged
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL not set (set DATABASE_URL environment variable or use --db-url flag)")
	}
	if cfg.ModelID == "" || cfg.ModelVersion == "" {
		return nil, fmt.Errorf("model identity required (use --model-id and --model-version or a config file)")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// extractionComponents bundles everything buildExtractor assembles so the
// enrich loop can hand the live pieces to a config.Reloader
type extractionComponents struct {
	extractor  *scoring.Extractor
	classifier *sections.Classifier
	aliasIndex *alias.Index
	close      func()
}

// buildExtractor assembles the strategy set and scorer from configuration
func buildExtractor(ctx context.Context, cfg *config.Config) (*extractionComponents, error) {
	var cleanup []func()
	closeAll := func() {
		for _, fn := range cleanup {
			fn()
		}
	}

	aliasTable := alias.DefaultTable()
	if cfg.AliasTablePath != "" {
		var err error
		aliasTable, err = alias.LoadTable(cfg.AliasTablePath)
		if err != nil {
			return nil, err
		}
	}
	aliasIndex := alias.NewIndex(aliasTable, alias.Options{})

	weights := scoring.DefaultCategoryWeights()
	if cfg.CategoryWeightsPath != "" {
		var err error
		weights, err = scoring.LoadCategoryWeights(cfg.CategoryWeightsPath)
		if err != nil {
			return nil, err
		}
	}

	strategies := []extraction.Strategy{
		extraction.NewLexiconStrategy(nil, 0),
		extraction.NewAliasStrategy(aliasIndex, 0),
		extraction.NewPatternStrategy(nil, 0),
	}

	if cfg.EnableSemantic {
		if cfg.APIKey == "" {
			closeAll()
			return nil, fmt.Errorf("semantic strategy requires GEMINI_API_KEY")
		}
		embedder, err := embedding.NewGeminiEmbedder(ctx, cfg.APIKey, "")
		if err != nil {
			closeAll()
			return nil, err
		}
		cleanup = append(cleanup, func() { _ = embedder.Close() })
		strategies = append(strategies, extraction.NewSemanticStrategy(embedder, nil, float32(cfg.SimilarityThreshold), 0))
	}

	if cfg.EnableEntity {
		if cfg.APIKey == "" {
			closeAll()
			return nil, fmt.Errorf("entity strategy requires GEMINI_API_KEY")
		}
		client, err := llm.NewGeminiClient(ctx, llm.DefaultConfig(), cfg.APIKey)
		if err != nil {
			closeAll()
			return nil, err
		}
		cleanup = append(cleanup, func() { _ = client.Close() })
		strategies = append(strategies, extraction.NewEntityStrategy(client, 0))
	}

	classifier := sections.NewClassifier(sections.Options{RelevanceThreshold: cfg.RelevanceThreshold})
	extractor := scoring.NewExtractor(scoring.Options{
		Strategies:      strategies,
		Classifier:      classifier,
		CategoryWeights: weights,
		MinConfidence:   cfg.MinConfidence,
		Version:         cfg.ModelVersion,
	})
	return &extractionComponents{
		extractor:  extractor,
		classifier: classifier,
		aliasIndex: aliasIndex,
		close:      closeAll,
	}, nil
}

func runEnrich(_ *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadEnrichConfig()
	if err != nil {
		return err
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	comps, err := buildExtractor(ctx, cfg)
	if err != nil {
		return err
	}
	defer comps.close()

	opts := pipeline.Options{
		Ledger:     ledger.New(database),
		Store:      database,
		Extractor:  comps.extractor,
		Classifier: comps.classifier,
	}

	needsEmbedder := false
	for _, enrichmentType := range enrichTypes {
		if enrichmentType == "embeddings" {
			needsEmbedder = true
		}
	}
	if needsEmbedder {
		if cfg.APIKey == "" {
			return fmt.Errorf("embeddings enrichment requires GEMINI_API_KEY")
		}
		embedder, err := embedding.NewGeminiEmbedder(ctx, cfg.APIKey, "")
		if err != nil {
			return err
		}
		defer func() { _ = embedder.Close() }()
		opts.Embedder = embedder
		opts.EmbeddingModel = embedding.DefaultModel
	}

	if cfg.CentroidsPath != "" {
		centroids, err := clustering.LoadCentroids(cfg.CentroidsPath)
		if err != nil {
			return err
		}
		opts.Assigner = clustering.NewAssigner(centroids, float32(cfg.SimilarityThreshold))
	}

	version := cfg.EnrichmentVersion()
	versions := make(map[string]string, len(enrichTypes))
	for _, enrichmentType := range enrichTypes {
		versions[enrichmentType] = version
	}

	orchestrator := pipeline.NewOrchestrator(opts)
	reloader := config.NewReloader(cfg, comps.aliasIndex, comps.extractor)
	printer := observability.NewPrinter(os.Stdout)

	for {
		summary, err := orchestrator.Run(ctx, pipeline.RunOptions{
			Types:     enrichTypes,
			Versions:  versions,
			BatchSize: cfg.BatchSize,
			Reenrich:  enrichReenrich,
		})
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		printer.PrintRunSummary(summary)

		if enrichInterval <= 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(enrichInterval):
		}
		if err := reloader.Reload(); err != nil {
			fmt.Fprintf(os.Stderr, "reload failed, keeping previous configuration: %v\n", err)
		}
	}
}
