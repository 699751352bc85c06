package config

import (
	"fmt"

	"github.com/jonathan/job-enricher/internal/alias"
	"github.com/jonathan/job-enricher/internal/scoring"
)

// Reloader re-reads the file-backed parts of the configuration and swaps
// them into running components. Intended to run between enrichment batches
// so a curated alias table or tuned weight file takes effect without a
// restart.
type Reloader struct {
	cfg       *Config
	index     *alias.Index
	extractor *scoring.Extractor
}

// NewReloader wires a reloader to the components built from cfg. index and
// extractor may be nil when the corresponding file path is not configured.
func NewReloader(cfg *Config, index *alias.Index, extractor *scoring.Extractor) *Reloader {
	return &Reloader{cfg: cfg, index: index, extractor: extractor}
}

// Reload re-reads the alias table and category weight files. Each file is
// fully parsed and validated before anything is swapped, so a broken file on
// disk leaves the running components untouched.
func (r *Reloader) Reload() error {
	if r.cfg.AliasTablePath != "" && r.index != nil {
		table, err := alias.LoadTable(r.cfg.AliasTablePath)
		if err != nil {
			return fmt.Errorf("failed to reload alias table: %w", err)
		}
		r.index.Reload(table)
	}

	if r.cfg.CategoryWeightsPath != "" && r.extractor != nil {
		weights, err := scoring.LoadCategoryWeights(r.cfg.CategoryWeightsPath)
		if err != nil {
			return fmt.Errorf("failed to reload category weights: %w", err)
		}
		r.extractor.SetCategoryWeights(weights)
	}

	return nil
}
