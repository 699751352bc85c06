// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	// modelIDPattern matches lowercase identifiers like "skill_extractor"
	modelIDPattern = regexp.MustCompile(`^[a-z_]+$`)
	// modelVersionPattern matches versions like "v1.0", "v2.3-beta"
	modelVersionPattern = regexp.MustCompile(`^v\d+\.\d+(-[a-z0-9]+)?$`)
)

// Config represents the enrichment agent configuration that can be loaded
// from a JSON file. All fields are optional; missing values use defaults or
// must be provided via CLI flags or the environment.
type Config struct {
	// Connections
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key (semantic/entity/embedding only)

	// Model identity, joined into the enrichment version recorded on every row
	ModelID      string `json:"model_id,omitempty" validate:"omitempty,model_id"`
	ModelVersion string `json:"model_version,omitempty" validate:"omitempty,model_version"`

	// External data files
	AliasTablePath      string `json:"alias_table,omitempty"`      // JSON alias table
	CategoryWeightsPath string `json:"category_weights,omitempty"` // JSON weight table
	CentroidsPath       string `json:"centroids,omitempty"`        // JSON cluster centroids

	// Extraction behavior
	MinConfidence       float64 `json:"min_confidence,omitempty" validate:"gte=0,lte=1"`
	SimilarityThreshold float64 `json:"similarity_threshold,omitempty" validate:"gte=0,lte=1"`
	RelevanceThreshold  float64 `json:"relevance_threshold,omitempty" validate:"gte=0,lte=1"`
	EnableSemantic      bool    `json:"enable_semantic,omitempty"` // embedding-similarity strategy
	EnableEntity        bool    `json:"enable_entity,omitempty"`   // LLM entity strategy

	// Batch behavior
	BatchSize int  `json:"batch_size,omitempty" validate:"gte=0"`
	Verbose   bool `json:"verbose,omitempty"`
}

// newValidator builds the validator with the model identity formats registered
func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("model_id", func(fl validator.FieldLevel) bool {
		return modelIDPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("model_version", func(fl validator.FieldLevel) bool {
		return modelVersionPattern.MatchString(fl.Field().String())
	})
	return v
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if err := newValidator().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	// Validate file paths exist (if specified)
	for _, p := range []struct{ name, path string }{
		{"alias_table", c.AliasTablePath},
		{"category_weights", c.CategoryWeightsPath},
		{"centroids", c.CentroidsPath},
	} {
		if p.path == "" {
			continue
		}
		if _, err := os.Stat(p.path); os.IsNotExist(err) {
			return fmt.Errorf("config error: %s file not found: %s", p.name, p.path)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. This is used to apply config file values as defaults for CLI
// flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.ModelID == "" {
		result.ModelID = defaults.ModelID
	}
	if result.ModelVersion == "" {
		result.ModelVersion = defaults.ModelVersion
	}
	if result.AliasTablePath == "" {
		result.AliasTablePath = defaults.AliasTablePath
	}
	if result.CategoryWeightsPath == "" {
		result.CategoryWeightsPath = defaults.CategoryWeightsPath
	}
	if result.CentroidsPath == "" {
		result.CentroidsPath = defaults.CentroidsPath
	}

	// Numeric fields: use default if zero
	if result.MinConfidence == 0 {
		result.MinConfidence = defaults.MinConfidence
	}
	if result.SimilarityThreshold == 0 {
		result.SimilarityThreshold = defaults.SimilarityThreshold
	}
	if result.RelevanceThreshold == 0 {
		result.RelevanceThreshold = defaults.RelevanceThreshold
	}
	if result.BatchSize == 0 {
		result.BatchSize = defaults.BatchSize
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// EnrichmentVersion joins the configured model identity into the version
// string stamped on every persisted row
func (c *Config) EnrichmentVersion() string {
	return c.ModelID + "_" + c.ModelVersion
}
