// Package types defines the shared domain artifacts for the enrichment engine:
// model configuration, skill candidates, extraction results, and section data.
package types

import (
	"encoding/json"
	"fmt"
	"regexp"
	"time"
)

// ModelType constants for the configurable model slots
const (
	ModelTypeSkillsExtraction      = "skills_extraction"
	ModelTypeEmbeddings            = "embeddings"
	ModelTypeClustering            = "clustering"
	ModelTypeSectionClassification = "section_classification"
)

var (
	// modelIDPattern matches lowercase identifiers like "skills_extractor"
	modelIDPattern = regexp.MustCompile(`^[a-z_]+$`)
	// versionPattern matches versions like "v1.0", "v2.3-beta"
	versionPattern = regexp.MustCompile(`^v\d+\.\d+(-[a-z0-9]+)?$`)
)

// validModelTypes is the closed set of accepted model types
var validModelTypes = map[string]bool{
	ModelTypeSkillsExtraction:      true,
	ModelTypeEmbeddings:            true,
	ModelTypeClustering:            true,
	ModelTypeSectionClassification: true,
}

// ModelConfig describes one versioned model used for enrichment.
// The (ModelID, Version) pair forms the enrichment_version join key against
// the ledger, so both fields are validated strictly at construction.
type ModelConfig struct {
	ModelID            string             `json:"model_id"`
	Version            string             `json:"version"`
	ModelType          string             `json:"model_type"`
	PerformanceMetrics map[string]float64 `json:"performance_metrics,omitempty"`
	IsActive           bool               `json:"is_active"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// NewModelConfig creates a validated ModelConfig with timestamps set to now
func NewModelConfig(modelID, version, modelType string, metrics map[string]float64, isActive bool) (*ModelConfig, error) {
	now := time.Now().UTC()
	cfg := &ModelConfig{
		ModelID:            modelID,
		Version:            version,
		ModelType:          modelType,
		PerformanceMetrics: metrics,
		IsActive:           isActive,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks all invariants on the config.
// Invalid configs fail fast here; values are never silently coerced.
func (c *ModelConfig) Validate() error {
	if !modelIDPattern.MatchString(c.ModelID) {
		return fmt.Errorf("invalid model_id %q: must match %s", c.ModelID, modelIDPattern.String())
	}
	if !versionPattern.MatchString(c.Version) {
		return fmt.Errorf("invalid version %q: must match %s", c.Version, versionPattern.String())
	}
	if !validModelTypes[c.ModelType] {
		return fmt.Errorf("invalid model_type %q", c.ModelType)
	}
	for name, value := range c.PerformanceMetrics {
		if value < 0.0 || value > 1.0 {
			return fmt.Errorf("performance metric %q out of range [0,1]: %v", name, value)
		}
	}
	if !c.UpdatedAt.IsZero() && c.UpdatedAt.Before(c.CreatedAt) {
		return fmt.Errorf("updated_at %s precedes created_at %s", c.UpdatedAt, c.CreatedAt)
	}
	return nil
}

// EnrichmentVersion returns the ledger join key for this model config
func (c *ModelConfig) EnrichmentVersion() string {
	return EnrichmentVersion(c.ModelID, c.Version)
}

// modelConfigAlias prevents UnmarshalJSON recursion
type modelConfigAlias ModelConfig

// UnmarshalJSON decodes and re-validates, so a stored config with an invalid
// model_id or version is rejected at load time rather than at first use.
func (c *ModelConfig) UnmarshalJSON(data []byte) error {
	var alias modelConfigAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	cfg := ModelConfig(alias)
	if err := cfg.Validate(); err != nil {
		return err
	}
	*c = cfg
	return nil
}
