// Package scoring merges raw strategy candidates into deduplicated, scored
// skills. Final confidence folds together the strategy's raw confidence, the
// category weight, and the relevance of the section the match came from.
package scoring

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/job-enricher/internal/schemas"
	"github.com/jonathan/job-enricher/internal/types"
)

// categoryWeightsSchemaFile is the JSON Schema weights files are validated against
const categoryWeightsSchemaFile = "schemas/category_weights.schema.json"

// DefaultCategoryWeights returns the built-in per-category weight table.
// Technology categories score near full weight; soft skills are discounted
// because their matches are noisier.
func DefaultCategoryWeights() map[string]float64 {
	return map[string]float64{
		types.CategoryProgrammingLanguages: 1.0,
		types.CategoryFrameworks:           0.95,
		types.CategoryDatabases:            0.95,
		types.CategoryCloudPlatforms:       0.95,
		types.CategoryDevOps:               0.9,
		types.CategoryTools:                0.85,
		types.CategoryCertifications:       0.9,
		types.CategoryMethodologies:        0.75,
		types.CategorySoftSkills:           0.6,
		types.CategoryGeneral:              0.7,
	}
}

// LoadCategoryWeights reads a category weight table from a JSON file. The file
// is validated against the category weights schema when the schema file can be
// resolved, then each weight is range checked.
func LoadCategoryWeights(path string) (map[string]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read category weights %s: %w", path, err)
	}

	if schemaPath := schemas.ResolveSchemaPath(categoryWeightsSchemaFile); schemaPath != "" {
		if err := schemas.ValidateJSON(schemaPath, path); err != nil {
			return nil, fmt.Errorf("category weights %s failed schema validation: %w", path, err)
		}
	}

	var weights map[string]float64
	if err := json.Unmarshal(data, &weights); err != nil {
		return nil, fmt.Errorf("failed to parse category weights %s: %w", path, err)
	}

	for category, weight := range weights {
		if weight < 0.0 || weight > 1.0 {
			return nil, fmt.Errorf("category weights %s: weight for %q out of range [0,1]: %v", path, category, weight)
		}
	}

	return weights, nil
}
