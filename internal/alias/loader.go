package alias

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/job-enricher/internal/schemas"
	"github.com/jonathan/job-enricher/internal/types"
)

// aliasTableSchemaFile is the JSON Schema the alias table is validated against
const aliasTableSchemaFile = "schemas/alias_table.schema.json"

// DefaultTable returns the built-in alias table used when no external table
// is configured. Kept small on purpose: real deployments ship a curated file.
func DefaultTable() []types.SkillAlias {
	return []types.SkillAlias{
		{AliasText: "golang", CanonicalName: "go", Category: types.CategoryProgrammingLanguages, Source: types.AliasSourceManual, Confidence: 0.95},
		{AliasText: "go lang", CanonicalName: "go", Category: types.CategoryProgrammingLanguages, Source: types.AliasSourceManual, Confidence: 0.9},
		{AliasText: "js", CanonicalName: "javascript", Category: types.CategoryProgrammingLanguages, Source: types.AliasSourceManual, Confidence: 0.9},
		{AliasText: "ts", CanonicalName: "typescript", Category: types.CategoryProgrammingLanguages, Source: types.AliasSourceManual, Confidence: 0.85},
		{AliasText: "py", CanonicalName: "python", Category: types.CategoryProgrammingLanguages, Source: types.AliasSourceManual, Confidence: 0.85},
		{AliasText: "k8s", CanonicalName: "kubernetes", Category: types.CategoryDevOps, Source: types.AliasSourceManual, Confidence: 0.95},
		{AliasText: "react.js", CanonicalName: "react", Category: types.CategoryFrameworks, Source: types.AliasSourceManual, Confidence: 0.95},
		{AliasText: "reactjs", CanonicalName: "react", Category: types.CategoryFrameworks, Source: types.AliasSourceManual, Confidence: 0.95},
		{AliasText: "vue.js", CanonicalName: "vue", Category: types.CategoryFrameworks, Source: types.AliasSourceManual, Confidence: 0.95},
		{AliasText: "node", CanonicalName: "node.js", Category: types.CategoryFrameworks, Source: types.AliasSourceManual, Confidence: 0.8},
		{AliasText: "nodejs", CanonicalName: "node.js", Category: types.CategoryFrameworks, Source: types.AliasSourceManual, Confidence: 0.95},
		{AliasText: "postgres", CanonicalName: "postgresql", Category: types.CategoryDatabases, Source: types.AliasSourceManual, Confidence: 0.95},
		{AliasText: "mongo", CanonicalName: "mongodb", Category: types.CategoryDatabases, Source: types.AliasSourceManual, Confidence: 0.9},
		{AliasText: "es", CanonicalName: "elasticsearch", Category: types.CategoryDatabases, Source: types.AliasSourceManual, Confidence: 0.6},
		{AliasText: "gcp", CanonicalName: "google cloud platform", Category: types.CategoryCloudPlatforms, Source: types.AliasSourceManual, Confidence: 0.95},
		{AliasText: "amazon web services", CanonicalName: "aws", Category: types.CategoryCloudPlatforms, Source: types.AliasSourceManual, Confidence: 0.95},
		{AliasText: "ci/cd", CanonicalName: "continuous integration", Category: types.CategoryDevOps, Source: types.AliasSourceManual, Confidence: 0.85},
		{AliasText: "tf", CanonicalName: "terraform", Category: types.CategoryDevOps, Source: types.AliasSourceManual, Confidence: 0.7},
		{AliasText: "ml", CanonicalName: "machine learning", Category: types.CategoryMethodologies, Source: types.AliasSourceManual, Confidence: 0.85},
	}
}

// LoadTable reads an alias table from a JSON file. The file is validated
// against the alias table schema when the schema file can be resolved, then
// each row is checked for range and enum violations.
func LoadTable(path string) ([]types.SkillAlias, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read alias table %s: %w", path, err)
	}

	if schemaPath := schemas.ResolveSchemaPath(aliasTableSchemaFile); schemaPath != "" {
		if err := schemas.ValidateJSON(schemaPath, path); err != nil {
			return nil, fmt.Errorf("alias table %s failed schema validation: %w", path, err)
		}
	}

	var table []types.SkillAlias
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse alias table %s: %w", path, err)
	}

	for i, a := range table {
		if a.AliasText == "" || a.CanonicalName == "" {
			return nil, fmt.Errorf("alias table %s: entry %d missing alias_text or canonical_name", path, i)
		}
		if a.Confidence < 0.0 || a.Confidence > 1.0 {
			return nil, fmt.Errorf("alias table %s: entry %d confidence out of range [0,1]: %v", path, i, a.Confidence)
		}
		if a.Source != types.AliasSourceManual && a.Source != types.AliasSourceLearned {
			return nil, fmt.Errorf("alias table %s: entry %d has unknown source %q", path, i, a.Source)
		}
	}

	return table, nil
}
