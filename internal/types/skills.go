package types

import "strings"

// Skill category constants. Category is part of the dedup key, so the
// canonical spellings here are load-bearing for stored rows.
const (
	CategoryProgrammingLanguages = "programming_languages"
	CategoryFrameworks           = "frameworks"
	CategoryDatabases            = "databases"
	CategoryCloudPlatforms       = "cloud_platforms"
	CategoryDevOps               = "devops"
	CategoryTools                = "tools"
	CategoryMethodologies        = "methodologies"
	CategorySoftSkills           = "soft_skills"
	CategoryCertifications       = "certifications"
	CategoryGeneral              = "general"
)

// Alias source constants
const (
	AliasSourceManual  = "manual"
	AliasSourceLearned = "learned"
)

// SkillCandidate is one raw match produced by a single extraction strategy.
// Candidates are ephemeral: the scorer merges them and they are never persisted.
type SkillCandidate struct {
	Text           string  `json:"text"`
	NormalizedName string  `json:"normalized_name"`
	Category       string  `json:"category"`
	RawConfidence  float64 `json:"raw_confidence"`
	ContextSpan    string  `json:"context_span"`
	SourceStrategy string  `json:"source_strategy"`
}

// ExtractedSkill is one deduplicated, scored skill for a job posting
type ExtractedSkill struct {
	SkillName        string  `json:"skill_name"`
	NormalizedName   string  `json:"normalized_name"`
	Category         string  `json:"category"`
	Confidence       float64 `json:"confidence"`
	ContextSnippet   string  `json:"context_snippet"`
	ExtractionMethod string  `json:"extraction_method"`
	SourceField      string  `json:"source_field"`
}

// ExtractionMetadata summarizes one extraction run for auditability
type ExtractionMetadata struct {
	ExtractorVersion    string   `json:"extractor_version"`
	EnhancedMode        bool     `json:"enhanced_mode"`
	SemanticEnabled     bool     `json:"semantic_enabled"`
	PatternsEnabled     bool     `json:"patterns_enabled"`
	TotalMatches        int      `json:"total_matches"`
	FilteredMatches     int      `json:"filtered_matches"`
	FinalSkills         int      `json:"final_skills"`
	ConfidenceThreshold float64  `json:"confidence_threshold"`
	FailedStrategies    []string `json:"failed_strategies,omitempty"`
}

// ExtractionResult is the scorer's output for one job posting
type ExtractionResult struct {
	Skills   []ExtractedSkill   `json:"skills"`
	Metadata ExtractionMetadata `json:"extraction_metadata"`
}

// SkillAlias maps a raw surface form to a canonical skill name.
// UsageCount is bumped by the alias index on each successful resolution.
type SkillAlias struct {
	AliasText     string  `json:"alias_text"`
	CanonicalName string  `json:"canonical_name"`
	Category      string  `json:"category"`
	Source        string  `json:"source"`
	Confidence    float64 `json:"confidence"`
	UsageCount    int64   `json:"usage_count"`
}

// NormalizeSkillText lowercases and trims a skill surface form for use as a
// dedup/lookup key
func NormalizeSkillText(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}
