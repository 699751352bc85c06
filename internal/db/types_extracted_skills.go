package db

import (
	"time"

	"github.com/google/uuid"
)

// SkillRecord is one persisted extracted skill for a job posting, tagged with
// the enrichment version that produced it. Multiple versions of the same
// skill coexist; readers filter by version.
type SkillRecord struct {
	ID                uuid.UUID `json:"id"`
	JobPostingID      uuid.UUID `json:"job_posting_id"`
	SkillName         string    `json:"skill_name"`
	NormalizedName    string    `json:"normalized_name"`
	Category          string    `json:"category"`
	Confidence        float64   `json:"confidence"`
	ContextSnippet    string    `json:"context_snippet"`
	ExtractionMethod  string    `json:"extraction_method"`
	SourceField       string    `json:"source_field"`
	EnrichmentVersion string    `json:"enrichment_version"`
	CreatedAt         time.Time `json:"created_at"`
}
