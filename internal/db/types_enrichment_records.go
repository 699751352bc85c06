package db

import (
	"time"

	"github.com/google/uuid"
)

// EnrichmentRecord is one append-only ledger row recording that an enrichment
// of one type, at one version, was attempted for one job posting. Rows are
// never updated or deleted; reprocessing appends a new row.
type EnrichmentRecord struct {
	ID                uuid.UUID      `json:"id"`
	JobPostingID      uuid.UUID      `json:"job_posting_id"`
	EnrichmentType    string         `json:"enrichment_type"`
	EnrichmentVersion string         `json:"enrichment_version"`
	Status            string         `json:"status"`
	ErrorMessage      *string        `json:"error_message,omitempty"`
	Metadata          map[string]any `json:"metadata,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
}

// VersionStat is one row of the per-type version distribution report
type VersionStat struct {
	EnrichmentVersion string    `json:"enrichment_version"`
	Total             int64     `json:"total"`
	Succeeded         int64     `json:"succeeded"`
	Failed            int64     `json:"failed"`
	Partial           int64     `json:"partial"`
	FirstSeen         time.Time `json:"first_seen"`
	LastSeen          time.Time `json:"last_seen"`
}
