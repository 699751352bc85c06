package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// Embedding field constants name which posting text a vector was computed from
const (
	EmbeddingFieldSummary     = "summary"
	EmbeddingFieldDescription = "description"
	EmbeddingFieldCombined    = "combined"
)

// JobEmbedding is one persisted embedding vector for a job posting field.
// Vectors are L2-normalized before insert.
type JobEmbedding struct {
	ID                uuid.UUID       `json:"id"`
	JobPostingID      uuid.UUID       `json:"job_posting_id"`
	Field             string          `json:"field"`
	Vector            pgvector.Vector `json:"vector"`
	ModelVersion      string          `json:"model_version"`
	EnrichmentVersion string          `json:"enrichment_version"`
	CreatedAt         time.Time       `json:"created_at"`
}

// ClusterAssignment is one job-to-cluster assignment. History is retained:
// reassignment appends a new row and deactivates older ones, never deletes.
type ClusterAssignment struct {
	ID                uuid.UUID `json:"id"`
	JobPostingID      uuid.UUID `json:"job_posting_id"`
	ClusterID         string    `json:"cluster_id"`
	Similarity        float64   `json:"similarity"`
	EnrichmentVersion string    `json:"enrichment_version"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
}
