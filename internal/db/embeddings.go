package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"
)

// InsertJobEmbedding stores one embedding vector for a job posting field
func (db *DB) InsertJobEmbedding(ctx context.Context, e *JobEmbedding) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO job_embeddings (job_posting_id, field, vector, model_version, enrichment_version)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		e.JobPostingID, e.Field, e.Vector, e.ModelVersion, e.EnrichmentVersion,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert job embedding: %w", err)
	}
	return id, nil
}

// GetJobEmbedding retrieves the newest embedding for a job posting field, or
// nil when none exists
func (db *DB) GetJobEmbedding(ctx context.Context, jobID uuid.UUID, field string) (*JobEmbedding, error) {
	var e JobEmbedding
	err := db.pool.QueryRow(ctx,
		`SELECT id, job_posting_id, field, vector, model_version, enrichment_version, created_at
		 FROM job_embeddings
		 WHERE job_posting_id = $1 AND field = $2
		 ORDER BY created_at DESC
		 LIMIT 1`,
		jobID, field,
	).Scan(&e.ID, &e.JobPostingID, &e.Field, &e.Vector, &e.ModelVersion,
		&e.EnrichmentVersion, &e.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job embedding: %w", err)
	}
	return &e, nil
}

// NearestJobs finds the job postings whose embeddings are closest to the given
// vector by cosine distance
func (db *DB) NearestJobs(ctx context.Context, field string, vector pgvector.Vector, limit int) ([]uuid.UUID, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT job_posting_id
		 FROM job_embeddings
		 WHERE field = $1
		 ORDER BY vector <=> $2
		 LIMIT $3`,
		field, vector, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query nearest jobs: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan job id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
