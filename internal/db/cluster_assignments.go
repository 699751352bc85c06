package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// InsertClusterAssignment appends one cluster assignment row, active by default
func (db *DB) InsertClusterAssignment(ctx context.Context, a *ClusterAssignment) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO cluster_assignments (job_posting_id, cluster_id, similarity, enrichment_version, is_active)
		 VALUES ($1, $2, $3, $4, TRUE)
		 RETURNING id`,
		a.JobPostingID, a.ClusterID, a.Similarity, a.EnrichmentVersion,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert cluster assignment: %w", err)
	}
	return id, nil
}

// DeactivatePrevious marks every active assignment for a job other than
// keepID as inactive. Old rows stay in place for history; exactly one
// assignment is active per job after a reassignment.
func (db *DB) DeactivatePrevious(ctx context.Context, jobID, keepID uuid.UUID) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE cluster_assignments
		 SET is_active = FALSE
		 WHERE job_posting_id = $1 AND is_active AND id <> $2`,
		jobID, keepID,
	)
	if err != nil {
		return fmt.Errorf("failed to deactivate previous assignments: %w", err)
	}
	return nil
}

// ActiveAssignment retrieves the currently active cluster assignment for a
// job, or nil when the job is unassigned
func (db *DB) ActiveAssignment(ctx context.Context, jobID uuid.UUID) (*ClusterAssignment, error) {
	var a ClusterAssignment
	err := db.pool.QueryRow(ctx,
		`SELECT id, job_posting_id, cluster_id, similarity, enrichment_version, is_active, created_at
		 FROM cluster_assignments
		 WHERE job_posting_id = $1 AND is_active
		 ORDER BY created_at DESC
		 LIMIT 1`,
		jobID,
	).Scan(&a.ID, &a.JobPostingID, &a.ClusterID, &a.Similarity, &a.EnrichmentVersion,
		&a.IsActive, &a.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active assignment: %w", err)
	}
	return &a, nil
}

// AssignmentHistory retrieves all assignment rows for a job, newest first
func (db *DB) AssignmentHistory(ctx context.Context, jobID uuid.UUID) ([]ClusterAssignment, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, job_posting_id, cluster_id, similarity, enrichment_version, is_active, created_at
		 FROM cluster_assignments
		 WHERE job_posting_id = $1
		 ORDER BY created_at DESC`,
		jobID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignment history: %w", err)
	}
	defer rows.Close()

	var assignments []ClusterAssignment
	for rows.Next() {
		var a ClusterAssignment
		if err := rows.Scan(&a.ID, &a.JobPostingID, &a.ClusterID, &a.Similarity,
			&a.EnrichmentVersion, &a.IsActive, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cluster assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}
