package db

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// InsertEnrichmentRecord appends one ledger row. The ledger is append-only:
// there is deliberately no update or delete method on this table.
func (db *DB) InsertEnrichmentRecord(ctx context.Context, rec *EnrichmentRecord) (uuid.UUID, error) {
	var metadataJSON []byte
	if rec.Metadata != nil {
		var err error
		metadataJSON, err = json.Marshal(rec.Metadata)
		if err != nil {
			return uuid.Nil, fmt.Errorf("failed to marshal enrichment metadata: %w", err)
		}
	}

	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO enrichment_records
		     (job_posting_id, enrichment_type, enrichment_version, status, error_message, metadata)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		rec.JobPostingID, rec.EnrichmentType, rec.EnrichmentVersion, rec.Status,
		rec.ErrorMessage, metadataJSON,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert enrichment record: %w", err)
	}
	return id, nil
}

// LatestEnrichment retrieves the most recent ledger row for a job and
// enrichment type, or nil when the job has never been processed
func (db *DB) LatestEnrichment(ctx context.Context, jobID uuid.UUID, enrichmentType string) (*EnrichmentRecord, error) {
	var rec EnrichmentRecord
	var metadataJSON []byte

	err := db.pool.QueryRow(ctx,
		`SELECT id, job_posting_id, enrichment_type, enrichment_version, status,
		        error_message, metadata, created_at
		 FROM enrichment_records
		 WHERE job_posting_id = $1 AND enrichment_type = $2
		 ORDER BY created_at DESC
		 LIMIT 1`,
		jobID, enrichmentType,
	).Scan(&rec.ID, &rec.JobPostingID, &rec.EnrichmentType, &rec.EnrichmentVersion,
		&rec.Status, &rec.ErrorMessage, &metadataJSON, &rec.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest enrichment: %w", err)
	}

	if metadataJSON != nil {
		_ = json.Unmarshal(metadataJSON, &rec.Metadata)
	}

	return &rec, nil
}

// EnrichmentHistory retrieves all ledger rows for a job, newest first,
// optionally filtered by enrichment type
func (db *DB) EnrichmentHistory(ctx context.Context, jobID uuid.UUID, enrichmentType string) ([]EnrichmentRecord, error) {
	query := `SELECT id, job_posting_id, enrichment_type, enrichment_version, status,
	                 error_message, metadata, created_at
	          FROM enrichment_records WHERE job_posting_id = $1`
	args := []any{jobID}
	argNum := 2

	if enrichmentType != "" {
		query += fmt.Sprintf(" AND enrichment_type = $%d", argNum)
		args = append(args, enrichmentType)
	}

	query += " ORDER BY created_at DESC"

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query enrichment history: %w", err)
	}
	defer rows.Close()

	var records []EnrichmentRecord
	for rows.Next() {
		var rec EnrichmentRecord
		var metadataJSON []byte
		if err := rows.Scan(&rec.ID, &rec.JobPostingID, &rec.EnrichmentType,
			&rec.EnrichmentVersion, &rec.Status, &rec.ErrorMessage, &metadataJSON,
			&rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan enrichment record: %w", err)
		}
		if metadataJSON != nil {
			_ = json.Unmarshal(metadataJSON, &rec.Metadata)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// VersionDistribution reports, per enrichment version, how many ledger rows
// exist for the given type broken down by status
func (db *DB) VersionDistribution(ctx context.Context, enrichmentType string) ([]VersionStat, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT enrichment_version,
		        COUNT(*) AS total,
		        COUNT(*) FILTER (WHERE status = 'success') AS succeeded,
		        COUNT(*) FILTER (WHERE status = 'failed') AS failed,
		        COUNT(*) FILTER (WHERE status = 'partial') AS partial,
		        MIN(created_at) AS first_seen,
		        MAX(created_at) AS last_seen
		 FROM enrichment_records
		 WHERE enrichment_type = $1
		 GROUP BY enrichment_version
		 ORDER BY enrichment_version`,
		enrichmentType,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query version distribution: %w", err)
	}
	defer rows.Close()

	var stats []VersionStat
	for rows.Next() {
		var s VersionStat
		if err := rows.Scan(&s.EnrichmentVersion, &s.Total, &s.Succeeded, &s.Failed, &s.Partial, &s.FirstSeen, &s.LastSeen); err != nil {
			return nil, fmt.Errorf("failed to scan version stat: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// CountByStatus returns ledger row counts per status for one enrichment type
// and version
func (db *DB) CountByStatus(ctx context.Context, enrichmentType, enrichmentVersion string) (map[string]int64, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT status, COUNT(*)
		 FROM enrichment_records
		 WHERE enrichment_type = $1 AND enrichment_version = $2
		 GROUP BY status`,
		enrichmentType, enrichmentVersion,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[strings.TrimSpace(status)] = count
	}
	return counts, rows.Err()
}
