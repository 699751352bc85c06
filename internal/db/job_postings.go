package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// GetJobPostingByID retrieves a job posting by its ID
func (db *DB) GetJobPostingByID(ctx context.Context, id uuid.UUID) (*JobPosting, error) {
	var p JobPosting
	err := db.pool.QueryRow(ctx,
		`SELECT id, external_ref, title, company, summary, description, posted_at, created_at
		 FROM job_postings WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.ExternalRef, &p.Title, &p.Company, &p.Summary, &p.Description,
		&p.PostedAt, &p.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job posting: %w", err)
	}
	return &p, nil
}

// JobsWithoutSuccess finds postings with no successful ledger row for the
// given enrichment type, most recently posted first. An empty version means
// any successful row of the type excludes the job; a non-empty version only
// counts success rows at exactly that version. The anti-join keeps
// already-enriched jobs out of the batch without any worker-side bookkeeping.
func (db *DB) JobsWithoutSuccess(ctx context.Context, enrichmentType, enrichmentVersion string, limit int) ([]JobPosting, error) {
	query := `SELECT jp.id, jp.external_ref, jp.title, jp.company, jp.summary, jp.description,
	                 jp.posted_at, jp.created_at
	          FROM job_postings jp
	          WHERE NOT EXISTS (
	              SELECT 1 FROM enrichment_records er
	              WHERE er.job_posting_id = jp.id
	                AND er.enrichment_type = $1
	                AND er.status = 'success'`
	args := []any{enrichmentType}
	argNum := 2

	if enrichmentVersion != "" {
		query += fmt.Sprintf(" AND er.enrichment_version = $%d", argNum)
		args = append(args, enrichmentVersion)
		argNum++
	}

	query += fmt.Sprintf(`)
	          ORDER BY jp.posted_at DESC NULLS LAST
	          LIMIT $%d`, argNum)
	args = append(args, limit)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query jobs without success: %w", err)
	}
	defer rows.Close()

	return scanJobPostings(rows)
}

// JobsWithStaleVersion finds postings with no successful ledger row for the
// enrichment type at exactly the target version. One predicate covers all
// three re-enrichment cases: never enriched, enriched at a different version,
// and enriched but failed. Used to plan re-enrichment after a model upgrade.
func (db *DB) JobsWithStaleVersion(ctx context.Context, enrichmentType, targetVersion string, limit int) ([]JobPosting, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT jp.id, jp.external_ref, jp.title, jp.company, jp.summary, jp.description,
		        jp.posted_at, jp.created_at
		 FROM job_postings jp
		 WHERE NOT EXISTS (
		     SELECT 1 FROM enrichment_records er
		     WHERE er.job_posting_id = jp.id
		       AND er.enrichment_type = $1
		       AND er.enrichment_version = $2
		       AND er.status = 'success'
		 )
		 ORDER BY jp.posted_at DESC NULLS LAST
		 LIMIT $3`,
		enrichmentType, targetVersion, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query jobs with stale version: %w", err)
	}
	defer rows.Close()

	return scanJobPostings(rows)
}

// CreateJobPosting inserts a posting. Used by tests and backfill tooling; the
// scraper owns this table in production.
func (db *DB) CreateJobPosting(ctx context.Context, p *JobPosting) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO job_postings (external_ref, title, company, summary, description, posted_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		p.ExternalRef, p.Title, p.Company, p.Summary, p.Description, p.PostedAt,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create job posting: %w", err)
	}
	return id, nil
}

func scanJobPostings(rows pgx.Rows) ([]JobPosting, error) {
	var postings []JobPosting
	for rows.Next() {
		var p JobPosting
		if err := rows.Scan(&p.ID, &p.ExternalRef, &p.Title, &p.Company, &p.Summary,
			&p.Description, &p.PostedAt, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan job posting: %w", err)
		}
		postings = append(postings, p)
	}
	return postings, rows.Err()
}
