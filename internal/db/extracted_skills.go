package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/job-enricher/internal/types"
)

// InsertExtractedSkills batch-inserts the scored skills for one job posting
// under one enrichment version. Uses the COPY protocol; a typical posting
// carries dozens of rows.
func (db *DB) InsertExtractedSkills(ctx context.Context, jobID uuid.UUID, enrichmentVersion string, skills []types.ExtractedSkill) error {
	if len(skills) == 0 {
		return nil
	}

	rows := make([][]any, 0, len(skills))
	for _, s := range skills {
		rows = append(rows, []any{
			jobID, s.SkillName, s.NormalizedName, s.Category, s.Confidence,
			s.ContextSnippet, s.ExtractionMethod, s.SourceField, enrichmentVersion,
		})
	}

	_, err := db.pool.CopyFrom(ctx,
		pgx.Identifier{"extracted_skills"},
		[]string{"job_posting_id", "skill_name", "normalized_name", "category",
			"confidence", "context_snippet", "extraction_method", "source_field",
			"enrichment_version"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("failed to insert extracted skills: %w", err)
	}
	return nil
}

// GetSkillsForJob retrieves the persisted skills for a job at one enrichment
// version, highest confidence first
func (db *DB) GetSkillsForJob(ctx context.Context, jobID uuid.UUID, enrichmentVersion string) ([]SkillRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, job_posting_id, skill_name, normalized_name, category, confidence,
		        context_snippet, extraction_method, source_field, enrichment_version, created_at
		 FROM extracted_skills
		 WHERE job_posting_id = $1 AND enrichment_version = $2
		 ORDER BY confidence DESC, normalized_name ASC`,
		jobID, enrichmentVersion,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query skills for job: %w", err)
	}
	defer rows.Close()

	var records []SkillRecord
	for rows.Next() {
		var r SkillRecord
		if err := rows.Scan(&r.ID, &r.JobPostingID, &r.SkillName, &r.NormalizedName,
			&r.Category, &r.Confidence, &r.ContextSnippet, &r.ExtractionMethod,
			&r.SourceField, &r.EnrichmentVersion, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan skill record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// TopSkills returns the most frequently extracted normalized skills at one
// enrichment version across all jobs
func (db *DB) TopSkills(ctx context.Context, enrichmentVersion string, limit int) (map[string]int64, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT normalized_name, COUNT(DISTINCT job_posting_id)
		 FROM extracted_skills
		 WHERE enrichment_version = $1
		 GROUP BY normalized_name
		 ORDER BY COUNT(DISTINCT job_posting_id) DESC
		 LIMIT $2`,
		enrichmentVersion, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query top skills: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var name string
		var count int64
		if err := rows.Scan(&name, &count); err != nil {
			return nil, fmt.Errorf("failed to scan top skill: %w", err)
		}
		counts[name] = count
	}
	return counts, rows.Err()
}
