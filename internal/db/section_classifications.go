package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/job-enricher/internal/types"
)

// InsertSectionClassifications batch-inserts the classified sections for one
// job posting under one enrichment version
func (db *DB) InsertSectionClassifications(ctx context.Context, jobID uuid.UUID, enrichmentVersion string, sections []types.SectionClassification) error {
	if len(sections) == 0 {
		return nil
	}

	rows := make([][]any, 0, len(sections))
	for _, s := range sections {
		rows = append(rows, []any{
			jobID, s.Header, s.SectionText, s.Index, s.IsSkillsRelevant,
			s.RelevanceProbability, s.ClassifierVersion, s.Method, enrichmentVersion,
		})
	}

	_, err := db.pool.CopyFrom(ctx,
		pgx.Identifier{"section_classifications"},
		[]string{"job_posting_id", "header", "section_text", "section_index",
			"is_skills_relevant", "relevance_probability", "classifier_version",
			"method", "enrichment_version"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("failed to insert section classifications: %w", err)
	}
	return nil
}

// GetSectionsForJob retrieves the classified sections for a job at one
// enrichment version, most relevant first
func (db *DB) GetSectionsForJob(ctx context.Context, jobID uuid.UUID, enrichmentVersion string) ([]types.SectionClassification, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT job_posting_id, header, section_text, section_index, is_skills_relevant,
		        relevance_probability, classifier_version, method
		 FROM section_classifications
		 WHERE job_posting_id = $1 AND enrichment_version = $2
		 ORDER BY relevance_probability DESC, section_index ASC`,
		jobID, enrichmentVersion,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query sections for job: %w", err)
	}
	defer rows.Close()

	var sections []types.SectionClassification
	for rows.Next() {
		var s types.SectionClassification
		if err := rows.Scan(&s.JobPostingID, &s.Header, &s.SectionText, &s.Index,
			&s.IsSkillsRelevant, &s.RelevanceProbability, &s.ClassifierVersion,
			&s.Method); err != nil {
			return nil, fmt.Errorf("failed to scan section classification: %w", err)
		}
		sections = append(sections, s)
	}
	return sections, rows.Err()
}
