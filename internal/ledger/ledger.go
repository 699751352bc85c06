// Package ledger implements the append-only enrichment ledger: recording
// enrichment attempts and selecting the jobs that still need work.
package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/job-enricher/internal/db"
	"github.com/jonathan/job-enricher/internal/types"
)

// DefaultBatchLimit bounds work selection when no limit is given
const DefaultBatchLimit = 100

// Store is the persistence surface the ledger needs. *db.DB satisfies it.
type Store interface {
	InsertEnrichmentRecord(ctx context.Context, rec *db.EnrichmentRecord) (uuid.UUID, error)
	JobsWithoutSuccess(ctx context.Context, enrichmentType, enrichmentVersion string, limit int) ([]db.JobPosting, error)
	JobsWithStaleVersion(ctx context.Context, enrichmentType, targetVersion string, limit int) ([]db.JobPosting, error)
	VersionDistribution(ctx context.Context, enrichmentType string) ([]db.VersionStat, error)
}

// Ledger records enrichment outcomes and plans enrichment work
type Ledger struct {
	store Store
}

// New creates a ledger over the given store
func New(store Store) *Ledger {
	return &Ledger{store: store}
}

// LogEnrichment appends one outcome row. Rows are validated before insert:
// the ledger is the system's audit trail and malformed rows would poison
// every later version query.
func (l *Ledger) LogEnrichment(ctx context.Context, rec *db.EnrichmentRecord) (uuid.UUID, error) {
	if rec.JobPostingID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("enrichment record missing job posting id")
	}
	if !types.ValidEnrichmentType(rec.EnrichmentType) {
		return uuid.Nil, fmt.Errorf("unknown enrichment type %q", rec.EnrichmentType)
	}
	if rec.EnrichmentVersion == "" {
		return uuid.Nil, fmt.Errorf("enrichment record missing enrichment version")
	}
	switch rec.Status {
	case types.EnrichmentStatusSuccess, types.EnrichmentStatusPartial:
	case types.EnrichmentStatusFailed:
		if rec.ErrorMessage == nil || *rec.ErrorMessage == "" {
			return uuid.Nil, fmt.Errorf("failed enrichment record missing error message")
		}
	default:
		return uuid.Nil, fmt.Errorf("unknown enrichment status %q", rec.Status)
	}

	id, err := l.store.InsertEnrichmentRecord(ctx, rec)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to log enrichment: %w", err)
	}
	return id, nil
}

// JobsNeedingEnrichment selects jobs with no successful enrichment of the
// given type, most recently posted first. An empty version excludes jobs with
// a success row at any version; a non-empty version only excludes jobs
// succeeded at exactly that version.
func (l *Ledger) JobsNeedingEnrichment(ctx context.Context, enrichmentType, enrichmentVersion string, limit int) ([]db.JobPosting, error) {
	if !types.ValidEnrichmentType(enrichmentType) {
		return nil, fmt.Errorf("unknown enrichment type %q", enrichmentType)
	}
	if limit <= 0 {
		limit = DefaultBatchLimit
	}
	return l.store.JobsWithoutSuccess(ctx, enrichmentType, enrichmentVersion, limit)
}

// JobsNeedingReenrichment selects jobs lacking a success row at exactly the
// target version: never enriched, enriched at another version, or enriched
// but failed. The target version is the point of the operation, so it is
// required.
func (l *Ledger) JobsNeedingReenrichment(ctx context.Context, enrichmentType, targetVersion string, limit int) ([]db.JobPosting, error) {
	if !types.ValidEnrichmentType(enrichmentType) {
		return nil, fmt.Errorf("unknown enrichment type %q", enrichmentType)
	}
	if targetVersion == "" {
		return nil, fmt.Errorf("re-enrichment requires a target version")
	}
	if limit <= 0 {
		limit = DefaultBatchLimit
	}
	return l.store.JobsWithStaleVersion(ctx, enrichmentType, targetVersion, limit)
}

// NeedsReprocessing reports whether a job's latest ledger row warrants another
// run against the target version. Pure decision logic: a missing record, a
// non-success status, or a version mismatch all mean reprocess.
func NeedsReprocessing(record *db.EnrichmentRecord, targetVersion string) bool {
	if record == nil {
		return true
	}
	if record.Status != types.EnrichmentStatusSuccess {
		return true
	}
	return record.EnrichmentVersion != targetVersion
}

// VersionDistribution reports per-version outcome counts for one enrichment
// type
func (l *Ledger) VersionDistribution(ctx context.Context, enrichmentType string) ([]db.VersionStat, error) {
	if !types.ValidEnrichmentType(enrichmentType) {
		return nil, fmt.Errorf("unknown enrichment type %q", enrichmentType)
	}
	stats, err := l.store.VersionDistribution(ctx, enrichmentType)
	if err != nil {
		return nil, fmt.Errorf("failed to get version distribution: %w", err)
	}
	return stats, nil
}
