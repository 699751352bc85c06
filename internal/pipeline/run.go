// Package pipeline provides the high-level orchestration for batch enrichment
// runs: selecting work through the ledger, processing jobs one at a time, and
// recording every outcome as an append-only ledger row.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/job-enricher/internal/clustering"
	"github.com/jonathan/job-enricher/internal/db"
	"github.com/jonathan/job-enricher/internal/embedding"
	"github.com/jonathan/job-enricher/internal/ledger"
	"github.com/jonathan/job-enricher/internal/sections"
	"github.com/jonathan/job-enricher/internal/types"
)

// SkillExtractor produces the scored skill list for one job posting.
// *scoring.Extractor satisfies it.
type SkillExtractor interface {
	ExtractSkills(ctx context.Context, summary, description string) *types.ExtractionResult
}

// DataStore is the persistence surface for enrichment data rows. Ledger rows
// go through the ledger, everything else through here. *db.DB satisfies it.
type DataStore interface {
	InsertExtractedSkills(ctx context.Context, jobID uuid.UUID, enrichmentVersion string, skills []types.ExtractedSkill) error
	InsertSectionClassifications(ctx context.Context, jobID uuid.UUID, enrichmentVersion string, sections []types.SectionClassification) error
	InsertJobEmbedding(ctx context.Context, e *db.JobEmbedding) (uuid.UUID, error)
	GetJobEmbedding(ctx context.Context, jobID uuid.UUID, field string) (*db.JobEmbedding, error)
	InsertClusterAssignment(ctx context.Context, a *db.ClusterAssignment) (uuid.UUID, error)
	DeactivatePrevious(ctx context.Context, jobID, keepID uuid.UUID) error
}

// Orchestrator runs enrichment batches
type Orchestrator struct {
	ledger     *ledger.Ledger
	store      DataStore
	extractor  SkillExtractor
	classifier *sections.Classifier

	// Optional providers; their enrichment types fail fast when unset
	embedder embedding.Embedder
	assigner *clustering.Assigner

	embeddingModel string
}

// Options configures an Orchestrator
type Options struct {
	Ledger     *ledger.Ledger
	Store      DataStore
	Extractor  SkillExtractor
	Classifier *sections.Classifier
	Embedder   embedding.Embedder
	Assigner   *clustering.Assigner
	// EmbeddingModel is recorded on persisted embedding rows
	EmbeddingModel string
}

// NewOrchestrator creates an orchestrator from its collaborators
func NewOrchestrator(opts Options) *Orchestrator {
	classifier := opts.Classifier
	if classifier == nil {
		classifier = sections.NewClassifier(sections.Options{})
	}
	return &Orchestrator{
		ledger:         opts.Ledger,
		store:          opts.Store,
		extractor:      opts.Extractor,
		classifier:     classifier,
		embedder:       opts.Embedder,
		assigner:       opts.Assigner,
		embeddingModel: opts.EmbeddingModel,
	}
}

// RunOptions holds configuration for one batch run
type RunOptions struct {
	// Types to run; each needs an entry in Versions
	Types []string
	// Versions maps enrichment type to the enrichment version to stamp
	Versions map[string]string
	// BatchSize bounds how many jobs are selected per type; zero uses the
	// ledger default
	BatchSize int
	// Reenrich selects jobs enriched at older versions instead of
	// never-enriched jobs
	Reenrich bool
}

// TypeStats summarizes outcomes for one enrichment type in a run
type TypeStats struct {
	Selected  int
	Succeeded int
	Partial   int
	Failed    int
}

// RunSummary is the outcome of one batch run
type RunSummary struct {
	PerType  map[string]*TypeStats
	Duration time.Duration
}

// Processed returns the total number of jobs processed across all types
func (s *RunSummary) Processed() int {
	total := 0
	for _, stats := range s.PerType {
		total += stats.Succeeded + stats.Partial + stats.Failed
	}
	return total
}

// Run executes one bounded enrichment batch. Types run concurrently, jobs
// within a type sequentially. A job failure is recorded and skipped; only
// infrastructure failures (ledger writes, work selection) abort the run.
// Cancelling ctx stops each type after its in-flight job.
func (o *Orchestrator) Run(ctx context.Context, opts RunOptions) (*RunSummary, error) {
	if len(opts.Types) == 0 {
		return nil, fmt.Errorf("no enrichment types requested")
	}
	for _, enrichmentType := range opts.Types {
		if !types.ValidEnrichmentType(enrichmentType) {
			return nil, fmt.Errorf("unknown enrichment type %q", enrichmentType)
		}
		if opts.Versions[enrichmentType] == "" {
			return nil, fmt.Errorf("no enrichment version for type %q", enrichmentType)
		}
	}

	start := time.Now()
	summary := &RunSummary{PerType: make(map[string]*TypeStats, len(opts.Types))}
	for _, enrichmentType := range opts.Types {
		summary.PerType[enrichmentType] = &TypeStats{}
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, enrichmentType := range opts.Types {
		enrichmentType := enrichmentType
		g.Go(func() error {
			return o.runType(gctx, enrichmentType, opts, summary.PerType[enrichmentType])
		})
	}
	if err := g.Wait(); err != nil {
		return summary, err
	}

	summary.Duration = time.Since(start)
	return summary, nil
}

// runType processes one batch for a single enrichment type
func (o *Orchestrator) runType(ctx context.Context, enrichmentType string, opts RunOptions, stats *TypeStats) error {
	version := opts.Versions[enrichmentType]

	var jobs []db.JobPosting
	var err error
	if opts.Reenrich {
		jobs, err = o.ledger.JobsNeedingReenrichment(ctx, enrichmentType, version, opts.BatchSize)
	} else {
		jobs, err = o.ledger.JobsNeedingEnrichment(ctx, enrichmentType, version, opts.BatchSize)
	}
	if err != nil {
		return fmt.Errorf("failed to select jobs for %s: %w", enrichmentType, err)
	}
	stats.Selected = len(jobs)

	for i := range jobs {
		// Coarse cancellation: finish the in-flight job, skip the rest
		if ctx.Err() != nil {
			return ctx.Err()
		}

		job := &jobs[i]
		metadata, procErr := o.processJob(ctx, enrichmentType, version, job)

		rec := &db.EnrichmentRecord{
			JobPostingID:      job.ID,
			EnrichmentType:    enrichmentType,
			EnrichmentVersion: version,
			Metadata:          metadata,
		}
		switch {
		case procErr != nil:
			msg := procErr.Error()
			rec.Status = types.EnrichmentStatusFailed
			rec.ErrorMessage = &msg
			stats.Failed++
		case partialOutcome(metadata):
			rec.Status = types.EnrichmentStatusPartial
			stats.Partial++
		default:
			rec.Status = types.EnrichmentStatusSuccess
			stats.Succeeded++
		}

		if _, err := o.ledger.LogEnrichment(ctx, rec); err != nil {
			return fmt.Errorf("failed to record outcome for job %s: %w", job.ID, err)
		}
	}
	return nil
}

// processJob runs one enrichment type end to end for one job. The returned
// metadata lands on the ledger row either way.
func (o *Orchestrator) processJob(ctx context.Context, enrichmentType, version string, job *db.JobPosting) (map[string]any, error) {
	switch enrichmentType {
	case types.EnrichmentTypeSkills:
		return o.processSkills(ctx, version, job)
	case types.EnrichmentTypeSectionClassification:
		return o.processSections(ctx, version, job)
	case types.EnrichmentTypeEmbeddings:
		return o.processEmbedding(ctx, version, job)
	case types.EnrichmentTypeClustering:
		return o.processClustering(ctx, version, job)
	}
	return nil, fmt.Errorf("unknown enrichment type %q", enrichmentType)
}

func (o *Orchestrator) processSkills(ctx context.Context, version string, job *db.JobPosting) (map[string]any, error) {
	if o.extractor == nil {
		return nil, fmt.Errorf("no skill extractor configured")
	}

	result := o.extractor.ExtractSkills(ctx, job.SummaryText(), job.DescriptionText())
	if err := o.store.InsertExtractedSkills(ctx, job.ID, version, result.Skills); err != nil {
		return nil, err
	}

	metadata := map[string]any{
		"final_skills":     result.Metadata.FinalSkills,
		"total_matches":    result.Metadata.TotalMatches,
		"filtered_matches": result.Metadata.FilteredMatches,
	}
	if len(result.Metadata.FailedStrategies) > 0 {
		metadata["failed_strategies"] = result.Metadata.FailedStrategies
	}
	return metadata, nil
}

func (o *Orchestrator) processSections(ctx context.Context, version string, job *db.JobPosting) (map[string]any, error) {
	classified := o.classifier.ClassifySections(job.DescriptionText())
	for i := range classified {
		classified[i].JobPostingID = job.ID
	}
	if err := o.store.InsertSectionClassifications(ctx, job.ID, version, classified); err != nil {
		return nil, err
	}
	return map[string]any{"sections": len(classified)}, nil
}

func (o *Orchestrator) processEmbedding(ctx context.Context, version string, job *db.JobPosting) (map[string]any, error) {
	if o.embedder == nil {
		return nil, fmt.Errorf("no embedder configured")
	}

	field, text := embeddingInput(job)
	if text == "" {
		return nil, fmt.Errorf("job has no text to embed")
	}

	vector, err := o.embedder.EmbedText(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed job text: %w", err)
	}

	_, err = o.store.InsertJobEmbedding(ctx, &db.JobEmbedding{
		JobPostingID:      job.ID,
		Field:             field,
		Vector:            pgvector.NewVector(embedding.NormalizeVector(vector)),
		ModelVersion:      o.embeddingModel,
		EnrichmentVersion: version,
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{"field": field, "dimensions": len(vector)}, nil
}

func (o *Orchestrator) processClustering(ctx context.Context, version string, job *db.JobPosting) (map[string]any, error) {
	if o.assigner == nil {
		return nil, fmt.Errorf("no cluster assigner configured")
	}

	field, _ := embeddingInput(job)
	emb, err := o.store.GetJobEmbedding(ctx, job.ID, field)
	if err != nil {
		return nil, err
	}
	if emb == nil {
		return nil, fmt.Errorf("no %s embedding for job; run the embeddings enrichment first", field)
	}

	assignment, ok := o.assigner.Assign(emb.Vector.Slice())
	if !ok {
		// Too far from every centroid: the job legitimately has no cluster
		return map[string]any{"assigned": false}, nil
	}

	id, err := o.store.InsertClusterAssignment(ctx, &db.ClusterAssignment{
		JobPostingID:      job.ID,
		ClusterID:         assignment.ClusterID,
		Similarity:        assignment.Similarity,
		EnrichmentVersion: version,
	})
	if err != nil {
		return nil, err
	}
	if err := o.store.DeactivatePrevious(ctx, job.ID, id); err != nil {
		return nil, err
	}
	return map[string]any{
		"assigned":   true,
		"cluster_id": assignment.ClusterID,
		"similarity": assignment.Similarity,
	}, nil
}

// embeddingInput picks which posting text feeds the embedder: the combined
// field when both texts exist, otherwise whichever one does
func embeddingInput(job *db.JobPosting) (field, text string) {
	summary := job.SummaryText()
	description := job.DescriptionText()
	switch {
	case summary != "" && description != "":
		return db.EmbeddingFieldCombined, summary + "\n\n" + description
	case description != "":
		return db.EmbeddingFieldDescription, description
	default:
		return db.EmbeddingFieldSummary, summary
	}
}

// partialOutcome reports whether a metadata map describes a degraded but
// usable result, e.g. a skills run where some strategies failed
func partialOutcome(metadata map[string]any) bool {
	if metadata == nil {
		return false
	}
	_, ok := metadata["failed_strategies"]
	return ok
}
