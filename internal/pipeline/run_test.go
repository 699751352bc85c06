package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-enricher/internal/clustering"
	"github.com/jonathan/job-enricher/internal/db"
	"github.com/jonathan/job-enricher/internal/ledger"
	"github.com/jonathan/job-enricher/internal/types"
)

const testVersion = "skill_extractor_v2.1"

// fakeLedgerStore backs a real ledger with in-memory jobs and records
type fakeLedgerStore struct {
	jobs     []db.JobPosting
	inserted []db.EnrichmentRecord
}

func (f *fakeLedgerStore) InsertEnrichmentRecord(_ context.Context, rec *db.EnrichmentRecord) (uuid.UUID, error) {
	f.inserted = append(f.inserted, *rec)
	return uuid.New(), nil
}

func (f *fakeLedgerStore) JobsWithoutSuccess(_ context.Context, _, _ string, limit int) ([]db.JobPosting, error) {
	if len(f.jobs) > limit {
		return f.jobs[:limit], nil
	}
	return f.jobs, nil
}

func (f *fakeLedgerStore) JobsWithStaleVersion(_ context.Context, _, _ string, _ int) ([]db.JobPosting, error) {
	return f.jobs, nil
}

func (f *fakeLedgerStore) VersionDistribution(_ context.Context, _ string) ([]db.VersionStat, error) {
	return nil, nil
}

// fakeDataStore records data-row writes and can fail on chosen jobs
type fakeDataStore struct {
	failSkillsFor map[uuid.UUID]bool

	skills      map[uuid.UUID][]types.ExtractedSkill
	sections    map[uuid.UUID][]types.SectionClassification
	embeddings  map[uuid.UUID]*db.JobEmbedding
	assignments []db.ClusterAssignment
	deactivated []uuid.UUID

	cancelOnFirstInsert context.CancelFunc
}

func newFakeDataStore() *fakeDataStore {
	return &fakeDataStore{
		failSkillsFor: make(map[uuid.UUID]bool),
		skills:        make(map[uuid.UUID][]types.ExtractedSkill),
		sections:      make(map[uuid.UUID][]types.SectionClassification),
		embeddings:    make(map[uuid.UUID]*db.JobEmbedding),
	}
}

func (f *fakeDataStore) InsertExtractedSkills(_ context.Context, jobID uuid.UUID, _ string, skills []types.ExtractedSkill) error {
	if f.cancelOnFirstInsert != nil {
		f.cancelOnFirstInsert()
		f.cancelOnFirstInsert = nil
	}
	if f.failSkillsFor[jobID] {
		return errors.New("copy protocol failure")
	}
	f.skills[jobID] = skills
	return nil
}

func (f *fakeDataStore) InsertSectionClassifications(_ context.Context, jobID uuid.UUID, _ string, sections []types.SectionClassification) error {
	f.sections[jobID] = sections
	return nil
}

func (f *fakeDataStore) InsertJobEmbedding(_ context.Context, e *db.JobEmbedding) (uuid.UUID, error) {
	e.ID = uuid.New()
	f.embeddings[e.JobPostingID] = e
	return e.ID, nil
}

func (f *fakeDataStore) GetJobEmbedding(_ context.Context, jobID uuid.UUID, _ string) (*db.JobEmbedding, error) {
	return f.embeddings[jobID], nil
}

func (f *fakeDataStore) InsertClusterAssignment(_ context.Context, a *db.ClusterAssignment) (uuid.UUID, error) {
	a.ID = uuid.New()
	a.IsActive = true
	f.assignments = append(f.assignments, *a)
	return a.ID, nil
}

func (f *fakeDataStore) DeactivatePrevious(_ context.Context, jobID, _ uuid.UUID) error {
	f.deactivated = append(f.deactivated, jobID)
	return nil
}

// fakeExtractor returns a fixed skill list
type fakeExtractor struct {
	result *types.ExtractionResult
}

func (f *fakeExtractor) ExtractSkills(_ context.Context, _, _ string) *types.ExtractionResult {
	if f.result != nil {
		return f.result
	}
	return &types.ExtractionResult{
		Skills: []types.ExtractedSkill{
			{SkillName: "Python", NormalizedName: "python", Category: types.CategoryProgrammingLanguages, Confidence: 0.87},
		},
		Metadata: types.ExtractionMetadata{FinalSkills: 1, TotalMatches: 1},
	}
}

// fakeEmbedder returns a fixed vector
type fakeEmbedder struct {
	vector []float32
}

func (f *fakeEmbedder) EmbedText(_ context.Context, _ string) ([]float32, error) {
	return f.vector, nil
}

func testJob(title string) db.JobPosting {
	summary := title + " role"
	description := "Requirements:\nPython experience."
	return db.JobPosting{ID: uuid.New(), Title: title, Summary: &summary, Description: &description}
}

func TestRun_SkillsBatchWithOneFailure(t *testing.T) {
	jobs := []db.JobPosting{testJob("A"), testJob("B"), testJob("C")}
	ledgerStore := &fakeLedgerStore{jobs: jobs}
	dataStore := newFakeDataStore()
	dataStore.failSkillsFor[jobs[1].ID] = true

	o := NewOrchestrator(Options{
		Ledger:    ledger.New(ledgerStore),
		Store:     dataStore,
		Extractor: &fakeExtractor{},
	})

	summary, err := o.Run(context.Background(), RunOptions{
		Types:    []string{types.EnrichmentTypeSkills},
		Versions: map[string]string{types.EnrichmentTypeSkills: testVersion},
	})
	require.NoError(t, err)

	stats := summary.PerType[types.EnrichmentTypeSkills]
	assert.Equal(t, 3, stats.Selected)
	assert.Equal(t, 2, stats.Succeeded)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 3, summary.Processed())

	// Every job got a ledger row; the failed one carries the error message
	require.Len(t, ledgerStore.inserted, 3)
	var failedRec *db.EnrichmentRecord
	for i := range ledgerStore.inserted {
		if ledgerStore.inserted[i].Status == types.EnrichmentStatusFailed {
			failedRec = &ledgerStore.inserted[i]
		}
	}
	require.NotNil(t, failedRec)
	assert.Equal(t, jobs[1].ID, failedRec.JobPostingID)
	require.NotNil(t, failedRec.ErrorMessage)
	assert.Contains(t, *failedRec.ErrorMessage, "copy protocol failure")

	// Data rows exist only for the successes
	assert.Len(t, dataStore.skills, 2)
	assert.NotContains(t, dataStore.skills, jobs[1].ID)
}

func TestRun_PartialWhenStrategiesFailed(t *testing.T) {
	jobs := []db.JobPosting{testJob("A")}
	ledgerStore := &fakeLedgerStore{jobs: jobs}

	o := NewOrchestrator(Options{
		Ledger: ledger.New(ledgerStore),
		Store:  newFakeDataStore(),
		Extractor: &fakeExtractor{result: &types.ExtractionResult{
			Skills:   []types.ExtractedSkill{{SkillName: "Go", NormalizedName: "go", Category: types.CategoryProgrammingLanguages, Confidence: 0.6}},
			Metadata: types.ExtractionMetadata{FinalSkills: 1, FailedStrategies: []string{"entity"}},
		}},
	})

	summary, err := o.Run(context.Background(), RunOptions{
		Types:    []string{types.EnrichmentTypeSkills},
		Versions: map[string]string{types.EnrichmentTypeSkills: testVersion},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.PerType[types.EnrichmentTypeSkills].Partial)
	require.Len(t, ledgerStore.inserted, 1)
	assert.Equal(t, types.EnrichmentStatusPartial, ledgerStore.inserted[0].Status)
}

func TestRun_ValidatesOptions(t *testing.T) {
	o := NewOrchestrator(Options{Ledger: ledger.New(&fakeLedgerStore{}), Store: newFakeDataStore()})
	ctx := context.Background()

	_, err := o.Run(ctx, RunOptions{})
	assert.ErrorContains(t, err, "no enrichment types")

	_, err = o.Run(ctx, RunOptions{Types: []string{"sentiment"}})
	assert.ErrorContains(t, err, "unknown enrichment type")

	_, err = o.Run(ctx, RunOptions{Types: []string{types.EnrichmentTypeSkills}})
	assert.ErrorContains(t, err, "no enrichment version")
}

func TestRun_StopsAfterCancellation(t *testing.T) {
	jobs := []db.JobPosting{testJob("A"), testJob("B"), testJob("C")}
	ledgerStore := &fakeLedgerStore{jobs: jobs}
	dataStore := newFakeDataStore()

	ctx, cancel := context.WithCancel(context.Background())
	dataStore.cancelOnFirstInsert = cancel

	o := NewOrchestrator(Options{
		Ledger:    ledger.New(ledgerStore),
		Store:     dataStore,
		Extractor: &fakeExtractor{},
	})

	_, err := o.Run(ctx, RunOptions{
		Types:    []string{types.EnrichmentTypeSkills},
		Versions: map[string]string{types.EnrichmentTypeSkills: testVersion},
	})
	require.ErrorIs(t, err, context.Canceled)

	// The in-flight job finished and was recorded; the rest were skipped
	assert.Len(t, ledgerStore.inserted, 1)
}

func TestRun_SectionClassification(t *testing.T) {
	jobs := []db.JobPosting{testJob("A")}
	ledgerStore := &fakeLedgerStore{jobs: jobs}
	dataStore := newFakeDataStore()

	o := NewOrchestrator(Options{Ledger: ledger.New(ledgerStore), Store: dataStore})

	version := "section_classifier_v1.0"
	summary, err := o.Run(context.Background(), RunOptions{
		Types:    []string{types.EnrichmentTypeSectionClassification},
		Versions: map[string]string{types.EnrichmentTypeSectionClassification: version},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.PerType[types.EnrichmentTypeSectionClassification].Succeeded)

	stored := dataStore.sections[jobs[0].ID]
	require.NotEmpty(t, stored)
	for _, s := range stored {
		assert.Equal(t, jobs[0].ID, s.JobPostingID)
	}
}

func TestRun_EmbeddingNormalizedBeforePersist(t *testing.T) {
	jobs := []db.JobPosting{testJob("A")}
	ledgerStore := &fakeLedgerStore{jobs: jobs}
	dataStore := newFakeDataStore()

	o := NewOrchestrator(Options{
		Ledger:         ledger.New(ledgerStore),
		Store:          dataStore,
		Embedder:       &fakeEmbedder{vector: []float32{3, 4}},
		EmbeddingModel: "text-embedding-004",
	})

	version := "job_embedder_v1.0"
	_, err := o.Run(context.Background(), RunOptions{
		Types:    []string{types.EnrichmentTypeEmbeddings},
		Versions: map[string]string{types.EnrichmentTypeEmbeddings: version},
	})
	require.NoError(t, err)

	stored := dataStore.embeddings[jobs[0].ID]
	require.NotNil(t, stored)
	vec := stored.Vector.Slice()
	require.Len(t, vec, 2)
	assert.InDelta(t, 0.6, vec[0], 0.001)
	assert.InDelta(t, 0.8, vec[1], 0.001)
	assert.Equal(t, db.EmbeddingFieldCombined, stored.Field)
	assert.Equal(t, "text-embedding-004", stored.ModelVersion)
}

func TestRun_ClusteringAssignsAndDeactivates(t *testing.T) {
	jobs := []db.JobPosting{testJob("A")}
	ledgerStore := &fakeLedgerStore{jobs: jobs}
	dataStore := newFakeDataStore()
	dataStore.embeddings[jobs[0].ID] = &db.JobEmbedding{
		JobPostingID: jobs[0].ID,
		Field:        db.EmbeddingFieldCombined,
		Vector:       pgvector.NewVector([]float32{1, 0, 0}),
	}

	assigner := clustering.NewAssigner([]clustering.Centroid{
		{ID: "backend", Vector: []float32{1, 0, 0}},
	}, 0.7)

	o := NewOrchestrator(Options{
		Ledger:   ledger.New(ledgerStore),
		Store:    dataStore,
		Assigner: assigner,
	})

	version := "job_clusterer_v1.0"
	summary, err := o.Run(context.Background(), RunOptions{
		Types:    []string{types.EnrichmentTypeClustering},
		Versions: map[string]string{types.EnrichmentTypeClustering: version},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.PerType[types.EnrichmentTypeClustering].Succeeded)

	require.Len(t, dataStore.assignments, 1)
	assert.Equal(t, "backend", dataStore.assignments[0].ClusterID)
	assert.Equal(t, []uuid.UUID{jobs[0].ID}, dataStore.deactivated)
}

func TestRun_ClusteringBelowThresholdStaysUnassigned(t *testing.T) {
	jobs := []db.JobPosting{testJob("A")}
	ledgerStore := &fakeLedgerStore{jobs: jobs}
	dataStore := newFakeDataStore()
	dataStore.embeddings[jobs[0].ID] = &db.JobEmbedding{
		JobPostingID: jobs[0].ID,
		Vector:       pgvector.NewVector([]float32{0, 0, 1}),
	}

	assigner := clustering.NewAssigner([]clustering.Centroid{
		{ID: "backend", Vector: []float32{1, 0, 0}},
	}, 0.7)

	o := NewOrchestrator(Options{
		Ledger:   ledger.New(ledgerStore),
		Store:    dataStore,
		Assigner: assigner,
	})

	version := "job_clusterer_v1.0"
	_, err := o.Run(context.Background(), RunOptions{
		Types:    []string{types.EnrichmentTypeClustering},
		Versions: map[string]string{types.EnrichmentTypeClustering: version},
	})
	require.NoError(t, err)

	assert.Empty(t, dataStore.assignments)
	require.Len(t, ledgerStore.inserted, 1)
	assert.Equal(t, types.EnrichmentStatusSuccess, ledgerStore.inserted[0].Status)
	assert.Equal(t, false, ledgerStore.inserted[0].Metadata["assigned"])
}

func TestRun_ClusteringWithoutEmbeddingFails(t *testing.T) {
	jobs := []db.JobPosting{testJob("A")}
	ledgerStore := &fakeLedgerStore{jobs: jobs}

	o := NewOrchestrator(Options{
		Ledger:   ledger.New(ledgerStore),
		Store:    newFakeDataStore(),
		Assigner: clustering.NewAssigner([]clustering.Centroid{{ID: "x", Vector: []float32{1}}}, 0.7),
	})

	version := "job_clusterer_v1.0"
	summary, err := o.Run(context.Background(), RunOptions{
		Types:    []string{types.EnrichmentTypeClustering},
		Versions: map[string]string{types.EnrichmentTypeClustering: version},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.PerType[types.EnrichmentTypeClustering].Failed)
	require.Len(t, ledgerStore.inserted, 1)
	require.NotNil(t, ledgerStore.inserted[0].ErrorMessage)
	assert.Contains(t, *ledgerStore.inserted[0].ErrorMessage, "no combined embedding")
}
