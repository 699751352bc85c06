package scoring

import (
	"context"
	"errors"
	"testing"

	"github.com/jonathan/job-enricher/internal/extraction"
	"github.com/jonathan/job-enricher/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingStrategy always errors, standing in for a broken provider
type failingStrategy struct{}

func (failingStrategy) Name() string { return "broken" }

func (failingStrategy) Match(_ context.Context, _, _ string) ([]types.SkillCandidate, error) {
	return nil, errors.New("provider down")
}

func defaultExtractor(extra ...extraction.Strategy) *Extractor {
	strategies := []extraction.Strategy{
		extraction.NewLexiconStrategy(nil, 0),
		extraction.NewPatternStrategy(nil, 0),
	}
	strategies = append(strategies, extra...)
	return NewExtractor(Options{Strategies: strategies})
}

func findSkill(skills []types.ExtractedSkill, normalized string) *types.ExtractedSkill {
	for i := range skills {
		if skills[i].NormalizedName == normalized {
			return &skills[i]
		}
	}
	return nil
}

func TestExtractSkills_MergesAcrossStrategies(t *testing.T) {
	e := defaultExtractor()
	description := "Must have 5+ years of Python experience. Strong Python skills required."

	result := e.ExtractSkills(context.Background(), "", description)
	require.NotNil(t, result)

	python := findSkill(result.Skills, "python")
	require.NotNil(t, python)
	assert.Equal(t, types.CategoryProgrammingLanguages, python.Category)
	assert.Equal(t, "lexicon+pattern", python.ExtractionMethod)
	assert.GreaterOrEqual(t, python.Confidence, 0.5)
	assert.LessOrEqual(t, python.Confidence, 1.0)
	assert.Contains(t, python.ContextSnippet, "Python")
	assert.Equal(t, FieldDescription, python.SourceField)
	assert.Empty(t, result.Metadata.FailedStrategies)
}

func TestExtractSkills_SectionRelevanceWeighting(t *testing.T) {
	e := defaultExtractor()
	description := "Requirements:\nPython expertise.\n\nBenefits:\nJava lessons for your kids."

	result := e.ExtractSkills(context.Background(), "", description)

	python := findSkill(result.Skills, "python")
	require.NotNil(t, python)
	java := findSkill(result.Skills, "java")
	require.NotNil(t, java)

	// Same raw lexicon confidence, but the requirements section multiplies
	// relevance up while the benefits section suppresses it. The weights are
	// tunable configuration, so assert the ordering rather than exact values.
	assert.Greater(t, python.Confidence, java.Confidence)
	assert.LessOrEqual(t, python.Confidence, 1.0)
	assert.GreaterOrEqual(t, java.Confidence, 0.0)
}

func TestExtractSkills_FiltersBelowThreshold(t *testing.T) {
	e := NewExtractor(Options{
		Strategies: []extraction.Strategy{extraction.NewLexiconStrategy(nil, 0)},
	})
	description := "Perks:\nCommunication workshops."

	result := e.ExtractSkills(context.Background(), "", description)

	// soft skill in a perks section: 0.6 raw × 0.6 weight × 0.6 relevance
	// multiplier lands well under the 0.3 floor
	assert.Nil(t, findSkill(result.Skills, "communication"))
	assert.Equal(t, 1, result.Metadata.FilteredMatches)
	assert.Equal(t, 0, result.Metadata.FinalSkills)
}

func TestExtractSkills_SummaryIsNeutralRelevance(t *testing.T) {
	e := NewExtractor(Options{
		Strategies: []extraction.Strategy{extraction.NewLexiconStrategy(nil, 0)},
	})

	result := e.ExtractSkills(context.Background(), "Senior Rust engineer", "")

	rust := findSkill(result.Skills, "rust")
	require.NotNil(t, rust)
	assert.Equal(t, FieldSummary, rust.SourceField)

	// Neutral relevance sits between a skills-heavy section and a
	// boilerplate one
	relevant := findSkill(e.ExtractSkills(context.Background(), "", "Requirements:\nRust expertise.").Skills, "rust")
	require.NotNil(t, relevant)
	assert.Greater(t, relevant.Confidence, rust.Confidence)

	boilerplate := e.ExtractSkills(context.Background(), "", "Benefits:\nRust workshops.")
	if irrelevant := findSkill(boilerplate.Skills, "rust"); irrelevant != nil {
		assert.Less(t, irrelevant.Confidence, rust.Confidence)
	}
}

func TestExtractSkills_FailedStrategyIsRecorded(t *testing.T) {
	e := defaultExtractor(failingStrategy{})

	result := e.ExtractSkills(context.Background(), "", "Requirements:\nPython and Docker.")

	require.NotNil(t, findSkill(result.Skills, "python"))
	require.NotNil(t, findSkill(result.Skills, "docker"))
	assert.Equal(t, []string{"broken"}, result.Metadata.FailedStrategies)
}

func TestExtractSkills_EmptyInput(t *testing.T) {
	e := defaultExtractor()

	result := e.ExtractSkills(context.Background(), "", "")
	require.NotNil(t, result)
	assert.Empty(t, result.Skills)
	assert.Equal(t, 0, result.Metadata.TotalMatches)
}

func TestExtractSkills_SortedByConfidence(t *testing.T) {
	e := defaultExtractor()
	description := "Requirements:\nPython required.\n\nAbout us:\nWe like Git."

	result := e.ExtractSkills(context.Background(), "", description)
	require.GreaterOrEqual(t, len(result.Skills), 2)
	for i := 1; i < len(result.Skills); i++ {
		assert.GreaterOrEqual(t, result.Skills[i-1].Confidence, result.Skills[i].Confidence)
	}
}

func TestExtractSkills_MetadataFlags(t *testing.T) {
	result := defaultExtractor().ExtractSkills(context.Background(), "", "Python shop.")

	assert.Equal(t, DefaultExtractorVersion, result.Metadata.ExtractorVersion)
	assert.True(t, result.Metadata.PatternsEnabled)
	assert.False(t, result.Metadata.SemanticEnabled)
	assert.False(t, result.Metadata.EnhancedMode)
	assert.Equal(t, DefaultMinConfidence, result.Metadata.ConfidenceThreshold)
}

func TestDefaultCategoryWeights_Ranges(t *testing.T) {
	for category, weight := range DefaultCategoryWeights() {
		assert.GreaterOrEqual(t, weight, 0.0, category)
		assert.LessOrEqual(t, weight, 1.0, category)
	}
}
