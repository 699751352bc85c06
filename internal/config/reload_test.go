package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-enricher/internal/alias"
	"github.com/jonathan/job-enricher/internal/extraction"
	"github.com/jonathan/job-enricher/internal/scoring"
)

func writeTempJSON(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReloader_SwapsAliasTable(t *testing.T) {
	path := writeTempJSON(t, "aliases.json",
		`[{"alias_text": "kube", "canonical_name": "kubernetes", "category": "devops", "source": "manual", "confidence": 0.9}]`)

	index := alias.NewIndex(nil, alias.Options{})
	_, ok := index.Resolve("kube")
	require.False(t, ok)

	reloader := NewReloader(&Config{AliasTablePath: path}, index, nil)
	require.NoError(t, reloader.Reload())

	canonical, ok := index.Resolve("kube")
	require.True(t, ok)
	assert.Equal(t, "kubernetes", canonical)
}

func TestReloader_SwapsCategoryWeights(t *testing.T) {
	path := writeTempJSON(t, "weights.json", `{"programming_languages": 0.5, "general": 0.7}`)

	extractor := scoring.NewExtractor(scoring.Options{
		Strategies: []extraction.Strategy{extraction.NewLexiconStrategy(nil, 0)},
	})
	text := "Requirements:\nExperience with Python required."

	before := extractor.ExtractSkills(context.Background(), "", text)
	require.Len(t, before.Skills, 1)

	reloader := NewReloader(&Config{CategoryWeightsPath: path}, nil, extractor)
	require.NoError(t, reloader.Reload())

	// Halving the programming_languages weight must halve the final score
	after := extractor.ExtractSkills(context.Background(), "", text)
	require.Len(t, after.Skills, 1)
	assert.InDelta(t, before.Skills[0].Confidence/2, after.Skills[0].Confidence, 0.001)
}

func TestReloader_BrokenFileLeavesComponentsUntouched(t *testing.T) {
	path := writeTempJSON(t, "weights.json", `{"programming_languages": 2.0}`)

	extractor := scoring.NewExtractor(scoring.Options{
		Strategies: []extraction.Strategy{extraction.NewLexiconStrategy(nil, 0)},
	})
	text := "Requirements:\nExperience with Python required."

	before := extractor.ExtractSkills(context.Background(), "", text)
	require.Len(t, before.Skills, 1)

	reloader := NewReloader(&Config{CategoryWeightsPath: path}, nil, extractor)
	require.Error(t, reloader.Reload())

	after := extractor.ExtractSkills(context.Background(), "", text)
	require.Len(t, after.Skills, 1)
	assert.Equal(t, before.Skills[0].Confidence, after.Skills[0].Confidence)
}

func TestReloader_NothingConfigured(t *testing.T) {
	reloader := NewReloader(&Config{}, nil, nil)
	assert.NoError(t, reloader.Reload())
}
