package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewModelConfig_Valid(t *testing.T) {
	cfg, err := NewModelConfig("skills_extractor", "v1.2", ModelTypeSkillsExtraction,
		map[string]float64{"precision": 0.91, "recall": 0.84}, true)
	require.NoError(t, err)

	assert.Equal(t, "skills_extractor", cfg.ModelID)
	assert.Equal(t, "v1.2", cfg.Version)
	assert.True(t, cfg.IsActive)
	assert.False(t, cfg.CreatedAt.IsZero())
	assert.False(t, cfg.UpdatedAt.Before(cfg.CreatedAt))
}

func TestNewModelConfig_VersionSuffix(t *testing.T) {
	cfg, err := NewModelConfig("embedder", "v2.0-beta", ModelTypeEmbeddings, nil, false)
	require.NoError(t, err)
	assert.Equal(t, "embedder_v2.0-beta", cfg.EnrichmentVersion())
}

func TestNewModelConfig_InvalidVersion(t *testing.T) {
	cases := []string{"1.0", "v1", "V1.0", "v1.0-BETA", "v1.0.0", ""}
	for _, version := range cases {
		_, err := NewModelConfig("embedder", version, ModelTypeEmbeddings, nil, true)
		assert.Error(t, err, "version %q should be rejected", version)
	}
}

func TestNewModelConfig_InvalidModelID(t *testing.T) {
	cases := []string{"", "Skills", "skills-extractor", "skills2", "skills extractor"}
	for _, id := range cases {
		_, err := NewModelConfig(id, "v1.0", ModelTypeSkillsExtraction, nil, true)
		assert.Error(t, err, "model_id %q should be rejected", id)
	}
}

func TestNewModelConfig_InvalidModelType(t *testing.T) {
	_, err := NewModelConfig("embedder", "v1.0", "sentiment", nil, true)
	assert.Error(t, err)
}

func TestNewModelConfig_MetricOutOfRange(t *testing.T) {
	_, err := NewModelConfig("embedder", "v1.0", ModelTypeEmbeddings,
		map[string]float64{"precision": 1.2}, true)
	assert.Error(t, err)

	_, err = NewModelConfig("embedder", "v1.0", ModelTypeEmbeddings,
		map[string]float64{"recall": -0.1}, true)
	assert.Error(t, err)
}

func TestModelConfig_JSONRoundTrip(t *testing.T) {
	original, err := NewModelConfig("section_classifier", "v3.1-rc1", ModelTypeSectionClassification,
		map[string]float64{"f1": 0.77}, true)
	require.NoError(t, err)

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded ModelConfig
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, original.ModelID, decoded.ModelID)
	assert.Equal(t, original.Version, decoded.Version)
	assert.Equal(t, original.ModelType, decoded.ModelType)
	assert.Equal(t, original.PerformanceMetrics, decoded.PerformanceMetrics)
	assert.Equal(t, original.IsActive, decoded.IsActive)
	assert.True(t, original.CreatedAt.Equal(decoded.CreatedAt))
	assert.True(t, original.UpdatedAt.Equal(decoded.UpdatedAt))
}

func TestModelConfig_UnmarshalRejectsInvalidVersion(t *testing.T) {
	payload := `{"model_id":"embedder","version":"1.0","model_type":"embeddings","is_active":true}`
	var cfg ModelConfig
	err := json.Unmarshal([]byte(payload), &cfg)
	assert.Error(t, err, "missing v prefix should be rejected at decode time")
}

func TestModelConfig_ValidateTimestampOrder(t *testing.T) {
	cfg, err := NewModelConfig("embedder", "v1.0", ModelTypeEmbeddings, nil, true)
	require.NoError(t, err)

	cfg.UpdatedAt = cfg.CreatedAt.Add(-time.Hour)
	assert.Error(t, cfg.Validate())
}
