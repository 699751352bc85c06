package extraction

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/job-enricher/internal/llm"
	"github.com/jonathan/job-enricher/internal/types"
)

// entityConfidence is the raw confidence for LLM-extracted entities. The
// model gives no calibrated score, so entities rank below exact lexicon hits.
const entityConfidence = 0.6

// entityCategories is the closed set of categories accepted from the model;
// anything else is treated as not technology-like and dropped
var entityCategories = map[string]bool{
	types.CategoryProgrammingLanguages: true,
	types.CategoryFrameworks:           true,
	types.CategoryDatabases:            true,
	types.CategoryCloudPlatforms:       true,
	types.CategoryDevOps:               true,
	types.CategoryTools:                true,
}

// EntityStrategy extracts technology entities with an LLM, filtered to
// technology-like categories. Optional: only enabled when a client is
// configured.
type EntityStrategy struct {
	client llm.Client
	window int
}

// NewEntityStrategy creates an entity strategy backed by an LLM client
func NewEntityStrategy(client llm.Client, window int) *EntityStrategy {
	if window <= 0 {
		window = DefaultContextWindow
	}
	return &EntityStrategy{client: client, window: window}
}

// Name implements Strategy
func (s *EntityStrategy) Name() string { return StrategyEntity }

// entityResponse mirrors the JSON shape requested from the model
type entityResponse struct {
	Entities []struct {
		Name     string `json:"name"`
		Category string `json:"category"`
	} `json:"entities"`
}

// Match implements Strategy. Provider failures are returned as StrategyError
// so the scorer can skip this strategy and continue.
func (s *EntityStrategy) Match(ctx context.Context, text, _ string) ([]types.SkillCandidate, error) {
	if text == "" || s.client == nil {
		return nil, nil
	}

	prompt := llm.BuildExtractionPrompt(llm.SkillEntitiesSchema(), text)
	raw, err := s.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, &StrategyError{Strategy: StrategyEntity, Cause: err}
	}

	var resp entityResponse
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(raw)), &resp); err != nil {
		return nil, &StrategyError{Strategy: StrategyEntity, Cause: fmt.Errorf("failed to parse entity response: %w", err)}
	}

	seen := make(map[string]bool)
	var candidates []types.SkillCandidate
	for _, entity := range resp.Entities {
		normalized := types.NormalizeSkillText(entity.Name)
		if normalized == "" || !entityCategories[entity.Category] {
			continue
		}
		key := normalized + "|" + entity.Category
		if seen[key] {
			continue
		}
		seen[key] = true

		// The model returns names verbatim, so the context window comes from
		// locating the entity back in the source text
		contextSpan := ""
		if offsets := findOccurrences(text, entity.Name); len(offsets) > 0 {
			contextSpan = ContextSnippet(text, offsets[0], offsets[0]+len(entity.Name), s.window)
		}

		candidates = append(candidates, types.SkillCandidate{
			Text:           entity.Name,
			NormalizedName: normalized,
			Category:       entity.Category,
			RawConfidence:  entityConfidence,
			ContextSpan:    contextSpan,
			SourceStrategy: StrategyEntity,
		})
	}
	return candidates, nil
}
