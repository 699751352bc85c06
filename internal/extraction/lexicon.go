package extraction

import (
	"context"

	"github.com/jonathan/job-enricher/internal/types"
)

const (
	// lexiconBaseConfidence and lexiconPerOccurrence define the raw
	// confidence ramp: min(0.5 + 0.1*occurrences, 1.0). Heuristic defaults,
	// tunable via configuration.
	lexiconBaseConfidence = 0.5
	lexiconPerOccurrence  = 0.1
)

// LexiconStrategy matches a categorized skill vocabulary against the text by
// whole-word substring search
type LexiconStrategy struct {
	vocab  Vocabulary
	window int
}

// NewLexiconStrategy creates a lexicon strategy. A nil vocabulary uses the
// built-in default; window <= 0 uses DefaultContextWindow.
func NewLexiconStrategy(vocab Vocabulary, window int) *LexiconStrategy {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	if window <= 0 {
		window = DefaultContextWindow
	}
	return &LexiconStrategy{vocab: vocab, window: window}
}

// Name implements Strategy
func (s *LexiconStrategy) Name() string { return StrategyLexicon }

// Match returns one candidate per vocabulary term found in text, with raw
// confidence growing with occurrence count and context from the first hit
func (s *LexiconStrategy) Match(_ context.Context, text, _ string) ([]types.SkillCandidate, error) {
	if text == "" {
		return nil, nil
	}

	var candidates []types.SkillCandidate
	for category, terms := range s.vocab {
		for _, term := range terms {
			offsets := findOccurrences(text, term)
			if len(offsets) == 0 {
				continue
			}

			confidence := lexiconBaseConfidence + lexiconPerOccurrence*float64(len(offsets))
			if confidence > 1.0 {
				confidence = 1.0
			}

			first := offsets[0]
			candidates = append(candidates, types.SkillCandidate{
				Text:           text[first : first+len(term)],
				NormalizedName: types.NormalizeSkillText(term),
				Category:       category,
				RawConfidence:  confidence,
				ContextSpan:    ContextSnippet(text, first, first+len(term), s.window),
				SourceStrategy: StrategyLexicon,
			})
		}
	}
	return candidates, nil
}
