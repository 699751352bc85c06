package extraction

import (
	"context"
	"fmt"
	"sync"

	"github.com/jonathan/job-enricher/internal/embedding"
	"github.com/jonathan/job-enricher/internal/types"
)

const (
	// defaultSimilarityThreshold governs how close a phrase embedding must be
	// to a vocabulary term embedding to count as a match
	defaultSimilarityThreshold = 0.82

	// maxSemanticPhrases bounds provider calls per field
	maxSemanticPhrases = 32
)

// SemanticStrategy matches paraphrased or abbreviated skill mentions by
// embedding similarity against the canonical vocabulary. Optional: only
// enabled when an embedder is configured.
type SemanticStrategy struct {
	embedder  embedding.Embedder
	vocab     Vocabulary
	threshold float32
	window    int

	once       sync.Once
	vocabErr   error
	vocabVecs  [][]float32
	vocabTerms []string
	vocabCats  []string
}

// NewSemanticStrategy creates a semantic strategy. threshold <= 0 uses the
// default similarity threshold.
func NewSemanticStrategy(embedder embedding.Embedder, vocab Vocabulary, threshold float32, window int) *SemanticStrategy {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	if threshold <= 0 {
		threshold = defaultSimilarityThreshold
	}
	if window <= 0 {
		window = DefaultContextWindow
	}
	return &SemanticStrategy{embedder: embedder, vocab: vocab, threshold: threshold, window: window}
}

// Name implements Strategy
func (s *SemanticStrategy) Name() string { return StrategySemantic }

// ensureVocabEmbeddings embeds the vocabulary once per strategy instance
func (s *SemanticStrategy) ensureVocabEmbeddings(ctx context.Context) error {
	s.once.Do(func() {
		for category, terms := range s.vocab {
			for _, term := range terms {
				vec, err := s.embedder.EmbedText(ctx, term)
				if err != nil {
					s.vocabErr = fmt.Errorf("failed to embed vocabulary term %q: %w", term, err)
					return
				}
				s.vocabTerms = append(s.vocabTerms, term)
				s.vocabCats = append(s.vocabCats, category)
				s.vocabVecs = append(s.vocabVecs, vec)
			}
		}
	})
	return s.vocabErr
}

// Match embeds candidate phrases from the text and keeps those whose nearest
// vocabulary term exceeds the similarity threshold. Confidence is the
// similarity itself.
func (s *SemanticStrategy) Match(ctx context.Context, text, _ string) ([]types.SkillCandidate, error) {
	if text == "" || s.embedder == nil {
		return nil, nil
	}
	if err := s.ensureVocabEmbeddings(ctx); err != nil {
		return nil, &StrategyError{Strategy: StrategySemantic, Cause: err}
	}

	phrases := candidatePhrases(text, maxSemanticPhrases)
	seen := make(map[string]bool)
	var candidates []types.SkillCandidate

	for _, p := range phrases {
		vec, err := s.embedder.EmbedText(ctx, p.surface)
		if err != nil {
			return nil, &StrategyError{Strategy: StrategySemantic, Cause: err}
		}

		bestIdx := -1
		var bestSim float32
		for i, vocabVec := range s.vocabVecs {
			sim := embedding.CosineSimilarity(vec, vocabVec)
			if sim > bestSim {
				bestSim = sim
				bestIdx = i
			}
		}
		if bestIdx < 0 || bestSim < s.threshold {
			continue
		}

		term := s.vocabTerms[bestIdx]
		category := s.vocabCats[bestIdx]
		key := term + "|" + category
		if seen[key] {
			continue
		}
		seen[key] = true

		candidates = append(candidates, types.SkillCandidate{
			Text:           p.surface,
			NormalizedName: types.NormalizeSkillText(term),
			Category:       category,
			RawConfidence:  float64(bestSim),
			ContextSpan:    ContextSnippet(text, p.start, p.end, s.window),
			SourceStrategy: StrategySemantic,
		})
	}
	return candidates, nil
}

// phrase is a candidate span for semantic matching
type phrase struct {
	surface string
	start   int
	end     int
}

// candidatePhrases picks unique 1- and 2-token spans from the text, skipping
// short stopword-like tokens, bounded by limit
func candidatePhrases(text string, limit int) []phrase {
	tokens := tokenize(text)
	seen := make(map[string]bool)
	var phrases []phrase

	appendPhrase := func(start, end int) {
		surface := text[start:end]
		normalized := types.NormalizeSkillText(surface)
		if len(normalized) < 2 || seen[normalized] {
			return
		}
		seen[normalized] = true
		phrases = append(phrases, phrase{surface: surface, start: start, end: end})
	}

	for i, tok := range tokens {
		if len(phrases) >= limit {
			break
		}
		if tok.end-tok.start >= 3 {
			appendPhrase(tok.start, tok.end)
		}
		if i+1 < len(tokens) && len(phrases) < limit {
			appendPhrase(tok.start, tokens[i+1].end)
		}
	}
	if len(phrases) > limit {
		phrases = phrases[:limit]
	}
	return phrases
}
