package extraction

import (
	"context"
	"regexp"
	"strings"

	"github.com/jonathan/job-enricher/internal/types"
)

const (
	// Raw confidences for pattern matches. Versioned mentions ("Python 3",
	// "Java 17") are strong signals; experience phrasing slightly weaker.
	patternVersionedConfidence     = 0.75
	patternExperienceConfidence    = 0.7
	patternCertificationConfidence = 0.8
)

var (
	// versionedTermPattern matches a term followed by a version number,
	// e.g. "Python 3.11", "Angular 15", "Java 17"
	versionedTermPattern = regexp.MustCompile(`(?i)\b([a-z][a-z+#.]{1,20})\s+v?(\d+(?:\.\d+)*)\b`)

	// experiencePattern matches "N+ years of X experience" phrasing,
	// capturing the skill term
	experiencePattern = regexp.MustCompile(`(?i)\b\d+\+?\s*years?\s+(?:of\s+)?([a-z][a-z+#./ ]{0,30}?)\s+experience\b`)

	// certificationPattern matches certification-style mentions like
	// "AWS certified" or "Kubernetes certification"
	certificationPattern = regexp.MustCompile(`(?i)\b([a-z][a-z+#. ]{1,30}?)\s+(?:certified|certification)\b`)
)

// PatternStrategy extracts versioned terms, experience phrasing, and
// certification mentions with compiled regexes
type PatternStrategy struct {
	vocab  Vocabulary
	window int
}

// NewPatternStrategy creates a pattern strategy. The vocabulary is used to
// assign categories to captured terms; nil uses the default.
func NewPatternStrategy(vocab Vocabulary, window int) *PatternStrategy {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	if window <= 0 {
		window = DefaultContextWindow
	}
	return &PatternStrategy{vocab: vocab, window: window}
}

// Name implements Strategy
func (s *PatternStrategy) Name() string { return StrategyPattern }

// Match implements Strategy
func (s *PatternStrategy) Match(_ context.Context, text, _ string) ([]types.SkillCandidate, error) {
	if text == "" {
		return nil, nil
	}

	var candidates []types.SkillCandidate
	seen := make(map[string]bool)

	add := func(term string, start, end int, confidence float64, category string, useVocab bool) {
		normalized := types.NormalizeSkillText(term)
		if normalized == "" {
			return
		}
		if useVocab {
			if vocabCategory, ok := s.vocab.CategoryFor(normalized); ok {
				category = vocabCategory
			}
		}
		key := normalized + "|" + category
		if seen[key] {
			return
		}
		seen[key] = true
		candidates = append(candidates, types.SkillCandidate{
			Text:           term,
			NormalizedName: normalized,
			Category:       category,
			RawConfidence:  confidence,
			ContextSpan:    ContextSnippet(text, start, end, s.window),
			SourceStrategy: StrategyPattern,
		})
	}

	for _, m := range versionedTermPattern.FindAllStringSubmatchIndex(text, -1) {
		term := text[m[2]:m[3]]
		// Only versioned mentions of known vocabulary terms count; "chapter 5"
		// style noise would otherwise flood the results
		if _, ok := s.vocab.CategoryFor(types.NormalizeSkillText(term)); !ok {
			continue
		}
		add(term, m[0], m[1], patternVersionedConfidence, types.CategoryGeneral, true)
	}

	for _, m := range experiencePattern.FindAllStringSubmatchIndex(text, -1) {
		term := strings.TrimSpace(text[m[2]:m[3]])
		add(term, m[2], m[3], patternExperienceConfidence, types.CategoryGeneral, true)
	}

	// Certification mentions keep their own category: "aws certified" is a
	// distinct skill from "aws" the platform
	for _, m := range certificationPattern.FindAllStringSubmatchIndex(text, -1) {
		term := strings.TrimSpace(text[m[2]:m[3]])
		add(term, m[0], m[1], patternCertificationConfidence, types.CategoryCertifications, false)
	}

	return candidates, nil
}
