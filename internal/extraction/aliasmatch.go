package extraction

import (
	"context"

	"github.com/jonathan/job-enricher/internal/alias"
	"github.com/jonathan/job-enricher/internal/types"
)

// maxAliasNgram is the longest token run checked against the alias index,
// covering multi-word aliases like "amazon web services"
const maxAliasNgram = 3

// AliasStrategy resolves shorthand and abbreviated skill mentions to
// canonical names through the alias index
type AliasStrategy struct {
	index  *alias.Index
	window int
}

// NewAliasStrategy creates an alias strategy backed by the given index
func NewAliasStrategy(index *alias.Index, window int) *AliasStrategy {
	if window <= 0 {
		window = DefaultContextWindow
	}
	return &AliasStrategy{index: index, window: window}
}

// Name implements Strategy
func (s *AliasStrategy) Name() string { return StrategyAlias }

// Match scans token n-grams against the alias index. Confidence is inherited
// from the matched alias entry.
func (s *AliasStrategy) Match(_ context.Context, text, _ string) ([]types.SkillCandidate, error) {
	if text == "" || s.index == nil {
		return nil, nil
	}

	tokens := tokenize(text)
	seen := make(map[string]bool)
	var candidates []types.SkillCandidate

	for i := range tokens {
		for n := maxAliasNgram; n >= 1; n-- {
			if i+n > len(tokens) {
				continue
			}
			start := tokens[i].start
			end := tokens[i+n-1].end
			surface := text[start:end]

			info, ok := s.index.ResolveInfo(surface)
			if !ok {
				continue
			}
			key := info.CanonicalName + "|" + info.Category
			if seen[key] {
				continue
			}
			seen[key] = true

			candidates = append(candidates, types.SkillCandidate{
				Text:           surface,
				NormalizedName: types.NormalizeSkillText(info.CanonicalName),
				Category:       info.Category,
				RawConfidence:  info.Confidence,
				ContextSpan:    ContextSnippet(text, start, end, s.window),
				SourceStrategy: StrategyAlias,
			})
			break
		}
	}
	return candidates, nil
}

// token is one word-ish span of the input text
type token struct {
	start int
	end   int
}

// tokenize splits text into word tokens, keeping byte offsets so matched
// n-grams can be sliced back out of the original text
func tokenize(text string) []token {
	var tokens []token
	inToken := false
	start := 0
	for i := 0; i < len(text); i++ {
		if isWordChar(text[i]) || text[i] == '.' || text[i] == '/' {
			if !inToken {
				inToken = true
				start = i
			}
			continue
		}
		if inToken {
			tokens = append(tokens, token{start: start, end: i})
			inToken = false
		}
	}
	if inToken {
		tokens = append(tokens, token{start: start, end: len(text)})
	}
	// Strip trailing punctuation that rode along inside tokens ("node.js,"
	// never happens but "experience." does via the '.' class)
	for i := range tokens {
		for tokens[i].end > tokens[i].start {
			last := text[tokens[i].end-1]
			if last == '.' || last == '/' {
				tokens[i].end--
				continue
			}
			break
		}
	}
	return tokens
}
