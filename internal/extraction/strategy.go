// Package extraction implements the independent skill-matching strategies.
// Each strategy produces raw skill candidates from one input field; the
// scoring package merges candidates across strategies into a final ranked
// skill list.
package extraction

import (
	"context"
	"fmt"

	"github.com/jonathan/job-enricher/internal/types"
)

// Strategy name constants. These appear in the extraction_method column of
// persisted skills, so spellings are stable.
const (
	StrategyLexicon  = "lexicon"
	StrategyAlias    = "alias"
	StrategyPattern  = "pattern"
	StrategySemantic = "semantic"
	StrategyEntity   = "entity"
)

// DefaultContextWindow is the number of characters captured on each side of
// a match for its context snippet
const DefaultContextWindow = 50

// Strategy is one independent candidate producer. Implementations are a
// closed set: lexicon, alias, pattern, semantic, entity.
type Strategy interface {
	// Name returns the stable strategy identifier
	Name() string
	// Match scans text from the named source field and returns raw skill
	// candidates. A failing strategy returns an error and is skipped by the
	// scorer; it never aborts the whole extraction.
	Match(ctx context.Context, text, fieldName string) ([]types.SkillCandidate, error)
}

// StrategyError wraps a failure inside a single extraction strategy
type StrategyError struct {
	Strategy string
	Cause    error
}

func (e *StrategyError) Error() string {
	return fmt.Sprintf("strategy %s failed: %v", e.Strategy, e.Cause)
}

func (e *StrategyError) Unwrap() error {
	return e.Cause
}
