package scoring

import (
	"context"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/jonathan/job-enricher/internal/extraction"
	"github.com/jonathan/job-enricher/internal/sections"
	"github.com/jonathan/job-enricher/internal/types"
)

const (
	// DefaultMinConfidence filters merged skills whose final confidence falls
	// below this floor
	DefaultMinConfidence = 0.3

	// DefaultExtractorVersion is recorded in extraction metadata when no
	// version is configured
	DefaultExtractorVersion = "v1.0"

	// neutralRelevance is used for fields that are not section-classified,
	// producing a relevance multiplier of exactly 1.0
	neutralRelevance = 0.5

	// Source field names recorded on extracted skills
	FieldSummary     = "summary"
	FieldDescription = "description"
)

// Options configures an Extractor
type Options struct {
	// Strategies to run; order does not affect scoring
	Strategies []extraction.Strategy
	// Classifier scores description sections; nil uses a default classifier
	Classifier *sections.Classifier
	// CategoryWeights per skill category; nil uses the defaults
	CategoryWeights map[string]float64
	// MinConfidence floor for final skills; zero uses 0.3
	MinConfidence float64
	// Version recorded in extraction metadata; empty uses "v1.0"
	Version string
}

// Extractor runs all configured strategies over a job posting's text fields
// and merges their candidates into a final scored skill list
type Extractor struct {
	strategies []extraction.Strategy
	classifier *sections.Classifier
	weights    atomic.Pointer[map[string]float64]
	minConf    float64
	version    string
}

// NewExtractor creates an extractor with the given options
func NewExtractor(opts Options) *Extractor {
	classifier := opts.Classifier
	if classifier == nil {
		classifier = sections.NewClassifier(sections.Options{})
	}
	weights := opts.CategoryWeights
	if weights == nil {
		weights = DefaultCategoryWeights()
	}
	minConf := opts.MinConfidence
	if minConf == 0 {
		minConf = DefaultMinConfidence
	}
	version := opts.Version
	if version == "" {
		version = DefaultExtractorVersion
	}
	e := &Extractor{
		strategies: opts.Strategies,
		classifier: classifier,
		minConf:    minConf,
		version:    version,
	}
	e.weights.Store(&weights)
	return e
}

// SetCategoryWeights swaps in a new weight table. The table is stored behind
// an atomic pointer so a reload never races an extraction in flight; a nil
// table restores the defaults.
func (e *Extractor) SetCategoryWeights(weights map[string]float64) {
	if weights == nil {
		weights = DefaultCategoryWeights()
	}
	e.weights.Store(&weights)
}

// scoredCandidate is one raw candidate plus the context it was matched in
type scoredCandidate struct {
	cand  types.SkillCandidate
	field string
	final float64
}

// merged accumulates all candidates that dedup to the same skill
type merged struct {
	best       scoredCandidate
	strategies map[string]bool
}

// ExtractSkills runs every configured strategy over the summary and the
// section-classified description, then merges candidates by normalized name
// and category. A failing strategy is recorded in metadata and skipped; the
// extraction itself never fails.
func (e *Extractor) ExtractSkills(ctx context.Context, summary, description string) *types.ExtractionResult {
	var scored []scoredCandidate
	failed := make(map[string]bool)

	if strings.TrimSpace(summary) != "" {
		scored = append(scored, e.runStrategies(ctx, summary, FieldSummary, neutralRelevance, failed)...)
	}

	for _, section := range e.classifier.ClassifySections(description) {
		if section.SectionText == "" {
			continue
		}
		scored = append(scored, e.runStrategies(ctx, section.SectionText, FieldDescription, section.RelevanceProbability, failed)...)
	}

	bySkill := make(map[string]*merged)
	var order []string
	for _, sc := range scored {
		key := sc.cand.NormalizedName + "|" + sc.cand.Category
		m, ok := bySkill[key]
		if !ok {
			m = &merged{best: sc, strategies: make(map[string]bool)}
			bySkill[key] = m
			order = append(order, key)
		}
		m.strategies[sc.cand.SourceStrategy] = true
		if sc.final > m.best.final {
			m.best = sc
		}
	}

	filtered := 0
	skills := make([]types.ExtractedSkill, 0, len(bySkill))
	for _, key := range order {
		m := bySkill[key]
		if m.best.final < e.minConf {
			filtered++
			continue
		}
		skills = append(skills, types.ExtractedSkill{
			SkillName:        m.best.cand.Text,
			NormalizedName:   m.best.cand.NormalizedName,
			Category:         m.best.cand.Category,
			Confidence:       m.best.final,
			ContextSnippet:   m.best.cand.ContextSpan,
			ExtractionMethod: joinStrategies(m.strategies),
			SourceField:      m.best.field,
		})
	}

	sort.SliceStable(skills, func(i, j int) bool {
		if skills[i].Confidence != skills[j].Confidence {
			return skills[i].Confidence > skills[j].Confidence
		}
		return skills[i].NormalizedName < skills[j].NormalizedName
	})

	return &types.ExtractionResult{
		Skills: skills,
		Metadata: types.ExtractionMetadata{
			ExtractorVersion:    e.version,
			EnhancedMode:        e.hasStrategy(extraction.StrategySemantic) || e.hasStrategy(extraction.StrategyEntity),
			SemanticEnabled:     e.hasStrategy(extraction.StrategySemantic),
			PatternsEnabled:     e.hasStrategy(extraction.StrategyPattern),
			TotalMatches:        len(scored),
			FilteredMatches:     filtered,
			FinalSkills:         len(skills),
			ConfidenceThreshold: e.minConf,
			FailedStrategies:    sortedKeys(failed),
		},
	}
}

// runStrategies executes every strategy against one span of text and scores
// the resulting candidates with the span's section relevance
func (e *Extractor) runStrategies(ctx context.Context, text, field string, relevance float64, failed map[string]bool) []scoredCandidate {
	var scored []scoredCandidate
	for _, strategy := range e.strategies {
		candidates, err := strategy.Match(ctx, text, field)
		if err != nil {
			failed[strategy.Name()] = true
			continue
		}
		for _, cand := range candidates {
			scored = append(scored, scoredCandidate{
				cand:  cand,
				field: field,
				final: e.finalConfidence(cand.RawConfidence, cand.Category, relevance),
			})
		}
	}
	return scored
}

// finalConfidence folds raw strategy confidence, category weight, and section
// relevance into one score clipped to [0,1]. A neutral relevance of 0.5 makes
// the relevance multiplier exactly 1.0.
func (e *Extractor) finalConfidence(raw float64, category string, relevance float64) float64 {
	weights := *e.weights.Load()
	weight, ok := weights[category]
	if !ok {
		weight = weights[types.CategoryGeneral]
		if weight == 0 {
			weight = DefaultCategoryWeights()[types.CategoryGeneral]
		}
	}
	final := raw * weight * (neutralRelevance + relevance)
	if final < 0 {
		return 0
	}
	if final > 1 {
		return 1
	}
	return final
}

func (e *Extractor) hasStrategy(name string) bool {
	for _, s := range e.strategies {
		if s.Name() == name {
			return true
		}
	}
	return false
}

// joinStrategies renders the contributing strategy set as a stable
// "+"-separated method string, e.g. "lexicon+pattern"
func joinStrategies(set map[string]bool) string {
	return strings.Join(sortedKeys(set), "+")
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
