// Package sections splits job descriptions into header-delimited sections and
// scores each section's relevance to skill content. Scores feed the skill
// scorer as a multiplier that suppresses matches from boilerplate sections.
package sections

import (
	"sort"
	"strings"

	"github.com/jonathan/job-enricher/internal/types"
)

const (
	// defaultRelevanceScore is given to headers not in the keyword table, so
	// unseen formats degrade gracefully instead of being discarded
	defaultRelevanceScore = 0.5

	// maxHeaderLength bounds how long a line can be and still count as a
	// section header
	maxHeaderLength = 60

	// methodKeyword names the classification method recorded on results
	methodKeyword = "keyword"
)

// DefaultKeywordScores returns the built-in header keyword relevance table.
// Higher means the section is more likely to contain genuine skill mentions.
func DefaultKeywordScores() map[string]float64 {
	return map[string]float64{
		"requirements":     0.95,
		"qualifications":   0.9,
		"skills":           0.95,
		"tech stack":       0.9,
		"what you'll need": 0.9,
		"what you need":    0.9,
		"must have":        0.9,
		"nice to have":     0.8,
		"preferred":        0.75,
		"responsibilities": 0.7,
		"what you'll do":   0.65,
		"about the role":   0.6,
		"experience":       0.7,
		"about us":         0.2,
		"about the team":   0.25,
		"who we are":       0.2,
		"our culture":      0.2,
		"benefits":         0.1,
		"perks":            0.1,
		"compensation":     0.15,
		"salary":           0.15,
		"location":         0.1,
		"equal opportunity": 0.05,
		"how to apply":     0.1,
	}
}

// Options configures a Classifier
type Options struct {
	// KeywordScores maps header keywords to relevance; nil uses the defaults
	KeywordScores map[string]float64
	// DefaultScore for unrecognized headers; zero uses 0.5
	DefaultScore float64
	// RelevanceThreshold at or above which a section counts as skills
	// relevant; zero uses 0.5
	RelevanceThreshold float64
	// Version recorded on classifications; empty uses "v1.0"
	Version string
}

// Classifier detects sections and scores their skill relevance
type Classifier struct {
	keywords  map[string]float64
	defScore  float64
	threshold float64
	version   string
}

// NewClassifier creates a classifier with the given options
func NewClassifier(opts Options) *Classifier {
	keywords := opts.KeywordScores
	if keywords == nil {
		keywords = DefaultKeywordScores()
	}
	defScore := opts.DefaultScore
	if defScore == 0 {
		defScore = defaultRelevanceScore
	}
	threshold := opts.RelevanceThreshold
	if threshold == 0 {
		threshold = defaultRelevanceScore
	}
	version := opts.Version
	if version == "" {
		version = "v1.0"
	}
	return &Classifier{
		keywords:  keywords,
		defScore:  defScore,
		threshold: threshold,
		version:   version,
	}
}

// RelevanceScore returns the configured relevance for a header, or the
// default mid-range score when the header is unrecognized
func (c *Classifier) RelevanceScore(header string) float64 {
	normalized := normalizeHeader(header)
	if normalized == "" {
		return c.defScore
	}
	if score, ok := c.keywords[normalized]; ok {
		return score
	}
	// Fall back to substring matching so "Basic Requirements" still maps to
	// the "requirements" keyword
	best := -1.0
	for keyword, score := range c.keywords {
		if strings.Contains(normalized, keyword) && score > best {
			best = score
		}
	}
	if best >= 0 {
		return best
	}
	return c.defScore
}

// DetectSections splits text into sections bounded by detected headers.
// A section spans from its header to the next header or end of text. Text
// with no detectable headers yields a single synthetic section covering the
// whole document; empty input yields an empty slice.
func (c *Classifier) DetectSections(text string) []types.Section {
	if strings.TrimSpace(text) == "" {
		return []types.Section{}
	}

	lines := strings.Split(text, "\n")

	type headerPos struct {
		header string
		line   int
	}
	var headers []headerPos
	for i, line := range lines {
		if c.isHeaderLine(line) {
			headers = append(headers, headerPos{header: strings.TrimSpace(line), line: i})
		}
	}

	if len(headers) == 0 {
		return []types.Section{{Header: "", Text: strings.TrimSpace(text), Index: 0}}
	}

	sections := make([]types.Section, 0, len(headers)+1)

	// Preamble before the first header becomes a headerless section
	if preamble := strings.TrimSpace(strings.Join(lines[:headers[0].line], "\n")); preamble != "" {
		sections = append(sections, types.Section{Header: "", Text: preamble, Index: 0})
	}

	for i, h := range headers {
		end := len(lines)
		if i+1 < len(headers) {
			end = headers[i+1].line
		}
		body := strings.TrimSpace(strings.Join(lines[h.line+1:end], "\n"))
		sections = append(sections, types.Section{
			Header: h.header,
			Text:   body,
			Index:  len(sections),
		})
	}

	return sections
}

// ClassifySections detects and scores all sections in text, sorted by
// relevance probability descending. Never returns an error: empty or
// unstructured input produces an empty or single-section result.
func (c *Classifier) ClassifySections(text string) []types.SectionClassification {
	detected := c.DetectSections(text)
	classified := make([]types.SectionClassification, 0, len(detected))

	for _, section := range detected {
		score := c.RelevanceScore(section.Header)
		classified = append(classified, types.SectionClassification{
			SectionText:          section.Text,
			Header:               section.Header,
			Index:                section.Index,
			IsSkillsRelevant:     score >= c.threshold,
			RelevanceProbability: score,
			ClassifierVersion:    c.version,
			Method:               methodKeyword,
		})
	}

	sort.SliceStable(classified, func(i, j int) bool {
		return classified[i].RelevanceProbability > classified[j].RelevanceProbability
	})

	return classified
}

// isHeaderLine reports whether a line looks like a section header: short, and
// either matching a configured keyword or ending with a colon
func (c *Classifier) isHeaderLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || len(trimmed) > maxHeaderLength {
		return false
	}
	if strings.HasSuffix(trimmed, ":") {
		return true
	}
	normalized := normalizeHeader(trimmed)
	if _, ok := c.keywords[normalized]; ok {
		return true
	}
	for keyword := range c.keywords {
		if strings.Contains(normalized, keyword) {
			return true
		}
	}
	return false
}

// normalizeHeader lowercases a header and strips trailing punctuation
func normalizeHeader(header string) string {
	normalized := strings.ToLower(strings.TrimSpace(header))
	return strings.TrimRight(normalized, ":-– ")
}
