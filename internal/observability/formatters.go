// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jonathan/job-enricher/internal/db"
	"github.com/jonathan/job-enricher/internal/pipeline"
	"github.com/jonathan/job-enricher/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 10
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintExtractionResult outputs the ranked skill list for one job posting.
func (p *Printer) PrintExtractionResult(result *types.ExtractionResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Skills found: %d", result.Metadata.FinalSkills))
	if result.Metadata.FilteredMatches > 0 {
		sb.WriteString(fmt.Sprintf("  (filtered: %d)", result.Metadata.FilteredMatches))
	}
	sb.WriteString("\n\n")

	count := min(len(result.Skills), maxItemsToShow)
	for i := 0; i < count; i++ {
		skill := result.Skills[i]
		sb.WriteString(fmt.Sprintf("%.2f  %s  [%s]\n", skill.Confidence, skill.SkillName, skill.Category))
		sb.WriteString(fmt.Sprintf("      via %s\n", skill.ExtractionMethod))
	}
	if len(result.Skills) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more skills", len(result.Skills)-maxItemsToShow))
	}

	if len(result.Metadata.FailedStrategies) > 0 {
		sb.WriteString(fmt.Sprintf("\nFailed strategies: %s", strings.Join(result.Metadata.FailedStrategies, ", ")))
	}

	p.printBox("EXTRACTED SKILLS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintVersionDistribution outputs the per-version outcome table for one
// enrichment type.
func (p *Printer) PrintVersionDistribution(enrichmentType string, stats []db.VersionStat) {
	if len(stats) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-24s %5s %5s %5s  %s\n", "version", "ok", "fail", "part", "last seen"))
	for _, s := range stats {
		version := s.EnrichmentVersion
		if len(version) > 24 {
			version = version[:21] + "..."
		}
		lastSeen := ""
		if !s.LastSeen.IsZero() {
			lastSeen = s.LastSeen.Format("2006-01-02")
		}
		sb.WriteString(fmt.Sprintf("%-24s %5d %5d %5d  %s\n", version, s.Succeeded, s.Failed, s.Partial, lastSeen))
	}

	p.printBox(fmt.Sprintf("VERSIONS: %s", strings.ToUpper(enrichmentType)), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRunSummary outputs the per-type outcome counts for one batch run.
func (p *Printer) PrintRunSummary(summary *pipeline.RunSummary) {
	if summary == nil || len(summary.PerType) == 0 {
		return
	}

	var sb strings.Builder
	for enrichmentType, stats := range summary.PerType {
		sb.WriteString(fmt.Sprintf("%s:\n", enrichmentType))
		sb.WriteString(fmt.Sprintf("  selected: %d  ok: %d  partial: %d  failed: %d\n",
			stats.Selected, stats.Succeeded, stats.Partial, stats.Failed))
	}
	sb.WriteString(fmt.Sprintf("\nProcessed %d jobs in %s", summary.Processed(), summary.Duration.Round(10*time.Millisecond)))

	p.printBox("ENRICHMENT RUN", sb.String())
}

// PrintSections outputs the classified sections of one job description.
func (p *Printer) PrintSections(classified []types.SectionClassification) {
	if len(classified) == 0 {
		return
	}

	var sb strings.Builder
	for _, section := range classified {
		header := section.Header
		if header == "" {
			header = "(no header)"
		}
		marker := " "
		if section.IsSkillsRelevant {
			marker = "*"
		}
		sb.WriteString(fmt.Sprintf("%s %.2f  %s\n", marker, section.RelevanceProbability, header))
	}

	p.printBox("SECTIONS", strings.TrimSuffix(sb.String(), "\n"))
}
