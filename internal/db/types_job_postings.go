package db

import (
	"time"

	"github.com/google/uuid"
)

// JobPosting is the slice of the scraped job posting schema the enrichment
// engine reads. Postings are authoritative input and are never written here.
type JobPosting struct {
	ID          uuid.UUID  `json:"id"`
	ExternalRef string     `json:"external_ref"`
	Title       string     `json:"title"`
	Company     *string    `json:"company,omitempty"`
	Summary     *string    `json:"summary,omitempty"`
	Description *string    `json:"description,omitempty"`
	PostedAt    *time.Time `json:"posted_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// SummaryText returns the posting summary, or "" when absent
func (p *JobPosting) SummaryText() string {
	if p.Summary == nil {
		return ""
	}
	return *p.Summary
}

// DescriptionText returns the posting description, or "" when absent
func (p *JobPosting) DescriptionText() string {
	if p.Description == nil {
		return ""
	}
	return *p.Description
}
