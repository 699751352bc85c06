package types

import "github.com/google/uuid"

// Section is one detected span of a job description, bounded by recognized
// headers (or spanning the whole document when no headers are found)
type Section struct {
	Header string `json:"header"`
	Text   string `json:"text"`
	Index  int    `json:"index"`
}

// SectionClassification scores one section's likelihood of containing genuine
// skill content. Derived per extraction run; a scoring input, not
// authoritative state.
type SectionClassification struct {
	JobPostingID         uuid.UUID `json:"job_posting_id"`
	SectionText          string    `json:"section_text"`
	Header               string    `json:"header"`
	Index                int       `json:"index"`
	IsSkillsRelevant     bool      `json:"is_skills_relevant"`
	RelevanceProbability float64   `json:"relevance_probability"`
	ClassifierVersion    string    `json:"classifier_version"`
	Method               string    `json:"method"`
}
