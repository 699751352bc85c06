package types

import (
	"fmt"
	"strings"
)

// EnrichmentType constants name the derived annotations the engine produces
const (
	EnrichmentTypeSkills                = "skills"
	EnrichmentTypeEmbeddings            = "embeddings"
	EnrichmentTypeClustering            = "clustering"
	EnrichmentTypeSectionClassification = "section_classification"
)

// EnrichmentStatus constants for ledger rows
const (
	EnrichmentStatusSuccess = "success"
	EnrichmentStatusFailed  = "failed"
	EnrichmentStatusPartial = "partial"
)

// ValidEnrichmentType reports whether t names a known enrichment type
func ValidEnrichmentType(t string) bool {
	switch t {
	case EnrichmentTypeSkills, EnrichmentTypeEmbeddings, EnrichmentTypeClustering, EnrichmentTypeSectionClassification:
		return true
	}
	return false
}

// EnrichmentVersion builds the "{model_id}_{version}" join key between ledger
// rows and model configuration. The format must stay bit-for-bit stable:
// stored history is keyed on it.
func EnrichmentVersion(modelID, version string) string {
	return modelID + "_" + version
}

// ParseEnrichmentVersion splits an enrichment version back into model ID and
// version. Model IDs may themselves contain underscores, so the split happens
// at the last "_v" boundary.
func ParseEnrichmentVersion(enrichmentVersion string) (modelID, version string, err error) {
	idx := strings.LastIndex(enrichmentVersion, "_v")
	if idx <= 0 || idx == len(enrichmentVersion)-2 {
		return "", "", fmt.Errorf("malformed enrichment version %q", enrichmentVersion)
	}
	return enrichmentVersion[:idx], enrichmentVersion[idx+1:], nil
}
