// Package llm - extractor.go provides generic LLM-based structured extraction.
package llm

import (
	"fmt"
	"strings"
)

// ExtractionSchema defines the structure for LLM-based content extraction
type ExtractionSchema struct {
	Name        string        // Schema name (e.g., "SkillEntities")
	Description string        // System prompt preamble describing the extraction task
	Fields      []SchemaField // Expected output fields
}

// SchemaField defines a single field in the extraction output
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint: "string", "[]string", "map[string]string"
	Description string // Description for the LLM
	Required    bool   // Whether this field is required
}

// BuildExtractionPrompt constructs the LLM prompt from schema and input text
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")

	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "string"
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		sb.WriteString(fmt.Sprintf("  \"%s\": %s%s", field.Name, typeHint, requiredHint))
		if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Extract information directly from the text, do not invent or summarize.\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")

	sb.WriteString("Input text:\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// SkillEntitiesSchema returns the extraction schema for technology entity
// extraction from job posting text. Used by the entity extraction strategy.
func SkillEntitiesSchema() ExtractionSchema {
	return ExtractionSchema{
		Name: "SkillEntities",
		Description: `You are an expert technical recruiter. Your task is to extract named technology entities from job posting text.
Extract concrete technologies only: languages, frameworks, databases, cloud platforms, infrastructure tools.
EXCLUDE: company names, job titles, locations, generic business terms, soft skills.`,
		Fields: []SchemaField{
			{
				Name:        "entities",
				Type:        "[{\"name\": \"string\", \"category\": \"string\"}]",
				Description: "Technology entities found verbatim in the text, with category one of: programming_languages, frameworks, databases, cloud_platforms, devops, tools",
				Required:    true,
			},
		},
	}
}
