package llm

import (
	"testing"
)

func TestCleanJSONBlock_MarkdownCodeBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "json code block",
			input:    "```json\n{\"skill\": \"python\"}\n```",
			expected: `{"skill": "python"}`,
		},
		{
			name:     "generic code block",
			input:    "```\n{\"skill\": \"python\"}\n```",
			expected: `{"skill": "python"}`,
		},
		{
			name:     "code block with language",
			input:    "```javascript\n{\"skill\": \"python\"}\n```",
			expected: `{"skill": "python"}`,
		},
		{
			name:     "plain JSON",
			input:    `{"skill": "python"}`,
			expected: `{"skill": "python"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CleanJSONBlock(tt.input)
			if result != tt.expected {
				t.Errorf("CleanJSONBlock() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestCleanJSONBlock_PreambleText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "preamble before JSON object",
			input:    "As requested, here is the JSON:\n{\"skill\": \"kubernetes\"}",
			expected: `{"skill": "kubernetes"}`,
		},
		{
			name:     "conversational preamble",
			input:    "Based on the job description provided, I've classified the sections. Here's the structured output:\n\n{\"section\": \"requirements\", \"skills\": [\"go\"]}",
			expected: `{"section": "requirements", "skills": ["go"]}`,
		},
		{
			name:     "preamble with multiple sentences",
			input:    "I analyzed the posting. The role emphasizes cloud experience. Here is the result: {\"skills\": [\"aws\"]}",
			expected: `{"skills": ["aws"]}`,
		},
		{
			name:     "preamble before JSON array",
			input:    "Here are the extracted skills:\n[\"python\", \"terraform\"]",
			expected: `["python", "terraform"]`,
		},
		{
			name:     "JSON with trailing text",
			input:    "{\"skill\": \"rust\"}\n\nLet me know if you need anything else!",
			expected: `{"skill": "rust"}`,
		},
		{
			name:     "nested objects",
			input:    "Output:\n{\"extraction\": {\"skill\": \"go\"}}",
			expected: `{"extraction": {"skill": "go"}}`,
		},
		{
			name:     "JSON with escaped quotes",
			input:    "Result: {\"snippet\": \"listed under \\\"Requirements\\\"\"}",
			expected: `{"snippet": "listed under \"Requirements\""}`,
		},
		{
			name:     "deeply nested",
			input:    "Here: {\"a\": {\"b\": {\"c\": {\"d\": \"deep\"}}}}",
			expected: `{"a": {"b": {"c": {"d": "deep"}}}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CleanJSONBlock(tt.input)
			if result != tt.expected {
				t.Errorf("CleanJSONBlock() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple object",
			input:    `{"skill": "python"}`,
			expected: `{"skill": "python"}`,
		},
		{
			name:     "nested objects",
			input:    `{"extraction": {"skill": "go"}}`,
			expected: `{"extraction": {"skill": "go"}}`,
		},
		{
			name:     "object with array",
			input:    `{"scores": [1, 2, 3]}`,
			expected: `{"scores": [1, 2, 3]}`,
		},
		{
			name:     "object with trailing text",
			input:    `{"skill": "python"} and some more text`,
			expected: `{"skill": "python"}`,
		},
		{
			name:     "string with braces inside",
			input:    `{"template": "Hello {name}!"}`,
			expected: `{"template": "Hello {name}!"}`,
		},
		{
			name:     "unterminated object",
			input:    `{"skill": "python"`,
			expected: "",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "not starting with brace",
			input:    "not json",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := extractJSONObject(tt.input)
			if result != tt.expected {
				t.Errorf("extractJSONObject() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestExtractJSONArray(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple array",
			input:    `["go", "python", "rust"]`,
			expected: `["go", "python", "rust"]`,
		},
		{
			name:     "nested arrays",
			input:    `[[1, 2], [3, 4]]`,
			expected: `[[1, 2], [3, 4]]`,
		},
		{
			name:     "array of objects",
			input:    `[{"id": 1}, {"id": 2}]`,
			expected: `[{"id": 1}, {"id": 2}]`,
		},
		{
			name:     "array with trailing text",
			input:    `[1, 2, 3] extra stuff`,
			expected: `[1, 2, 3]`,
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "not starting with bracket",
			input:    "not array",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := extractJSONArray(tt.input)
			if result != tt.expected {
				t.Errorf("extractJSONArray() = %q, want %q", result, tt.expected)
			}
		})
	}
}
