// Package llm - util.go provides shared helpers for cleaning Gemini responses.
package llm

import "strings"

// maxLanguageTagLength bounds how long a code-fence language identifier can be
// before we treat the first line as payload instead.
const maxLanguageTagLength = 20

// CleanJSONBlock extracts the JSON payload from a Gemini response. The model
// wraps JSON in ```json fences or prepends conversational text even when the
// prompt forbids both, so we strip fences first and then scan for the first
// balanced object or array.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		return strings.TrimSpace(trimClosingFence(strings.TrimPrefix(text, "```json")))
	}

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.Index(text, "\n"); idx >= 0 && isLanguageTag(text[:idx]) {
			text = text[idx+1:]
		}
		return strings.TrimSpace(trimClosingFence(text))
	}

	// No fence. Skip any prose before the payload and drop trailing chatter.
	objIdx := strings.IndexByte(text, '{')
	arrIdx := strings.IndexByte(text, '[')
	start, extract := objIdx, extractJSONObject
	if start < 0 || (arrIdx >= 0 && arrIdx < start) {
		start, extract = arrIdx, extractJSONArray
	}
	if start >= 0 {
		if payload := extract(text[start:]); payload != "" {
			return payload
		}
	}

	return text
}

func trimClosingFence(text string) string {
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		return text[:idx]
	}
	return text
}

func isLanguageTag(line string) bool {
	return len(line) < maxLanguageTagLength && !strings.Contains(line, " ") && !strings.Contains(line, "{")
}

// extractJSONObject returns the balanced JSON object at the start of text,
// or "" when text does not begin with one. Braces inside quoted strings are
// ignored so templates like {"msg": "use {placeholder}"} survive intact.
func extractJSONObject(text string) string {
	return extractBalanced(text, '{', '}')
}

// extractJSONArray returns the balanced JSON array at the start of text,
// or "" when text does not begin with one.
func extractJSONArray(text string) string {
	return extractBalanced(text, '[', ']')
}

func extractBalanced(text string, open, close byte) string {
	if len(text) == 0 || text[0] != open {
		return ""
	}
	depth := 0
	inString := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if inString {
			switch c {
			case '\\':
				i++ // skip the escaped character
			case '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return text[:i+1]
			}
		}
	}
	return ""
}
