package extraction

import "strings"

// ContextSnippet extracts a context window around [start, end) in text,
// expanded up to window characters on each side, trimmed to word boundaries,
// with ellipsis markers where the window truncated the text.
func ContextSnippet(text string, start, end, window int) string {
	if start < 0 || end > len(text) || start > end {
		return ""
	}
	if window <= 0 {
		window = DefaultContextWindow
	}

	left := start - window
	if left < 0 {
		left = 0
	}
	right := end + window
	if right > len(text) {
		right = len(text)
	}

	// Trim the left edge forward to the next word boundary so the snippet
	// never starts mid-word
	if left > 0 {
		if idx := strings.IndexAny(text[left:start], " \t\n"); idx >= 0 {
			left += idx + 1
		}
	}
	// Trim the right edge back to the previous word boundary
	if right < len(text) {
		if idx := strings.LastIndexAny(text[end:right], " \t\n"); idx >= 0 {
			right = end + idx
		}
	}

	snippet := strings.TrimSpace(text[left:right])
	if left > 0 {
		snippet = "..." + snippet
	}
	if right < len(text) {
		snippet = snippet + "..."
	}
	return snippet
}

// isWordChar reports whether b is part of a skill token. '+' and '#' keep
// "c++" and "c#" from matching a bare "c"; '.' stays a boundary so terms
// match at sentence ends while dotted terms like "node.js" match internally.
func isWordChar(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		return true
	case b == '+', b == '#':
		return true
	}
	return false
}

// findOccurrences returns the start offsets of whole-word, case-insensitive
// occurrences of term in text
func findOccurrences(text, term string) []int {
	if term == "" {
		return nil
	}
	lowerText := strings.ToLower(text)
	lowerTerm := strings.ToLower(term)

	var offsets []int
	for from := 0; ; {
		idx := strings.Index(lowerText[from:], lowerTerm)
		if idx < 0 {
			break
		}
		start := from + idx
		end := start + len(lowerTerm)

		boundedLeft := start == 0 || !isWordChar(lowerText[start-1])
		boundedRight := end == len(lowerText) || !isWordChar(lowerText[end])
		if boundedLeft && boundedRight {
			offsets = append(offsets, start)
		}
		from = end
	}
	return offsets
}
