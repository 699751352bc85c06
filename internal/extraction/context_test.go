package extraction

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextSnippet_MiddleOfText(t *testing.T) {
	text := strings.Repeat("x ", 50) + "Python" + strings.Repeat(" y", 50)
	start := strings.Index(text, "Python")

	snippet := ContextSnippet(text, start, start+len("Python"), 20)

	assert.Contains(t, snippet, "Python")
	assert.True(t, strings.HasPrefix(snippet, "..."), "left-truncated snippet should have leading ellipsis")
	assert.True(t, strings.HasSuffix(snippet, "..."), "right-truncated snippet should have trailing ellipsis")
}

func TestContextSnippet_WholeText(t *testing.T) {
	text := "Python required"
	snippet := ContextSnippet(text, 0, len("Python"), 50)

	assert.Equal(t, "Python required", snippet)
	assert.False(t, strings.HasPrefix(snippet, "..."))
	assert.False(t, strings.HasSuffix(snippet, "..."))
}

func TestContextSnippet_WordBoundaries(t *testing.T) {
	text := "alpha bravo charlie delta echo foxtrot golf hotel"
	start := strings.Index(text, "delta")

	snippet := ContextSnippet(text, start, start+len("delta"), 8)

	// The window lands mid-word; edges must be trimmed to whole words
	core := strings.Trim(snippet, ".")
	for _, word := range strings.Fields(core) {
		assert.Contains(t, text, word, "snippet should not contain partial words")
	}
}

func TestContextSnippet_InvalidBounds(t *testing.T) {
	assert.Equal(t, "", ContextSnippet("abc", -1, 2, 10))
	assert.Equal(t, "", ContextSnippet("abc", 2, 1, 10))
	assert.Equal(t, "", ContextSnippet("abc", 0, 10, 10))
}

func TestFindOccurrences_WholeWordCaseInsensitive(t *testing.T) {
	text := "Python and python3 and PYTHON. Also django."

	offsets := findOccurrences(text, "python")
	// "python3" must not match; "Python" and "PYTHON." must
	require.Len(t, offsets, 2)
	assert.Equal(t, 0, offsets[0])
}

func TestFindOccurrences_NotInsideWords(t *testing.T) {
	assert.Empty(t, findOccurrences("django developers", "go"))
	assert.Empty(t, findOccurrences("golang", "go"))
	assert.Len(t, findOccurrences("go and Go.", "go"), 2)
}

func TestFindOccurrences_SymbolTerms(t *testing.T) {
	assert.Len(t, findOccurrences("We use C++ and c# daily", "c++"), 1)
	assert.Len(t, findOccurrences("We use C++ and c# daily", "c#"), 1)
	// bare "c" must not match inside "c++" or "c#"
	assert.Empty(t, findOccurrences("We use C++ and c# daily", "c"))
}

func TestFindOccurrences_DottedTerms(t *testing.T) {
	assert.Len(t, findOccurrences("Experience with Node.js required", "node.js"), 1)
	assert.Len(t, findOccurrences("We love SQL.", "sql"), 1)
}
