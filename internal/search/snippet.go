package search

import (
	"strings"
	"unicode/utf8"
)

// SnippetLength is the maximum number of content runes in a snippet,
// excluding the truncation markers.
const SnippetLength = 200

// Snippet extracts a window of content around the first match of the query,
// placing roughly a third of the window before the match. Content short
// enough to fit is returned whole. Truncated edges are marked with "...".
func Snippet(content, query string) string {
	runes := []rune(content)
	if len(runes) <= SnippetLength {
		return content
	}

	matchRune := 0
	lower := strings.ToLower(content)
	q := strings.ToLower(strings.TrimSpace(query))

	byteIdx := -1
	if q != "" {
		byteIdx = strings.Index(lower, q)
	}
	if byteIdx < 0 {
		// Whole query absent; anchor on the first query word that appears.
		for _, word := range QueryWords(query) {
			if i := strings.Index(lower, word); i >= 0 {
				byteIdx = i
				break
			}
		}
	}
	if byteIdx > 0 {
		// byteIdx indexes the lowered string, whose byte widths can differ
		// from content's. Rune positions line up: ToLower maps rune to rune.
		matchRune = utf8.RuneCountInString(lower[:byteIdx])
	}

	start := matchRune - SnippetLength/3
	if start < 0 {
		start = 0
	}
	end := start + SnippetLength
	if end > len(runes) {
		end = len(runes)
		start = end - SnippetLength
		if start < 0 {
			start = 0
		}
	}

	out := string(runes[start:end])
	if start > 0 {
		out = "..." + out
	}
	if end < len(runes) {
		out += "..."
	}
	return out
}
