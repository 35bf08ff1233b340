package search

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// nonWord matches runs of characters that are neither word characters nor
// whitespace (punctuation, symbols). They are stripped before building the
// index query so stray syntax cannot break the MATCH expression.
var nonWord = regexp.MustCompile(`[^\p{L}\p{N}_\s]+`)

// BuildMatchQuery sanitizes a free-text query into an FTS5 MATCH expression:
// a disjunction of prefix terms, one per surviving query word. Terms shorter
// than two characters are discarded. If nothing survives, the raw query is
// quoted and used verbatim.
func BuildMatchQuery(query string) string {
	cleaned := nonWord.ReplaceAllString(query, " ")

	var terms []string
	for _, t := range strings.Fields(cleaned) {
		if utf8.RuneCountInString(t) < 2 {
			continue
		}
		terms = append(terms, `"`+t+`"*`)
	}

	if len(terms) == 0 {
		raw := strings.TrimSpace(query)
		return `"` + strings.ReplaceAll(raw, `"`, `""`) + `"`
	}

	return strings.Join(terms, " OR ")
}

// QueryWords splits a query into lowercase whitespace-delimited words.
func QueryWords(query string) []string {
	return strings.Fields(strings.ToLower(query))
}
