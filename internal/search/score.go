package search

import (
	"math"
	"strings"
)

// LexicalScore rates an indexed-stage hit. Every hit starts at the lexical
// base; repeated whole-query occurrences and per-word coverage of the content
// add boosts, capped at 1.0.
func LexicalScore(query, content string, w Weights) float64 {
	q := strings.ToLower(strings.TrimSpace(query))
	c := strings.ToLower(content)

	score := w.LexicalBase

	if occurrences := strings.Count(c, q); occurrences > 1 {
		score += math.Min(w.RepeatBoostMax, w.RepeatBoost*float64(occurrences-1))
	}

	if words := QueryWords(q); len(words) > 0 {
		covered := 0
		for _, word := range words {
			if strings.Contains(c, word) {
				covered++
			}
		}
		score += w.CoverageBoost * float64(covered) / float64(len(words))
	}

	return math.Min(score, 1.0)
}

// SimilarityScore rates a fuzzy-stage candidate as a weighted blend of three
// signals: character-sequence similarity, the fraction of query words present
// whole in the content, and the fraction of query words (length 3+) embedded
// inside some content word.
func SimilarityScore(query, content string, w Weights) float64 {
	q := strings.ToLower(strings.TrimSpace(query))
	c := strings.ToLower(content)

	queryWords := strings.Fields(q)
	if len(queryWords) == 0 {
		return 0
	}

	sequence := Ratio(q, c)

	contentWords := strings.Fields(c)
	contentSet := make(map[string]struct{}, len(contentWords))
	for _, word := range contentWords {
		contentSet[word] = struct{}{}
	}

	whole := 0
	embedded := 0
	for _, word := range queryWords {
		if _, ok := contentSet[word]; ok {
			whole++
		}
		if len(word) < 3 {
			continue
		}
		for _, cw := range contentWords {
			if strings.Contains(cw, word) {
				embedded++
				break
			}
		}
	}

	wordFrac := float64(whole) / float64(len(queryWords))
	substringFrac := float64(embedded) / float64(len(queryWords))

	return w.SequenceWeight*sequence + w.WordWeight*wordFrac + w.SubstringWeight*substringFrac
}
