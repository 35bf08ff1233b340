package search

import (
	"math"
	"testing"
)

func TestLexicalScore_Base(t *testing.T) {
	w := DefaultWeights()

	// Single occurrence, full coverage: 0.8 + 0.1 = 0.9.
	got := LexicalScore("fibonacci", "the fibonacci sequence", w)
	if math.Abs(got-0.9) > 1e-9 {
		t.Errorf("score = %v, want 0.9", got)
	}
}

func TestLexicalScore_RepeatBoost(t *testing.T) {
	w := DefaultWeights()

	single := LexicalScore("auth", "auth module", w)
	triple := LexicalScore("auth", "auth auth auth module", w)

	if triple < single {
		t.Errorf("repeated occurrences scored lower: %v < %v", triple, single)
	}
	if triple > 1.0 {
		t.Errorf("score = %v, exceeds cap", triple)
	}
}

func TestLexicalScore_RepeatBoostCapped(t *testing.T) {
	w := DefaultWeights()

	// 10 occurrences would add 0.9 uncapped; the boost stops at 0.2 and the
	// total stops at 1.0.
	content := "x x x x x x x x x x"
	got := LexicalScore("x", content, w)
	if got != 1.0 {
		t.Errorf("score = %v, want 1.0", got)
	}
}

func TestLexicalScore_PartialCoverage(t *testing.T) {
	w := DefaultWeights()

	// Whole query "auth bug" absent, one of two words present:
	// 0.8 + 0.1*(1/2) = 0.85.
	got := LexicalScore("auth bug", "the auth module", w)
	if math.Abs(got-0.85) > 1e-9 {
		t.Errorf("score = %v, want 0.85", got)
	}
}

func TestLexicalScore_CaseInsensitive(t *testing.T) {
	w := DefaultWeights()

	upper := LexicalScore("FIBONACCI", "the Fibonacci sequence", w)
	lower := LexicalScore("fibonacci", "the fibonacci sequence", w)
	if upper != lower {
		t.Errorf("case changed the score: %v vs %v", upper, lower)
	}
}

func TestSimilarityScore_ExactWord(t *testing.T) {
	w := DefaultWeights()

	// Query word present whole: word fraction 1, substring fraction 1.
	got := SimilarityScore("fibonacci", "fibonacci numbers are fun", w)
	if got < 0.7 {
		t.Errorf("score = %v, want >= 0.7 for a whole-word hit", got)
	}
	if got > 1.0 {
		t.Errorf("score = %v, exceeds 1.0", got)
	}
}

func TestSimilarityScore_SubstringOnly(t *testing.T) {
	w := DefaultWeights()

	// "fib" embedded in "fibonacci": substring fraction 1, word fraction 0.
	got := SimilarityScore("fib", "fibonacci numbers", w)
	if got < 0.2 {
		t.Errorf("score = %v, want at least the substring weight", got)
	}

	whole := SimilarityScore("fibonacci", "fibonacci numbers", w)
	if got >= whole {
		t.Errorf("substring-only (%v) should score below whole-word (%v)", got, whole)
	}
}

func TestSimilarityScore_ShortWordsSkipSubstring(t *testing.T) {
	w := DefaultWeights()

	// Two-char query words never get the substring signal.
	withSub := SimilarityScore("fix", "prefixed text", w)
	if withSub < w.SubstringWeight {
		t.Errorf("3-char word should earn substring credit, got %v", withSub)
	}

	noSub := SimilarityScore("fi", "prefixed text", w)
	if noSub >= w.SubstringWeight {
		t.Errorf("2-char word should not earn substring credit, got %v", noSub)
	}
}

func TestSimilarityScore_NoMatch(t *testing.T) {
	w := DefaultWeights()

	got := SimilarityScore("zzzz", "completely unrelated", w)
	if got >= 0.3 {
		t.Errorf("score = %v, want below the default cutoff", got)
	}
}

func TestSimilarityScore_EmptyQuery(t *testing.T) {
	w := DefaultWeights()

	if got := SimilarityScore("   ", "anything", w); got != 0 {
		t.Errorf("score = %v, want 0", got)
	}
}
