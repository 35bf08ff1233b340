// Package search implements the two-stage capture search engine: an indexed
// full-text stage over the store's FTS index, and a fuzzy similarity
// fallback over recent raw captures, merged into one ranked result list.
package search

import "github.com/keystash/keystash/internal/config"

// Weights holds the scoring constants for both stages. The defaults are
// empirical tuning values; they are exposed through config for test tuning
// rather than derived from anything principled.
type Weights struct {
	// Indexed-stage lexical scoring.
	LexicalBase    float64
	RepeatBoost    float64
	RepeatBoostMax float64
	CoverageBoost  float64

	// Fuzzy-stage similarity blend.
	SequenceWeight  float64
	WordWeight      float64
	SubstringWeight float64

	// ScanMultiplier bounds the fuzzy scan at ScanMultiplier x the result
	// shortfall left by the indexed stage.
	ScanMultiplier int
}

// DefaultWeights returns the shipped scoring constants.
func DefaultWeights() Weights {
	return Weights{
		LexicalBase:     0.8,
		RepeatBoost:     0.1,
		RepeatBoostMax:  0.2,
		CoverageBoost:   0.1,
		SequenceWeight:  0.3,
		WordWeight:      0.5,
		SubstringWeight: 0.2,
		ScanMultiplier:  3,
	}
}

// WeightsFromConfig maps the search section of the config onto Weights.
func WeightsFromConfig(sc config.SearchConfig) Weights {
	w := DefaultWeights()
	if sc.LexicalBase > 0 {
		w.LexicalBase = sc.LexicalBase
	}
	if sc.RepeatBoost > 0 {
		w.RepeatBoost = sc.RepeatBoost
	}
	if sc.RepeatBoostMax > 0 {
		w.RepeatBoostMax = sc.RepeatBoostMax
	}
	if sc.CoverageBoost > 0 {
		w.CoverageBoost = sc.CoverageBoost
	}
	if sc.SequenceWeight > 0 {
		w.SequenceWeight = sc.SequenceWeight
	}
	if sc.WordWeight > 0 {
		w.WordWeight = sc.WordWeight
	}
	if sc.SubstringWeight > 0 {
		w.SubstringWeight = sc.SubstringWeight
	}
	if sc.ScanMultiplier > 0 {
		w.ScanMultiplier = sc.ScanMultiplier
	}
	return w
}
