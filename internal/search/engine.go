package search

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/keystash/keystash/internal/capture"
	"github.com/keystash/keystash/internal/db"
)

const defaultLimit = 50

// Engine runs hybrid searches against a capture store.
type Engine struct {
	store   *db.Store
	weights Weights
}

// NewEngine returns an Engine bound to store with the given scoring weights.
func NewEngine(store *db.Store, weights Weights) *Engine {
	return &Engine{store: store, weights: weights}
}

// Request describes one search invocation.
type Request struct {
	Query    string
	Limit    int
	App      *string
	MinScore float64
}

// Result is a scored capture with a display snippet.
type Result struct {
	capture.Capture
	Score   float64 `json:"score"`
	Snippet string  `json:"snippet"`
}

// Search runs the two-stage pipeline: an indexed full-text pass, then a fuzzy
// similarity pass over recent captures to fill any shortfall. Results are
// deduplicated by capture (indexed hits win), ranked by score, then recency,
// then identifier, and capped at the requested limit.
//
// Storage failures on either stage degrade to fewer (possibly zero) results;
// search never surfaces an error to the caller.
func (e *Engine) Search(req Request) []Result {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return []Result{}
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	results := e.indexedStage(query, req.App, limit)

	if len(results) < limit {
		seen := make(map[int64]struct{}, len(results))
		exclude := make([]int64, 0, len(results))
		for _, r := range results {
			seen[r.ID] = struct{}{}
			exclude = append(exclude, r.ID)
		}
		fuzzy := e.fuzzyStage(query, req.App, exclude, limit-len(results), req.MinScore)
		for _, r := range fuzzy {
			if _, ok := seen[r.ID]; ok {
				continue
			}
			results = append(results, r)
		}
	}

	sortResults(results)
	if len(results) > limit {
		results = results[:limit]
	}

	for i := range results {
		results[i].Snippet = Snippet(results[i].Content, query)
	}
	return results
}

// indexedStage queries the full-text index and scores hits lexically.
func (e *Engine) indexedStage(query string, app *string, limit int) []Result {
	match := BuildMatchQuery(query)
	hits, err := e.store.SearchIndex(match, app, limit)
	if err != nil {
		slog.Error("indexed search failed", "error", err)
		return []Result{}
	}

	results := make([]Result, 0, len(hits))
	for _, c := range hits {
		results = append(results, Result{
			Capture: c,
			Score:   LexicalScore(query, c.Content, e.weights),
		})
	}
	return results
}

// fuzzyStage scans recent captures the index stage missed, scoring each by
// blended similarity and dropping anything under minScore. The scan window is
// ScanMultiplier times the shortfall.
func (e *Engine) fuzzyStage(query string, app *string, exclude []int64, remaining int, minScore float64) []Result {
	candidates, err := e.store.RecentExcluding(app, exclude, remaining*e.weights.ScanMultiplier)
	if err != nil {
		slog.Error("fuzzy candidate scan failed", "error", err)
		return nil
	}

	var results []Result
	for _, c := range candidates {
		score := SimilarityScore(query, c.Content, e.weights)
		if score < minScore {
			continue
		}
		results = append(results, Result{Capture: c, Score: score})
	}

	sortResults(results)
	if len(results) > remaining {
		results = results[:remaining]
	}
	return results
}

// sortResults orders by score descending, then newest creation timestamp,
// then highest identifier.
func sortResults(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if results[i].CreatedAt != results[j].CreatedAt {
			return results[i].CreatedAt > results[j].CreatedAt
		}
		return results[i].ID > results[j].ID
	})
}
