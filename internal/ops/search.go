package ops

import (
	"context"
	"strings"

	"github.com/keystash/keystash/internal/capture"
	"github.com/keystash/keystash/internal/config"
	"github.com/keystash/keystash/internal/db"
	"github.com/keystash/keystash/internal/search"
)

// SearchInput contains parameters for the Search operation.
type SearchInput struct {
	Query    string   // empty or whitespace yields no results
	AppName  *string  // optional filter
	Limit    int      // optional, default DefaultSearchLimit, capped at MaxSearchLimit
	MinScore *float64 // optional fuzzy cutoff, default from config
}

// SearchOutput contains the result of the Search operation.
type SearchOutput struct {
	Query   string          `json:"query"`
	Results []search.Result `json:"results"`
	Count   int             `json:"count"`
}

// Search runs the hybrid indexed/fuzzy search pipeline. Never errors: blank
// queries and storage failures both degrade to empty results.
func Search(ctx context.Context, store *db.Store, cfg *config.Config, input SearchInput) (*SearchOutput, error) {
	query := strings.TrimSpace(input.Query)
	out := &SearchOutput{Query: query, Results: []search.Result{}}
	if query == "" {
		return out, nil
	}

	minScore := cfg.Search.MinScore
	if input.MinScore != nil {
		minScore = *input.MinScore
	}

	var app *string
	if input.AppName != nil {
		if normalized := capture.NormalizeApp(*input.AppName); normalized != "" {
			app = &normalized
		}
	}

	engine := search.NewEngine(store, search.WeightsFromConfig(cfg.Search))
	results := engine.Search(search.Request{
		Query:    query,
		Limit:    clampLimit(input.Limit, DefaultSearchLimit, MaxSearchLimit),
		App:      app,
		MinScore: minScore,
	})

	out.Results = results
	out.Count = len(results)
	return out, nil
}
