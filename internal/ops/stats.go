package ops

import (
	"context"
	"log/slog"

	"github.com/keystash/keystash/internal/capture"
	"github.com/keystash/keystash/internal/config"
	"github.com/keystash/keystash/internal/db"
)

// StatsOutput contains the result of the Stats operation.
type StatsOutput struct {
	Stats *capture.Stats `json:"stats"`
}

// Stats returns the aggregate capture snapshot. Storage failures degrade to
// a zeroed snapshot.
func Stats(ctx context.Context, store *db.Store, cfg *config.Config) (*StatsOutput, error) {
	stats, err := store.Stats()
	if err != nil {
		slog.Error("stats query failed", "error", err)
		stats = &capture.Stats{TopApps: []capture.AppCount{}}
	}
	return &StatsOutput{Stats: stats}, nil
}
