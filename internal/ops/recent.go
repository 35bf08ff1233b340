package ops

import (
	"context"
	"log/slog"

	"github.com/keystash/keystash/internal/capture"
	"github.com/keystash/keystash/internal/config"
	"github.com/keystash/keystash/internal/db"
)

// RecentInput contains parameters for the Recent operation.
type RecentInput struct {
	Limit int // optional, default DefaultRecentLimit, capped at MaxRecentLimit
}

// RecentOutput contains the result of the Recent operation.
type RecentOutput struct {
	Captures []capture.Capture `json:"captures"`
	Count    int               `json:"count"`
}

// Recent returns the newest captures. Storage failures degrade to an empty
// list; browsing never errors.
func Recent(ctx context.Context, store *db.Store, cfg *config.Config, input RecentInput) (*RecentOutput, error) {
	limit := clampLimit(input.Limit, DefaultRecentLimit, MaxRecentLimit)

	captures, err := store.Recent(limit)
	if err != nil {
		slog.Error("recent query failed", "error", err)
		captures = []capture.Capture{}
	}

	return &RecentOutput{Captures: captures, Count: len(captures)}, nil
}
