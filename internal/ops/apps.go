package ops

import (
	"context"
	"log/slog"

	"github.com/keystash/keystash/internal/capture"
	"github.com/keystash/keystash/internal/config"
	"github.com/keystash/keystash/internal/db"
)

// AppsOutput contains the result of the Apps operation.
type AppsOutput struct {
	Apps  []capture.AppCount `json:"apps"`
	Count int                `json:"count"`
}

// Apps lists every application with its capture count, most captures first.
// Storage failures degrade to an empty list.
func Apps(ctx context.Context, store *db.Store, cfg *config.Config) (*AppsOutput, error) {
	apps, err := store.AppCounts()
	if err != nil {
		slog.Error("apps query failed", "error", err)
		apps = []capture.AppCount{}
	}
	return &AppsOutput{Apps: apps, Count: len(apps)}, nil
}
