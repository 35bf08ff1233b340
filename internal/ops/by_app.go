package ops

import (
	"context"
	"log/slog"

	"github.com/keystash/keystash/internal/capture"
	"github.com/keystash/keystash/internal/config"
	"github.com/keystash/keystash/internal/db"
	"github.com/keystash/keystash/internal/errors"
)

// ByAppInput contains parameters for the ByApp operation.
type ByAppInput struct {
	AppName string // required
	Limit   int    // optional, default DefaultByAppLimit, capped at MaxByAppLimit
}

// ByAppOutput contains the result of the ByApp operation.
type ByAppOutput struct {
	AppName  string            `json:"app_name"`
	Captures []capture.Capture `json:"captures"`
	Count    int               `json:"count"`
}

// ByApp returns the newest captures for one application. An unknown
// application yields an empty list, not an error.
func ByApp(ctx context.Context, store *db.Store, cfg *config.Config, input ByAppInput) (*ByAppOutput, error) {
	appName := capture.NormalizeApp(input.AppName)
	if appName == "" {
		return nil, errors.NewInvalidRequest("app_name is required")
	}
	limit := clampLimit(input.Limit, DefaultByAppLimit, MaxByAppLimit)

	captures, err := store.ByApp(appName, limit)
	if err != nil {
		slog.Error("by-app query failed", "app", appName, "error", err)
		captures = []capture.Capture{}
	}

	return &ByAppOutput{AppName: appName, Captures: captures, Count: len(captures)}, nil
}
