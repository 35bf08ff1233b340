package ops

import (
	"context"

	"github.com/keystash/keystash/internal/capture"
	"github.com/keystash/keystash/internal/config"
	"github.com/keystash/keystash/internal/db"
	"github.com/keystash/keystash/internal/errors"
)

// SaveInput contains parameters for the Save operation.
type SaveInput struct {
	AppName   string // required
	Content   string // may be empty
	StartTime int64  // optional, default: now
	EndTime   int64  // optional, default: start time
	BatchID   *string
}

// SaveOutput contains the result of the Save operation.
type SaveOutput struct {
	ID        int64 `json:"id"`
	CharCount int   `json:"char_count"`
	WordCount int   `json:"word_count"`
	CreatedAt int64 `json:"created_at"`
}

// Save persists a single capture.
func Save(ctx context.Context, store *db.Store, cfg *config.Config, input SaveInput) (*SaveOutput, error) {
	appName := capture.NormalizeApp(input.AppName)
	if appName == "" {
		return nil, errors.NewInvalidRequest("app_name is required")
	}
	if input.StartTime < 0 || input.EndTime < 0 {
		return nil, errors.NewInvalidRequest("timestamps must not be negative")
	}
	if input.EndTime != 0 && input.StartTime != 0 && input.EndTime < input.StartTime {
		return nil, errors.NewInvalidRequest("end_time must not precede start_time")
	}

	c := capture.New(appName, input.Content, input.StartTime, input.EndTime)
	c.BatchID = cleanOptionalString(input.BatchID)

	if _, err := store.Insert(c); err != nil {
		return nil, err
	}

	return &SaveOutput{
		ID:        c.ID,
		CharCount: c.CharCount,
		WordCount: c.WordCount,
		CreatedAt: c.CreatedAt,
	}, nil
}
