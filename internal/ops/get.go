package ops

import (
	"context"

	"github.com/keystash/keystash/internal/capture"
	"github.com/keystash/keystash/internal/config"
	"github.com/keystash/keystash/internal/db"
	"github.com/keystash/keystash/internal/errors"
)

// GetInput contains parameters for the Get operation.
type GetInput struct {
	ID int64 // required
}

// GetOutput contains the result of the Get operation.
type GetOutput struct {
	Capture *capture.Capture `json:"capture"`
}

// Get retrieves a single capture by identifier.
func Get(ctx context.Context, store *db.Store, cfg *config.Config, input GetInput) (*GetOutput, error) {
	if input.ID <= 0 {
		return nil, errors.NewInvalidRequest("id must be positive")
	}

	c, err := store.GetByID(input.ID)
	if err != nil {
		return nil, err
	}
	return &GetOutput{Capture: c}, nil
}
