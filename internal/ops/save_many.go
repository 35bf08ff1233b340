package ops

import (
	"context"
	"fmt"

	"github.com/keystash/keystash/internal/config"
	"github.com/keystash/keystash/internal/db"
	"github.com/keystash/keystash/internal/errors"
)

// SaveManyItem is one entry in a buffered flush.
type SaveManyItem struct {
	AppName   string `json:"app_name"`
	Content   string `json:"content"`
	StartTime int64  `json:"start_time,omitempty"`
	EndTime   int64  `json:"end_time,omitempty"`
}

// SaveManyInput contains parameters for the SaveMany operation.
type SaveManyInput struct {
	Items []SaveManyItem
}

// SaveManyOutput contains the result of the SaveMany operation.
type SaveManyOutput struct {
	BatchID string   `json:"batch_id"`
	Saved   int      `json:"saved"`
	Failed  int      `json:"failed"`
	IDs     []int64  `json:"ids"`
	Errors  []string `json:"errors,omitempty"`
}

// SaveMany persists a batch of captures under one shared batch identifier.
// Malformed items are skipped and reported; valid items still land. An empty
// batch is an error.
func SaveMany(ctx context.Context, store *db.Store, cfg *config.Config, input SaveManyInput) (*SaveManyOutput, error) {
	if len(input.Items) == 0 {
		return nil, errors.NewInvalidRequest("items must not be empty")
	}
	if len(input.Items) > MaxBatchItems {
		return nil, errors.NewInvalidRequest(
			fmt.Sprintf("too many items: %d (max %d)", len(input.Items), MaxBatchItems))
	}

	batchID, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	out := &SaveManyOutput{BatchID: batchID, IDs: []int64{}}
	for i, item := range input.Items {
		select {
		case <-ctx.Done():
			return nil, errors.NewCancelled("save_many")
		default:
		}

		saved, err := Save(ctx, store, cfg, SaveInput{
			AppName:   item.AppName,
			Content:   item.Content,
			StartTime: item.StartTime,
			EndTime:   item.EndTime,
			BatchID:   &batchID,
		})
		if err != nil {
			out.Failed++
			out.Errors = append(out.Errors, fmt.Sprintf("item %d: %v", i, err))
			continue
		}
		out.Saved++
		out.IDs = append(out.IDs, saved.ID)
	}

	return out, nil
}
