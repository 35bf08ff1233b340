package ops

import (
	"context"

	"github.com/keystash/keystash/internal/config"
	"github.com/keystash/keystash/internal/db"
)

// RebuildOutput contains the result of the Rebuild operation.
type RebuildOutput struct {
	Captures int `json:"captures"`
	Entries  int `json:"entries"`
}

// Rebuild re-derives the full-text index from the captures table. Unlike the
// read operations, index maintenance failures are surfaced to the caller.
func Rebuild(ctx context.Context, store *db.Store, cfg *config.Config) (*RebuildOutput, error) {
	if err := store.RebuildIndex(); err != nil {
		return nil, err
	}

	captures, err := store.CountCaptures()
	if err != nil {
		return nil, err
	}
	entries, err := store.CountIndexEntries()
	if err != nil {
		return nil, err
	}

	return &RebuildOutput{Captures: captures, Entries: entries}, nil
}
