package ops

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/keystash/keystash/internal/config"
	"github.com/keystash/keystash/internal/db"
	"github.com/keystash/keystash/internal/errors"
)

// Max line size for import files (16 MB). Captures are keyboard input; a
// longer line is a corrupt file, not data.
const maxImportLineBytes = 16 * 1024 * 1024

// ImportInput contains parameters for the Import operation.
type ImportInput struct {
	Path string // required, a JSONL file produced by Export
}

// ImportOutput contains the result of the Import operation.
type ImportOutput struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// importRecord mirrors the capture export line, ignoring the original id and
// created_at: imports get fresh identifiers and timestamps.
type importRecord struct {
	AppName   string  `json:"app_name"`
	Content   string  `json:"content"`
	StartTime int64   `json:"start_time"`
	EndTime   int64   `json:"end_time"`
	BatchID   *string `json:"batch_id"`
}

// Import restores captures from a JSONL export file. Each capture gets a new
// identifier; char/word counts are recomputed rather than trusted. Malformed
// lines are skipped and reported, valid lines still land.
func Import(ctx context.Context, store *db.Store, cfg *config.Config, input ImportInput) (*ImportOutput, error) {
	if err := ValidatePath(input.Path, PathCheckRead, cfg); err != nil {
		return nil, err
	}

	file, err := openFileNoFollowRead(input.Path)
	if err != nil {
		if _, ok := err.(*errors.StashError); ok {
			return nil, err
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to open import file: %w", err))
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), maxImportLineBytes)

	// First line must be the export header.
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, errors.NewInternal(err)
		}
		return nil, errors.NewInvalidRequest("import file is empty")
	}
	var header ExportHeader
	if err := json.Unmarshal(scanner.Bytes(), &header); err != nil || !header.KeystashExport {
		return nil, errors.NewInvalidRequest("import file is not a keystash export (missing header)")
	}

	out := &ImportOutput{}
	lineNo := 1
	for scanner.Scan() {
		lineNo++

		select {
		case <-ctx.Done():
			return nil, errors.NewCancelled("import")
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var rec importRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			out.Skipped++
			out.Errors = append(out.Errors, fmt.Sprintf("line %d: invalid JSON", lineNo))
			continue
		}

		if _, err := Save(ctx, store, cfg, SaveInput{
			AppName:   rec.AppName,
			Content:   rec.Content,
			StartTime: rec.StartTime,
			EndTime:   rec.EndTime,
			BatchID:   rec.BatchID,
		}); err != nil {
			out.Skipped++
			out.Errors = append(out.Errors, fmt.Sprintf("line %d: %v", lineNo, err))
			continue
		}
		out.Imported++
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return out, nil
}
