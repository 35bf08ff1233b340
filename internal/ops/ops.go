// Package ops implements the operation layer: validation, defaults, and
// orchestration between the store, the search engine, and the file surfaces.
// Every CLI command and MCP tool maps onto exactly one operation here.
package ops

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// Result-count limits. Callers passing zero get the default; anything above
// the max is clamped.
const (
	DefaultSearchLimit = 50
	MaxSearchLimit     = 200
	DefaultRecentLimit = 50
	MaxRecentLimit     = 500
	DefaultByAppLimit  = 20
	MaxByAppLimit      = 500
	MaxBatchItems      = 100
)

// clampLimit applies default/max bounds to a requested result count.
func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

// cleanOptionalString trims an optional string, treating whitespace-only
// values as absent.
func cleanOptionalString(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// generateULID generates a new ULID, used as the shared batch identifier for
// one buffered flush.
func generateULID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
