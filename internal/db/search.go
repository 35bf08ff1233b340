package db

import (
	"log/slog"
	"strings"

	"github.com/keystash/keystash/internal/capture"
	"github.com/keystash/keystash/internal/errors"
)

// SearchIndex executes a MATCH query against the full-text index and returns
// the corresponding captures, ordered by the index's native rank (bm25) then
// newest creation timestamp, capped at limit. An appName filter restricts
// results to one application.
//
// Malformed MATCH expressions are treated as "no results" rather than an
// error: the index is a best-effort read path.
func (s *Store) SearchIndex(match string, appName *string, limit int) ([]capture.Capture, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		SELECT c.id, c.app_name, c.content, c.start_time, c.end_time,
			c.char_count, c.word_count, c.batch_id, c.created_at
		FROM captures_fts
		JOIN captures c ON c.id = captures_fts.capture_id
		WHERE captures_fts MATCH ?`
	args := []any{match}

	if appName != nil {
		query += ` AND captures_fts.app_name = ?`
		args = append(args, *appName)
	}

	query += `
		ORDER BY bm25(captures_fts), c.created_at DESC
		LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		// The SQL is fixed; a failure here means the MATCH expression did
		// not compile. The driver's wording varies ("fts5: syntax error",
		// "unterminated string"), so any query error yields no results.
		slog.Warn("full-text query rejected", "error", err)
		return []capture.Capture{}, nil
	}
	defer rows.Close()

	return scanCaptures(rows)
}

// RecentExcluding returns up to limit of the most recent captures whose
// identifiers are not in exclude, optionally filtered by application.
// Feeds the fuzzy-fallback scan with candidates the index stage missed.
func (s *Store) RecentExcluding(appName *string, exclude []int64, limit int) ([]capture.Capture, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		SELECT ` + captureColumns + `
		FROM captures`
	var clauses []string
	var args []any

	if appName != nil {
		clauses = append(clauses, `app_name = ?`)
		args = append(args, *appName)
	}
	if len(exclude) > 0 {
		placeholders := make([]string, len(exclude))
		for i, id := range exclude {
			placeholders[i] = "?"
			args = append(args, id)
		}
		clauses = append(clauses, `id NOT IN (`+strings.Join(placeholders, ",")+`)`)
	}

	if len(clauses) > 0 {
		query += ` WHERE ` + strings.Join(clauses, " AND ")
	}
	query += `
		ORDER BY created_at DESC, id DESC
		LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	return scanCaptures(rows)
}
