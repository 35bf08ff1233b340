package db

import (
	"github.com/keystash/keystash/internal/errors"
)

// RebuildIndex drops every full-text index entry and re-derives the index
// from the captures table. Idempotent; concurrent reads are blocked for its
// duration (the index is swapped atomically from the caller's perspective).
func (s *Store) RebuildIndex() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rebuildIndex()
}

// rebuildIndex is the unlocked implementation, shared with startup
// reconciliation which already runs before the store is published.
func (s *Store) rebuildIndex() error {
	tx, err := s.db.Begin()
	if err != nil {
		return errors.NewInternal(err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM captures_fts`); err != nil {
		return errors.NewInternal(err)
	}

	if _, err := tx.Exec(`
		INSERT INTO captures_fts (capture_id, app_name, content, created_at)
		SELECT id, app_name, content, created_at FROM captures`); err != nil {
		return errors.NewInternal(err)
	}

	if err := tx.Commit(); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// CheckConsistency reports whether the index entry count matches the capture
// count. A mismatch means the index needs a rebuild.
func (s *Store) CheckConsistency() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	captures, err := s.countCaptures()
	if err != nil {
		return false, err
	}
	entries, err := s.countIndexEntries()
	if err != nil {
		return false, err
	}
	return captures == entries, nil
}
