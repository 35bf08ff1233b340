package db

import (
	"database/sql"
	"time"

	"github.com/keystash/keystash/internal/capture"
	"github.com/keystash/keystash/internal/errors"
)

const captureColumns = `id, app_name, content, start_time, end_time,
	char_count, word_count, batch_id, created_at`

// DB exposes the raw database handle. Intended for tests and one-off
// maintenance; regular callers go through Store methods.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Insert persists a new capture and its index entry in one transaction,
// assigning the identifier and creation timestamp. The capture's ID and
// CreatedAt fields are set on success.
func (s *Store) Insert(c *capture.Capture) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().Unix()

	tx, err := s.db.Begin()
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`
		INSERT INTO captures (app_name, content, start_time, end_time,
			char_count, word_count, batch_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.AppName, c.Content, c.StartTime, c.EndTime,
		c.CharCount, c.WordCount, toNullString(c.BatchID), now,
	)
	if err != nil {
		return 0, errors.NewInternal(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, errors.NewInternal(err)
	}

	// Index entry rides in the same transaction so a crash cannot commit
	// one side without the other.
	if _, err := tx.Exec(`
		INSERT INTO captures_fts (capture_id, app_name, content, created_at)
		VALUES (?, ?, ?, ?)`,
		id, c.AppName, c.Content, now,
	); err != nil {
		return 0, errors.NewInternal(err)
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.NewInternal(err)
	}

	c.ID = id
	c.CreatedAt = now
	return id, nil
}

// GetByID retrieves a capture by its identifier.
func (s *Store) GetByID(id int64) (*capture.Capture, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRow(`
		SELECT `+captureColumns+`
		FROM captures
		WHERE id = ?`, id)

	c, err := scanCapture(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return c, nil
}

// Recent returns up to limit captures ordered newest creation timestamp
// first. Within a creation-timestamp tie, insertion order is preserved.
func (s *Store) Recent(limit int) ([]capture.Capture, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
		SELECT `+captureColumns+`
		FROM captures
		ORDER BY created_at DESC, id ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	return scanCaptures(rows)
}

// ByApp returns up to limit captures for the given application, newest first.
func (s *Store) ByApp(appName string, limit int) ([]capture.Capture, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
		SELECT `+captureColumns+`
		FROM captures
		WHERE app_name = ?
		ORDER BY created_at DESC, id ASC
		LIMIT ?`, appName, limit)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	return scanCaptures(rows)
}

// AllForExport returns every capture, optionally filtered by application,
// in insertion order.
func (s *Store) AllForExport(appName *string) ([]capture.Capture, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `SELECT ` + captureColumns + ` FROM captures`
	var args []any
	if appName != nil {
		query += ` WHERE app_name = ?`
		args = append(args, *appName)
	}
	query += ` ORDER BY id ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	return scanCaptures(rows)
}

// CountCaptures returns the number of capture rows.
func (s *Store) CountCaptures() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countCaptures()
}

// CountIndexEntries returns the number of full-text index entries.
func (s *Store) CountIndexEntries() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countIndexEntries()
}

func (s *Store) countCaptures() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM captures`).Scan(&n); err != nil {
		return 0, errors.NewInternal(err)
	}
	return n, nil
}

func (s *Store) countIndexEntries() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM captures_fts`).Scan(&n); err != nil {
		return 0, errors.NewInternal(err)
	}
	return n, nil
}

// Stats computes the aggregate snapshot: totals plus the top 5 applications
// by capture count. Count ties break alphabetically so the breakdown is
// deterministic for a fixed dataset.
func (s *Store) Stats() (*capture.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := &capture.Stats{TopApps: []capture.AppCount{}}

	err := s.db.QueryRow(`
		SELECT COUNT(*), COUNT(DISTINCT app_name),
			COALESCE(SUM(char_count), 0), COALESCE(SUM(word_count), 0)
		FROM captures`).Scan(
		&stats.TotalCaptures, &stats.UniqueApps,
		&stats.TotalChars, &stats.TotalWords,
	)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	rows, err := s.db.Query(`
		SELECT app_name, COUNT(*) AS n
		FROM captures
		GROUP BY app_name
		ORDER BY n DESC, app_name ASC
		LIMIT 5`)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	for rows.Next() {
		var ac capture.AppCount
		if err := rows.Scan(&ac.AppName, &ac.Captures); err != nil {
			return nil, errors.NewInternal(err)
		}
		stats.TopApps = append(stats.TopApps, ac)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return stats, nil
}

// AppCounts returns every application with its capture count, most captures
// first, count ties broken alphabetically.
func (s *Store) AppCounts() ([]capture.AppCount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
		SELECT app_name, COUNT(*) AS n
		FROM captures
		GROUP BY app_name
		ORDER BY n DESC, app_name ASC`)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	counts := []capture.AppCount{}
	for rows.Next() {
		var ac capture.AppCount
		if err := rows.Scan(&ac.AppName, &ac.Captures); err != nil {
			return nil, errors.NewInternal(err)
		}
		counts = append(counts, ac)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return counts, nil
}

// scanner abstracts *sql.Row and *sql.Rows for scanCapture.
type scanner interface {
	Scan(dest ...any) error
}

// scanCapture scans a single row into a Capture struct.
func scanCapture(row scanner) (*capture.Capture, error) {
	var (
		c       capture.Capture
		batchID sql.NullString
	)

	err := row.Scan(
		&c.ID, &c.AppName, &c.Content, &c.StartTime, &c.EndTime,
		&c.CharCount, &c.WordCount, &batchID, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.BatchID = fromNullString(batchID)
	return &c, nil
}

// scanCaptures drains rows into a slice, wrapping failures as internal errors.
func scanCaptures(rows *sql.Rows) ([]capture.Capture, error) {
	captures := []capture.Capture{}
	for rows.Next() {
		c, err := scanCapture(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		captures = append(captures, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return captures, nil
}

// toNullString converts a *string to sql.NullString.
func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// fromNullString converts a sql.NullString to *string.
func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
