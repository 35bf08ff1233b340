// Package db implements the capture store: durable persistence of capture
// records in SQLite plus the full-text index kept in 1:1 sync with them.
package db

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/keystash/keystash/internal/config"
	_ "modernc.org/sqlite"
)

// CurrentSchemaVersion is the latest schema version.
// Bump this when adding migrations.
const CurrentSchemaVersion = 1

// Store owns the SQLite database and the full-text index derived from it.
// A single mutex serializes every operation — readers and writers alike.
// Write volume is low (periodic buffer flushes, not per-keystroke), so
// simplicity wins over throughput here.
type Store struct {
	mu sync.Mutex
	db *sql.DB
}

// Init initializes the SQLite database at baseDir/captures.db and returns
// the store. The baseDir parameter allows tests to use t.TempDir() instead
// of ~/.keystash.
//
// After migration, the full-text index is reconciled against the captures
// table: a count mismatch (e.g. from a crash between the row insert and the
// index insert) triggers a full rebuild.
func Init(baseDir string) (*Store, error) {
	// Create base directory with restricted permissions
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	_ = os.Chmod(baseDir, 0700)

	// Create exports subdirectory
	exportsDir := filepath.Join(baseDir, "exports")
	if err := os.MkdirAll(exportsDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create exports directory: %w", err)
	}
	_ = os.Chmod(exportsDir, 0700)

	// Open database with pragmas in connection string (applies to all connections)
	dbPath := filepath.Join(baseDir, "captures.db")
	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	database, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := verifyWALMode(database); err != nil {
		database.Close()
		return nil, err
	}

	if err := migrate(database); err != nil {
		database.Close()
		return nil, err
	}

	// Set file permissions after file exists (best-effort)
	_ = os.Chmod(dbPath, 0600)

	s := &Store{db: database}

	// Self-heal a partially written index before serving queries.
	if err := s.reconcileIndex(); err != nil {
		database.Close()
		return nil, err
	}

	return s, nil
}

// ConfigurePool applies connection pool settings from config.
// Only sets limits if explicitly configured (non-zero values).
func (s *Store) ConfigurePool(cfg *config.Config) {
	if cfg == nil {
		return
	}
	if cfg.Database.MaxOpenConns > 0 {
		s.db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	}
	if cfg.Database.MaxIdleConns > 0 {
		s.db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	}
}

// Close closes the underlying database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// reconcileIndex compares index entry and capture counts and rebuilds the
// index when they differ.
func (s *Store) reconcileIndex() error {
	captures, err := s.countCaptures()
	if err != nil {
		return err
	}
	entries, err := s.countIndexEntries()
	if err != nil {
		return err
	}
	if captures == entries {
		return nil
	}

	slog.Warn("full-text index out of sync, rebuilding",
		slog.Int("captures", captures),
		slog.Int("index_entries", entries))
	return s.rebuildIndex()
}

// migrate applies schema migrations based on user_version.
func migrate(db *sql.DB) error {
	version, err := GetUserVersion(db)
	if err != nil {
		return err
	}

	// Migration 0 -> 1: Initial schema (v1)
	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS captures (
		  id          INTEGER PRIMARY KEY AUTOINCREMENT,
		  app_name    TEXT NOT NULL,
		  content     TEXT NOT NULL,
		  start_time  INTEGER NOT NULL,
		  end_time    INTEGER NOT NULL,
		  char_count  INTEGER NOT NULL,
		  word_count  INTEGER NOT NULL,
		  batch_id    TEXT,
		  created_at  INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_captures_app_created
		ON captures(app_name, created_at DESC);

		CREATE INDEX IF NOT EXISTS idx_captures_created
		ON captures(created_at DESC);

		CREATE VIRTUAL TABLE IF NOT EXISTS captures_fts USING fts5(
		  capture_id UNINDEXED,
		  app_name UNINDEXED,
		  content,
		  created_at UNINDEXED,
		  tokenize='unicode61'
		);
		`
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("migration 1 failed: %w", err)
		}
		if err := SetUserVersion(db, 1); err != nil {
			return err
		}
	}

	// Future migrations go here:
	// if version < 2 { ... }

	return nil
}

// verifyWALMode checks that WAL mode is active (set via connection string).
func verifyWALMode(db *sql.DB) error {
	var journalMode string
	if err := db.QueryRow("PRAGMA journal_mode;").Scan(&journalMode); err != nil {
		return fmt.Errorf("failed to verify journal mode: %w", err)
	}
	if journalMode != "wal" {
		return fmt.Errorf("expected WAL mode, got %s", journalMode)
	}
	return nil
}

// GetUserVersion returns the current schema version (user_version pragma).
func GetUserVersion(db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get user_version: %w", err)
	}
	return version, nil
}

// SetUserVersion sets the schema version (user_version pragma).
func SetUserVersion(db *sql.DB, version int) error {
	_, err := db.Exec(fmt.Sprintf("PRAGMA user_version=%d", version))
	if err != nil {
		return fmt.Errorf("failed to set user_version: %w", err)
	}
	return nil
}
