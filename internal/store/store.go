// Package store persists pipeline run history in a local SQLite database.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store wraps the SQLite connection and provides access to repositories.
type Store struct {
	db *sql.DB
}

// Open creates a Store connected to the SQLite database at dsn.
// It applies recommended pragmas and creates the schema if needed.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Runs returns a RunRepo backed by this store.
func (s *Store) Runs() RunRepo {
	return &runRepo{db: s.db}
}

// applyPragmas configures SQLite for single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func migrate(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	status TEXT NOT NULL,
	iterations INTEGER NOT NULL,
	total_minutes REAL NOT NULL,
	suboptimal_selections INTEGER NOT NULL DEFAULT 0,
	stalled INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS run_sprints (
	run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	seq INTEGER NOT NULL,
	activities TEXT NOT NULL,
	minutes REAL NOT NULL,
	PRIMARY KEY (run_id, seq)
);
CREATE TABLE IF NOT EXISTS run_mastery (
	run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	lesson_id TEXT NOT NULL,
	mastery REAL NOT NULL,
	PRIMARY KEY (run_id, lesson_id)
);`
	if _, err := db.Exec(schema); err != nil {
		return err
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. PATHWEAVER_DB environment variable
// 2. $XDG_DATA_HOME/pathweaver/pathweaver.db
// 3. ~/.local/share/pathweaver/pathweaver.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("PATHWEAVER_DB"); p != "" {
		return p, EnsureDir(p)
	}
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	p := filepath.Join(dataHome, "pathweaver", "pathweaver.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if missing.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
