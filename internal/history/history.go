// Package history persists command invocations to SQLite. The demo
// shell records through a post-execution hook; the library core never
// touches this package.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/footprint-tools/lamp/internal/history/migrations"
)

// Invocation is one recorded command execution.
type Invocation struct {
	ID          int64
	ExecutionID string
	Path        string
	Input       string
	Actor       string
	Success     bool
	Error       string
	InvokedAt   time.Time
}

// Store wraps a SQLite database connection for invocation storage.
type Store struct {
	db   *sql.DB
	path string
}

// New creates a Store at the given database path.
// Runs migrations automatically.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	setDBPermissions(path)

	if err = migrations.Run(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// NewWithDB creates a Store from an existing database connection.
// Useful for testing with pre-configured databases.
func NewWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB returns the underlying database connection.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// setDBPermissions sets restrictive file permissions on the database and
// its WAL/SHM files.
func setDBPermissions(path string) {
	if path == ":memory:" {
		return
	}
	_ = os.Chmod(path, 0600)
	_ = os.Chmod(path+"-wal", 0600)
	_ = os.Chmod(path+"-shm", 0600)
}

// Record inserts one invocation.
func (s *Store) Record(inv Invocation) error {
	_, err := s.db.Exec(`
		INSERT INTO invocations (execution_id, path, input, actor, success, error, invoked_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		inv.ExecutionID,
		inv.Path,
		inv.Input,
		inv.Actor,
		boolToInt(inv.Success),
		inv.Error,
		inv.InvokedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert invocation: %w", err)
	}
	return nil
}

// Recent returns the most recent invocations, newest first.
func (s *Store) Recent(limit int) ([]Invocation, error) {
	rows, err := s.db.Query(`
		SELECT id, execution_id, path, input, actor, success, error, invoked_at
		FROM invocations
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query invocations: %w", err)
	}
	defer rows.Close()

	var out []Invocation
	for rows.Next() {
		var inv Invocation
		var success int
		var invokedAt string
		if err := rows.Scan(
			&inv.ID, &inv.ExecutionID, &inv.Path, &inv.Input,
			&inv.Actor, &success, &inv.Error, &invokedAt,
		); err != nil {
			return nil, fmt.Errorf("scan invocation: %w", err)
		}
		inv.Success = success != 0
		if t, err := time.Parse(time.RFC3339, invokedAt); err == nil {
			inv.InvokedAt = t
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
