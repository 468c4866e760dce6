// Package sqlitestore implements the record-store contract on an
// embedded SQLite database, one table per entity kind with indexed
// lookup columns. Each operation runs as a single statement, so the
// engine's transaction semantics provide the per-operation atomicity
// the flat-file adapter gets from its lock-and-rename cycle.
package sqlitestore

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Store is the relational backend. It satisfies storage.Store.
type Store struct {
	db  *sql.DB
	log *slog.Logger
}

// New opens (creating if needed) the database file and brings the
// schema up to date.
func New(dbPath string, log *slog.Logger) (*Store, error) {
	const op = "sqlitestore.New"

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := runMigrations(dbPath); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Store{db: db, log: log}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Timestamps are stored as RFC 3339 text so records survive a backend
// swap byte-for-byte.
const timeLayout = time.RFC3339Nano

func fmtTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func joinSet(set []string) string {
	return strings.Join(set, ", ")
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
