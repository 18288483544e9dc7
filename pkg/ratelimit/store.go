package ratelimit

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store persists the per-key timestamp window so that restarts do not reset
// the rate budget. Implementations must tolerate concurrent use from a
// single Limiter (calls are already serialized under the limiter's mutex).
type Store interface {
	// Load returns the recorded timestamps for key in ascending order.
	// A missing key yields an empty slice, not an error.
	Load(key string) ([]time.Time, error)
	// Save replaces the recorded timestamps for key.
	Save(key string, stamps []time.Time) error
}

// SQLiteStore keeps rate windows in a local SQLite database. Suited for the
// single-process deployment model of a stdio tool server.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (and if needed initializes) the database at path.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening rate limit db: %w", err)
	}

	const schema = `CREATE TABLE IF NOT EXISTS rate_events (
		key TEXT NOT NULL,
		at_unix_ms INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_rate_events_key ON rate_events (key, at_unix_ms);`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing rate limit schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Load returns the recorded timestamps for key, oldest first.
func (s *SQLiteStore) Load(key string) ([]time.Time, error) {
	rows, err := s.db.Query(
		`SELECT at_unix_ms FROM rate_events WHERE key = ? ORDER BY at_unix_ms ASC`, key)
	if err != nil {
		return nil, fmt.Errorf("loading rate window for %q: %w", key, err)
	}
	defer rows.Close()

	var stamps []time.Time
	for rows.Next() {
		var ms int64
		if err := rows.Scan(&ms); err != nil {
			return nil, fmt.Errorf("scanning rate event: %w", err)
		}
		stamps = append(stamps, time.UnixMilli(ms))
	}
	return stamps, rows.Err()
}

// Save replaces the stored window for key in one transaction.
func (s *SQLiteStore) Save(key string, stamps []time.Time) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("starting rate window save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM rate_events WHERE key = ?`, key); err != nil {
		return fmt.Errorf("clearing rate window for %q: %w", key, err)
	}

	stmt, err := tx.Prepare(`INSERT INTO rate_events (key, at_unix_ms) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing rate event insert: %w", err)
	}
	defer stmt.Close()

	for _, ts := range stamps {
		if _, err := stmt.Exec(key, ts.UnixMilli()); err != nil {
			return fmt.Errorf("recording rate event for %q: %w", key, err)
		}
	}

	return tx.Commit()
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
