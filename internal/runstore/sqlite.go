package runstore

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore creates a new SQLite-based run store.
// Use ":memory:" for an in-memory database, or a file path for persistent storage.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		started_at INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		source TEXT NOT NULL,
		dest TEXT NOT NULL,
		files INTEGER NOT NULL,
		bytes INTEGER NOT NULL,
		commit_hash TEXT,
		error TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_run_id ON runs(run_id);
	CREATE INDEX IF NOT EXISTS idx_started_at ON runs(started_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append records a completed run.
func (s *SQLiteStore) Append(ctx context.Context, run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (run_id, started_at, duration_ms, outcome, source, dest, files, bytes, commit_hash, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.StartedAt.Unix(), run.Duration.Milliseconds(), string(run.Outcome),
		run.Source, run.Dest, run.Files, run.Bytes, run.Commit, run.Error,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	return nil
}

// Recent retrieves the most recent runs, newest first.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, started_at, duration_ms, outcome, source, dest, files, bytes, commit_hash, error
		 FROM runs ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

func scanRuns(rows *sql.Rows) ([]Run, error) {
	var runs []Run
	for rows.Next() {
		var r Run
		var startedUnix, durationMS int64
		var outcome string

		err := rows.Scan(&r.ID, &r.RunID, &startedUnix, &durationMS, &outcome,
			&r.Source, &r.Dest, &r.Files, &r.Bytes, &r.Commit, &r.Error)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}

		r.StartedAt = time.Unix(startedUnix, 0)
		r.Duration = time.Duration(durationMS) * time.Millisecond
		r.Outcome = Outcome(outcome)

		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return runs, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

var _ Store = (*SQLiteStore)(nil)
