// Package history persists engine run records so watch-mode activity can be
// inspected after the fact.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Run is one recorded engine run.
type Run struct {
	ID        int64
	RunID     string
	Trigger   string
	Outcome   string
	Error     string
	Duration  time.Duration
	Timestamp time.Time
}

// Store persists runs in SQLite.
// Use ":memory:" for an in-memory database, or a file path for persistence.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewStore opens (and initializes) the run history database.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		trigger_type TEXT NOT NULL,
		outcome TEXT NOT NULL,
		error TEXT,
		duration_ms INTEGER NOT NULL,
		timestamp INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_run_id ON runs(run_id);
	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append records a completed run.
func (s *Store) Append(ctx context.Context, run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := run.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO runs (run_id, trigger_type, outcome, error, duration_ms, timestamp) VALUES (?, ?, ?, ?, ?, ?)",
		run.RunID, run.Trigger, run.Outcome, run.Error, run.Duration.Milliseconds(), ts.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// Recent returns the latest runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, run_id, trigger_type, outcome, error, duration_ms, timestamp FROM runs ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	return s.scanRuns(rows)
}

// ByRunID returns all records for one run ID.
func (s *Store) ByRunID(ctx context.Context, runID string) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, run_id, trigger_type, outcome, error, duration_ms, timestamp FROM runs WHERE run_id = ? ORDER BY id",
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	return s.scanRuns(rows)
}

func (s *Store) scanRuns(rows *sql.Rows) ([]Run, error) {
	var runs []Run
	for rows.Next() {
		var r Run
		var errText sql.NullString
		var durationMS int64
		var tsUnix int64

		if err := rows.Scan(&r.ID, &r.RunID, &r.Trigger, &r.Outcome, &errText, &durationMS, &tsUnix); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Error = errText.String
		r.Duration = time.Duration(durationMS) * time.Millisecond
		r.Timestamp = time.Unix(tsUnix, 0)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return runs, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
