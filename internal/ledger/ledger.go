// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger persists run history in a SQLite database.
// Implements: prd005-ledger (R1-R3);
//
//	docs/ARCHITECTURE § Run Ledger.
package ledger

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/textmill/pkg/types"
)

// Store manages the run-history SQLite database.
type Store struct {
	db *sql.DB
}

// Run is one recorded batch run.
type Run struct {
	ID         int64
	StartedAt  time.Time
	FinishedAt time.Time
	Converted  int
	Skipped    int
	Failed     int
}

// Open opens or creates the ledger database at path, creating the schema
// if it does not exist.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL,
			converted INTEGER NOT NULL,
			skipped INTEGER NOT NULL,
			failed INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS outcomes (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL REFERENCES runs(id),
			name TEXT NOT NULL,
			method TEXT NOT NULL,
			text_path TEXT,
			error TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_outcomes_run_id ON outcomes(run_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RecordRun inserts one batch run and its per-document outcomes,
// returning the run ID.
func (s *Store) RecordRun(started, finished time.Time, outcomes []types.Outcome) (int64, error) {
	var converted, skipped, failed int
	for _, o := range outcomes {
		switch o.Method {
		case types.MethodSkipped:
			skipped++
		case types.MethodFailed:
			failed++
		default:
			converted++
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO runs (started_at, finished_at, converted, skipped, failed) VALUES (?, ?, ?, ?, ?)`,
		started.UTC().Format(time.RFC3339), finished.UTC().Format(time.RFC3339),
		converted, skipped, failed,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	for _, o := range outcomes {
		if _, err := tx.Exec(
			`INSERT INTO outcomes (run_id, name, method, text_path, error) VALUES (?, ?, ?, ?, ?)`,
			runID, o.Document.Name, string(o.Method), o.TextPath, o.Error,
		); err != nil {
			return 0, fmt.Errorf("inserting outcome for %s: %w", o.Document.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, started_at, finished_at, converted, skipped, failed
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started, finished string
		if err := rows.Scan(&r.ID, &started, &finished, &r.Converted, &r.Skipped, &r.Failed); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if t, parseErr := time.Parse(time.RFC3339, started); parseErr == nil {
			r.StartedAt = t
		}
		if t, parseErr := time.Parse(time.RFC3339, finished); parseErr == nil {
			r.FinishedAt = t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Outcomes returns the per-document outcomes for one run, in insertion order.
func (s *Store) Outcomes(runID int64) ([]types.Outcome, error) {
	rows, err := s.db.Query(
		`SELECT name, method, text_path, error FROM outcomes WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []types.Outcome
	for rows.Next() {
		var o types.Outcome
		var textPath, errMsg sql.NullString
		if err := rows.Scan(&o.Document.Name, &o.Method, &textPath, &errMsg); err != nil {
			return nil, fmt.Errorf("scanning outcome: %w", err)
		}
		o.TextPath = textPath.String
		o.Error = errMsg.String
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}
