// Package state persists run history in a SQLite database so past
// takeoff results can be listed and compared across drawing revisions.
package state

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/takeline-labs/takeline/internal/validate"
)

//go:embed schema.sql
var schemaSQL string

// RunStatus describes a run's lifecycle state.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run is one recorded takeoff execution.
type Run struct {
	ID          string
	Project     string
	Status      RunStatus
	StartedAt   time.Time
	CompletedAt *time.Time
	Error       string

	// Validation tallies, zero until the run completes with a ground
	// truth comparison.
	Items      int
	Exact      int
	Close      int
	Acceptable int
	Miss       int
	OverallPct float64
}

// SQLiteStore records runs and their per-item results.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore creates an unopened store.
func NewSQLiteStore() *SQLiteStore {
	return &SQLiteStore{}
}

// Open opens the database at path, ":memory:" for an in-memory store,
// and applies the schema.
func (s *SQLiteStore) Open(path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("opening state database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("pinging state database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return fmt.Errorf("enabling foreign keys: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return fmt.Errorf("initializing schema: %w", err)
	}

	s.db = db
	s.path = path
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func generateID() string {
	return uuid.New().String()
}

// CreateRun records the start of a run for the named project.
func (s *SQLiteStore) CreateRun(project string) (*Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	run := &Run{
		ID:        generateID(),
		Project:   project,
		Status:    RunStatusRunning,
		StartedAt: time.Now().UTC(),
	}

	_, err := s.db.Exec(
		`INSERT INTO runs (id, project, status, started_at) VALUES (?, ?, ?, ?)`,
		run.ID, run.Project, run.Status, run.StartedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating run: %w", err)
	}
	return run, nil
}

// CompleteRun marks a run finished, storing the validation summary and
// an error message when the run failed.
func (s *SQLiteStore) CompleteRun(id string, status RunStatus, summary validate.Summary, errMsg string) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	now := time.Now().UTC()
	_, err := s.db.Exec(
		`UPDATE runs
		 SET status = ?, completed_at = ?, error = ?,
		     items = ?, exact = ?, close = ?, acceptable = ?, miss = ?, overall_pct = ?
		 WHERE id = ?`,
		status, now, nullString(errMsg),
		summary.Total, summary.Exact, summary.Close, summary.Acceptable, summary.Miss, summary.OverallPct,
		id,
	)
	if err != nil {
		return fmt.Errorf("completing run: %w", err)
	}
	return nil
}

// SaveRecords stores the per-item comparison results for a run.
func (s *SQLiteStore) SaveRecords(runID string, records []validate.Record) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("saving records: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO run_items (run_id, item, expected, actual, difference, accuracy_pct, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("saving records: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.Exec(runID, r.Item, r.Expected, r.Actual, r.Difference, r.AccuracyPct, string(r.Status)); err != nil {
			return fmt.Errorf("saving record %q: %w", r.Item, err)
		}
	}
	return tx.Commit()
}

// GetRun retrieves a run by ID.
func (s *SQLiteStore) GetRun(id string) (*Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	row := s.db.QueryRow(
		`SELECT id, project, status, started_at, completed_at, error,
		        items, exact, close, acceptable, miss, overall_pct
		 FROM runs WHERE id = ?`, id,
	)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("getting run: %w", err)
	}
	return run, nil
}

// GetRecords retrieves the per-item results for a run, sorted by item.
func (s *SQLiteStore) GetRecords(runID string) ([]validate.Record, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.Query(
		`SELECT item, expected, actual, difference, accuracy_pct, status
		 FROM run_items WHERE run_id = ? ORDER BY item`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("getting records: %w", err)
	}
	defer rows.Close()

	var records []validate.Record
	for rows.Next() {
		var r validate.Record
		var status string
		if err := rows.Scan(&r.Item, &r.Expected, &r.Actual, &r.Difference, &r.AccuracyPct, &status); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		r.Status = validate.Status(status)
		records = append(records, r)
	}
	return records, rows.Err()
}

// ListRuns retrieves the most recent runs up to limit.
func (s *SQLiteStore) ListRuns(limit int) ([]*Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.Query(
		`SELECT id, project, status, started_at, completed_at, error,
		        items, exact, close, acceptable, miss, overall_pct
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("listing runs: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	run := &Run{}
	var completedAt sql.NullTime
	var errMsg sql.NullString

	err := row.Scan(
		&run.ID, &run.Project, &run.Status, &run.StartedAt, &completedAt, &errMsg,
		&run.Items, &run.Exact, &run.Close, &run.Acceptable, &run.Miss, &run.OverallPct,
	)
	if err != nil {
		return nil, err
	}
	if completedAt.Valid {
		run.CompletedAt = &completedAt.Time
	}
	if errMsg.Valid {
		run.Error = errMsg.String
	}
	return run, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
