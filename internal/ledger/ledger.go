// Package ledger persists run summaries and per-file outcomes to a local
// SQLite database. Persistence is optional; the annotation run itself never
// depends on the ledger and degrades to a warning when it is unavailable.
package ledger

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// File statuses recorded per processed path
const (
	StatusAnnotated = "annotated"
	StatusSkipped   = "skipped"
	StatusFailed    = "failed"
)

// Run is one recorded annotation run
type Run struct {
	ID        string
	StartedAt time.Time
	Root      string
	Policy    string
	Model     string
	Matched   int
	Annotated int
	Skipped   int
	Ignored   int
	Failed    int
}

// FileRecord is the outcome for one processed path
type FileRecord struct {
	Path   string
	Status string
	Error  string
}

// Ledger manages the SQLite database
type Ledger struct {
	db   *sql.DB
	path string
}

// Open opens (creating if necessary) the ledger database at path.
func Open(path string) (*Ledger, error) {
	if path == "" {
		return nil, fmt.Errorf("ledger path is empty")
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create ledger directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}

	// busy_timeout first so later statements wait on locks instead of failing
	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init ledger schema: %w", err)
	}

	return &Ledger{db: db, path: path}, nil
}

// Close closes the underlying database
func (l *Ledger) Close() error {
	return l.db.Close()
}

// RecordRun inserts one run and its per-file outcomes in a single transaction.
func (l *Ledger) RecordRun(ctx context.Context, run Run, files []FileRecord) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin ledger transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, root, policy, model, matched, annotated, skipped, ignored, failed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.UTC(), run.Root, run.Policy, run.Model,
		run.Matched, run.Annotated, run.Skipped, run.Ignored, run.Failed)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO run_files (run_id, path, status, error) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare file insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, f := range files {
		if _, err := stmt.ExecContext(ctx, run.ID, f.Path, f.Status, f.Error); err != nil {
			return fmt.Errorf("insert file record for %s: %w", f.Path, err)
		}
	}

	return tx.Commit()
}

// RecentRuns returns the most recent runs, newest first.
func (l *Ledger) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := l.db.QueryContext(ctx,
		`SELECT id, started_at, root, policy, model, matched, annotated, skipped, ignored, failed
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.Root, &r.Policy, &r.Model,
			&r.Matched, &r.Annotated, &r.Skipped, &r.Ignored, &r.Failed); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// FindRun returns the single run whose ID starts with idPrefix, so the short
// IDs shown by the history listing can be used to look a run up.
func (l *Ledger) FindRun(ctx context.Context, idPrefix string) (Run, error) {
	if idPrefix == "" {
		return Run{}, fmt.Errorf("run ID is empty")
	}

	rows, err := l.db.QueryContext(ctx,
		`SELECT id, started_at, root, policy, model, matched, annotated, skipped, ignored, failed
		 FROM runs WHERE id LIKE ? LIMIT 2`, idPrefix+"%")
	if err != nil {
		return Run{}, fmt.Errorf("query run: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var matches []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.Root, &r.Policy, &r.Model,
			&r.Matched, &r.Annotated, &r.Skipped, &r.Ignored, &r.Failed); err != nil {
			return Run{}, fmt.Errorf("scan run: %w", err)
		}
		matches = append(matches, r)
	}
	if err := rows.Err(); err != nil {
		return Run{}, err
	}

	switch len(matches) {
	case 0:
		return Run{}, fmt.Errorf("no run with ID %s", idPrefix)
	case 1:
		return matches[0], nil
	default:
		return Run{}, fmt.Errorf("run ID %s is ambiguous", idPrefix)
	}
}

// RunFiles returns the per-file outcomes recorded for one run.
func (l *Ledger) RunFiles(ctx context.Context, runID string) ([]FileRecord, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT path, status, error FROM run_files WHERE run_id = ? ORDER BY path`, runID)
	if err != nil {
		return nil, fmt.Errorf("query run files: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var files []FileRecord
	for rows.Next() {
		var f FileRecord
		if err := rows.Scan(&f.Path, &f.Status, &f.Error); err != nil {
			return nil, fmt.Errorf("scan file record: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}
