// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger keeps a SQLite history of generate runs. It is a record for
// operators only; topic selection never reads it.
package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/autopost/pkg/types"
)

const defaultListLimit = 20

// Run is one recorded generate run.
type Run struct {
	ID        string          `json:"id" yaml:"id"`
	StartedAt time.Time       `json:"started_at" yaml:"started_at"`
	Topic     string          `json:"topic,omitempty" yaml:"topic,omitempty"`
	Slug      string          `json:"slug,omitempty" yaml:"slug,omitempty"`
	Status    types.RunStatus `json:"status" yaml:"status"`
	Attempts  int             `json:"attempts" yaml:"attempts"`
	Title     string          `json:"title,omitempty" yaml:"title,omitempty"`
	Path      string          `json:"path,omitempty" yaml:"path,omitempty"`
	Error     string          `json:"error,omitempty" yaml:"error,omitempty"`
	Note      string          `json:"note,omitempty" yaml:"note,omitempty"`
}

// Ledger manages the run history database.
type Ledger struct {
	db *sql.DB
}

// Open opens or creates the ledger database at path, creating its parent
// directory and schema when needed.
func Open(path string) (*Ledger, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating ledger directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}

	l := &Ledger{db: db}
	if err := l.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating ledger schema: %w", err)
	}
	return l, nil
}

// Close releases the database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

func (l *Ledger) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			started_at TEXT NOT NULL,
			topic TEXT,
			slug TEXT,
			status TEXT NOT NULL,
			attempts INTEGER NOT NULL DEFAULT 0,
			title TEXT,
			path TEXT,
			error TEXT,
			note TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_slug ON runs(slug)`,
	}
	for _, stmt := range statements {
		if _, err := l.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores run and returns it with its ID and start time filled in.
func (l *Ledger) Record(ctx context.Context, run Run) (Run, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	run.StartedAt = run.StartedAt.UTC()

	_, err := l.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, topic, slug, status, attempts, title, path, error, note)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.Format(time.RFC3339Nano), run.Topic, run.Slug,
		string(run.Status), run.Attempts, run.Title, run.Path, run.Error, run.Note)
	if err != nil {
		return Run{}, fmt.Errorf("recording run: %w", err)
	}
	return run, nil
}

// List returns up to limit runs, newest first. A limit of zero or less uses
// the default of 20.
func (l *Ledger) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := l.db.QueryContext(ctx,
		`SELECT id, started_at, topic, slug, status, attempts, title, path, error, note
		 FROM runs ORDER BY seq DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started, status string
		var topic, slug, title, path, errText, note sql.NullString
		if err := rows.Scan(&r.ID, &started, &topic, &slug, &status, &r.Attempts, &title, &path, &errText, &note); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.StartedAt, err = time.Parse(time.RFC3339Nano, started)
		if err != nil {
			return nil, fmt.Errorf("parsing start time of run %s: %w", r.ID, err)
		}
		r.Status = types.RunStatus(status)
		r.Topic, r.Slug, r.Title, r.Path = topic.String, slug.String, title.String, path.String
		r.Error, r.Note = errText.String, note.String
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// WriteYAML encodes runs as a YAML sequence.
func WriteYAML(w io.Writer, runs []Run) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(runs); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

// WriteJSON encodes runs as an indented JSON array.
func WriteJSON(w io.Writer, runs []Run) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(runs); err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return nil
}
