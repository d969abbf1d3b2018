// Package report persists per-operation build outcomes to a SQLite file.
// The report is write-only diagnostics: no later build reads it back.
package report

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one finished leaf operation.
type Entry struct {
	Path   string // input file, relative to its topic
	Kind   string // operation kind (plantuml, drawio, notebook, copy, ...)
	Lang   string
	Format string
	Mode   string
	Output string // output path, empty when the operation failed early
	Err    error
}

// Writer appends entries to the report database. Safe for concurrent use.
type Writer struct {
	mu sync.Mutex
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS operations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	path TEXT NOT NULL,
	kind TEXT NOT NULL,
	lang TEXT,
	format TEXT,
	mode TEXT,
	output TEXT,
	status TEXT NOT NULL,
	error TEXT,
	finished_at TIMESTAMP NOT NULL
);`

// Open creates or opens the report database and ensures its schema.
func Open(path string) (*Writer, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening report database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating report schema: %w", err)
	}
	return &Writer{db: db}, nil
}

// Record appends one entry. Report failures are returned but callers are
// expected to log and continue: diagnostics must never fail a build.
func (w *Writer) Record(e Entry) error {
	status := "ok"
	errText := ""
	if e.Err != nil {
		status = "failed"
		errText = e.Err.Error()
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	_, err := w.db.Exec(
		`INSERT INTO operations (path, kind, lang, format, mode, output, status, error, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Path, e.Kind, e.Lang, e.Format, e.Mode, e.Output, status, errText, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("recording report entry: %w", err)
	}
	return nil
}

// Close flushes and closes the database.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.db.Close()
}
