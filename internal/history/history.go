// Package history persists run records and verdicts to a local SQLite
// database so parity regressions can be traced across harness invocations.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	apperrors "github.com/audlab/audparity/internal/errors"
	"github.com/audlab/audparity/internal/parity"
	"github.com/audlab/audparity/internal/session"
)

// Store is a SQLite-backed run history.
type Store struct {
	db *sql.DB
}

// Entry is one stored library run with the verdict of its comparison.
type Entry struct {
	ID          int64
	Timestamp   time.Time
	Verdict     string
	DLL         string
	File        string
	OpenRet     int32
	NumFiles    int32
	NumChannels int32
	SampleCount int32
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeHistoryStore, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeHistoryStore, err)
	}

	// Single writer, short-lived process: WAL keeps concurrent CI readers
	// from blocking the append.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, apperrors.Wrap(apperrors.ErrCodeHistoryStore, err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT NOT NULL,
		verdict TEXT NOT NULL,
		dll TEXT NOT NULL,
		file TEXT NOT NULL,
		open_ret INTEGER NOT NULL,
		num_files INTEGER NOT NULL,
		num_channels INTEGER NOT NULL,
		sample_count INTEGER NOT NULL,
		first_sample REAL NOT NULL,
		last_sample REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_file ON runs(file, timestamp DESC);
	`
	if _, err := db.Exec(schema); err != nil {
		return apperrors.New(apperrors.ErrCodeHistoryStore,
			fmt.Sprintf("create history schema: %v", err), err)
	}
	return nil
}

// Append stores both run records under the comparison's verdict.
func (s *Store) Append(v parity.Verdict, records ...session.Record) error {
	tx, err := s.db.Begin()
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeHistoryStore, err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
		INSERT INTO runs (timestamp, verdict, dll, file, open_ret, num_files,
			num_channels, sample_count, first_sample, last_sample)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeHistoryStore, err)
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, rec := range records {
		if _, err := stmt.Exec(now, v.Status.String(), rec.DLL, rec.File,
			rec.OpenRet, rec.NumFiles, rec.NumChannels,
			rec.SampleCount, rec.FirstSample, rec.LastSample); err != nil {
			return apperrors.Wrap(apperrors.ErrCodeHistoryStore, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeHistoryStore, err)
	}
	return nil
}

// Recent returns up to limit most recent entries, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT id, timestamp, verdict, dll, file, open_ret, num_files,
			num_channels, sample_count
		FROM runs ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeHistoryStore, err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var ts string
		if err := rows.Scan(&e.ID, &ts, &e.Verdict, &e.DLL, &e.File,
			&e.OpenRet, &e.NumFiles, &e.NumChannels, &e.SampleCount); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeHistoryStore, err)
		}
		e.Timestamp, _ = time.Parse(time.RFC3339, ts)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
