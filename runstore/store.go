// Package runstore keeps a small SQLite index of pipeline runs, one row per
// run, so past work directories and their outcomes can be listed without
// crawling the filesystem. Analysis entities themselves are never persisted;
// each run stays independent.
package runstore

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

type Run struct {
	ID         string
	AudioPath  string
	WorkDir    string
	Status     string
	ReportPath string
	ElapsedSec float64
	CreatedAt  time.Time
}

const (
	StatusRunning          = "running"
	StatusOK               = "ok"
	StatusError            = "error"
	StatusInsufficientData = "insufficient_data"
)

func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open run db: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		audio_path TEXT NOT NULL,
		work_dir TEXT NOT NULL,
		status TEXT NOT NULL,
		report_path TEXT,
		elapsed_sec REAL,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
	`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create runs table: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Record(r Run) error {
	_, err := s.db.Exec(
		`INSERT INTO runs (id, audio_path, work_dir, status, report_path, elapsed_sec, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.AudioPath, r.WorkDir, r.Status, r.ReportPath, r.ElapsedSec, r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

func (s *Store) Finish(id, status, reportPath string, elapsed float64) error {
	_, err := s.db.Exec(
		`UPDATE runs SET status = ?, report_path = ?, elapsed_sec = ? WHERE id = ?`,
		status, reportPath, elapsed, id,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

func (s *Store) Get(id string) (*Run, error) {
	row := s.db.QueryRow(
		`SELECT id, audio_path, work_dir, status, report_path, elapsed_sec, created_at
		 FROM runs WHERE id = ?`, id)
	var r Run
	var report sql.NullString
	var elapsed sql.NullFloat64
	if err := row.Scan(&r.ID, &r.AudioPath, &r.WorkDir, &r.Status, &report, &elapsed, &r.CreatedAt); err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	r.ReportPath = report.String
	r.ElapsedSec = elapsed.Float64
	return &r, nil
}

func (s *Store) List(limit int) ([]Run, error) {
	rows, err := s.db.Query(
		`SELECT id, audio_path, work_dir, status, report_path, elapsed_sec, created_at
		 FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		var report sql.NullString
		var elapsed sql.NullFloat64
		if err := rows.Scan(&r.ID, &r.AudioPath, &r.WorkDir, &r.Status, &report, &elapsed, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.ReportPath = report.String
		r.ElapsedSec = elapsed.Float64
		out = append(out, r)
	}
	return out, rows.Err()
}
