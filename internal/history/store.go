package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Record is one processed video's outcome within a run.
type Record struct {
	ID         int64
	RunID      string
	VideoPath  string
	OutputPath string
	AudioPath  string
	Status     Status
	Reason     string
	Detail     string
	Elapsed    time.Duration
	CreatedAt  time.Time
}

// Status is the recorded outcome of one video.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

const schema = `
CREATE TABLE IF NOT EXISTS run_results (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL,
    video_path TEXT NOT NULL,
    output_path TEXT,
    audio_path TEXT NOT NULL,
    status TEXT NOT NULL,
    reason TEXT,
    detail TEXT,
    elapsed_ms INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_run_results_run_id ON run_results(run_id);
CREATE INDEX IF NOT EXISTS idx_run_results_created_at ON run_results(created_at);
`

// Store persists per-video run outcomes backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Append records one video's outcome.
func (s *Store) Append(ctx context.Context, record Record) error {
	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO run_results (
            run_id, video_path, output_path, audio_path,
            status, reason, detail, elapsed_ms, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.RunID,
		record.VideoPath,
		nullableString(record.OutputPath),
		record.AudioPath,
		string(record.Status),
		nullableString(record.Reason),
		nullableString(record.Detail),
		record.Elapsed.Milliseconds(),
		createdAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert run result: %w", err)
	}
	return nil
}

// Recent returns up to limit results, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, run_id, video_path, output_path, audio_path,
                status, reason, detail, elapsed_ms, created_at
         FROM run_results ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query run results: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// Clear removes all recorded results.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM run_results`)
	if err != nil {
		return 0, fmt.Errorf("clear run results: %w", err)
	}
	return result.RowsAffected()
}

func scanRecord(rows *sql.Rows) (Record, error) {
	var (
		record     Record
		outputPath sql.NullString
		reason     sql.NullString
		detail     sql.NullString
		elapsedMS  int64
		createdAt  string
		status     string
	)
	if err := rows.Scan(
		&record.ID, &record.RunID, &record.VideoPath, &outputPath, &record.AudioPath,
		&status, &reason, &detail, &elapsedMS, &createdAt,
	); err != nil {
		return Record{}, fmt.Errorf("scan run result: %w", err)
	}
	record.OutputPath = outputPath.String
	record.Reason = reason.String
	record.Detail = detail.String
	record.Status = Status(status)
	record.Elapsed = time.Duration(elapsedMS) * time.Millisecond
	if parsed, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		record.CreatedAt = parsed
	}
	return record, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
