// Package history persists a rolling audit log of completed packing
// calculations in a local sqlite database.
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

// Entry is one recorded calculation.
type Entry struct {
	ID             int64     `json:"id"`
	ContainerType  string    `json:"containerType"`
	TotalRequested int       `json:"totalRequested"`
	TotalFitted    int       `json:"totalFitted"`
	TotalUnfitted  int       `json:"totalUnfitted"`
	VolumePercent  float64   `json:"volumePercent"`
	WeightPercent  float64   `json:"weightPercent"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Store records calculations and serves the most recent ones.
type Store interface {
	Record(ctx context.Context, entry Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
	Close() error
}

// SQLiteStore is a Store backed by a single-writer sqlite database.
type SQLiteStore struct {
	db *sql.DB
}

// Open creates (if needed) and opens the history database at path.
func Open(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// WAL suits the append-style workload here.
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma: %w", err)
		}
	}

	const schema = `
CREATE TABLE IF NOT EXISTS calculations (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	container_type  TEXT    NOT NULL,
	total_requested INTEGER NOT NULL,
	total_fitted    INTEGER NOT NULL,
	total_unfitted  INTEGER NOT NULL,
	volume_percent  REAL    NOT NULL,
	weight_percent  REAL    NOT NULL,
	created_at      TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_calculations_created_at ON calculations(created_at);`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Record appends one calculation to the log. CreatedAt defaults to now.
func (s *SQLiteStore) Record(ctx context.Context, entry Entry) error {
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO calculations
			(container_type, total_requested, total_fitted, total_unfitted, volume_percent, weight_percent, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ContainerType,
		entry.TotalRequested,
		entry.TotalFitted,
		entry.TotalUnfitted,
		entry.VolumePercent,
		entry.WeightPercent,
		createdAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record calculation: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, container_type, total_requested, total_fitted, total_unfitted, volume_percent, weight_percent, created_at
		 FROM calculations ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0, limit)
	for rows.Next() {
		var entry Entry
		var createdAt string
		if err := rows.Scan(
			&entry.ID,
			&entry.ContainerType,
			&entry.TotalRequested,
			&entry.TotalFitted,
			&entry.TotalUnfitted,
			&entry.VolumePercent,
			&entry.WeightPercent,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			entry.CreatedAt = ts
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history rows: %w", err)
	}
	return entries, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// NewDisabled returns a Store that records nothing, used when no history
// database is configured.
func NewDisabled() Store {
	return disabledStore{}
}

type disabledStore struct{}

func (disabledStore) Record(context.Context, Entry) error { return nil }

func (disabledStore) Recent(context.Context, int) ([]Entry, error) { return []Entry{}, nil }

func (disabledStore) Close() error { return nil }
