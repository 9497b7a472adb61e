package history

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/maam00/glasshouse/internal/models"
)

// ErrNotFound is returned when no snapshot matches the requested date.
var ErrNotFound = errors.New("snapshot not found")

// Snapshots are stored whole as JSON; a few key metrics are extracted into
// columns so history can be listed without decoding every row.
const schema = `
CREATE TABLE IF NOT EXISTS daily_snapshots (
	date                TEXT PRIMARY KEY,
	snapshot_json       TEXT NOT NULL,
	win_rate            REAL,
	contribution_margin REAL,
	toxic_remaining     REAL,
	inventory_total     REAL,
	created_at          TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS insight_runs (
	run_id        TEXT PRIMARY KEY,
	generated_at  TEXT NOT NULL,
	insights_json TEXT NOT NULL
);
`

// Store keeps the daily snapshot history in SQLite.
type Store struct {
	db *sql.DB
}

// Day is one row of snapshot history.
type Day struct {
	Date      string
	Snapshot  models.Snapshot
	CreatedAt time.Time
}

// Open opens (creating if needed) the history database and runs migrations.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to set journal mode: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save upserts the snapshot for a date. Re-recording a date replaces the
// earlier snapshot.
func (s *Store) Save(date string, snap models.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO daily_snapshots
		   (date, snapshot_json, win_rate, contribution_margin, toxic_remaining, inventory_total, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(date) DO UPDATE SET
		   snapshot_json = excluded.snapshot_json,
		   win_rate = excluded.win_rate,
		   contribution_margin = excluded.contribution_margin,
		   toxic_remaining = excluded.toxic_remaining,
		   inventory_total = excluded.inventory_total,
		   created_at = excluded.created_at`,
		date,
		string(payload),
		snap.Value("performance", "win_rate"),
		snap.Value("performance", "contribution_margin"),
		snap.Value("toxic", "remaining_count"),
		snap.Value("inventory", "total"),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot for %s: %w", date, err)
	}

	return nil
}

// Get returns the snapshot recorded for a date.
func (s *Store) Get(date string) (models.Snapshot, error) {
	row := s.db.QueryRow(
		`SELECT snapshot_json FROM daily_snapshots WHERE date = ?`, date)
	return scanSnapshot(row)
}

// Latest returns the most recent snapshot and its date.
func (s *Store) Latest() (string, models.Snapshot, error) {
	row := s.db.QueryRow(
		`SELECT date, snapshot_json FROM daily_snapshots ORDER BY date DESC LIMIT 1`)
	return scanDatedSnapshot(row)
}

// Previous returns the most recent snapshot strictly before the given date,
// used as the baseline for trend checks.
func (s *Store) Previous(date string) (string, models.Snapshot, error) {
	row := s.db.QueryRow(
		`SELECT date, snapshot_json FROM daily_snapshots WHERE date < ? ORDER BY date DESC LIMIT 1`,
		date)
	return scanDatedSnapshot(row)
}

// Recent returns up to limit snapshots, newest first.
func (s *Store) Recent(limit int) ([]Day, error) {
	rows, err := s.db.Query(
		`SELECT date, snapshot_json, created_at FROM daily_snapshots ORDER BY date DESC LIMIT ?`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var days []Day
	for rows.Next() {
		var d Day
		var payload, createdAt string
		if err := rows.Scan(&d.Date, &payload, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		if err := json.Unmarshal([]byte(payload), &d.Snapshot); err != nil {
			return nil, fmt.Errorf("failed to decode snapshot for %s: %w", d.Date, err)
		}
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			d.CreatedAt = t
		}
		days = append(days, d)
	}

	return days, rows.Err()
}

// SaveInsights records a generated insight run and returns its id.
func (s *Store) SaveInsights(insights *models.Insights) (string, error) {
	payload, err := json.Marshal(insights)
	if err != nil {
		return "", fmt.Errorf("failed to encode insights: %w", err)
	}

	runID := uuid.New().String()
	_, err = s.db.Exec(
		`INSERT INTO insight_runs (run_id, generated_at, insights_json) VALUES (?, ?, ?)`,
		runID, time.Now().UTC().Format(time.RFC3339), string(payload))
	if err != nil {
		return "", fmt.Errorf("failed to save insight run: %w", err)
	}

	return runID, nil
}

func scanSnapshot(row *sql.Row) (models.Snapshot, error) {
	var payload string
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return snap, nil
}

func scanDatedSnapshot(row *sql.Row) (string, models.Snapshot, error) {
	var date, payload string
	if err := row.Scan(&date, &payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil, ErrNotFound
		}
		return "", nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return "", nil, fmt.Errorf("failed to decode snapshot for %s: %w", date, err)
	}
	return date, snap, nil
}
