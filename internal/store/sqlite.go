package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"polymarket-agent/internal/models"
)

// SQLiteJournal implements Journal using SQLite.
type SQLiteJournal struct {
	db *sql.DB
}

// NewSQLiteJournal creates a new SQLite-backed cycle journal.
func NewSQLiteJournal(dbPath string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	journal := &SQLiteJournal{db: db}
	if err := journal.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return journal, nil
}

func (j *SQLiteJournal) initSchema() error {
	schema := `
	-- Append-only journal of finished scheduler cycles
	CREATE TABLE IF NOT EXISTS cycles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		job TEXT NOT NULL,
		outcome TEXT NOT NULL,
		detail TEXT,
		market_id TEXT,
		timestamp DATETIME NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_cycles_job ON cycles(job, timestamp);
	`

	_, err := j.db.Exec(schema)
	return err
}

// AppendCycle inserts one cycle record.
func (j *SQLiteJournal) AppendCycle(ctx context.Context, record *models.CycleRecord) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO cycles (job, outcome, detail, market_id, timestamp) VALUES (?, ?, ?, ?, ?)`,
		record.Job, string(record.Outcome), record.Detail, record.MarketID, record.Timestamp.UTC())
	if err != nil {
		return fmt.Errorf("inserting cycle record: %w", err)
	}
	return nil
}

// RecentCycles returns the most recent cycle records, newest first.
func (j *SQLiteJournal) RecentCycles(ctx context.Context, limit int) ([]models.CycleRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := j.db.QueryContext(ctx,
		`SELECT id, job, outcome, detail, market_id, timestamp FROM cycles ORDER BY id DESC LIMIT ?`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("querying cycles: %w", err)
	}
	defer rows.Close()

	var records []models.CycleRecord
	for rows.Next() {
		var r models.CycleRecord
		var outcome string
		if err := rows.Scan(&r.ID, &r.Job, &outcome, &r.Detail, &r.MarketID, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning cycle record: %w", err)
		}
		r.Outcome = models.CycleOutcome(outcome)
		records = append(records, r)
	}

	return records, rows.Err()
}

// Close closes the underlying database.
func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
