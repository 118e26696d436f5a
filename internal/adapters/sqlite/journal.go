package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"revisio/internal/domain"
	"revisio/internal/ports"

	_ "modernc.org/sqlite"
)

const schemaVersion = "1"

// Journal implements ports.ReviewJournal using SQLite
type Journal struct {
	db     *sql.DB
	dbPath string
}

// Ensure Journal implements ReviewJournal
var _ ports.ReviewJournal = (*Journal)(nil)

// Open opens or creates the journal database at dbPath
func Open(dbPath string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;

		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			at INTEGER NOT NULL,
			date TEXT NOT NULL,
			update_only INTEGER NOT NULL,
			notes INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS reviews (
			run_id INTEGER NOT NULL REFERENCES runs(id),
			date TEXT NOT NULL,
			folder TEXT NOT NULL,
			name TEXT NOT NULL,
			mastery_before INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS first_seen (
			folder TEXT NOT NULL,
			name TEXT NOT NULL,
			date TEXT NOT NULL,
			PRIMARY KEY (folder, name)
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_reviews_item ON reviews(folder, name);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	if _, err := db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)`, schemaVersion); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to update metadata: %w", err)
	}

	return &Journal{db: db, dbPath: dbPath}, nil
}

// Path returns the database file location
func (j *Journal) Path() string {
	return j.dbPath
}

// Close closes the database connection
func (j *Journal) Close() error {
	if j.db != nil {
		return j.db.Close()
	}
	return nil
}

// RecordRun appends a run with its reviews and first sightings in one
// transaction
func (j *Journal) RecordRun(ctx context.Context, run domain.RunRecord) error {
	return j.withTx(ctx, func(tx *journalTx) error {
		runID, err := tx.insertRun(run)
		if err != nil {
			return err
		}
		for _, ev := range run.Reviews {
			if err := tx.insertReview(runID, ev); err != nil {
				return err
			}
		}
		for _, ref := range run.NewItems {
			if err := tx.markSeen(ref, run.Date); err != nil {
				return err
			}
		}
		return nil
	})
}

// History returns recorded reviews, newest first
func (j *Journal) History(ctx context.Context, ref domain.ItemRef, limit int) ([]domain.ReviewEvent, error) {
	query := `SELECT date, folder, name, mastery_before FROM reviews`
	var args []any
	if ref != (domain.ItemRef{}) {
		query += ` WHERE folder = ? AND name = ?`
		args = append(args, ref.Folder, ref.Name)
	}
	query += ` ORDER BY run_id DESC, rowid ASC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.ReviewEvent
	for rows.Next() {
		var ev domain.ReviewEvent
		if err := rows.Scan(&ev.Date, &ev.Ref.Folder, &ev.Ref.Name, &ev.MasteryBefore); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// FirstSeen returns the date ref was first recorded as a new item
func (j *Journal) FirstSeen(ctx context.Context, ref domain.ItemRef) (string, bool, error) {
	var date string
	err := j.db.QueryRowContext(ctx,
		`SELECT date FROM first_seen WHERE folder = ? AND name = ?`,
		ref.Folder, ref.Name,
	).Scan(&date)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return date, true, nil
}
