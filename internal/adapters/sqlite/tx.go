package sqlite

import (
	"context"
	"database/sql"

	"revisio/internal/domain"
)

// journalTx groups the writes of one run
type journalTx struct {
	tx *sql.Tx
}

// withTx runs fn in a transaction, rolling back when it fails
func (j *Journal) withTx(ctx context.Context, fn func(*journalTx) error) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(&journalTx{tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// insertRun adds a run row and returns its id
func (t *journalTx) insertRun(run domain.RunRecord) (int64, error) {
	res, err := t.tx.Exec(`
		INSERT INTO runs (at, date, update_only, notes)
		VALUES (?, ?, ?, ?)
	`, run.At.Unix(), run.Date, run.UpdateOnly, run.Notes)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// insertReview records a review made by a run
func (t *journalTx) insertReview(runID int64, ev domain.ReviewEvent) error {
	_, err := t.tx.Exec(`
		INSERT INTO reviews (run_id, date, folder, name, mastery_before)
		VALUES (?, ?, ?, ?, ?)
	`, runID, ev.Date, ev.Ref.Folder, ev.Ref.Name, ev.MasteryBefore)
	return err
}

// markSeen keeps the earliest date an item was reported as new
func (t *journalTx) markSeen(ref domain.ItemRef, date string) error {
	_, err := t.tx.Exec(`
		INSERT OR IGNORE INTO first_seen (folder, name, date)
		VALUES (?, ?, ?)
	`, ref.Folder, ref.Name, date)
	return err
}
