package ports

import (
	"context"
	"time"

	"revisio/internal/domain"
)

// CollectionScanner enumerates the notes of a collection
type CollectionScanner interface {
	// Scan returns folder (relative to the notes root) -> note base names.
	// A missing root yields an empty collection.
	Scan() (map[string][]string, error)

	// Root returns the notes root the scanner walks
	Root() string
}

// LedgerRepository loads and stores the progress ledger document
type LedgerRepository interface {
	// Load returns the ledger content, or "" when the ledger does not exist
	Load() (string, error)

	// Save replaces the ledger content atomically
	Save(content string) error

	// Path returns the location of the ledger
	Path() string
}

// Clock provides the current time
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock
type SystemClock struct{}

// Now returns the local time
func (SystemClock) Now() time.Time {
	return time.Now()
}

// ReviewJournal keeps an append-only history of runs next to the ledger.
// The ledger stays authoritative; the journal only adds history the ledger
// truncates.
type ReviewJournal interface {
	// RecordRun appends a completed run
	RecordRun(ctx context.Context, run domain.RunRecord) error

	// History returns reviews newest first. A zero ref matches every item;
	// limit <= 0 means no limit.
	History(ctx context.Context, ref domain.ItemRef, limit int) ([]domain.ReviewEvent, error)

	// FirstSeen returns the date an item was first reported as new
	FirstSeen(ctx context.Context, ref domain.ItemRef) (string, bool, error)

	Close() error
}
