package domain

import "time"

// SyncStats holds statistics from scanning the notes and merging the ledger
type SyncStats struct {
	FoldersScanned int
	NotesScanned   int
	RowsApplied    int // ledger rows matched to an existing note
	RowsDropped    int // ledger rows whose note no longer exists
	NewItems       int
	Duration       time.Duration
}
