package application

import (
	"errors"
	"fmt"
)

// Sentinel errors for the I/O failures that abort a run
var (
	ErrScan        = errors.New("scan failed")
	ErrLedgerRead  = errors.New("ledger read failed")
	ErrLedgerWrite = errors.New("ledger write failed")
)

// ValidationError represents a misconfigured command
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// LedgerOp names the ledger operation that failed
type LedgerOp string

const (
	LedgerOpRead  LedgerOp = "read"
	LedgerOpWrite LedgerOp = "write"
)

// LedgerError represents a failure to load or store the ledger
type LedgerError struct {
	Op   LedgerOp
	Path string
	Err  error
}

func (e *LedgerError) Error() string {
	return fmt.Sprintf("cannot %s ledger %s: %v", e.Op, e.Path, e.Err)
}

func (e *LedgerError) Unwrap() error {
	return e.Err
}

func (e *LedgerError) Is(target error) bool {
	switch e.Op {
	case LedgerOpRead:
		return target == ErrLedgerRead
	case LedgerOpWrite:
		return target == ErrLedgerWrite
	}
	return false
}
