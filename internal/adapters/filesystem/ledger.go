package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
)

const ledgerPerm = 0644

// LedgerStore implements ports.LedgerRepository as a single file
type LedgerStore struct {
	fs   afero.Fs
	path string
}

// NewLedgerStore creates a store for the ledger at path
func NewLedgerStore(fsys afero.Fs, path string) *LedgerStore {
	return &LedgerStore{fs: fsys, path: path}
}

// Path returns the ledger location
func (s *LedgerStore) Path() string {
	return s.path
}

// Load reads the whole ledger. A missing file is an empty ledger.
func (s *LedgerStore) Load() (string, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read ledger: %w", err)
	}
	return string(data), nil
}

// Save writes content to a temporary file next to the ledger and renames it
// over the ledger, so readers never observe a partial write.
func (s *LedgerStore) Save(content string) error {
	dir := filepath.Dir(s.path)
	if err := s.fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create ledger directory: %w", err)
	}

	tmp, err := afero.TempFile(s.fs, dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp ledger: %w", err)
	}
	tmpName := tmp.Name()

	// Rollback on failure
	cleanup := func() {
		_ = s.fs.Remove(tmpName)
	}

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("failed to write temp ledger: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("failed to sync temp ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("failed to close temp ledger: %w", err)
	}
	if err := s.fs.Chmod(tmpName, ledgerPerm); err != nil {
		cleanup()
		return fmt.Errorf("failed to set ledger permissions: %w", err)
	}
	if err := s.fs.Rename(tmpName, s.path); err != nil {
		cleanup()
		return fmt.Errorf("failed to replace ledger: %w", err)
	}
	return nil
}
