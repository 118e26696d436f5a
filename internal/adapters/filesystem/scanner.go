package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// Scanner implements ports.CollectionScanner over an afero filesystem
type Scanner struct {
	fs        afero.Fs
	root      string
	extension string
}

// NewScanner creates a scanner for the notes under root. Only files ending
// in extension count as notes.
func NewScanner(fs afero.Fs, root, extension string) *Scanner {
	return &Scanner{fs: fs, root: root, extension: extension}
}

// Root returns the notes root
func (s *Scanner) Root() string {
	return s.root
}

// Scan walks every subfolder of the root and lists its notes by base name.
// Files directly in the root are skipped, as are folders without notes.
func (s *Scanner) Scan() (map[string][]string, error) {
	collection := make(map[string][]string)

	exists, err := afero.DirExists(s.fs, s.root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat notes root: %w", err)
	}
	if !exists {
		return collection, nil
	}

	err = afero.Walk(s.fs, s.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(info.Name(), s.extension) {
			return nil
		}

		rel, err := filepath.Rel(s.root, filepath.Dir(path))
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		folder := filepath.ToSlash(rel)
		name := strings.TrimSuffix(info.Name(), s.extension)
		collection[folder] = append(collection[folder], name)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan notes: %w", err)
	}

	for _, names := range collection {
		sort.Strings(names)
	}
	return collection, nil
}
