// Package source lists the CSV files of a phishing URL list checkout: a
// root directory holding one subdirectory per year.
package source

import (
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"strings"
)

// ErrEnumeration is returned when the root or a year directory cannot be
// listed.
var ErrEnumeration = errors.New("enumerate csv files")

// Enumerator yields candidate CSV paths under Root.
type Enumerator struct {
	Root string
}

// New returns an Enumerator rooted at root.
func New(root string) *Enumerator {
	return &Enumerator{Root: root}
}

// Paths returns a lazy sequence of every entry directly inside each
// non-hidden subdirectory of Root. Year directories are listed only when
// the sequence reaches them. A listing failure is yielded once as an
// ErrEnumeration error and ends the sequence.
func (e *Enumerator) Paths() iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		years, err := e.yearDirs()
		if err != nil {
			yield("", err)
			return
		}

		for _, dir := range years {
			entries, err := os.ReadDir(dir)
			if err != nil {
				yield("", fmt.Errorf("%w: %w", ErrEnumeration, err))
				return
			}
			for _, entry := range entries {
				if !yield(filepath.Join(dir, entry.Name()), nil) {
					return
				}
			}
		}
	}
}

// yearDirs lists the subdirectories of Root whose names do not start with
// a dot. Symlinks to directories count as directories.
// Entries that cannot be stat'ed are skipped.
func (e *Enumerator) yearDirs() ([]string, error) {
	entries, err := os.ReadDir(e.Root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEnumeration, err)
	}

	var dirs []string
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		path := filepath.Join(e.Root, entry.Name())
		// A dangling symlink is not a directory.
		info, err := os.Stat(path)
		if err == nil && info.IsDir() {
			dirs = append(dirs, path)
		}
	}
	return dirs, nil
}
