// Package template composes tool scripts from shared shell fragments.
//
// A script may reference fragments through single-line inclusion directives;
// rendering replaces each directive with the fragment body, recursively, and
// substitutes the per-render placeholder tokens. Rendering is a pure function
// of (source, fragments, context): no shared mutable state, so concurrent
// renders need no locking.
package template

import (
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

// Store is a read-only mapping from logical fragment name (a path-like
// string such as "lib/echo.sh") to its shell source text. It is loaded once
// at startup and never mutated afterwards.
type Store struct {
	fragments map[string]string
}

// NewStore creates a Store from an explicit fragment map. Primarily useful
// for tests; servers load fragments from disk with LoadStore.
func NewStore(fragments map[string]string) *Store {
	m := make(map[string]string, len(fragments))
	for name, src := range fragments {
		m[name] = src
	}
	return &Store{fragments: m}
}

// LoadStore reads every regular file under the given directories of fsys.
// Fragment names are slash-separated paths relative to the fsys root, so a
// file at lib/echo.sh is addressable as "lib/echo.sh". Directories that do
// not exist are skipped: a script tree without a templates/ dir is fine.
func LoadStore(fsys fs.FS, dirs ...string) (*Store, error) {
	fragments := make(map[string]string)

	for _, dir := range dirs {
		if _, err := fs.Stat(fsys, dir); err != nil {
			continue
		}
		err := fs.WalkDir(fsys, dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || strings.HasPrefix(d.Name(), ".") {
				return nil
			}
			data, err := fs.ReadFile(fsys, path)
			if err != nil {
				return fmt.Errorf("reading fragment %s: %w", path, err)
			}
			fragments[path] = string(data)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("loading fragments from %s: %w", dir, err)
		}
	}

	return &Store{fragments: fragments}, nil
}

// Get returns the fragment source for a logical name.
func (s *Store) Get(name string) (string, bool) {
	src, ok := s.fragments[name]
	return src, ok
}

// Names returns all fragment names in sorted order.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.fragments))
	for name := range s.fragments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len reports the number of loaded fragments.
func (s *Store) Len() int {
	return len(s.fragments)
}
