package model

import (
	"encoding/json"
	"errors"
	"io"
)

// ErrNoProjects is returned when an index or a filtered view of it is empty.
var ErrNoProjects = errors.New("no project(s) found, check projects_root and extra_roots in your config")

// Index is the ordered project list for one invocation. It is never mutated
// after the builder returns it; filters produce new slices.
type Index struct {
	Entries []ProjectEntry
}

func NewIndex(entries []ProjectEntry) *Index {
	if entries == nil {
		entries = []ProjectEntry{}
	}
	return &Index{Entries: entries}
}

func (idx *Index) Len() int {
	return len(idx.Entries)
}

// RequireNonEmpty returns ErrNoProjects for an empty index.
func (idx *Index) RequireNonEmpty() error {
	if idx == nil || idx.Len() == 0 {
		return ErrNoProjects
	}
	return nil
}

// Match returns the first entry whose path ends with name.
func (idx *Index) Match(name string) (ProjectEntry, bool) {
	for _, e := range idx.Entries {
		if e.HasSuffix(name) {
			return e, true
		}
	}
	return ProjectEntry{}, false
}

func (idx *Index) Names() []string {
	names := make([]string, len(idx.Entries))
	for i, e := range idx.Entries {
		names[i] = e.Name
	}
	return names
}

func (idx *Index) Paths() []string {
	paths := make([]string, len(idx.Entries))
	for i, e := range idx.Entries {
		paths[i] = e.Path
	}
	return paths
}

func (idx *Index) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(idx.Entries)
}
