package model

import (
	"path/filepath"
	"strings"
)

// ProjectEntry is a single project directory. Key is the lowercase leaf name
// used for sorting and fuzzy matching.
type ProjectEntry struct {
	Path string `json:"path"`
	Name string `json:"name"`
	Key  string `json:"-"`
}

func NewProjectEntry(path string) ProjectEntry {
	clean := filepath.Clean(path)
	name := filepath.Base(clean)
	return ProjectEntry{
		Path: clean,
		Name: name,
		Key:  strings.ToLower(name),
	}
}

// HasSuffix reports whether the entry path ends with the given path
// components, e.g. "go/op" matches "/home/u/Projects/go/op".
func (e ProjectEntry) HasSuffix(name string) bool {
	name = strings.Trim(filepath.Clean(name), string(filepath.Separator))
	if name == "" || name == "." {
		return false
	}

	want := strings.Split(name, string(filepath.Separator))
	have := strings.Split(strings.Trim(e.Path, string(filepath.Separator)), string(filepath.Separator))
	if len(want) > len(have) {
		return false
	}

	offset := len(have) - len(want)
	for i, part := range want {
		if have[offset+i] != part {
			return false
		}
	}
	return true
}

// URI returns the file:// form of the entry path.
func (e ProjectEntry) URI() string {
	return "file://" + filepath.ToSlash(e.Path)
}
