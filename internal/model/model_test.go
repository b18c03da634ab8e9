package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
)

func TestNewProjectEntry(t *testing.T) {
	e := NewProjectEntry("/home/user/Projects/go/MyTool/")

	if e.Path != filepath.Clean("/home/user/Projects/go/MyTool") {
		t.Errorf("Path = %q, want cleaned path", e.Path)
	}
	if e.Name != "MyTool" {
		t.Errorf("Name = %q, want %q", e.Name, "MyTool")
	}
	if e.Key != "mytool" {
		t.Errorf("Key = %q, want %q", e.Key, "mytool")
	}
}

func TestProjectEntryHasSuffix(t *testing.T) {
	e := NewProjectEntry("/home/user/Projects/go/op")

	tests := []struct {
		name string
		want bool
	}{
		{"op", true},
		{"go/op", true},
		{"Projects/go/op", true},
		{"p", false},
		{"go", false},
		{"rust/op", false},
		{"", false},
		{"a/b/c/d/e/f/g/op", false},
	}

	for _, tt := range tests {
		if got := e.HasSuffix(tt.name); got != tt.want {
			t.Errorf("HasSuffix(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestProjectEntryURI(t *testing.T) {
	e := NewProjectEntry("/srv/code/go/op")
	if e.URI() != "file:///srv/code/go/op" {
		t.Errorf("URI() = %q", e.URI())
	}
}

func TestIndexRequireNonEmpty(t *testing.T) {
	if err := NewIndex(nil).RequireNonEmpty(); !errors.Is(err, ErrNoProjects) {
		t.Errorf("empty index: err = %v, want ErrNoProjects", err)
	}

	var nilIdx *Index
	if err := nilIdx.RequireNonEmpty(); !errors.Is(err, ErrNoProjects) {
		t.Errorf("nil index: err = %v, want ErrNoProjects", err)
	}

	idx := NewIndex([]ProjectEntry{NewProjectEntry("/p/go/a")})
	if err := idx.RequireNonEmpty(); err != nil {
		t.Errorf("non-empty index: unexpected error %v", err)
	}
}

func TestIndexMatchReturnsFirst(t *testing.T) {
	idx := NewIndex([]ProjectEntry{
		NewProjectEntry("/p/go/api"),
		NewProjectEntry("/p/rust/api"),
		NewProjectEntry("/p/go/web"),
	})

	e, ok := idx.Match("api")
	if !ok {
		t.Fatal("expected a match for api")
	}
	if e.Path != filepath.Clean("/p/go/api") {
		t.Errorf("Match(api) = %q, want first entry", e.Path)
	}

	e, ok = idx.Match("rust/api")
	if !ok || e.Path != filepath.Clean("/p/rust/api") {
		t.Errorf("Match(rust/api) = %q, %v", e.Path, ok)
	}

	if _, ok := idx.Match("missing"); ok {
		t.Error("expected no match for missing")
	}
}

func TestIndexNamesAndPaths(t *testing.T) {
	idx := NewIndex([]ProjectEntry{
		NewProjectEntry("/p/go/Alpha"),
		NewProjectEntry("/p/go/beta"),
	})

	names := idx.Names()
	if len(names) != 2 || names[0] != "Alpha" || names[1] != "beta" {
		t.Errorf("Names() = %v", names)
	}
	paths := idx.Paths()
	if len(paths) != 2 || paths[1] != filepath.Clean("/p/go/beta") {
		t.Errorf("Paths() = %v", paths)
	}
}

func TestIndexWriteJSON(t *testing.T) {
	idx := NewIndex([]ProjectEntry{NewProjectEntry("/p/go/alpha")})

	var buf bytes.Buffer
	if err := idx.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var decoded []map[string]string
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(decoded) != 1 || decoded[0]["name"] != "alpha" {
		t.Errorf("decoded = %v", decoded)
	}
	if _, ok := decoded[0]["Key"]; ok {
		t.Error("Key should not be serialized")
	}
}
