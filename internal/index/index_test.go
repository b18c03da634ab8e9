package index

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tormodhaugland/op/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func mkProject(t *testing.T, root, category, name string) string {
	t.Helper()
	path := filepath.Join(root, category, name)
	if err := os.MkdirAll(path, 0755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
	return path
}

func names(t *testing.T, b *Builder) []string {
	t.Helper()
	idx, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return idx.Names()
}

func TestBuildTwoRootsSortedCaseInsensitive(t *testing.T) {
	primary := t.TempDir()
	extra := t.TempDir()
	mkProject(t, primary, "go", "Zeta")
	mkProject(t, extra, "rust", "alpha")

	b := NewBuilder(Options{PrimaryRoot: primary, ExtraRoots: []string{extra}, IgnoreDir: "_ignore"})
	got := names(t, b)

	if len(got) != 2 || got[0] != "alpha" || got[1] != "Zeta" {
		t.Errorf("names = %v, want [alpha Zeta]", got)
	}
}

func TestBuildStableOnEqualNames(t *testing.T) {
	primary := t.TempDir()
	extra := t.TempDir()
	first := mkProject(t, primary, "go", "api")
	second := mkProject(t, extra, "go", "API")

	idx, err := NewBuilder(Options{PrimaryRoot: primary, ExtraRoots: []string{extra}}).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if idx.Len() != 2 {
		t.Fatalf("Len = %d, want 2", idx.Len())
	}
	if idx.Entries[0].Path != first || idx.Entries[1].Path != second {
		t.Errorf("entries out of scan order: %v", idx.Paths())
	}
}

func TestBuildSkipsIgnoreDirAndOtherDepths(t *testing.T) {
	root := t.TempDir()
	mkProject(t, root, "go", "keep")
	mkProject(t, root, "_ignore", "hidden")
	os.MkdirAll(filepath.Join(root, "go", "keep", "nested", "deep"), 0755)

	got := names(t, NewBuilder(Options{PrimaryRoot: root, IgnoreDir: "_ignore"}))
	if len(got) != 1 || got[0] != "keep" {
		t.Errorf("names = %v, want [keep]", got)
	}
}

func TestBuildMissingRootIsFatal(t *testing.T) {
	root := t.TempDir()
	mkProject(t, root, "go", "a")

	_, err := NewBuilder(Options{PrimaryRoot: filepath.Join(root, "missing")}).Build()
	if err == nil {
		t.Fatal("expected error for missing primary root")
	}

	_, err = NewBuilder(Options{
		PrimaryRoot: root,
		ExtraRoots:  []string{filepath.Join(root, "also-missing")},
	}).Build()
	if err == nil {
		t.Fatal("expected error for missing extra root")
	}
	if !strings.Contains(err.Error(), "also-missing") {
		t.Errorf("error should name the root: %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected a not-exist cause, got %v", err)
	}
}

func TestBuildEmptyIsNotAnError(t *testing.T) {
	idx, err := NewBuilder(Options{PrimaryRoot: t.TempDir()}).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if idx.Len() != 0 {
		t.Errorf("Len = %d, want 0", idx.Len())
	}
	if idx.RequireNonEmpty() == nil {
		t.Error("RequireNonEmpty should fail for an empty index")
	}
}

func TestBuildAppendsIncludesAndWarnsOnDuplicate(t *testing.T) {
	root := t.TempDir()
	scanned := mkProject(t, root, "go", "beta")
	extraInclude := t.TempDir()

	core, logs := observer.New(zapcore.WarnLevel)
	var diag bytes.Buffer

	b := NewBuilder(Options{
		PrimaryRoot: root,
		Includes:    []string{scanned, extraInclude},
	})
	b.SetDiagnostics(&diag)
	b.SetLogger(zap.New(core))

	idx, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// duplicates are kept
	if idx.Len() != 3 {
		t.Fatalf("Len = %d, want 3: %v", idx.Len(), idx.Paths())
	}
	count := 0
	for _, p := range idx.Paths() {
		if p == scanned {
			count++
		}
	}
	if count != 2 {
		t.Errorf("scanned path appears %d times, want 2", count)
	}

	if !strings.Contains(diag.String(), "is already tracked") {
		t.Errorf("diagnostics = %q, want duplicate warning", diag.String())
	}
	if logs.FilterMessage("duplicate include").Len() != 1 {
		t.Errorf("expected one duplicate include log entry, got %d", logs.Len())
	}
}

func TestOptionsFromConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	root := t.TempDir()
	include := t.TempDir()
	missing := filepath.Join(root, "missing")

	cfg := &config.Config{
		ProjectsRoot: root,
		ExtraRoots:   []string{"/extra"},
		IgnoreDir:    "_ignore",
		Include:      []string{include, missing},
	}

	opts, skipped, err := OptionsFromConfig(cfg)
	if err != nil {
		t.Fatalf("OptionsFromConfig: %v", err)
	}
	if opts.PrimaryRoot != root || opts.IgnoreDir != "_ignore" || len(opts.ExtraRoots) != 1 {
		t.Errorf("opts = %+v", opts)
	}
	if len(opts.Includes) != 1 || opts.Includes[0] != include {
		t.Errorf("Includes = %v", opts.Includes)
	}
	if len(skipped) != 1 || skipped[0] != missing {
		t.Errorf("skipped = %v", skipped)
	}
}

func TestBuildRelativeRootIsAbsolute(t *testing.T) {
	t.Chdir(t.TempDir())
	mkProject(t, "root", "go", "app")
	abs, err := filepath.Abs(filepath.Join("root", "go", "app"))
	if err != nil {
		t.Fatalf("Abs: %v", err)
	}

	var diag bytes.Buffer
	b := NewBuilder(Options{PrimaryRoot: "root", Includes: []string{abs}})
	b.SetDiagnostics(&diag)
	idx, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	for _, p := range idx.Paths() {
		if !filepath.IsAbs(p) {
			t.Errorf("entry %q is not absolute", p)
		}
		if p != abs {
			t.Errorf("entry = %q, want %q", p, abs)
		}
	}
	if !strings.Contains(diag.String(), "already tracked") {
		t.Errorf("expected duplicate warning, got %q", diag.String())
	}
}
