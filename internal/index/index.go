package index

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/tormodhaugland/op/internal/config"
	"github.com/tormodhaugland/op/internal/fs"
	"github.com/tormodhaugland/op/internal/logging"
	"github.com/tormodhaugland/op/internal/model"
	"go.uber.org/zap"
)

// Options are the inputs of one index build.
type Options struct {
	PrimaryRoot string
	ExtraRoots  []string
	IgnoreDir   string
	// Includes are absolute, already validated paths appended after the
	// scanned entries.
	Includes []string
}

// OptionsFromConfig resolves the build options for cfg. Include entries
// that no longer exist are returned in skipped.
func OptionsFromConfig(cfg *config.Config) (opts Options, skipped []string, err error) {
	includes, skipped, err := cfg.IncludePaths()
	if err != nil {
		return Options{}, nil, fmt.Errorf("failed to read include list: %w", err)
	}
	return Options{
		PrimaryRoot: cfg.ProjectsRoot,
		ExtraRoots:  cfg.ExtraRoots,
		IgnoreDir:   cfg.IgnoreDir,
		Includes:    includes,
	}, skipped, nil
}

type Builder struct {
	opts   Options
	diag   io.Writer
	logger *zap.Logger
}

func NewBuilder(opts Options) *Builder {
	return &Builder{
		opts:   opts,
		diag:   os.Stderr,
		logger: zap.NewNop(),
	}
}

// SetDiagnostics sets where user-facing warnings are written.
func (b *Builder) SetDiagnostics(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	b.diag = w
}

func (b *Builder) SetLogger(l *zap.Logger) {
	b.logger = logging.OrNop(l)
}

// Build scans every root at depth two, appends the includes and sorts the
// result by lowercase leaf name. Any root that cannot be read fails the
// whole build.
func (b *Builder) Build() (*model.Index, error) {
	var entries []model.ProjectEntry
	seen := make(map[string]bool)

	roots := append([]string{b.opts.PrimaryRoot}, b.opts.ExtraRoots...)
	for _, root := range roots {
		root, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve root %s: %w", root, err)
		}
		dirs, err := fs.ListProjectDirs(root, b.opts.IgnoreDir)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", root, err)
		}
		b.logger.Debug("scanned root", zap.String("root", root), zap.Int("projects", len(dirs)))

		for _, dir := range dirs {
			entry := model.NewProjectEntry(dir)
			seen[entry.Path] = true
			entries = append(entries, entry)
		}
	}

	for _, path := range b.opts.Includes {
		entry := model.NewProjectEntry(path)
		if seen[entry.Path] {
			fmt.Fprintf(b.diag, "WARNING: %q is already tracked. Consider removing it from config\n", entry.Path)
			b.logger.Warn("duplicate include", zap.String("path", entry.Path))
		}
		seen[entry.Path] = true
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})

	b.logger.Info("index built",
		zap.Int("entries", len(entries)),
		zap.Int("roots", len(roots)),
		zap.Int("includes", len(b.opts.Includes)),
	)
	return model.NewIndex(entries), nil
}
