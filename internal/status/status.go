// Package status runs git status over many repositories concurrently and
// picks out the ones that need attention.
package status

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/tormodhaugland/op/internal/git"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const DefaultWorkers = 6

// ErrScan is returned when a worker dies before finishing its share of the
// scan. A single repository failing is not an error and is skipped instead.
var ErrScan = errors.New("status scan failed")

// Prober reads the status of one repository. It returns false when the path
// should be left out of the results.
type Prober interface {
	Probe(ctx context.Context, path string) (git.Status, bool)
}

// Scanner fans status probes out over a fixed number of workers.
type Scanner struct {
	prober  Prober
	workers int
	logger  *zap.Logger
}

func NewScanner(prober Prober, workers int) *Scanner {
	if workers < 1 {
		workers = 1
	}
	return &Scanner{
		prober:  prober,
		workers: workers,
		logger:  zap.NewNop(),
	}
}

func (s *Scanner) SetLogger(logger *zap.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Scan probes every path and returns the statuses that were not skipped, in
// no particular order. It returns only after every worker has exited.
func (s *Scanner) Scan(ctx context.Context, paths []string) ([]git.Status, error) {
	jobs := make(chan string, len(paths))
	for _, p := range paths {
		jobs <- p
	}
	close(jobs)

	buffers := make([][]git.Status, s.workers)
	g, gctx := errgroup.WithContext(ctx)

	for w := 0; w < s.workers; w++ {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("%w: worker %d panicked: %v", ErrScan, w, r)
				}
			}()

			for path := range jobs {
				st, ok := s.prober.Probe(gctx, path)
				if !ok {
					continue
				}
				buffers[w] = append(buffers[w], st)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.Error("status scan failed", zap.Error(err))
		return nil, err
	}

	var out []git.Status
	for _, buf := range buffers {
		out = append(out, buf...)
	}
	s.logger.Debug("status scan finished",
		zap.Int("paths", len(paths)),
		zap.Int("results", len(out)),
		zap.Int("workers", s.workers),
	)
	return out, nil
}

const (
	TagNotInSync = "NOT IN SYNC"
	TagDirty     = "DIRTY"
)

// Entry is one repository that made it into the report.
type Entry struct {
	Name string
	Path string
	Tags []string
}

func (e Entry) String() string {
	return fmt.Sprintf("%-25s: %v", e.Name, formatTags(e.Tags))
}

// formatTags renders tags the way a debug-printed string list looks:
// ["NOT IN SYNC", "DIRTY"].
func formatTags(tags []string) string {
	quoted := make([]string, len(tags))
	for i, t := range tags {
		quoted[i] = fmt.Sprintf("%q", t)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// Report keeps the repositories that have diverged from their upstream or
// have uncommitted changes, sorted by name.
func Report(statuses []git.Status) []Entry {
	var entries []Entry
	for _, st := range statuses {
		var tags []string
		if !st.InSync() {
			tags = append(tags, TagNotInSync)
		}
		if st.Dirty {
			tags = append(tags, TagDirty)
		}
		if len(tags) == 0 {
			continue
		}
		entries = append(entries, Entry{Name: st.Name(), Path: st.Path, Tags: tags})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Name != entries[j].Name {
			return entries[i].Name < entries[j].Name
		}
		return entries[i].Path < entries[j].Path
	})
	return entries
}

// WriteReport prints one line per entry.
func WriteReport(w io.Writer, entries []Entry) error {
	for _, e := range entries {
		if _, err := fmt.Fprintln(w, e.String()); err != nil {
			return err
		}
	}
	return nil
}
