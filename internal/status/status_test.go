package status

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tormodhaugland/op/internal/git"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeProber struct {
	mu       sync.Mutex
	statuses map[string]git.Status
	calls    map[string]int
	panicOn  string
}

func newFakeProber(statuses ...git.Status) *fakeProber {
	p := &fakeProber{
		statuses: make(map[string]git.Status),
		calls:    make(map[string]int),
	}
	for _, st := range statuses {
		p.statuses[st.Path] = st
	}
	return p
}

func (p *fakeProber) Probe(_ context.Context, path string) (git.Status, bool) {
	p.mu.Lock()
	p.calls[path]++
	p.mu.Unlock()

	if path == p.panicOn {
		panic("boom")
	}
	st, ok := p.statuses[path]
	return st, ok
}

func threeRepos() []git.Status {
	return []git.Status{
		{Path: "/p/go/r1"},
		{Path: "/p/go/r2", Changed: 1, Dirty: true},
		{Path: "/p/go/r3", Ahead: 2, Behind: 1},
	}
}

func TestScanAndReportIndependentOfWorkers(t *testing.T) {
	paths := []string{"/p/go/r1", "/p/go/r2", "/p/go/r3"}

	for _, workers := range []int{1, 2, 6} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			scanner := NewScanner(newFakeProber(threeRepos()...), workers)

			statuses, err := scanner.Scan(context.Background(), paths)
			require.NoError(t, err)
			assert.Len(t, statuses, 3)

			entries := Report(statuses)
			require.Len(t, entries, 2)
			assert.Equal(t, "r2", entries[0].Name)
			assert.Equal(t, []string{TagDirty}, entries[0].Tags)
			assert.Equal(t, "r3", entries[1].Name)
			assert.Equal(t, []string{TagNotInSync}, entries[1].Tags)
		})
	}
}

func TestScanProbesEveryPathOnce(t *testing.T) {
	var paths []string
	var statuses []git.Status
	for i := 0; i < 40; i++ {
		p := fmt.Sprintf("/p/go/repo%02d", i)
		paths = append(paths, p)
		statuses = append(statuses, git.Status{Path: p})
	}
	prober := newFakeProber(statuses...)

	got, err := NewScanner(prober, 6).Scan(context.Background(), paths)
	require.NoError(t, err)
	assert.Len(t, got, 40)
	for _, p := range paths {
		assert.Equal(t, 1, prober.calls[p], "calls for %s", p)
	}
}

func TestScanSkipsUnprobedPaths(t *testing.T) {
	prober := newFakeProber(git.Status{Path: "/p/go/repo"})

	got, err := NewScanner(prober, 2).Scan(context.Background(), []string{"/p/go/repo", "/p/go/not-a-repo"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "/p/go/repo", got[0].Path)
}

func TestScanEmpty(t *testing.T) {
	got, err := NewScanner(newFakeProber(), DefaultWorkers).Scan(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestScanWorkerPanicIsScanError(t *testing.T) {
	prober := newFakeProber(threeRepos()...)
	prober.panicOn = "/p/go/r2"

	core, logs := observer.New(zapcore.ErrorLevel)
	scanner := NewScanner(prober, 2)
	scanner.SetLogger(zap.New(core))

	got, err := scanner.Scan(context.Background(), []string{"/p/go/r1", "/p/go/r2", "/p/go/r3"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrScan))
	assert.Nil(t, got)
	assert.Equal(t, 1, logs.FilterMessage("status scan failed").Len())
}

type countingProber struct {
	active, peak atomic.Int32
}

func (p *countingProber) Probe(_ context.Context, path string) (git.Status, bool) {
	n := p.active.Add(1)
	for {
		old := p.peak.Load()
		if n <= old || p.peak.CompareAndSwap(old, n) {
			break
		}
	}
	p.active.Add(-1)
	return git.Status{Path: path}, true
}

func TestScanRespectsWorkerCount(t *testing.T) {
	paths := make([]string, 100)
	for i := range paths {
		paths[i] = fmt.Sprintf("/p/%d", i)
	}

	prober := &countingProber{}
	_, err := NewScanner(prober, 3).Scan(context.Background(), paths)
	require.NoError(t, err)
	assert.LessOrEqual(t, prober.peak.Load(), int32(3))
}

func TestNewScannerMinimumWorkers(t *testing.T) {
	s := NewScanner(newFakeProber(), 0)
	assert.Equal(t, 1, s.workers)
}

func TestReportFilter(t *testing.T) {
	entries := Report([]git.Status{
		{Path: "/p/go/ahead-only", Ahead: 3},
		{Path: "/p/go/behind-only", Behind: 3},
		{Path: "/p/go/both", Ahead: 1, Behind: 1, Changed: 2, Dirty: true},
		{Path: "/p/go/clean"},
	})

	require.Len(t, entries, 1)
	assert.Equal(t, "both", entries[0].Name)
	assert.Equal(t, []string{TagNotInSync, TagDirty}, entries[0].Tags)
}

func TestReportSortedByName(t *testing.T) {
	entries := Report([]git.Status{
		{Path: "/p/go/zeta", Dirty: true},
		{Path: "/p/rust/alpha", Dirty: true},
		{Path: "/p/go/mid", Dirty: true},
	})

	require.Len(t, entries, 3)
	assert.Equal(t, "alpha", entries[0].Name)
	assert.Equal(t, "mid", entries[1].Name)
	assert.Equal(t, "zeta", entries[2].Name)
}

func TestWriteReport(t *testing.T) {
	var buf bytes.Buffer
	err := WriteReport(&buf, []Entry{
		{Name: "op", Tags: []string{TagNotInSync, TagDirty}},
		{Name: "dirty-one", Tags: []string{TagDirty}},
	})
	require.NoError(t, err)

	want := `op                       : ["NOT IN SYNC", "DIRTY"]` + "\n" +
		`dirty-one                : ["DIRTY"]` + "\n"
	assert.Equal(t, want, buf.String())
}
