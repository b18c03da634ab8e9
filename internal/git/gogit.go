package git

import (
	"context"
	"errors"
	"fmt"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"go.uber.org/zap"
)

// GoGitProber computes the same Status as CLIProber without spawning a
// process. Untracked files are counted one by one, where git collapses an
// untracked directory into a single line, so Changed can be larger.
type GoGitProber struct {
	Logger *zap.Logger
}

func (p GoGitProber) Probe(ctx context.Context, path string) (Status, bool) {
	st, err := p.status(ctx, path)
	if err != nil {
		p.logger().Debug("go-git status failed", zap.String("path", path), zap.Error(err))
		return Status{}, false
	}
	return st, true
}

func (p GoGitProber) status(ctx context.Context, path string) (Status, error) {
	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return Status{}, fmt.Errorf("failed to open repository: %w", err)
	}

	// an unborn HEAD reports plumbing.ErrReferenceNotFound
	head, err := repo.Head()
	if err != nil {
		return Status{}, fmt.Errorf("failed to resolve HEAD: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return Status{}, fmt.Errorf("failed to open worktree: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return Status{}, err
	}
	changes, err := wt.Status()
	if err != nil {
		return Status{}, fmt.Errorf("failed to read worktree status: %w", err)
	}

	st := Status{Path: path, Branch: "HEAD"}
	for _, fs := range changes {
		if fs.Staging != gogit.Unmodified || fs.Worktree != gogit.Unmodified {
			st.Changed++
		}
	}
	st.Dirty = st.Changed > 0

	if !head.Name().IsBranch() {
		return st, nil
	}
	st.Branch = head.Name().Short()

	upstream, ok := upstreamRef(repo, st.Branch)
	if !ok {
		return st, nil
	}
	st.Upstream = upstream.Short()

	remote, err := repo.Reference(upstream, true)
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return st, nil
	}
	if err != nil {
		return Status{}, fmt.Errorf("failed to resolve %s: %w", upstream, err)
	}

	st.Ahead, st.Behind, err = divergence(ctx, repo, head.Hash(), remote.Hash())
	if err != nil {
		return Status{}, err
	}
	return st, nil
}

// upstreamRef returns the tracking ref configured for branch.
func upstreamRef(repo *gogit.Repository, branch string) (plumbing.ReferenceName, bool) {
	cfg, err := repo.Branch(branch)
	if err != nil || cfg.Merge == "" {
		return "", false
	}
	if cfg.Remote == "" || cfg.Remote == "." {
		return cfg.Merge, true
	}
	return plumbing.NewRemoteReferenceName(cfg.Remote, cfg.Merge.Short()), true
}

// divergence counts commits reachable from local but not upstream, and the
// other way around.
func divergence(ctx context.Context, repo *gogit.Repository, local, upstream plumbing.Hash) (ahead, behind int, err error) {
	if local == upstream {
		return 0, 0, nil
	}

	localSet, err := reachable(ctx, repo, local)
	if err != nil {
		return 0, 0, err
	}
	upstreamSet, err := reachable(ctx, repo, upstream)
	if err != nil {
		return 0, 0, err
	}

	for h := range localSet {
		if _, ok := upstreamSet[h]; !ok {
			ahead++
		}
	}
	for h := range upstreamSet {
		if _, ok := localSet[h]; !ok {
			behind++
		}
	}
	return ahead, behind, nil
}

func reachable(ctx context.Context, repo *gogit.Repository, from plumbing.Hash) (map[plumbing.Hash]struct{}, error) {
	iter, err := repo.Log(&gogit.LogOptions{From: from})
	if err != nil {
		return nil, fmt.Errorf("failed to walk history from %s: %w", from, err)
	}
	defer iter.Close()

	seen := make(map[plumbing.Hash]struct{})
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		seen[c.Hash] = struct{}{}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk history from %s: %w", from, err)
	}
	return seen, nil
}

func (p GoGitProber) logger() *zap.Logger {
	if p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}
