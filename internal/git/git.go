package git

import (
	"context"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Status is the branch and worktree state of one repository.
type Status struct {
	Path     string
	Branch   string
	Upstream string
	Ahead    int
	Behind   int
	Changed  int
	Dirty    bool
}

// Name returns the leaf directory name of the repository.
func (s Status) Name() string {
	return filepath.Base(s.Path)
}

// InSync reports whether the branch has not diverged from its upstream.
// A branch that is only ahead or only behind still counts as in sync.
func (s Status) InSync() bool {
	return s.Ahead == 0 || s.Behind == 0
}

// ParseBranchHeader parses the first line of `git status --branch --short`:
//
//	## main...origin/main [ahead 1, behind 2]
//
// changed is the number of lines that followed the header. The second result
// is false for repositories without commits and for lines that are not a
// branch header at all.
func ParseBranchHeader(line string, changed int) (Status, bool) {
	_, details, ok := strings.Cut(strings.TrimRight(line, "\r"), " ")
	if !ok {
		return Status{}, false
	}
	if strings.HasPrefix(details, "No commits") {
		return Status{}, false
	}

	st := Status{Changed: changed, Dirty: changed > 0}

	tracking, trailer, hasTrailer := strings.Cut(details, " ")
	st.Branch, st.Upstream, _ = strings.Cut(tracking, "...")
	if !hasTrailer {
		return st, true
	}

	var buf strings.Builder
	ahead := true
	for _, ch := range trailer {
		switch ch {
		case '[':
		case ']', ',':
			if ahead {
				st.Ahead = atoiOrZero(buf.String())
			} else {
				st.Behind = atoiOrZero(buf.String())
			}
			buf.Reset()
		case ' ':
			if buf.String() == "behind" {
				ahead = false
			}
			buf.Reset()
		default:
			buf.WriteRune(ch)
		}
	}
	return st, true
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// ParseStatusOutput parses the full output of `git status --branch --short`
// for the repository at path.
func ParseStatusOutput(path, output string) (Status, bool) {
	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")
	if len(lines) == 0 || lines[0] == "" {
		return Status{}, false
	}

	st, ok := ParseBranchHeader(lines[0], len(lines)-1)
	if !ok {
		return Status{}, false
	}
	st.Path = path
	return st, true
}

// CLIProber reads repository status by running the git executable.
type CLIProber struct {
	Logger *zap.Logger
}

func (p CLIProber) Probe(ctx context.Context, path string) (Status, bool) {
	cmd := exec.CommandContext(ctx, "git", "-C", path, "status", "--branch", "--short")
	out, err := cmd.Output()
	if err != nil {
		p.logger().Debug("git status failed", zap.String("path", path), zap.Error(err))
		return Status{}, false
	}
	return ParseStatusOutput(path, string(out))
}

func (p CLIProber) logger() *zap.Logger {
	if p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}

