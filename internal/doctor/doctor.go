package doctor

import (
	"fmt"
	"io"
	"os/exec"

	"github.com/tormodhaugland/op/internal/config"
	"github.com/tormodhaugland/op/internal/fs"
)

// ExecutableNotFoundError is returned when a program op needs to spawn is
// not on PATH.
type ExecutableNotFoundError struct {
	Name string
	Err  error
}

func (e *ExecutableNotFoundError) Error() string {
	return fmt.Sprintf("unable to find executable %q in PATH", e.Name)
}

func (e *ExecutableNotFoundError) Unwrap() error {
	return e.Err
}

// CheckExecutable resolves name on PATH.
func CheckExecutable(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", &ExecutableNotFoundError{Name: name, Err: err}
	}
	return path, nil
}

type Severity int

const (
	OK Severity = iota
	Warn
	Fail
)

func (s Severity) String() string {
	switch s {
	case OK:
		return "ok"
	case Warn:
		return "warn"
	default:
		return "FAIL"
	}
}

// Result is the outcome of a single check.
type Result struct {
	Name     string
	Severity Severity
	Detail   string
}

// Run checks the environment op depends on for the given config.
func Run(cfg *config.Config) []Result {
	var results []Result

	if home, err := config.HomeDir(); err != nil {
		results = append(results, Result{"home directory", Fail, err.Error()})
	} else {
		results = append(results, Result{"home directory", OK, home})
	}

	source := cfg.Source
	if source == "" {
		source = "defaults (no config file found)"
	}
	results = append(results, Result{"config", OK, source})

	for i, root := range cfg.Roots() {
		name := "projects root"
		if i > 0 {
			name = "extra root"
		}
		if fs.DirExists(root) {
			results = append(results, Result{name, OK, root})
		} else {
			results = append(results, Result{name, Fail, root + " does not exist"})
		}
	}

	_, skipped, err := cfg.IncludePaths()
	switch {
	case err != nil:
		results = append(results, Result{"include file", Fail, err.Error()})
	case len(skipped) > 0:
		for _, p := range skipped {
			results = append(results, Result{"include", Warn, p + " does not exist"})
		}
	default:
		results = append(results, Result{"include file", OK, cfg.IncludeFilePath()})
	}

	editor, _ := cfg.EditorCommand()
	results = append(results, executableResult("editor", editor, Fail))

	gitSeverity := Warn
	if cfg.StatusBackend == config.BackendCLI {
		gitSeverity = Fail
	}
	results = append(results, executableResult("git", "git", gitSeverity))

	return results
}

func executableResult(name, executable string, missing Severity) Result {
	path, err := CheckExecutable(executable)
	if err != nil {
		return Result{name, missing, err.Error()}
	}
	return Result{name, OK, path}
}

// Failed reports whether any result is a failure.
func Failed(results []Result) bool {
	for _, r := range results {
		if r.Severity == Fail {
			return true
		}
	}
	return false
}

// Print writes one line per result.
func Print(w io.Writer, results []Result) {
	for _, r := range results {
		fmt.Fprintf(w, "[%-4s] %-14s %s\n", r.Severity, r.Name, r.Detail)
	}
}
