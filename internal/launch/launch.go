// Package launch hands the terminal over to the editor in a project
// directory.
package launch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/tormodhaugland/op/internal/doctor"
	"go.uber.org/zap"
)

// IO is the terminal the editor inherits.
type IO struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func StdIO() IO {
	return IO{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Editor is the command used to open a project. The project directory is
// passed as "." after Args.
type Editor struct {
	Name string
	Args []string
}

// Outcome describes a finished editor session. op exits with ExitCode once
// the editor returns.
type Outcome struct {
	Dir      string
	ExitCode int
}

type Launcher struct {
	editor Editor
	stdio  IO
	logger *zap.Logger
}

func NewLauncher(editor Editor, stdio IO) *Launcher {
	return &Launcher{editor: editor, stdio: stdio, logger: zap.NewNop()}
}

func (l *Launcher) SetLogger(logger *zap.Logger) {
	if logger != nil {
		l.logger = logger
	}
}

// Open runs the editor in dir and waits for it. A non-zero exit from the
// editor is reported in the Outcome, not as an error.
func (l *Launcher) Open(ctx context.Context, dir string) (Outcome, error) {
	path, err := doctor.CheckExecutable(l.editor.Name)
	if err != nil {
		return Outcome{}, err
	}

	args := append(append([]string{}, l.editor.Args...), ".")
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Dir = dir
	cmd.Stdin = l.stdio.Stdin
	cmd.Stdout = l.stdio.Stdout
	cmd.Stderr = l.stdio.Stderr

	l.logger.Info("opening project",
		zap.String("dir", dir),
		zap.String("editor", path),
		zap.Strings("args", args),
	)

	err = cmd.Run()
	if err == nil {
		return Outcome{Dir: dir}, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if code < 0 {
			code = 1
		}
		l.logger.Info("editor exited", zap.Int("code", code))
		return Outcome{Dir: dir, ExitCode: code}, nil
	}
	return Outcome{}, fmt.Errorf("failed to run %s: %w", l.editor.Name, err)
}
