package cmd

import (
	"fmt"
	"io"

	"github.com/tormodhaugland/op/internal/config"
	"github.com/tormodhaugland/op/internal/index"
	"github.com/tormodhaugland/op/internal/logging"
	"github.com/tormodhaugland/op/internal/model"
	"go.uber.org/zap"
)

// ExitError makes op exit with Code without printing anything. It is used
// to pass the editor's exit status through.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// appEnv is what every command needs: the loaded config and a logger.
type appEnv struct {
	cfg      *config.Config
	logger   *zap.Logger
	closeLog func() error
}

func setup() (*appEnv, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	app := &appEnv{cfg: cfg, logger: zap.NewNop()}

	// op still works when the log file cannot be opened
	logger, closeLog, err := logging.New(logging.Config{
		FilePath: cfg.LogFile,
		Level:    cfg.LogLevel,
	})
	if err == nil {
		app.logger = logger
		app.closeLog = closeLog
	}

	app.logger.Debug("config loaded",
		zap.String("source", cfg.Source),
		zap.String("projects_root", cfg.ProjectsRoot),
		zap.Strings("extra_roots", cfg.ExtraRoots),
	)
	return app, nil
}

func (a *appEnv) close() {
	if a.closeLog != nil {
		_ = a.closeLog()
	}
}

// buildIndex scans the configured roots. Warnings about the include list go
// to diag.
func (a *appEnv) buildIndex(diag io.Writer) (*model.Index, error) {
	opts, skipped, err := index.OptionsFromConfig(a.cfg)
	if err != nil {
		return nil, err
	}
	for _, p := range skipped {
		fmt.Fprintf(diag, "WARNING: include %q does not exist, skipping\n", p)
		a.logger.Warn("missing include", zap.String("path", p))
	}

	b := index.NewBuilder(opts)
	b.SetDiagnostics(diag)
	b.SetLogger(a.logger)

	idx, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build project index: %w", err)
	}
	return idx, nil
}
