package cmd

import (
	"fmt"

	flag "github.com/spf13/pflag"
	"github.com/tormodhaugland/op/internal/config"
)

// backendValue is a --backend flag limited to the known status backends.
type backendValue string

var _ flag.Value = (*backendValue)(nil)

func (b *backendValue) String() string {
	return string(*b)
}

func (b *backendValue) Set(s string) error {
	switch s {
	case config.BackendCLI, config.BackendGoGit:
		*b = backendValue(s)
		return nil
	default:
		return fmt.Errorf("unknown backend %q (want %s or %s)", s, config.BackendCLI, config.BackendGoGit)
	}
}

func (b *backendValue) Type() string {
	return "backend"
}

// addWorkersFlag registers -w/--workers. Zero means the config value.
func addWorkersFlag(fs *flag.FlagSet, p *int) {
	fs.IntVarP(p, "workers", "w", 0, "number of concurrent git status workers (default from config, 6)")
}

func addBackendFlag(fs *flag.FlagSet, p *backendValue) {
	fs.Var(p, "backend", fmt.Sprintf("status backend: %s or %s (default from config)", config.BackendCLI, config.BackendGoGit))
}
