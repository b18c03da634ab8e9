package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tormodhaugland/op/internal/config"
	"github.com/tormodhaugland/op/internal/doctor"
	"github.com/tormodhaugland/op/internal/git"
	"github.com/tormodhaugland/op/internal/status"
	"go.uber.org/zap"
)

var (
	statusWorkers int
	statusBackend backendValue
)

var statusCmd = &cobra.Command{
	Use:     "status",
	Aliases: []string{"git-status"},
	Short:   "Show projects with uncommitted or unsynced work",
	Long: `Runs git status on every project and lists the ones that have
uncommitted changes (DIRTY) or have diverged from their upstream branch
(NOT IN SYNC). Clean projects and directories that are not git
repositories are left out.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := setup()
		if err != nil {
			return err
		}
		defer app.close()

		idx, err := app.buildIndex(cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		workers := app.cfg.Workers
		if statusWorkers > 0 {
			workers = statusWorkers
		}
		backend := app.cfg.StatusBackend
		if statusBackend != "" {
			backend = string(statusBackend)
		}

		if backend == config.BackendCLI {
			if _, err := doctor.CheckExecutable("git"); err != nil {
				return fmt.Errorf("failed to fetch git status: %w", err)
			}
		}

		scanner := status.NewScanner(newProber(backend, app.logger), workers)
		scanner.SetLogger(app.logger)

		statuses, err := scanner.Scan(cmd.Context(), idx.Paths())
		if err != nil {
			return fmt.Errorf("failed to fetch git status: %w", err)
		}
		return status.WriteReport(cmd.OutOrStdout(), status.Report(statuses))
	},
}

func newProber(backend string, logger *zap.Logger) status.Prober {
	if backend == config.BackendGoGit {
		return git.GoGitProber{Logger: logger}
	}
	return git.CLIProber{Logger: logger}
}

func init() {
	addWorkersFlag(statusCmd.Flags(), &statusWorkers)
	addBackendFlag(statusCmd.Flags(), &statusBackend)
	rootCmd.AddCommand(statusCmd)
}
