package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tormodhaugland/op/internal/doctor"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check config, roots and required executables",
	Long: `Reports where the config was loaded from, whether every projects
root exists, which include entries are stale, and whether the editor and
git can be found on PATH. Exits non-zero when a check fails.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := setup()
		if err != nil {
			return err
		}
		defer app.close()

		results := doctor.Run(app.cfg)
		doctor.Print(cmd.OutOrStdout(), results)
		if doctor.Failed(results) {
			return &ExitError{Code: 1}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
