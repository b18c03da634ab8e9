package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var addCmd = &cobra.Command{
	Use:   "add <path>",
	Short: "Track a directory outside the projects layout",
	Long: `Appends path to the include list (<projects_root>/.opinclude) so it
shows up next to the scanned projects. The path must exist.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := setup()
		if err != nil {
			return err
		}
		defer app.close()

		added, err := app.cfg.AddInclude(args[0])
		if err != nil {
			return fmt.Errorf("failed to add include: %w", err)
		}
		app.logger.Info("include added", zap.String("path", added))
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s to %s\n", added, app.cfg.IncludeFilePath())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
}
