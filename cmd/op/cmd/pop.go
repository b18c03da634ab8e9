package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var popCmd = &cobra.Command{
	Use:   "pop",
	Short: "Remove the most recently added include",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := setup()
		if err != nil {
			return err
		}
		defer app.close()

		popped, err := app.cfg.PopInclude()
		if err != nil {
			return fmt.Errorf("failed to pop include: %w", err)
		}
		app.logger.Info("include removed", zap.String("path", popped))
		fmt.Fprintln(cmd.OutOrStdout(), popped)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(popCmd)
}
