package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	lsPaths bool
	lsJSON  bool
)

var lsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List projects",
	Long: `Prints every project in the index, one name per line, sorted by
name. Use --paths for full paths or --json for machine-readable output.`,
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
		if err := idx.RequireNonEmpty(); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if lsJSON {
			return idx.WriteJSON(out)
		}

		lines := idx.Names()
		if lsPaths {
			lines = idx.Paths()
		}
		for _, line := range lines {
			fmt.Fprintln(out, line)
		}
		return nil
	},
}

func init() {
	lsCmd.Flags().BoolVar(&lsPaths, "paths", false, "print full paths")
	lsCmd.Flags().BoolVar(&lsJSON, "json", false, "output in JSON format")
	lsCmd.MarkFlagsMutuallyExclusive("paths", "json")
	rootCmd.AddCommand(lsCmd)
}
