package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tormodhaugland/op/internal/fuzzy"
)

var findCmd = &cobra.Command{
	Use:     "find [query]",
	Aliases: []string{"fuz"},
	Short:   "Fuzzy find projects",
	Long: `Ranks project names against query the same way the interactive
selector does and prints the matches, best first.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := setup()
		if err != nil {
			return err
		}
		defer app.close()

		var query string
		if len(args) == 1 {
			query = args[0]
		}

		idx, err := app.buildIndex(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		if err := idx.RequireNonEmpty(); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, m := range fuzzy.Rank(query, idx.Entries) {
			fmt.Fprintln(out, m.Entry.Name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(findCmd)
}
