package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tormodhaugland/op/internal/config"
	"github.com/tormodhaugland/op/internal/fs"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create the projects root and its category directories",
	Long: fmt.Sprintf(`Creates <projects_root>/<category> for the default categories
(%s) and an empty include list. Existing directories are
left alone.`, strings.Join(fs.DefaultCategories, ", ")),
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := setup()
		if err != nil {
			return err
		}
		defer app.close()

		root := app.cfg.ProjectsRoot
		steps, err := fs.CreateLayout(root, fs.DefaultCategories, config.IncludeFileName)

		out := cmd.OutOrStdout()
		for _, step := range steps {
			name := filepath.Base(step.Path)
			switch {
			case step.Path == root:
				fmt.Fprintf(out, "Creating directory %s\n", root)
			case step.Created:
				fmt.Fprintf(out, "Creating %s\n", name)
			default:
				fmt.Fprintf(out, "%s already exists, skipping\n", name)
			}
		}
		if err != nil {
			return fmt.Errorf("failed to create layout: %w", err)
		}

		fmt.Fprintln(out, "Done")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(createCmd)
}
