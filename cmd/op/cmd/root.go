package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"
	"github.com/tormodhaugland/op/internal/fs"
	"github.com/tormodhaugland/op/internal/launch"
	"github.com/tormodhaugland/op/internal/model"
	"github.com/tormodhaugland/op/internal/tui"
	"go.uber.org/zap"
)

var (
	cfgFile   string
	printPath bool
	printURI  bool
)

var rootCmd = &cobra.Command{
	Use:   "op [project]",
	Short: "Jump into a project under ~/Projects",
	Long: `op finds project directories laid out as <root>/<category>/<project>
and opens them in your editor.

Running 'op' without arguments starts an interactive fuzzy selector.
Type to filter, use the arrow keys or J/K to move, enter to open and
esc to cancel.

  op              # pick a project interactively
  op myapp        # open the project whose path ends in myapp
  op myapp -p     # print its path, e.g. cd "$(op myapp -p)"
  op myapp -u     # print it as a file:// URI`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := setup()
		if err != nil {
			return err
		}
		defer app.close()

		if len(args) == 1 {
			return openByName(cmd, app, args[0])
		}
		return selectAndOpen(cmd, app)
	},
}

func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/op/config.yaml, then ~/.opconfig)")
	rootCmd.Flags().BoolVarP(&printPath, "print", "p", false, "print the project path instead of opening it")
	rootCmd.Flags().BoolVarP(&printURI, "uri", "u", false, "print the project as a file:// URI instead of opening it")
	rootCmd.MarkFlagsMutuallyExclusive("print", "uri")
}

func openByName(cmd *cobra.Command, app *appEnv, name string) error {
	idx, err := app.buildIndex(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if err := idx.RequireNonEmpty(); err != nil {
		return err
	}

	entry, ok := idx.Match(name)
	if !ok {
		suggest(cmd.ErrOrStderr(), idx, name)
		return fmt.Errorf("no project matching %q", name)
	}
	return deliver(cmd, app, entry)
}

// suggest prints close matches for a name that matched nothing, or every
// project when nothing is close.
func suggest(w io.Writer, idx *model.Index, name string) {
	names := idx.Names()
	matches := fuzzy.Find(name, names)
	if len(matches) > 0 {
		fmt.Fprintln(w, "Did you mean:")
		for i, m := range matches {
			if i == 5 {
				break
			}
			fmt.Fprintf(w, "  %s\n", m.Str)
		}
		return
	}

	fmt.Fprintln(w, "Available projects:")
	for _, n := range names {
		fmt.Fprintf(w, "  %s\n", n)
	}
}

func selectAndOpen(cmd *cobra.Command, app *appEnv) error {
	if !fs.DirExists(app.cfg.ProjectsRoot) {
		return offerCreateRoot(cmd, app)
	}
	if !isTerminal(os.Stdin) {
		return fmt.Errorf("the project selector needs a terminal; use 'op ls' or 'op <project>'")
	}

	idx, err := app.buildIndex(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if err := idx.RequireNonEmpty(); err != nil {
		return err
	}

	result, err := tui.RunSelector(idx.Entries, app.cfg.BufferRows, tui.NewStyles(app.cfg.Theme))
	if err != nil {
		return err
	}
	if result.Abort {
		return nil
	}
	return deliver(cmd, app, result.Entry)
}

// deliver prints or opens the chosen project.
func deliver(cmd *cobra.Command, app *appEnv, entry model.ProjectEntry) error {
	switch {
	case printPath:
		fmt.Fprintln(cmd.OutOrStdout(), entry.Path)
		return nil
	case printURI:
		fmt.Fprintln(cmd.OutOrStdout(), entry.URI())
		return nil
	}

	name, args := app.cfg.EditorCommand()
	launcher := launch.NewLauncher(launch.Editor{Name: name, Args: args}, launch.StdIO())
	launcher.SetLogger(app.logger)

	outcome, err := launcher.Open(cmd.Context(), entry.Path)
	if err != nil {
		return err
	}
	if outcome.ExitCode != 0 {
		return &ExitError{Code: outcome.ExitCode}
	}
	return nil
}

func offerCreateRoot(cmd *cobra.Command, app *appEnv) error {
	root := app.cfg.ProjectsRoot
	out := cmd.OutOrStdout()

	if !isTerminal(os.Stdin) {
		return fmt.Errorf("projects root %s does not exist; run 'op create' to set it up", root)
	}

	ok, err := tui.Confirm(
		fmt.Sprintf("No projects directory found at %s", root),
		"Would you like to create it?",
		tui.NewStyles(app.cfg.Theme),
	)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(out, "Nothing is created. Run 'op create' to set up the layout later.")
		return nil
	}

	if err := fs.EnsureDir(root); err != nil {
		return fmt.Errorf("failed to create %s: %w", root, err)
	}
	app.logger.Info("created projects root", zap.String("root", root))
	fmt.Fprintf(out, "Done creating %s\n", root)
	fmt.Fprintf(out, "You can now run 'op create' to add the category directories (%s)\n", strings.Join(fs.DefaultCategories, ", "))
	return nil
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
