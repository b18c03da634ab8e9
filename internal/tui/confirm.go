package tui

import (
	"errors"
	"os"

	"github.com/charmbracelet/huh"
)

const confirmFieldKey = "confirm_result"

func newConfirmForm(title, description string, result *bool, styles *Styles) *huh.Form {
	if styles == nil {
		styles = NewStyles("")
	}
	confirm := huh.NewConfirm().
		Key(confirmFieldKey).
		Title(title).
		Description(description).
		Affirmative("Yes").
		Negative("No").
		Value(result)

	return huh.NewForm(huh.NewGroup(confirm)).
		WithTheme(styles.HuhTheme()).
		WithShowHelp(false).
		WithOutput(os.Stderr)
}

// Confirm asks a yes/no question on stderr. Cancelling the form counts as
// no.
func Confirm(title, description string, styles *Styles) (bool, error) {
	result := true
	err := newConfirmForm(title, description, &result, styles).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return result, nil
}
