package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/tormodhaugland/op/internal/fuzzy"
	"github.com/tormodhaugland/op/internal/model"
	"github.com/tormodhaugland/op/internal/viewport"
)

// SelectResult holds the outcome of the project selector.
type SelectResult struct {
	Entry model.ProjectEntry
	Abort bool
	Err   error
}

type selectorKeyMap struct {
	Next        key.Binding
	Previous    key.Binding
	Select      key.Binding
	Cancel      key.Binding
	Backspace   key.Binding
	ClearFilter key.Binding
}

// Upper-case J and K move the cursor instead of filtering, so names can be
// typed in lower case.
var selectorKeys = selectorKeyMap{
	Next:        key.NewBinding(key.WithKeys("down", "J", "ctrl+n"), key.WithHelp("↓/J", "next")),
	Previous:    key.NewBinding(key.WithKeys("up", "K", "ctrl+p"), key.WithHelp("↑/K", "previous")),
	Select:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
	Cancel:      key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "cancel")),
	Backspace:   key.NewBinding(key.WithKeys("backspace")),
	ClearFilter: key.NewBinding(key.WithKeys("ctrl+u", "alt+backspace", "ctrl+w"), key.WithHelp("ctrl+u", "clear")),
}

type selectorModel struct {
	entries  []model.ProjectEntry
	filtered []model.ProjectEntry
	filter   []rune
	touched  bool
	sel      viewport.Selection
	width    int
	styles   *Styles
	done     bool
	result   SelectResult
}

func newSelectorModel(entries []model.ProjectEntry, rows int, styles *Styles) selectorModel {
	if styles == nil {
		styles = NewStyles("")
	}
	return selectorModel{
		entries:  entries,
		filtered: entries,
		sel:      viewport.NewSelection(rows),
		styles:   styles,
	}
}

func (m selectorModel) Init() tea.Cmd {
	return nil
}

func (m selectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, selectorKeys.Cancel):
			m.result.Abort = true
			m.done = true
			return m, tea.Quit

		case key.Matches(msg, selectorKeys.Select):
			if len(m.filtered) == 0 {
				m.result.Err = model.ErrNoProjects
			} else {
				m.sel.Clamp(len(m.filtered))
				m.result.Entry = m.filtered[m.sel.Cursor]
			}
			m.done = true
			return m, tea.Quit

		case key.Matches(msg, selectorKeys.Next):
			m.sel.Next(len(m.filtered))
			return m, nil

		case key.Matches(msg, selectorKeys.Previous):
			m.sel.Previous()
			return m, nil

		case key.Matches(msg, selectorKeys.ClearFilter):
			m.setFilter(nil)
			return m, nil

		case key.Matches(msg, selectorKeys.Backspace):
			if len(m.filter) > 0 {
				m.setFilter(m.filter[:len(m.filter)-1])
			} else {
				m.setFilter(m.filter)
			}
			return m, nil
		}

		if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
			m.setFilter(append(append([]rune{}, m.filter...), msg.Runes...))
			return m, nil
		}
	}

	return m, nil
}

// setFilter re-ranks the entries and moves the cursor back to the top.
// An empty filter is ranked too, which favours short names over index
// order.
func (m *selectorModel) setFilter(filter []rune) {
	m.filter = filter
	m.touched = true
	m.filtered = fuzzy.Entries(fuzzy.Rank(string(filter), m.entries))
	m.sel.Reset()
}

func (m selectorModel) View() string {
	if m.done {
		return ""
	}

	var sb strings.Builder
	if m.touched {
		sb.WriteString(m.styles.PromptStyle().Render("Find:") + " " + string(m.filter) + "\n")
	}

	if len(m.filtered) == 0 {
		sb.WriteString(m.styles.HintStyle().Render("no matching projects"))
		return sb.String()
	}

	names := make([]string, len(m.filtered))
	for i, e := range m.filtered {
		names[i] = m.truncate(e.Name)
	}

	from, _ := m.sel.Window(len(names))
	lines := strings.Split(m.sel.View(names), "\n")
	for i := range lines {
		if from+i == m.sel.Cursor {
			lines[i] = m.styles.SelectedStyle().Render(lines[i])
		} else {
			lines[i] = m.styles.ItemStyle().Render(lines[i])
		}
	}
	sb.WriteString(strings.Join(lines, "\n"))
	return sb.String()
}

// truncate shortens a name so the marker and the name fit on one line.
func (m selectorModel) truncate(name string) string {
	if m.width <= 0 {
		return name
	}
	limit := m.width - len(">> ")
	if limit < 1 || ansi.StringWidth(name) <= limit {
		return name
	}
	return ansi.Truncate(name, limit, "…")
}

// RunSelector lets the user pick a project from entries. It renders on
// stderr so the selected path can be printed on stdout. Pressing enter with
// nothing matched returns model.ErrNoProjects.
func RunSelector(entries []model.ProjectEntry, rows int, styles *Styles) (SelectResult, error) {
	if len(entries) == 0 {
		return SelectResult{Abort: true}, model.ErrNoProjects
	}

	lipgloss.SetDefaultRenderer(lipgloss.NewRenderer(os.Stderr, termenv.WithColorCache(true)))

	m := newSelectorModel(entries, rows, styles)
	p := tea.NewProgram(m, tea.WithOutput(os.Stderr))

	finalModel, err := p.Run()
	if err != nil {
		return SelectResult{Abort: true}, err
	}

	result := finalModel.(selectorModel).result
	return result, result.Err
}
