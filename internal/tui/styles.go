package tui

import (
	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

type Styles struct {
	flavor catppuccin.Flavor
}

func NewStyles(themeName string) *Styles {
	return &Styles{flavor: flavorFromName(themeName)}
}

func flavorFromName(name string) catppuccin.Flavor {
	switch name {
	case "latte":
		return catppuccin.Latte
	case "frappe":
		return catppuccin.Frappe
	case "macchiato":
		return catppuccin.Macchiato
	default:
		return catppuccin.Mocha
	}
}

func (s *Styles) color(c catppuccin.Color) lipgloss.Color {
	return lipgloss.Color(c.Hex)
}

func (s *Styles) PromptStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(s.color(s.flavor.Teal()))
}

func (s *Styles) SelectedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(s.color(s.flavor.Mauve()))
}

func (s *Styles) ItemStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(s.color(s.flavor.Text()))
}

func (s *Styles) HintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(s.color(s.flavor.Overlay0()))
}

// HuhTheme adapts the charm form theme to the palette.
func (s *Styles) HuhTheme() *huh.Theme {
	t := *huh.ThemeCharm()
	t.Focused.Title = t.Focused.Title.Foreground(s.color(s.flavor.Mauve()))
	t.Focused.FocusedButton = t.Focused.FocusedButton.Background(s.color(s.flavor.Mauve()))
	t.Focused.Next = t.Focused.FocusedButton
	return &t
}
