// SPDX-FileCopyrightText: 2025 The Unipkg Authors
// SPDX-License-Identifier: EUPL-1.2

// Package styles defines consistent visual styling for TUI components.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/janderssonse/unipkg/internal/domain"
)

// Styles contains all the styles used in the TUI.
type Styles struct {
	// Color palette
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Info      lipgloss.Color
	Muted     lipgloss.Color

	// Component styles
	Header      lipgloss.Style
	Footer      lipgloss.Style
	Title       lipgloss.Style
	Pane        lipgloss.Style
	ActivePane  lipgloss.Style
	Selected    lipgloss.Style
	Unselected  lipgloss.Style
	PromptLabel lipgloss.Style

	// Text styles (cached for performance)
	MutedText   lipgloss.Style
	PrimaryText lipgloss.Style
	SuccessText lipgloss.Style
	ErrorText   lipgloss.Style
	WarningText lipgloss.Style
}

// New creates a new Styles instance with the Tokyo Night palette.
func New() *Styles {
	primary := lipgloss.Color("#7aa2f7")    // Blue
	secondary := lipgloss.Color("#bb9af7")  // Purple
	success := lipgloss.Color("#9ece6a")    // Green
	warning := lipgloss.Color("#e0af68")    // Yellow
	errorColor := lipgloss.Color("#f7768e") // Red
	info := lipgloss.Color("#7dcfff")       // Cyan
	muted := lipgloss.Color("#565f89")      // Gray

	background := lipgloss.Color("#1a1b26")
	foreground := lipgloss.Color("#c0caf5")

	return &Styles{
		Primary:   primary,
		Secondary: secondary,
		Success:   success,
		Warning:   warning,
		Error:     errorColor,
		Info:      info,
		Muted:     muted,

		Header: lipgloss.NewStyle().
			Background(primary).
			Foreground(background).
			Bold(true).
			Padding(0, 1),

		Footer: lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Foreground(secondary).
			Bold(true),

		Pane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(0, 1),

		ActivePane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primary).
			Padding(0, 1),

		Selected: lipgloss.NewStyle().
			Background(primary).
			Foreground(background),

		Unselected: lipgloss.NewStyle().
			Foreground(foreground),

		PromptLabel: lipgloss.NewStyle().
			Foreground(info).
			Bold(true),

		MutedText: lipgloss.NewStyle().
			Foreground(muted),

		PrimaryText: lipgloss.NewStyle().
			Foreground(primary),

		SuccessText: lipgloss.NewStyle().
			Foreground(success),

		ErrorText: lipgloss.NewStyle().
			Foreground(errorColor),

		WarningText: lipgloss.NewStyle().
			Foreground(warning),
	}
}

// MarkIcon returns the styled checkbox for a package row.
func (s *Styles) MarkIcon(pkg *domain.Package) string {
	box := "[ ]"
	if pkg.Checked() {
		box = "[x]"
	}

	switch pkg.Marked {
	case domain.OpInstall, domain.OpUpdate:
		return s.SuccessText.Render(box)
	case domain.OpUninstall:
		return s.ErrorText.Render(box)
	default:
		return box
	}
}

// KindText colors an operation kind the way the marked pane shows it.
func (s *Styles) KindText(kind domain.OperationKind) string {
	switch kind {
	case domain.OpInstall:
		return s.SuccessText.Render(kind.String())
	case domain.OpUninstall:
		return s.ErrorText.Render(kind.String())
	case domain.OpUpdate:
		return s.WarningText.Render(kind.String())
	default:
		return kind.String()
	}
}

// Keybinding returns styled keybinding text.
func (s *Styles) Keybinding(key, desc string) string {
	keyStyle := lipgloss.NewStyle().
		Foreground(s.Primary).
		Bold(true)

	return keyStyle.Render("["+key+"]") + " " + s.MutedText.Render(desc)
}
