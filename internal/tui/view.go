// SPDX-FileCopyrightText: 2025 The Unipkg Authors
// SPDX-License-Identifier: EUPL-1.2

package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/janderssonse/unipkg/internal/domain"
	"go.uber.org/zap"
)

// View implements the tea.Model interface.
func (a *App) View() string {
	if a.quitting {
		return ""
	}

	var body string

	if a.mode == modeDetail {
		body = a.styles.ActivePane.Render(a.detail.View())
	} else {
		left := lipgloss.JoinVertical(lipgloss.Left, a.renderManagers(), a.renderMarked())
		right := lipgloss.JoinVertical(lipgloss.Left,
			a.styles.ActivePane.Render(a.packages.View()),
			a.styles.Pane.Render(a.logView.View()))
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		a.styles.Header.Render(a.title()),
		body,
		a.renderStatus(),
		a.renderFooter(),
	)
}

func (a *App) title() string {
	title := "Unipkg"
	if backend := a.session.Backend(); backend != nil {
		title += ": " + a.titler.String(backend.Name())
	}

	if a.session.Elevated() {
		title += " - Administrator"
	}

	return title
}

func (a *App) sidebar() lipgloss.Style {
	return a.styles.Pane.Width(sidebarWidth - paneFrame)
}

func (a *App) renderManagers() string {
	lines := []string{a.styles.Title.Render("Managers")}

	for _, m := range a.session.Registry().Managers() {
		name := a.titler.String(m.Name)
		if m.Selected {
			lines = append(lines, a.styles.PrimaryText.Render("> "+name))
		} else {
			lines = append(lines, "  "+name)
		}
	}

	return a.sidebar().Render(strings.Join(lines, "\n"))
}

func (a *App) renderMarked() string {
	lines := []string{a.styles.Title.Render("Marked")}

	staged := a.session.Staged()
	if len(staged) == 0 {
		lines = append(lines, a.styles.MutedText.Render("nothing marked"))
	}

	for _, op := range staged {
		lines = append(lines, op.Name+" - "+a.styles.KindText(op.Kind))
	}

	return a.sidebar().Render(strings.Join(lines, "\n"))
}

func (a *App) renderStatus() string {
	switch {
	case a.busy:
		return a.spinner.View() + " " + a.activity
	case a.mode == modeSearch:
		return a.search.View()
	case a.mode == modeFilter:
		return a.filter.View()
	case a.filter.Value() != "":
		return a.styles.MutedText.Render(fmt.Sprintf("filter: %s (/ to change, esc in filter to clear)", a.filter.Value()))
	case a.mode == modePassword:
		return a.password.View()
	default:
		return ""
	}
}

func (a *App) renderFooter() string {
	bindings := a.keys.browseHints()
	if a.mode != modeBrowse {
		bindings = a.keys.promptHints()
	}

	hints := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		hints = append(hints, a.styles.Keybinding(help.Key, help.Desc))
	}

	return a.styles.Footer.Render(strings.Join(hints, "  "))
}

// renderMarkdown renders a detail card, falling back to the raw text.
func (a *App) renderMarkdown(markdown string) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(max(a.detail.Width, 40)),
	)
	if err != nil {
		return markdown
	}

	rendered, err := renderer.Render(markdown)
	if err != nil {
		return markdown
	}

	return rendered
}

func (a *App) appendLog(line string) {
	a.logLines = append(a.logLines, line)
	if n := len(a.logLines); n > maxLogLines {
		a.logLines = a.logLines[n-maxLogLines:]
	}

	a.logView.SetContent(strings.Join(a.logLines, "\n"))
	a.logView.GotoBottom()
}

func (a *App) logInfo(format string, args ...any) {
	a.appendLog(fmt.Sprintf(format, args...))
}

func (a *App) logSuccess(format string, args ...any) {
	a.appendLog(a.styles.SuccessText.Render("✓ " + fmt.Sprintf(format, args...)))
}

func (a *App) logWarning(format string, args ...any) {
	a.appendLog(a.styles.WarningText.Render("⚠ " + fmt.Sprintf(format, args...)))
}

func (a *App) logError(err error) {
	a.logger.Warn("workflow failed", zap.Error(err))

	var (
		execErr *domain.ExecutionError
		opErr   *domain.OperationError
	)

	message := "✗ " + err.Error()
	if errors.As(err, &execErr) || errors.As(err, &opErr) {
		message = domain.FormatErrorMessage(err, false)
	}

	if errors.Is(err, domain.ErrNothingSelected) {
		message = "✗ Nothing selected. Mark packages with enter first."
	}

	for _, line := range strings.Split(message, "\n") {
		a.appendLog(a.styles.ErrorText.Render(line))
	}
}
