// SPDX-FileCopyrightText: 2025 The Unipkg Authors
// SPDX-License-Identifier: EUPL-1.2

package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/janderssonse/unipkg/internal/domain"
)

// fetchedMsg carries the result of a search or listing.
type fetchedMsg struct {
	outcome *domain.Outcome
	err     error
}

// appliedMsg carries the result of applying the queue.
type appliedMsg struct {
	result *domain.ApplyResult
	err    error
}

// detailMsg carries a package detail card.
type detailMsg struct {
	name   string
	detail string
	err    error
}

func (a *App) searchCmd(query string) tea.Cmd {
	ctx, session := a.ctx, a.session

	return func() tea.Msg {
		outcome, err := session.Search(ctx, query)

		return fetchedMsg{outcome: outcome, err: err}
	}
}

func (a *App) listCmd() tea.Cmd {
	ctx, session := a.ctx, a.session

	return func() tea.Msg {
		outcome, err := session.ListInstalled(ctx)

		return fetchedMsg{outcome: outcome, err: err}
	}
}

func (a *App) applyCmd() tea.Cmd {
	ctx, session := a.ctx, a.session

	return func() tea.Msg {
		result, err := session.Apply(ctx)

		return appliedMsg{result: result, err: err}
	}
}

func (a *App) infoCmd(name string) tea.Cmd {
	ctx, session := a.ctx, a.session

	return func() tea.Msg {
		detail, err := session.Info(ctx, name)

		return detailMsg{name: name, detail: detail, err: err}
	}
}
