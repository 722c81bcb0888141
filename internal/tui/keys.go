// SPDX-FileCopyrightText: 2025 The Unipkg Authors
// SPDX-License-Identifier: EUPL-1.2

package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	NextManager key.Binding
	Search      key.Binding
	Filter      key.Binding
	List        key.Binding
	Toggle      key.Binding
	Update      key.Binding
	Info        key.Binding
	Apply       key.Binding
	Quit        key.Binding
	Confirm     key.Binding
	Cancel      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NextManager: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "manager"),
		),
		Search: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "search"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		List: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "installed"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "mark"),
		),
		Update: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "update"),
		),
		Info: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "info"),
		),
		Apply: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "apply"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "ok"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// browseHints lists the bindings shown in the footer while browsing.
func (k keyMap) browseHints() []key.Binding {
	return []key.Binding{k.NextManager, k.Search, k.Filter, k.List, k.Toggle, k.Update, k.Info, k.Apply, k.Quit}
}

func (k keyMap) promptHints() []key.Binding {
	return []key.Binding{k.Confirm, k.Cancel}
}
