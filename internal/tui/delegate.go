// SPDX-FileCopyrightText: 2025 The Unipkg Authors
// SPDX-License-Identifier: EUPL-1.2

package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/janderssonse/unipkg/internal/domain"
	"github.com/janderssonse/unipkg/internal/tui/styles"
	"github.com/mattn/go-runewidth"
)

// packageItem adapts a displayed package to list.Item.
type packageItem struct {
	pkg *domain.Package
}

func (i packageItem) FilterValue() string { return i.pkg.Name }

// packageDelegate renders one package per line: checkbox and columns.
type packageDelegate struct {
	styles *styles.Styles
}

func (d packageDelegate) Height() int { return 1 }

func (d packageDelegate) Spacing() int { return 0 }

func (d packageDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d packageDelegate) Render(writer io.Writer, listModel list.Model, index int, item list.Item) {
	entry, ok := item.(packageItem)
	if !ok {
		return
	}

	line := entry.pkg.Display()
	if width := listModel.Width() - 4; width > 0 {
		line = runewidth.Truncate(line, width, "…")
	}

	style := d.styles.Unselected
	if index == listModel.Index() {
		style = d.styles.Selected
	}

	_, _ = fmt.Fprintf(writer, "%s %s", d.styles.MarkIcon(entry.pkg), style.Render(line))
}

func toItems(pkgs []*domain.Package) []list.Item {
	items := make([]list.Item, len(pkgs))
	for i, pkg := range pkgs {
		items[i] = packageItem{pkg: pkg}
	}

	return items
}
