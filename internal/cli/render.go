// SPDX-FileCopyrightText: 2025 The Unipkg Authors
// SPDX-License-Identifier: EUPL-1.2

package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/janderssonse/unipkg/internal/domain"
)

func (app *CLI) renderManagers(managers []domain.ManagerInfo) error {
	if app.out.Structured() {
		return app.out.Document("success", managers)
	}

	if len(managers) == 0 {
		app.out.Warningf("No supported package manager found")

		return nil
	}

	if app.out.Plain {
		for _, m := range managers {
			app.out.PlainKeyValue(m.Name, m.Installer)
		}

		return nil
	}

	app.out.Linef("%s", app.out.Header("Package managers"))

	for _, m := range managers {
		marker := " "
		if m.Selected {
			marker = "*"
		}

		admin := ""
		if m.Admin {
			admin = " (administrator)"
		}

		app.out.Linef("%s %-8s %s%s", marker, m.Name, m.Installer, admin)
	}

	return nil
}

func (app *CLI) renderOutcome(outcome *domain.Outcome) error {
	for _, op := range outcome.Dropped {
		app.out.Warningf("Dropped %s, it no longer fits the package state", op)
	}

	if app.out.Structured() {
		return app.out.Document("success", outcome)
	}

	if outcome.Empty {
		if outcome.Query != "" {
			app.out.Infof("No packages match %q with %s", outcome.Query, outcome.Backend)
		} else {
			app.out.Infof("No packages reported by %s", outcome.Backend)
		}

		return nil
	}

	if app.out.Plain {
		for _, pkg := range outcome.Packages {
			app.out.Linef("%s:%s:%t", pkg.Name, pkg.Version, pkg.Installed)
		}

		return nil
	}

	for _, pkg := range outcome.Packages {
		box := "[ ]"
		if pkg.Checked() {
			box = "[x]"
		}

		app.out.Linef("%s %s", box, pkg.Display())
	}

	app.out.Infof("%d package(s) from %s", len(outcome.Packages), outcome.Backend)

	return nil
}

func (app *CLI) renderApply(result *domain.ApplyResult) error {
	if result == nil {
		return nil
	}

	if app.out.Structured() {
		return app.out.Document(applyStatus(result), result)
	}

	if app.out.Plain {
		for _, op := range result.Applied {
			app.out.PlainKeyValue(op.Name, "done")
		}

		for _, op := range result.Remaining {
			app.out.PlainKeyValue(op.Name, "pending")
		}

		return nil
	}

	for _, op := range result.Applied {
		app.out.Successf("%s", op)
	}

	app.out.Infof("%s", applySummary(result))

	return nil
}

func applyStatus(result *domain.ApplyResult) string {
	if len(result.Remaining) > 0 {
		return "error"
	}

	return "success"
}

func applySummary(result *domain.ApplyResult) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("%d applied", result.Completed()))

	if n := len(result.Remaining); n > 0 {
		parts = append(parts, fmt.Sprintf("%d not applied", n))
	}

	return fmt.Sprintf("%s with %s (%s)", strings.Join(parts, ", "), result.Backend, result.Duration.Round(time.Millisecond))
}

func (app *CLI) renderInfo(name, detail string) error {
	if app.out.Structured() {
		return app.out.Document("success", map[string]string{"name": name, "detail": detail})
	}

	if app.out.Plain || !app.out.IsTTY(stdoutFd()) {
		app.out.Linef("%s", strings.TrimSpace(detail))

		return nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		app.out.Linef("%s", detail)

		return nil //nolint:nilerr // fall back to raw markdown
	}

	rendered, err := renderer.Render(detail)
	if err != nil {
		rendered = detail
	}

	app.out.Linef("%s", strings.TrimRight(rendered, "\n"))

	return nil
}
