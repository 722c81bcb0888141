// SPDX-FileCopyrightText: 2025 The Unipkg Authors
// SPDX-License-Identifier: EUPL-1.2

package cli

import (
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/janderssonse/unipkg/internal/console"
	"github.com/janderssonse/unipkg/internal/domain"
)

func stdoutFd() uintptr {
	return os.Stdout.Fd()
}

// interactive reports whether prompts can use the terminal forms.
func (app *CLI) interactive() bool {
	return !app.out.Structured() && !app.out.Plain && app.stdin == os.Stdin && app.out.Interactive()
}

// confirm asks before applying staged. --yes accepts without asking.
func (app *CLI) confirm(title string, staged []domain.Operation) (bool, error) {
	if app.yes {
		return true, nil
	}

	lines := make([]string, len(staged))
	for i, op := range staged {
		lines[i] = "  " + op.String()
	}

	if !app.interactive() {
		return console.Confirm(title+"\n"+strings.Join(lines, "\n")+"\n", false, app.stdin, app.out.Err)
	}

	var ok bool

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(strings.Join(lines, "\n")).
				Affirmative("Apply").
				Negative("Cancel").
				Value(&ok),
		),
	)

	if err := form.Run(); err != nil {
		return false, err
	}

	return ok, nil
}

// askPassword prompts for the elevation password. Without a terminal it
// returns an empty password and the elevation command runs non-interactively.
func (app *CLI) askPassword(backend string) (string, error) {
	if !app.interactive() {
		app.out.Warningf("%s needs administrator rights; no terminal to ask for a password", backend)

		return "", nil
	}

	var secret string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Password").
				Description(backend+" needs administrator rights").
				EchoMode(huh.EchoModePassword).
				Value(&secret),
		),
	)

	if err := form.Run(); err != nil {
		return "", err
	}

	return secret, nil
}
