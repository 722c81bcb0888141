// SPDX-FileCopyrightText: 2025 The Unipkg Authors
// SPDX-License-Identifier: EUPL-1.2

package tui

import (
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/janderssonse/unipkg/internal/adapters/backends"
	"github.com/janderssonse/unipkg/internal/application"
	"github.com/janderssonse/unipkg/internal/domain"
	"github.com/janderssonse/unipkg/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const freezeOutput = "requests==2.25.1\nflask==1.1.2"

func newTestApp(t *testing.T, exec *testutil.ScriptedExecutor, elevated bool, managers ...string) *App {
	t.Helper()

	registry := application.NewRegistry(context.Background(), backends.Known(exec, zap.NewNop(), managers...)...)
	session := application.NewSession(registry, application.WithElevated(elevated))

	app := NewApp(context.Background(), session, zap.NewNop())
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	return app
}

func keyPress(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func press(app *App, k string) tea.Cmd {
	_, cmd := app.Update(keyPress(k))

	return cmd
}

// finish runs the workers behind cmd and feeds their messages back, the way
// the program loop would. Spinner ticks are dropped.
func finish(t *testing.T, app *App, cmd tea.Cmd) {
	t.Helper()

	require.NotNil(t, cmd, "expected a worker")

	for queue := []tea.Cmd{cmd}; len(queue) > 0; {
		next := queue[0]
		queue = queue[1:]

		if next == nil {
			continue
		}

		switch msg := next().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case spinner.TickMsg:
		default:
			_, follow := app.Update(msg)
			queue = append(queue, follow)
		}
	}
}

func logText(app *App) string {
	return strings.Join(app.logLines, "\n")
}

func listInstalled(t *testing.T, app *App) {
	t.Helper()

	finish(t, app, press(app, "l"))
}

func TestApp_SelectsFirstManager(t *testing.T) {
	t.Parallel()

	exec := testutil.NewScriptedExecutor().
		On("pip --version", "pip 23").
		On("npm --version", "10")

	app := newTestApp(t, exec, false, "pip", "npm")

	require.NotNil(t, app.session.Backend())
	assert.Equal(t, "pip", app.session.Backend().Name())
	assert.Equal(t, "Unipkg: Pip", app.title())
	assert.Contains(t, app.View(), "> Pip")
	assert.Contains(t, logText(app), "Using Pip")
}

func TestApp_AdministratorTitle(t *testing.T) {
	t.Parallel()

	exec := testutil.NewScriptedExecutor().On("pip --version", "pip 23")

	app := newTestApp(t, exec, true, "pip")

	assert.True(t, strings.HasSuffix(app.title(), " - Administrator"))
}

func TestApp_NoManagers(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, testutil.NewScriptedExecutor(), false)

	assert.Nil(t, app.session.Backend())
	assert.Equal(t, "Unipkg", app.title())
	assert.Contains(t, logText(app), domain.ErrNoPackageManager.Error())
}

func TestApp_ListInstalled(t *testing.T) {
	t.Parallel()

	exec := testutil.NewScriptedExecutor().
		On("pip --version", "pip 23").
		On("pip list --format=freeze", freezeOutput)

	app := newTestApp(t, exec, false, "pip")

	cmd := press(app, "l")
	assert.True(t, app.busy)
	assert.Contains(t, app.View(), "Listing installed packages")

	finish(t, app, cmd)

	assert.False(t, app.busy)
	assert.Len(t, app.packages.Items(), 2)
	assert.Equal(t, "requests", app.current().Name)
	assert.Contains(t, logText(app), "2 package(s) from pip")
}

func TestApp_ListEmpty(t *testing.T) {
	t.Parallel()

	exec := testutil.NewScriptedExecutor().
		On("pip --version", "pip 23").
		On("pip list --format=freeze", "")

	app := newTestApp(t, exec, false, "pip")
	listInstalled(t, app)

	assert.Empty(t, app.packages.Items())
	assert.Contains(t, logText(app), "No packages reported by pip")
}

func TestApp_IgnoresInputWhileBusy(t *testing.T) {
	t.Parallel()

	exec := testutil.NewScriptedExecutor().
		On("pip --version", "pip 23").
		On("pip list --format=freeze", freezeOutput)

	app := newTestApp(t, exec, false, "pip")
	listInstalled(t, app)

	pending := press(app, "l")
	require.True(t, app.busy)

	assert.Nil(t, press(app, "enter"))
	assert.Nil(t, press(app, "s"))
	assert.Nil(t, press(app, "a"))
	assert.Empty(t, app.session.Staged())
	assert.Equal(t, modeBrowse, app.mode)

	finish(t, app, pending)
	assert.False(t, app.busy)

	quit := press(app, "q")
	require.NotNil(t, quit)
	assert.Equal(t, tea.QuitMsg{}, quit())
	assert.True(t, app.quitting)
}

func TestApp_QuitWhileBusy(t *testing.T) {
	t.Parallel()

	exec := testutil.NewScriptedExecutor().
		On("pip --version", "pip 23").
		On("pip list --format=freeze", freezeOutput)

	app := newTestApp(t, exec, false, "pip")
	press(app, "l")

	quit := press(app, "ctrl+c")
	require.NotNil(t, quit)
	assert.Equal(t, tea.QuitMsg{}, quit())
	assert.Empty(t, app.View())
}

func TestApp_ToggleMarkAndApply(t *testing.T) {
	t.Parallel()

	exec := testutil.NewScriptedExecutor().
		On("pip --version", "pip 23").
		On("pip list --format=freeze", freezeOutput).
		On("pip uninstall -y requests", "Successfully uninstalled requests")

	app := newTestApp(t, exec, false, "pip")
	listInstalled(t, app)

	assert.Nil(t, press(app, "enter"))
	assert.Equal(t, []domain.Operation{{Name: "requests", Kind: domain.OpUninstall}}, app.session.Staged())
	assert.Contains(t, app.View(), "requests - Uninstall")

	finish(t, app, press(app, "a"))

	assert.Contains(t, exec.Lines(), "pip uninstall -y requests")
	assert.Empty(t, app.session.Staged())
	assert.False(t, app.current().Installed)
	assert.Contains(t, logText(app), "✓ requests - Uninstall")
	assert.Contains(t, app.View(), "nothing marked")
}

func TestApp_ToggleTwiceUnmarks(t *testing.T) {
	t.Parallel()

	exec := testutil.NewScriptedExecutor().
		On("pip --version", "pip 23").
		On("pip list --format=freeze", freezeOutput)

	app := newTestApp(t, exec, false, "pip")
	listInstalled(t, app)

	press(app, "enter")
	press(app, "enter")

	assert.Empty(t, app.session.Staged())
	assert.Contains(t, logText(app), "Unmarked requests")
}

func TestApp_MarkUpdate(t *testing.T) {
	t.Parallel()

	exec := testutil.NewScriptedExecutor().
		On("pip --version", "pip 23").
		On("pip list --format=freeze", freezeOutput)

	app := newTestApp(t, exec, false, "pip")
	listInstalled(t, app)

	press(app, "u")

	assert.Equal(t, []domain.Operation{{Name: "requests", Kind: domain.OpUpdate}}, app.session.Staged())
	assert.Contains(t, logText(app), "Marked requests - Update")
}

func TestApp_ApplyNothingSelected(t *testing.T) {
	t.Parallel()

	exec := testutil.NewScriptedExecutor().On("pip --version", "pip 23")

	app := newTestApp(t, exec, false, "pip")

	assert.Nil(t, press(app, "a"))
	assert.False(t, app.busy)
	assert.Contains(t, logText(app), "Nothing selected")
	assert.Equal(t, []string{"pip --version"}, exec.Lines())
}

func aptApp(t *testing.T, exec *testutil.ScriptedExecutor) *App {
	t.Helper()

	exec.
		On("apt-get --version", "apt 2.4").
		On("dpkg -l --no-pager", "ii  curl  7.68.0  command line tool")

	app := newTestApp(t, exec, false, "apt")
	listInstalled(t, app)
	press(app, "enter")

	return app
}

func typeText(app *App, text string) {
	for _, r := range text {
		press(app, string(r))
	}
}

func TestApp_ApplyAsksForPassword(t *testing.T) {
	t.Parallel()

	exec := testutil.NewScriptedExecutor().On("apt-get uninstall -y curl", "Removing curl")
	app := aptApp(t, exec)

	press(app, "a")
	require.Equal(t, modePassword, app.mode)
	assert.False(t, app.busy)

	typeText(app, "hunter2")
	assert.NotContains(t, app.View(), "hunter2")

	finish(t, app, press(app, "enter"))

	commands := exec.Commands()
	last := commands[len(commands)-1]
	assert.Equal(t, "apt-get uninstall -y curl", last.Line)
	assert.True(t, last.Admin)
	assert.Equal(t, "hunter2", last.Credentials)
	assert.Equal(t, modeBrowse, app.mode)
	assert.Contains(t, logText(app), "✓ curl - Uninstall")
}

func TestApp_PasswordCancelled(t *testing.T) {
	t.Parallel()

	app := aptApp(t, testutil.NewScriptedExecutor())

	press(app, "a")
	typeText(app, "secret")
	assert.Nil(t, press(app, "esc"))

	assert.Equal(t, modeBrowse, app.mode)
	assert.Len(t, app.session.Staged(), 1)
	assert.Contains(t, logText(app), "Apply cancelled")
}

func TestApp_ApplyFailureAsksAgain(t *testing.T) {
	t.Parallel()

	exec := testutil.NewScriptedExecutor().
		OnResult("apt-get uninstall -y curl", domain.Result{Output: "Sorry, try again.", Status: 1})
	app := aptApp(t, exec)

	press(app, "a")
	typeText(app, "wrong")
	finish(t, app, press(app, "enter"))

	assert.Contains(t, logText(app), "Failed to uninstall curl")
	assert.Contains(t, logText(app), "1 operation(s) not applied")
	assert.Len(t, app.session.Staged(), 1)

	press(app, "a")
	assert.Equal(t, modePassword, app.mode)
}

func TestApp_Search(t *testing.T) {
	t.Parallel()

	exec := testutil.NewScriptedExecutor().
		On("pip --version", "pip 23").
		On("pip search flask", "flask (1.1.2)  - A micro framework\n  INSTALLED: 1.1.2").
		On("pip list --format=freeze", freezeOutput)

	app := newTestApp(t, exec, false, "pip")

	press(app, "s")
	require.Equal(t, modeSearch, app.mode)

	typeText(app, "flask")
	assert.Contains(t, app.View(), "Search: ")

	finish(t, app, press(app, "enter"))

	assert.Equal(t, modeBrowse, app.mode)
	assert.Contains(t, exec.Lines(), "pip search flask")
	require.Len(t, app.packages.Items(), 1)
	assert.Equal(t, "flask", app.current().Name)
	assert.True(t, app.current().Installed)
}

func TestApp_SearchPromptKeys(t *testing.T) {
	t.Parallel()

	exec := testutil.NewScriptedExecutor().On("pip --version", "pip 23")
	app := newTestApp(t, exec, false, "pip")

	tests := []struct {
		name string
		keys []string
	}{
		{name: "empty query", keys: []string{"s", "enter"}},
		{name: "cancelled", keys: []string{"s", "f", "l", "esc"}},
	}

	for _, tt := range tests {
		var last tea.Cmd
		for _, k := range tt.keys {
			last = press(app, k)
		}

		assert.Nil(t, last, tt.name)
		assert.Equal(t, modeBrowse, app.mode, tt.name)
		assert.False(t, app.busy, tt.name)
	}

	assert.Equal(t, []string{"pip --version"}, exec.Lines())
}

func TestApp_SearchFailure(t *testing.T) {
	t.Parallel()

	exec := testutil.NewScriptedExecutor().
		On("pip --version", "pip 23").
		OnResult("pip search flask", domain.Result{Output: "connection refused", Status: 1})

	app := newTestApp(t, exec, false, "pip")

	press(app, "s")
	typeText(app, "flask")
	finish(t, app, press(app, "enter"))

	assert.False(t, app.busy)
	assert.Contains(t, logText(app), "✗")
	assert.Empty(t, app.packages.Items())
}

func TestApp_FilterNarrowsListWithoutRunningCommands(t *testing.T) {
	t.Parallel()

	exec := testutil.NewScriptedExecutor().
		On("pip --version", "pip 23").
		On("pip list --format=freeze", "requests==2.25.1\nflask==1.1.2\nrequests-oauthlib==1.3.0")

	app := newTestApp(t, exec, false, "pip")
	listInstalled(t, app)
	require.Len(t, app.packages.Items(), 3)

	commands := len(exec.Lines())

	press(app, "/")
	require.Equal(t, modeFilter, app.mode)

	typeText(app, "rqst")
	assert.Contains(t, app.View(), "Filter: ")
	require.Len(t, app.packages.Items(), 2)

	for _, item := range app.packages.Items() {
		pkg, ok := item.(packageItem)
		require.True(t, ok)
		assert.Contains(t, pkg.pkg.Name, "requests")
	}

	assert.Nil(t, press(app, "enter"))
	assert.Equal(t, modeBrowse, app.mode)
	assert.Len(t, app.packages.Items(), 2, "the filter stays after confirming")
	assert.Contains(t, logText(app), `2 package(s) match "rqst"`)

	press(app, "enter")
	require.Len(t, app.session.Staged(), 1)
	assert.Contains(t, app.session.Staged()[0].Name, "requests")
	assert.Len(t, app.packages.Items(), 2, "marking keeps the filter")

	press(app, "/")
	press(app, "esc")
	assert.Equal(t, modeBrowse, app.mode)
	assert.Len(t, app.packages.Items(), 3)
	assert.Len(t, app.session.Staged(), 1)

	assert.Len(t, exec.Lines(), commands, "filtering never runs the package manager")
}

func TestApp_NextManagerClearsState(t *testing.T) {
	t.Parallel()

	exec := testutil.NewScriptedExecutor().
		On("pip --version", "pip 23").
		On("npm --version", "10").
		On("pip list --format=freeze", freezeOutput)

	app := newTestApp(t, exec, false, "pip", "npm")
	listInstalled(t, app)
	press(app, "enter")
	require.Len(t, app.session.Staged(), 1)

	assert.Nil(t, press(app, "tab"))

	assert.Equal(t, "npm", app.session.Backend().Name())
	assert.Empty(t, app.session.Staged())
	assert.Empty(t, app.packages.Items())
	assert.Contains(t, logText(app), "Switched to Npm")

	press(app, "tab")
	assert.Equal(t, "pip", app.session.Backend().Name())
}

func TestApp_Info(t *testing.T) {
	t.Parallel()

	exec := testutil.NewScriptedExecutor().
		On("pip --version", "pip 23").
		On("pip list --format=freeze", freezeOutput)

	app := newTestApp(t, exec, false, "pip")
	listInstalled(t, app)

	finish(t, app, press(app, "space"))

	require.Equal(t, modeDetail, app.mode)
	assert.Contains(t, app.detail.View(), "requests")

	assert.Nil(t, press(app, "esc"))
	assert.Equal(t, modeBrowse, app.mode)
}

func TestApp_InfoWithoutSelection(t *testing.T) {
	t.Parallel()

	exec := testutil.NewScriptedExecutor().On("pip --version", "pip 23")
	app := newTestApp(t, exec, false, "pip")

	assert.Nil(t, press(app, "space"))
	assert.Equal(t, modeBrowse, app.mode)
}
