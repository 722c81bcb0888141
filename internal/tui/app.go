// SPDX-FileCopyrightText: 2025 The Unipkg Authors
// SPDX-License-Identifier: EUPL-1.2

// Package tui implements the interactive package browser.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/janderssonse/unipkg/internal/application"
	"github.com/janderssonse/unipkg/internal/domain"
	"github.com/janderssonse/unipkg/internal/tui/styles"
	"go.uber.org/zap"
	"golang.org/x/term"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Layout constants for consistent spacing.
const (
	sidebarWidth = 30 // managers and marked panes, borders included
	logHeight    = 6  // lines of the log pane
	chromeHeight = 3  // header, status line, footer
	paneFrame    = 2  // border rows or columns around a pane
	panePadding  = 2  // horizontal padding inside a pane
	maxLogLines  = 200
)

// ErrNoTerminal is returned when the TUI is launched in a non-terminal environment.
var ErrNoTerminal = errors.New("TUI requires a terminal environment")

type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeFilter
	modePassword
	modeDetail
)

// App is the single model of the interface. Backend work runs in tea.Cmd
// workers whose results come back as messages; while one is in flight every
// key but quit is ignored.
//
//nolint:containedctx // TUI models require context for proper cancellation propagation
type App struct {
	ctx     context.Context
	session *application.Session
	logger  *zap.Logger
	styles  *styles.Styles
	keys    keyMap
	titler  cases.Caser

	mode     mode
	busy     bool
	activity string
	quitting bool

	packages list.Model
	search   textinput.Model
	filter   textinput.Model
	password textinput.Model
	spinner  spinner.Model
	logView  viewport.Model
	detail   viewport.Model
	logLines []string

	width  int
	height int
}

// NewApp creates the interface over session. Without a selected backend the
// first detected one is activated.
func NewApp(ctx context.Context, session *application.Session, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := styles.New()

	packages := list.New(nil, packageDelegate{styles: s}, 0, 0)
	packages.SetShowTitle(false)
	packages.SetShowStatusBar(false)
	packages.SetShowHelp(false)
	packages.SetFilteringEnabled(false)
	packages.DisableQuitKeybindings()
	// l belongs to the browser; filtering goes through the session
	packages.KeyMap.NextPage = key.NewBinding(key.WithKeys("right", "pgdown"))
	packages.KeyMap.PrevPage = key.NewBinding(key.WithKeys("left", "pgup"))

	search := textinput.New()
	search.Prompt = "Search: "
	search.Placeholder = "package name"
	search.CharLimit = 128
	search.PromptStyle = s.PromptLabel

	filter := textinput.New()
	filter.Prompt = "Filter: "
	filter.Placeholder = "fuzzy name"
	filter.CharLimit = 64
	filter.PromptStyle = s.PromptLabel

	password := textinput.New()
	password.Prompt = "Password: "
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.PromptStyle = s.PromptLabel

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = s.PrimaryText

	app := &App{
		ctx:      ctx,
		session:  session,
		logger:   logger.Named("tui"),
		styles:   s,
		keys:     defaultKeyMap(),
		titler:   cases.Title(language.English),
		packages: packages,
		search:   search,
		filter:   filter,
		password: password,
		spinner:  spin,
		logView:  viewport.New(0, logHeight),
		detail:   viewport.New(0, 0),
	}

	if session.Backend() == nil {
		if _, err := session.NextBackend(); err != nil {
			app.logError(err)
		}
	}

	if backend := session.Backend(); backend != nil {
		app.logInfo("Using %s. Press s to search or l to list installed packages.", app.titler.String(backend.Name()))
	}

	return app
}

// Run starts the interface and blocks until it quits.
func Run(ctx context.Context, session *application.Session, logger *zap.Logger) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("terminal check failed: %w", ErrNoTerminal)
	}

	program := tea.NewProgram(
		NewApp(ctx, session, logger),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("TUI application failed: %w", err)
	}

	return nil
}

// Init implements the tea.Model interface.
func (a *App) Init() tea.Cmd {
	return nil
}

// Update implements the tea.Model interface.
//
//nolint:ireturn // Bubble Tea framework requires returning tea.Model interface
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)

		return a, nil

	case spinner.TickMsg:
		if !a.busy {
			return a, nil
		}

		var cmd tea.Cmd

		a.spinner, cmd = a.spinner.Update(msg)

		return a, cmd

	case fetchedMsg:
		a.handleFetched(msg)

		return a, nil

	case appliedMsg:
		a.handleApplied(msg)

		return a, nil

	case detailMsg:
		a.handleDetail(msg)

		return a, nil

	case tea.KeyMsg:
		return a, a.handleKey(msg)
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		return a.quit()
	}

	switch a.mode {
	case modeSearch:
		return a.updateSearch(msg)
	case modeFilter:
		return a.updateFilter(msg)
	case modePassword:
		return a.updatePassword(msg)
	case modeDetail:
		return a.updateDetail(msg)
	default:
		return a.updateBrowse(msg)
	}
}

func (a *App) quit() tea.Cmd {
	a.quitting = true

	return tea.Quit
}

func (a *App) updateBrowse(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, a.keys.Quit) {
		return a.quit()
	}

	if a.busy {
		return nil
	}

	switch {
	case key.Matches(msg, a.keys.NextManager):
		a.nextManager()

		return nil

	case key.Matches(msg, a.keys.Search):
		a.mode = modeSearch
		a.search.SetValue("")

		return a.search.Focus()

	case key.Matches(msg, a.keys.Filter):
		a.mode = modeFilter

		return a.filter.Focus()

	case key.Matches(msg, a.keys.List):
		return a.start("Listing installed packages", a.listCmd())

	case key.Matches(msg, a.keys.Toggle):
		a.mark(a.session.ToggleMark)

		return nil

	case key.Matches(msg, a.keys.Update):
		a.mark(a.session.MarkUpdate)

		return nil

	case key.Matches(msg, a.keys.Info):
		pkg := a.current()
		if pkg == nil {
			return nil
		}

		return a.start("Fetching details of "+pkg.Name, a.infoCmd(pkg.Name))

	case key.Matches(msg, a.keys.Apply):
		return a.beginApply()
	}

	var cmd tea.Cmd

	a.packages, cmd = a.packages.Update(msg)

	return cmd
}

func (a *App) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.keys.Cancel):
		a.search.Blur()
		a.mode = modeBrowse

		return nil

	case key.Matches(msg, a.keys.Confirm):
		query := a.search.Value()
		a.search.Blur()
		a.mode = modeBrowse

		if query == "" {
			return nil
		}

		return a.start(fmt.Sprintf("Searching %q", query), a.searchCmd(query))
	}

	var cmd tea.Cmd

	a.search, cmd = a.search.Update(msg)

	return cmd
}

// updateFilter narrows the list on every keystroke. Enter keeps the filter,
// esc drops it.
func (a *App) updateFilter(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.keys.Cancel):
		a.clearFilter()
		a.refresh()

		return nil

	case key.Matches(msg, a.keys.Confirm):
		a.filter.Blur()
		a.mode = modeBrowse

		if pattern := a.filter.Value(); pattern != "" {
			a.logInfo("%d package(s) match %q", len(a.packages.Items()), pattern)
		}

		return nil
	}

	var cmd tea.Cmd

	a.filter, cmd = a.filter.Update(msg)
	a.refresh()
	a.packages.Select(0)

	return cmd
}

func (a *App) clearFilter() {
	a.filter.Reset()
	a.filter.Blur()
	a.mode = modeBrowse
}

func (a *App) updatePassword(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.keys.Cancel):
		a.password.Reset()
		a.password.Blur()
		a.mode = modeBrowse
		a.logWarning("Apply cancelled")

		return nil

	case key.Matches(msg, a.keys.Confirm):
		a.session.SetCredentials(a.password.Value())
		a.password.Reset()
		a.password.Blur()
		a.mode = modeBrowse

		return a.start("Applying marked operations", a.applyCmd())
	}

	var cmd tea.Cmd

	a.password, cmd = a.password.Update(msg)

	return cmd
}

func (a *App) updateDetail(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, a.keys.Cancel, a.keys.Info, a.keys.Quit) {
		a.mode = modeBrowse

		return nil
	}

	var cmd tea.Cmd

	a.detail, cmd = a.detail.Update(msg)

	return cmd
}

func (a *App) nextManager() {
	backend, err := a.session.NextBackend()
	if err != nil {
		a.logError(err)

		return
	}

	a.clearFilter()
	a.refresh()
	a.logInfo("Switched to %s", a.titler.String(backend.Name()))
}

func (a *App) mark(toggle func(string) (domain.OperationKind, error)) {
	pkg := a.current()
	if pkg == nil {
		return
	}

	kind, err := toggle(pkg.Name)
	if err != nil {
		a.logError(err)

		return
	}

	if kind == domain.OpNone {
		a.logInfo("Unmarked %s", pkg.Name)
	} else {
		a.logInfo("Marked %s", domain.Operation{Name: pkg.Name, Kind: kind})
	}

	a.refresh()
}

func (a *App) beginApply() tea.Cmd {
	if len(a.session.Staged()) == 0 {
		a.logError(domain.ErrNothingSelected)

		return nil
	}

	if a.session.NeedsCredentials() {
		a.mode = modePassword
		a.password.Reset()

		return a.password.Focus()
	}

	return a.start("Applying marked operations", a.applyCmd())
}

// start marks the interface busy and runs work next to the spinner.
func (a *App) start(activity string, work tea.Cmd) tea.Cmd {
	a.busy = true
	a.activity = activity
	a.logInfo("%s...", activity)

	return tea.Batch(a.spinner.Tick, work)
}

func (a *App) done() {
	a.busy = false
	a.activity = ""
}

func (a *App) handleFetched(msg fetchedMsg) {
	a.done()

	if msg.err != nil {
		a.logError(msg.err)

		return
	}

	outcome := msg.outcome

	for _, op := range outcome.Dropped {
		a.logWarning("Dropped %s, it no longer fits the package state", op)
	}

	a.clearFilter()
	a.refresh()
	a.packages.Select(0)

	switch {
	case outcome.Empty && outcome.Query != "":
		a.logInfo("No packages match %q", outcome.Query)
	case outcome.Empty:
		a.logInfo("No packages reported by %s", outcome.Backend)
	default:
		a.logInfo("%d package(s) from %s", len(outcome.Packages), outcome.Backend)
	}
}

func (a *App) handleApplied(msg appliedMsg) {
	a.done()

	if msg.result != nil {
		for _, op := range msg.result.Applied {
			a.logSuccess("%s", op)
		}
	}

	if msg.err != nil {
		a.logError(msg.err)
		// a rejected password must not be reused
		a.session.SetCredentials("")

		if msg.result != nil && len(msg.result.Remaining) > 0 {
			a.logWarning("%d operation(s) not applied", len(msg.result.Remaining))
		}
	}

	a.refresh()
}

func (a *App) handleDetail(msg detailMsg) {
	a.done()

	if msg.err != nil {
		a.logError(msg.err)

		return
	}

	a.logger.Debug("loaded package detail", zap.String("package", msg.name))
	a.detail.SetContent(a.renderMarkdown(msg.detail))
	a.detail.GotoTop()
	a.mode = modeDetail
	a.refresh()
}

// refresh reloads the list from the session through the active filter,
// keeping the cursor.
func (a *App) refresh() {
	index := a.packages.Index()
	a.packages.SetItems(toItems(a.session.Filter(a.filter.Value())))

	if n := len(a.packages.Items()); n > 0 {
		a.packages.Select(min(index, n-1))
	}
}

// current returns the package under the cursor.
func (a *App) current() *domain.Package {
	item, ok := a.packages.SelectedItem().(packageItem)
	if !ok {
		return nil
	}

	return item.pkg
}

func (a *App) resize(width, height int) {
	a.width = width
	a.height = height

	rightWidth := max(width-sidebarWidth, paneFrame+panePadding+1)
	inner := rightWidth - paneFrame - panePadding
	body := max(height-chromeHeight, 0)

	a.packages.SetSize(inner, max(body-logHeight-2*paneFrame, 1))
	a.logView.Width = inner
	a.logView.Height = logHeight
	a.detail.Width = max(width-paneFrame-panePadding, 1)
	a.detail.Height = max(body-paneFrame, 1)
}
