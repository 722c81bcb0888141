// SPDX-FileCopyrightText: 2025 The Unipkg Authors
// SPDX-License-Identifier: EUPL-1.2

package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/janderssonse/unipkg/internal/domain"
	"github.com/janderssonse/unipkg/internal/tui"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// ErrMissingArgument is returned when a command needs at least one argument.
var ErrMissingArgument = errors.New("missing argument")

func (app *CLI) createCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:   "managers",
			Usage:  "List detected package managers",
			Action: app.runManagers,
		},
		{
			Name:    "list",
			Aliases: []string{"ls"},
			Usage:   "List installed packages",
			Action:  app.runList,
		},
		{
			Name:      "search",
			Usage:     "Search the package index",
			ArgsUsage: "<query>",
			Action:    app.runSearch,
		},
		{
			Name:      "info",
			Usage:     "Show details of a package",
			ArgsUsage: "<name>",
			Action:    app.runInfo,
		},
		app.createApplyCommand("install", domain.OpInstall, "Install packages"),
		app.createApplyCommand("update", domain.OpUpdate, "Update installed packages"),
		app.createApplyCommand("remove", domain.OpUninstall, "Remove installed packages", "uninstall"),
		{
			Name:   "tui",
			Usage:  "Launch the interactive interface (default)",
			Action: app.handleTUIAction,
			Description: `Keys:
  tab      next package manager
  s or /   search
  l        list installed packages
  enter    mark for install/uninstall
  u        mark for update
  space    package details
  a        apply marked operations
  q        quit`,
		},
	}
}

func (app *CLI) createApplyCommand(name string, kind domain.OperationKind, usage string, aliases ...string) *cli.Command {
	return &cli.Command{
		Name:      name,
		Aliases:   aliases,
		Usage:     usage,
		ArgsUsage: "<name>...",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return app.runApply(ctx, kind, cmd.Args().Slice())
		},
	}
}

func (app *CLI) runManagers(_ context.Context, _ *cli.Command) error {
	registry := app.session.Registry()

	if registry.Len() > 0 {
		// mark the manager that commands would use
		if err := app.selectManager(); err != nil {
			return err
		}
	}

	return app.renderManagers(registry.Managers())
}

func (app *CLI) runList(ctx context.Context, _ *cli.Command) error {
	if err := app.selectManager(); err != nil {
		return err
	}

	outcome, err := app.session.ListInstalled(ctx)
	if err != nil {
		return fail(err, app.verbose)
	}

	return app.renderOutcome(outcome)
}

func (app *CLI) runSearch(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if query == "" {
		return domain.NewExitError(ExitUsageError, "✗ search needs a query", ErrMissingArgument)
	}

	if err := app.selectManager(); err != nil {
		return err
	}

	outcome, err := app.session.Search(ctx, query)
	if err != nil {
		return fail(err, app.verbose)
	}

	return app.renderOutcome(outcome)
}

func (app *CLI) runInfo(ctx context.Context, cmd *cli.Command) error {
	name := cmd.Args().First()
	if name == "" {
		return domain.NewExitError(ExitUsageError, "✗ info needs a package name", ErrMissingArgument)
	}

	if err := app.selectManager(); err != nil {
		return err
	}

	// pip search is disabled on PyPI; installed packages stay reachable
	// through the listing.
	_, searchErr := app.session.Search(ctx, name)
	if searchErr != nil {
		var execErr *domain.ExecutionError
		if !errors.As(searchErr, &execErr) {
			return fail(searchErr, app.verbose)
		}

		app.logger.Warn("search failed, falling back to installed packages",
			zap.String("package", name), zap.Int("status", execErr.Status))
	}

	if searchErr != nil || !app.displayed(name) {
		if _, err := app.session.ListInstalled(ctx); err != nil {
			return fail(err, app.verbose)
		}
	}

	if searchErr != nil && !app.displayed(name) {
		return fail(searchErr, app.verbose)
	}

	detail, err := app.session.Info(ctx, name)
	if err != nil {
		return fail(err, app.verbose)
	}

	return app.renderInfo(name, detail)
}

func (app *CLI) displayed(name string) bool {
	return domain.FindPackage(app.session.Displayed(), name) != nil
}

func (app *CLI) runApply(ctx context.Context, kind domain.OperationKind, names []string) error {
	if len(names) == 0 {
		return domain.NewExitError(ExitUsageError,
			fmt.Sprintf("✗ %s needs at least one package name", strings.ToLower(kind.String())), ErrMissingArgument)
	}

	if err := app.selectManager(); err != nil {
		return err
	}

	staged, err := app.session.Prepare(ctx, kind, names...)
	if err != nil {
		return fail(err, app.verbose)
	}

	backend := app.session.Backend().Name()

	ok, err := app.confirm(fmt.Sprintf("%s %d package(s) with %s?", kind, len(staged), backend), staged)
	if err != nil {
		return fail(err, app.verbose)
	}

	if !ok {
		app.out.Infof("Nothing changed")

		return nil
	}

	if app.session.NeedsCredentials() {
		secret, err := app.askPassword(backend)
		if err != nil {
			return fail(err, app.verbose)
		}

		app.session.SetCredentials(secret)
	}

	for _, op := range staged {
		app.out.Progressf("%s...", op)
	}

	result, err := app.session.Apply(ctx)
	if renderErr := app.renderApply(result); renderErr != nil {
		return renderErr
	}

	return fail(err, app.verbose)
}

// handleTUIAction launches the interactive interface.
func (app *CLI) handleTUIAction(ctx context.Context, _ *cli.Command) error {
	if app.session.Registry().Len() == 0 {
		return app.selectManager()
	}

	if app.manager != "" || app.cfg.DefaultManager != "" {
		if err := app.selectManager(); err != nil {
			return err
		}
	}

	if err := tui.Run(ctx, app.session, app.logger); err != nil {
		if app.verbose {
			return domain.NewExitError(ExitGeneralError, fmt.Sprintf("Failed to launch TUI: %v", err), err)
		}

		return domain.NewExitError(ExitGeneralError, "Failed to launch interactive interface (terminal required)", err)
	}

	return nil
}
