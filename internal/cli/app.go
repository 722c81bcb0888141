// SPDX-FileCopyrightText: 2025 The Unipkg Authors
// SPDX-License-Identifier: EUPL-1.2

// Package cli provides the command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/janderssonse/unipkg/internal/adapters/backends"
	"github.com/janderssonse/unipkg/internal/adapters/platform"
	"github.com/janderssonse/unipkg/internal/application"
	"github.com/janderssonse/unipkg/internal/config"
	"github.com/janderssonse/unipkg/internal/console"
	"github.com/janderssonse/unipkg/internal/domain"
	"github.com/janderssonse/unipkg/internal/logging"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// Version is set at build time.
var Version = "dev" //nolint:gochecknoglobals // overridden with -ldflags

// CLI wires flags, configuration and the package session into commands.
type CLI struct {
	app *cli.Command
	out *console.OutputState

	// flags
	verbose    bool
	json       bool
	plain      bool
	yes        bool
	format     string
	manager    string
	configPath string
	timeout    time.Duration

	// injected or built in Before
	exec     domain.Executor
	logger   *zap.Logger
	elevated bool
	stdin    io.Reader

	cfg     *config.Config
	session *application.Session
}

// Option configures a CLI.
type Option func(*CLI)

// WithExecutor replaces the system command runner.
func WithExecutor(exec domain.Executor) Option {
	return func(c *CLI) { c.exec = exec }
}

// WithLogger replaces the file logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *CLI) { c.logger = logger }
}

// WithOutput replaces the process output streams.
func WithOutput(out, errOut io.Writer) Option {
	return func(c *CLI) {
		c.out.Out = out
		c.out.Err = errOut
	}
}

// WithInput replaces standard input for non-interactive prompts.
func WithInput(in io.Reader) Option {
	return func(c *CLI) { c.stdin = in }
}

// WithElevated overrides administrator detection.
func WithElevated(elevated bool) Option {
	return func(c *CLI) { c.elevated = elevated }
}

// NewCLI creates the command tree.
func NewCLI(opts ...Option) *CLI {
	app := &CLI{
		out:      console.NewOutput(),
		elevated: platform.IsElevated(),
		stdin:    os.Stdin,
	}

	for _, opt := range opts {
		opt(app)
	}

	app.app = &cli.Command{
		Name:    "unipkg",
		Usage:   "One interface for apt, pip and npm",
		Version: Version,
		Suggest: true,
		Description: `Search, list, install, update and remove packages through whichever
package managers are present, from a terminal UI or from scripts.

QUICK START:
  unipkg                          # Launch the interactive interface
  unipkg managers                 # Show detected package managers
  unipkg -m pip3 search requests  # Search with a specific manager
  unipkg install curl jq          # Install with the default manager`,
		Writer:    app.out.Out,
		ErrWriter: app.out.Err,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "verbose",
				Usage:       "show progress messages and debug logging",
				Aliases:     []string{"v"},
				Destination: &app.verbose,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output structured JSON results",
				Aliases:     []string{"j"},
				Destination: &app.json,
			},
			&cli.BoolFlag{
				Name:        "plain",
				Usage:       "output plain text without formatting for scripts",
				Destination: &app.plain,
			},
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format: text, json, yaml",
				Value:       console.FormatText,
				Destination: &app.format,
			},
			&cli.StringFlag{
				Name:        "manager",
				Usage:       "package manager to use (see 'unipkg managers')",
				Aliases:     []string{"m"},
				Destination: &app.manager,
			},
			&cli.StringFlag{
				Name:        "config",
				Usage:       "configuration file",
				Value:       config.DefaultConfigFile(),
				Destination: &app.configPath,
			},
			&cli.DurationFlag{
				Name:        "timeout",
				Usage:       "timeout for each package manager command (0 = config value or none)",
				Destination: &app.timeout,
			},
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "automatically answer yes to all prompts",
				Destination: &app.yes,
			},
		},
		Before:   app.initConfig,
		After:    app.shutdown,
		Action:   app.handleTUIAction,
		Commands: app.createCommands(),
	}

	return app
}

// Run executes the CLI application.
func (app *CLI) Run(ctx context.Context, args []string) error {
	return app.app.Run(ctx, args)
}

// initConfig validates flags, loads the config file and builds the session.
func (app *CLI) initConfig(ctx context.Context, _ *cli.Command) (context.Context, error) {
	if app.json && app.plain {
		return ctx, domain.NewExitError(ExitUsageError, "cannot use both --json and --plain flags simultaneously", nil)
	}

	if err := app.out.SetMode(app.verbose, app.json, app.plain, app.format); err != nil {
		return ctx, domain.NewExitError(ExitUsageError, err.Error(), nil)
	}

	cfg, err := config.Load(app.configPath)
	if err != nil {
		return ctx, domain.NewExitError(ExitConfigError, "Failed to load "+app.configPath, err)
	}

	if cfg.Proxy != "" && !platform.IsProxyURL(cfg.Proxy) {
		return ctx, domain.NewExitError(ExitConfigError, fmt.Sprintf("Invalid proxy %q in %s", cfg.Proxy, app.configPath), config.ErrInvalidConfig)
	}

	app.cfg = cfg

	if app.logger == nil {
		logger, err := logging.New(logging.Options{File: cfg.LogFile, Level: cfg.LogLevel, Verbose: app.verbose})
		if err != nil {
			return ctx, domain.NewExitError(ExitConfigError, "Failed to open log file", err)
		}

		app.logger = logger
	}

	if app.exec == nil {
		app.exec = platform.NewCommandRunner(app.logger,
			platform.WithElevationCommand(cfg.ElevationCommand),
			platform.WithProxy(cfg.Proxy),
			platform.WithElevationCheck(func() bool { return app.elevated }))
	}

	timeout := app.timeout
	if timeout == 0 {
		timeout = cfg.Timeout.Duration
	}

	app.out.Progressf("Probing package managers...")

	registry := application.NewRegistry(ctx, backends.Known(app.exec, app.logger, cfg.Managers...)...)
	app.session = application.NewSession(registry,
		application.WithLogger(app.logger),
		application.WithElevated(app.elevated),
		application.WithTimeout(timeout))

	app.logger.Info("detected package managers", zap.Int("count", registry.Len()), zap.Bool("elevated", app.elevated))

	return ctx, nil
}

// shutdown flushes the log.
func (app *CLI) shutdown(_ context.Context, _ *cli.Command) error {
	if app.logger != nil {
		_ = app.logger.Sync()
	}

	return nil
}

// selectManager activates the manager named by --manager, the config
// default or, failing both, the first one detected.
func (app *CLI) selectManager() error {
	registry := app.session.Registry()
	if registry.Len() == 0 {
		return domain.NewExitError(ExitDependencyError,
			fmt.Sprintf("✗ No supported package manager found (looked for %v)", backends.KnownNames()),
			domain.ErrNoPackageManager)
	}

	name := app.manager
	if name == "" {
		name = app.cfg.DefaultManager
	}

	if name == "" {
		name = registry.Backends()[0].Name()
	}

	if err := app.session.SelectBackend(name); err != nil {
		return fail(err, app.verbose)
	}

	app.out.Progressf("Using %s", name)

	return nil
}
