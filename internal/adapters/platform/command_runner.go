// SPDX-FileCopyrightText: 2025 The Unipkg Authors
// SPDX-License-Identifier: EUPL-1.2

// Package platform provides the command execution adapter.
package platform

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/janderssonse/unipkg/internal/domain"
	"go.uber.org/zap"
)

// DefaultElevationCommand prefixes admin commands on non-Windows systems.
const DefaultElevationCommand = "sudo"

// CommandRunner implements the Executor port for real system commands.
type CommandRunner struct {
	logger    *zap.Logger
	elevation string
	elevated  func() bool
	goos      string
	proxy     string
	env       []string
}

// Option configures a CommandRunner.
type Option func(*CommandRunner)

// WithElevationCommand overrides the privilege escalation binary.
func WithElevationCommand(name string) Option {
	return func(r *CommandRunner) {
		if name != "" {
			r.elevation = name
		}
	}
}

// WithElevationCheck overrides the "already elevated" probe.
func WithElevationCheck(check func() bool) Option {
	return func(r *CommandRunner) {
		r.elevated = check
	}
}

// WithProxy routes package manager traffic through proxy instead of the
// proxy found in the environment.
func WithProxy(proxy string) Option {
	return func(r *CommandRunner) {
		r.proxy = proxy
	}
}

// NewCommandRunner creates a new command runner.
func NewCommandRunner(logger *zap.Logger, opts ...Option) *CommandRunner {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &CommandRunner{
		logger:    logger,
		elevation: DefaultElevationCommand,
		elevated:  IsElevated,
		goos:      runtime.GOOS,
	}

	for _, opt := range opts {
		opt(r)
	}

	r.env = ProxyEnv(r.proxy, os.Getenv)

	return r
}

// Run executes cmd and reduces every outcome to a Result: stdout and status 0
// on success, stderr and the exit status on failure, a synthetic message and
// status -1 when the process could not be started.
func (r *CommandRunner) Run(ctx context.Context, cmd domain.Command) domain.Result {
	args := Tokenize(cmd.Line, !cmd.KeepQuotes)
	if len(args) == 0 {
		return launchFailure(cmd.Line)
	}

	var stdin string

	if cmd.Admin && !r.elevated() {
		if r.goos == "windows" {
			r.logger.Warn("admin command refused, process is not elevated", zap.String("command", cmd.Line))

			return domain.Result{
				Output: domain.ErrNotElevated.Error() + ": " + cmd.Line,
				Status: domain.StatusLaunchFailure,
			}
		}

		args, stdin = r.elevate(args, cmd.Credentials)
	}

	r.logger.Debug("executing command", zap.Strings("args", args), zap.Bool("admin", cmd.Admin))

	// #nosec G204 - command lines are composed by the backends
	proc := exec.CommandContext(ctx, args[0], args[1:]...)
	proc.Env = append(os.Environ(), r.env...)

	var stdout, stderr bytes.Buffer

	proc.Stdout = &stdout
	proc.Stderr = &stderr

	if stdin != "" {
		proc.Stdin = strings.NewReader(stdin)
	}

	err := proc.Run()
	if err == nil {
		r.logger.Debug("command finished", zap.String("command", cmd.Line), zap.Int("status", 0))

		return domain.Result{Output: stdout.String()}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
		r.logger.Debug("command failed",
			zap.String("command", cmd.Line),
			zap.Int("status", exitErr.ExitCode()),
			zap.String("stderr", strings.TrimSpace(stderr.String())))

		return domain.Result{Output: stderr.String(), Status: exitErr.ExitCode()}
	}

	r.logger.Warn("command could not be run", zap.String("command", cmd.Line), zap.Error(err))

	return launchFailure(cmd.Line)
}

// elevate prefixes args with the escalation command. With sudo and a
// password the password is piped through -S; without one, -n makes sudo fail
// instead of waiting on a terminal prompt. sudo resets the environment, so
// proxy variables are preserved explicitly.
func (r *CommandRunner) elevate(args []string, credentials string) ([]string, string) {
	prefix := []string{r.elevation}

	stdin := ""

	if r.elevation == DefaultElevationCommand {
		if len(r.env) > 0 {
			prefix = append(prefix, "--preserve-env="+strings.Join(envNames(r.env), ","))
		}

		if credentials != "" {
			prefix = append(prefix, "-S", "-p", "")
			stdin = credentials + "\n"
		} else {
			prefix = append(prefix, "-n")
		}
	}

	return append(prefix, args...), stdin
}

func launchFailure(line string) domain.Result {
	return domain.Result{
		Output: "unknown error processing command: " + line,
		Status: domain.StatusLaunchFailure,
	}
}
