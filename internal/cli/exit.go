// SPDX-FileCopyrightText: 2025 The Unipkg Authors
// SPDX-License-Identifier: EUPL-1.2

package cli

import (
	"context"
	"errors"

	"github.com/charmbracelet/huh"
	"github.com/janderssonse/unipkg/internal/config"
	"github.com/janderssonse/unipkg/internal/domain"
)

// Exit codes follow standard Unix conventions for better scripting support.
// Range 0-125 are safe to use (126+ have special meaning in shells).
const (
	ExitSuccess         = 0 // Operation completed successfully
	ExitGeneralError    = 1 // Generic failure (catch-all)
	ExitUsageError      = 2 // Invalid command line usage
	ExitConfigError     = 3 // Configuration file error
	ExitPermissionError = 4 // Permission denied
	ExitNotFoundError   = 5 // Requested manager or package not found

	ExitDependencyError = 10 // No supported package manager
	ExitSystemError     = 12 // Lock or filesystem failure
	ExitTimeoutError    = 13 // Operation timed out
	ExitInterruptError  = 14 // User interrupted (Ctrl+C)

	ExitBusyError      = 20 // Another operation is running
	ExitQueryError     = 21 // Search or listing failed
	ExitOperationError = 22 // Install, update or remove failed
)

// exitCode classifies err into one of the exit codes.
func exitCode(err error) int {
	var (
		exitErr *domain.ExitError
		opErr   *domain.OperationError
		execErr *domain.ExecutionError
	)

	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &exitErr):
		return exitErr.Code
	case errors.Is(err, huh.ErrUserAborted), errors.Is(err, context.Canceled):
		return ExitInterruptError
	case errors.Is(err, context.DeadlineExceeded):
		return ExitTimeoutError
	case errors.Is(err, config.ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, domain.ErrNotElevated):
		return ExitPermissionError
	case errors.Is(err, domain.ErrUnknownBackend), errors.Is(err, domain.ErrPackageNotDisplayed):
		return ExitNotFoundError
	case errors.Is(err, domain.ErrNoPackageManager), errors.Is(err, domain.ErrNoBackend):
		return ExitDependencyError
	case errors.Is(err, domain.ErrBusy):
		return ExitBusyError
	case errors.Is(err, domain.ErrInvalidMark), errors.Is(err, domain.ErrNothingSelected):
		return ExitUsageError
	case errors.As(err, &opErr):
		return ExitOperationError
	case errors.As(err, &execErr):
		return ExitQueryError
	default:
		return ExitGeneralError
	}
}

// fail wraps err in an ExitError carrying its classified code and a
// user-facing message.
func fail(err error, verbose bool) error {
	if err == nil {
		return nil
	}

	var exitErr *domain.ExitError
	if errors.As(err, &exitErr) {
		return err
	}

	var (
		opErr   *domain.OperationError
		execErr *domain.ExecutionError
	)

	message := "✗ " + err.Error()
	if errors.As(err, &opErr) || errors.As(err, &execErr) {
		message = domain.FormatErrorMessage(err, verbose)
	}

	return domain.NewExitError(exitCode(err), message, err)
}
