// SPDX-FileCopyrightText: 2025 The Unipkg Authors
// SPDX-License-Identifier: EUPL-1.2

package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Common domain errors.
var (
	ErrNothingSelected      = errors.New("no packages were selected for install/uninstall")
	ErrBusy                 = errors.New("another operation is still running")
	ErrNoBackend            = errors.New("no package manager selected")
	ErrUnknownBackend       = errors.New("unknown package manager")
	ErrNoPackageManager     = errors.New("no supported package manager found")
	ErrPackageNotDisplayed  = errors.New("package is not in the current listing")
	ErrInvalidMark          = errors.New("operation does not fit the package state")
	ErrUnsupportedOperation = errors.New("unsupported operation")
	ErrNotElevated          = errors.New("administrator privileges required")
)

// ExecutionError reports a search or listing whose command failed.
type ExecutionError struct {
	Action  string // "search", "list"
	Backend string
	Status  int
	Output  string
}

func (e *ExecutionError) Error() string {
	msg := fmt.Sprintf("%s with %s failed (exit status %d)", e.Action, e.Backend, e.Status)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += ": " + out
	}

	return msg
}

// OperationError reports the staged operation that stopped an apply.
type OperationError struct {
	Operation Operation
	Backend   string
	Status    int
	Output    string
}

func (e *OperationError) Error() string {
	msg := fmt.Sprintf("%s of %s with %s failed (exit status %d)",
		strings.ToLower(e.Operation.Kind.String()), e.Operation.Name, e.Backend, e.Status)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += ": " + out
	}

	return msg
}

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

// NewExitError creates an ExitError with the specified code and message.
func NewExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ErrorInfo provides user-friendly error information.
type ErrorInfo struct {
	Message     string   // User-friendly message
	Suggestions []string // Actionable suggestions
	ShowDetails bool     // Whether to show technical details
}

// getErrorMatchers returns error patterns and their corresponding info.
func getErrorMatchers() []struct {
	patterns []string
	getInfo  func(string, bool) ErrorInfo
} {
	return []struct {
		patterns []string
		getInfo  func(string, bool) ErrorInfo
	}{
		{
			patterns: []string{"permission", "denied", "sudo", "root", "administrator", "are you root"},
			getInfo: func(_ string, verbose bool) ErrorInfo {
				return ErrorInfo{
					Message:     "Permission denied",
					Suggestions: []string{"Check the password you entered", "Check that your user may use sudo"},
					ShowDetails: verbose,
				}
			},
		},
		{
			patterns: []string{"network", "connection", "timeout", "temporary failure", "no such host"},
			getInfo: func(_ string, verbose bool) ErrorInfo {
				return ErrorInfo{
					Message:     "Network connection failed",
					Suggestions: []string{"Check your internet connection", "Try again in a few moments"},
					ShowDetails: verbose,
				}
			},
		},
		{
			patterns: []string{"unable to locate", "no matching distribution", "not found", "404"},
			getInfo: func(pkg string, verbose bool) ErrorInfo {
				if pkg != "" {
					return ErrorInfo{
						Message:     "Package '" + pkg + "' not found",
						Suggestions: []string{"Check the package name spelling", "Refresh the package index of the manager"},
						ShowDetails: verbose,
					}
				}

				return ErrorInfo{
					Message:     "Package not found",
					Suggestions: []string{"Verify the package name"},
					ShowDetails: verbose,
				}
			},
		},
		{
			patterns: []string{"could not get lock", "resource temporarily unavailable"},
			getInfo: func(_ string, verbose bool) ErrorInfo {
				return ErrorInfo{
					Message:     "Package database is locked",
					Suggestions: []string{"Wait for the other package manager process to finish"},
					ShowDetails: verbose,
				}
			},
		},
	}
}

// GetErrorInfo analyzes an error and returns user-friendly information.
func GetErrorInfo(err error, packageName string, verbose bool) ErrorInfo {
	if err == nil {
		return ErrorInfo{}
	}

	if errors.Is(err, ErrNothingSelected) {
		return ErrorInfo{Message: "No packages selected", Suggestions: []string{"Mark packages with enter first"}}
	}

	errStr := strings.ToLower(err.Error())

	for _, matcher := range getErrorMatchers() {
		for _, pattern := range matcher.patterns {
			if strings.Contains(errStr, pattern) {
				return matcher.getInfo(packageName, verbose)
			}
		}
	}

	return ErrorInfo{
		Message:     "Operation failed",
		Suggestions: []string{"Run with --verbose for more details"},
		ShowDetails: verbose,
	}
}

// FormatErrorMessage formats an error for display.
func FormatErrorMessage(err error, verbose bool) string {
	packageName := ""
	action := ""

	var opErr *OperationError
	if errors.As(err, &opErr) {
		packageName = opErr.Operation.Name
		action = strings.ToLower(opErr.Operation.Kind.String())
	}

	info := GetErrorInfo(err, packageName, verbose)

	var result strings.Builder

	if packageName != "" {
		result.WriteString("✗ Failed to ")
		result.WriteString(action)
		result.WriteString(" ")
		result.WriteString(packageName)

		if info.Message != "" {
			result.WriteString(": ")
			result.WriteString(info.Message)
		}
	} else {
		result.WriteString("✗ ")
		result.WriteString(info.Message)
	}

	if info.ShowDetails && err != nil {
		result.WriteString("\n  Technical details: ")
		result.WriteString(err.Error())
	}

	switch {
	case len(info.Suggestions) > 0 && !verbose:
		result.WriteString(" (")
		result.WriteString(info.Suggestions[0])
		result.WriteString(")")
	case len(info.Suggestions) > 0:
		result.WriteString("\n  Suggestions:")

		for _, suggestion := range info.Suggestions {
			result.WriteString("\n    • ")
			result.WriteString(suggestion)
		}
	}

	return result.String()
}
