// SPDX-FileCopyrightText: 2025 The Unipkg Authors
// SPDX-License-Identifier: EUPL-1.2

package domain

import (
	"context"
)

// StatusLaunchFailure is the status reported when a process could not start.
const StatusLaunchFailure = -1

// Result is what a command execution reduces to. Output holds stdout on
// success and stderr otherwise.
type Result struct {
	Output string
	Status int
}

// OK reports whether the command exited with status 0.
func (r Result) OK() bool {
	return r.Status == 0
}

// Command is a single command line submitted to an Executor.
type Command struct {
	Line        string
	Admin       bool   // run with elevated privileges
	Credentials string // fed to the elevation prompt, never logged
	KeepQuotes  bool   // keep the surrounding quotes on quoted tokens
}

// Executor runs command lines. Implementations never return errors: every
// failure is reduced to a Result.
type Executor interface {
	Run(ctx context.Context, cmd Command) Result
}

// Backend drives one package manager family.
// Implemented by adapters for apt, pip and npm.
type Backend interface {
	// Name is the canonical name shown to the user.
	Name() string

	// Installer is the binary invoked for install/remove.
	Installer() string

	// RequiresAdmin reports whether mutations need elevated privileges.
	RequiresAdmin() bool

	// Available probes the tool with a version invocation.
	Available(ctx context.Context) bool

	// ListInstalled returns the installed set.
	ListInstalled(ctx context.Context) ([]*Package, Result)

	// Search queries the backend index.
	Search(ctx context.Context, query string) ([]*Package, Result)

	// Install, Update and Remove mutate the system. Callers update the
	// package state only when the result is OK.
	Install(ctx context.Context, pkg *Package, credentials string) Result
	Update(ctx context.Context, pkg *Package, credentials string) Result
	Remove(ctx context.Context, pkg *Package, credentials string) Result

	// Detail refreshes and renders the metadata of a single package.
	Detail(ctx context.Context, pkg *Package) (string, Result)
}

// Perform dispatches kind to the matching backend mutation.
func Perform(ctx context.Context, backend Backend, kind OperationKind, pkg *Package, credentials string) (Result, error) {
	switch kind {
	case OpInstall:
		return backend.Install(ctx, pkg, credentials), nil
	case OpUpdate:
		return backend.Update(ctx, pkg, credentials), nil
	case OpUninstall:
		return backend.Remove(ctx, pkg, credentials), nil
	default:
		return Result{}, ErrUnsupportedOperation
	}
}
