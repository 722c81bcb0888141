// SPDX-FileCopyrightText: 2025 The Unipkg Authors
// SPDX-License-Identifier: EUPL-1.2

// Package testutil holds test doubles for the executor and backend ports.
package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/janderssonse/unipkg/internal/domain"
	"github.com/stretchr/testify/mock"
)

// ScriptedExecutor answers command lines from a fixed script and records
// every command it receives. Unscripted lines fail like a missing binary.
type ScriptedExecutor struct {
	mu       sync.Mutex
	script   map[string]domain.Result
	delays   map[string]time.Duration
	commands []domain.Command
}

// NewScriptedExecutor creates an executor with an empty script.
func NewScriptedExecutor() *ScriptedExecutor {
	return &ScriptedExecutor{
		script: make(map[string]domain.Result),
		delays: make(map[string]time.Duration),
	}
}

// On scripts a successful response for line.
func (e *ScriptedExecutor) On(line, output string) *ScriptedExecutor {
	return e.OnResult(line, domain.Result{Output: output})
}

// OnResult scripts an arbitrary response for line.
func (e *ScriptedExecutor) OnResult(line string, result domain.Result) *ScriptedExecutor {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.script[line] = result

	return e
}

// Delay makes line take d before answering. A context that ends first fails
// the command with status -1, like a killed process.
func (e *ScriptedExecutor) Delay(line string, d time.Duration) *ScriptedExecutor {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.delays[line] = d

	return e
}

// Run implements domain.Executor.
func (e *ScriptedExecutor) Run(ctx context.Context, cmd domain.Command) domain.Result {
	e.mu.Lock()
	e.commands = append(e.commands, cmd)
	result, ok := e.script[cmd.Line]
	delay := e.delays[cmd.Line]
	e.mu.Unlock()

	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-ctx.Done():
			return domain.Result{Output: ctx.Err().Error(), Status: domain.StatusLaunchFailure}
		}
	}

	if ok {
		return result
	}

	return domain.Result{
		Output: "unknown error processing command: " + cmd.Line,
		Status: domain.StatusLaunchFailure,
	}
}

// Commands returns the commands received so far.
func (e *ScriptedExecutor) Commands() []domain.Command {
	e.mu.Lock()
	defer e.mu.Unlock()

	return append([]domain.Command(nil), e.commands...)
}

// Lines returns the command lines received so far.
func (e *ScriptedExecutor) Lines() []string {
	cmds := e.Commands()

	out := make([]string, len(cmds))
	for i, cmd := range cmds {
		out[i] = cmd.Line
	}

	return out
}

// MockBackend mocks the Backend port for testing.
type MockBackend struct {
	mock.Mock

	BackendName string
	Admin       bool
}

// NewMockBackend creates a mock backend named name.
func NewMockBackend(name string) *MockBackend {
	return &MockBackend{BackendName: name}
}

// Name returns the configured name.
func (m *MockBackend) Name() string { return m.BackendName }

// Installer returns the configured name.
func (m *MockBackend) Installer() string { return m.BackendName }

// RequiresAdmin returns the configured flag.
func (m *MockBackend) RequiresAdmin() bool { return m.Admin }

// Available mocks the version probe.
func (m *MockBackend) Available(ctx context.Context) bool {
	args := m.Called(ctx)

	return args.Bool(0)
}

// ListInstalled mocks listing installed packages.
func (m *MockBackend) ListInstalled(ctx context.Context) ([]*domain.Package, domain.Result) {
	args := m.Called(ctx)

	return packagesArg(args, 0), resultArg(args, 1)
}

// Search mocks searching the index.
func (m *MockBackend) Search(ctx context.Context, query string) ([]*domain.Package, domain.Result) {
	args := m.Called(ctx, query)

	return packagesArg(args, 0), resultArg(args, 1)
}

// Install mocks package installation.
func (m *MockBackend) Install(ctx context.Context, pkg *domain.Package, credentials string) domain.Result {
	return resultArg(m.Called(ctx, pkg, credentials), 0)
}

// Update mocks package update.
func (m *MockBackend) Update(ctx context.Context, pkg *domain.Package, credentials string) domain.Result {
	return resultArg(m.Called(ctx, pkg, credentials), 0)
}

// Remove mocks package removal.
func (m *MockBackend) Remove(ctx context.Context, pkg *domain.Package, credentials string) domain.Result {
	return resultArg(m.Called(ctx, pkg, credentials), 0)
}

// Detail mocks the detail refresh.
func (m *MockBackend) Detail(ctx context.Context, pkg *domain.Package) (string, domain.Result) {
	args := m.Called(ctx, pkg)

	return args.String(0), resultArg(args, 1)
}

func packagesArg(args mock.Arguments, index int) []*domain.Package {
	if pkgs, ok := args.Get(index).([]*domain.Package); ok {
		return pkgs
	}

	return nil
}

func resultArg(args mock.Arguments, index int) domain.Result {
	if result, ok := args.Get(index).(domain.Result); ok {
		return result
	}

	return domain.Result{}
}

// Packages builds unmarked packages from name/installed pairs.
func Packages(specs map[string]bool, order ...string) []*domain.Package {
	pkgs := make([]*domain.Package, 0, len(order))
	for _, name := range order {
		pkgs = append(pkgs, domain.NewPackage(name, "1.0", name+" description", specs[name]))
	}

	return pkgs
}
