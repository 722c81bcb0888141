// SPDX-FileCopyrightText: 2025 The Unipkg Authors
// SPDX-License-Identifier: EUPL-1.2

// Package backends implements the package manager adapters: a system
// variant on top of apt, a language variant on top of pip and a node
// variant on top of npm.
package backends

import (
	"context"
	"fmt"
	"strings"

	"github.com/janderssonse/unipkg/internal/adapters/platform"
	"github.com/janderssonse/unipkg/internal/domain"
	"go.uber.org/zap"
)

// base carries the command shapes every backend shares.
type base struct {
	name      string
	installer string
	admin     bool
	exec      domain.Executor
	logger    *zap.Logger
}

func newBase(name, installer string, admin bool, exec domain.Executor, logger *zap.Logger) base {
	if logger == nil {
		logger = zap.NewNop()
	}

	return base{
		name:      name,
		installer: installer,
		admin:     admin,
		exec:      exec,
		logger:    logger.With(zap.String("backend", name)),
	}
}

// Name returns the canonical backend name.
func (b *base) Name() string { return b.name }

// Installer returns the binary used for install and remove.
func (b *base) Installer() string { return b.installer }

// RequiresAdmin reports whether mutations run elevated.
func (b *base) RequiresAdmin() bool { return b.admin }

// Available runs `<installer> --version`.
func (b *base) Available(ctx context.Context) bool {
	result := b.run(ctx, fmt.Sprintf("%s --version", b.installer))

	return result.OK()
}

// Install runs `<installer> install <name>`.
func (b *base) Install(ctx context.Context, pkg *domain.Package, credentials string) domain.Result {
	return b.mutate(ctx, fmt.Sprintf("%s install %s", b.installer, platform.QuoteArg(pkg.Name)), credentials)
}

// Remove runs `<installer> uninstall -y <name>`.
func (b *base) Remove(ctx context.Context, pkg *domain.Package, credentials string) domain.Result {
	return b.mutate(ctx, fmt.Sprintf("%s uninstall -y %s", b.installer, platform.QuoteArg(pkg.Name)), credentials)
}

// Detail renders the cached fields of pkg.
func (b *base) Detail(_ context.Context, pkg *domain.Package) (string, domain.Result) {
	return renderDetail(b.name, pkg), domain.Result{}
}

func (b *base) run(ctx context.Context, line string) domain.Result {
	return b.exec.Run(ctx, domain.Command{Line: line})
}

func (b *base) mutate(ctx context.Context, line, credentials string) domain.Result {
	b.logger.Info("running package operation", zap.String("command", line))

	result := b.exec.Run(ctx, domain.Command{Line: line, Admin: b.admin, Credentials: credentials})
	if !result.OK() {
		b.logger.Warn("package operation failed", zap.String("command", line), zap.Int("status", result.Status))
	}

	return result
}

// renderDetail formats a package as a small markdown card.
func renderDetail(backend string, pkg *domain.Package) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", pkg.Name)

	version := pkg.Version
	if version == "" {
		version = "unknown"
	}

	state := "not installed"
	if pkg.Installed {
		state = "installed"
	}

	fmt.Fprintf(&b, "- **Manager:** %s\n", backend)
	fmt.Fprintf(&b, "- **Version:** %s\n", version)
	fmt.Fprintf(&b, "- **Status:** %s\n", state)

	if pkg.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", pkg.Description)
	}

	return b.String()
}

// lines splits command output into trimmed, non-empty lines.
func lines(output string) []string {
	raw := strings.Split(output, "\n")
	out := make([]string, 0, len(raw))

	for _, line := range raw {
		if line = strings.TrimRight(line, "\r"); strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}

	return out
}
