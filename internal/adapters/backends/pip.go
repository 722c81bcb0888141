// SPDX-FileCopyrightText: 2025 The Unipkg Authors
// SPDX-License-Identifier: EUPL-1.2

package backends

import (
	"context"
	"fmt"
	"strings"

	"github.com/janderssonse/unipkg/internal/adapters/platform"
	"github.com/janderssonse/unipkg/internal/domain"
	"go.uber.org/zap"
)

const (
	freezeSeparator = "=="
	installedMarker = "INSTALLED"
	latestMarker    = "LATEST"
)

// Pip is the language package backend. The tool name doubles as the
// installer, so "pip" and "pip3" are two registrations of the same variant.
type Pip struct {
	base
}

// NewPip creates a language backend invoking tool.
func NewPip(tool string, exec domain.Executor, logger *zap.Logger) *Pip {
	return &Pip{base: newBase(tool, tool, false, exec, logger)}
}

// ListInstalled parses `<tool> list --format=freeze`.
func (p *Pip) ListInstalled(ctx context.Context) ([]*domain.Package, domain.Result) {
	result := p.run(ctx, fmt.Sprintf("%s list --format=freeze", p.installer))
	if !result.OK() {
		return nil, result
	}

	return parseFreeze(result.Output, p.logger), result
}

// Search parses `<tool> search <key>`.
func (p *Pip) Search(ctx context.Context, query string) ([]*domain.Package, domain.Result) {
	result := p.run(ctx, fmt.Sprintf("%s search %s", p.installer, platform.QuoteArg(query)))
	if !result.OK() {
		return nil, result
	}

	return parsePipSearch(result.Output, p.logger), result
}

// Update runs `<tool> install --upgrade <name>`.
func (p *Pip) Update(ctx context.Context, pkg *domain.Package, credentials string) domain.Result {
	return p.mutate(ctx, fmt.Sprintf("%s install --upgrade %s", p.installer, platform.QuoteArg(pkg.Name)), credentials)
}

// parseFreeze reads "name==version" lines; anything else is skipped.
func parseFreeze(output string, logger *zap.Logger) []*domain.Package {
	var packages []*domain.Package

	for _, line := range lines(output) {
		name, version, ok := strings.Cut(strings.TrimSpace(line), freezeSeparator)
		if !ok || name == "" {
			logger.Debug("skipping non-freeze line", zap.String("line", line))

			continue
		}

		packages = append(packages, domain.NewPackage(name, version, "", true))
	}

	return packages
}

// parsePipSearch reads "name (version) - description" lines. Indented lines
// belong to the entry above them: the INSTALLED marker marks it installed,
// LATEST is ignored and anything else continues a wrapped description. Other
// lines are skipped.
func parsePipSearch(output string, logger *zap.Logger) []*domain.Package {
	var packages []*domain.Package

	for _, line := range lines(output) {
		if line != strings.TrimLeft(line, " \t") {
			if len(packages) == 0 {
				continue
			}

			last := packages[len(packages)-1]
			text := strings.TrimSpace(line)

			switch {
			case strings.HasPrefix(text, installedMarker):
				last.Installed = true
			case strings.HasPrefix(text, latestMarker):
			default:
				last.Description = strings.TrimSpace(last.Description + " " + text)
			}

			continue
		}

		head, description, ok := strings.Cut(line, searchSeparator)
		fields := strings.Fields(head)

		if !ok || len(fields) != 2 || !strings.HasPrefix(fields[1], "(") || !strings.HasSuffix(fields[1], ")") {
			logger.Debug("skipping malformed search line", zap.String("line", line))

			continue
		}

		version := strings.TrimSuffix(strings.TrimPrefix(fields[1], "("), ")")
		packages = append(packages, domain.NewPackage(fields[0], version, strings.TrimSpace(description), false))
	}

	return packages
}
