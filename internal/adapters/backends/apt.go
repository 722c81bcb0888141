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
	aptInstaller = "apt-get"
	aptCache     = "apt-cache"

	dpkgListCommand = "dpkg -l --no-pager"
	dpkgSeparator   = "+++"
	searchSeparator = " - "
)

// dpkgArchitectures are the values dpkg prints in its architecture column.
var dpkgArchitectures = map[string]bool{ //nolint:gochecknoglobals
	"all": true, "amd64": true, "arm64": true, "armel": true, "armhf": true,
	"i386": true, "mips64el": true, "ppc64el": true, "riscv64": true, "s390x": true,
}

// Apt is the system package backend. Search output carries neither versions
// nor install state, so installed packages are found by intersecting with
// the dpkg listing.
type Apt struct {
	base

	cache string
}

// NewApt creates the system backend registered under name.
func NewApt(name string, exec domain.Executor, logger *zap.Logger) *Apt {
	return &Apt{
		base:  newBase(name, aptInstaller, true, exec, logger),
		cache: aptCache,
	}
}

// ListInstalled parses the dpkg status table.
func (a *Apt) ListInstalled(ctx context.Context) ([]*domain.Package, domain.Result) {
	result := a.run(ctx, dpkgListCommand)
	if !result.OK() {
		return nil, result
	}

	return parseDpkgList(result.Output, a.logger), result
}

// Search looks the query up in the apt cache, marks installed candidates and
// orders them installed first, then by similarity to the query.
func (a *Apt) Search(ctx context.Context, query string) ([]*domain.Package, domain.Result) {
	result := a.run(ctx, fmt.Sprintf("%s search %s", a.cache, platform.QuoteArg(query)))
	if !result.OK() {
		return nil, result
	}

	candidates := parseAptSearch(result.Output, a.logger)
	if len(candidates) == 0 {
		return []*domain.Package{}, result
	}

	installed, listResult := a.ListInstalled(ctx)
	if !listResult.OK() {
		return nil, listResult
	}

	installedNames := make(map[string]bool, len(installed))
	for _, pkg := range installed {
		installedNames[pkg.Name] = true
	}

	byName := make(map[string]*domain.Package, len(candidates))
	names := make([]string, 0, len(candidates))

	for _, pkg := range candidates {
		if _, dup := byName[pkg.Name]; dup {
			continue
		}

		pkg.Installed = installedNames[pkg.Name]
		byName[pkg.Name] = pkg
		names = append(names, pkg.Name)
	}

	ranked := domain.RankBestMatch(names, query)
	packages := make([]*domain.Package, 0, len(ranked))

	for _, name := range ranked {
		if byName[name].Installed {
			packages = append(packages, byName[name])
		}
	}

	for _, name := range ranked {
		if !byName[name].Installed {
			packages = append(packages, byName[name])
		}
	}

	return packages, result
}

// Update runs `apt-get install --only-upgrade <name>`.
func (a *Apt) Update(ctx context.Context, pkg *domain.Package, credentials string) domain.Result {
	return a.mutate(ctx, fmt.Sprintf("%s install --only-upgrade %s", a.installer, platform.QuoteArg(pkg.Name)), credentials)
}

// Detail re-reads version and description from `apt-cache show`.
func (a *Apt) Detail(ctx context.Context, pkg *domain.Package) (string, domain.Result) {
	result := a.run(ctx, fmt.Sprintf("%s show %s", a.cache, platform.QuoteArg(pkg.Name)))
	if !result.OK() {
		return renderDetail(a.name, pkg), result
	}

	version, description := parseAptShow(result.Output)
	if version != "" {
		pkg.Version = version
	}

	if description != "" {
		pkg.Description = description
	}

	return renderDetail(a.name, pkg), result
}

// parseDpkgList reads `dpkg -l` output. Rows before the "+++" separator are
// header; without a separator every row is data. Each row is
// flag, name, version, [architecture], description.
func parseDpkgList(output string, logger *zap.Logger) []*domain.Package {
	rows := lines(output)

	for i, row := range rows {
		if strings.HasPrefix(strings.TrimSpace(row), dpkgSeparator) {
			rows = rows[i+1:]

			break
		}
	}

	packages := make([]*domain.Package, 0, len(rows))

	for _, row := range rows {
		fields := strings.Fields(row)
		if len(fields) < 3 {
			logger.Debug("skipping malformed dpkg row", zap.String("row", row))

			continue
		}

		if !dpkgInstalled(fields[0]) {
			continue
		}

		tail := fields[3:]
		if len(tail) > 0 && dpkgArchitectures[tail[0]] {
			tail = tail[1:]
		}

		name, _, _ := strings.Cut(fields[1], ":")
		packages = append(packages, domain.NewPackage(name, fields[2], strings.Join(tail, " "), true))
	}

	return packages
}

// dpkgInstalled checks the status letter of a dpkg flag such as "ii" or "hi".
func dpkgInstalled(flag string) bool {
	return len(flag) >= 2 && flag[1] == 'i'
}

// parseAptSearch reads "<name> - <description>" lines.
func parseAptSearch(output string, logger *zap.Logger) []*domain.Package {
	var packages []*domain.Package

	for _, line := range lines(output) {
		name, description, ok := strings.Cut(strings.TrimSpace(line), searchSeparator)
		if !ok || strings.TrimSpace(name) == "" {
			logger.Debug("skipping malformed search line", zap.String("line", line))

			continue
		}

		packages = append(packages, domain.NewPackage(strings.TrimSpace(name), "", strings.TrimSpace(description), false))
	}

	return packages
}

// parseAptShow extracts Version and the description summary from the first
// record of `apt-cache show`.
func parseAptShow(output string) (string, string) {
	var version, description string

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			break // end of first record
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}

		switch key {
		case "Version":
			version = strings.TrimSpace(value)
		case "Description", "Description-en":
			if description == "" {
				description = strings.TrimSpace(value)
			}
		}
	}

	return version, description
}
