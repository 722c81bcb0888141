// SPDX-FileCopyrightText: 2025 The Unipkg Authors
// SPDX-License-Identifier: EUPL-1.2

package backends

import (
	"context"
	"fmt"

	"github.com/janderssonse/unipkg/internal/adapters/platform"
	"github.com/janderssonse/unipkg/internal/domain"
	"go.uber.org/zap"
)

// Npm is the node package backend. Listing and search parsing are not
// implemented; both succeed with no packages so the backend can still be
// selected and used for direct install/remove.
type Npm struct {
	base
}

// NewNpm creates the node backend.
func NewNpm(exec domain.Executor, logger *zap.Logger) *Npm {
	return &Npm{base: newBase("npm", "npm", false, exec, logger)}
}

// ListInstalled returns no packages.
func (n *Npm) ListInstalled(_ context.Context) ([]*domain.Package, domain.Result) {
	return []*domain.Package{}, domain.Result{}
}

// Search returns no packages.
func (n *Npm) Search(_ context.Context, _ string) ([]*domain.Package, domain.Result) {
	return []*domain.Package{}, domain.Result{}
}

// Update runs `npm update <name>`.
func (n *Npm) Update(ctx context.Context, pkg *domain.Package, credentials string) domain.Result {
	return n.mutate(ctx, fmt.Sprintf("%s update %s", n.installer, platform.QuoteArg(pkg.Name)), credentials)
}
