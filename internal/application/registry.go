// SPDX-FileCopyrightText: 2025 The Unipkg Authors
// SPDX-License-Identifier: EUPL-1.2

// Package application holds the use cases that sit between the package
// manager backends and the user interfaces.
package application

import (
	"context"
	"fmt"
	"sync"

	"github.com/janderssonse/unipkg/internal/domain"
	"golang.org/x/sync/errgroup"
)

// Registry is the set of backends found on this system. Membership is fixed
// at construction; only the selection changes afterwards.
type Registry struct {
	mu       sync.RWMutex
	backends []domain.Backend
	selected int
}

// NewRegistry probes every candidate concurrently and keeps the available
// ones in declaration order. Nothing is selected initially.
func NewRegistry(ctx context.Context, candidates ...domain.Backend) *Registry {
	available := make([]bool, len(candidates))

	group, gctx := errgroup.WithContext(ctx)

	for i, backend := range candidates {
		group.Go(func() error {
			available[i] = backend.Available(gctx)

			return nil
		})
	}

	_ = group.Wait() // probes never fail, they report unavailability

	reg := &Registry{selected: -1}

	for i, backend := range candidates {
		if available[i] {
			reg.backends = append(reg.backends, backend)
		}
	}

	return reg
}

// Len is the number of available backends.
func (r *Registry) Len() int {
	return len(r.backends)
}

// Backends returns the available backends in declaration order.
func (r *Registry) Backends() []domain.Backend {
	return append([]domain.Backend(nil), r.backends...)
}

// Lookup finds an available backend by name.
func (r *Registry) Lookup(name string) (domain.Backend, error) {
	for _, backend := range r.backends {
		if backend.Name() == name {
			return backend, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", domain.ErrUnknownBackend, name)
}

// Select makes name the only selected backend.
func (r *Registry) Select(name string) (domain.Backend, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, backend := range r.backends {
		if backend.Name() == name {
			r.selected = i

			return backend, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", domain.ErrUnknownBackend, name)
}

// Active returns the selected backend, or nil.
func (r *Registry) Active() domain.Backend {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.selected < 0 {
		return nil
	}

	return r.backends[r.selected]
}

// Next selects the backend after the current one, wrapping around.
func (r *Registry) Next() domain.Backend {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.backends) == 0 {
		return nil
	}

	r.selected = (r.selected + 1) % len(r.backends)

	return r.backends[r.selected]
}

// Managers describes the available backends for display.
func (r *Registry) Managers() []domain.ManagerInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]domain.ManagerInfo, len(r.backends))
	for i, backend := range r.backends {
		infos[i] = domain.ManagerInfo{
			Name:      backend.Name(),
			Installer: backend.Installer(),
			Selected:  i == r.selected,
			Admin:     backend.RequiresAdmin(),
		}
	}

	return infos
}
