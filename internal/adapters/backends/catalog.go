// SPDX-FileCopyrightText: 2025 The Unipkg Authors
// SPDX-License-Identifier: EUPL-1.2

package backends

import (
	"github.com/janderssonse/unipkg/internal/domain"
	"go.uber.org/zap"
)

// Compile-time interface checks.
var (
	_ domain.Backend = (*Apt)(nil)
	_ domain.Backend = (*Pip)(nil)
	_ domain.Backend = (*Npm)(nil)
)

// KnownNames lists every supported backend in registration order.
func KnownNames() []string {
	return []string{"apt", "apt-get", "pip", "pip3", "npm"}
}

// Known builds one backend per supported family, in registration order.
// only, when non-empty, restricts and reorders the set by name; unknown names
// are ignored.
func Known(exec domain.Executor, logger *zap.Logger, only ...string) []domain.Backend {
	all := map[string]domain.Backend{
		"apt":     NewApt("apt", exec, logger),
		"apt-get": NewApt("apt-get", exec, logger),
		"pip":     NewPip("pip", exec, logger),
		"pip3":    NewPip("pip3", exec, logger),
		"npm":     NewNpm(exec, logger),
	}

	order := only
	if len(order) == 0 {
		order = KnownNames()
	}

	selected := make([]domain.Backend, 0, len(order))

	for _, name := range order {
		if backend, ok := all[name]; ok {
			selected = append(selected, backend)
			delete(all, name)
		}
	}

	return selected
}
