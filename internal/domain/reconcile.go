// SPDX-FileCopyrightText: 2025 The Unipkg Authors
// SPDX-License-Identifier: EUPL-1.2

package domain

// Merge carries staged operations onto a freshly fetched listing.
//
// Each fresh package whose name has a staged operation consistent with its
// install state gets that operation as its mark; every other package is left
// unmarked. staged is never modified and the order of fresh is kept.
func Merge(fresh []*Package, staged []Operation) []*Package {
	byName := indexOperations(staged)

	for _, pkg := range fresh {
		pkg.Marked = OpNone

		if op, ok := byName[pkg.Name]; ok && op.Kind.Allows(pkg.Installed) {
			pkg.Marked = op.Kind
		}
	}

	return fresh
}

// StaleOperations returns the staged operations whose target is present in
// fresh but whose kind contradicts the fresh install state, such as an
// install staged for a package that turned out to be installed already.
func StaleOperations(fresh []*Package, staged []Operation) []Operation {
	present := make(map[string]bool, len(fresh))
	for _, pkg := range fresh {
		present[pkg.Name] = pkg.Installed
	}

	var stale []Operation

	for _, op := range staged {
		installed, ok := present[op.Name]
		if ok && !op.Kind.Allows(installed) {
			stale = append(stale, op)
		}
	}

	return stale
}

// FindPackage returns the package named name, or nil.
func FindPackage(pkgs []*Package, name string) *Package {
	for _, pkg := range pkgs {
		if pkg.Name == name {
			return pkg
		}
	}

	return nil
}

// indexOperations keys operations by target name. Later entries win, though
// the session never stages two operations for one name.
func indexOperations(ops []Operation) map[string]Operation {
	byName := make(map[string]Operation, len(ops))
	for _, op := range ops {
		byName[op.Name] = op
	}

	return byName
}
