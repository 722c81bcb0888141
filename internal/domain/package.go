// SPDX-FileCopyrightText: 2025 The Unipkg Authors
// SPDX-License-Identifier: EUPL-1.2

// Package domain holds the package model, the backend port and the
// reconciliation rules shared by every package manager.
package domain

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Display column widths, measured in terminal cells.
const (
	NameColumnWidth    = 32
	VersionColumnWidth = 8
	columnSeparator    = " | "
)

// OperationKind is the pending action marked on a package.
type OperationKind int

// Operation kinds. OpNone means nothing is marked.
const (
	OpNone OperationKind = iota
	OpInstall
	OpUpdate
	OpUninstall
)

// String returns the user-facing name of the kind.
func (k OperationKind) String() string {
	switch k {
	case OpInstall:
		return "Install"
	case OpUpdate:
		return "Update"
	case OpUninstall:
		return "Uninstall"
	case OpNone:
		return "None"
	default:
		return "Unknown"
	}
}

// MarshalText encodes the kind by name in JSON and YAML output.
func (k OperationKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Package is one discoverable unit of a single backend.
type Package struct {
	Name        string        `json:"name"                  yaml:"name"`
	Version     string        `json:"version,omitempty"     yaml:"version,omitempty"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	Installed   bool          `json:"installed"             yaml:"installed"`
	Marked      OperationKind `json:"-"                     yaml:"-"`
}

// NewPackage builds an unmarked package.
func NewPackage(name, version, description string, installed bool) *Package {
	return &Package{
		Name:        name,
		Version:     version,
		Description: description,
		Installed:   installed,
	}
}

// HasMark reports whether an operation is pending on the package.
func (p *Package) HasMark() bool {
	return p.Marked != OpNone
}

// Checked is the checkbox state shown for the package.
func (p *Package) Checked() bool {
	switch p.Marked {
	case OpInstall, OpUpdate:
		return true
	case OpUninstall:
		return false
	default:
		return p.Installed
	}
}

// Display renders fixed-width columns: name, version, description.
func (p *Package) Display() string {
	var b strings.Builder

	b.WriteString(runewidth.FillRight(p.Name, NameColumnWidth))
	b.WriteString(columnSeparator)
	b.WriteString(runewidth.FillRight(p.Version, VersionColumnWidth))
	b.WriteString(columnSeparator)
	b.WriteString(p.Description)

	return b.String()
}

// String implements fmt.Stringer.
func (p *Package) String() string {
	return p.Display()
}

// Operation is a staged action. It names its target instead of pointing at
// it, so it survives the display collection being replaced.
type Operation struct {
	Name string        `json:"name" yaml:"name"`
	Kind OperationKind `json:"kind" yaml:"kind"`
}

// String renders the operation the way the marked pane lists it.
func (o Operation) String() string {
	return o.Name + " - " + o.Kind.String()
}

// Allows reports whether kind can be staged against the given install state.
// Install needs an absent package; update and uninstall need a present one.
func (k OperationKind) Allows(installed bool) bool {
	switch k {
	case OpInstall:
		return !installed
	case OpUpdate, OpUninstall:
		return installed
	default:
		return false
	}
}

// Apply flips the install state after the operation succeeded.
func (k OperationKind) Apply(installed bool) bool {
	switch k {
	case OpInstall, OpUpdate:
		return true
	case OpUninstall:
		return false
	default:
		return installed
	}
}
