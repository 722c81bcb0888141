// SPDX-FileCopyrightText: 2025 The Unipkg Authors
// SPDX-License-Identifier: EUPL-1.2

package domain

import "time"

// Outcome is the result of a search or listing.
// Empty is informational: the command succeeded and found nothing.
type Outcome struct {
	Action   string      `json:"action"            yaml:"action"`
	Backend  string      `json:"backend"           yaml:"backend"`
	Query    string      `json:"query,omitempty"   yaml:"query,omitempty"`
	Packages []*Package  `json:"packages"          yaml:"packages"`
	Empty    bool        `json:"empty"             yaml:"empty"`
	Dropped  []Operation `json:"dropped,omitempty" yaml:"dropped,omitempty"`
}

// ApplyResult represents the outcome of applying the staged queue.
type ApplyResult struct {
	Backend   string        `json:"backend"             yaml:"backend"`
	Applied   []Operation   `json:"applied"             yaml:"applied"`
	Remaining []Operation   `json:"remaining,omitempty" yaml:"remaining,omitempty"`
	Duration  time.Duration `json:"duration"            yaml:"duration"`
}

// Completed is the number of operations that succeeded.
func (r *ApplyResult) Completed() int {
	return len(r.Applied)
}

// ManagerInfo describes a registered backend for listings.
type ManagerInfo struct {
	Name      string `json:"name"      yaml:"name"`
	Installer string `json:"installer" yaml:"installer"`
	Selected  bool   `json:"selected"  yaml:"selected"`
	Admin     bool   `json:"admin"     yaml:"admin"`
}
