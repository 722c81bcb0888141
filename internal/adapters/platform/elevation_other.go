// SPDX-FileCopyrightText: 2025 The Unipkg Authors
// SPDX-License-Identifier: EUPL-1.2

//go:build !unix && !windows

package platform

// IsElevated always reports false where privileges cannot be queried.
func IsElevated() bool {
	return false
}
