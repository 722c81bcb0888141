// SPDX-FileCopyrightText: 2025 The Unipkg Authors
// SPDX-License-Identifier: EUPL-1.2

//go:build windows

package platform

import "golang.org/x/sys/windows"

// IsElevated reports whether the process token carries administrator rights.
func IsElevated() bool {
	return windows.GetCurrentProcessToken().IsElevated()
}
