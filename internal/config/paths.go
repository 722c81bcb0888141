// SPDX-FileCopyrightText: 2025 The Unipkg Authors
// SPDX-License-Identifier: EUPL-1.2

package config

import (
	"os"
	"path/filepath"
	"strings"
)

// AppName names the per-user config and state directories.
const AppName = "unipkg"

// XDGConfigHome returns the XDG config directory.
func XDGConfigHome() string {
	return XDGConfigHomeWithEnv(os.Getenv("XDG_CONFIG_HOME"))
}

// XDGConfigHomeWithEnv returns the XDG config directory with an explicit
// environment value.
func XDGConfigHomeWithEnv(xdgConfigHome string) string {
	return xdgDir(xdgConfigHome, ".config")
}

// XDGStateHome returns the XDG state directory.
func XDGStateHome() string {
	return XDGStateHomeWithEnv(os.Getenv("XDG_STATE_HOME"))
}

// XDGStateHomeWithEnv returns the XDG state directory with an explicit
// environment value.
func XDGStateHomeWithEnv(xdgStateHome string) string {
	return xdgDir(xdgStateHome, ".local", "state")
}

func xdgDir(override string, fallback ...string) string {
	if override != "" {
		return override
	}

	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(append([]string{home}, fallback...)...)
	}

	return ""
}

// DefaultConfigFile is $XDG_CONFIG_HOME/unipkg/config.toml.
func DefaultConfigFile() string {
	return filepath.Join(XDGConfigHome(), AppName, "config.toml")
}

// DefaultLogFile is $XDG_STATE_HOME/unipkg/unipkg.log.
func DefaultLogFile() string {
	return filepath.Join(XDGStateHome(), AppName, AppName+".log")
}

// DefaultLockFile is $XDG_STATE_HOME/unipkg/unipkg.lock.
func DefaultLockFile() string {
	return filepath.Join(XDGStateHome(), AppName, AppName+".lock")
}

// ExpandPath expands a leading ~ and the XDG variables.
func ExpandPath(path string) string {
	return ExpandPathWithEnv(path, "", "")
}

// ExpandPathWithEnv expands paths with explicit XDG directories.
func ExpandPathWithEnv(path, xdgConfigHome, xdgStateHome string) string {
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, rest)
		}
	}

	if rest, ok := strings.CutPrefix(path, "$XDG_CONFIG_HOME"); ok {
		if xdgConfigHome == "" {
			xdgConfigHome = XDGConfigHome()
		}

		return xdgConfigHome + rest
	}

	if rest, ok := strings.CutPrefix(path, "$XDG_STATE_HOME"); ok {
		if xdgStateHome == "" {
			xdgStateHome = XDGStateHome()
		}

		return xdgStateHome + rest
	}

	return path
}
