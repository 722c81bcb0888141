// SPDX-FileCopyrightText: 2025 The Unipkg Authors
// SPDX-License-Identifier: EUPL-1.2

package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/janderssonse/unipkg/internal/cli"
	"github.com/janderssonse/unipkg/internal/domain"
	"github.com/janderssonse/unipkg/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type harness struct {
	exec   *testutil.ScriptedExecutor
	stdout bytes.Buffer
	stderr bytes.Buffer
	stdin  string
	config string
}

// newHarness scripts the version probes of the named managers so they are
// detected.
func newHarness(managers ...string) *harness {
	h := &harness{exec: testutil.NewScriptedExecutor()}

	for _, name := range managers {
		installer := name
		if name == "apt" {
			installer = "apt-get"
		}

		h.exec.On(installer+" --version", name+" 1.0")
	}

	return h
}

func (h *harness) run(t *testing.T, args ...string) error {
	t.Helper()

	app := cli.NewCLI(
		cli.WithExecutor(h.exec),
		cli.WithLogger(zap.NewNop()),
		cli.WithOutput(&h.stdout, &h.stderr),
		cli.WithInput(strings.NewReader(h.stdin)),
		cli.WithElevated(false),
	)

	configPath := h.config
	if configPath == "" {
		configPath = filepath.Join(t.TempDir(), "none.toml")
	}

	argv := append([]string{"unipkg", "--config", configPath}, args...)

	return app.Run(context.Background(), argv)
}

func exitCodeOf(t *testing.T, err error) int {
	t.Helper()

	var exitErr *domain.ExitError
	require.ErrorAs(t, err, &exitErr)

	return exitErr.Code
}

func TestCLI_Managers(t *testing.T) {
	t.Parallel()

	h := newHarness("pip", "npm")

	require.NoError(t, h.run(t, "managers"))

	out := h.stdout.String()
	assert.Contains(t, out, "* pip")
	assert.Contains(t, out, "  npm")
	assert.NotContains(t, out, "apt")
}

func TestCLI_ManagersYAML(t *testing.T) {
	t.Parallel()

	h := newHarness("apt", "pip3")

	require.NoError(t, h.run(t, "--format", "yaml", "--manager", "pip3", "managers"))

	var doc struct {
		Status string               `yaml:"status"`
		Result []domain.ManagerInfo `yaml:"result"`
	}
	require.NoError(t, yaml.Unmarshal(h.stdout.Bytes(), &doc))

	require.Len(t, doc.Result, 3, "apt and apt-get share one installer probe")
	assert.Equal(t, "apt", doc.Result[0].Name)
	assert.Equal(t, "apt-get", doc.Result[1].Name)
	assert.Equal(t, "apt-get", doc.Result[0].Installer)
	assert.True(t, doc.Result[0].Admin)
	assert.False(t, doc.Result[0].Selected)
	assert.True(t, doc.Result[2].Selected)
}

func TestCLI_ListJSON(t *testing.T) {
	t.Parallel()

	h := newHarness("pip")
	h.exec.On("pip list --format=freeze", "requests==2.25.1\nflask==1.1.2")

	require.NoError(t, h.run(t, "--json", "list"))

	var doc struct {
		Status string `json:"status"`
		Result struct {
			Action   string `json:"action"`
			Backend  string `json:"backend"`
			Packages []struct {
				Name      string `json:"name"`
				Version   string `json:"version"`
				Installed bool   `json:"installed"`
			} `json:"packages"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &doc))

	assert.Equal(t, "success", doc.Status)
	assert.Equal(t, "list", doc.Result.Action)
	assert.Equal(t, "pip", doc.Result.Backend)
	require.Len(t, doc.Result.Packages, 2)
	assert.Equal(t, "requests", doc.Result.Packages[0].Name)
	assert.Equal(t, "1.1.2", doc.Result.Packages[1].Version)
	assert.True(t, doc.Result.Packages[1].Installed)
}

func TestCLI_SearchText(t *testing.T) {
	t.Parallel()

	h := newHarness("apt")
	h.exec.
		On("apt-cache search curl", "git - version control\ncurl - command line tool\n").
		On("dpkg -l --no-pager", "ii  curl  7.68.0  command line tool")

	require.NoError(t, h.run(t, "search", "curl"))

	lines := strings.Split(strings.TrimSpace(h.stdout.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "[x] curl"), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "[ ] git"), lines[1])
}

func TestCLI_SearchEmptyPlain(t *testing.T) {
	t.Parallel()

	h := newHarness("pip")
	h.exec.On("pip search zzz", "")

	require.NoError(t, h.run(t, "--plain", "search", "zzz"))
	assert.Empty(t, h.stdout.String())
}

func TestCLI_SearchFailure(t *testing.T) {
	t.Parallel()

	h := newHarness("pip")
	h.exec.OnResult("pip search flask", domain.Result{Output: "XMLRPC request failed: connection refused", Status: 1})

	err := h.run(t, "search", "flask")

	assert.Equal(t, cli.ExitQueryError, exitCodeOf(t, err))
	assert.Contains(t, err.Error(), "Network connection failed")
}

func TestCLI_UsageErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		expected int
	}{
		{name: "search without query", args: []string{"search"}, expected: cli.ExitUsageError},
		{name: "install without names", args: []string{"install"}, expected: cli.ExitUsageError},
		{name: "info without name", args: []string{"info"}, expected: cli.ExitUsageError},
		{name: "json and plain", args: []string{"--json", "--plain", "managers"}, expected: cli.ExitUsageError},
		{name: "unknown format", args: []string{"--format", "xml", "managers"}, expected: cli.ExitUsageError},
		{name: "unknown manager", args: []string{"--manager", "brew", "list"}, expected: cli.ExitNotFoundError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newHarness("pip")

			assert.Equal(t, tt.expected, exitCodeOf(t, h.run(t, tt.args...)))
		})
	}
}

func TestCLI_NoManagerFound(t *testing.T) {
	t.Parallel()

	h := newHarness()

	err := h.run(t, "list")

	assert.Equal(t, cli.ExitDependencyError, exitCodeOf(t, err))
	assert.True(t, errors.Is(err, domain.ErrNoPackageManager))
}

func TestCLI_InstallWithYes(t *testing.T) {
	t.Parallel()

	h := newHarness("pip")
	h.exec.
		On("pip list --format=freeze", "requests==2.25.1").
		On("pip install flask", "Successfully installed flask").
		On("pip install jq", "Successfully installed jq")

	require.NoError(t, h.run(t, "--yes", "install", "flask", "jq"))

	lines := h.exec.Lines()
	assert.Equal(t, []string{
		"pip list --format=freeze",
		"pip install flask",
		"pip install jq",
	}, lines[len(lines)-3:])
	assert.Contains(t, h.stderr.String(), "flask - Install")
	assert.Contains(t, h.stderr.String(), "2 applied with pip")
}

func TestCLI_InstallDeclined(t *testing.T) {
	t.Parallel()

	h := newHarness("pip")
	h.stdin = "n\n"
	h.exec.On("pip list --format=freeze", "")

	require.NoError(t, h.run(t, "install", "flask"))

	assert.NotContains(t, h.exec.Lines(), "pip install flask")
	assert.Contains(t, h.stderr.String(), "flask - Install")
	assert.Contains(t, h.stderr.String(), "Nothing changed")
}

func TestCLI_InstallConfirmedFromInput(t *testing.T) {
	t.Parallel()

	h := newHarness("pip")
	h.stdin = "y\n"
	h.exec.
		On("pip list --format=freeze", "").
		On("pip install flask", "")

	require.NoError(t, h.run(t, "install", "flask"))
	assert.Contains(t, h.exec.Lines(), "pip install flask")
}

func TestCLI_RemoveNotInstalled(t *testing.T) {
	t.Parallel()

	h := newHarness("pip")
	h.exec.On("pip list --format=freeze", "requests==2.25.1")

	err := h.run(t, "--yes", "remove", "flask")

	assert.Equal(t, cli.ExitUsageError, exitCodeOf(t, err))
	assert.Contains(t, err.Error(), "flask")
}

func TestCLI_TimeoutBoundsEachOperation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		delay    time.Duration
		wantCode int
	}{
		{name: "batch may outlast the timeout", delay: 120 * time.Millisecond},
		{name: "single slow operation times out", delay: 2 * time.Second, wantCode: cli.ExitOperationError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newHarness("pip")
			h.exec.On("pip list --format=freeze", "")

			for _, name := range []string{"a", "b", "c"} {
				h.exec.On("pip install "+name, "").Delay("pip install "+name, tt.delay)
			}

			err := h.run(t, "--yes", "--timeout", "300ms", "install", "a", "b", "c")
			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, exitCodeOf(t, err))
				assert.Contains(t, err.Error(), "install a")
				assert.NotContains(t, h.exec.Lines(), "pip install b")

				return
			}

			require.NoError(t, err)
			assert.Contains(t, h.stderr.String(), "3 applied with pip")
		})
	}
}

func TestCLI_ApplyFailureStops(t *testing.T) {
	t.Parallel()

	h := newHarness("apt")
	h.exec.
		On("dpkg -l --no-pager", "ii  curl  7.68.0  tool\nii  vim  8.1  editor").
		OnResult("apt-get uninstall -y curl", domain.Result{Output: "E: Could not get lock /var/lib/dpkg/lock", Status: 100})

	err := h.run(t, "--yes", "--json", "remove", "curl", "vim")

	assert.Equal(t, cli.ExitOperationError, exitCodeOf(t, err))
	assert.Contains(t, err.Error(), "Failed to uninstall curl")
	assert.NotContains(t, h.exec.Lines(), "apt-get uninstall -y vim")

	commands := h.exec.Commands()
	last := commands[len(commands)-1]
	assert.True(t, last.Admin, "apt mutations run elevated")

	var doc struct {
		Status string `json:"status"`
		Result struct {
			Remaining []struct {
				Name string `json:"name"`
				Kind string `json:"kind"`
			} `json:"remaining"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &doc))
	assert.Equal(t, "error", doc.Status)
	require.Len(t, doc.Result.Remaining, 2)
	assert.Equal(t, "curl", doc.Result.Remaining[0].Name)
	assert.Equal(t, "Uninstall", doc.Result.Remaining[0].Kind)
}

func TestCLI_InfoPlain(t *testing.T) {
	t.Parallel()

	h := newHarness("pip")
	h.exec.On("pip search requests", "requests (2.25.1)  - Python HTTP for Humans.\n  INSTALLED: 2.25.1")

	require.NoError(t, h.run(t, "--plain", "info", "requests"))

	out := h.stdout.String()
	assert.Contains(t, out, "# requests")
	assert.Contains(t, out, "2.25.1")
	assert.Contains(t, out, "installed")
}

func TestCLI_InfoNotFound(t *testing.T) {
	t.Parallel()

	h := newHarness("pip")
	h.exec.
		On("pip search ghost", "").
		On("pip list --format=freeze", "")

	err := h.run(t, "info", "ghost")

	assert.Equal(t, cli.ExitNotFoundError, exitCodeOf(t, err))
}

func TestCLI_InfoFallsBackToInstalledListing(t *testing.T) {
	t.Parallel()

	disabled := domain.Result{Output: "ERROR: XMLRPC request failed [code: -32500]", Status: 1}

	tests := []struct {
		name     string
		freeze   string
		wantCode int
	}{
		{name: "installed package is found in the listing", freeze: "requests==2.25.1"},
		{name: "search failure is reported when the listing lacks the package", freeze: "flask==1.1.2", wantCode: cli.ExitQueryError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newHarness("pip")
			h.exec.
				OnResult("pip search requests", disabled).
				On("pip list --format=freeze", tt.freeze)

			err := h.run(t, "--plain", "info", "requests")
			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, exitCodeOf(t, err))

				return
			}

			require.NoError(t, err)

			out := h.stdout.String()
			assert.Contains(t, out, "# requests")
			assert.Contains(t, out, "2.25.1")
		})
	}
}

func TestCLI_ConfigErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{name: "unparsable", content: "log_level = "},
		{name: "unknown log level", content: `log_level = "chatty"`},
		{name: "invalid proxy", content: `proxy = "ftp://proxy.example"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newHarness("pip")
			h.config = filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(h.config, []byte(tt.content), 0o600))

			assert.Equal(t, cli.ExitConfigError, exitCodeOf(t, h.run(t, "managers")))
		})
	}
}

func TestCLI_ConfigDefaultManager(t *testing.T) {
	t.Parallel()

	h := newHarness("pip", "npm")
	h.config = filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(h.config, []byte(`default_manager = "npm"`), 0o600))

	require.NoError(t, h.run(t, "managers"))
	assert.Contains(t, h.stdout.String(), "* npm")
}
