// SPDX-FileCopyrightText: 2025 The Unipkg Authors
// SPDX-License-Identifier: EUPL-1.2

package platform_test

import (
	"testing"

	"github.com/janderssonse/unipkg/internal/adapters/platform"
	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		line        string
		stripQuotes bool
		expected    []string
	}{
		{name: "plain words", line: "pip3 list --format=freeze", stripQuotes: true, expected: []string{"pip3", "list", "--format=freeze"}},
		{name: "whitespace runs", line: "  apt-cache \t search   curl ", stripQuotes: true, expected: []string{"apt-cache", "search", "curl"}},
		{name: "quoted stripped", line: `foo "a b" c`, stripQuotes: true, expected: []string{"foo", "a b", "c"}},
		{name: "quoted kept", line: `foo "a b" c`, stripQuotes: false, expected: []string{"foo", `"a b"`, "c"}},
		{name: "internal whitespace preserved", line: `git commit -m "fix   the\tbug"`, stripQuotes: true, expected: []string{"git", "commit", "-m", "fix   the\tbug"}},
		{name: "attached quote", line: `x --msg="hello world" y`, stripQuotes: true, expected: []string{"x", "--msg=hello world", "y"}},
		{name: "empty quoted token", line: `sudo -p "" ls`, stripQuotes: true, expected: []string{"sudo", "-p", "", "ls"}},
		{name: "two quoted segments", line: `"a b" "c d"`, stripQuotes: true, expected: []string{"a b", "c d"}},
		{name: "unterminated quote", line: `echo "a b`, stripQuotes: true, expected: []string{"echo", "a b"}},
		{name: "empty line", line: "   ", stripQuotes: true, expected: nil},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.expected, platform.Tokenize(testCase.line, testCase.stripQuotes))
		})
	}
}

func TestQuoteArg_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, arg := range []string{"curl", "a b", "", "tab\there"} {
		line := "cmd " + platform.QuoteArg(arg) + " tail"
		assert.Equal(t, []string{"cmd", arg, "tail"}, platform.Tokenize(line, true), arg)
	}
}
