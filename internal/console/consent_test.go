// SPDX-FileCopyrightText: 2025 The Unipkg Authors
// SPDX-License-Identifier: EUPL-1.2

package console

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		autoYes  bool
		expected bool
	}{
		{name: "y accepts", input: "y\n", expected: true},
		{name: "yes accepts", input: "YES\n", expected: true},
		{name: "yes without newline accepts", input: "yes", expected: true},
		{name: "n refuses", input: "n\n", expected: false},
		{name: "empty refuses", input: "\n", expected: false},
		{name: "end of input refuses", input: "", expected: false},
		{name: "auto yes skips reading", input: "n\n", autoYes: true, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var prompt bytes.Buffer

			ok, err := Confirm("Apply 2 operations?", tt.autoYes, strings.NewReader(tt.input), &prompt)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, ok)
			assert.Contains(t, prompt.String(), "Apply 2 operations?")
		})
	}
}
