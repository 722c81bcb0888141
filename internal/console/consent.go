// SPDX-FileCopyrightText: 2025 The Unipkg Authors
// SPDX-License-Identifier: EUPL-1.2

package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Consent answers.
const (
	ConsentYes = "yes"
	ConsentY   = "y"
)

// Confirm asks prompt on writer and reads a yes/no answer from reader.
// autoYes accepts without reading. End of input counts as no.
func Confirm(prompt string, autoYes bool, reader io.Reader, writer io.Writer) (bool, error) {
	if autoYes {
		_, _ = fmt.Fprintf(writer, "Auto-accepting: %s\n", prompt)

		return true, nil
	}

	_, _ = fmt.Fprintf(writer, "%s [y/N]: ", prompt)

	response, err := bufio.NewReader(reader).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}

	response = strings.TrimSpace(strings.ToLower(response))

	return response == ConsentY || response == ConsentYes, nil
}
