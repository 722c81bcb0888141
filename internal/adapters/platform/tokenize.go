// SPDX-FileCopyrightText: 2025 The Unipkg Authors
// SPDX-License-Identifier: EUPL-1.2

package platform

import (
	"strings"
	"unicode"
)

// Tokenize splits a command line on whitespace. Text between double quotes is
// part of a single token together with any text directly attached to it, so
// `commit -m "fix a bug"` yields three tokens. With stripQuotes the quote
// characters themselves are dropped. An unterminated quote runs to the end of
// the line.
func Tokenize(line string, stripQuotes bool) []string {
	var (
		tokens  []string
		current strings.Builder
		inQuote bool
		started bool // a token is open, possibly empty ("")
	)

	flush := func() {
		if started {
			tokens = append(tokens, current.String())
			current.Reset()

			started = false
		}
	}

	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
			started = true

			if !stripQuotes {
				current.WriteRune(r)
			}
		case unicode.IsSpace(r) && !inQuote:
			flush()
		default:
			current.WriteRune(r)

			started = true
		}
	}

	flush()

	return tokens
}

// QuoteArg wraps arg in double quotes when it contains whitespace so that
// Tokenize keeps it as one token.
func QuoteArg(arg string) string {
	if arg == "" || strings.IndexFunc(arg, unicode.IsSpace) >= 0 {
		return `"` + arg + `"`
	}

	return arg
}
