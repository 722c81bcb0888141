// SPDX-FileCopyrightText: 2025 The Unipkg Authors
// SPDX-License-Identifier: EUPL-1.2

// Package console writes user-facing command output.
package console

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// OutputState holds the output configuration of one CLI invocation.
// Primary results go to Out; progress and diagnostics go to Err.
type OutputState struct {
	Verbose bool
	Plain   bool
	Format  string

	Out io.Writer
	Err io.Writer
}

// NewOutput creates a text-mode output state on the process streams.
func NewOutput() *OutputState {
	return &OutputState{Format: FormatText, Out: os.Stdout, Err: os.Stderr}
}

// SetMode configures output mode. json wins over format.
func (o *OutputState) SetMode(verbose, json, plain bool, format string) error {
	o.Verbose = verbose
	o.Plain = plain

	switch {
	case json:
		o.Format = FormatJSON
	case format == "":
		o.Format = FormatText
	case format == FormatText || format == FormatJSON || format == FormatYAML:
		o.Format = format
	default:
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
	}

	return nil
}

// Structured reports whether results are machine-readable documents.
func (o *OutputState) Structured() bool {
	return o.Format == FormatJSON || o.Format == FormatYAML
}

// quiet suppresses decoration for structured and plain output.
func (o *OutputState) quiet() bool {
	return o.Structured() || o.Plain
}

// IsTTY checks if fd is a terminal (not piped/redirected).
func (o *OutputState) IsTTY(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}

// Interactive reports whether both stdin and stdout are terminals.
func (o *OutputState) Interactive() bool {
	return o.IsTTY(os.Stdin.Fd()) && o.IsTTY(os.Stdout.Fd())
}

// Bold formats text with bold when in TTY, uppercase when piped.
func (o *OutputState) Bold(text string) string {
	if o.quiet() {
		return text
	}

	// no-color.org
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return text
	}

	if o.IsTTY(os.Stdout.Fd()) {
		return "\033[1m" + text + "\033[0m"
	}

	return strings.ToUpper(text)
}

// Header formats section headers consistently.
func (o *OutputState) Header(text string) string {
	return o.Bold(text)
}

// Progressf writes progress messages (verbose text mode only).
func (o *OutputState) Progressf(format string, args ...any) {
	if o.Verbose && !o.quiet() {
		_, _ = fmt.Fprintf(o.Err, format+"\n", args...)
	}
}

// Successf writes success messages unless output is structured or plain.
func (o *OutputState) Successf(format string, args ...any) {
	if !o.quiet() {
		_, _ = fmt.Fprintf(o.Err, "✓ "+format+"\n", args...)
	}
}

// Infof writes informational messages unless output is structured or plain.
func (o *OutputState) Infof(format string, args ...any) {
	if !o.quiet() {
		_, _ = fmt.Fprintf(o.Err, format+"\n", args...)
	}
}

// Warningf writes warning messages (always visible).
func (o *OutputState) Warningf(format string, args ...any) {
	if o.Plain {
		_, _ = fmt.Fprintf(o.Err, "warning: "+format+"\n", args...)
	} else {
		_, _ = fmt.Fprintf(o.Err, "⚠ "+format+"\n", args...)
	}
}

// Errorf writes error messages (always visible).
func (o *OutputState) Errorf(format string, args ...any) {
	if o.Plain {
		_, _ = fmt.Fprintf(o.Err, "error: "+format+"\n", args...)
	} else {
		_, _ = fmt.Fprintf(o.Err, "✗ "+format+"\n", args...)
	}
}

// Document writes data as a single JSON or YAML document with a status field.
func (o *OutputState) Document(status string, data any) error {
	doc := struct {
		Status string `json:"status"           yaml:"status"`
		Result any    `json:"result,omitempty" yaml:"result,omitempty"`
	}{Status: status, Result: data}

	switch o.Format {
	case FormatYAML:
		enc := yaml.NewEncoder(o.Out)
		enc.SetIndent(2)

		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("error encoding YAML: %w", err)
		}

		return enc.Close()
	default:
		enc := json.NewEncoder(o.Out)
		enc.SetIndent("", "  ")

		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("error encoding JSON: %w", err)
		}

		return nil
	}
}

// ErrorResult reports err: as a document in structured mode, and always on Err.
func (o *OutputState) ErrorResult(err error, code int) {
	if o.Structured() {
		_ = o.Document("error", map[string]any{
			"error": err.Error(),
			"code":  code,
		})
	}

	o.Errorf("%s", err.Error())
}

// Linef writes one line of primary output.
func (o *OutputState) Linef(format string, args ...any) {
	_, _ = fmt.Fprintf(o.Out, format+"\n", args...)
}

// PlainKeyValue outputs key:value pairs for machine parsing.
func (o *OutputState) PlainKeyValue(key, value string) {
	_, _ = fmt.Fprintf(o.Out, "%s:%s\n", key, value)
}

// PlainList outputs a simple list of items, one per line.
func (o *OutputState) PlainList(items []string) {
	for _, item := range items {
		_, _ = fmt.Fprintf(o.Out, "%s\n", item)
	}
}
