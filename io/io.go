// Package clapio centralizes the streams and terminal capabilities used when
// printing help, versions and diagnostics.
package clapio

import (
	stdio "io"
	"os"

	"golang.org/x/term"
)

// IOManager bundles the input and output streams with terminal detection.
type IOManager struct {
	in  stdio.Reader
	out stdio.Writer
	err stdio.Writer

	forceColor bool
	noColor    bool
	width      int
}

// New returns a manager bound to process stdio.
func New() *IOManager {
	return &IOManager{in: os.Stdin, out: os.Stdout, err: os.Stderr}
}

// WithIn sets the input reader and returns the manager for chaining.
func (m *IOManager) WithIn(r stdio.Reader) *IOManager { m.in = r; return m }

// WithOut sets the standard output writer and returns the manager for chaining.
func (m *IOManager) WithOut(w stdio.Writer) *IOManager { m.out = w; return m }

// WithErr sets the standard error writer and returns the manager for chaining.
func (m *IOManager) WithErr(w stdio.Writer) *IOManager { m.err = w; return m }

// WithWidth pins the width used for wrapping help text.
func (m *IOManager) WithWidth(cols int) *IOManager { m.width = cols; return m }

// ForceColor forces color output on, regardless of environment.
func (m *IOManager) ForceColor() *IOManager { m.forceColor = true; m.noColor = false; return m }

// NoColor disables color output, regardless of environment.
func (m *IOManager) NoColor() *IOManager { m.noColor = true; m.forceColor = false; return m }

// ColorAuto uses environment heuristics to determine color support.
func (m *IOManager) ColorAuto() *IOManager { m.noColor = false; m.forceColor = false; return m }

// In returns the configured input reader.
func (m *IOManager) In() stdio.Reader { return m.in }

// Out returns the configured standard output writer.
func (m *IOManager) Out() stdio.Writer { return m.out }

// Err returns the configured standard error writer.
func (m *IOManager) Err() stdio.Writer { return m.err }

// IsTTY reports whether the output writer is a terminal.
func (m *IOManager) IsTTY() bool { return isTerminal(m.out) }

// IsInteractive reports whether input comes from a terminal outside CI.
func (m *IOManager) IsInteractive() bool {
	return isTerminal(m.in) && os.Getenv("CI") == ""
}

// Width returns the terminal width used for wrapping, falling back to
// $COLUMNS and then 80.
func (m *IOManager) Width() int {
	if m.width > 0 {
		return m.width
	}
	if f, ok := m.out.(*os.File); ok {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			return w
		}
	}
	if w, _ := fallbackTermSizeFromEnv(); w > 0 {
		return w
	}
	return 80
}

// SupportsColor reports whether ANSI colors should be written to the error
// stream, honoring NO_COLOR and FORCE_COLOR.
func (m *IOManager) SupportsColor() bool {
	if m.noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	if m.forceColor || os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	if !isTerminal(m.err) {
		return false
	}
	t := os.Getenv("TERM")
	return t != "" && t != "dumb"
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
