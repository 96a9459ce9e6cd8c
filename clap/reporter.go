package clap

import (
	"fmt"

	"github.com/fatih/color"

	clapio "github.com/dzonerzy/go-clap/io"
)

// Reporter prints the outcome of a parse. The default prints help and
// version to the output stream and errors, followed by the help of the
// scope that failed, to the error stream.
type Reporter interface {
	ReportHelp(program, help string)
	ReportVersion(program, version string)
	// ReportError prints err. help is empty for failures that happen after
	// parsing, such as a failing action.
	ReportError(program, help string, err *ParseError)
}

// StreamReporter writes to an IOManager, coloring labels when the error
// stream supports it.
type StreamReporter struct {
	io    *clapio.IOManager
	texts *Texts
}

// NewReporter returns a StreamReporter. A nil texts uses the defaults.
func NewReporter(m *clapio.IOManager, texts *Texts) *StreamReporter {
	if texts == nil {
		texts = &defaultTexts
	}
	return &StreamReporter{io: m, texts: texts}
}

func (r *StreamReporter) paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if r.io.SupportsColor() {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

func (r *StreamReporter) ReportHelp(_ string, help string) {
	fmt.Fprint(r.io.Out(), help)
}

func (r *StreamReporter) ReportVersion(program, version string) {
	fmt.Fprintf(r.io.Out(), "%s %s\n", program, version)
}

func (r *StreamReporter) ReportError(program, help string, err *ParseError) {
	w := r.io.Err()
	label := r.paint(color.FgRed, color.Bold).Sprint(r.texts.ErrorLabel)
	fmt.Fprintf(w, "%s: %s %s\n", program, label, err.Message)
	if err.Suggestion != "" {
		hint := r.paint(color.FgCyan).Sprint(err.Suggestion)
		fmt.Fprintf(w, "%s %s?\n", r.texts.SuggestionPrefix, hint)
	}
	if help != "" {
		fmt.Fprintf(w, "\n%s", help)
	}
}
