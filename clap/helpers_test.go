package clap

import (
	"bytes"
	"testing"

	clapio "github.com/dzonerzy/go-clap/io"
)

// newTestApp returns an app printing into buffers without color.
func newTestApp(nodes ...Node) (*App, *bytes.Buffer, *bytes.Buffer) {
	var out, errb bytes.Buffer
	m := clapio.New().WithOut(&out).WithErr(&errb).NoColor().WithWidth(80)
	app := New("prog", "test program").WithIO(m).Add(nodes...)
	return app, &out, &errb
}

func mustParse(t *testing.T, app *App, args ...string) *Result {
	t.Helper()
	out := app.Parse(args, Quiet())
	if out.Status != Parsed {
		t.Fatalf("Parse(%q) = %s: %v", args, out.Status, out.Err)
	}
	return out.Result
}

func mustFail(t *testing.T, app *App, want ErrorType, args ...string) *ParseError {
	t.Helper()
	out := app.Parse(args, Quiet())
	if out.Status != Failed {
		t.Fatalf("Parse(%q) = %s, want failure %s", args, out.Status, want)
	}
	pe, ok := out.ParseError()
	if !ok {
		t.Fatalf("Parse(%q) error %v is not a *ParseError", args, out.Err)
	}
	if pe.Type != want {
		t.Fatalf("Parse(%q) error type = %s (%s), want %s", args, pe.Type, pe.Message, want)
	}
	return pe
}

func mustPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected a panic", name)
		}
	}()
	fn()
}
