package clap

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func persistApp() (*App, *Arg[int], *Switch, *Args[string]) {
	depth := Int("-d", "--depth").Default(1)
	force := Flag("-f", "--force")
	tags := Strings("--tags")
	app, _, _ := newTestApp(depth, force, Cmd("run", "run things", tags))
	return app, depth, force, tags
}

func TestCapture(t *testing.T) {
	app, _, _, _ := persistApp()
	res := mustParse(t, app, "-f", "run", "--tags", "a", "b")

	want := Stored{
		"force": "true",
		"run":   Stored{"tags": []string{"a", "b"}},
	}
	if diff := cmp.Diff(want, Capture(res)); diff != "" {
		t.Errorf("Capture (-want +got):\n%s", diff)
	}
}

func TestJSONPersistence(t *testing.T) {
	app, depth, force, tags := persistApp()
	res := mustParse(t, app, "--depth", "3", "run", "--tags", "a", "b")

	var buf bytes.Buffer
	if err := SaveJSON(&buf, res); err != nil {
		t.Fatalf("SaveJSON: %v", err)
	}
	stored, err := LoadJSON(&buf)
	if err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}

	again := app.Parse([]string{"-f", "run"}, WithStored(stored), Quiet())
	if again.Status != Parsed {
		t.Fatalf("parse with stored values: %v", again.Err)
	}
	r := again.Result
	if got := depth.Value(r); got != 3 || r.SourceOf("depth") != SourceStored {
		t.Errorf("depth = %d from %s, want stored 3", got, r.SourceOf("depth"))
	}
	if !force.Get(r) || r.SourceOf("force") != SourceArgs {
		t.Errorf("force should come from the command line")
	}
	if diff := cmp.Diff([]string{"a", "b"}, tags.Values(r)); diff != "" {
		t.Errorf("tags (-want +got):\n%s", diff)
	}

	// the command line wins over stored values
	r = mustParseWith(t, app, stored, "-d", "7")
	if got := depth.Value(r); got != 7 {
		t.Errorf("depth = %d, want 7 from args", got)
	}
}

func mustParseWith(t *testing.T, app *App, s Stored, args ...string) *Result {
	t.Helper()
	out := app.Parse(args, WithStored(s), Quiet())
	if out.Status != Parsed {
		t.Fatalf("Parse(%q): %v", args, out.Err)
	}
	return out.Result
}

func TestLoadJSONRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"number", `{"depth": 5}`},
		{"boolean", `{"force": true}`},
		{"null", `{"depth": null}`},
		{"number in array", `{"tags": ["a", 1]}`},
		{"nested array", `{"tags": [["a"]]}`},
		{"not an object", `["a"]`},
		{"trailing data", `{} {}`},
		{"syntax", `{"depth": "5"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadJSON(strings.NewReader(tt.doc))
			pe, ok := AsParseError(err)
			if !ok || pe.Type != ErrorTypeMalformedPersistedData {
				t.Fatalf("LoadJSON(%s) = %v, want malformed_persisted_data", tt.doc, err)
			}
			if pe.Message == "" {
				t.Errorf("message not rendered")
			}
		})
	}
}

func TestStoredValueUnparsable(t *testing.T) {
	app, _, _, _ := persistApp()
	out := app.Parse(nil, WithStored(Stored{"depth": "deep"}), Quiet())
	pe, ok := out.ParseError()
	if !ok || pe.Type != ErrorTypeMalformedPersistedData {
		t.Fatalf("got %v, want malformed_persisted_data", out.Err)
	}
	if pe.Subject != "depth" {
		t.Errorf("subject = %q, want depth", pe.Subject)
	}
}

func TestYAMLPersistence(t *testing.T) {
	app, depth, _, tags := persistApp()
	res := mustParse(t, app, "-d", "2", "run", "--tags", "x")

	var buf bytes.Buffer
	if err := SaveYAML(&buf, res); err != nil {
		t.Fatalf("SaveYAML: %v", err)
	}
	if !strings.Contains(buf.String(), `"depth": "2"`) {
		t.Errorf("expected quoted scalars, got:\n%s", buf.String())
	}

	stored, err := LoadYAML(&buf)
	if err != nil {
		t.Fatalf("LoadYAML: %v", err)
	}
	r := mustParseWith(t, app, stored, "run")
	if got := depth.Value(r); got != 2 {
		t.Errorf("depth = %d", got)
	}
	if diff := cmp.Diff([]string{"x"}, tags.Values(r)); diff != "" {
		t.Errorf("tags (-want +got):\n%s", diff)
	}
}

func TestLoadYAML(t *testing.T) {
	stored, err := LoadYAML(strings.NewReader("depth: 5\nrun:\n  tags: [a, b]\n"))
	if err != nil {
		t.Fatalf("LoadYAML: %v", err)
	}
	want := Stored{"depth": "5", "run": Stored{"tags": []string{"a", "b"}}}
	if diff := cmp.Diff(want, stored); diff != "" {
		t.Errorf("LoadYAML (-want +got):\n%s", diff)
	}

	for _, doc := range []string{"depth: ~\n", "- a\n", "tags: [[a]]\n"} {
		if _, err := LoadYAML(strings.NewReader(doc)); err == nil {
			t.Errorf("LoadYAML(%q) should fail", doc)
		}
	}
}

func TestTokensFromJSON(t *testing.T) {
	tokens, err := TokensFromJSON(strings.NewReader(`["-a", "1", "run"]`))
	if err != nil {
		t.Fatalf("TokensFromJSON: %v", err)
	}
	if diff := cmp.Diff([]string{"-a", "1", "run"}, tokens); diff != "" {
		t.Errorf("tokens (-want +got):\n%s", diff)
	}
	if _, err := TokensFromJSON(strings.NewReader(`["-a", 1]`)); err == nil {
		t.Errorf("numbers must be rejected")
	}
}
