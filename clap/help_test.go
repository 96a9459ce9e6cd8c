package clap

import (
	"strings"
	"testing"
)

func helpApp() *App {
	app, _, _ := newTestApp(
		Flag("-v", "--verbose").Help("be chatty"),
		Int("-d", "--depth").Default(1).Choices(1, 2, 3).Help("recursion depth"),
		String("input").Help("file to read"),
		Section("Output", "controls where results go",
			String("-o", "--out").Metavar("FILE").Help("output file"),
		),
		Strings("--secret").Hidden(),
		Cmd("build", "compile things").Alias("b"),
		Cmd("internal", "").Hide(),
	)
	return app.Version("1.2.3")
}

func TestUsage(t *testing.T) {
	app := helpApp()
	usage, err := app.Usage()
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"usage: prog", "[-h]", "[--version]", "[-v]", "[-d {1,2,3}]", "[-o FILE]", "input", "{build} ..."} {
		if !strings.Contains(usage, want) {
			t.Errorf("usage missing %q:\n%s", want, usage)
		}
	}
	for _, hidden := range []string{"--secret", "internal", "@"} {
		if strings.Contains(usage, hidden) {
			t.Errorf("usage shows hidden %q:\n%s", hidden, usage)
		}
	}
}

func TestHelpText(t *testing.T) {
	app := helpApp()
	help, err := app.HelpText()
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"test program",
		"positional arguments:\n  input",
		"file to read",
		"options:\n  -h, --help",
		"-d, --depth {1,2,3}",
		"recursion depth (default: 1)",
		"Output:\n  controls where results go\n\n  -o, --out FILE",
		"commands:\n  build (b)",
		"compile things",
	} {
		if !strings.Contains(help, want) {
			t.Errorf("help missing %q:\n%s", want, help)
		}
	}
	if strings.Contains(help, "read additional arguments") {
		t.Errorf("response-file option should be hidden:\n%s", help)
	}
}

func TestCommandHelp(t *testing.T) {
	app, out, _ := newTestApp(Cmd("run", "run a script", String("script")).Help("Runs the given script."))
	res := app.Parse([]string{"run", "-h"})
	if res.Status != ExitRequested || res.Code != 0 {
		t.Fatalf("status = %s code = %d", res.Status, res.Code)
	}
	for _, want := range []string{"usage: prog run [-h] script", "Runs the given script."} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("help missing %q:\n%s", want, out.String())
		}
	}

	if _, err := app.HelpText("nope"); err == nil {
		t.Errorf("HelpText for an unknown command should fail")
	}
}

func TestHelpWrapping(t *testing.T) {
	long := strings.Repeat("word ", 40)
	app, _, _ := newTestApp(Flag("--long-option-name-here").Help(long))
	app.IO().WithWidth(50)
	help, _ := app.HelpText()
	for _, line := range strings.Split(help, "\n") {
		if len(line) > 50 {
			t.Errorf("line exceeds width: %q", line)
		}
	}
	if !strings.Contains(help, "  --long-option-name-here\n") {
		t.Errorf("long invocation should get its own line:\n%s", help)
	}
}

func TestValueSpec(t *testing.T) {
	tests := []struct {
		arity Arity
		want  string
	}{
		{Exactly(1), "N"},
		{Exactly(2), "N N"},
		{ZeroOrOne, "[N]"},
		{ZeroOrMore, "[N ...]"},
		{OneOrMore, "N [N ...]"},
		{Remainder, "..."},
	}
	for _, tt := range tests {
		if got := valueSpec(tt.arity, "N"); got != tt.want {
			t.Errorf("valueSpec(%s) = %q, want %q", tt.arity, got, tt.want)
		}
	}
}

func TestWrap(t *testing.T) {
	got := wrap("the quick brown fox jumps", 10)
	want := []string{"the quick", "brown fox", "jumps"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("wrap = %q, want %q", got, want)
	}
}
