package clap

import "testing"

var stringParser = ParserFunc(func(s string) (any, error) { return s, nil })

func TestConstructionPanics(t *testing.T) {
	tests := []struct {
		name  string
		nodes []Node
	}{
		{"two remainders", []Node{Strings("a").Arity(Remainder), Strings("-b").Arity(Remainder)}},
		{"remainder not last", []Node{Strings("rest").Arity(Remainder), Flag("-v")}},
		{"two multi positionals", []Node{Strings("a"), Strings("b")}},
		{"positional with prefix", []Node{&Option{Names: []string{"-y"}, Kind: KindPositional, Arity: Exactly(1), Parser: stringParser}}},
		{"default outside choices", []Node{Int("-n").Choices(1, 2).Default(3)}},
		{"sequence default outside choices", []Node{Strings("-s").Choices("a").Default("a", "b")}},
		{"duplicate names", []Node{Flag("-v"), Count("-v")}},
		{"duplicate with builtin", []Node{Flag("--help")}},
		{"command in exclusive group", []Node{Exclusive(Flag("-a"), Cmd("run", ""))}},
		{"positional in exclusive group", []Node{Exclusive(Flag("-a"), String("file"))}},
		{"duplicate command", []Node{Cmd("run", ""), Cmd("go", "").Alias("run")}},
		{"command with prefix", []Node{Cmd("-run", "")}},
		{"malformed dashes", []Node{Flag("---x")}},
		{"whitespace in name", []Node{Flag("--a b")}},
		{"flag with arity", []Node{&Option{Names: []string{"-f"}, Kind: KindFlag, Arity: Exactly(1)}}},
		{"valued without arity", []Node{&Option{Names: []string{"-f"}, Kind: KindValued, Arity: Exactly(0), Parser: stringParser}}},
		{"nested duplicate", []Node{Cmd("run", "", Flag("-a"), Section("x", "", Flag("-a")))}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mustPanic(t, tt.name, func() { New("prog", "").Add(tt.nodes...).Build() })
		})
	}
}

func TestConstructionAccepts(t *testing.T) {
	app, _, _ := newTestApp(
		Strings("files").Arity(ZeroOrMore),
		String("mode").Optional(),
		Cmd("run", "", Flag("-v"), Strings("rest").Arity(Remainder)),
		Cmd("check", "", Flag("-v")),
		Exclusive(Flag("-a"), Plain(Flag("-b"), Flag("-c"))),
	)
	app.Build()

	if len(app.root.commands) != 2 {
		t.Errorf("commands = %d, want 2", len(app.root.commands))
	}
	if got := app.root.exclusives[0].members; len(got) != 2 || got[1] != "(-b -c)" {
		t.Errorf("exclusive members = %q", got)
	}
	sub := app.root.commands[0].sub
	if sub.path != "prog run" || sub.parent != app.root {
		t.Errorf("sub scope = %q", sub.path)
	}
	if sub.version != nil {
		t.Errorf("commands should not inherit --version")
	}
	if sub.help == nil {
		t.Errorf("commands should inherit help")
	}
}
