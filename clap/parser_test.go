package clap

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFlagRoundTrip(t *testing.T) {
	verbose := Flag("-v", "--verbose")
	color := Flag("--no-color").Inverted()
	app, _, _ := newTestApp(verbose, color)

	res := mustParse(t, app, "-v")
	if !verbose.Get(res) {
		t.Errorf("expected -v to set verbose")
	}
	if !color.Get(res) {
		t.Errorf("inverted flag should keep its true default")
	}
	if src := res.SourceOf("verbose"); src != SourceArgs {
		t.Errorf("verbose source = %s, want args", src)
	}

	res = mustParse(t, app, "--no-color")
	if verbose.Get(res) {
		t.Errorf("verbose should default to false")
	}
	if color.Get(res) {
		t.Errorf("inverted flag should store false when given")
	}
	if !color.Given(res) || verbose.Given(res) {
		t.Errorf("Given mismatch: color=%v verbose=%v", color.Given(res), verbose.Given(res))
	}
}

func TestArityExact(t *testing.T) {
	c := Ints("-c").Arity(Exactly(2))
	app, _, _ := newTestApp(c)

	res := mustParse(t, app, "-c", "77", "88")
	if diff := cmp.Diff([]int{77, 88}, c.Values(res)); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}

	pe := mustFail(t, app, ErrorTypeWrongNumberOfArgs, "-c", "77")
	if pe.Subject != "-c" || pe.Position != 0 {
		t.Errorf("subject=%q position=%d, want -c at 0", pe.Subject, pe.Position)
	}
}

func TestChoices(t *testing.T) {
	d := Int("-d").Default(1).Choices(1, 2, 3)
	app, _, _ := newTestApp(d)

	pe := mustFail(t, app, ErrorTypeNoSuchChoice, "-d", "5")
	if pe.Token != "5" || pe.Position != 1 {
		t.Errorf("token=%q position=%d, want 5 at 1", pe.Token, pe.Position)
	}
	if want := "invalid choice for -d: 5 (choose from 1, 2, 3)"; pe.Message != want {
		t.Errorf("message = %q, want %q", pe.Message, want)
	}

	res := mustParse(t, app, "-d", "2")
	if got := d.Value(res); got != 2 {
		t.Errorf("-d = %d, want 2", got)
	}

	res = mustParse(t, app)
	if got := d.Value(res); got != 1 || res.SourceOf("d") != SourceDefault {
		t.Errorf("-d = %d from %s, want default 1", got, res.SourceOf("d"))
	}
}

func TestExclusiveGroup(t *testing.T) {
	a, b := Int("-a"), Int("-b")
	app, _, _ := newTestApp(Exclusive(a, b))

	pe := mustFail(t, app, ErrorTypeTooManyExclusive, "-a", "1", "-b", "2")
	if diff := cmp.Diff([]string{"-a", "-b"}, pe.Names); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
	if pe.Position != 2 {
		t.Errorf("position = %d, want 2", pe.Position)
	}

	if got := a.Value(mustParse(t, app, "-a", "1")); got != 1 {
		t.Errorf("-a = %d", got)
	}
	if got := b.Value(mustParse(t, app, "-b", "2")); got != 2 {
		t.Errorf("-b = %d", got)
	}
	// repeating the same member is not a conflict
	mustParse(t, app, "-a", "1", "-a", "3")
}

func TestExclusiveNestedGroup(t *testing.T) {
	app, _, _ := newTestApp(Exclusive(
		Flag("--json"),
		Plain(Flag("--table"), Flag("--wide")),
	))

	mustParse(t, app, "--table", "--wide")
	pe := mustFail(t, app, ErrorTypeTooManyExclusive, "--wide", "--json")
	if diff := cmp.Diff([]string{"(--table --wide)", "--json"}, pe.Names); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestMissingPositional(t *testing.T) {
	app, _, _ := newTestApp(String("input"))
	pe := mustFail(t, app, ErrorTypeMissingPositional)
	if pe.Subject != "input" {
		t.Errorf("subject = %q, want input", pe.Subject)
	}
}

func TestMissingRequiredOption(t *testing.T) {
	app, _, _ := newTestApp(String("--name").Required())
	pe := mustFail(t, app, ErrorTypeMissingRequired)
	if pe.Subject != "--name" {
		t.Errorf("subject = %q, want --name", pe.Subject)
	}
}

func TestSubcommandDispatch(t *testing.T) {
	a := Int("-a")
	app, _, _ := newTestApp(Cmd("cmd", "a command", a))

	res := mustParse(t, app, "cmd", "-a", "5")
	name, sub := res.Command()
	if name != "cmd" || sub == nil {
		t.Fatalf("command = %q, %v", name, sub)
	}
	if got := a.Value(res); got != 5 {
		t.Errorf("-a = %d, want 5", got)
	}
	if got, _ := sub.Int("a"); got != 5 {
		t.Errorf("sub.Int(a) = %d, want 5", got)
	}
	if sub.Parent() != res || res.Leaf() != sub {
		t.Errorf("result chain not linked")
	}
	if sub.Path() != "prog cmd" {
		t.Errorf("path = %q", sub.Path())
	}

	pe := mustFail(t, app, ErrorTypeUnknownArg, "other")
	if pe.Subject != "other" {
		t.Errorf("subject = %q", pe.Subject)
	}
}

func TestSubcommandAlias(t *testing.T) {
	app, _, _ := newTestApp(Cmd("remove", "delete things").Alias("rm"))
	res := mustParse(t, app, "rm")
	if name, _ := res.Command(); name != "remove" {
		t.Errorf("command = %q, want canonical name remove", name)
	}
}

func TestIdempotentModel(t *testing.T) {
	files := Strings("files").Arity(ZeroOrMore)
	tags := Strings("-t").Default("base")
	app, _, _ := newTestApp(tags, files)

	first := mustParse(t, app, "a", "b")
	second := mustParse(t, app, "c", "-t", "x")

	if diff := cmp.Diff([]string{"a", "b"}, files.Values(first)); diff != "" {
		t.Errorf("first files changed (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"base"}, tags.Values(first)); diff != "" {
		t.Errorf("first tags changed (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"x"}, tags.Values(second)); diff != "" {
		t.Errorf("second tags (-want +got):\n%s", diff)
	}

	// a default handed out by one parse is never shared with the next
	m := first.Map()
	m["t"].([]any)[0] = "mutated"
	third := mustParse(t, app)
	if diff := cmp.Diff([]string{"base"}, tags.Values(third)); diff != "" {
		t.Errorf("default leaked between parses (-want +got):\n%s", diff)
	}
}

func TestConcurrentParses(t *testing.T) {
	n := Int("-n")
	app, _, _ := newTestApp(n)
	app.Build()

	var wg sync.WaitGroup
	errs := make(chan string, 32)
	for i := range 32 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out := app.Parse([]string{"-n", itoa(i)}, Quiet())
			if got := n.Value(out.Result); got != i {
				errs <- itoa(got)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Errorf("cross-contaminated result: %s", e)
	}
}

func itoa(i int) string {
	return formatValue(i)
}

func TestResponseFileExpansion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "args.txt")
	if err := os.WriteFile(path, []byte("-a -1  foo\nbar\tbaz"), 0o600); err != nil {
		t.Fatal(err)
	}

	a := Int("-a")
	rest := Strings("rest")
	app, _, _ := newTestApp(a, rest)

	res := mustParse(t, app, "@"+path)
	if got := a.Value(res); got != -1 {
		t.Errorf("-a = %d, want -1", got)
	}
	if diff := cmp.Diff([]string{"foo", "bar", "baz"}, rest.Values(res)); diff != "" {
		t.Errorf("rest mismatch (-want +got):\n%s", diff)
	}
}

func TestResponseFileErrors(t *testing.T) {
	app, _, _ := newTestApp(Strings("rest").Arity(ZeroOrMore))
	pe := mustFail(t, app, ErrorTypeCouldNotOpenFile, "@"+filepath.Join(t.TempDir(), "missing"))
	if pe.Cause == nil {
		t.Errorf("expected the read error as cause")
	}

	dir := t.TempDir()
	loop := filepath.Join(dir, "loop")
	if err := os.WriteFile(loop, []byte("@"+loop), 0o600); err != nil {
		t.Fatal(err)
	}
	mustFail(t, app, ErrorTypeCouldNotOpenFile, "@"+loop)
}

func TestResponseFilesDisabled(t *testing.T) {
	rest := Strings("rest")
	app, _, _ := newTestApp(rest)
	app.NoResponseFiles()

	res := mustParse(t, app, "@file")
	if diff := cmp.Diff([]string{"@file"}, rest.Values(res)); diff != "" {
		t.Errorf("rest mismatch (-want +got):\n%s", diff)
	}
}

func TestResponseFileCustomReader(t *testing.T) {
	name := String("--name")
	app, _, _ := newTestApp(name)
	app.ResponseFiles("+").FileReader(func(path string) ([]byte, error) {
		return []byte(`--name "Jane Doe"`), nil
	})
	if got := name.Value(mustParse(t, app, "+whatever")); got != "Jane Doe" {
		t.Errorf("--name = %q", got)
	}
}

func TestDeferredValidation(t *testing.T) {
	n := Int("-n").Validate(func(v int) error {
		if v < 0 {
			return errNegative
		}
		return nil
	})
	app, _, _ := newTestApp(n, String("input"))

	out := app.Parse([]string{"-n", "-5"}, Quiet())
	pe, ok := out.ParseError()
	if !ok || pe.Type != ErrorTypeValidation {
		t.Fatalf("expected validation_error before missing_positional, got %v", out.Err)
	}
	if got := n.Value(out.Result); got != -5 {
		t.Errorf("value should still be stored, got %d", got)
	}
	if pe.Cause != errNegative {
		t.Errorf("cause = %v", pe.Cause)
	}
}

type validationErr string

func (e validationErr) Error() string { return string(e) }

const errNegative = validationErr("must not be negative")

func TestCannotParse(t *testing.T) {
	app, _, _ := newTestApp(Int("--port"))
	pe := mustFail(t, app, ErrorTypeCannotParseArg, "--port", "eighty")
	if pe.Subject != "eighty" || pe.Position != 1 {
		t.Errorf("subject=%q position=%d", pe.Subject, pe.Position)
	}
}

func TestExtraPositional(t *testing.T) {
	app, _, _ := newTestApp(String("input"))
	pe := mustFail(t, app, ErrorTypeExtraPositional, "a", "b")
	if pe.Token != "b" || pe.Position != 1 {
		t.Errorf("token=%q position=%d", pe.Token, pe.Position)
	}
}

func TestUnknownArgSuggestion(t *testing.T) {
	app, _, _ := newTestApp(Flag("--color"), Cmd("build", ""))
	pe := mustFail(t, app, ErrorTypeUnknownArg, "--colr")
	if pe.Suggestion != "--color" {
		t.Errorf("suggestion = %q, want --color", pe.Suggestion)
	}
	pe = mustFail(t, app, ErrorTypeUnknownArg, "biuld")
	if pe.Suggestion != "build" {
		t.Errorf("suggestion = %q, want build", pe.Suggestion)
	}
	pe = mustFail(t, app, ErrorTypeUnknownArg, "--colr=1")
	if pe.Suggestion != "--color" {
		t.Errorf("suggestion for attached value = %q", pe.Suggestion)
	}
}

func TestLongOptionAttachedValue(t *testing.T) {
	name := String("-n", "--name")
	tags := Strings("--tag")
	app, _, _ := newTestApp(name, tags)

	res := mustParse(t, app, "--name=bob", "--tag=a", "b")
	if got := name.Value(res); got != "bob" {
		t.Errorf("--name = %q", got)
	}
	if diff := cmp.Diff([]string{"a", "b"}, tags.Values(res)); diff != "" {
		t.Errorf("tags (-want +got):\n%s", diff)
	}
	if got := name.Value(mustParse(t, app, "--name=")); got != "" {
		t.Errorf("empty attached value = %q", got)
	}
}

func TestCountedCluster(t *testing.T) {
	v := Count("-v", "--verbose")
	app, _, _ := newTestApp(v)

	if got := v.Get(mustParse(t, app, "-vvv", "--verbose")); got != 4 {
		t.Errorf("count = %d, want 4", got)
	}
	if got := v.Get(mustParse(t, app)); got != 0 {
		t.Errorf("count = %d, want 0", got)
	}
	mustFail(t, app, ErrorTypeUnknownArg, "-vvx")
}

func TestNegativeNumbers(t *testing.T) {
	x := Float("-x")
	nums := Ints("nums")
	app, _, _ := newTestApp(x, nums)

	res := mustParse(t, app, "-x", "-2.5", "-1", "-2")
	if got := x.Value(res); got != -2.5 {
		t.Errorf("-x = %v", got)
	}
	if diff := cmp.Diff([]int{-1, -2}, nums.Values(res)); diff != "" {
		t.Errorf("nums (-want +got):\n%s", diff)
	}
}

func TestNegativeNumberDeclaredAsName(t *testing.T) {
	one := Flag("-1")
	n := Int("n").Optional()
	app, _, _ := newTestApp(one, n)

	res := mustParse(t, app, "-1")
	if !one.Get(res) {
		t.Errorf("-1 should match the declared flag")
	}
	if _, ok := n.Get(res); ok {
		t.Errorf("positional should be empty")
	}
}

func TestTerminator(t *testing.T) {
	v := Flag("-v")
	files := Strings("files")
	app, _, _ := newTestApp(v, files, Cmd("build", ""))

	res := mustParse(t, app, "--", "-v", "build")
	if v.Get(res) {
		t.Errorf("-v after -- must not match the flag")
	}
	if diff := cmp.Diff([]string{"-v", "build"}, files.Values(res)); diff != "" {
		t.Errorf("files (-want +got):\n%s", diff)
	}

	app2, _, _ := newTestApp(Strings("files"))
	app2.NoTerminator()
	mustFail(t, app2, ErrorTypeUnknownArg, "--")
}

func TestPositionalReservation(t *testing.T) {
	src := Strings("src")
	dst := String("dst")
	app, _, _ := newTestApp(src, dst)

	res := mustParse(t, app, "a", "b", "c")
	if diff := cmp.Diff([]string{"a", "b"}, src.Values(res)); diff != "" {
		t.Errorf("src (-want +got):\n%s", diff)
	}
	if got := dst.Value(res); got != "c" {
		t.Errorf("dst = %q", got)
	}
	mustFail(t, app, ErrorTypeMissingPositional, "a")
}

func TestRemainder(t *testing.T) {
	verbose := Flag("-v")
	rest := Strings("command").Arity(Remainder)
	app, _, _ := newTestApp(verbose, rest)

	res := mustParse(t, app, "-v", "ls", "-la", "--color")
	if !verbose.Get(res) {
		t.Errorf("-v before the remainder should match")
	}
	if diff := cmp.Diff([]string{"ls", "-la", "--color"}, rest.Values(res)); diff != "" {
		t.Errorf("remainder (-want +got):\n%s", diff)
	}
}

func TestOptionalValue(t *testing.T) {
	color := String("--color").Optional().Choices("auto", "always", "never")
	app, _, _ := newTestApp(color, Strings("files").Arity(ZeroOrMore))

	res := mustParse(t, app, "--color")
	v, ok := color.Get(res)
	if !ok || v != "" {
		t.Errorf("bare --color = %q, %v; want present and empty", v, ok)
	}
	if got, _ := res.Lookup("color"); got != nil {
		t.Errorf("Lookup should report nil, got %v", got)
	}

	if got := color.Value(mustParse(t, app, "--color", "never")); got != "never" {
		t.Errorf("--color never = %q", got)
	}
	if _, ok := color.Get(mustParse(t, app)); ok {
		t.Errorf("absent optional should not be set")
	}
}

func TestUniqueSequence(t *testing.T) {
	tags := Strings("--tag").Unique()
	app, _, _ := newTestApp(tags)
	res := mustParse(t, app, "--tag", "a", "b", "--tag", "a", "c")
	if diff := cmp.Diff([]string{"a", "b", "c"}, tags.Values(res)); diff != "" {
		t.Errorf("tags (-want +got):\n%s", diff)
	}
}

func TestHexAndDurations(t *testing.T) {
	mask := Int("--mask")
	wait := Duration("--wait")
	app, _, _ := newTestApp(mask, wait)

	res := mustParse(t, app, "--mask", "0xff", "--wait", "1:30")
	if got := mask.Value(res); got != 255 {
		t.Errorf("--mask = %d", got)
	}
	if got, _ := res.Duration("wait"); got.Seconds() != 90 {
		t.Errorf("--wait = %v", got)
	}
}

func TestDeclarationOrderTieBreak(t *testing.T) {
	first := Flag("-x")
	second := Count("-x", "--extra")
	mustPanic(t, "duplicate name", func() {
		app, _, _ := newTestApp(first, second)
		app.Build()
	})

	// a cluster only counts when no earlier entry takes the token
	all := Flag("-vv")
	v := Count("-v")
	app, _, _ := newTestApp(all, v)
	res := mustParse(t, app, "-vv", "-vvv")
	if !all.Get(res) {
		t.Errorf("-vv should go to the flag declared first")
	}
	if got := v.Get(res); got != 3 {
		t.Errorf("count = %d, want 3", got)
	}
}

func TestResultArgs(t *testing.T) {
	a := Int("-a")
	app, _, _ := newTestApp(Flag("-v"), Cmd("run", "", a))
	res := mustParse(t, app, "-v", "run", "-a", "1")
	if diff := cmp.Diff([]string{"-v"}, res.Args()); diff != "" {
		t.Errorf("root args (-want +got):\n%s", diff)
	}
	_, sub := res.Command()
	if diff := cmp.Diff([]string{"-a", "1"}, sub.Args()); diff != "" {
		t.Errorf("sub args (-want +got):\n%s", diff)
	}
}

func TestResultMap(t *testing.T) {
	app, _, _ := newTestApp(Int("-n", "--number"), Strings("--tag"), Flag("-q"))
	res := mustParse(t, app, "-n", "4", "--tag", "x")
	want := map[string]any{"number": 4, "tag": []any{"x"}, "q": false}
	if diff := cmp.Diff(want, res.Map()); diff != "" {
		t.Errorf("Map (-want +got):\n%s", diff)
	}
	if got := res.MustInt("n", 0); got != 4 {
		t.Errorf("MustInt(n) = %d", got)
	}
	if got := res.MustString("missing", "def"); got != "def" {
		t.Errorf("MustString = %q", got)
	}
}
