package clap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	clapio "github.com/dzonerzy/go-clap/io"
	"github.com/dzonerzy/go-clap/middleware"
)

// Status discriminates the three ways a parse can end.
type Status int

const (
	// Parsed means every token was consumed and validation passed.
	Parsed Status = iota
	// ExitRequested means help or version was printed.
	ExitRequested
	// Failed means a diagnostic was produced.
	Failed
)

func (s Status) String() string {
	switch s {
	case Parsed:
		return "parsed"
	case ExitRequested:
		return "exit-requested"
	default:
		return "failed"
	}
}

// Outcome is the result of App.Parse. Result is set for Parsed and, with
// whatever was consumed so far, for the other statuses too. Err is
// ErrHelpShown or ErrVersionShown for ExitRequested and a *ParseError for
// Failed.
type Outcome struct {
	Status Status
	Result *Result
	Code   int
	Err    error
}

// ParseError returns the diagnostic of a Failed outcome.
func (o Outcome) ParseError() (*ParseError, bool) {
	if o.Err == nil {
		return nil, false
	}
	return AsParseError(o.Err)
}

// App is a command-line program: its declaration tree plus the configuration
// applied while parsing. Configure it before the first parse; once compiled
// it is safe for concurrent Parse calls.
type App struct {
	name        string
	description string
	version     string
	nodes       []Node

	texts          Texts
	prefixes       Prefixes
	responseMarker string
	dashDash       bool
	readFile       func(string) ([]byte, error)

	reporter   Reporter
	io         *clapio.IOManager
	logger     *zap.Logger
	middleware middleware.MiddlewareChain
	action     ActionFunc
	exitCodes  *ExitCodeManager
	registry   *Registry

	once sync.Once
	root *scope
}

// New creates an App. An empty name uses the executable's base name.
func New(name, description string) *App {
	if name == "" {
		name = filepath.Base(os.Args[0])
	}
	return &App{
		name:           name,
		description:    description,
		texts:          DefaultTexts(),
		prefixes:       DefaultPrefixes,
		responseMarker: "@",
		dashDash:       true,
		readFile:       os.ReadFile,
		io:             clapio.New(),
		logger:         zap.NewNop(),
		exitCodes:      newExitCodeManager(),
		registry:       NewRegistry(),
	}
}

// Name returns the program name.
func (a *App) Name() string { return a.name }

// Add appends options, groups and commands to the program scope.
func (a *App) Add(nodes ...Node) *App {
	a.nodes = append(a.nodes, nodes...)
	return a
}

// Version sets the version string and enables the --version option.
func (a *App) Version(v string) *App {
	a.version = v
	return a
}

// Texts overlays the non-empty fields of t on the default texts. It panics
// when a message template does not hold exactly one placeholder.
func (a *App) Texts(t Texts) *App {
	merged := a.texts.merge(t)
	if err := merged.Validate(); err != nil {
		panic("clap: " + err.Error())
	}
	a.texts = merged
	return a
}

// Prefixes sets the short and long option prefixes. They must be non-empty
// and distinct.
func (a *App) Prefixes(short, long string) *App {
	if short == "" || long == "" || short == long {
		panic(fmt.Sprintf("clap: invalid prefixes %q and %q", short, long))
	}
	a.prefixes = Prefixes{Short: short, Long: long}
	return a
}

// ResponseFiles sets the marker that introduces a response file, "@" by
// default.
func (a *App) ResponseFiles(marker string) *App {
	a.responseMarker = marker
	return a
}

// NoResponseFiles disables response-file expansion.
func (a *App) NoResponseFiles() *App {
	a.responseMarker = ""
	return a
}

// NoTerminator makes "--" an ordinary token.
func (a *App) NoTerminator() *App {
	a.dashDash = false
	return a
}

// FileReader replaces the function used to read response files.
func (a *App) FileReader(fn func(string) ([]byte, error)) *App {
	a.readFile = fn
	return a
}

// Reporter replaces the default StreamReporter.
func (a *App) Reporter(r Reporter) *App {
	a.reporter = r
	return a
}

// IO returns the stream manager used for help, version and errors.
func (a *App) IO() *clapio.IOManager { return a.io }

// WithIO replaces the stream manager.
func (a *App) WithIO(m *clapio.IOManager) *App {
	a.io = m
	return a
}

// Logger sets the logger receiving parse and action events.
func (a *App) Logger(l *zap.Logger) *App {
	if l == nil {
		l = zap.NewNop()
	}
	a.logger = l
	return a
}

// Use appends middleware wrapping every action.
func (a *App) Use(mw ...middleware.Middleware) *App {
	a.middleware = a.middleware.Use(mw...)
	return a
}

// Action binds a callback run with the program scope's results.
func (a *App) Action(fn ActionFunc) *App {
	a.action = fn
	return a
}

// ExitCodes returns the manager that maps outcomes to exit codes.
func (a *App) ExitCodes() *ExitCodeManager { return a.exitCodes }

// RegisterType makes p available to options declared with Value or Values
// under name.
func (a *App) RegisterType(name string, p ValueParser) *App {
	a.registry.Register(name, p)
	return a
}

// Build compiles the declaration tree. It is called implicitly by the first
// parse and panics when the tree violates a construction rule.
func (a *App) Build() *App {
	a.once.Do(func() {
		var builtins []*Option
		if a.responseMarker != "" {
			builtins = append(builtins, builtinResponseFile(a.responseMarker, &a.texts))
		}
		builtins = append(builtins, builtinHelp(a.prefixes, &a.texts))
		if a.version != "" {
			builtins = append(builtins, builtinVersion(a.prefixes, &a.texts))
		}
		a.root = compileScope(a.name, nil, nil, a.prefixes, a.registry, a.nodes, builtins)
		if a.reporter == nil {
			a.reporter = NewReporter(a.io, &a.texts)
		}
		a.logger.Debug("app compiled",
			zap.String("app", a.name),
			zap.Int("entries", len(a.root.entries)),
			zap.Int("commands", len(a.root.commands)),
		)
	})
	return a
}

// ParseOption adjusts a single parse.
type ParseOption func(*parseConfig)

type parseConfig struct {
	stored Stored
	quiet  bool
}

// WithStored layers persisted values between the command line and defaults.
func WithStored(s Stored) ParseOption {
	return func(c *parseConfig) { c.stored = s }
}

// Quiet suppresses all reporter output.
func Quiet() ParseOption {
	return func(c *parseConfig) { c.quiet = true }
}

// Parse parses args, which must not include the program name. It does not
// run actions.
func (a *App) Parse(args []string, opts ...ParseOption) Outcome {
	out, _ := a.parse(args, opts)
	return out
}

func (a *App) parse(args []string, opts []ParseOption) (Outcome, *scope) {
	a.Build()
	var cfg parseConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	p := parserPool.Get()
	defer parserPool.Put(p)
	p.app = a
	p.log = a.logger
	p.stored = cfg.stored

	res, status, perr := p.parse(a.root, args)
	sc := p.at

	switch {
	case perr != nil:
		perr.render(&a.texts)
		if !cfg.quiet {
			a.reporter.ReportError(a.name, a.helpFor(sc), perr)
		}
		return Outcome{Status: Failed, Result: res, Code: a.exitCodes.resolve(perr), Err: perr}, sc
	case status == runHelp:
		if !cfg.quiet {
			a.reporter.ReportHelp(a.name, a.helpFor(sc))
		}
		return Outcome{Status: ExitRequested, Result: res, Code: a.exitCodes.resolve(ErrHelpShown), Err: ErrHelpShown}, sc
	case status == runVersion:
		if !cfg.quiet {
			a.reporter.ReportVersion(a.name, a.version)
		}
		return Outcome{Status: ExitRequested, Result: res, Code: a.exitCodes.resolve(ErrVersionShown), Err: ErrVersionShown}, sc
	}
	return Outcome{Status: Parsed, Result: res, Code: a.exitCodes.defaults.Success}, sc
}

// Execute parses args and, on success, runs the actions of the program and
// each matched command, outermost first. A failing action ends the run with
// an action_failed diagnostic.
func (a *App) Execute(ctx context.Context, args []string, opts ...ParseOption) Outcome {
	out, _ := a.parse(args, opts)
	if out.Status != Parsed {
		return out
	}
	var cfg parseConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := a.runActions(ctx, out.Result); err != nil {
		err.render(&a.texts)
		var exit *ExitError
		if !cfg.quiet && !(errors.As(err, &exit) && exit.Err == nil) {
			a.reporter.ReportError(a.name, "", err)
		}
		return Outcome{Status: Failed, Result: out.Result, Code: a.exitCodes.resolve(err), Err: err}
	}
	return out
}

// Run executes the process arguments.
func (a *App) Run(ctx context.Context) Outcome {
	return a.Execute(ctx, os.Args[1:])
}

// RunAndExit runs the process arguments and exits unless parsing succeeded
// and every action returned nil.
func (a *App) RunAndExit(ctx context.Context) *Result {
	out := a.Run(ctx)
	if out.Status != Parsed {
		_ = a.logger.Sync()
		os.Exit(out.Code)
	}
	return out.Result
}

func (a *App) runActions(ctx context.Context, root *Result) *ParseError {
	for r := root; r != nil; r = r.sub {
		cmd := r.scope.cmd
		fn, chain := a.action, a.middleware
		if cmd != nil {
			fn, chain = cmd.action, chain.Use(cmd.middleware...)
		}
		if fn == nil {
			continue
		}
		c := newContext(ctx, a, cmd, r, root)
		wrapped := chain.Apply(func(middleware.Context) error { return fn(c) })
		err := wrapped(c)
		c.Cancel()
		if err != nil {
			a.logger.Debug("action failed", zap.String("command", r.Path()), zap.Error(err))
			perr := newParseError(ErrorTypeActionFailed, r.Path()).withCause(err)
			perr.Command = r.Path()
			return perr
		}
	}
	return nil
}

// Usage returns the usage line of the program or of the command reached by
// following path.
func (a *App) Usage(path ...string) (string, error) {
	sc, err := a.scopeAt(path)
	if err != nil {
		return "", err
	}
	return newHelpWriter(&a.texts, a.io.Width()).usage(sc), nil
}

// HelpText returns the full help of the program or of the command reached by
// following path.
func (a *App) HelpText(path ...string) (string, error) {
	sc, err := a.scopeAt(path)
	if err != nil {
		return "", err
	}
	return a.helpFor(sc), nil
}

func (a *App) helpFor(sc *scope) string {
	if sc == nil {
		sc = a.root
	}
	return newHelpWriter(&a.texts, a.io.Width()).help(sc, scopeDescription(a, sc))
}

var errNoSuchCommand = errors.New("no such command")

func (a *App) scopeAt(path []string) (*scope, error) {
	a.Build()
	sc := a.root
	for _, name := range path {
		var next *scope
		for _, e := range sc.commands {
			if e.cmd.matches(name) {
				next = e.sub
				break
			}
		}
		if next == nil {
			return nil, fmt.Errorf("%w: %s %s", errNoSuchCommand, sc.path, name)
		}
		sc = next
	}
	return sc, nil
}
