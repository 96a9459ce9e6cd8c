package clap

import (
	"context"
	stdio "io"
	"sync"

	clapio "github.com/dzonerzy/go-clap/io"
	"github.com/dzonerzy/go-clap/middleware"
)

// ActionFunc is the callback bound to a command with Command.Action.
type ActionFunc func(ctx *Context) error

// Context is passed to command actions. It carries the results of the
// command's scope and of the whole parse.
type Context struct {
	App    *App
	Result *Result // the running command's scope
	Root   *Result // the program scope

	cmd    *Command
	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.RWMutex
	metadata map[string]any
}

var _ middleware.Context = (*Context)(nil)

func newContext(parent context.Context, app *App, cmd *Command, res, root *Result) *Context {
	ctx, cancel := context.WithCancel(parent)
	return &Context{App: app, Result: res, Root: root, cmd: cmd, ctx: ctx, cancel: cancel}
}

// Context returns the Go context the action runs under.
func (c *Context) Context() context.Context { return c.ctx }

// Cancel cancels the action's Go context.
func (c *Context) Cancel() { c.cancel() }

// Done is shorthand for Context().Done().
func (c *Context) Done() <-chan struct{} { return c.ctx.Done() }

// Command describes the running command.
func (c *Context) Command() middleware.Command { return commandInfo{c.cmd} }

// Args returns the tokens consumed in the running command's scope.
func (c *Context) Args() []string { return c.Result.Args() }

// Set stores a value for later middleware or the action.
func (c *Context) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.metadata == nil {
		c.metadata = make(map[string]any)
	}
	c.metadata[key] = value
}

// Get returns a value stored with Set.
func (c *Context) Get(key string) any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.metadata[key]
}

// Exit returns an error that makes the app exit with code.
func (c *Context) Exit(code int) error { return &ExitError{Code: code} }

// ExitWithError returns err tagged with an exit code.
func (c *Context) ExitWithError(err error, code int) error { return &ExitError{Code: code, Err: err} }

// IO returns the app's stream manager.
func (c *Context) IO() *clapio.IOManager { return c.App.io }

// Stdout is the app's output stream.
func (c *Context) Stdout() stdio.Writer { return c.App.io.Out() }

// Stderr is the app's error stream.
func (c *Context) Stderr() stdio.Writer { return c.App.io.Err() }

type commandInfo struct{ c *Command }

func (ci commandInfo) Name() string {
	if ci.c == nil {
		return ""
	}
	return ci.c.Name
}

func (ci commandInfo) Description() string {
	if ci.c == nil {
		return ""
	}
	return ci.c.Description
}
