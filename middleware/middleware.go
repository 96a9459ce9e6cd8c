// Package middleware wraps subcommand actions with cross-cutting behavior:
// panic recovery, structured logging and timeouts.
package middleware

import (
	"context"
	"fmt"
	"time"
)

// Context is the view of a running command that middleware can rely on.
// It is satisfied by *clap.Context.
type Context interface {
	// Context returns the Go context the action runs under.
	Context() context.Context

	// Cancel cancels the action's Go context.
	Cancel()

	// Command describes the command being run.
	Command() Command

	// Args returns the tokens that were parsed in the command's scope.
	Args() []string

	// Set and Get carry values between middleware and the action.
	Set(key string, value any)
	Get(key string) any
}

// Command is the descriptor of a running command.
type Command interface {
	Name() string
	Description() string
}

// ActionFunc is the signature of a wrapped command action.
type ActionFunc func(ctx Context) error

// Middleware decorates an ActionFunc.
type Middleware func(next ActionFunc) ActionFunc

// MiddlewareChain is an ordered list of middleware.
type MiddlewareChain []Middleware

// Apply wraps action so that the first middleware in the chain runs first.
func (chain MiddlewareChain) Apply(action ActionFunc) ActionFunc {
	for i := len(chain) - 1; i >= 0; i-- {
		action = chain[i](action)
	}
	return action
}

// Use returns a new chain with the provided middleware appended.
func (chain MiddlewareChain) Use(middleware ...Middleware) MiddlewareChain {
	out := make(MiddlewareChain, 0, len(chain)+len(middleware))
	out = append(out, chain...)
	return append(out, middleware...)
}

// Chain creates a chain from the provided middleware, preserving order.
func Chain(middleware ...Middleware) MiddlewareChain {
	return MiddlewareChain(middleware)
}

// TimeoutError is returned when an action outlives its deadline.
type TimeoutError struct {
	Duration time.Duration
	Command  string
}

func (e *TimeoutError) Error() string {
	return "command '" + e.Command + "' timed out after " + e.Duration.String()
}

// RecoveryError wraps a panic raised by an action.
type RecoveryError struct {
	Panic   any
	Command string
	Stack   []byte
}

func (e *RecoveryError) Error() string {
	return "command '" + e.Command + "' panicked: " + toString(e.Panic)
}

func toString(v any) string {
	switch t := v.(type) {
	case nil:
		return "<nil>"
	case string:
		return t
	case error:
		return t.Error()
	default:
		return fmt.Sprint(v)
	}
}

func commandName(ctx Context) string {
	cmd := ctx.Command()
	if cmd == nil {
		return "unknown"
	}
	return cmd.Name()
}
