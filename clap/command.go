package clap

import (
	"fmt"

	"github.com/dzonerzy/go-clap/middleware"
)

// Command is a subcommand: a literal name token after which parsing continues
// against the command's own nodes.
type Command struct {
	Name        string
	Aliases     []string
	Description string
	HelpText    string
	Hidden      bool

	nodes      []Node
	action     ActionFunc
	middleware []middleware.Middleware
}

// Cmd declares a subcommand with the given nodes.
func Cmd(name, description string, nodes ...Node) *Command {
	return &Command{Name: name, Description: description, nodes: nodes}
}

// Add appends nodes to the command's scope.
func (c *Command) Add(nodes ...Node) *Command {
	c.nodes = append(c.nodes, nodes...)
	return c
}

// Alias adds alternative names for the command.
func (c *Command) Alias(aliases ...string) *Command {
	c.Aliases = append(c.Aliases, aliases...)
	return c
}

// Action binds the callback run with this command's results after a
// successful parse.
func (c *Command) Action(fn ActionFunc) *Command {
	c.action = fn
	return c
}

// Use adds command-level middleware, applied inside the app's chain.
func (c *Command) Use(mw ...middleware.Middleware) *Command {
	c.middleware = append(c.middleware, mw...)
	return c
}

// Help sets the long description printed in the command's help.
func (c *Command) Help(text string) *Command {
	c.HelpText = text
	return c
}

// Hide omits the command from help output.
func (c *Command) Hide() *Command {
	c.Hidden = true
	return c
}

func (c *Command) names() []string {
	return append([]string{c.Name}, c.Aliases...)
}

func (c *Command) matches(tok string) bool {
	for _, n := range c.names() {
		if n == tok {
			return true
		}
	}
	return false
}

func (c *Command) declare(b *scopeBuilder, excl []exclRef) {
	if len(excl) > 0 {
		panic(fmt.Sprintf("clap: command %q inside an exclusive group", c.Name))
	}
	for _, n := range c.names() {
		if n == "" {
			panic("clap: empty command name")
		}
		if b.sc.prefixes.has(n) {
			panic(fmt.Sprintf("clap: command name %q must not start with an option prefix", n))
		}
	}
	e := &entry{cmd: c, slot: -1}
	b.sc.entries = append(b.sc.entries, e)
	b.sc.commands = append(b.sc.commands, e)
}
