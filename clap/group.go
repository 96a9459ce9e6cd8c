package clap

import (
	"fmt"
	"strings"
)

// Node is an element of the declaration tree: an Option (through one of the
// typed builders), a Group, or a Command.
type Node interface {
	declare(b *scopeBuilder, excl []exclRef)
}

// GroupKind distinguishes the composition rules of a Group.
type GroupKind int

const (
	GroupPlain GroupKind = iota
	GroupNamed
	GroupExclusive
)

// Group composes Options and other Groups. Plain and named groups are
// flattened into the enclosing scope; named groups keep their title for help
// output. Exclusive groups allow at most one member to match per parse.
type Group struct {
	Kind        GroupKind
	Title       string
	Description string
	Nodes       []Node
}

// Plain groups nodes with no effect on matching or help.
func Plain(nodes ...Node) *Group {
	return &Group{Kind: GroupPlain, Nodes: nodes}
}

// Section groups nodes under their own heading in help output.
func Section(title, description string, nodes ...Node) *Group {
	return &Group{Kind: GroupNamed, Title: title, Description: description, Nodes: nodes}
}

// Exclusive declares that at most one of nodes may be given.
func Exclusive(nodes ...Node) *Group {
	return &Group{Kind: GroupExclusive, Nodes: nodes}
}

// Titled sets the label used for this group in help and conflict messages.
func (g *Group) Titled(title string) *Group {
	g.Title = title
	return g
}

// Add appends nodes to the group.
func (g *Group) Add(nodes ...Node) *Group {
	g.Nodes = append(g.Nodes, nodes...)
	return g
}

func (g *Group) declare(b *scopeBuilder, excl []exclRef) {
	if g.Kind == GroupExclusive {
		gi := len(b.sc.exclusives)
		eg := &exclusiveGroup{title: g.Title}
		b.sc.exclusives = append(b.sc.exclusives, eg)
		for i, n := range g.Nodes {
			eg.members = append(eg.members, b.memberName(n))
			refs := append(excl[:len(excl):len(excl)], exclRef{group: gi, member: i})
			n.declare(b, refs)
		}
		return
	}

	if g.Kind == GroupNamed {
		prev := b.section
		b.sc.sections = append(b.sc.sections, &section{title: g.Title, description: g.Description})
		b.section = len(b.sc.sections) - 1
		defer func() { b.section = prev }()
	}
	for _, n := range g.Nodes {
		n.declare(b, excl)
	}
}

func (g *Group) label(b *scopeBuilder) string {
	if g.Title != "" {
		return g.Title
	}
	names := make([]string, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		names = append(names, b.memberName(n))
	}
	return "(" + strings.Join(names, " ") + ")"
}

// exclRef locates an option inside an exclusive group: the group index in the
// scope and the index of the top-level member that contains the option.
type exclRef struct {
	group  int
	member int
}

type exclusiveGroup struct {
	title   string
	members []string
}

type section struct {
	title       string
	description string
	options     []*Option
}

// entry is one dispatch candidate in a scope, in declaration order.
type entry struct {
	opt  *Option
	cmd  *Command
	sub  *scope
	slot int
	excl []exclRef
}

// scope is the compiled, flattened sibling set of the root or one command.
type scope struct {
	path     string
	cmd      *Command
	parent   *scope
	prefixes Prefixes

	entries     []*entry
	options     []*Option // one per result slot
	slotOf      map[*Option]int
	byName      map[string]int // declared names, -1 for built-ins
	aliases     map[string]int // storage and prefix-trimmed names
	positionals []int
	commands    []*entry
	exclusives  []*exclusiveGroup
	sections    []*section
	ungrouped   []*Option // options outside named sections, for help

	help    *Option
	version *Option
}

type scopeBuilder struct {
	sc       *scope
	section  int
	registry *Registry
}

func (b *scopeBuilder) memberName(n Node) string {
	switch v := n.(type) {
	case *Group:
		return v.label(b)
	case *Command:
		return v.Name
	case optionHolder:
		return v.option().DisplayName()
	}
	return fmt.Sprintf("%T", n)
}

func (b *scopeBuilder) addOption(o *Option, excl []exclRef) {
	sc := b.sc
	if o.Kind == KindAuto {
		o.Kind = KindValued
		if len(o.Names) > 0 && !sc.prefixes.has(o.Names[0]) {
			o.Kind = KindPositional
		}
	}
	if o.Parser == nil && o.TypeName != "" && b.registry != nil {
		if p, ok := b.registry.Lookup(o.TypeName); ok {
			o.Parser = p
		}
	}
	checkOption(o, sc.prefixes)
	if o.isPositional() && len(excl) > 0 {
		panic(fmt.Sprintf("clap: positional %q inside an exclusive group", o.DisplayName()))
	}

	e := &entry{opt: o, slot: -1, excl: excl}
	switch o.Kind {
	case KindHelp:
		sc.help = o
	case KindVersion:
		sc.version = o
	}
	if o.Kind != KindHelp && o.Kind != KindVersion && o.Kind != KindResponseFile {
		e.slot = len(sc.options)
		sc.options = append(sc.options, o)
		sc.slotOf[o] = e.slot
		if o.isPositional() {
			sc.positionals = append(sc.positionals, e.slot)
		}
	}
	for _, n := range o.Names {
		if _, dup := sc.byName[n]; dup {
			panic(fmt.Sprintf("clap: duplicate option name %q in %s", n, sc.path))
		}
		sc.byName[n] = e.slot
	}
	if e.slot >= 0 {
		// storage name first, then every alias without its prefix
		keys := append([]string{o.StorageName(sc.prefixes)}, o.Names...)
		for _, k := range keys {
			k = sc.prefixes.trim(k)
			if _, dup := sc.aliases[k]; !dup {
				sc.aliases[k] = e.slot
			}
		}
	}
	if b.section >= 0 {
		s := sc.sections[b.section]
		s.options = append(s.options, o)
	} else {
		sc.ungrouped = append(sc.ungrouped, o)
	}
	sc.entries = append(sc.entries, e)
}

// checkOption enforces the construction invariants of a single option.
func checkOption(o *Option, p Prefixes) {
	if len(o.Names) == 0 {
		panic("clap: option declared without a name")
	}
	if o.isPositional() && len(o.Names) != 1 {
		panic(fmt.Sprintf("clap: positional %q must have exactly one name", o.Names[0]))
	}
	if o.Kind != KindResponseFile {
		for _, n := range o.Names {
			p.checkName(n, o.isPositional())
		}
	}
	switch o.Kind {
	case KindFlag, KindCounted, KindHelp, KindVersion, KindResponseFile:
		if o.Arity != Exactly(0) {
			panic(fmt.Sprintf("clap: %s option %q must have arity 0", o.Kind, o.DisplayName()))
		}
	default:
		if o.Arity == Exactly(0) || o.Arity.Policy == ArityExact && o.Arity.N < 0 {
			panic(fmt.Sprintf("clap: option %q has illegal arity %s", o.DisplayName(), o.Arity))
		}
		if o.Parser == nil {
			panic(fmt.Sprintf("clap: option %q has no value parser", o.DisplayName()))
		}
	}
	if o.HasDefault && len(o.Choices) > 0 {
		if o.Value == ValueSequence || o.Value == ValueSet {
			for _, d := range sliceItems(o.Default) {
				if !o.inChoices(d) {
					panic(fmt.Sprintf("clap: default %v of %q is not among its choices", d, o.DisplayName()))
				}
			}
		} else if !o.inChoices(o.Default) {
			panic(fmt.Sprintf("clap: default %v of %q is not among its choices", o.Default, o.DisplayName()))
		}
	}
}

// checkScope enforces the sibling-set invariants once a scope is flattened.
func checkScope(sc *scope) {
	multi := ""
	remainderAt := -1
	lastOption := -1
	for i, e := range sc.entries {
		if e.opt == nil || e.slot < 0 {
			continue
		}
		lastOption = i
		o := e.opt
		if o.Arity.Policy == ArityRemainder {
			if remainderAt >= 0 {
				panic(fmt.Sprintf("clap: %s declares more than one remainder option", sc.path))
			}
			remainderAt = i
		}
		if o.isPositional() && o.Arity.Multi() {
			if multi != "" {
				panic(fmt.Sprintf("clap: positionals %q and %q both take multiple values", multi, o.DisplayName()))
			}
			multi = o.DisplayName()
		}
	}
	if remainderAt >= 0 && remainderAt != lastOption {
		panic(fmt.Sprintf("clap: remainder option %q must be declared last", sc.entries[remainderAt].opt.DisplayName()))
	}
}

// compileScope flattens nodes into a new scope and recurses into commands.
func compileScope(path string, cmd *Command, parent *scope, p Prefixes, reg *Registry, nodes []Node, builtins []*Option) *scope {
	sc := &scope{
		path:     path,
		cmd:      cmd,
		parent:   parent,
		prefixes: p,
		slotOf:   make(map[*Option]int),
		byName:   make(map[string]int),
		aliases:  make(map[string]int),
	}
	b := &scopeBuilder{sc: sc, section: -1, registry: reg}

	declaresHelp := false
	walkOptions(nodes, func(o *Option) {
		if o.Kind == KindHelp {
			declaresHelp = true
		}
	})
	for _, o := range builtins {
		if o.Kind == KindHelp && declaresHelp {
			continue
		}
		b.addOption(o, nil)
	}
	for _, n := range nodes {
		n.declare(b, nil)
	}
	checkScope(sc)

	seen := make(map[string]bool)
	for _, e := range sc.entries {
		if e.cmd == nil {
			continue
		}
		for _, name := range e.cmd.names() {
			if seen[name] {
				panic(fmt.Sprintf("clap: duplicate command name %q in %s", name, path))
			}
			seen[name] = true
		}
		var inherited []*Option
		for _, o := range builtins {
			if o.Kind != KindVersion {
				inherited = append(inherited, o)
			}
		}
		e.sub = compileScope(path+" "+e.cmd.Name, e.cmd, sc, p, reg, e.cmd.nodes, inherited)
	}
	return sc
}

func walkOptions(nodes []Node, fn func(*Option)) {
	for _, n := range nodes {
		switch v := n.(type) {
		case *Group:
			walkOptions(v.Nodes, fn)
		case optionHolder:
			fn(v.option())
		}
	}
}

// lookup resolves any alias or storage name to a slot.
func (sc *scope) lookup(name string) (int, bool) {
	i, ok := sc.byName[name]
	if !ok {
		i, ok = sc.aliases[name]
	}
	if !ok || i < 0 {
		return 0, false
	}
	return i, true
}

// names of every option and command in scope, for suggestions.
func (sc *scope) candidateNames() []string {
	var out []string
	for _, e := range sc.entries {
		switch {
		case e.cmd != nil:
			out = append(out, e.cmd.names()...)
		case e.opt != nil && !e.opt.isPositional() && e.opt.Kind != KindResponseFile:
			out = append(out, e.opt.Names...)
		}
	}
	return out
}

// program is the first word of the path.
func (sc *scope) program() string {
	if i := strings.IndexByte(sc.path, ' '); i >= 0 {
		return sc.path[:i]
	}
	return sc.path
}
