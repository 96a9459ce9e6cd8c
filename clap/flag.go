package clap

// Switch is a boolean flag that takes no value.
type Switch struct {
	opt *Option
}

// Flag declares a boolean flag that defaults to false and is set to true
// when given.
func Flag(names ...string) *Switch {
	return &Switch{opt: &Option{
		Names:      names,
		Kind:       KindFlag,
		Arity:      Exactly(0),
		Default:    false,
		HasDefault: true,
	}}
}

func (s *Switch) option() *Option { return s.opt }

func (s *Switch) declare(b *scopeBuilder, excl []exclRef) { b.addOption(s.opt, excl) }

// Option exposes the underlying model.
func (s *Switch) Option() *Option { return s.opt }

// Inverted makes the flag default to true and store false when given.
func (s *Switch) Inverted() *Switch {
	s.opt.Inverted = true
	s.opt.Default = true
	return s
}

// Help sets the description shown in help output.
func (s *Switch) Help(description string) *Switch {
	s.opt.Description = description
	return s
}

// Hidden omits the flag from help output.
func (s *Switch) Hidden() *Switch {
	s.opt.Hidden = true
	return s
}

// Get returns the flag's value.
func (s *Switch) Get(r *Result) bool {
	sl, ok := r.find(s.opt)
	if !ok || !sl.set {
		b, _ := s.opt.Default.(bool)
		return b
	}
	b, _ := sl.value.(bool)
	return b
}

// Given reports whether the flag appeared on the command line.
func (s *Switch) Given(r *Result) bool {
	sl, ok := r.find(s.opt)
	return ok && sl.source == SourceArgs
}

// Counter is a flag that counts its occurrences, e.g. -vvv.
type Counter struct {
	opt *Option
}

// Count declares a counted flag. A short name may be clustered: "-vvv"
// counts three.
func Count(names ...string) *Counter {
	return &Counter{opt: &Option{
		Names:      names,
		Kind:       KindCounted,
		Arity:      Exactly(0),
		Default:    0,
		HasDefault: true,
	}}
}

func (c *Counter) option() *Option { return c.opt }

func (c *Counter) declare(b *scopeBuilder, excl []exclRef) { b.addOption(c.opt, excl) }

// Option exposes the underlying model.
func (c *Counter) Option() *Option { return c.opt }

// Help sets the description shown in help output.
func (c *Counter) Help(description string) *Counter {
	c.opt.Description = description
	return c
}

// Get returns the number of occurrences.
func (c *Counter) Get(r *Result) int {
	sl, ok := r.find(c.opt)
	if !ok || !sl.set {
		return 0
	}
	n, _ := sl.value.(int)
	return n
}

// Help declares a custom help option, replacing the built-in -h/--help in
// the scope it is declared in.
func Help(names ...string) *Option {
	return &Option{Names: names, Kind: KindHelp, Arity: Exactly(0)}
}

// Version declares a custom version option.
func Version(names ...string) *Option {
	return &Option{Names: names, Kind: KindVersion, Arity: Exactly(0)}
}

func builtinHelp(p Prefixes, t *Texts) *Option {
	o := Help(p.Short+"h", p.Long+"help")
	o.Description = t.HelpDescription
	return o
}

func builtinVersion(p Prefixes, t *Texts) *Option {
	o := Version(p.Long + "version")
	o.Description = t.VersionDescription
	return o
}

func builtinResponseFile(marker string, t *Texts) *Option {
	return &Option{
		Names:       []string{marker},
		Kind:        KindResponseFile,
		Arity:       Exactly(0),
		Description: t.ResponseFileDescription,
		Metavar:     "FILE",
		Hidden:      true,
	}
}
