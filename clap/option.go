package clap

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"
)

// Kind identifies how an Option is matched.
type Kind int

const (
	KindAuto Kind = iota // resolved to KindPositional or KindValued when compiled
	KindPositional
	KindFlag
	KindCounted
	KindValued
	KindHelp
	KindVersion
	KindResponseFile
)

func (k Kind) String() string {
	switch k {
	case KindPositional:
		return "positional"
	case KindFlag:
		return "flag"
	case KindCounted:
		return "counted"
	case KindValued:
		return "valued"
	case KindHelp:
		return "help"
	case KindVersion:
		return "version"
	case KindResponseFile:
		return "response-file"
	default:
		return "auto"
	}
}

// ArityPolicy is the repetition rule for an Option's value tokens.
type ArityPolicy int

const (
	ArityExact ArityPolicy = iota
	ArityZeroOrOne
	ArityZeroOrMore
	ArityOneOrMore
	ArityRemainder
)

// Arity is the number of tokens an Option consumes when matched.
type Arity struct {
	Policy ArityPolicy
	N      int // only for ArityExact
}

// Exactly returns an arity that consumes exactly n tokens.
func Exactly(n int) Arity { return Arity{Policy: ArityExact, N: n} }

var (
	ZeroOrOne  = Arity{Policy: ArityZeroOrOne}
	ZeroOrMore = Arity{Policy: ArityZeroOrMore}
	OneOrMore  = Arity{Policy: ArityOneOrMore}
	Remainder  = Arity{Policy: ArityRemainder}
)

// Min is the fewest tokens the arity accepts.
func (a Arity) Min() int {
	switch a.Policy {
	case ArityExact:
		return a.N
	case ArityOneOrMore:
		return 1
	default:
		return 0
	}
}

// Max is the most tokens the arity accepts, -1 for unbounded.
func (a Arity) Max() int {
	switch a.Policy {
	case ArityExact:
		return a.N
	case ArityZeroOrOne:
		return 1
	default:
		return -1
	}
}

// Multi reports whether the arity can consume more than one token.
func (a Arity) Multi() bool {
	max := a.Max()
	return max < 0 || max > 1
}

func (a Arity) String() string {
	switch a.Policy {
	case ArityExact:
		return fmt.Sprintf("exact %d", a.N)
	case ArityZeroOrOne:
		return "zero_or_one"
	case ArityZeroOrMore:
		return "zero_or_more"
	case ArityOneOrMore:
		return "one_or_more"
	default:
		return "remainder"
	}
}

// ValueType is the runtime shape of an Option's result slot.
type ValueType int

const (
	ValueScalar ValueType = iota
	ValueOptional
	ValueSequence
	ValueSet
)

// Option describes one parseable unit. Options are immutable once the App
// that holds them has been compiled.
type Option struct {
	Names       []string
	Kind        Kind
	Arity       Arity
	Value       ValueType
	TypeName    string      // registry key, used when Parser is nil
	Parser      ValueParser // per-element parser
	Choices     []any
	Default     any
	HasDefault  bool
	Validator   func(any) error
	Description string
	Metavar     string
	Inverted    bool
	Required    bool
	Hidden      bool
}

func (o *Option) isPositional() bool { return o.Kind == KindPositional }

func (o *Option) takesValues() bool {
	return o.Kind == KindPositional || o.Kind == KindValued
}

// DisplayName is the longest name, the form used in diagnostics.
func (o *Option) DisplayName() string {
	best := ""
	for _, n := range o.Names {
		if len(n) > len(best) {
			best = n
		}
	}
	return best
}

// StorageName is the display name with its option prefix trimmed.
func (o *Option) StorageName(p Prefixes) string {
	return p.trim(o.DisplayName())
}

// required reports whether a successful parse must fill this option.
func (o *Option) required() bool {
	if o.HasDefault {
		return false
	}
	if o.isPositional() {
		return o.Arity.Min() > 0
	}
	return o.Required
}

// inChoices reports whether v is allowed by the choice set.
func (o *Option) inChoices(v any) bool {
	if len(o.Choices) == 0 {
		return true
	}
	for _, c := range o.Choices {
		if reflect.DeepEqual(c, v) {
			return true
		}
	}
	return false
}

func (o *Option) choiceList() string {
	parts := make([]string, len(o.Choices))
	for i, c := range o.Choices {
		parts[i] = fmt.Sprint(c)
	}
	return strings.Join(parts, ", ")
}

// Prefixes are the option-prefix conventions of an App.
type Prefixes struct {
	Short string
	Long  string
}

// DefaultPrefixes is the POSIX-style "-x" / "--xyz" convention.
var DefaultPrefixes = Prefixes{Short: "-", Long: "--"}

// has reports whether name starts with either prefix.
func (p Prefixes) has(name string) bool {
	return strings.HasPrefix(name, p.Long) || strings.HasPrefix(name, p.Short)
}

func (p Prefixes) trim(name string) string {
	if strings.HasPrefix(name, p.Long) {
		return name[len(p.Long):]
	}
	if strings.HasPrefix(name, p.Short) {
		return name[len(p.Short):]
	}
	return name
}

// isLong reports whether name uses the long prefix.
func (p Prefixes) isLong(name string) bool {
	return len(p.Long) > len(p.Short) && strings.HasPrefix(name, p.Long)
}

// shortRune returns the single letter of a one-rune short name.
func (p Prefixes) shortRune(name string) (rune, bool) {
	if p.isLong(name) || !strings.HasPrefix(name, p.Short) {
		return 0, false
	}
	rest := []rune(name[len(p.Short):])
	if len(rest) != 1 {
		return 0, false
	}
	return rest[0], true
}

// checkName panics unless name is a well-formed option or positional name.
func (p Prefixes) checkName(name string, positional bool) {
	if name == "" {
		panic("clap: empty option name")
	}
	if strings.IndexFunc(name, unicode.IsSpace) >= 0 {
		panic(fmt.Sprintf("clap: option name %q contains whitespace", name))
	}
	if positional {
		if p.has(name) {
			panic(fmt.Sprintf("clap: positional %q must not start with an option prefix", name))
		}
		return
	}
	rest := p.trim(name)
	if rest == name {
		panic(fmt.Sprintf("clap: option name %q has no option prefix", name))
	}
	if rest == "" || (p.Short != "" && strings.HasPrefix(rest, p.Short)) {
		panic(fmt.Sprintf("clap: option name %q has malformed prefix dashes", name))
	}
}
