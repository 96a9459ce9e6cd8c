package clap

import (
	"fmt"
	"time"
)

// optionHolder is implemented by every typed builder.
type optionHolder interface {
	option() *Option
}

func (o *Option) option() *Option { return o }

func (o *Option) declare(b *scopeBuilder, excl []exclRef) { b.addOption(o, excl) }

// typedValidator adapts a typed predicate to the erased Option.Validator.
func typedValidator[T any](fn func(T) error) func(any) error {
	return func(v any) error {
		t, ok := v.(T)
		if !ok {
			return fmt.Errorf("unexpected value type %T", v)
		}
		return fn(t)
	}
}

// typedParser adapts a typed parse function to ValueParser.
func typedParser[T any](fn func(string) (T, error)) ValueParser {
	return ParserFunc(func(s string) (any, error) { return fn(s) })
}

// Arg is a single-valued option or positional of type T. Names carrying an
// option prefix declare a valued option, a bare name declares a positional.
type Arg[T any] struct {
	opt *Option
}

func newArg[T any](typeName string, p ValueParser, names []string) *Arg[T] {
	return &Arg[T]{opt: &Option{
		Names:    names,
		Kind:     KindAuto,
		Arity:    Exactly(1),
		Value:    ValueScalar,
		TypeName: typeName,
		Parser:   p,
	}}
}

// Int declares an integer option. Hexadecimal "0x" literals are accepted.
func Int(names ...string) *Arg[int] { return newArg[int](TypeInt, nil, names) }

// Float declares a float64 option.
func Float(names ...string) *Arg[float64] { return newArg[float64](TypeFloat, nil, names) }

// String declares a string option.
func String(names ...string) *Arg[string] { return newArg[string](TypeString, nil, names) }

// Bool declares an option taking an explicit true/false value.
func Bool(names ...string) *Arg[bool] { return newArg[bool](TypeBool, nil, names) }

// Duration declares a time.Duration option.
func Duration(names ...string) *Arg[time.Duration] {
	return newArg[time.Duration](TypeDuration, nil, names)
}

// Value declares an option whose parser is registered under typeName with
// App.RegisterType. The parser must produce values of type T.
func Value[T any](typeName string, names ...string) *Arg[T] {
	return newArg[T](typeName, nil, names)
}

// Func declares an option parsed by fn.
func Func[T any](fn func(string) (T, error), names ...string) *Arg[T] {
	return newArg[T]("", typedParser(fn), names)
}

func (a *Arg[T]) option() *Option { return a.opt }

func (a *Arg[T]) declare(b *scopeBuilder, excl []exclRef) { b.addOption(a.opt, excl) }

// Option exposes the underlying model.
func (a *Arg[T]) Option() *Option { return a.opt }

// Help sets the description shown in help output.
func (a *Arg[T]) Help(description string) *Arg[T] {
	a.opt.Description = description
	return a
}

// Metavar sets the placeholder shown for the value in help output.
func (a *Arg[T]) Metavar(name string) *Arg[T] {
	a.opt.Metavar = name
	return a
}

// Default sets the value used when the option is not given.
func (a *Arg[T]) Default(value T) *Arg[T] {
	a.opt.Default = value
	a.opt.HasDefault = true
	return a
}

// Choices restricts accepted values to the given set.
func (a *Arg[T]) Choices(values ...T) *Arg[T] {
	a.opt.Choices = make([]any, len(values))
	for i, v := range values {
		a.opt.Choices[i] = v
	}
	return a
}

// Validate adds a check run on each parsed value. A failing value is still
// stored and the error is reported once scanning finishes.
func (a *Arg[T]) Validate(fn func(T) error) *Arg[T] {
	a.opt.Validator = typedValidator(fn)
	return a
}

// Required makes a non-positional option mandatory.
func (a *Arg[T]) Required() *Arg[T] {
	a.opt.Required = true
	return a
}

// Optional lets the value token be omitted. A positional becomes optional;
// a valued option given without a value is present with a zero value.
func (a *Arg[T]) Optional() *Arg[T] {
	a.opt.Arity = ZeroOrOne
	a.opt.Value = ValueOptional
	return a
}

// Hidden omits the option from help output.
func (a *Arg[T]) Hidden() *Arg[T] {
	a.opt.Hidden = true
	return a
}

// Get returns the option's value from r or the matched subcommand chain.
func (a *Arg[T]) Get(r *Result) (T, bool) {
	var zero T
	s, ok := r.find(a.opt)
	if !ok || !s.set {
		return zero, false
	}
	if s.value == nil {
		return zero, true
	}
	v, ok := s.value.(T)
	return v, ok
}

// Value returns the option's value, or the zero value when absent.
func (a *Arg[T]) Value(r *Result) T {
	v, _ := a.Get(r)
	return v
}

// Args is a multi-valued option or positional of element type T.
type Args[T any] struct {
	opt *Option
}

func newArgs[T any](typeName string, p ValueParser, names []string) *Args[T] {
	return &Args[T]{opt: &Option{
		Names:    names,
		Kind:     KindAuto,
		Arity:    OneOrMore,
		Value:    ValueSequence,
		TypeName: typeName,
		Parser:   p,
	}}
}

// Ints declares a sequence of integers.
func Ints(names ...string) *Args[int] { return newArgs[int](TypeInt, nil, names) }

// Floats declares a sequence of float64s.
func Floats(names ...string) *Args[float64] { return newArgs[float64](TypeFloat, nil, names) }

// Strings declares a sequence of strings.
func Strings(names ...string) *Args[string] { return newArgs[string](TypeString, nil, names) }

// Durations declares a sequence of durations.
func Durations(names ...string) *Args[time.Duration] {
	return newArgs[time.Duration](TypeDuration, nil, names)
}

// Values declares a sequence parsed by the parser registered as typeName.
func Values[T any](typeName string, names ...string) *Args[T] {
	return newArgs[T](typeName, nil, names)
}

// FuncList declares a sequence parsed element-wise by fn.
func FuncList[T any](fn func(string) (T, error), names ...string) *Args[T] {
	return newArgs[T]("", typedParser(fn), names)
}

func (a *Args[T]) option() *Option { return a.opt }

func (a *Args[T]) declare(b *scopeBuilder, excl []exclRef) { b.addOption(a.opt, excl) }

// Option exposes the underlying model.
func (a *Args[T]) Option() *Option { return a.opt }

// Arity sets how many tokens one occurrence consumes.
func (a *Args[T]) Arity(arity Arity) *Args[T] {
	a.opt.Arity = arity
	return a
}

// Unique drops repeated values, keeping first-seen order.
func (a *Args[T]) Unique() *Args[T] {
	a.opt.Value = ValueSet
	return a
}

// Help sets the description shown in help output.
func (a *Args[T]) Help(description string) *Args[T] {
	a.opt.Description = description
	return a
}

// Metavar sets the placeholder shown for each value in help output.
func (a *Args[T]) Metavar(name string) *Args[T] {
	a.opt.Metavar = name
	return a
}

// Default sets the values used when the option is not given.
func (a *Args[T]) Default(values ...T) *Args[T] {
	a.opt.Default = append([]T(nil), values...)
	a.opt.HasDefault = true
	return a
}

// Choices restricts every element to the given set.
func (a *Args[T]) Choices(values ...T) *Args[T] {
	a.opt.Choices = make([]any, len(values))
	for i, v := range values {
		a.opt.Choices[i] = v
	}
	return a
}

// Validate adds a check run on each parsed element.
func (a *Args[T]) Validate(fn func(T) error) *Args[T] {
	a.opt.Validator = typedValidator(fn)
	return a
}

// Required makes a non-positional option mandatory.
func (a *Args[T]) Required() *Args[T] {
	a.opt.Required = true
	return a
}

// Hidden omits the option from help output.
func (a *Args[T]) Hidden() *Args[T] {
	a.opt.Hidden = true
	return a
}

// Get returns the collected values.
func (a *Args[T]) Get(r *Result) ([]T, bool) {
	s, ok := r.find(a.opt)
	if !ok || !s.set {
		return nil, false
	}
	items, _ := s.value.([]any)
	return convertItems[T](items)
}

// Values returns the collected values, nil when absent.
func (a *Args[T]) Values(r *Result) []T {
	v, _ := a.Get(r)
	return v
}
