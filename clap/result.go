package clap

import (
	"reflect"
	"time"

	"github.com/jinzhu/copier"
)

// Source records where a slot's value came from.
type Source int

const (
	SourceNone Source = iota
	SourceDefault
	SourceStored
	SourceArgs
)

func (s Source) String() string {
	switch s {
	case SourceDefault:
		return "default"
	case SourceStored:
		return "stored"
	case SourceArgs:
		return "args"
	default:
		return "none"
	}
}

type slot struct {
	value  any // scalar, nil for an empty optional, or []any for sequences and sets
	set    bool
	source Source
	count  int
}

// Result holds the values of one scope: the root program or a subcommand.
// Every parse produces a fresh Result tree.
type Result struct {
	scope   *scope
	slots   []slot
	args    []string
	command string
	sub     *Result
	parent  *Result
}

func newResult(sc *scope, parent *Result) *Result {
	return &Result{scope: sc, slots: make([]slot, len(sc.options)), parent: parent}
}

// Path is the program name followed by the matched command names.
func (r *Result) Path() string { return r.scope.path }

// Command returns the name and results of the matched subcommand, if any.
func (r *Result) Command() (string, *Result) { return r.command, r.sub }

// Parent returns the enclosing scope's results, nil at the root.
func (r *Result) Parent() *Result { return r.parent }

// Leaf returns the innermost matched subcommand's results.
func (r *Result) Leaf() *Result {
	for r.sub != nil {
		r = r.sub
	}
	return r
}

// Args returns the tokens consumed while parsing this scope.
func (r *Result) Args() []string { return r.args }

// Lookup returns the value stored under any alias or storage name of an
// option in this scope.
func (r *Result) Lookup(name string) (any, bool) {
	i, ok := r.scope.lookup(name)
	if !ok || !r.slots[i].set {
		return nil, false
	}
	return r.slots[i].value, true
}

// Has reports whether the named option has a value from any source.
func (r *Result) Has(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// SourceOf reports where the named option's value came from.
func (r *Result) SourceOf(name string) Source {
	i, ok := r.scope.lookup(name)
	if !ok {
		return SourceNone
	}
	return r.slots[i].source
}

// Map materializes the scope's values keyed by canonical storage name.
// Sequences and sets are []any.
func (r *Result) Map() map[string]any {
	out := make(map[string]any, len(r.slots))
	for i, o := range r.scope.options {
		if s := r.slots[i]; s.set {
			out[o.StorageName(r.scope.prefixes)] = s.value
		}
	}
	return out
}

// find locates the slot of o in r or the matched subcommand chain.
func (r *Result) find(o *Option) (*slot, bool) {
	for cur := r; cur != nil; cur = cur.sub {
		if i, ok := cur.scope.slotOf[o]; ok {
			return &cur.slots[i], true
		}
	}
	return nil, false
}

// String returns the named string value.
func (r *Result) String(name string) (string, bool) { return lookupAs[string](r, name) }

// Int returns the named int value.
func (r *Result) Int(name string) (int, bool) { return lookupAs[int](r, name) }

// Float returns the named float64 value.
func (r *Result) Float(name string) (float64, bool) { return lookupAs[float64](r, name) }

// Bool returns the named bool value, including flags.
func (r *Result) Bool(name string) (bool, bool) { return lookupAs[bool](r, name) }

// Duration returns the named time.Duration value.
func (r *Result) Duration(name string) (time.Duration, bool) {
	return lookupAs[time.Duration](r, name)
}

// Count returns how often a counted flag was given.
func (r *Result) Count(name string) int {
	n, _ := lookupAs[int](r, name)
	return n
}

// Strings returns the named sequence as strings.
func (r *Result) Strings(name string) ([]string, bool) { return lookupSliceAs[string](r, name) }

// Ints returns the named sequence as ints.
func (r *Result) Ints(name string) ([]int, bool) { return lookupSliceAs[int](r, name) }

// Floats returns the named sequence as float64s.
func (r *Result) Floats(name string) ([]float64, bool) { return lookupSliceAs[float64](r, name) }

// MustString returns the named string or def.
func (r *Result) MustString(name, def string) string { return mustLookup(r, name, def) }

// MustInt returns the named int or def.
func (r *Result) MustInt(name string, def int) int { return mustLookup(r, name, def) }

// MustFloat returns the named float64 or def.
func (r *Result) MustFloat(name string, def float64) float64 { return mustLookup(r, name, def) }

// MustBool returns the named bool or def.
func (r *Result) MustBool(name string, def bool) bool { return mustLookup(r, name, def) }

// MustDuration returns the named time.Duration or def.
func (r *Result) MustDuration(name string, def time.Duration) time.Duration {
	return mustLookup(r, name, def)
}

// MustStrings returns the named string sequence or def.
func (r *Result) MustStrings(name string, def []string) []string {
	if v, ok := r.Strings(name); ok {
		return v
	}
	return def
}

func lookupAs[T any](r *Result, name string) (T, bool) {
	var zero T
	v, ok := r.Lookup(name)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

func lookupSliceAs[T any](r *Result, name string) ([]T, bool) {
	v, ok := r.Lookup(name)
	if !ok {
		return nil, false
	}
	items, ok := v.([]any)
	if !ok {
		return nil, false
	}
	return convertItems[T](items)
}

func mustLookup[T any](r *Result, name string, def T) T {
	if v, ok := lookupAs[T](r, name); ok {
		return v
	}
	return def
}

func convertItems[T any](items []any) ([]T, bool) {
	out := make([]T, 0, len(items))
	for _, it := range items {
		t, ok := it.(T)
		if !ok {
			return nil, false
		}
		out = append(out, t)
	}
	return out, true
}

// sliceItems flattens any slice or array value into []any.
func sliceItems(v any) []any {
	if items, ok := v.([]any); ok {
		return append([]any(nil), items...)
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		if v == nil {
			return nil
		}
		return []any{v}
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

// cloneValue deep-copies reference values so a default never aliases the
// slot of an earlier parse.
func cloneValue(v any) any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Struct:
		dst := reflect.New(rv.Type())
		if err := copier.CopyWithOption(dst.Interface(), v, copier.Option{DeepCopy: true}); err == nil {
			return dst.Elem().Interface()
		}
	}
	return v
}

// defaultValue produces the slot value for o's default.
func defaultValue(o *Option) any {
	switch o.Value {
	case ValueSequence, ValueSet:
		items := sliceItems(o.Default)
		for i := range items {
			items[i] = cloneValue(items[i])
		}
		return items
	default:
		return cloneValue(o.Default)
	}
}

// store writes one converted value into s according to o's value type.
func (s *slot) store(o *Option, v any, src Source) {
	s.set = true
	s.source = src
	switch o.Value {
	case ValueSequence:
		items, _ := s.value.([]any)
		s.value = append(items, v)
	case ValueSet:
		items, _ := s.value.([]any)
		for _, it := range items {
			if reflect.DeepEqual(it, v) {
				return
			}
		}
		s.value = append(items, v)
	default:
		s.value = v
	}
}
