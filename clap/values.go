package clap

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ValueParser converts one token into a typed value.
type ValueParser interface {
	Parse(token string) (any, error)
}

// ParserFunc adapts a function to ValueParser.
type ParserFunc func(token string) (any, error)

func (f ParserFunc) Parse(token string) (any, error) { return f(token) }

// Built-in registry type names.
const (
	TypeInt      = "int"
	TypeFloat    = "float"
	TypeBool     = "bool"
	TypeString   = "string"
	TypeDuration = "duration"
)

// Registry maps value-type names to parsers. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	parsers map[string]ValueParser
}

// NewRegistry returns a registry preloaded with the built-in parsers.
func NewRegistry() *Registry {
	return &Registry{parsers: map[string]ValueParser{
		TypeInt:      ParserFunc(func(s string) (any, error) { return parseInt(s) }),
		TypeFloat:    ParserFunc(func(s string) (any, error) { return parseFloat(s) }),
		TypeBool:     ParserFunc(func(s string) (any, error) { return parseBool(s) }),
		TypeString:   ParserFunc(func(s string) (any, error) { return s, nil }),
		TypeDuration: ParserFunc(func(s string) (any, error) { return parseDuration(s) }),
	}}
}

// Register adds or replaces the parser for name.
func (r *Registry) Register(name string, p ValueParser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parsers[name] = p
}

// Lookup returns the parser for name.
func (r *Registry) Lookup(name string) (ValueParser, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.parsers[name]
	return p, ok
}

var (
	errEmptyValue   = errors.New("empty value")
	errOverflow     = errors.New("value out of range")
	errInvalidInt   = errors.New("expected an integer")
	errInvalidFloat = errors.New("expected a number")
	errInvalidBool  = errors.New("expected true or false")
)

// parseInt accepts decimal and 0x-prefixed hexadecimal with an optional sign.
func parseInt(s string) (int, error) {
	if s == "" {
		return 0, errEmptyValue
	}
	negative := false
	switch s[0] {
	case '-':
		negative = true
		s = s[1:]
	case '+':
		s = s[1:]
	}
	if s == "" {
		return 0, errInvalidInt
	}

	base := 10
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base = 16
		s = s[2:]
	}

	result := 0
	for i := 0; i < len(s); i++ {
		digit, ok := digitValue(s[i], base)
		if !ok {
			return 0, errInvalidInt
		}
		if result > (math.MaxInt-digit)/base {
			return 0, errOverflow
		}
		result = result*base + digit
	}
	if negative {
		result = -result
	}
	return result, nil
}

func digitValue(c byte, base int) (int, bool) {
	var d int
	switch {
	case c >= '0' && c <= '9':
		d = int(c - '0')
	case c >= 'a' && c <= 'f':
		d = int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		d = int(c-'A') + 10
	default:
		return 0, false
	}
	return d, d < base
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, errEmptyValue
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return 0, errOverflow
		}
		return 0, errInvalidFloat
	}
	return f, nil
}

// parseBool is strict so that typos surface as cannot_parse_arg.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "1", "t", "true", "y", "yes", "on":
		return true, nil
	case "0", "f", "false", "n", "no", "off":
		return false, nil
	}
	return false, errInvalidBool
}

// parseDuration accepts "MM:SS", "HH:MM:SS", day/week/month/year suffixes
// ("2d", "1w", "3M", "1Y") and unit sequences such as "1h30m" or "3 sec".
func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errEmptyValue
	}
	if n := strings.Count(s, ":"); n > 0 {
		return parseColonDuration(s, n)
	}
	if d, ok := parseExtendedDuration(s); ok {
		return d, nil
	}
	return parseUnitDuration(s)
}

func parseColonDuration(s string, colons int) (time.Duration, error) {
	if colons > 2 {
		return 0, fmt.Errorf("too many colons in duration %q", s)
	}
	parts := strings.Split(s, ":")
	units := []time.Duration{time.Second, time.Minute, time.Hour}
	var total time.Duration
	for i := range parts {
		part := parts[len(parts)-1-i]
		n, err := parseDecimal(part)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		total += time.Duration(n) * units[i]
	}
	return total, nil
}

func parseExtendedDuration(s string) (time.Duration, bool) {
	if len(s) < 2 {
		return 0, false
	}
	last := s[len(s)-1]
	var unit time.Duration
	switch last {
	case 'd', 'D':
		unit = 24 * time.Hour
	case 'w', 'W':
		unit = 7 * 24 * time.Hour
	case 'M':
		unit = 30 * 24 * time.Hour
	case 'y', 'Y':
		unit = 365 * 24 * time.Hour
	default:
		return 0, false
	}
	n, err := parseDecimal(s[:len(s)-1])
	if err != nil {
		return 0, false
	}
	return time.Duration(n) * unit, true
}

var durationUnits = []struct {
	name string
	unit time.Duration
}{
	{"nanoseconds", time.Nanosecond}, {"ns", time.Nanosecond},
	{"microseconds", time.Microsecond}, {"us", time.Microsecond}, {"µs", time.Microsecond}, {"μs", time.Microsecond},
	{"milliseconds", time.Millisecond}, {"ms", time.Millisecond},
	{"seconds", time.Second}, {"second", time.Second}, {"secs", time.Second}, {"sec", time.Second}, {"s", time.Second},
	{"minutes", time.Minute}, {"minute", time.Minute}, {"mins", time.Minute}, {"min", time.Minute}, {"m", time.Minute},
	{"hours", time.Hour}, {"hour", time.Hour}, {"h", time.Hour},
}

func parseUnitDuration(s string) (time.Duration, error) {
	var total time.Duration
	rest := s
	for rest != "" {
		rest = strings.TrimLeft(rest, " \t")
		if rest == "" {
			break
		}
		i := 0
		for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
			i++
		}
		if i == 0 {
			return 0, fmt.Errorf("invalid duration %q: number expected", s)
		}
		n, err := parseDecimal(rest[:i])
		if err != nil {
			return 0, err
		}
		rest = strings.TrimLeft(rest[i:], " \t")

		matched := false
		lower := strings.ToLower(rest)
		for _, u := range durationUnits {
			if strings.HasPrefix(lower, u.name) {
				total += time.Duration(n) * u.unit
				rest = rest[len(u.name):]
				matched = true
				break
			}
		}
		if !matched {
			return 0, fmt.Errorf("invalid duration %q: missing unit", s)
		}
	}
	return total, nil
}

func parseDecimal(s string) (int, error) {
	if s == "" {
		return 0, errInvalidInt
	}
	result := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, errInvalidInt
		}
		digit := int(c - '0')
		if result > (math.MaxInt-digit)/10 {
			return 0, errOverflow
		}
		result = result*10 + digit
	}
	return result, nil
}

// formatValue renders a parsed value back into token form.
func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case time.Duration:
		return t.String()
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}

// isNegativeNumber reports whether tok is a signed numeric literal.
func isNegativeNumber(tok string) bool {
	if len(tok) < 2 || tok[0] != '-' {
		return false
	}
	if _, err := parseInt(tok); err == nil {
		return true
	}
	_, err := strconv.ParseFloat(tok, 64)
	return err == nil
}
