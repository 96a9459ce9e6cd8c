package clap

import (
	"fmt"
	"strings"
)

type matchStatus int

const (
	noMatch matchStatus = iota
	matched
	matchHelp
	matchVersion
	matchSplice
)

// token is a consumed value together with its cursor index.
type token struct {
	text string
	pos  int
}

// looksLikeOption reports whether tok would be read as an option name rather
// than a value. Negative numbers are values unless declared as names.
func (p *parser) looksLikeOption(sc *scope, tok string) bool {
	if p.noMoreOptions {
		return false
	}
	pre := sc.prefixes
	if !pre.has(tok) || len(tok) <= len(pre.Short) {
		return false
	}
	if _, declared := sc.byName[tok]; declared {
		return true
	}
	return !isNegativeNumber(tok)
}

// match tries one entry against the current token. The cursor only moves
// when the entry matches.
func (p *parser) match(sc *scope, res *Result, e *entry, tok string) (matchStatus, *ParseError) {
	o := e.opt
	if p.noMoreOptions && !o.isPositional() {
		return noMatch, nil
	}

	switch o.Kind {
	case KindResponseFile:
		marker := o.Names[0]
		if marker == "" || len(tok) <= len(marker) || !strings.HasPrefix(tok, marker) {
			return noMatch, nil
		}
		return matchSplice, nil

	case KindHelp, KindVersion:
		if !hasName(o, tok) {
			return noMatch, nil
		}
		p.cur.Advance()
		if o.Kind == KindHelp {
			return matchHelp, nil
		}
		return matchVersion, nil

	case KindFlag:
		if !hasName(o, tok) {
			return noMatch, nil
		}
		pos := p.cur.Pos()
		if err := p.markExclusive(sc, e, tok, pos); err != nil {
			return noMatch, err
		}
		p.cur.Advance()
		res.slots[e.slot].store(o, !o.Inverted, SourceArgs)
		return matched, nil

	case KindCounted:
		n := countOccurrences(o, tok, sc.prefixes)
		if n == 0 {
			return noMatch, nil
		}
		pos := p.cur.Pos()
		if err := p.markExclusive(sc, e, tok, pos); err != nil {
			return noMatch, err
		}
		p.cur.Advance()
		s := &res.slots[e.slot]
		s.count += n
		s.store(o, s.count, SourceArgs)
		return matched, nil

	case KindValued:
		attached, ok := valuedMatch(o, tok, sc.prefixes)
		if !ok {
			return noMatch, nil
		}
		pos := p.cur.Pos()
		if err := p.markExclusive(sc, e, tok, pos); err != nil {
			return noMatch, err
		}
		p.cur.Advance()
		var first []token
		if attached != nil {
			first = append(first, token{text: *attached, pos: pos})
		}
		vals, err := p.takeValues(sc, o, first, 0)
		if err != nil {
			return noMatch, err.at(tok, pos)
		}
		return matched, p.storeValues(res, e, vals)

	case KindPositional:
		s := &res.slots[e.slot]
		if s.set || p.looksLikeOption(sc, tok) {
			return noMatch, nil
		}
		vals, err := p.takeValues(sc, o, nil, p.reservedAfter(sc, res, e))
		if err != nil {
			return noMatch, err.at(tok, p.cur.Pos())
		}
		if len(vals) == 0 {
			return noMatch, nil
		}
		return matched, p.storeValues(res, e, vals)
	}
	return noMatch, nil
}

func hasName(o *Option, tok string) bool {
	for _, n := range o.Names {
		if n == tok {
			return true
		}
	}
	return false
}

// countOccurrences returns 1 for an exact name and k for a cluster of k
// copies of a one-letter short name, such as -vvv.
func countOccurrences(o *Option, tok string, pre Prefixes) int {
	if hasName(o, tok) {
		return 1
	}
	if !strings.HasPrefix(tok, pre.Short) || pre.isLong(tok) {
		return 0
	}
	body := []rune(tok[len(pre.Short):])
	if len(body) < 2 {
		return 0
	}
	for _, n := range o.Names {
		r, ok := pre.shortRune(n)
		if !ok {
			continue
		}
		all := true
		for _, c := range body {
			if c != r {
				all = false
				break
			}
		}
		if all {
			return len(body)
		}
	}
	return 0
}

// valuedMatch matches an exact name, or "--name=value" for long names.
func valuedMatch(o *Option, tok string, pre Prefixes) (*string, bool) {
	for _, n := range o.Names {
		if n == tok {
			return nil, true
		}
	}
	for _, n := range o.Names {
		if pre.isLong(n) && strings.HasPrefix(tok, n+"=") {
			v := tok[len(n)+1:]
			return &v, true
		}
	}
	return nil, false
}

// valueRun counts the tokens ahead of the cursor that read as values.
func (p *parser) valueRun(sc *scope) int {
	n := 0
	for {
		tok, ok := p.cur.PeekAt(n)
		if !ok || p.looksLikeOption(sc, tok) {
			return n
		}
		n++
	}
}

// reservedAfter is the number of tokens later positionals need at minimum.
func (p *parser) reservedAfter(sc *scope, res *Result, e *entry) int {
	total := 0
	after := false
	for _, i := range sc.positionals {
		if i == e.slot {
			after = true
			continue
		}
		if after && !res.slots[i].set {
			total += sc.options[i].Arity.Min()
		}
	}
	return total
}

// takeValues consumes the value tokens for o, starting with any value that
// was attached to the option name.
func (p *parser) takeValues(sc *scope, o *Option, vals []token, reserve int) ([]token, *ParseError) {
	if o.Arity.Policy == ArityRemainder {
		for !p.cur.Done() {
			pos := p.cur.Pos()
			t, _ := p.cur.Advance()
			vals = append(vals, token{text: t, pos: pos})
		}
		return vals, nil
	}

	min, max := o.Arity.Min(), o.Arity.Max()
	run := p.valueRun(sc)
	take := run
	if max >= 0 && take > max-len(vals) {
		take = max - len(vals)
	}
	if reserve > 0 {
		spare := run - reserve
		if need := min - len(vals); spare < need {
			spare = need
		}
		if take > spare {
			take = spare
		}
	}
	for i := 0; i < take; i++ {
		pos := p.cur.Pos()
		t, _ := p.cur.Advance()
		vals = append(vals, token{text: t, pos: pos})
	}

	if len(vals) < min {
		return nil, newParseError(ErrorTypeWrongNumberOfArgs, o.DisplayName()).
			withDetail(fmt.Sprintf("expected %s, got %d", describeArity(o.Arity), len(vals)))
	}
	return vals, nil
}

func describeArity(a Arity) string {
	switch a.Policy {
	case ArityExact:
		if a.N == 1 {
			return "1 value"
		}
		return fmt.Sprintf("%d values", a.N)
	case ArityOneOrMore:
		return "at least 1 value"
	case ArityZeroOrOne:
		return "at most 1 value"
	default:
		return "any number of values"
	}
}

// storeValues converts, checks and stores the values of one match. Parse and
// choice failures abort; validator failures are deferred.
func (p *parser) storeValues(res *Result, e *entry, vals []token) *ParseError {
	o := e.opt
	s := &res.slots[e.slot]
	if len(vals) == 0 {
		if o.Value == ValueSequence || o.Value == ValueSet {
			items, _ := s.value.([]any)
			if items == nil {
				items = []any{}
			}
			*s = slot{value: items, set: true, source: SourceArgs}
		} else {
			*s = slot{set: true, source: SourceArgs}
		}
		return nil
	}

	for _, t := range vals {
		v, err := o.Parser.Parse(t.text)
		if err != nil {
			return newParseError(ErrorTypeCannotParseArg, t.text).
				at(t.text, t.pos).
				withDetail(fmt.Sprintf("%s: %v", o.DisplayName(), err)).
				withCause(err)
		}
		if !o.inChoices(v) {
			return newParseError(ErrorTypeNoSuchChoice, o.DisplayName()).
				at(t.text, t.pos).
				withDetail(fmt.Sprintf("%s (choose from %s)", t.text, o.choiceList()))
		}
		s.store(o, v, SourceArgs)
		if o.Validator != nil {
			if err := o.Validator(v); err != nil {
				verr := newParseError(ErrorTypeValidation, o.DisplayName()).at(t.text, t.pos).withCause(err)
				p.deferred = append(p.deferred, deferredError{err: verr, scope: p.at})
			}
		}
	}
	return nil
}

// markExclusive records e as matched in each exclusive group it belongs to,
// failing if another member of the same group matched earlier.
func (p *parser) markExclusive(sc *scope, e *entry, tok string, pos int) *ParseError {
	if len(e.excl) == 0 {
		return nil
	}
	marks := p.exclusive[sc]
	for _, ref := range e.excl {
		prev := marks[ref.group]
		if prev >= 0 && prev != ref.member {
			g := sc.exclusives[ref.group]
			names := []string{g.members[prev], g.members[ref.member]}
			err := newParseError(ErrorTypeTooManyExclusive, joinNames(names)).at(tok, pos)
			err.Names = names
			return err
		}
	}
	for _, ref := range e.excl {
		marks[ref.group] = ref.member
	}
	return nil
}
