package clap

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/dzonerzy/go-clap/internal/fuzzy"
	"github.com/dzonerzy/go-clap/internal/pool"
)

// ParseState is the driver's position in its state machine.
type ParseState int

const (
	StateScanning ParseState = iota
	StateDispatching
	StateDoneSuccess
	StateDoneError
)

func (s ParseState) String() string {
	switch s {
	case StateScanning:
		return "scanning"
	case StateDispatching:
		return "dispatching"
	case StateDoneSuccess:
		return "done-success"
	default:
		return "done-error"
	}
}

// runStatus tells the caller of run how scanning ended.
type runStatus int

const (
	runDone runStatus = iota
	runHelp
	runVersion
)

// parser is the per-call parse context. Instances are pooled; nothing in
// them outlives a call except the Result tree handed to the caller.
type parser struct {
	app    *App
	log    *zap.Logger
	cur    *Cursor
	stored Stored

	state         ParseState
	noMoreOptions bool
	expansions    int
	exclusive     map[*scope][]int
	deferred      []deferredError
	chain         []*Result
	at            *scope // scope of the last dispatch, for diagnostics
}

var parserPool = pool.NewPoolWithReset(
	func() *parser {
		return &parser{exclusive: make(map[*scope][]int, 2)}
	},
	func(p *parser) {
		p.app = nil
		p.log = nil
		p.cur = nil
		p.stored = nil
		p.state = StateScanning
		p.noMoreOptions = false
		p.expansions = 0
		for k := range p.exclusive {
			delete(p.exclusive, k)
		}
		p.deferred = p.deferred[:0]
		p.chain = p.chain[:0]
		p.at = nil
	},
)

// deferredError is a validator failure held back until scanning ends.
type deferredError struct {
	err   *ParseError
	scope *scope
}

// parse runs one complete parse of tokens against root.
func (p *parser) parse(root *scope, tokens []string) (*Result, runStatus, *ParseError) {
	p.cur = NewCursor(tokens)
	res := newResult(root, nil)
	p.chain = append(p.chain, res)

	status, err := p.run(root, res)
	if err == nil && status == runDone {
		err = p.finish()
	}
	if err != nil {
		p.state = StateDoneError
		err.Command = p.at.path
		p.log.Debug("parse failed",
			zap.Stringer("state", p.state),
			zap.String("error_type", string(err.Type)),
			zap.String("subject", err.Subject),
			zap.Int("position", err.Position),
		)
		return res, status, err
	}
	p.state = StateDoneSuccess
	p.log.Debug("parse finished", zap.Stringer("state", p.state), zap.String("command", res.Leaf().Path()))
	return res, status, nil
}

// run scans tokens against one scope until the cursor is exhausted, a
// short-circuit fires, or an error occurs. Entering a subcommand hands the
// rest of the input to a nested run.
func (p *parser) run(sc *scope, res *Result) (runStatus, *ParseError) {
	p.at = sc
	marks := make([]int, len(sc.exclusives))
	for i := range marks {
		marks[i] = -1
	}
	p.exclusive[sc] = marks

	for {
		p.state = StateScanning
		tok, ok := p.cur.Peek()
		if !ok {
			return runDone, nil
		}

		p.state = StateDispatching
		start := p.cur.Pos()

		if !p.noMoreOptions && p.app.dashDash && tok == "--" {
			p.cur.Advance()
			p.noMoreOptions = true
			res.args = append(res.args, tok)
			continue
		}

		status, e, err := p.dispatch(sc, res, tok)
		if err != nil {
			return runDone, err
		}

		switch status {
		case matchHelp:
			p.log.Debug("help requested", zap.String("scope", sc.path))
			return runHelp, nil
		case matchVersion:
			p.log.Debug("version requested", zap.String("scope", sc.path))
			return runVersion, nil
		case matchSplice:
			if err := p.splice(tok, start); err != nil {
				return runDone, err
			}
			continue
		case noMatch:
			return runDone, p.unmatched(sc, tok, start)
		}

		if e.cmd != nil {
			p.cur.Advance()
			sub := newResult(e.sub, res)
			res.command = e.cmd.Name
			res.sub = sub
			p.chain = append(p.chain, sub)
			p.log.Debug("entering command", zap.String("command", e.cmd.Name), zap.Int("position", start))
			return p.run(e.sub, sub)
		}

		res.args = append(res.args, p.cur.tokens[start:p.cur.Pos()]...)
		p.log.Debug("matched",
			zap.String("token", tok),
			zap.String("option", e.opt.DisplayName()),
			zap.Int("position", start),
			zap.Int("consumed", p.cur.Pos()-start),
		)
	}
}

// dispatch tries every entry of sc in declaration order. Ties between
// overlapping names go to the entry declared first.
func (p *parser) dispatch(sc *scope, res *Result, tok string) (matchStatus, *entry, *ParseError) {
	for _, e := range sc.entries {
		if e.cmd != nil {
			if !p.noMoreOptions && e.cmd.matches(tok) {
				return matched, e, nil
			}
			continue
		}
		status, err := p.match(sc, res, e, tok)
		if err != nil {
			return noMatch, e, err
		}
		if status != noMatch {
			return status, e, nil
		}
	}
	return noMatch, nil, nil
}

// splice replaces a response-file marker token with the file's tokens.
func (p *parser) splice(tok string, pos int) *ParseError {
	path := tok[len(p.app.responseMarker):]
	p.expansions++
	if p.expansions > maxResponseFiles {
		return newParseError(ErrorTypeCouldNotOpenFile, path).
			at(tok, pos).
			withDetail(fmt.Sprintf("more than %d response files", maxResponseFiles))
	}
	tokens, err := p.readResponseFile(path)
	if err != nil {
		return newParseError(ErrorTypeCouldNotOpenFile, path).at(tok, pos).withCause(err)
	}
	p.cur.Splice(tokens)
	p.log.Debug("response file spliced", zap.String("file", path), zap.Int("tokens", len(tokens)))
	return nil
}

// unmatched classifies a token no entry accepted.
func (p *parser) unmatched(sc *scope, tok string, pos int) *ParseError {
	if !p.looksLikeOption(sc, tok) && len(sc.positionals) > 0 {
		return newParseError(ErrorTypeExtraPositional, tok).at(tok, pos)
	}
	err := newParseError(ErrorTypeUnknownArg, tok).at(tok, pos)
	needle := tok
	if i := strings.IndexByte(needle, '='); i > 0 {
		needle = needle[:i]
	}
	err.Suggestion = fuzzy.NewMatcher(2).WithNormalize(sc.prefixes.trim).FindBest(needle, sc.candidateNames())
	return err
}

// finish layers stored values and defaults under the command-line values,
// then reports deferred validation errors and missing required values.
func (p *parser) finish() *ParseError {
	stored := p.stored
	for i, res := range p.chain {
		if i > 0 {
			stored = stored.child(p.chain[i-1].command)
		}
		if err := p.applyStored(res, stored); err != nil {
			return err
		}
		applyDefaults(res)
	}

	if len(p.deferred) > 0 {
		p.at = p.deferred[0].scope
		return p.deferred[0].err
	}

	for _, res := range p.chain {
		sc := res.scope
		for i, o := range sc.options {
			if res.slots[i].set || !o.required() {
				continue
			}
			p.at = sc
			if o.isPositional() {
				return newParseError(ErrorTypeMissingPositional, o.DisplayName())
			}
			return newParseError(ErrorTypeMissingRequired, o.DisplayName())
		}
	}
	p.at = p.chain[len(p.chain)-1].scope
	return nil
}

func applyDefaults(res *Result) {
	for i, o := range res.scope.options {
		s := &res.slots[i]
		if s.set || !o.HasDefault {
			continue
		}
		*s = slot{value: defaultValue(o), set: true, source: SourceDefault}
	}
}
