package clap

import (
	"errors"
	"strings"
)

// ErrorType is the flat taxonomy of parse failures. The values double as
// keys for message templates (Texts.Messages) and exit-code overrides.
type ErrorType string

const (
	ErrorTypeUnknownArg             ErrorType = "unknown_arg"
	ErrorTypeWrongNumberOfArgs      ErrorType = "wrong_number_of_args"
	ErrorTypeCannotParseArg         ErrorType = "cannot_parse_arg"
	ErrorTypeNoSuchChoice           ErrorType = "no_such_choice"
	ErrorTypeExtraPositional        ErrorType = "extra_positional"
	ErrorTypeMissingPositional      ErrorType = "missing_positional"
	ErrorTypeTooManyExclusive       ErrorType = "too_many_mutually_exclusive"
	ErrorTypeValidation             ErrorType = "validation_error"
	ErrorTypeCouldNotOpenFile       ErrorType = "could_not_open_file"
	ErrorTypeMalformedPersistedData ErrorType = "malformed_persisted_data"
	ErrorTypeMissingRequired        ErrorType = "missing_required"
	ErrorTypeActionFailed           ErrorType = "action_failed"
)

// ErrorTypes lists every ErrorType in declaration order.
var ErrorTypes = []ErrorType{
	ErrorTypeUnknownArg,
	ErrorTypeWrongNumberOfArgs,
	ErrorTypeCannotParseArg,
	ErrorTypeNoSuchChoice,
	ErrorTypeExtraPositional,
	ErrorTypeMissingPositional,
	ErrorTypeTooManyExclusive,
	ErrorTypeValidation,
	ErrorTypeCouldNotOpenFile,
	ErrorTypeMalformedPersistedData,
	ErrorTypeMissingRequired,
	ErrorTypeActionFailed,
}

// Sentinels matched by errors.Is on short-circuit outcomes.
var (
	ErrHelpShown    = errors.New("help shown")
	ErrVersionShown = errors.New("version shown")
)

// ParseError is the structured diagnostic produced by the driver. Message is
// the rendered template; the remaining fields are for programmatic use.
type ParseError struct {
	Type       ErrorType
	Message    string
	Subject    string   // substituted into the template
	Token      string   // offending raw token, if any
	Position   int      // cursor index of Token, -1 when not tied to input
	Names      []string // conflicting members for too_many_mutually_exclusive
	Detail     string
	Suggestion string
	Command    string // command path where the error occurred
	Cause      error
}

func (e *ParseError) Error() string {
	return e.Message
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// newParseError builds an error whose message is rendered later, once the
// active Texts are known.
func newParseError(typ ErrorType, subject string) *ParseError {
	return &ParseError{Type: typ, Subject: subject, Position: -1}
}

func (e *ParseError) at(token string, pos int) *ParseError {
	e.Token = token
	e.Position = pos
	return e
}

func (e *ParseError) withDetail(detail string) *ParseError {
	e.Detail = detail
	return e
}

func (e *ParseError) withCause(err error) *ParseError {
	e.Cause = err
	if e.Detail == "" && err != nil {
		e.Detail = err.Error()
	}
	return e
}

// render fills Message from the template for e.Type.
func (e *ParseError) render(s *Texts) {
	msg := s.message(e.Type, e.Subject)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	e.Message = msg
}

// AsParseError unwraps err into a *ParseError.
func AsParseError(err error) (*ParseError, bool) {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

func joinNames(names []string) string {
	return strings.Join(names, ", ")
}
