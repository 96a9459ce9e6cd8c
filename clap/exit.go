package clap

import (
	"errors"
	"reflect"

	"github.com/dzonerzy/go-clap/middleware"
)

// ExitError requests a specific exit code from inside an action.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return "exit"
}

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCodeDefaults holds the codes used when no specific mapping matches.
type ExitCodeDefaults struct {
	Success int // help, version and successful runs; default 0
	Failure int // any parse or action failure; default 1
}

// ExitCodeManager maps outcomes to process exit codes.
type ExitCodeManager struct {
	byType   map[ErrorType]int
	byError  map[reflect.Type]int
	defaults ExitCodeDefaults
}

func newExitCodeManager() *ExitCodeManager {
	m := &ExitCodeManager{
		byType:   make(map[ErrorType]int),
		byError:  make(map[reflect.Type]int),
		defaults: ExitCodeDefaults{Success: 0, Failure: 1},
	}
	m.byError[reflect.TypeOf(&middleware.TimeoutError{})] = m.defaults.Failure
	m.byError[reflect.TypeOf(&middleware.RecoveryError{})] = m.defaults.Failure
	return m
}

// DefineCLI overrides the exit code for one parse-error category.
func (m *ExitCodeManager) DefineCLI(typ ErrorType, code int) *ExitCodeManager {
	m.byType[typ] = code
	return m
}

// DefineError maps errors of err's dynamic type, returned by actions, to code.
func (m *ExitCodeManager) DefineError(err error, code int) *ExitCodeManager {
	if err == nil {
		return m
	}
	m.byError[reflect.TypeOf(err)] = code
	return m
}

// Default replaces the fallback codes.
func (m *ExitCodeManager) Default(d ExitCodeDefaults) *ExitCodeManager {
	m.defaults = d
	return m
}

// resolve converts err to an exit code.
// Precedence:
//  1. ExitError requested by an action
//  2. action errors by concrete type (DefineError)
//  3. ParseError category (DefineCLI)
//  4. defaults
func (m *ExitCodeManager) resolve(err error) int {
	if err == nil || errors.Is(err, ErrHelpShown) || errors.Is(err, ErrVersionShown) {
		return m.defaults.Success
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	if pe, ok := AsParseError(err); ok && pe.Cause != nil {
		for t, code := range m.byError {
			if errors.As(pe.Cause, reflect.New(t).Interface()) {
				return code
			}
		}
	}

	if pe, ok := AsParseError(err); ok {
		if code, ok := m.byType[pe.Type]; ok {
			return code
		}
	}
	return m.defaults.Failure
}
