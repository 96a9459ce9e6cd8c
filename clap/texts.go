package clap

import (
	"fmt"
	"strings"
)

// Placeholder is the substitution marker every message template carries once.
const Placeholder = "{}"

// Texts holds every piece of user-facing text the library prints.
type Texts struct {
	UsagePrefix       string
	PositionalsHeader string
	OptionsHeader     string
	CommandsHeader    string
	ErrorLabel        string
	SuggestionPrefix  string

	HelpDescription         string
	VersionDescription      string
	ResponseFileDescription string

	// Messages maps each ErrorType to a template with exactly one "{}".
	Messages map[ErrorType]string
}

// DefaultTexts returns the built-in English text.
func DefaultTexts() Texts {
	return Texts{
		UsagePrefix:             "usage: ",
		PositionalsHeader:       "positional arguments:",
		OptionsHeader:           "options:",
		CommandsHeader:          "commands:",
		ErrorLabel:              "error:",
		SuggestionPrefix:        "did you mean",
		HelpDescription:         "show this help message and exit",
		VersionDescription:      "show program's version number and exit",
		ResponseFileDescription: "read additional arguments from file",
		Messages: map[ErrorType]string{
			ErrorTypeUnknownArg:             "unrecognized argument: {}",
			ErrorTypeWrongNumberOfArgs:      "wrong number of arguments for {}",
			ErrorTypeCannotParseArg:         "cannot parse argument '{}'",
			ErrorTypeNoSuchChoice:           "invalid choice for {}",
			ErrorTypeExtraPositional:        "unexpected positional argument: {}",
			ErrorTypeMissingPositional:      "missing required positional argument: {}",
			ErrorTypeTooManyExclusive:       "mutually exclusive arguments given together: {}",
			ErrorTypeValidation:             "invalid value for {}",
			ErrorTypeCouldNotOpenFile:       "could not open response file {}",
			ErrorTypeMalformedPersistedData: "malformed persisted data at {}",
			ErrorTypeMissingRequired:        "missing required option: {}",
			ErrorTypeActionFailed:           "command {} failed",
		},
	}
}

var defaultTexts = DefaultTexts()

// Validate checks that every template contains exactly one placeholder.
func (s Texts) Validate() error {
	for typ, tmpl := range s.Messages {
		if n := strings.Count(tmpl, Placeholder); n != 1 {
			return fmt.Errorf("template for %s has %d placeholders, want 1", typ, n)
		}
	}
	return nil
}

// merge overlays the non-empty fields of o onto s.
func (s Texts) merge(o Texts) Texts {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&s.UsagePrefix, o.UsagePrefix)
	set(&s.PositionalsHeader, o.PositionalsHeader)
	set(&s.OptionsHeader, o.OptionsHeader)
	set(&s.CommandsHeader, o.CommandsHeader)
	set(&s.ErrorLabel, o.ErrorLabel)
	set(&s.SuggestionPrefix, o.SuggestionPrefix)
	set(&s.HelpDescription, o.HelpDescription)
	set(&s.VersionDescription, o.VersionDescription)
	set(&s.ResponseFileDescription, o.ResponseFileDescription)

	msgs := make(map[ErrorType]string, len(s.Messages))
	for k, v := range s.Messages {
		msgs[k] = v
	}
	for k, v := range o.Messages {
		msgs[k] = v
	}
	s.Messages = msgs
	return s
}

func (s *Texts) message(typ ErrorType, subject string) string {
	tmpl, ok := s.Messages[typ]
	if !ok {
		tmpl = string(typ) + ": " + Placeholder
	}
	return strings.Replace(tmpl, Placeholder, subject, 1)
}
