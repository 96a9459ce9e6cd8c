package clap

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Stored is a persisted set of option values keyed by canonical storage
// name. Values are strings, []string for sequences, or a nested Stored for
// the options of a subcommand, keyed by the command's name.
type Stored map[string]any

func (s Stored) child(name string) Stored {
	if s == nil || name == "" {
		return nil
	}
	c, _ := s[name].(Stored)
	return c
}

func malformed(path string, format string, args ...any) *ParseError {
	err := newParseError(ErrorTypeMalformedPersistedData, path).withDetail(fmt.Sprintf(format, args...))
	err.render(&defaultTexts)
	return err
}

// Capture builds the Stored tree for r, including values that came from
// the command line or from stored data but not defaults.
func Capture(r *Result) Stored {
	out := Stored{}
	for i, o := range r.scope.options {
		s := r.slots[i]
		if !s.set || s.source == SourceDefault {
			continue
		}
		key := o.StorageName(r.scope.prefixes)
		switch o.Value {
		case ValueSequence, ValueSet:
			items, _ := s.value.([]any)
			strs := make([]string, len(items))
			for j, it := range items {
				strs[j] = formatValue(it)
			}
			out[key] = strs
		default:
			out[key] = formatValue(s.value)
		}
	}
	if r.sub != nil {
		out[r.command] = Capture(r.sub)
	}
	return out
}

// applyStored fills unset slots of res from stored.
func (p *parser) applyStored(res *Result, stored Stored) *ParseError {
	if stored == nil {
		return nil
	}
	sc := res.scope
	for i, o := range sc.options {
		s := &res.slots[i]
		if s.set {
			continue
		}
		key := o.StorageName(sc.prefixes)
		raw, ok := stored[key]
		if !ok {
			continue
		}
		path := strings.TrimPrefix(sc.path[len(sc.program()):]+" "+key, " ")
		if err := storeFromData(o, s, raw, path); err != nil {
			p.at = sc
			return err
		}
	}
	return nil
}

func storeFromData(o *Option, s *slot, raw any, path string) *ParseError {
	var strs []string
	switch v := raw.(type) {
	case string:
		strs = []string{v}
	case []string:
		strs = v
	default:
		return malformed(path, "unexpected %T", raw)
	}

	convert := func(text string) (any, error) {
		switch o.Kind {
		case KindFlag:
			return parseBool(text)
		case KindCounted:
			return parseInt(text)
		}
		return o.Parser.Parse(text)
	}

	multi := o.Value == ValueSequence || o.Value == ValueSet
	if !multi && len(strs) != 1 {
		return malformed(path, "expected a single value, got %d", len(strs))
	}
	if o.Value == ValueOptional && strs[0] == "" {
		*s = slot{set: true, source: SourceStored}
		return nil
	}
	if multi {
		*s = slot{value: []any{}, set: true, source: SourceStored}
	}
	for _, text := range strs {
		v, err := convert(text)
		if err != nil {
			return malformed(path, "%q: %v", text, err)
		}
		if !o.inChoices(v) {
			return malformed(path, "%q is not one of %s", text, o.choiceList())
		}
		s.store(o, v, SourceStored)
		if o.Kind == KindCounted {
			s.count, _ = v.(int)
		}
	}
	return nil
}

// SaveJSON writes the values of r as a JSON object restricted to strings,
// arrays of strings and nested objects.
func SaveJSON(w io.Writer, r *Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Capture(r))
}

// LoadJSON reads a document written by SaveJSON. Numbers, booleans and null
// are rejected with malformed_persisted_data.
func LoadJSON(rd io.Reader) (Stored, error) {
	dec := json.NewDecoder(rd)
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return nil, malformed("$", "%v", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, malformed("$", "expected an object")
	}
	s, perr := decodeJSONObject(dec, "$")
	if perr != nil {
		return nil, perr
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, malformed("$", "trailing data")
	}
	return s, nil
}

// decodeJSONObject reads members after an opening brace.
func decodeJSONObject(dec *json.Decoder, path string) (Stored, *ParseError) {
	out := Stored{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, malformed(path, "%v", err)
		}
		key, _ := tok.(string)
		at := path + "." + key

		tok, err = dec.Token()
		if err != nil {
			return nil, malformed(at, "%v", err)
		}
		switch v := tok.(type) {
		case string:
			out[key] = v
		case json.Delim:
			switch v {
			case '{':
				sub, perr := decodeJSONObject(dec, at)
				if perr != nil {
					return nil, perr
				}
				out[key] = sub
			case '[':
				items, perr := decodeJSONStrings(dec, at)
				if perr != nil {
					return nil, perr
				}
				out[key] = items
			default:
				return nil, malformed(at, "unexpected %q", v.String())
			}
		default:
			return nil, malformed(at, "only strings, arrays and objects are allowed, got %s", jsonKind(tok))
		}
	}
	if _, err := dec.Token(); err != nil {
		return nil, malformed(path, "%v", err)
	}
	return out, nil
}

func decodeJSONStrings(dec *json.Decoder, path string) ([]string, *ParseError) {
	items := []string{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, malformed(path, "%v", err)
		}
		s, ok := tok.(string)
		if !ok {
			return nil, malformed(fmt.Sprintf("%s[%d]", path, len(items)), "arrays may only hold strings, got %s", jsonKind(tok))
		}
		items = append(items, s)
	}
	if _, err := dec.Token(); err != nil {
		return nil, malformed(path, "%v", err)
	}
	return items, nil
}

func jsonKind(tok json.Token) string {
	switch tok.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case json.Number, float64:
		return "number"
	case json.Delim:
		return "nested container"
	}
	return fmt.Sprintf("%T", tok)
}

// TokensFromJSON reads a JSON array of strings as a token sequence.
func TokensFromJSON(rd io.Reader) ([]string, error) {
	dec := json.NewDecoder(rd)
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return nil, malformed("$", "%v", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, malformed("$", "expected an array of strings")
	}
	items, perr := decodeJSONStrings(dec, "$")
	if perr != nil {
		return nil, perr
	}
	return items, nil
}

// SaveYAML writes the values of r as a YAML mapping.
func SaveYAML(w io.Writer, r *Result) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(toYAMLNode(Capture(r))); err != nil {
		return err
	}
	return enc.Close()
}

// toYAMLNode builds a node tree with quoted scalars and sorted keys so
// values such as "5" or "true" read back as strings.
func toYAMLNode(s Stored) *yaml.Node {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range keys {
		n.Content = append(n.Content, yamlString(k))
		switch v := s[k].(type) {
		case string:
			n.Content = append(n.Content, yamlString(v))
		case []string:
			seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
			for _, it := range v {
				seq.Content = append(seq.Content, yamlString(it))
			}
			n.Content = append(n.Content, seq)
		case Stored:
			n.Content = append(n.Content, toYAMLNode(v))
		}
	}
	return n
}

func yamlString(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v, Style: yaml.DoubleQuotedStyle}
}

// LoadYAML reads a YAML mapping with the same shape as LoadJSON. Plain
// scalars are taken as strings; null values, aliases and nested sequences
// are rejected.
func LoadYAML(rd io.Reader) (Stored, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(rd).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return Stored{}, nil
		}
		return nil, malformed("$", "%v", err)
	}
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) == 1 {
		root = root.Content[0]
	}
	s, perr := decodeYAMLMapping(root, "$")
	if perr != nil {
		return nil, perr
	}
	return s, nil
}

func decodeYAMLMapping(n *yaml.Node, path string) (Stored, *ParseError) {
	if n.Kind != yaml.MappingNode {
		return nil, malformed(path, "expected a mapping")
	}
	out := Stored{}
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.Kind != yaml.ScalarNode {
			return nil, malformed(path, "mapping keys must be scalars")
		}
		at := path + "." + k.Value
		switch v.Kind {
		case yaml.ScalarNode:
			if v.Tag == "!!null" {
				return nil, malformed(at, "null is not allowed")
			}
			out[k.Value] = v.Value
		case yaml.SequenceNode:
			items := make([]string, 0, len(v.Content))
			for j, it := range v.Content {
				if it.Kind != yaml.ScalarNode || it.Tag == "!!null" {
					return nil, malformed(fmt.Sprintf("%s[%d]", at, j), "sequences may only hold strings")
				}
				items = append(items, it.Value)
			}
			out[k.Value] = items
		case yaml.MappingNode:
			sub, perr := decodeYAMLMapping(v, at)
			if perr != nil {
				return nil, perr
			}
			out[k.Value] = sub
		default:
			return nil, malformed(at, "unsupported node")
		}
	}
	return out, nil
}
