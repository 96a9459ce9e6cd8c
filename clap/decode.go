package clap

import (
	"fmt"
	"reflect"
	"strings"
)

// parseTag splits a struct tag such as `clap:"build,command"` into the name
// and its options.
func parseTag(tag string) (name string, options map[string]bool) {
	options = make(map[string]bool)
	if tag == "" {
		return "", options
	}
	parts := strings.Split(tag, ",")
	name = strings.TrimSpace(parts[0])
	for _, opt := range parts[1:] {
		if opt = strings.TrimSpace(opt); opt != "" {
			options[opt] = true
		}
	}
	return name, options
}

// Decode copies values into the struct pointed to by target. Fields are
// matched by their `clap:"name"` tag against any alias or storage name in
// this scope; fields without a tag, or tagged "-", are left untouched.
// A struct field tagged `clap:"name,command"` receives the results of that
// subcommand when it was matched.
func (r *Result) Decode(target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("clap: Decode target must be a pointer to struct, got %T", target)
	}
	return r.decodeStruct(rv.Elem())
}

func (r *Result) decodeStruct(sv reflect.Value) error {
	st := sv.Type()
	for i := 0; i < st.NumField(); i++ {
		field := st.Field(i)
		fv := sv.Field(i)
		if !field.IsExported() || !fv.CanSet() {
			continue
		}
		name, opts := parseTag(field.Tag.Get("clap"))
		if name == "" || name == "-" {
			continue
		}

		if opts["command"] {
			if r.sub == nil || !r.sub.scope.cmd.matches(name) {
				continue
			}
			target := fv
			if fv.Kind() == reflect.Pointer {
				if fv.IsNil() {
					fv.Set(reflect.New(fv.Type().Elem()))
				}
				target = fv.Elem()
			}
			if target.Kind() != reflect.Struct {
				return fmt.Errorf("clap: field %s tagged as command must be a struct", field.Name)
			}
			if err := r.sub.decodeStruct(target); err != nil {
				return err
			}
			continue
		}

		if _, known := r.scope.lookup(name); !known {
			return fmt.Errorf("clap: field %s: no option named %q in %s", field.Name, name, r.scope.path)
		}
		v, ok := r.Lookup(name)
		if !ok || v == nil {
			continue
		}
		if err := setFieldValue(fv, v); err != nil {
			return fmt.Errorf("clap: field %s: %w", field.Name, err)
		}
	}
	return nil
}

// setFieldValue assigns v to fv, converting between compatible types and
// element-wise for sequences.
func setFieldValue(fv reflect.Value, v any) error {
	if items, ok := v.([]any); ok {
		if fv.Kind() != reflect.Slice {
			return fmt.Errorf("cannot store a sequence in %s", fv.Type())
		}
		out := reflect.MakeSlice(fv.Type(), len(items), len(items))
		for i, it := range items {
			if err := setFieldValue(out.Index(i), it); err != nil {
				return err
			}
		}
		fv.Set(out)
		return nil
	}

	vv := reflect.ValueOf(v)
	switch {
	case vv.Type().AssignableTo(fv.Type()):
		fv.Set(vv)
	case vv.Type().ConvertibleTo(fv.Type()) && (vv.Kind() == reflect.String) == (fv.Kind() == reflect.String):
		fv.Set(vv.Convert(fv.Type()))
	case fv.Kind() == reflect.Pointer && vv.Type().AssignableTo(fv.Type().Elem()):
		p := reflect.New(fv.Type().Elem())
		p.Elem().Set(vv)
		fv.Set(p)
	default:
		return fmt.Errorf("cannot convert %T to %s", v, fv.Type())
	}
	return nil
}
