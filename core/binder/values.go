package binder

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode"
)

func bind(v any, tagName string, values map[string][]string, bindErr error) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: target must be a non-nil pointer to struct", bindErr)
	}
	rv = rv.Elem()
	rt := rv.Type()

	for i := range rv.NumField() {
		field := rv.Field(i)
		sf := rt.Field(i)
		if !field.CanSet() {
			continue
		}

		name, trim, skip := parseTag(sf, tagName)
		if skip {
			continue
		}
		raw, ok := values[name]
		if !ok || len(raw) == 0 {
			continue
		}

		value := clean(raw[0])
		if trim {
			value = strings.TrimSpace(value)
		}
		if err := set(field, value); err != nil {
			return fmt.Errorf("%w: field %s: %v", bindErr, sf.Name, err)
		}
	}
	return nil
}

func parseTag(sf reflect.StructField, tagName string) (name string, trim, skip bool) {
	tag := sf.Tag.Get(tagName)
	if tag == "-" {
		return "", false, true
	}
	name, opts, _ := strings.Cut(tag, ",")
	if name == "" {
		name = strings.ToLower(sf.Name)
	}
	for opt := range strings.SplitSeq(opts, ",") {
		if opt == "trim" {
			trim = true
		}
	}
	return name, trim, false
}

func set(field reflect.Value, value string) error {
	if field.Kind() == reflect.Pointer {
		if field.IsNil() {
			field.Set(reflect.New(field.Type().Elem()))
		}
		return set(field.Elem(), value)
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(strings.TrimSpace(value), 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid int value %q", value)
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(strings.TrimSpace(value), 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid uint value %q", value)
		}
		field.SetUint(n)
	case reflect.Bool:
		field.SetBool(parseBool(value))
	default:
		return fmt.Errorf("unsupported type %s", field.Kind())
	}
	return nil
}

// parseBool treats checkbox values ("on", "1", "true", "yes") as true and
// anything else as false.
func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on", "1", "true", "yes":
		return true
	}
	return false
}

// clean drops NUL bytes, line breaks and other control characters.
func clean(value string) string {
	return strings.Map(func(r rune) rune {
		if r == '\t' || !unicode.IsControl(r) {
			return r
		}
		return -1
	}, value)
}
