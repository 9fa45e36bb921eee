package sanitizer

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
	"sync"
)

// ErrNotStructPointer is returned when SanitizeStruct gets anything but a
// pointer to a struct.
var ErrNotStructPointer = errors.New("sanitizer: must pass a pointer to struct")

var (
	registryMu sync.RWMutex
	registry   = map[string]func(string) string{
		"trim":        Trim,
		"single_line": SingleLine,
		"no_spaces":   RemoveExtraWhitespace,
		"strip_html":  StripHTML,
		"no_control":  RemoveControlChars,
		"digits":      KeepDigits,
		"phone":       NormalizePhone,
		"text": func(s string) string {
			return RemoveExtraWhitespace(RemoveControlChars(s))
		},
	}
)

// Register adds or replaces a named sanitizer.
func Register(name string, fn func(string) string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = fn
}

// SanitizeStruct applies the "sanitize" tags of v, which must be a pointer
// to a struct. Nested structs are walked; string pointers and string slices
// are sanitized in place.
func SanitizeStruct(v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return ErrNotStructPointer
	}
	sanitizeStruct(rv.Elem())
	return nil
}

func sanitizeStruct(rv reflect.Value) {
	rt := rv.Type()
	for i := range rv.NumField() {
		field := rv.Field(i)
		if !field.CanSet() {
			continue
		}
		tag := rt.Field(i).Tag.Get("sanitize")
		if tag == "-" {
			continue
		}

		switch field.Kind() {
		case reflect.String:
			if tag != "" {
				field.SetString(Apply(field.String(), tag))
			}
		case reflect.Pointer:
			if field.IsNil() {
				continue
			}
			switch elem := field.Elem(); elem.Kind() {
			case reflect.String:
				if tag != "" {
					elem.SetString(Apply(elem.String(), tag))
				}
			case reflect.Struct:
				sanitizeStruct(elem)
			}
		case reflect.Struct:
			sanitizeStruct(field)
		case reflect.Slice:
			if tag != "" && field.Type().Elem().Kind() == reflect.String {
				for j := range field.Len() {
					elem := field.Index(j)
					elem.SetString(Apply(elem.String(), tag))
				}
			}
		}
	}
}

// Apply runs the comma separated sanitizers of tag over value.
// "max:N" cuts the value to N characters.
func Apply(value, tag string) string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for name := range strings.SplitSeq(tag, ",") {
		name = strings.TrimSpace(name)
		if n, ok := strings.CutPrefix(name, "max:"); ok {
			if maxLen, err := strconv.Atoi(n); err == nil {
				value = MaxLength(value, maxLen)
			}
			continue
		}
		if fn, ok := registry[name]; ok {
			value = fn(value)
		}
	}
	return value
}
