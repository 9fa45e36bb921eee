package validator

import (
	"reflect"
	"strconv"
	"strings"
	"sync"
)

// ValidatorFunc builds the Rule for one tag on one field.
type ValidatorFunc func(field string, value reflect.Value, params []string) Rule

var (
	registryMu sync.RWMutex
	registry   = map[string]ValidatorFunc{
		"required":        requiredValidator,
		"min":             minValidator,
		"max":             maxValidator,
		"regex":           regexValidator,
		"in":              inValidator,
		"iranian_phone":   stringValidator(IranianPhone),
		"otp":             stringValidator(OTP),
		"persian":         stringValidator(PersianText),
		"strong_password": stringValidator(StrongPassword),
		"accepted":        acceptedValidator,
	}
)

// RegisterValidator adds a custom validator function to the registry.
func RegisterValidator(name string, fn ValidatorFunc) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = fn
}

// ValidateStruct validates a struct based on its field tags.
func ValidateStruct(v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return ErrNotStruct
	}

	var errs ValidationErrors
	validateStructRecursive(rv.Elem(), "", &errs)

	if errs.IsEmpty() {
		return nil
	}
	return errs
}

func validateStructRecursive(rv reflect.Value, prefix string, errs *ValidationErrors) {
	rt := rv.Type()

	for i := 0; i < rv.NumField(); i++ {
		field := rv.Field(i)
		if !field.CanSet() {
			continue
		}

		structField := rt.Field(i)
		tag := structField.Tag.Get("validate")
		if tag == "-" {
			continue
		}

		fieldPath := fieldName(structField)
		if prefix != "" {
			fieldPath = prefix + "." + fieldPath
		}

		if field.Kind() == reflect.Struct && tag == "" {
			validateStructRecursive(field, fieldPath, errs)
			continue
		}

		if field.Kind() == reflect.Pointer {
			if field.IsNil() {
				if tag != "" {
					validateField(fieldPath, field, tag, errs)
				}
				continue
			}
			field = field.Elem()
			if field.Kind() == reflect.Struct && tag == "" {
				validateStructRecursive(field, fieldPath, errs)
				continue
			}
		}

		if tag == "" {
			continue
		}
		validateField(fieldPath, field, tag, errs)
	}
}

// fieldName prefers the form tag so errors line up with input names.
func fieldName(sf reflect.StructField) string {
	if name, _, _ := strings.Cut(sf.Tag.Get("form"), ","); name != "" && name != "-" {
		return name
	}
	return sf.Name
}

func validateField(fieldPath string, field reflect.Value, tag string, errs *ValidationErrors) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for _, ruleStr := range strings.Split(tag, ";") {
		ruleStr = strings.TrimSpace(ruleStr)
		if ruleStr == "" {
			continue
		}

		name, paramStr, _ := strings.Cut(ruleStr, ":")
		var params []string
		if paramStr = strings.TrimSpace(paramStr); paramStr != "" {
			params = strings.Split(paramStr, ",")
			for i := range params {
				params[i] = strings.TrimSpace(params[i])
			}
		}

		if fn, ok := registry[strings.TrimSpace(name)]; ok {
			rule := fn(fieldPath, field, params)
			if rule.Check != nil && !rule.Check() {
				errs.Add(rule.Error)
			}
		}
	}
}

func pass() Rule {
	return Rule{Check: func() bool { return true }}
}

func requiredValidator(field string, value reflect.Value, _ []string) Rule {
	if value.Kind() == reflect.String {
		return Required(field, value.String())
	}
	return Rule{
		Check: func() bool {
			switch value.Kind() {
			case reflect.Slice, reflect.Map, reflect.Array:
				return value.Len() > 0
			case reflect.Pointer, reflect.Interface:
				return !value.IsNil()
			default:
				return value.IsValid() && !value.IsZero()
			}
		},
		Error: fail(field, "field is required", KeyRequired, nil),
	}
}

func minValidator(field string, value reflect.Value, params []string) Rule {
	if len(params) < 1 || value.Kind() != reflect.String {
		return pass()
	}
	n, err := strconv.Atoi(params[0])
	if err != nil {
		return pass()
	}
	return MinLenString(field, value.String(), n)
}

func maxValidator(field string, value reflect.Value, params []string) Rule {
	if len(params) < 1 || value.Kind() != reflect.String {
		return pass()
	}
	n, err := strconv.Atoi(params[0])
	if err != nil {
		return pass()
	}
	return MaxLenString(field, value.String(), n)
}

func regexValidator(field string, value reflect.Value, params []string) Rule {
	if value.Kind() != reflect.String || len(params) < 1 {
		return pass()
	}
	description := "pattern"
	if len(params) > 1 {
		description = params[1]
	}
	return MatchesRegex(field, value.String(), params[0], description)
}

func inValidator(field string, value reflect.Value, params []string) Rule {
	if value.Kind() != reflect.String {
		return pass()
	}
	return In(field, value.String(), params...)
}

func acceptedValidator(field string, value reflect.Value, _ []string) Rule {
	if value.Kind() != reflect.Bool {
		return pass()
	}
	return Accepted(field, value.Bool())
}

func stringValidator(fn func(field, value string) Rule) ValidatorFunc {
	return func(field string, value reflect.Value, _ []string) Rule {
		if value.Kind() != reflect.String {
			return pass()
		}
		return fn(field, value.String())
	}
}
