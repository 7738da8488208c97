// Package validate provides struct-tag validation for request inputs.
//
// Supported rules (comma-separated in the `validate` tag):
//
//	required     field must not be zero/blank
//	nullable     if blank, skip the remaining rules for this field
//	numeric      any decimal number (strings are parsed)
//	integer      whole number (strings are parsed)
//	min=N        string: min rune length | number: min value
//	max=N        string: max rune length | number: max value
//	gte=N        number >= N
//	lte=N        number <= N
//	in=a|b|c     value must be one of the listed items
//
// Field names in the error map come from the `form` tag, then `json`, then
// the lower-cased Go name.
//
//	type productInput struct {
//	    Name  string `form:"name"  validate:"required,max=255"`
//	    Price string `form:"price" validate:"required,numeric,gte=0"`
//	}
package validate

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Struct validates every exported field of v that carries a `validate` tag.
// Returns fieldName → message; an empty map means v is valid.
func Struct(v interface{}) map[string]string {
	errs := make(map[string]string)
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return errs
	}
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		tag := field.Tag.Get("validate")
		if tag == "" || !field.IsExported() {
			continue
		}

		name := fieldName(field)
		value := rv.Field(i)
		rules := strings.Split(tag, ",")

		if isEmpty(value) && contains(rules, "nullable") {
			continue
		}

		for _, rule := range rules {
			if msg := apply(strings.TrimSpace(rule), name, value); msg != "" {
				errs[name] = msg
				break
			}
		}
	}

	return errs
}

// HasErrors reports whether errs is non-empty.
func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

func apply(rule, field string, v reflect.Value) string {
	key, param, _ := strings.Cut(rule, "=")
	raw := strings.TrimSpace(fmt.Sprintf("%v", v.Interface()))

	switch key {
	case "required":
		if isEmpty(v) {
			return fmt.Sprintf("The %s field is required.", field)
		}
	case "numeric":
		if _, ok := number(v); !ok {
			return fmt.Sprintf("The %s field must be a number.", field)
		}
	case "integer":
		if isNumericKind(v) {
			if k := v.Kind(); k == reflect.Float32 || k == reflect.Float64 {
				if v.Float() != float64(int64(v.Float())) {
					return fmt.Sprintf("The %s field must be an integer.", field)
				}
			}
		} else if _, err := strconv.ParseInt(raw, 10, 64); err != nil {
			return fmt.Sprintf("The %s field must be an integer.", field)
		}
	case "min", "max":
		limit, _ := strconv.ParseFloat(param, 64)
		n, isNum := number(v)
		if !isNumericKind(v) {
			n, isNum = float64(len([]rune(raw))), false
		}
		switch {
		case key == "min" && n < limit && isNum:
			return fmt.Sprintf("The %s must be at least %s.", field, param)
		case key == "min" && n < limit:
			return fmt.Sprintf("The %s must be at least %s characters.", field, param)
		case key == "max" && n > limit && isNum:
			return fmt.Sprintf("The %s must not be greater than %s.", field, param)
		case key == "max" && n > limit:
			return fmt.Sprintf("The %s must not exceed %s characters.", field, param)
		}
	case "gte":
		limit, _ := strconv.ParseFloat(param, 64)
		if n, ok := number(v); ok && n < limit {
			return fmt.Sprintf("The %s must be greater than or equal to %s.", field, param)
		}
	case "lte":
		limit, _ := strconv.ParseFloat(param, 64)
		if n, ok := number(v); ok && n > limit {
			return fmt.Sprintf("The %s must be less than or equal to %s.", field, param)
		}
	case "in":
		for _, allowed := range strings.Split(param, "|") {
			if raw == strings.TrimSpace(allowed) {
				return ""
			}
		}
		return fmt.Sprintf("The selected %s is invalid.", field)
	}

	return ""
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func contains(rules []string, want string) bool {
	for _, r := range rules {
		if strings.TrimSpace(r) == want {
			return true
		}
	}
	return false
}

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	}
	return false
}

func isNumericKind(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// number returns v as a float64; strings are parsed.
func number(v reflect.Value) (float64, bool) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	case reflect.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.String()), 64)
		return f, err == nil
	}
	return 0, false
}

func fieldName(f reflect.StructField) string {
	for _, key := range []string{"form", "json"} {
		name, _, _ := strings.Cut(f.Tag.Get(key), ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return strings.ToLower(f.Name)
}
