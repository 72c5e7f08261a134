// Package validate provides struct-tag validation for form input.
//
// Supported rules (comma-separated in the `validate` tag):
//
//	required            field must not be zero/empty (whitespace counts as empty)
//	nullable            if empty, skip all remaining rules for this field
//	email               valid email address
//	url                 valid URL (http/https)
//	numeric             any number
//	integer             whole number
//	min=N               string: min char length | number: min value
//	max=N               string: max char length | number: max value
//	between=min,max     number or string length between min and max (inclusive)
//	in=a,b,c            value must be one of the listed items
//	regex=pattern       value must match the regex (avoid commas in pattern)
//	confirmed           value must equal a sibling field named <field>_confirmation
//
// Field names come from the `form` tag, then `json`, then the lower-cased
// Go name. Example:
//
//	type ContactForm struct {
//	    Name  string `form:"name"  validate:"required,max=200"`
//	    Email string `form:"email" validate:"required,email"`
//	    Site  string `form:"site"  validate:"nullable,url"`
//	}
package validate

import (
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// ─── Public API ───────────────────────────────────────────────────────────────

// FieldError describes the first rule a field failed. Views translate it
// with Rule as the message key and Param as the template argument.
type FieldError struct {
	Field string
	Rule  string
	Param string
}

func (e FieldError) Error() string {
	switch e.Rule {
	case "required":
		return fmt.Sprintf("The %s field is required.", e.Field)
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", e.Field)
	case "url":
		return fmt.Sprintf("The %s must be a valid URL.", e.Field)
	case "numeric":
		return fmt.Sprintf("The %s field must be a number.", e.Field)
	case "integer":
		return fmt.Sprintf("The %s field must be an integer.", e.Field)
	case "min":
		return fmt.Sprintf("The %s must be at least %s.", e.Field, e.Param)
	case "max":
		return fmt.Sprintf("The %s must not exceed %s.", e.Field, e.Param)
	case "between":
		return fmt.Sprintf("The %s must be between %s.", e.Field, e.Param)
	case "in":
		return fmt.Sprintf("The selected %s is invalid.", e.Field)
	case "confirmed":
		return fmt.Sprintf("The %s confirmation does not match.", e.Field)
	}
	return fmt.Sprintf("The %s format is invalid.", e.Field)
}

// Errors maps field name → first failure. A nil or empty map means valid.
type Errors map[string]FieldError

func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

func (e Errors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e[k].Error())
	}
	return strings.Join(msgs, " ")
}

// Struct validates all exported fields of v that carry a `validate` tag.
// Returns nil when there are no errors.
func Struct(v interface{}) Errors {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}
	rt := rv.Type()

	var errs Errors
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		value := rv.Field(i)

		tag := field.Tag.Get("validate")
		if tag == "" {
			continue
		}

		name := FieldName(field)
		rules := splitRules(tag)

		// If `nullable` is present and field is empty, skip all rules.
		if hasRule(rules, "nullable") && isEmpty(value) {
			continue
		}

		for _, rule := range rules {
			if rule == "nullable" {
				continue
			}
			if !applyRule(rule, name, value, rv) {
				key, param, _ := strings.Cut(rule, "=")
				if errs == nil {
					errs = Errors{}
				}
				errs[name] = FieldError{Field: name, Rule: key, Param: param}
				break // first failing rule per field
			}
		}
	}

	return errs
}

// FieldName is the external name of a struct field.
func FieldName(f reflect.StructField) string {
	for _, tag := range []string{"form", "json"} {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return strings.ToLower(f.Name)
}

// ─── Core dispatcher ──────────────────────────────────────────────────────────

func applyRule(rule, field string, v reflect.Value, parent reflect.Value) bool {
	raw := stringOf(v)
	key, param, _ := strings.Cut(rule, "=")

	switch key {
	// ── Presence ──────────────────────────────────────────────────────
	case "required":
		return !isEmpty(v)

	// ── Format ────────────────────────────────────────────────────────
	case "email":
		return emailRE.MatchString(raw)
	case "url":
		u, err := url.ParseRequestURI(raw)
		return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
	case "numeric":
		_, err := strconv.ParseFloat(raw, 64)
		return err == nil
	case "integer":
		_, err := strconv.ParseInt(raw, 10, 64)
		return err == nil

	// ── Size / range ──────────────────────────────────────────────────
	case "min":
		return measure(v, raw) >= mustParseFloat(param)
	case "max":
		return measure(v, raw) <= mustParseFloat(param)
	case "between":
		lo, hi, ok := strings.Cut(param, ",")
		if !ok {
			return true
		}
		n := measure(v, raw)
		return n >= mustParseFloat(lo) && n <= mustParseFloat(hi)

	// ── Inclusion ─────────────────────────────────────────────────────
	case "in":
		for _, a := range strings.Split(param, ",") {
			if raw == strings.TrimSpace(a) {
				return true
			}
		}
		return false

	// ── Pattern ───────────────────────────────────────────────────────
	case "regex":
		re, err := regexp.Compile(param)
		return err == nil && re.MatchString(raw)

	// ── Cross-field ───────────────────────────────────────────────────
	case "confirmed":
		other := findSibling(parent, field+"_confirmation")
		return other != nil && stringOf(*other) == raw
	}

	return true
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

var emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func stringOf(v reflect.Value) string {
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}
	return fmt.Sprintf("%v", v.Interface())
}

// measure is the numeric value of a number field or the rune length of anything else.
func measure(v reflect.Value, raw string) float64 {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint())
	case reflect.Float32, reflect.Float64:
		return v.Float()
	}
	return float64(len([]rune(raw)))
}

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil() || isEmpty(v.Elem())
	case reflect.Bool:
		return false // false is a valid boolean value, not empty
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	}
	return false
}

func mustParseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

// splitRules splits the validate tag by comma while keeping multi-value
// rule parameters (in=, between=) intact.
// e.g. "required,in=es,en,max=100" → ["required","in=es,en","max=100"]
func splitRules(tag string) []string {
	var rules []string
	for _, tok := range strings.Split(tag, ",") {
		tok = strings.TrimSpace(tok)
		n := len(rules)
		if n > 0 && !looksLikeRule(tok) && isMultiValue(rules[n-1]) {
			rules[n-1] += "," + tok
			continue
		}
		rules = append(rules, tok)
	}
	return rules
}

func isMultiValue(rule string) bool {
	return strings.HasPrefix(rule, "in=") || strings.HasPrefix(rule, "between=")
}

func looksLikeRule(s string) bool {
	key, _, _ := strings.Cut(s, "=")
	switch key {
	case "required", "nullable", "email", "url", "numeric", "integer",
		"min", "max", "between", "in", "regex", "confirmed":
		return true
	}
	return false
}

func hasRule(rules []string, target string) bool {
	for _, r := range rules {
		if r == target {
			return true
		}
	}
	return false
}

func findSibling(parent reflect.Value, name string) *reflect.Value {
	rt := parent.Type()
	for i := 0; i < rt.NumField(); i++ {
		if FieldName(rt.Field(i)) == name {
			v := parent.Field(i)
			return &v
		}
	}
	return nil
}
