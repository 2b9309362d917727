// Package validate provides composable field validators run at the
// handler boundary before any store call.
package validate

import (
	"fmt"
	"net/mail"
	"strings"
)

// FieldError describes a single failed rule on a named field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Result collects field errors from a validation pass.
type Result struct {
	Errors []FieldError `json:"errors,omitempty"`
}

// OK reports whether the validation pass found no errors.
func (r *Result) OK() bool {
	return len(r.Errors) == 0
}

func (r *Result) add(field, message string) {
	r.Errors = append(r.Errors, FieldError{Field: field, Message: message})
}

// Rule checks one field value and records failures on the result.
type Rule func(r *Result)

// Check runs all rules and returns the combined result.
func Check(rules ...Rule) *Result {
	r := &Result{}
	for _, rule := range rules {
		rule(r)
	}
	return r
}

// Username requires 5-15 alphanumeric characters.
func Username(field, value string) Rule {
	return func(r *Result) {
		if len(value) < 5 || len(value) > 15 {
			r.add(field, "must be 5-15 characters")
			return
		}
		for _, c := range value {
			if !isAlphanumeric(c) {
				r.add(field, "must contain only letters and digits")
				return
			}
		}
	}
}

// Email requires an RFC 5322 parseable address.
func Email(field, value string) Rule {
	return func(r *Result) {
		if value == "" {
			r.add(field, "is required")
			return
		}
		if _, err := mail.ParseAddress(value); err != nil {
			r.add(field, "must be a valid email address")
		}
	}
}

// Password requires a minimum length.
func Password(field, value string) Rule {
	return func(r *Result) {
		if len(value) < 8 {
			r.add(field, "must be at least 8 characters")
		}
	}
}

// Required rejects empty or whitespace-only values.
func Required(field, value string) Rule {
	return func(r *Result) {
		if strings.TrimSpace(value) == "" {
			r.add(field, "is required")
		}
	}
}

// Positive requires a strictly positive quantity.
func Positive(field string, value float64) Rule {
	return func(r *Result) {
		if !(value > 0) { // rejects NaN as well
			r.add(field, "must be greater than zero")
		}
	}
}

func isAlphanumeric(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
