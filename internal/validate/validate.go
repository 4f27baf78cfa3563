// Package validate accumulates schema errors for the site declarations so that
// every problem can be reported in one pass.
package validate

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/language"
)

// Error represents a single validation failure.
type Error struct {
	Field   string      // dotted path of the offending field
	Value   interface{} // the invalid value
	Message string
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validator accumulates validation errors.
type Validator struct {
	errors []Error
}

// ValidationError bundles multiple validation errors into a single error value.
type ValidationError struct {
	errors []Error
}

// New creates a new validator
func New() *Validator {
	return &Validator{
		errors: make([]Error, 0),
	}
}

// AddError adds a validation error
func (v *Validator) AddError(field, message string, value interface{}) {
	v.errors = append(v.errors, Error{
		Field:   field,
		Value:   value,
		Message: message,
	})
}

// IsValid returns true if no errors have been accumulated
func (v *Validator) IsValid() bool {
	return len(v.errors) == 0
}

// Errors returns all accumulated validation errors
func (v *Validator) Errors() []Error {
	return v.errors
}

// Err converts the accumulated validation errors into an error value.
func (v *Validator) Err() error {
	if len(v.errors) == 0 {
		return nil
	}

	copied := make([]Error, len(v.errors))
	copy(copied, v.errors)

	return ValidationError{errors: copied}
}

// Errors returns the individual validation errors making up the failure.
func (e ValidationError) Errors() []Error {
	return e.errors
}

func (e ValidationError) Error() string {
	if len(e.errors) == 0 {
		return ""
	}
	if len(e.errors) == 1 {
		return e.errors[0].Error()
	}

	msgs := make([]string, len(e.errors))
	for i, err := range e.errors {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Required fails when value is empty or whitespace.
func (v *Validator) Required(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.AddError(field, "must not be empty", value)
	}
}

// URL validates an absolute URL with one of the allowed schemes.
func (v *Validator) URL(field, value string, allowedSchemes []string) {
	if value == "" {
		v.AddError(field, "URL cannot be empty", value)
		return
	}

	u, err := url.Parse(value)
	if err != nil {
		v.AddError(field, fmt.Sprintf("invalid URL: %v", err), value)
		return
	}

	if u.Host == "" {
		v.AddError(field, "URL must have a host", value)
		return
	}

	if len(allowedSchemes) > 0 && !contains(allowedSchemes, u.Scheme) {
		v.AddError(field, fmt.Sprintf("URL scheme must be one of %v, got %q", allowedSchemes, u.Scheme), value)
	}
}

// OneOf fails when value is not one of allowed.
func (v *Validator) OneOf(field, value string, allowed []string) {
	if !contains(allowed, value) {
		v.AddError(field, fmt.Sprintf("must be one of %v, got %q", allowed, value), value)
	}
}

// Locale validates a BCP 47 language tag.
func (v *Validator) Locale(field, value string) {
	if value == "" {
		v.AddError(field, "locale cannot be empty", value)
		return
	}
	if _, err := language.Parse(value); err != nil {
		v.AddError(field, fmt.Sprintf("invalid locale tag: %v", err), value)
	}
}

// PathPrefix validates that value is an absolute URL path ending in a slash.
func (v *Validator) PathPrefix(field, value string) {
	if !strings.HasPrefix(value, "/") || !strings.HasSuffix(value, "/") {
		v.AddError(field, "must start and end with '/'", value)
	}
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
