// Package validation collects request field errors so responses can report
// every invalid field at once.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var emailRegexp = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// FieldError names a single invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator accumulates field errors across a request body.
type Validator struct {
	errs []FieldError
}

func New() *Validator {
	return &Validator{}
}

// Add records an error for a field.
func (v *Validator) Add(field, message string) {
	v.errs = append(v.errs, FieldError{Field: field, Message: message})
}

// Valid reports whether no errors were recorded.
func (v *Validator) Valid() bool {
	return len(v.errs) == 0
}

// Errors returns the recorded errors in the order they were added.
func (v *Validator) Errors() []FieldError {
	return v.errs
}

// Required checks that a trimmed string is not empty.
func (v *Validator) Required(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, fmt.Sprintf("%s is required", field))
	}
}

// Email checks the shape of an email address. Empty values are skipped,
// pair with Required when the field is mandatory.
func (v *Validator) Email(field, value string) {
	if value == "" {
		return
	}
	if !emailRegexp.MatchString(value) {
		v.Add(field, "Please provide a valid email")
	}
}

// MinLen checks a minimum string length in runes.
func (v *Validator) MinLen(field, value string, min int) {
	if value == "" {
		return
	}
	if len([]rune(value)) < min {
		v.Add(field, fmt.Sprintf("%s must be at least %d characters", field, min))
	}
}

// MaxLen checks a maximum string length in runes.
func (v *Validator) MaxLen(field, value string, max int) {
	if len([]rune(value)) > max {
		v.Add(field, fmt.Sprintf("%s cannot exceed %d characters", field, max))
	}
}

// OneOf checks membership in an allowed value list. Empty values are skipped.
func (v *Validator) OneOf(field, value string, allowed []string) {
	if value == "" {
		return
	}
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	v.Add(field, fmt.Sprintf("Invalid %s", field))
}

// IntMin checks a lower bound on an integer.
func (v *Validator) IntMin(field string, value, min int) {
	if value < min {
		v.Add(field, fmt.Sprintf("%s must be at least %d", field, min))
	}
}

// IntRange checks an inclusive integer range.
func (v *Validator) IntRange(field string, value, min, max int) {
	if value < min || value > max {
		v.Add(field, fmt.Sprintf("%s must be between %d and %d", field, min, max))
	}
}

// FloatMin checks a lower bound on a float.
func (v *Validator) FloatMin(field string, value, min float64) {
	if value < min {
		v.Add(field, fmt.Sprintf("%s must be at least %g", field, min))
	}
}

// PositiveID checks that a referenced entity id is positive.
func (v *Validator) PositiveID(field string, value int) {
	if value <= 0 {
		v.Add(field, fmt.Sprintf("Valid %s is required", field))
	}
}
