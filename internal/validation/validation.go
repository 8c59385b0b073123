// Package validation collects field-level input checks as a violations map,
// so a failed operation can name every offending field at once.
package validation

import (
	"regexp"
	"strings"
	"time"
)

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// First returns one violating field and its message, for error reporting
// that names a single field. Iteration order is not stable; callers that
// need determinism should range over the map themselves.
func (v Violations) First() (field, msg string) {
	for f, m := range v {
		return f, m
	}
	return "", ""
}

// Basic validators

func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func Email(field, value string, v Violations) {
	if value != "" && !emailRegex.MatchString(value) {
		v[field] = "invalid_email"
	}
}

func PositiveFloat(field string, val float64, v Violations) {
	if val <= 0 {
		v[field] = "must_be_positive"
	}
}

func NonNegativeFloat(field string, val float64, v Violations) {
	if val < 0 {
		v[field] = "must_not_be_negative"
	}
}

func NonNegativeInt(field string, val int, v Violations) {
	if val < 0 {
		v[field] = "must_not_be_negative"
	}
}

func MaxFloat(field string, val, maxVal float64, v Violations) {
	if val > maxVal {
		v[field] = "exceeds_maximum"
	}
}

// DateOrder checks that end does not precede start.
func DateOrder(field string, start, end time.Time, v Violations) {
	if end.Before(start) {
		v[field] = "end_before_start"
	}
}
