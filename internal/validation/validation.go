package validation

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Violations maps a field name to a human readable problem.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Add records a violation, keeping the first one reported per field.
func (v Violations) Add(field, message string) {
	if _, exists := v[field]; !exists {
		v[field] = message
	}
}

// Err returns nil when there are no violations, otherwise an *Error that
// unwraps to kind.
func (v Violations) Err(kind error) error {
	if v.Empty() {
		return nil
	}
	return &Error{Kind: kind, Violations: v}
}

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, "is required")
	}
}

func MaxLen(field, value string, limit int, v Violations) {
	if utf8.RuneCountInString(strings.TrimSpace(value)) > limit {
		v.Add(field, "is too long")
	}
}

func RangeInt(field string, val, minVal, maxVal int, v Violations) {
	if val < minVal || val > maxVal {
		v.Add(field, "is out of range")
	}
}

func PositiveFloat(field string, val float64, v Violations) {
	if val <= 0 {
		v.Add(field, "must be positive")
	}
}

// Error is a validation failure carrying per-field violations.
type Error struct {
	Kind       error
	Violations Violations
}

func (e *Error) Error() string {
	fields := make([]string, 0, len(e.Violations))
	for field := range e.Violations {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+" "+e.Violations[field])
	}
	prefix := "invalid input"
	if e.Kind != nil {
		prefix = e.Kind.Error()
	}
	return prefix + ": " + strings.Join(parts, "; ")
}

func (e *Error) Unwrap() error { return e.Kind }
