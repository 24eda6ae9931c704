package schema

import (
	"errors"
	"strings"
)

// Construction errors. New reports them wrapped with the offending label or
// key so callers can branch with errors.Is.
var (
	// ErrEmptyLabel reports a field specification without a usable label.
	ErrEmptyLabel = errors.New("schema: field label is required")
	// ErrDuplicateLabel reports two specifications sharing a label.
	ErrDuplicateLabel = errors.New("schema: duplicate field label")
	// ErrUnknownType reports a type outside the supported set.
	ErrUnknownType = errors.New("schema: unknown field type")
	// ErrUndeclaredLabel reports a condition referencing a label that no
	// earlier field declares.
	ErrUndeclaredLabel = errors.New("schema: condition references undeclared label")
	// ErrUnknownKey reports a specification key outside the recognized set.
	ErrUnknownKey = errors.New("schema: unrecognized field key")
	// ErrInvalidValue reports a recognized key holding a value of the wrong
	// type.
	ErrInvalidValue = errors.New("schema: invalid value for field key")
	// ErrBadChoices reports an empty or duplicated choices list.
	ErrBadChoices = errors.New("schema: invalid choices")
	// ErrBadPattern reports a matches expression that does not compile.
	ErrBadPattern = errors.New("schema: invalid pattern")
)

// Lookup errors.
var (
	// ErrUnknownLabel reports a label the schema does not declare.
	ErrUnknownLabel = errors.New("schema: label not in schema")
	// ErrNotResolved reports a Record lookup for a label that holds no
	// value: its condition was false, it was absent, or it failed
	// validation.
	ErrNotResolved = errors.New("schema: label not resolved")
	// ErrWrongType reports a typed Record lookup against a value of a
	// different kind.
	ErrWrongType = errors.New("schema: value has a different type")
	// ErrUnsupportedValue reports a raw input value outside the scalar
	// variant accepted by ValueOf.
	ErrUnsupportedValue = errors.New("schema: unsupported raw value")
)

// Code classifies a validation failure.
type Code string

const (
	// CodeRequired marks a missing value for a required, applicable field.
	CodeRequired Code = "required"
	// CodeBadTimestamp marks a value that could not be coerced into a
	// timestamp.
	CodeBadTimestamp Code = "bad_timestamp"
	// CodeChoice marks a value outside the configured choices.
	CodeChoice Code = "choice"
	// CodePattern marks a value that does not match the configured pattern.
	CodePattern Code = "pattern"
	// CodeUnknownLabels marks the strict-mode aggregate for input keys the
	// schema does not declare.
	CodeUnknownLabels Code = "unknown_labels"
	// CodeFailedConditions marks the strict-mode aggregate for input keys
	// whose field conditions evaluated false.
	CodeFailedConditions Code = "failed_conditions"
)

// FieldError is a single validation failure. Label is empty for the
// strict-mode aggregates, which stand alone rather than pointing at one
// field.
type FieldError struct {
	Label   string
	Code    Code
	Message string
}

// Error renders "<label>: <message>", or the bare message for aggregates.
func (e *FieldError) Error() string {
	if e.Label == "" {
		return e.Message
	}
	return e.Label + ": " + e.Message
}

// Errors is the ordered list of failures collected by one parse: per-field
// errors in schema order followed by the strict-mode aggregates.
type Errors []*FieldError

// Error joins the individual messages with single spaces.
func (es Errors) Error() string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = e.Error()
	}
	return strings.Join(parts, " ")
}

// Messages returns every rendered failure in order.
func (es Errors) Messages() []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.Error()
	}
	return out
}

// ByLabel returns the failures recorded for one label.
func (es Errors) ByLabel(label string) Errors {
	var out Errors
	for _, e := range es {
		if e.Label == label {
			out = append(out, e)
		}
	}
	return out
}
