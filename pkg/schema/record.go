package schema

import (
	"fmt"
	"time"
)

// Record is the immutable outcome of one Parse call: the resolved values,
// the raw input they came from, and the ordered validation failures.
type Record struct {
	values map[string]any
	order  []string
	errs   Errors
	input  Input
}

// Valid reports whether the parse collected no failures.
func (r *Record) Valid() bool {
	return len(r.errs) == 0
}

// Errors returns the ordered failures: per-field errors in schema order,
// strict-mode aggregates last.
func (r *Record) Errors() Errors {
	return append(Errors(nil), r.errs...)
}

// Len reports how many labels resolved to a value.
func (r *Record) Len() int {
	return len(r.values)
}

// Get returns the resolved value for label. A label that never resolved,
// whether inapplicable, absent, or invalid, fails with ErrNotResolved; that
// is a lookup mistake by the caller, not a validation failure.
func (r *Record) Get(label string) (any, error) {
	value, ok := r.values[label]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotResolved, label)
	}
	return value, nil
}

// StringValue returns the resolved text value for label.
func (r *Record) StringValue(label string) (string, error) {
	value, err := r.Get(label)
	if err != nil {
		return "", err
	}
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("%w: %q holds %T", ErrWrongType, label, value)
	}
	return s, nil
}

// TimeValue returns the resolved timestamp for label.
func (r *Record) TimeValue(label string) (time.Time, error) {
	value, err := r.Get(label)
	if err != nil {
		return time.Time{}, err
	}
	ts, ok := value.(time.Time)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %q holds %T", ErrWrongType, label, value)
	}
	return ts, nil
}

// Values returns a copy of the resolved value mapping.
func (r *Record) Values() map[string]any {
	out := make(map[string]any, len(r.values))
	for label, value := range r.values {
		out[label] = value
	}
	return out
}

// Labels returns the labels that resolved, in resolution order.
func (r *Record) Labels() []string {
	return append([]string(nil), r.order...)
}

// Input returns a copy of the raw input the record was parsed from.
func (r *Record) Input() Input {
	out := make(Input, len(r.input))
	for key, value := range r.input {
		out[key] = value
	}
	return out
}
