package schema

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

const (
	msgRequired     = "This field is required."
	msgBadTimestamp = "Invalid date/time."
)

// ParseOption adjusts a single Parse call.
type ParseOption func(*parseConfig)

type parseConfig struct {
	strict bool
}

// Strict makes Parse flag input keys the schema does not declare and keys
// supplied for fields whose conditions evaluated false.
func Strict() ParseOption {
	return func(cfg *parseConfig) {
		cfg.strict = true
	}
}

// Parse resolves raw input against the schema and returns the Record of
// coerced values and validation failures. Fields run in declaration order:
// each one first consults its condition against the values resolved so far,
// then checks presence, coerces by type, and applies its constraints,
// contributing at most one failure. Invalid input is reported through the
// Record, never through a Go error, so Parse always completes.
func (s *Schema) Parse(in Input, opts ...ParseOption) *Record {
	var cfg parseConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	rec := &Record{
		values: make(map[string]any, len(s.fields)),
		input:  make(Input, len(in)),
	}
	for key, value := range in {
		rec.input[key] = value
	}

	inapplicable := make(map[string]struct{})
	for _, f := range s.fields {
		if !f.Applicable(rec.values) {
			inapplicable[f.Label] = struct{}{}
			continue
		}
		value, resolved, ferr := parseField(f, in[f.Label])
		if ferr != nil {
			rec.errs = append(rec.errs, ferr)
			continue
		}
		if resolved {
			rec.values[f.Label] = value
			rec.order = append(rec.order, f.Label)
		}
	}

	if cfg.strict {
		var unknown []string
		for key := range in {
			if _, ok := s.index[key]; !ok {
				unknown = append(unknown, key)
			}
		}
		if len(unknown) > 0 {
			sort.Strings(unknown)
			rec.errs = append(rec.errs, &FieldError{
				Code:    CodeUnknownLabels,
				Message: `Labels "` + strings.Join(unknown, ", ") + `" not present in schema.`,
			})
		}

		var failed []string
		for key := range in {
			if _, ok := inapplicable[key]; ok {
				failed = append(failed, key)
			}
		}
		if len(failed) > 0 {
			sort.Strings(failed)
			rec.errs = append(rec.errs, &FieldError{
				Code:    CodeFailedConditions,
				Message: `Labels "` + strings.Join(failed, ", ") + `" failed conditions in schema.`,
			})
		}
	}

	return rec
}

// ParseField validates and coerces one raw value against the field declared
// under label, running the same presence, coercion, and constraint steps as
// Parse. It returns the coerced value and whether a value resolved; a
// validation failure comes back as a *FieldError. Applicability is not
// checked here, that is the caller's job via Field.Applicable.
func (s *Schema) ParseField(label string, raw Value) (any, bool, error) {
	i, ok := s.index[label]
	if !ok {
		return nil, false, fmt.Errorf("%w: %q", ErrUnknownLabel, label)
	}
	value, resolved, ferr := parseField(s.fields[i], raw)
	if ferr != nil {
		return nil, false, ferr
	}
	return value, resolved, nil
}

// parseField runs steps two through four for one applicable field: presence
// and default fill, coercion by type, then constraints. A missing input key
// arrives as the zero Value, which is blank.
func parseField(f Field, raw Value) (any, bool, *FieldError) {
	if raw.blank() && f.Default != "" {
		raw = String(f.Default)
	}
	if raw.blank() {
		if f.Required {
			return nil, false, &FieldError{Label: f.Label, Code: CodeRequired, Message: msgRequired}
		}
		if f.Type == TypeTimestamp {
			return nil, false, nil
		}
		return "", true, nil
	}

	if f.Type == TypeTimestamp {
		ts, ok := raw.timestamp()
		if !ok {
			return nil, false, &FieldError{Label: f.Label, Code: CodeBadTimestamp, Message: msgBadTimestamp}
		}
		return ts, true, nil
	}

	text := raw.Text()
	if len(f.Choices) > 0 && !slices.Contains(f.Choices, text) {
		return nil, false, &FieldError{
			Label:   f.Label,
			Code:    CodeChoice,
			Message: "Must be one of the choices: " + strings.Join(f.Choices, ", ") + ".",
		}
	}
	if f.pattern != nil && !f.pattern.MatchString(text) {
		return nil, false, &FieldError{
			Label:   f.Label,
			Code:    CodePattern,
			Message: fmt.Sprintf("Must match the pattern \"%s\".", f.Matches),
		}
	}
	return text, true, nil
}
