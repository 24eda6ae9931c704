package schema

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/goliatone/go-intake/internal/labels"
	"github.com/goliatone/go-intake/pkg/condition"
)

// Type identifies the coercion target of a field.
type Type string

const (
	// TypeText resolves values to plain text.
	TypeText Type = "text"
	// TypeTimestamp resolves values to calendar timestamps.
	TypeTimestamp Type = "timestamp"
)

// Field describes one schema entry. Fields are created by New and read-only
// afterwards.
type Field struct {
	// Label is the unique identifier, used as the output key and as the
	// name conditions of later fields may reference.
	Label string
	// Name is the display name, humanized from Label when the
	// specification leaves it out.
	Name string
	// Type selects the coercion target. Defaults to TypeText.
	Type Type
	// Required reports whether a value must be present when the field is
	// applicable. Defaults to true.
	Required bool
	// Default fills in for an absent or blank input value.
	Default string
	// Choices restricts the coerced text value to a closed set.
	Choices []string
	// Matches holds the source of the pattern constraint applied to text
	// fields.
	Matches string
	// Condition decides applicability against earlier resolved values.
	// A nil condition means always applicable.
	Condition *condition.Condition
	// Multiline and Help are hints for interactive front ends, never
	// interpreted here.
	Multiline bool
	Help      string

	pattern *regexp.Regexp
}

// Applicable reports whether the field participates given the values
// resolved so far.
func (f Field) Applicable(values map[string]any) bool {
	return f.Condition.Eval(values)
}

func (f Field) clone() Field {
	if f.Choices != nil {
		choices := make([]string, len(f.Choices))
		copy(choices, f.Choices)
		f.Choices = choices
	}
	return f
}

// Schema is an ordered, immutable sequence of fields. Construct one with New
// and share it freely; Parse never mutates it.
type Schema struct {
	fields []Field
	index  map[string]int
}

// New builds a Schema from an ordered sequence of field specifications,
// validating each entry and the cross-field invariants before any parsing
// can happen. Specifications recognize exactly the keys label, name, type,
// required, default, choices, matches, condition, multiline, and help;
// anything else fails with ErrUnknownKey.
func New(specs []map[string]any) (*Schema, error) {
	s := &Schema{
		fields: make([]Field, 0, len(specs)),
		index:  make(map[string]int, len(specs)),
	}
	for i, spec := range specs {
		field, err := buildField(spec, s.index)
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", i, err)
		}
		s.index[field.Label] = len(s.fields)
		s.fields = append(s.fields, field)
	}
	return s, nil
}

// MustNew is New for schemas declared in source; it panics on a construction
// error.
func MustNew(specs []map[string]any) *Schema {
	s, err := New(specs)
	if err != nil {
		panic(err)
	}
	return s
}

// Len reports the number of fields.
func (s *Schema) Len() int {
	return len(s.fields)
}

// Labels returns the field labels in declaration order.
func (s *Schema) Labels() []string {
	out := make([]string, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.Label
	}
	return out
}

// Fields returns copies of the fields in declaration order.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.clone()
	}
	return out
}

// Field returns a copy of the field declared under label.
func (s *Schema) Field(label string) (Field, bool) {
	i, ok := s.index[label]
	if !ok {
		return Field{}, false
	}
	return s.fields[i].clone(), true
}

var fieldKeys = map[string]struct{}{
	"label":     {},
	"name":      {},
	"type":      {},
	"required":  {},
	"default":   {},
	"choices":   {},
	"matches":   {},
	"condition": {},
	"multiline": {},
	"help":      {},
}

func buildField(spec map[string]any, declared map[string]int) (Field, error) {
	f := Field{Type: TypeText, Required: true}

	label, ok, err := specString(spec, "label")
	if err != nil {
		return Field{}, err
	}
	if !ok || strings.TrimSpace(label) == "" {
		return Field{}, ErrEmptyLabel
	}
	if _, dup := declared[label]; dup {
		return Field{}, fmt.Errorf("%w: %q", ErrDuplicateLabel, label)
	}
	f.Label = label

	typ, ok, err := specString(spec, "type")
	if err != nil {
		return Field{}, err
	}
	if ok {
		switch Type(typ) {
		case TypeText, TypeTimestamp:
			f.Type = Type(typ)
		default:
			return Field{}, fmt.Errorf("%w: %q", ErrUnknownType, typ)
		}
	}

	if raw, ok := spec["condition"]; ok {
		cond, err := condition.Compile(raw)
		if err != nil {
			return Field{}, err
		}
		for _, ref := range cond.Labels() {
			if _, ok := declared[ref]; !ok {
				return Field{}, fmt.Errorf("%w: %q", ErrUndeclaredLabel, ref)
			}
		}
		f.Condition = cond
	}

	choices, ok, err := specStrings(spec, "choices")
	if err != nil {
		return Field{}, err
	}
	if ok {
		if len(choices) == 0 {
			return Field{}, fmt.Errorf("%w: empty list", ErrBadChoices)
		}
		seen := make(map[string]struct{}, len(choices))
		for _, choice := range choices {
			if _, dup := seen[choice]; dup {
				return Field{}, fmt.Errorf("%w: duplicate %q", ErrBadChoices, choice)
			}
			seen[choice] = struct{}{}
		}
		f.Choices = choices
	}

	matches, ok, err := specString(spec, "matches")
	if err != nil {
		return Field{}, err
	}
	if ok && matches != "" {
		pattern, err := regexp.Compile(matches)
		if err != nil {
			return Field{}, fmt.Errorf("%w: %v", ErrBadPattern, err)
		}
		f.Matches = matches
		f.pattern = pattern
	}

	name, ok, err := specString(spec, "name")
	if err != nil {
		return Field{}, err
	}
	if ok && strings.TrimSpace(name) != "" {
		f.Name = name
	} else {
		f.Name = labels.Humanize(label)
	}

	required, ok, err := specBool(spec, "required")
	if err != nil {
		return Field{}, err
	}
	if ok {
		f.Required = required
	}

	def, _, err := specString(spec, "default")
	if err != nil {
		return Field{}, err
	}
	f.Default = def

	multiline, _, err := specBool(spec, "multiline")
	if err != nil {
		return Field{}, err
	}
	f.Multiline = multiline

	help, _, err := specString(spec, "help")
	if err != nil {
		return Field{}, err
	}
	f.Help = help

	var unknown []string
	for key := range spec {
		if _, ok := fieldKeys[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return Field{}, fmt.Errorf("%w: %s", ErrUnknownKey, strings.Join(unknown, ", "))
	}

	return f, nil
}

func specString(spec map[string]any, key string) (string, bool, error) {
	raw, ok := spec[key]
	if !ok {
		return "", false, nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", false, fmt.Errorf("%w: %q wants a string, got %T", ErrInvalidValue, key, raw)
	}
	return s, true, nil
}

func specBool(spec map[string]any, key string) (bool, bool, error) {
	raw, ok := spec[key]
	if !ok {
		return false, false, nil
	}
	b, ok := raw.(bool)
	if !ok {
		return false, false, fmt.Errorf("%w: %q wants a bool, got %T", ErrInvalidValue, key, raw)
	}
	return b, true, nil
}

func specStrings(spec map[string]any, key string) ([]string, bool, error) {
	raw, ok := spec[key]
	if !ok {
		return nil, false, nil
	}
	switch list := raw.(type) {
	case []string:
		out := make([]string, len(list))
		copy(out, list)
		return out, true, nil
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, false, fmt.Errorf("%w: %q wants strings, got %T", ErrInvalidValue, key, item)
			}
			out = append(out, s)
		}
		return out, true, nil
	default:
		return nil, false, fmt.Errorf("%w: %q wants a list of strings, got %T", ErrInvalidValue, key, raw)
	}
}
