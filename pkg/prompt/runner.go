// Package prompt collects schema input interactively. A Runner walks the
// fields in declaration order, skips the ones whose conditions fail against
// the answers gathered so far, and validates every answer with the schema's
// own single-field engine before moving on, so prompted data always passes
// the same checks as batch input.
package prompt

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/goliatone/go-intake/pkg/schema"
)

// Runner drives one interactive collection session over a schema.
type Runner struct {
	schema   *schema.Schema
	driver   Driver
	theme    Theme
	defaults map[string]string
	out      io.Writer
	pageSize int
}

// New builds a Runner for s with defaults (survey driver, stdout messages).
func New(s *schema.Schema, opts ...Option) (*Runner, error) {
	if s == nil {
		return nil, errors.New("prompt: schema is required")
	}

	r := &Runner{schema: s, out: os.Stdout}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(r)
	}

	if r.driver == nil {
		r.driver = &surveyDriver{out: r.out}
	}
	return r, nil
}

// Run prompts for every applicable field in schema order, then finishes with
// one full parse over the collected answers. Choice fields render as a
// select, multiline fields as a text area, everything else as a plain input
// with the field default pre-filled. Invalid answers are reported through the
// driver and asked again; blank answers are kept out of the raw data so
// optional fields resolve exactly as they would in a batch parse.
func (r *Runner) Run(ctx context.Context) (*schema.Record, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	values := make(map[string]any)
	raw := make(schema.Input)

	for _, field := range r.schema.Fields() {
		if !field.Applicable(values) {
			continue
		}
		answer, value, resolved, err := r.promptField(ctx, field)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(answer) != "" {
			raw[field.Label] = schema.String(answer)
		}
		if resolved {
			values[field.Label] = value
		}
	}

	return r.schema.Parse(raw), nil
}

func (r *Runner) promptField(ctx context.Context, field schema.Field) (string, any, bool, error) {
	message := r.theme.PromptPrefix + field.Name
	help := helpText(field)
	defaultVal := r.defaultFor(field)

	for {
		var answer string
		switch {
		case len(field.Choices) > 0:
			idx, err := r.driver.Select(ctx, SelectConfig{
				Message:      message,
				Options:      field.Choices,
				DefaultIndex: indexOf(field.Choices, defaultVal),
				Help:         help,
				PageSize:     r.pageSize,
			})
			if err != nil {
				return "", nil, false, err
			}
			if idx < 0 || idx >= len(field.Choices) {
				_ = r.driver.Info(ctx, r.theme.ErrorPrefix+"Selection out of range.")
				continue
			}
			answer = field.Choices[idx]
		case field.Multiline:
			var err error
			answer, err = r.driver.TextArea(ctx, TextAreaConfig{
				Message: message,
				Default: defaultVal,
				Help:    help,
			})
			if err != nil {
				return "", nil, false, err
			}
		default:
			var err error
			answer, err = r.driver.Input(ctx, InputConfig{
				Message: message,
				Default: defaultVal,
				Help:    help,
			})
			if err != nil {
				return "", nil, false, err
			}
		}

		value, resolved, err := r.schema.ParseField(field.Label, schema.String(answer))
		if err != nil {
			_ = r.driver.Info(ctx, r.theme.ErrorPrefix+err.Error())
			continue
		}
		return answer, value, resolved, nil
	}
}

func (r *Runner) defaultFor(field schema.Field) string {
	if value, ok := r.defaults[field.Label]; ok {
		return value
	}
	return field.Default
}

// helpText mirrors the field hints in one line: the declared help first,
// then whether the field is optional, then the choice set or the pattern.
func helpText(field schema.Field) string {
	var parts []string
	if field.Help != "" {
		parts = append(parts, field.Help)
	}
	if !field.Required {
		parts = append(parts, "Optional.")
	}
	if len(field.Choices) > 0 {
		parts = append(parts, "Choices: "+strings.Join(field.Choices, ", ")+".")
	} else if field.Matches != "" {
		parts = append(parts, "Matches: "+field.Matches+".")
	}
	return strings.Join(parts, " ")
}
