// Package intake collects structured input against declarative schemas.
//
// The root package re-exports the schema types and wires the subpackages
// into one-call conveniences: Load fetches and builds a schema from a file
// or URL, Prompt walks a schema interactively, and Render writes a parsed
// record through a template. Callers that need finer control use
// pkg/schema, pkg/loader, pkg/prompt, pkg/openapi, and pkg/report
// directly.
package intake

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-intake/pkg/loader"
	"github.com/goliatone/go-intake/pkg/prompt"
	"github.com/goliatone/go-intake/pkg/report"
	"github.com/goliatone/go-intake/pkg/schema"
)

// Schema is an ordered set of field definitions.
type Schema = schema.Schema

// Field is a single entry in a schema.
type Field = schema.Field

// Type names a field's value kind.
type Type = schema.Type

// Record holds the outcome of parsing one input against a schema.
type Record = schema.Record

// Errors is the ordered list of validation failures from one parse.
type Errors = schema.Errors

// FieldError is a single validation failure.
type FieldError = schema.FieldError

// Input maps field labels to raw values awaiting validation.
type Input = schema.Input

// Value is a raw input value prior to coercion.
type Value = schema.Value

// ParseOption adjusts how a schema parses input.
type ParseOption = schema.ParseOption

// Field types understood by schemas.
const (
	TypeText      = schema.TypeText
	TypeTimestamp = schema.TypeTimestamp
)

// New builds a schema from ordered field specifications.
func New(specs []map[string]any) (*Schema, error) {
	return schema.New(specs)
}

// MustNew is New for schemas known to be well formed. It panics on error.
func MustNew(specs []map[string]any) *Schema {
	return schema.MustNew(specs)
}

// String wraps a text value.
func String(s string) Value { return schema.String(s) }

// Int wraps an epoch-seconds value.
func Int(n int64) Value { return schema.Int(n) }

// Time wraps an already-parsed timestamp.
func Time(t time.Time) Value { return schema.Time(t) }

// ValueOf converts a plain Go value into a Value.
func ValueOf(v any) (Value, error) { return schema.ValueOf(v) }

// InputOf converts a map of plain Go values into an Input.
func InputOf(m map[string]any) (Input, error) { return schema.InputOf(m) }

// Strict makes Parse record input keys the schema cannot account for.
func Strict() ParseOption { return schema.Strict() }

// Load fetches a schema document from a local path or an HTTP URL and
// builds the schema it declares.
func Load(ctx context.Context, location string, options ...loader.Option) (*Schema, error) {
	src := loader.SourceFromFile(location)
	if isURL(location) {
		src = loader.SourceFromURL(location)
	}
	return loader.Load(ctx, src, options...)
}

// Prompt collects one record for the schema by walking its fields
// interactively on the terminal.
func Prompt(ctx context.Context, s *Schema, options ...prompt.Option) (*Record, error) {
	runner, err := prompt.New(s, options...)
	if err != nil {
		return nil, err
	}
	return runner.Run(ctx)
}

// Render executes a template against a parsed record. The name is treated
// as inline template content when it carries template markup.
func Render(name string, rec *Record, options ...report.Option) (string, error) {
	renderer, err := report.New(options...)
	if err != nil {
		return "", err
	}
	return renderer.Render(name, rec)
}

func isURL(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}
