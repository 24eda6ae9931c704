// Package openapi derives field schemas from OpenAPI 3 documents.
//
// FromDocument locates an operation by its operationId, reads the schema of
// its JSON request body, and maps the body's string properties onto field
// specifications for pkg/schema. Properties listed in the body's required
// array come first, in that order, followed by the remaining properties in
// sorted order.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-intake/pkg/schema"
)

// Sentinel errors reported while deriving a schema from a document.
var (
	// ErrOperationNotFound signals that no operation in the document
	// carries the requested operationId.
	ErrOperationNotFound = errors.New("openapi: operation not found")
	// ErrNoRequestBody signals that the operation declares no JSON
	// request body to derive fields from.
	ErrNoRequestBody = errors.New("openapi: operation has no JSON request body")
	// ErrUnsupported signals a schema construct outside the flat
	// string-property shape the derivation understands.
	ErrUnsupported = errors.New("openapi: unsupported schema construct")
)

// Vendor extension keys recognised on body properties.
const (
	conditionExtensionKey = "x-intake-condition"
	multilineExtensionKey = "x-intake-multiline"
)

// Formats that map a string property to a timestamp field.
const (
	formatDate     = "date"
	formatDateTime = "date-time"
)

// FromFile loads an OpenAPI document from disk and derives the schema for
// the request body of the operation identified by operationID.
func FromFile(ctx context.Context, path string, operationID string) (*schema.Schema, error) {
	loader := newLoader(ctx)
	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("openapi: load %s: %w", path, err)
	}
	return derive(loader, doc, operationID)
}

// FromDocument parses an in-memory OpenAPI document and derives the schema
// for the request body of the operation identified by operationID.
func FromDocument(ctx context.Context, data []byte, operationID string) (*schema.Schema, error) {
	loader := newLoader(ctx)
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	return derive(loader, doc, operationID)
}

func newLoader(ctx context.Context) *openapi3.Loader {
	if ctx == nil {
		ctx = context.Background()
	}
	return &openapi3.Loader{Context: ctx, IsExternalRefsAllowed: true}
}

func derive(loader *openapi3.Loader, doc *openapi3.T, operationID string) (*schema.Schema, error) {
	if err := doc.Validate(loader.Context, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("openapi: validate document: %w", err)
	}

	operation := findOperation(doc, operationID)
	if operation == nil {
		return nil, fmt.Errorf("%w: %q", ErrOperationNotFound, operationID)
	}

	body := jsonBody(operation)
	if body == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoRequestBody, operationID)
	}
	if kind := firstSchemaType(body.Type); kind != openapi3.TypeObject {
		return nil, fmt.Errorf("%w: request body type %q", ErrUnsupported, kind)
	}

	specs := make([]map[string]any, 0, len(body.Properties))
	required := requiredSet(body.Required)
	for _, name := range propertyOrder(body) {
		ref := body.Properties[name]
		if ref == nil || ref.Value == nil {
			return nil, fmt.Errorf("%w: property %q has no schema", ErrUnsupported, name)
		}
		spec, err := fieldSpec(name, ref.Value, required[name])
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}

	derived, err := schema.New(specs)
	if err != nil {
		return nil, fmt.Errorf("openapi: %w", err)
	}
	return derived, nil
}

func findOperation(doc *openapi3.T, operationID string) *openapi3.Operation {
	if doc.Paths == nil {
		return nil
	}
	for _, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for _, operation := range item.Operations() {
			if operation != nil && operation.OperationID == operationID {
				return operation
			}
		}
	}
	return nil
}

func jsonBody(operation *openapi3.Operation) *openapi3.Schema {
	if operation.RequestBody == nil || operation.RequestBody.Value == nil {
		return nil
	}
	media := operation.RequestBody.Value.Content.Get("application/json")
	if media == nil || media.Schema == nil || media.Schema.Value == nil {
		return nil
	}
	return media.Schema.Value
}

// propertyOrder lists the body's properties with the required ones first,
// in the order the required array declares them, and the rest sorted.
func propertyOrder(body *openapi3.Schema) []string {
	seen := make(map[string]struct{}, len(body.Properties))
	order := make([]string, 0, len(body.Properties))
	for _, name := range body.Required {
		if _, declared := body.Properties[name]; !declared {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		order = append(order, name)
	}

	rest := make([]string, 0, len(body.Properties))
	for name := range body.Properties {
		if _, done := seen[name]; !done {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(order, rest...)
}

func requiredSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return set
}

func fieldSpec(name string, prop *openapi3.Schema, required bool) (map[string]any, error) {
	if kind := firstSchemaType(prop.Type); kind != openapi3.TypeString {
		return nil, fmt.Errorf("%w: property %q has type %q", ErrUnsupported, name, kind)
	}

	spec := map[string]any{
		"label":    name,
		"required": required,
	}
	switch prop.Format {
	case formatDate, formatDateTime:
		spec["type"] = string(schema.TypeTimestamp)
	default:
		spec["type"] = string(schema.TypeText)
	}
	if prop.Title != "" {
		spec["name"] = prop.Title
	}
	if prop.Description != "" {
		spec["help"] = prop.Description
	}
	if len(prop.Enum) > 0 {
		spec["choices"] = prop.Enum
	}
	if prop.Pattern != "" {
		spec["matches"] = prop.Pattern
	}
	if prop.Default != nil {
		text, ok := prop.Default.(string)
		if !ok {
			return nil, fmt.Errorf("%w: property %q has a %T default", ErrUnsupported, name, prop.Default)
		}
		spec["default"] = text
	}
	if raw, ok := prop.Extensions[conditionExtensionKey]; ok {
		spec["condition"] = raw
	}
	if raw, ok := prop.Extensions[multilineExtensionKey]; ok {
		spec["multiline"] = raw
	}
	return spec, nil
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	switch len(values) {
	case 0:
		return ""
	case 1:
		return values[0]
	default:
		return strings.Join(values, ",")
	}
}
