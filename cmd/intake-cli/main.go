package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	intake "github.com/goliatone/go-intake"
	"github.com/goliatone/go-intake/pkg/loader"
	"github.com/goliatone/go-intake/pkg/openapi"
	"github.com/goliatone/go-intake/pkg/schema"
)

func main() {
	schemaFlag := flag.String("schema", "", "schema document path or URL")
	operation := flag.String("operation", "", "derive the schema from this OpenAPI operation instead")
	input := flag.String("input", "", "JSON/YAML data file to parse, - for stdin")
	doPrompt := flag.Bool("prompt", false, "collect the record interactively")
	strict := flag.Bool("strict", false, "flag input keys the schema cannot account for")
	template := flag.String("template", "", "template name or inline content to render the record")
	output := flag.String("output", "", "output file (stdout if empty)")
	flag.Parse()

	ctx := context.Background()

	if strings.TrimSpace(*schemaFlag) == "" {
		log.Fatalf("missing -schema")
	}
	if *doPrompt && *input != "" {
		log.Fatalf("use -input or -prompt, not both")
	}
	if !*doPrompt && *input == "" {
		log.Fatalf("nothing to do: pass -input or -prompt")
	}

	s, err := loadSchema(ctx, *schemaFlag, *operation)
	if err != nil {
		log.Fatalf("Failed to load schema: %v", err)
	}

	var rec *intake.Record
	if *doPrompt {
		rec, err = intake.Prompt(ctx, s)
		if err != nil {
			log.Fatalf("Failed to collect record: %v", err)
		}
	} else {
		in, err := readInput(*input)
		if err != nil {
			log.Fatalf("Failed to read input: %v", err)
		}
		var opts []intake.ParseOption
		if *strict {
			opts = append(opts, intake.Strict())
		}
		rec = s.Parse(in, opts...)
	}

	if !rec.Valid() {
		for _, msg := range rec.Errors().Messages() {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(1)
	}

	rendered, err := renderRecord(rec, *template)
	if err != nil {
		log.Fatalf("Failed to render record: %v", err)
	}

	if *output != "" {
		if err := os.WriteFile(*output, []byte(rendered), 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Record written to %s\n", *output)
	} else {
		fmt.Println(strings.TrimRight(rendered, "\n"))
	}
}

func loadSchema(ctx context.Context, location, operation string) (*intake.Schema, error) {
	if operation == "" {
		return intake.Load(ctx, location)
	}
	if isURL(location) {
		doc, err := loader.New().Fetch(ctx, loader.SourceFromURL(location))
		if err != nil {
			return nil, err
		}
		return openapi.FromDocument(ctx, doc.Raw(), operation)
	}
	return openapi.FromFile(ctx, location, operation)
}

func readInput(path string) (intake.Input, error) {
	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}

	data := map[string]any{}
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode input: %w", err)
	}
	return schema.InputOf(data)
}

func renderRecord(rec *intake.Record, template string) (string, error) {
	if template != "" {
		return intake.Render(template, rec)
	}
	out, err := json.MarshalIndent(rec.Values(), "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func isURL(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}
