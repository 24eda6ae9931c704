// Package report renders parsed records through pongo2 templates.
//
// A Renderer resolves named templates through a pongo2.TemplateSet backed by
// a directory or an fs.FS, caches compiled templates, and exposes the
// record's resolved values at the top of the template context. The full
// record travels alongside under the "record" key with its values, labels,
// error messages, and validity.
package report

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-intake/pkg/schema"
)

// Renderer executes templates against parsed records.
type Renderer struct {
	mu sync.RWMutex

	set       *pongo2.TemplateSet
	templates map[string]*pongo2.Template
	ext       string
}

// New constructs a Renderer. Without WithBaseDir or WithFS, named templates
// resolve relative to the working directory.
func New(options ...Option) (*Renderer, error) {
	cfg := &config{
		extension: ".tpl",
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	var loaders []pongo2.TemplateLoader
	if cfg.baseDir != "" {
		loader, err := pongo2.NewLocalFileSystemLoader(cfg.baseDir)
		if err != nil {
			return nil, fmt.Errorf("report: create local loader: %w", err)
		}
		loaders = append(loaders, loader)
	}
	if cfg.templates != nil {
		loaders = append(loaders, pongo2.NewFSLoader(cfg.templates))
	}
	if len(loaders) == 0 {
		loader, err := pongo2.NewLocalFileSystemLoader("")
		if err != nil {
			return nil, fmt.Errorf("report: create local loader: %w", err)
		}
		loaders = append(loaders, loader)
	}

	r := &Renderer{
		set:       pongo2.NewSet("report", loaders...),
		templates: make(map[string]*pongo2.Template),
		ext:       cfg.extension,
	}
	registerDefaultFilters()

	if len(cfg.globals) > 0 {
		if r.set.Globals == nil {
			r.set.Globals = make(pongo2.Context)
		}
		r.set.Globals.Update(pongo2.Context(cfg.globals))
	}

	return r, nil
}

// Render treats name as inline template content when it carries template
// markup, and as a template name otherwise.
func (r *Renderer) Render(name string, rec *schema.Record, out ...io.Writer) (string, error) {
	if isTemplateContent(name) {
		return r.RenderString(name, rec, out...)
	}
	return r.RenderTemplate(name, rec, out...)
}

// RenderTemplate loads, caches, and executes the named template. The
// configured extension is appended when name does not already carry it.
func (r *Renderer) RenderTemplate(name string, rec *schema.Record, out ...io.Writer) (string, error) {
	if r == nil || r.set == nil {
		return "", errors.New("report: renderer is nil")
	}
	path := name
	if !strings.HasSuffix(path, r.ext) {
		path += r.ext
	}

	tmpl, err := r.template(path)
	if err != nil {
		return "", err
	}
	return r.execute(tmpl, rec, out, fmt.Sprintf("template %q", path))
}

// RenderString parses content as a template and executes it.
func (r *Renderer) RenderString(content string, rec *schema.Record, out ...io.Writer) (string, error) {
	if r == nil || r.set == nil {
		return "", errors.New("report: renderer is nil")
	}

	tmpl, err := r.set.FromString(content)
	if err != nil {
		return "", fmt.Errorf("report: parse template string: %w", err)
	}
	return r.execute(tmpl, rec, out, "template string")
}

func (r *Renderer) execute(tmpl *pongo2.Template, rec *schema.Record, out []io.Writer, what string) (string, error) {
	var buf bytes.Buffer

	r.mu.RLock()
	err := tmpl.ExecuteWriter(recordContext(rec), &buf)
	r.mu.RUnlock()

	if err != nil {
		return "", fmt.Errorf("report: execute %s: %w", what, err)
	}

	rendered := buf.String()
	for _, w := range out {
		if _, err := w.Write([]byte(rendered)); err != nil {
			return "", fmt.Errorf("report: write output: %w", err)
		}
	}
	return rendered, nil
}

func (r *Renderer) template(path string) (*pongo2.Template, error) {
	r.mu.RLock()
	if tmpl, ok := r.templates[path]; ok {
		r.mu.RUnlock()
		return tmpl, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	if tmpl, ok := r.templates[path]; ok {
		return tmpl, nil
	}

	tmpl, err := r.set.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("report: load template %q: %w", path, err)
	}

	r.templates[path] = tmpl
	return tmpl, nil
}

// recordContext exposes each resolved value under its label, plus a
// "record" entry for templates that want the whole picture.
func recordContext(rec *schema.Record) pongo2.Context {
	ctx := make(pongo2.Context)
	if rec == nil {
		ctx["record"] = map[string]any{
			"values": map[string]any{},
			"labels": []string{},
			"errors": []string{},
			"valid":  false,
		}
		return ctx
	}

	values := rec.Values()
	for label, value := range values {
		ctx[label] = value
	}
	ctx["record"] = map[string]any{
		"values": values,
		"labels": rec.Labels(),
		"errors": rec.Errors().Messages(),
		"valid":  rec.Valid(),
	}
	return ctx
}

func isTemplateContent(s string) bool {
	return strings.Contains(s, "{{") || strings.Contains(s, "{%")
}
