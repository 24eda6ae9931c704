// Package loader reads schema documents from disk, an fs.FS, or HTTP and
// builds validated schemas from them. Documents are YAML or JSON sequences of
// field specifications; display strings are stripped of markup before they
// can reach a terminal or template. Holder adds hot reload on top for
// long-running processes.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-intake/pkg/schema"
)

// displayKeys are the specification keys shown verbatim to users and
// therefore sanitized on load.
var displayKeys = []string{"name", "help"}

// Loader fetches schema documents and builds schemas from them. The zero
// configuration reads files and HTTP URLs; WithFS adds an fs.FS modality.
type Loader struct {
	fsys    fs.FS
	client  *http.Client
	timeout time.Duration
}

// Option configures a Loader.
type Option func(*Loader)

// WithFS supplies the filesystem consulted for SourceKindFS documents.
func WithFS(fsys fs.FS) Option {
	return func(l *Loader) {
		l.fsys = fsys
	}
}

// WithHTTPClient overrides the HTTP client used for URL sources.
func WithHTTPClient(client *http.Client) Option {
	return func(l *Loader) {
		if client != nil {
			l.client = client
		}
	}
}

// WithTimeout caps how long a single URL fetch may take.
func WithTimeout(timeout time.Duration) Option {
	return func(l *Loader) {
		if timeout > 0 {
			l.timeout = timeout
		}
	}
}

// New constructs a Loader.
func New(opts ...Option) *Loader {
	l := &Loader{timeout: 30 * time.Second}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(l)
	}
	if l.client == nil {
		l.client = &http.Client{}
	}
	return l
}

// Load fetches the document identified by src and builds a schema from it.
func Load(ctx context.Context, src Source, opts ...Option) (*schema.Schema, error) {
	return New(opts...).Load(ctx, src)
}

// Load fetches and builds in one step.
func (l *Loader) Load(ctx context.Context, src Source) (*schema.Schema, error) {
	doc, err := l.Fetch(ctx, src)
	if err != nil {
		return nil, err
	}
	return l.Build(doc)
}

// Fetch resolves the raw document bytes for src and wraps them with their
// origin.
func (l *Loader) Fetch(ctx context.Context, src Source) (Document, error) {
	if !src.valid() {
		return Document{}, errors.New("loader: source is required")
	}

	var (
		data []byte
		err  error
	)
	switch src.Kind() {
	case SourceKindFile:
		data, err = readFile(ctx, src.Location())
	case SourceKindFS:
		data, err = readFS(ctx, l.fsys, src.Location())
	case SourceKindURL:
		data, err = readHTTP(ctx, l.client, src.Location(), l.timeout)
	default:
		err = fmt.Errorf("loader: unsupported source kind %q", src.Kind())
	}
	if err != nil {
		return Document{}, err
	}
	if len(data) == 0 {
		return Document{}, fmt.Errorf("loader: %s: document is empty", src.Location())
	}

	return Document{source: src, raw: data}, nil
}

// Build decodes a document into field specifications, sanitizes the display
// strings, and constructs the schema. YAML and JSON payloads both decode
// through the YAML reader.
func (l *Loader) Build(doc Document) (*schema.Schema, error) {
	var specs []map[string]any
	if err := yaml.Unmarshal(doc.Raw(), &specs); err != nil {
		return nil, fmt.Errorf("loader: decode %s: %w", doc.Location(), err)
	}

	for _, spec := range specs {
		for _, key := range displayKeys {
			if value, ok := spec[key].(string); ok {
				spec[key] = sanitizeText(value)
			}
		}
	}

	s, err := schema.New(specs)
	if err != nil {
		return nil, fmt.Errorf("loader: %s: %w", doc.Location(), err)
	}
	return s, nil
}

func readFile(ctx context.Context, path string) ([]byte, error) {
	if path == "" {
		return nil, errors.New("loader: file path is required")
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(abs)
}

func readFS(ctx context.Context, fsys fs.FS, name string) ([]byte, error) {
	if fsys == nil {
		return nil, errors.New("loader: filesystem is not configured")
	}
	if name == "" {
		return nil, errors.New("loader: fs path is required")
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	return fs.ReadFile(fsys, name)
}

func readHTTP(ctx context.Context, client *http.Client, rawURL string, timeout time.Duration) ([]byte, error) {
	if client == nil {
		return nil, errors.New("loader: http client is not configured")
	}
	if rawURL == "" {
		return nil, errors.New("loader: url is required")
	}

	reqCtx := ctx
	var cancel context.CancelFunc
	if timeout > 0 {
		reqCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.New("loader: unexpected status " + resp.Status)
	}

	return io.ReadAll(resp.Body)
}
