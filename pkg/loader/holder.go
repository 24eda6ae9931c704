package loader

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-intake/pkg/schema"
)

// Holder provides thread-safe access to a loaded schema with hot reload
// support for long-running processes.
type Holder struct {
	mu       sync.RWMutex
	schema   *schema.Schema
	loader   *Loader
	src      Source
	log      zerolog.Logger
	watcher  *fsnotify.Watcher
	onReload []func(*schema.Schema)
	stopCh   chan struct{}
	stopOnce sync.Once
}

// HolderOption configures a Holder.
type HolderOption func(*Holder)

// WithLogger attaches a logger; reload activity is silent without one.
func WithLogger(log zerolog.Logger) HolderOption {
	return func(h *Holder) {
		h.log = log
	}
}

// WithLoader overrides the loader used for the initial load and reloads.
func WithLoader(l *Loader) HolderOption {
	return func(h *Holder) {
		if l != nil {
			h.loader = l
		}
	}
}

// NewHolder loads the schema once and returns a holder around it.
func NewHolder(ctx context.Context, src Source, opts ...HolderOption) (*Holder, error) {
	if !src.valid() {
		return nil, errors.New("loader: source is required")
	}

	h := &Holder{
		src:    src,
		log:    zerolog.Nop(),
		stopCh: make(chan struct{}),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(h)
	}
	if h.loader == nil {
		h.loader = New()
	}

	s, err := h.loader.Load(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	h.schema = s
	return h, nil
}

// Schema returns the current schema.
func (h *Holder) Schema() *schema.Schema {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.schema
}

// OnReload registers a callback invoked after every successful reload.
func (h *Holder) OnReload(fn func(*schema.Schema)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onReload = append(h.onReload, fn)
}

// Reload loads the schema again from its source. On failure the previous
// schema stays in place.
func (h *Holder) Reload(ctx context.Context) error {
	h.log.Info().Str("source", h.src.Location()).Msg("reloading schema")

	s, err := h.loader.Load(ctx, h.src)
	if err != nil {
		h.log.Error().Err(err).Msg("schema reload failed, keeping previous schema")
		return fmt.Errorf("reload schema: %w", err)
	}

	h.mu.Lock()
	h.schema = s
	callbacks := append([]func(*schema.Schema){}, h.onReload...)
	h.mu.Unlock()

	for _, fn := range callbacks {
		fn(s)
	}

	h.log.Info().Int("fields", s.Len()).Msg("schema reloaded")
	return nil
}

// Watch starts watching a file source; edits trigger automatic reloads.
// Only SourceKindFile can be watched.
func (h *Holder) Watch() error {
	if h.src.Kind() != SourceKindFile {
		return fmt.Errorf("loader: cannot watch %q sources", h.src.Kind())
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	h.watcher = watcher

	// Watch the directory: editors that save atomically replace the file.
	dir := filepath.Dir(h.src.Location())
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch directory: %w", err)
	}

	go h.watchLoop()

	h.log.Info().Str("source", h.src.Location()).Msg("watching schema for changes")
	return nil
}

// Stop ends watching for file changes. It is safe to call more than once.
func (h *Holder) Stop() {
	h.stopOnce.Do(func() {
		close(h.stopCh)
		if h.watcher != nil {
			h.watcher.Close()
		}
	})
}

func (h *Holder) watchLoop() {
	filename := filepath.Base(h.src.Location())

	for {
		select {
		case event, ok := <-h.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				h.log.Debug().
					Str("event", event.Op.String()).
					Str("file", event.Name).
					Msg("schema file changed")

				if err := h.Reload(context.Background()); err != nil {
					h.log.Error().Err(err).Msg("watch reload failed")
				}
			}

		case err, ok := <-h.watcher.Errors:
			if !ok {
				return
			}
			h.log.Error().Err(err).Msg("schema watcher error")

		case <-h.stopCh:
			return
		}
	}
}
