// Package watch ingests documents as they appear in a watched
// directory. Write bursts are debounced per file so a document is only
// ingested once it has settled.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/docquery/internal/core/ports/driving"
	"github.com/custodia-labs/docquery/internal/logger"
)

// DefaultDebounce is how long a file must be quiet before it is
// ingested.
const DefaultDebounce = 500 * time.Millisecond

// defaultExtensions are the document formats the built-in extractors
// claim.
var defaultExtensions = []string{".pdf", ".txt", ".text", ".md", ".markdown"}

// Watcher watches one directory and ingests settled documents.
// Each ingest replaces the active session, so the last dropped
// document wins.
type Watcher struct {
	ingest     driving.IngestService
	debounce   time.Duration
	extensions map[string]bool

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the settle delay. Zero keeps the default.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithExtensions replaces the accepted file extensions (with leading
// dot, case-insensitive).
func WithExtensions(exts []string) Option {
	return func(w *Watcher) {
		if len(exts) == 0 {
			return
		}
		w.extensions = make(map[string]bool, len(exts))
		for _, ext := range exts {
			w.extensions[strings.ToLower(ext)] = true
		}
	}
}

// New creates a watcher over the given ingest service.
func New(ingest driving.IngestService, opts ...Option) *Watcher {
	w := &Watcher{
		ingest:     ingest,
		debounce:   DefaultDebounce,
		extensions: make(map[string]bool, len(defaultExtensions)),
		timers:     make(map[string]*time.Timer),
	}
	for _, ext := range defaultExtensions {
		w.extensions[ext] = true
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run watches dir until the context is cancelled. Ingest failures are
// logged, not fatal; the watch continues.
func (w *Watcher) Run(ctx context.Context, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()
	defer w.stopTimers()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	logger.Info("Watching %s (debounce %s)", dir, w.debounce)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
				continue
			}
			if !w.shouldIngest(event.Name) {
				continue
			}
			w.schedule(ctx, event.Name)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)
		}
	}
}

// shouldIngest reports whether the path names an ingestible document:
// a non-dotfile with a claimed extension.
func (w *Watcher) shouldIngest(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return w.extensions[strings.ToLower(filepath.Ext(base))]
}

// schedule (re)arms the file's debounce timer. The ingest fires only
// after the file has been quiet for the full debounce window.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.timers[path]; ok {
		timer.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()

		if ctx.Err() != nil {
			return
		}
		report, err := w.ingest.IngestFile(ctx, path)
		if err != nil {
			logger.Warn("ingesting %s: %v", path, err)
			return
		}
		logger.Info("Ingested %q: %d chunks", report.Title, report.Chunks)
	})
}

// stopTimers cancels all pending debounce timers.
func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, timer := range w.timers {
		timer.Stop()
		delete(w.timers, path)
	}
}
