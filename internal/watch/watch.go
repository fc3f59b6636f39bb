// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package watch re-runs a handler when a requirements document changes on
// disk.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/pdiddy/prdgate/pkg/types"
)

const defaultDebounce = 500 * time.Millisecond

// Handler is called with the watched path after a change settles.
type Handler func(ctx context.Context, path string) error

// Watcher watches a single file. The parent directory is watched so that
// editors which replace the file by rename are still seen.
type Watcher struct {
	path     string
	debounce time.Duration
	handler  Handler
	logger   *slog.Logger
	ready    chan struct{}
}

// New returns a Watcher for path. A nil logger uses slog.Default.
func New(path string, cfg types.WatchConfig, handler Handler, logger *slog.Logger) *Watcher {
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		path:     filepath.Clean(path),
		debounce: debounce,
		handler:  handler,
		logger:   logger,
		ready:    make(chan struct{}),
	}
}

// Ready is closed once the underlying watch is registered.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Run blocks until ctx is cancelled. Handler errors are logged and do not
// stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	dir := filepath.Dir(w.path)
	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	close(w.ready)

	w.logger.Info("watching requirements document", "path", w.path, "debounce", w.debounce)

	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			// Restart the quiet period on every write.
			fire = time.After(w.debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "path", w.path, "error", err)

		case <-fire:
			fire = nil
			if err := w.handler(ctx, w.path); err != nil {
				w.logger.Error("handling change", "path", w.path, "error", err)
			}
		}
	}
}
