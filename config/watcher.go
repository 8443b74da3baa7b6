package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/GoCodeAlone/locator"
	"github.com/fsnotify/fsnotify"
)

// ReloadCallback receives every successfully reloaded config.
type ReloadCallback func(cfg *locator.Config) error

// Watcher reloads a config file when it changes on disk. Editors often
// replace files instead of writing them in place, so the parent directory
// is watched and events are filtered by name.
type Watcher struct {
	path     string
	callback ReloadCallback
	logger   locator.Logger
	debounce time.Duration

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithWatcherLogger sets the logger.
func WithWatcherLogger(logger locator.Logger) WatcherOption {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithDebounce collapses bursts of file events into one reload.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// NewWatcher creates a watcher for path. Start must be called to begin
// watching.
func NewWatcher(path string, callback ReloadCallback, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		path:     filepath.Clean(path),
		callback: callback,
		logger:   locator.NopLogger(),
		debounce: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Watch is a shortcut that applies every reload to c.
func Watch(ctx context.Context, path string, c *locator.Container, opts ...WatcherOption) (*Watcher, error) {
	w := NewWatcher(path, c.ApplyConfig, append([]WatcherOption{WithWatcherLogger(c.Logger())}, opts...)...)
	if err := w.Start(ctx); err != nil {
		return nil, err
	}
	return w, nil
}

// Start begins watching. It returns once the watch is installed.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.watcher != nil {
		return nil
	}
	if w.path == "" || w.path == "." {
		return ErrNoPath
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		_ = fw.Close()
		return fmt.Errorf("failed to watch %s: %w", w.path, err)
	}

	w.watcher = fw
	w.done = make(chan struct{})
	w.wg.Add(1)
	go w.loop(ctx, fw, w.done)

	w.logger.Info("Config watcher started", "path", w.path)
	return nil
}

// Stop ends watching and waits for the event loop to exit.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	fw := w.watcher
	done := w.done
	w.watcher = nil
	w.mu.Unlock()

	if fw == nil {
		return nil
	}
	close(done)
	err := fw.Close()
	w.wg.Wait()
	w.logger.Info("Config watcher stopped", "path", w.path)
	return err
}

// IsWatching returns true if currently watching for configuration changes
func (w *Watcher) IsWatching() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.watcher != nil
}

func (w *Watcher) loop(ctx context.Context, fw *fsnotify.Watcher, done <-chan struct{}) {
	defer w.wg.Done()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Error("Config watcher error", "path", w.path, "error", err)
		case <-fire:
			fire = nil
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := LoadFile(w.path)
	if err != nil {
		w.logger.Warn("Config reload failed", "path", w.path, "error", err)
		return
	}
	if err := w.callback(cfg); err != nil {
		w.logger.Error("Config reload rejected", "path", w.path, "error", err)
		return
	}
	w.logger.Info("Config reloaded", "path", w.path)
}
