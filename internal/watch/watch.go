// Package watch re-skims source files as they change on disk.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"goskim/internal/runner"
	"goskim/internal/skim"
)

// DefaultDebounce is how long a file must be quiet before it is re-skimmed.
// Editors often fire several write events per save.
const DefaultDebounce = 500 * time.Millisecond

// Handler receives the skimmed output for a changed file.
type Handler func(path string, result *runner.FileResult)

// Stats tracks watcher activity for debugging.
type Stats struct {
	FilesCreated   int
	FilesModified  int
	FilesDeleted   int
	SkimsTriggered int
	Errors         int
	LastEventTime  time.Time
	LastEventPath  string
	LastEventType  string
}

// Watcher monitors a directory tree and re-skims supported files after
// their changes settle.
type Watcher struct {
	mu          sync.RWMutex
	watcher     *fsnotify.Watcher
	runner      *runner.Runner
	handler     Handler
	root        string
	debounceMap map[string]time.Time
	debounceDur time.Duration
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
	log         *zap.Logger

	stats Stats
}

// New creates a Watcher over root. The handler is called with fresh output
// each time a watched file settles after a change.
func New(root string, r *runner.Runner, handler Handler, log *zap.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Watcher{
		watcher:     fsw,
		runner:      r,
		handler:     handler,
		root:        root,
		debounceMap: make(map[string]time.Time),
		debounceDur: DefaultDebounce,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
		log:         log,
	}, nil
}

// Start begins watching. It is non-blocking; events are handled in a
// goroutine until Stop is called or the context ends.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	// fsnotify watches are not recursive; register every subdirectory.
	if err := w.addTree(w.root); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return err
	}
	w.log.Info("watching", zap.String("root", w.root), zap.Int("dirs", len(w.watcher.WatchList())))

	go w.run(ctx)

	return nil
}

// Stop stops the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		w.log.Error("closing watcher", zap.Error(err))
	}
	w.log.Debug("watcher stopped")
}

// addTree registers root and all directories under it.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type()&fs.ModeSymlink != 0 {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		return w.watcher.Add(path)
	})
}

// run is the watcher's event loop.
func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	debounceTicker := time.NewTicker(100 * time.Millisecond)
	defer debounceTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("watcher context cancelled")
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error("watch error", zap.Error(err))
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()

		case <-debounceTicker.C:
			w.processDebounced(ctx)
		}
	}
}

// handleEvent records a filesystem event for debounced processing.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	// A newly created directory needs its own watch.
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Lstat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				w.log.Warn("watching new directory", zap.String("path", event.Name), zap.Error(err))
			}
			return
		}
	}

	if _, ok := skim.FromPath(event.Name); !ok {
		return
	}

	var eventType string
	switch {
	case event.Op&fsnotify.Create != 0:
		eventType = "create"
	case event.Op&fsnotify.Write != 0:
		eventType = "modify"
	case event.Op&fsnotify.Remove != 0:
		eventType = "delete"
	case event.Op&fsnotify.Rename != 0:
		eventType = "rename"
	default:
		return // chmod etc.
	}

	w.log.Debug("fs event", zap.String("type", eventType), zap.String("path", event.Name))

	w.mu.Lock()
	w.stats.LastEventTime = time.Now()
	w.stats.LastEventPath = event.Name
	w.stats.LastEventType = eventType

	switch eventType {
	case "create":
		w.stats.FilesCreated++
	case "modify":
		w.stats.FilesModified++
	case "delete", "rename":
		w.stats.FilesDeleted++
	}

	if eventType == "delete" || eventType == "rename" {
		delete(w.debounceMap, event.Name)
		w.mu.Unlock()
		return
	}

	w.debounceMap[event.Name] = time.Now()
	w.mu.Unlock()
}

// processDebounced re-skims files whose last event is past the debounce
// window.
func (w *Watcher) processDebounced(ctx context.Context) {
	w.mu.Lock()
	now := time.Now()
	toProcess := make([]string, 0)

	for path, eventTime := range w.debounceMap {
		if now.Sub(eventTime) >= w.debounceDur {
			toProcess = append(toProcess, path)
			delete(w.debounceMap, path)
		}
	}
	w.mu.Unlock()

	for _, path := range toProcess {
		w.skimFile(ctx, path)
	}
}

// skimFile re-skims one settled file and hands the result to the handler.
func (w *Watcher) skimFile(ctx context.Context, path string) {
	result, err := w.runner.ProcessFile(ctx, path)
	if err != nil {
		if os.IsNotExist(err) {
			w.log.Debug("file gone before skim", zap.String("path", path))
			return
		}
		w.log.Warn("skim failed", zap.String("path", path), zap.Error(err))
		w.mu.Lock()
		w.stats.Errors++
		w.mu.Unlock()
		return
	}

	w.mu.Lock()
	w.stats.SkimsTriggered++
	w.mu.Unlock()

	if w.handler != nil {
		w.handler(path, result)
	}
}

// GetStats returns a snapshot of watcher activity.
func (w *Watcher) GetStats() Stats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stats
}

// IsWatching reports whether the event loop is running.
func (w *Watcher) IsWatching() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

// WatchedDirs returns the directories currently registered.
func (w *Watcher) WatchedDirs() []string {
	return w.watcher.WatchList()
}
