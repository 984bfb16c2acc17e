// Package watch provides the continuous staging mode: a debounced filesystem
// watcher over the asset source plus an optional periodic resync schedule.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/assetstage/internal/logfields"
	"git.home.luguber.info/inful/assetstage/internal/metrics"
)

// Watcher monitors the asset source tree and triggers a re-stage on changes.
type Watcher struct {
	sourceDir    string
	watcher      *fsnotify.Watcher
	onChange     func()
	recorder     metrics.Recorder
	mu           sync.RWMutex
	stopChan     chan struct{}
	stopOnce     sync.Once
	triggerChan  chan struct{}
	debounceTime time.Duration
}

// NewWatcher creates a watcher over sourceDir. onChange is invoked (debounced)
// after filesystem activity settles.
func NewWatcher(sourceDir string, debounce time.Duration, recorder metrics.Recorder, onChange func()) (*Watcher, error) {
	if onChange == nil {
		return nil, fmt.Errorf("onChange callback is required")
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	absPath, err := filepath.Abs(sourceDir)
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to resolve source path: %w", err)
	}

	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	return &Watcher{
		sourceDir:    absPath,
		watcher:      watcher,
		onChange:     onChange,
		recorder:     recorder,
		stopChan:     make(chan struct{}),
		triggerChan:  make(chan struct{}, 1),
		debounceTime: debounce,
	}, nil
}

// Start begins monitoring the source tree. All existing subdirectories are
// watched; directories created later are added as their create events arrive.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.addRecursive(w.sourceDir); err != nil {
		return fmt.Errorf("failed to watch source directory %s: %w", w.sourceDir, err)
	}

	slog.Info("Starting asset watcher", logfields.Source(w.sourceDir))

	go w.watchLoop(ctx)
	go w.triggerLoop(ctx)

	return nil
}

// Stop stops the watcher. Safe to call more than once.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	slog.Info("Stopping asset watcher")

	w.stopOnce.Do(func() {
		close(w.stopChan)
	})

	if w.watcher != nil {
		if err := w.watcher.Close(); err != nil {
			slog.Error("Error closing file watcher", logfields.Error(err))
		}
	}

	return nil
}

// addRecursive registers dir and every subdirectory with the fsnotify watcher.
func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.watcher.Add(path)
		}
		return nil
	})
}

// watchLoop forwards debounce triggers for relevant filesystem events.
func (w *Watcher) watchLoop(ctx context.Context) {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("File watcher error", logfields.Error(err))
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	w.recorder.IncWatchEvent(event.Op.String())
	slog.Debug("Source change detected",
		logfields.Path(event.Name),
		slog.String("op", event.Op.String()))

	// New directories must be added so changes inside them are seen.
	if event.Op&fsnotify.Create != 0 {
		if err := w.addRecursive(event.Name); err != nil {
			// The path may be a file or already gone; both are fine.
			slog.Debug("Skipping watch add", logfields.Path(event.Name), logfields.Error(err))
		}
	}

	// Non-blocking send; a pending trigger already covers this event.
	select {
	case w.triggerChan <- struct{}{}:
	default:
	}
}

// triggerLoop debounces rapid event bursts into single onChange invocations.
func (w *Watcher) triggerLoop(ctx context.Context) {
	for {
		select {
		case <-w.triggerChan:
			if !w.waitQuiet(ctx) {
				return
			}
			w.onChange()
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

// waitQuiet blocks until no trigger has arrived for the debounce window.
// Returns false if the watcher is stopping.
func (w *Watcher) waitQuiet(ctx context.Context) bool {
	timer := time.NewTimer(w.debounceTime)
	defer timer.Stop()

	for {
		select {
		case <-w.triggerChan:
			if !timer.Stop() {
				<-timer.C
			}
			timer.Reset(w.debounceTime)
		case <-timer.C:
			return true
		case <-w.stopChan:
			return false
		case <-ctx.Done():
			return false
		}
	}
}
