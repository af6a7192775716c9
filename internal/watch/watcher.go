// Package watch re-runs an analysis callback whenever a decklist file
// changes on disk.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events an editor save produces.
const DefaultDebounce = 500 * time.Millisecond

// Watcher monitors a single decklist file and invokes OnChange after each
// settled modification.
type Watcher struct {
	Path     string
	Debounce time.Duration
	Logger   *slog.Logger
	OnChange func(ctx context.Context) error
}

func (w *Watcher) logger() *slog.Logger {
	if w.Logger == nil {
		return slog.Default()
	}
	return w.Logger
}

func (w *Watcher) debounce() time.Duration {
	if w.Debounce <= 0 {
		return DefaultDebounce
	}
	return w.Debounce
}

// Run blocks until the context is cancelled, invoking OnChange after each
// debounced change to the watched file. Callback errors are logged, not
// fatal: a broken decklist mid-edit should not kill the session.
//
// The parent directory is watched rather than the file itself because many
// editors save by renaming a temp file over the original, which drops a
// watch on the old inode.
func (w *Watcher) Run(ctx context.Context) (err error) {
	if w.OnChange == nil {
		return fmt.Errorf("watcher has no change callback")
	}

	absPath, err := filepath.Abs(w.Path)
	if err != nil {
		return fmt.Errorf("resolve watch path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() {
		if closeErr := watcher.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		return fmt.Errorf("failed to watch decklist directory: %w", err)
	}

	logger := w.logger()
	logger.Info("watching decklist", "path", absPath, "debounce", w.debounce())

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event := <-watcher.Events:
			if filepath.Clean(event.Name) != absPath {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			// Restart the debounce window on every event in the burst.
			if timer == nil {
				timer = time.NewTimer(w.debounce())
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce())
			}

		case watchErr := <-watcher.Errors:
			logger.Warn("file watcher error", "error", watchErr)

		case <-timerC:
			timer = nil
			timerC = nil
			logger.Info("decklist changed, re-running analysis", "path", absPath)
			if err := w.OnChange(ctx); err != nil {
				logger.Warn("analysis failed after change", "error", err)
			}
		}
	}
}
