package facility

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"eyetrack/internal/logging"
)

const watchDebounce = 500 * time.Millisecond

// Watch reports changes beneath root, a job output root that may not exist
// yet. Until root appears its parent is watched; once it exists root and its
// immediate subdirectories are watched. The returned channel receives a
// debounced signal after activity and is closed when ctx is done.
func Watch(ctx context.Context, root string, logger *slog.Logger) (<-chan struct{}, error) {
	logger = logging.NewComponentLogger(logger, "facility-watch")
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	root = filepath.Clean(root)
	if err := addTree(watcher, root); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	signals := make(chan struct{}, 1)
	go func() {
		defer close(signals)
		defer watcher.Close()

		var debounce *time.Timer
		var fire <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				if debounce != nil {
					debounce.Stop()
				}
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
					continue
				}
				if event.Op&fsnotify.Create != 0 {
					if err := addTree(watcher, root); err != nil {
						logger.Debug("watch refresh failed", logging.Error(err))
					}
				}
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.NewTimer(watchDebounce)
				fire = debounce.C
			case <-fire:
				fire = nil
				select {
				case signals <- struct{}{}:
				default:
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Debug("watch error", logging.Error(err))
			}
		}
	}()
	return signals, nil
}

// addTree watches root and its immediate subdirectories, or the nearest
// existing parent of root when it is missing. Re-adding a path is a no-op.
func addTree(w *fsnotify.Watcher, root string) error {
	entries, err := os.ReadDir(root)
	if errors.Is(err, fs.ErrNotExist) {
		parent := filepath.Dir(root)
		if parent == root {
			return fmt.Errorf("watch %s: no existing parent", root)
		}
		if _, statErr := os.Stat(parent); statErr != nil {
			return addTree(w, parent)
		}
		if err := w.Add(parent); err != nil {
			return fmt.Errorf("watch %s: %w", parent, err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", root, err)
	}
	if err := w.Add(root); err != nil {
		return fmt.Errorf("watch %s: %w", root, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		sub := filepath.Join(root, entry.Name())
		if err := w.Add(sub); err != nil {
			return fmt.Errorf("watch %s: %w", sub, err)
		}
	}
	return nil
}
