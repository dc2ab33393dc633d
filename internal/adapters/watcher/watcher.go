// Package watcher implements file system watching for watch mode.
package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.lanes.dev/lanes/internal/core/domain"
	"go.lanes.dev/lanes/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

// shouldSkipDirectories are directories that should not be watched.
var shouldSkipDirectories = map[string]bool{
	".git":              true,
	".jj":               true,
	"target":            true,
	"node_modules":      true,
	domain.LanesDirName: true,
}

// Watcher implements recursive file system watching using fsnotify, with
// debounced change batches.
type Watcher struct {
	logger ports.Logger
}

// NewWatcher creates a new file system watcher.
func NewWatcher(logger ports.Logger) *Watcher {
	return &Watcher{logger: logger}
}

// Watch blocks until ctx is cancelled, invoking onChange with coalesced
// batches of changed paths under root.
func (w *Watcher) Watch(ctx context.Context, root string, onChange func(paths []string)) error {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return zerr.Wrap(err, domain.ErrWatchFailed.Error())
	}
	defer func() {
		_ = fsWatcher.Close()
	}()

	if err := w.addRecursively(fsWatcher, root); err != nil {
		return err
	}

	debouncer := NewDebouncer(0, onChange)
	defer debouncer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsWatcher.Events:
			if !ok {
				return nil
			}

			if w.shouldIgnore(root, event.Name) {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			debouncer.Add(event.Name)

			// New directories need to be added to the watch set.
			if event.Op&fsnotify.Create == fsnotify.Create {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !shouldSkipDirectories[info.Name()] {
					_ = w.addRecursively(fsWatcher, event.Name)
				}
			}

		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file system watcher error: " + err.Error())
		}
	}
}

// addRecursively walks the directory tree under root and adds every
// non-skipped directory to the watch set.
func (w *Watcher) addRecursively(fsWatcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Skip directories we cannot access.
			return nil //nolint:nilerr
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && shouldSkipDirectories[d.Name()] {
			return fs.SkipDir
		}
		if err := fsWatcher.Add(path); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrWatchFailed.Error()), "path", path)
		}
		return nil
	})
}

// shouldIgnore reports whether an event path falls inside a skipped
// directory, such as the metadata dir written by the runner itself.
func (w *Watcher) shouldIgnore(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	for part := range strings.SplitSeq(rel, string(filepath.Separator)) {
		if shouldSkipDirectories[part] {
			return true
		}
	}
	return false
}
