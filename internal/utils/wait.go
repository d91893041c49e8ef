package utils

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/apex/log"
	"github.com/fsnotify/fsnotify"
)

// WaitForDirectory blocks until dir exists (and is a directory) or ctx is done.
// The parent directory is watched so a later mkdir/move wakes the wait.
func WaitForDirectory(ctx context.Context, dir string) error {
	if fi, err := os.Stat(dir); err == nil && fi.IsDir() {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %v", err)
	}
	defer watcher.Close()

	parent := filepath.Dir(filepath.Clean(dir))
	if err := watcher.Add(parent); err != nil {
		return fmt.Errorf("failed to watch %s: %v", parent, err)
	}

	// it may have appeared between the first stat and Add
	if fi, err := os.Stat(dir); err == nil && fi.IsDir() {
		return nil
	}

	Indent(log.Warn, 2)(fmt.Sprintf("Waiting for '%s' folder to appear in %s", filepath.Base(dir), parent))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher closed")
			}
			if filepath.Clean(event.Name) != filepath.Clean(dir) {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if fi, err := os.Stat(dir); err == nil && fi.IsDir() {
				log.WithField("dir", dir).Debug("Directory found")
				return nil
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher closed")
			}
			log.WithError(err).Warn("watcher error")
		}
	}
}
