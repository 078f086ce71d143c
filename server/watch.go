package server

import (
	"context"
	"github.com/fsnotify/fsnotify"
	"github.com/lni/dragonboat/v4/logger"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var watchLogger = logger.GetLogger("server/watch")

// defaultDebounce is used when no debounce interval is configured
const defaultDebounce = 250 * time.Millisecond

// watch reloads the databases whenever fragment files below the root change.
// Bursts of events are collapsed into one reload after the debounce interval.
// It returns when ctx is cancelled.
func (s *Server) watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	root := s.state.Load().loader.Config().Root
	if err := addRecursive(w, root); err != nil {
		return err
	}
	watchLogger.Infof("Watching %s for fragment changes", root)

	debounce := time.Duration(s.config.WatchDebounceMs) * time.Millisecond
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := addRecursive(w, event.Name); err != nil {
						watchLogger.Warningf("Failed to watch %s: %v", event.Name, err)
					}
				}
			}
			if !s.isRelevant(event) {
				continue
			}
			watchLogger.Debugf("%s %s", event.Op, event.Name)
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			watchLogger.Warningf("Error watching fragments: %v", err)

		case <-fire:
			fire = nil
			if err := s.Reload(); err != nil {
				watchLogger.Errorf("Reload failed, keeping previous databases: %v", err)
			}
		}
	}
}

// isRelevant reports whether an event may change the loaded databases:
// fragment files and removed or renamed directories.
func (s *Server) isRelevant(event fsnotify.Event) bool {
	ext := "." + s.state.Load().loader.Config().Extension
	if strings.HasSuffix(event.Name, ext) {
		return true
	}
	return event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Create)
}

// addRecursive adds dir and all its sub directories to the watcher.
func addRecursive(w *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
