package project

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports changed Lua files under a set of paths. Events are
// collected for a quiet period before being delivered, so an editor
// writing a file in several steps triggers one run.
type Watcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	dirs     map[string]bool
	files    map[string]bool
}

func NewWatcher(debounce time.Duration) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	return &Watcher{watcher: w, debounce: debounce, dirs: make(map[string]bool), files: make(map[string]bool)}, nil
}

// Add watches a file, or a directory and all its non-hidden
// subdirectories.
func (w *Watcher) Add(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		w.files[filepath.Clean(path)] = true
		return w.watcher.Add(filepath.Dir(path))
	}
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != path && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		w.dirs[filepath.Clean(p)] = true
		return w.watcher.Add(p)
	})
}

// Watch blocks until ctx is done, calling onChange with the sorted list of
// Lua files written or created since the previous call.
func (w *Watcher) Watch(ctx context.Context, onChange func(paths []string)) error {
	pending := make(map[string]bool)
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !w.relevant(event) {
				continue
			}
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.Add(event.Name); err != nil {
						log.Warningf("watch %s: %v", event.Name, err)
					}
					continue
				}
			}
			log.Debugf("%s %s", event.Op, event.Name)
			pending[event.Name] = true
			timer.Reset(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			log.Errorf("watch: %v", err)

		case <-timer.C:
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			clear(pending)
			onChange(paths)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
		return false
	}
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			return !strings.HasPrefix(filepath.Base(event.Name), ".")
		}
	}
	if !IsLuaFile(event.Name) {
		return false
	}
	name := filepath.Clean(event.Name)
	return w.files[name] || w.dirs[filepath.Dir(name)]
}

func (w *Watcher) Close() error {
	return w.watcher.Close()
}
