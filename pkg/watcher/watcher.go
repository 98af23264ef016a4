// Package watcher re-runs a callback when sketch source files change.
package watcher

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/birktj/cad-kernel-experiments/pkg/brep"
)

// DefaultDebounce is a reasonable delay for editors that write a file in
// several steps.
const DefaultDebounce = 100 * time.Millisecond

// FileWatcher watches files for changes and triggers callbacks.
type FileWatcher struct {
	watcher   *fsnotify.Watcher
	mu        sync.Mutex
	callbacks map[string]func(string)
	debounce  time.Duration
	timers    map[string]*time.Timer
	started   bool
	done      chan struct{}
}

// NewFileWatcher creates a new file watcher. Events for the same file that
// arrive within debounce of each other trigger a single callback.
func NewFileWatcher(debounce time.Duration) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watcher: create: %w", err)
	}

	return &FileWatcher{
		watcher:   w,
		callbacks: make(map[string]func(string)),
		debounce:  debounce,
		timers:    make(map[string]*time.Timer),
		done:      make(chan struct{}),
	}, nil
}

// Watch registers callback for each of files. The callback receives the
// absolute path of the file that changed.
//
// The containing directory is watched rather than the file itself, so
// editors that replace a file by renaming over it keep triggering events.
func (fw *FileWatcher) Watch(files []string, callback func(string)) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	for _, file := range files {
		absPath, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("watcher: resolve %s: %w", file, err)
		}

		if err := fw.watcher.Add(filepath.Dir(absPath)); err != nil {
			return fmt.Errorf("watcher: watch %s: %w", absPath, err)
		}

		fw.callbacks[absPath] = callback
	}

	return nil
}

// Start begins watching for file changes in a background goroutine. It
// returns immediately.
func (fw *FileWatcher) Start() {
	fw.mu.Lock()
	fw.started = true
	fw.mu.Unlock()

	go func() {
		defer close(fw.done)
		for {
			select {
			case event, ok := <-fw.watcher.Events:
				if !ok {
					return
				}

				// Only trigger on write or create events.
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
					fw.handleFileChange(event.Name)
				}

			case err, ok := <-fw.watcher.Errors:
				if !ok {
					return
				}
				brep.Logger().Warn("watcher: error", slog.Any("err", err))
			}
		}
	}()
}

// handleFileChange handles a file change event with debouncing.
func (fw *FileWatcher) handleFileChange(filePath string) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	callback, exists := fw.callbacks[filePath]
	if !exists {
		return
	}

	if timer, exists := fw.timers[filePath]; exists {
		timer.Stop()
	}

	brep.Logger().Debug("watcher: change", slog.String("file", filePath))
	fw.timers[filePath] = time.AfterFunc(fw.debounce, func() {
		callback(filePath)
	})
}

// Close stops the watcher and cancels pending callbacks. If Start was
// called, Close waits for the event loop to exit.
func (fw *FileWatcher) Close() error {
	err := fw.watcher.Close()

	fw.mu.Lock()
	for _, timer := range fw.timers {
		timer.Stop()
	}
	started := fw.started
	fw.mu.Unlock()

	if started {
		<-fw.done
	}
	return err
}

// RemoveAll stops watching every registered file.
func (fw *FileWatcher) RemoveAll() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	dirs := make(map[string]bool)
	for file := range fw.callbacks {
		dirs[filepath.Dir(file)] = true
	}
	for dir := range dirs {
		if err := fw.watcher.Remove(dir); err != nil {
			return fmt.Errorf("watcher: unwatch %s: %w", dir, err)
		}
	}

	for _, timer := range fw.timers {
		timer.Stop()
	}
	fw.callbacks = make(map[string]func(string))
	fw.timers = make(map[string]*time.Timer)
	return nil
}
