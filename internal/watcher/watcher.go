// Package watcher reports when a loaded export file changes on disk.
package watcher

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"tab-sender/internal/logger"
)

const component = "FileWatcher"

// DefaultDebounce coalesces the burst of events a single save produces.
const DefaultDebounce = 250 * time.Millisecond

var ErrWatcherClosed = errors.New("watcher closed")

// FileWatcher calls onChange once per burst of writes to a single file.
// The parent directory is watched so editors that replace the file on save
// are still followed.
type FileWatcher struct {
	mu sync.Mutex

	watcher  *fsnotify.Watcher
	target   string
	debounce time.Duration
	onChange func(path string)
	log      logger.Logger

	timer    *time.Timer
	closed   bool
	closeCh  chan struct{}
	closedWg sync.WaitGroup
}

// New starts watching path. A non-positive debounce uses DefaultDebounce.
func New(path string, debounce time.Duration, onChange func(path string), log logger.Logger) (*FileWatcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w := &FileWatcher{
		watcher:  fsw,
		target:   absPath,
		debounce: debounce,
		onChange: onChange,
		log:      log,
		closeCh:  make(chan struct{}),
	}

	w.closedWg.Add(1)
	go w.processLoop()

	log.Debug(component, "watching file", map[string]interface{}{"path": absPath})
	return w, nil
}

// Path is the absolute path being watched.
func (w *FileWatcher) Path() string {
	return w.target
}

func (w *FileWatcher) processLoop() {
	defer w.closedWg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.schedule()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warning(component, "watch error", map[string]interface{}{
				"path":  w.target,
				"error": err.Error(),
			})
		}
	}
}

func (w *FileWatcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.fire)
}

func (w *FileWatcher) fire() {
	w.mu.Lock()
	closed := w.closed
	w.mu.Unlock()
	if closed {
		return
	}

	w.log.Debug(component, "file changed", map[string]interface{}{"path": w.target})
	w.onChange(w.target)
}

// Close stops watching. It is safe to call more than once.
func (w *FileWatcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWatcherClosed
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	close(w.closeCh)
	w.mu.Unlock()

	err := w.watcher.Close()
	w.closedWg.Wait()
	return err
}

// Shutdown closes the watcher, ignoring repeated calls.
func (w *FileWatcher) Shutdown() {
	_ = w.Close()
}
