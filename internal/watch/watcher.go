// Package watch reports on-disk changes to the game files behind the open
// settings screen.
package watch

import (
	"fmt"
	"log"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/conquest-enhanced/ceconfig/internal/logging"
)

// DefaultDebounce coalesces the burst of events an editor produces on save.
const DefaultDebounce = 500 * time.Millisecond

// Change lists the watched files that changed during one debounce window.
type Change struct {
	Paths []string
}

// Watcher watches the parent directories of a fixed set of files and
// delivers debounced Change values on C.
type Watcher struct {
	C <-chan Change

	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	done     chan struct{}
	out      chan Change
	files    map[string]bool
	pending  map[string]bool
	timer    *time.Timer
	debounce time.Duration
	mutedTil time.Time
}

// New starts watching files. Directories that cannot be watched are logged
// and skipped; an error is returned only if no watcher could be created.
func New(files []string, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	out := make(chan Change, 1)
	w := &Watcher{
		C:        out,
		watcher:  fw,
		done:     make(chan struct{}),
		out:      out,
		files:    make(map[string]bool),
		pending:  make(map[string]bool),
		debounce: debounce,
	}

	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			abs = f
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			log.Printf("WARN: Failed to watch %s: %v", dir, err)
			continue
		}
		logging.Debug("Watching %s", dir)
	}

	go w.loop(fw)
	return w, nil
}

// Mute drops events for d. Used around the program's own writes.
func (w *Watcher) Mute(d time.Duration) {
	w.mu.Lock()
	w.mutedTil = time.Now().Add(d)
	w.mu.Unlock()
}

// Stop closes the underlying watcher. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.watcher == nil {
		return
	}
	close(w.done)
	if w.timer != nil {
		w.timer.Stop()
	}
	w.watcher.Close()
	w.watcher = nil
}

func (w *Watcher) loop(fw *fsnotify.Watcher) {
	for {
		select {
		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.note(event.Name)

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			log.Printf("ERROR: File watcher error: %v", err)

		case <-w.done:
			return
		}
	}
}

func (w *Watcher) note(name string) {
	abs, err := filepath.Abs(name)
	if err != nil {
		abs = name
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.files[abs] || time.Now().Before(w.mutedTil) {
		return
	}
	w.pending[abs] = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

func (w *Watcher) flush() {
	w.mu.Lock()
	if len(w.pending) == 0 || w.watcher == nil {
		w.mu.Unlock()
		return
	}
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	w.pending = make(map[string]bool)
	w.mu.Unlock()

	sort.Strings(paths)
	log.Printf("INFO: File change detected: %v", paths)
	select {
	case w.out <- Change{Paths: paths}:
	case <-w.done:
	}
}
