package watch

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher calls onChange when an entry is created, removed or renamed in a watched directory.
// Bursts of events are collapsed into one call per debounce window.
type Watcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onChange func()

	mu    sync.Mutex
	dirs  map[string]bool
	timer *time.Timer
}

// New creates a watcher; call Run to start delivering changes
func New(debounce time.Duration, onChange func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher:  fsw,
		debounce: debounce,
		onChange: onChange,
		dirs:     make(map[string]bool),
	}, nil
}

// Watch replaces the watched set with dirs
func (w *Watcher) Watch(dirs []string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	want := make(map[string]bool, len(dirs))
	for _, d := range dirs {
		want[d] = true
	}

	for d := range w.dirs {
		if !want[d] {
			_ = w.watcher.Remove(d)
			delete(w.dirs, d)
		}
	}
	for d := range want {
		if w.dirs[d] {
			continue
		}
		if err := w.watcher.Add(d); err != nil {
			log.Printf("[watch] cannot watch %s: %v", d, err)
			continue
		}
		w.dirs[d] = true
	}
}

// Watched returns the number of directories currently watched
func (w *Watcher) Watched() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.dirs)
}

// Run delivers events until ctx is done or the watcher is closed
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				w.schedule()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[watch] error: %v", err)
		case <-ctx.Done():
			return
		}
	}
}

// Close stops the watcher and any pending notification
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.watcher.Close()
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.onChange)
}
