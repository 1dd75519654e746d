// Package watcher reports changes inside scheme working directories so an open view can rescan.
package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/asd977/FlexSimulate/internal/fsutil"
)

const DefaultDebounce = 300 * time.Millisecond

var ErrAlreadyStarted = errors.New("watcher already started")

type Option func(*Watcher)

func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithOnChange sets the callback receiving the watched roots that changed, sorted. It runs on
// the watcher's goroutine and must not call Stop.
func WithOnChange(fn func(roots []string)) Option {
	return func(w *Watcher) { w.onChange = fn }
}

func WithOnError(fn func(error)) Option {
	return func(w *Watcher) { w.onError = fn }
}

// Watcher watches a set of root directories and their immediate subdirectories (model
// folders). Events are coalesced per root over the debounce window.
type Watcher struct {
	roots    []string
	debounce time.Duration
	onChange func([]string)
	onError  func(error)

	mu      sync.Mutex
	started bool
	fsw     *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup
}

func New(roots []string, opts ...Option) *Watcher {
	w := &Watcher{
		debounce: DefaultDebounce,
		onChange: func([]string) {},
		onError:  func(error) {},
	}
	seen := map[string]bool{}
	for _, r := range roots {
		c := fsutil.Canonicalize(r)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		w.roots = append(w.roots, c)
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Roots returns the canonical roots being watched.
func (w *Watcher) Roots() []string {
	return append([]string(nil), w.roots...)
}

// Start begins watching. Roots that cannot be watched are reported through the error callback
// and skipped.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return ErrAlreadyStarted
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	for _, root := range w.roots {
		if err := fsw.Add(root); err != nil {
			w.onError(err)
			continue
		}
		for _, sub := range subdirs(root) {
			if err := fsw.Add(sub); err != nil {
				w.onError(err)
			}
		}
	}

	w.fsw = fsw
	w.done = make(chan struct{})
	w.started = true
	w.wg.Add(1)
	go w.loop(fsw, w.done)
	return nil
}

// Stop ends watching and waits for the watcher goroutine to exit. Pending changes are dropped.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.started {
		w.mu.Unlock()
		return
	}
	w.started = false
	close(w.done)
	fsw := w.fsw
	w.fsw = nil
	w.mu.Unlock()

	w.wg.Wait()
	_ = fsw.Close()
}

func (w *Watcher) loop(fsw *fsnotify.Watcher, done <-chan struct{}) {
	defer w.wg.Done()

	pending := map[string]bool{}
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-done:
			return

		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			root, ok := w.rootFor(ev.Name)
			if !ok {
				continue
			}
			// New model folders need their own watch.
			if ev.Has(fsnotify.Create) && filepath.Dir(ev.Name) == root && fsutil.IsDir(ev.Name) {
				if err := fsw.Add(ev.Name); err != nil {
					w.onError(err)
				}
			}
			pending[root] = true
			timer.Reset(w.debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.onError(err)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			changed := make([]string, 0, len(pending))
			for r := range pending {
				changed = append(changed, r)
			}
			sort.Strings(changed)
			clear(pending)
			w.onChange(changed)
		}
	}
}

func (w *Watcher) rootFor(path string) (string, bool) {
	best := ""
	for _, r := range w.roots {
		if fsutil.IsWithin(path, r) && len(r) > len(best) {
			best = r
		}
	}
	return best, best != ""
}

func subdirs(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	return out
}
