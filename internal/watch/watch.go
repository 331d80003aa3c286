// Package watch reports MATLAB files that changed under a project root.
// Events are filtered through the same include/exclude globs as the walker
// and coalesced until the tree has been quiet for the debounce period.
package watch

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"mcomment/internal/logging"
	"mcomment/internal/walk"
)

// DefaultDebounce is used when New is given a non-positive debounce.
const DefaultDebounce = 500 * time.Millisecond

// ErrStarted is returned by Start when the watcher is already running.
var ErrStarted = errors.New("watcher already started")

// Watcher watches a directory tree recursively.
type Watcher struct {
	fsw      *fsnotify.Watcher
	root     string
	match    *walk.Matcher
	debounce time.Duration

	cancel context.CancelFunc
	done   chan struct{}

	pendingMu sync.Mutex
	pending   map[string]struct{} // root-relative paths

	timerMu sync.Mutex
	timer   *time.Timer

	startOnce sync.Once
	stopOnce  sync.Once
}

// New watches root and every directory below it that m does not exclude.
// A nil matcher accepts every file.
func New(root string, m *walk.Matcher, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if m == nil {
		if m, err = walk.NewMatcher(nil, nil); err != nil {
			return nil, err
		}
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fsw:      fsw,
		root:     abs,
		match:    m,
		debounce: debounce,
		pending:  make(map[string]struct{}),
		done:     make(chan struct{}),
	}
	if err := w.addTree(abs); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Start delivers batches of changed root-relative paths, sorted, to fn until
// ctx is cancelled or Stop is called. fn runs on the watcher goroutine; a
// batch arriving while fn is busy is delivered after it returns.
func (w *Watcher) Start(ctx context.Context, fn func(changed []string)) error {
	if fn == nil {
		return errors.New("watch: nil callback")
	}
	err := ErrStarted
	w.startOnce.Do(func() {
		ctx, w.cancel = context.WithCancel(ctx)
		go w.loop(ctx, fn)
		err = nil
	})
	return err
}

// Stop ends watching and waits for the watcher goroutine. It is safe to
// call more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		// A watcher that was never started has no goroutine to wait for.
		w.startOnce.Do(func() { close(w.done) })
		if w.cancel != nil {
			w.cancel()
		}
		<-w.done
		err = w.fsw.Close()
	})
	return err
}

func (w *Watcher) loop(ctx context.Context, fn func([]string)) {
	defer close(w.done)
	log := logging.Logger()
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Has(fsnotify.Create) {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					if err := w.addTree(ev.Name); err != nil {
						log.Warnw("failed to watch new directory", "dir", ev.Name, "error", err)
					}
					continue
				}
			}
			rel, ok := w.accept(ev)
			if !ok {
				continue
			}
			log.Debugw("change", "path", rel, "op", ev.Op.String())
			w.pendingMu.Lock()
			w.pending[rel] = struct{}{}
			w.pendingMu.Unlock()
			w.resetTimer(fire)

		case <-fire:
			if batch := w.drain(); len(batch) > 0 {
				fn(batch)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Warnw("file watcher error", "error", err)
		}
	}
}

// accept reports whether ev concerns a selected file and returns its
// root-relative path.
func (w *Watcher) accept(ev fsnotify.Event) (string, bool) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return "", false
	}
	rel, ok := w.relative(ev.Name)
	if !ok || w.excludedDir(rel) {
		return "", false
	}
	if !w.match.Included(rel) || w.match.Excluded(rel, false) {
		return "", false
	}
	return rel, true
}

// excludedDir reports whether any parent directory of rel is excluded.
func (w *Watcher) excludedDir(rel string) bool {
	for i := strings.IndexByte(rel, '/'); i >= 0; i = nextSlash(rel, i) {
		if w.match.Excluded(rel[:i], true) {
			return true
		}
	}
	return false
}

func nextSlash(s string, i int) int {
	j := strings.IndexByte(s[i+1:], '/')
	if j < 0 {
		return -1
	}
	return i + 1 + j
}

func (w *Watcher) relative(path string) (string, bool) {
	rel, err := filepath.Rel(w.root, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func (w *Watcher) drain() []string {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()
	if len(w.pending) == 0 {
		return nil
	}
	out := make([]string, 0, len(w.pending))
	for p := range w.pending {
		out = append(out, p)
	}
	clear(w.pending)
	slices.Sort(out)
	return out
}

func (w *Watcher) resetTimer(fire chan<- struct{}) {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case fire <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) stopTimer() {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

// addTree adds dir and its subdirectories, skipping excluded ones.
func (w *Watcher) addTree(dir string) error {
	log := logging.Logger()
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			log.Warnw("error accessing path", "path", path, "error", err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if rel, ok := w.relative(path); ok && w.match.Excluded(rel, true) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			log.Warnw("failed to watch directory", "dir", path, "error", err)
		}
		return nil
	})
}
