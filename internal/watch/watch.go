// Package watch rebuilds the bank when its inputs change. Events from the
// image tree and the metadata tables are debounced and collapsed into one
// rebuild; rebuilds never overlap.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/backmassage/qbank/internal/naming"
)

// DefaultDebounce is the quiet period after the last event before a rebuild.
const DefaultDebounce = 300 * time.Millisecond

// Logger is the subset of logging.Logger used by the watcher.
type Logger interface {
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
	Debug(format string, args ...interface{})
}

// Options selects what to watch.
type Options struct {
	Roots    []string // directories watched recursively (image tree)
	Files    []string // single files (tables); their directories are watched
	Debounce time.Duration
}

// Stats counts watcher activity.
type Stats struct {
	Events   int
	Rebuilds int
	Failures int
}

// Watcher runs onChange after inputs settle.
type Watcher struct {
	fsw      *fsnotify.Watcher
	roots    []string
	files    map[string]bool
	debounce time.Duration
	onChange func(context.Context) error
	log      Logger

	mu    sync.Mutex
	stats Stats
}

// New creates a watcher and registers every directory. Call Run to start
// processing events.
func New(opts Options, onChange func(context.Context) error, log Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	w := &Watcher{
		fsw:      fsw,
		files:    make(map[string]bool),
		debounce: opts.Debounce,
		onChange: onChange,
		log:      log,
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}

	for _, r := range opts.Roots {
		abs, err := filepath.Abs(r)
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("resolve %s: %w", r, err)
		}
		w.roots = append(w.roots, abs)
		if err := w.addRecursive(abs); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	for _, f := range opts.Files {
		abs, err := filepath.Abs(f)
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("resolve %s: %w", f, err)
		}
		w.files[abs] = true
		dir := filepath.Dir(abs)
		if err := fsw.Add(dir); err != nil {
			// The table directory may appear later; the image tree is enough
			// to keep watching.
			log.Debug("Not watching %s: %v", dir, err)
		}
	}
	return w, nil
}

// addRecursive watches dir and every directory below it.
func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(p); err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
		w.log.Debug("Watching %s", p)
		return nil
	})
}

// Stats returns a snapshot of the counters.
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

// Run processes events until ctx is cancelled, then closes the watcher. It
// returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()
	pending := false

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watcher event channel closed")
			}
			if !w.relevant(ev) {
				continue
			}
			w.mu.Lock()
			w.stats.Events++
			w.mu.Unlock()
			w.log.Debug("Change: %s %s", ev.Op, ev.Name)
			if ev.Has(fsnotify.Create) && w.underRoot(ev.Name) {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					if err := w.addRecursive(ev.Name); err != nil {
						w.log.Warn("%v", err)
					}
				}
			}
			if pending && !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)
			pending = true

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watcher error channel closed")
			}
			w.log.Warn("Watcher error: %v", err)

		case <-timer.C:
			pending = false
			w.rebuild(ctx)
		}
	}
}

func (w *Watcher) rebuild(ctx context.Context) {
	err := w.onChange(ctx)
	w.mu.Lock()
	w.stats.Rebuilds++
	if err != nil {
		w.stats.Failures++
	}
	w.mu.Unlock()
	if err != nil {
		w.log.Error("Rebuild failed: %v", err)
	}
}

// relevant keeps events on watched tables, images, and directories under a
// root. Chmod-only events are ignored.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	name := filepath.Clean(ev.Name)
	if w.files[name] {
		return true
	}
	if !w.underRoot(name) {
		return false
	}
	if strings.HasPrefix(filepath.Base(name), ".") {
		return false
	}
	if naming.IsImage(name) {
		return true
	}
	// Removed or renamed directories can no longer be stat'ed; count them.
	fi, err := os.Stat(name)
	return err != nil || fi.IsDir()
}

func (w *Watcher) underRoot(p string) bool {
	for _, r := range w.roots {
		if p == r || strings.HasPrefix(p, r+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
