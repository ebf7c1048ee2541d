// Package watch reports plugin files that change in the mods folder behind
// the session's back, so the user can be told to restart.
package watch

import (
	"context"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/alexisbeaulieu97/splinter/internal/logger"
	"github.com/alexisbeaulieu97/splinter/internal/manifest"
)

// DefaultDebounce is how long the folder must stay quiet before a Change is
// emitted.
const DefaultDebounce = 250 * time.Millisecond

// Change lists the plugin files touched during one burst of activity.
type Change struct {
	Paths []string
}

// Watcher watches one directory, non-recursively.
type Watcher struct {
	watcher  *fsnotify.Watcher
	dir      string
	debounce time.Duration
	ignore   func(path string) bool
	changes  chan Change
	log      *logger.Logger
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger injects a logger.
func WithLogger(log *logger.Logger) Option {
	return func(w *Watcher) {
		w.log = log
	}
}

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithIgnore drops events for paths the predicate accepts, such as renames
// the session made itself.
func WithIgnore(ignore func(path string) bool) Option {
	return func(w *Watcher) {
		w.ignore = ignore
	}
}

// New starts watching dir. Call Run to process events and Close when done.
func New(dir string, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		watcher:  fsw,
		dir:      dir,
		debounce: DefaultDebounce,
		changes:  make(chan Change, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.log = w.log.Component("watch").With("dir", dir)
	return w, nil
}

// Changes delivers debounced change sets. It is closed when Run returns.
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// Run processes filesystem events until ctx is cancelled or the watcher is
// closed.
func (w *Watcher) Run(ctx context.Context) {
	defer close(w.changes)

	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.log.WithFields(map[string]any{"path": event.Name, "op": event.Op.String()}).Debug("plugin file changed")
			pending[event.Name] = struct{}{}
			timer.Reset(w.debounce)
		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			change := Change{Paths: make([]string, 0, len(pending))}
			for path := range pending {
				change.Paths = append(change.Paths, path)
			}
			sort.Strings(change.Paths)
			clear(pending)
			select {
			case w.changes <- change:
			case <-ctx.Done():
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error(err, "watcher error")
		case <-ctx.Done():
			return
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	if filepath.Dir(event.Name) != filepath.Clean(w.dir) {
		return false
	}
	if _, ok := manifest.Classify(event.Name); !ok {
		return false
	}
	return w.ignore == nil || !w.ignore(event.Name)
}

// Close stops the underlying watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
