// SPDX-License-Identifier: MPL-2.0

// Package watch calls back when any of a set of source paths changes.
//
// Files are watched through their parent directory and directories are
// watched non-recursively, matching how sources are read. Events arriving
// within the debounce window are coalesced so the callback fires once with
// every changed path.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// defaultDebounce is the quiet period before the callback fires. Editors
// often write a temporary file and rename it; both events land in one window.
const defaultDebounce = 300 * time.Millisecond

// defaultIgnores are base-name patterns for editor and OS droppings.
var defaultIgnores = []string{
	"*.swp",
	"*.swo",
	"*~",
	".#*",
	".DS_Store",
}

// ErrNoPaths is returned by New when there is nothing to watch.
var ErrNoPaths = errors.New("watch: no paths to watch")

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Paths are the files and directories to watch. A path that does not
		// exist yet is watched through its parent, so creating it counts as
		// a change.
		Paths []string

		// Exclude lists paths whose changes never count, such as the file
		// the callback itself writes.
		Exclude []string

		// Ignore are extra doublestar patterns matched against base names.
		Ignore []string

		// Debounce is the quiet period after the last event. Zero or negative
		// values fall back to defaultDebounce.
		Debounce time.Duration

		// OnChange receives the changed paths, sorted. A nil callback is a
		// no-op; a returned error is logged and watching continues.
		OnChange func(ctx context.Context, changed []string) error

		// Logger defaults to slog.Default().
		Logger *slog.Logger
	}

	// Watcher fires a debounced callback when a watched path changes. Run
	// must be called exactly once.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		dirs     map[string]struct{}
		files    map[string]struct{}
		exclude  map[string]struct{}
		ignores  []string
		debounce time.Duration
		logger   *slog.Logger
		started  atomic.Bool
	}
)

// New resolves cfg.Paths and registers them with fsnotify.
func New(cfg Config) (*Watcher, error) {
	if len(cfg.Paths) == 0 {
		return nil, ErrNoPaths
	}
	for _, pat := range cfg.Ignore {
		if !doublestar.ValidatePattern(pat) {
			return nil, fmt.Errorf("watch: invalid ignore pattern %q: %w", pat, doublestar.ErrBadPattern)
		}
	}

	w := &Watcher{
		cfg:      cfg,
		dirs:     map[string]struct{}{},
		files:    map[string]struct{}{},
		exclude:  map[string]struct{}{},
		ignores:  append(slices.Clone(defaultIgnores), cfg.Ignore...),
		debounce: cfg.Debounce,
		logger:   cfg.Logger,
	}
	if w.debounce <= 0 {
		w.debounce = defaultDebounce
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}
	for _, p := range cfg.Exclude {
		if abs, err := filepath.Abs(p); err == nil {
			w.exclude[abs] = struct{}{}
		}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}
	w.fsw = fsw

	added := map[string]struct{}{}
	for _, p := range cfg.Paths {
		if err := w.register(p, added); err != nil {
			w.Close() //nolint:errcheck // best-effort cleanup
			return nil, err
		}
	}
	return w, nil
}

// register watches a directory itself, or a file through its parent.
func (w *Watcher) register(path string, added map[string]struct{}) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watch: resolve %s: %w", path, err)
	}
	target := abs
	if info, statErr := os.Stat(abs); statErr == nil && info.IsDir() {
		w.dirs[abs] = struct{}{}
	} else {
		w.files[abs] = struct{}{}
		target = filepath.Dir(abs)
	}
	if _, ok := added[target]; ok {
		return nil
	}
	if err := w.fsw.Add(target); err != nil {
		return fmt.Errorf("watch: add %s: %w", target, err)
	}
	added[target] = struct{}{}
	return nil
}

// Close releases the fsnotify watcher. Run closes it on return.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// relevant reports whether an event on name concerns a watched path.
func (w *Watcher) relevant(name string) bool {
	if _, ok := w.exclude[name]; ok {
		return false
	}
	if w.isIgnored(filepath.Base(name)) {
		return false
	}
	if _, ok := w.files[name]; ok {
		return true
	}
	if _, ok := w.dirs[name]; ok {
		return true
	}
	_, ok := w.dirs[filepath.Dir(name)]
	return ok
}

func (w *Watcher) isIgnored(base string) bool {
	for _, pat := range w.ignores {
		if matched, err := doublestar.Match(pat, base); err == nil && matched {
			return true
		}
	}
	return false
}

// Run blocks until ctx is cancelled, dispatching debounced callbacks. It
// returns nil on cancellation and an error when the watcher breaks. A
// callback still running when the next window closes is not started twice;
// the pending changes are retried after another window.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return errors.New("watch: Run called more than once")
	}

	var (
		mu      sync.Mutex
		pending = map[string]struct{}{}
		timer   *time.Timer
		running atomic.Bool
	)

	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !running.CompareAndSwap(false, true) {
			w.logger.Debug("callback still running, postponing changes")
			mu.Lock()
			if timer != nil {
				timer.Reset(w.debounce)
			}
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		if len(pending) == 0 {
			mu.Unlock()
			return
		}
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()

		if w.cfg.OnChange == nil {
			return
		}
		if err := w.cfg.OnChange(ctx, changed); err != nil {
			w.logger.Warn("watch callback failed", "error", err)
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if err := w.fsw.Close(); err != nil {
			w.logger.Warn("close fsnotify watcher", "error", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: fsnotify event channel closed unexpectedly")
			}
			if evt.Has(fsnotify.Chmod) && !evt.Has(fsnotify.Write) {
				continue
			}
			if !w.relevant(evt.Name) {
				continue
			}
			w.logger.Debug("source changed", "path", evt.Name, "op", evt.Op.String())

			mu.Lock()
			pending[evt.Name] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: fsnotify error channel closed unexpectedly")
			}
			if fatal(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			w.logger.Warn("fsnotify error", "error", err)
		}
	}
}
