// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recorder collects callback invocations.
type recorder struct {
	mu      sync.Mutex
	calls   int
	changed []string
	fired   chan struct{}
}

func newRecorder() *recorder {
	return &recorder{fired: make(chan struct{}, 16)}
}

func (r *recorder) onChange(_ context.Context, changed []string) error {
	r.mu.Lock()
	r.calls++
	r.changed = append(r.changed, changed...)
	r.mu.Unlock()
	r.fired <- struct{}{}
	return nil
}

func (r *recorder) snapshot() (int, []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls, slices.Clone(r.changed)
}

// start runs w until the test ends.
func start(t *testing.T, w *Watcher) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		if err := <-errCh; err != nil {
			t.Errorf("Run() error: %v", err)
		}
	})
	// Give the event loop time to start.
	time.Sleep(20 * time.Millisecond)
}

func write(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestWatcher_DebouncesDirectoryChanges(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	rec := newRecorder()
	w, err := New(Config{
		Paths:    []string{dir},
		Debounce: 100 * time.Millisecond,
		OnChange: rec.onChange,
		Logger:   quietLogger(),
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	start(t, w)

	for _, name := range []string{"name", "version", "summary"} {
		write(t, filepath.Join(dir, name), "x\n")
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-rec.fired:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}
	time.Sleep(250 * time.Millisecond)

	calls, changed := rec.snapshot()
	if calls != 1 {
		t.Errorf("expected 1 debounced callback, got %d", calls)
	}
	for _, name := range []string{"name", "version", "summary"} {
		if !slices.Contains(changed, filepath.Join(dir, name)) {
			t.Errorf("expected %s among changed paths %v", name, changed)
		}
	}
	if !slices.IsSorted(changed) {
		t.Errorf("changed paths should be sorted: %v", changed)
	}
}

func TestWatcher_FileThroughParent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	watched := filepath.Join(dir, "README.html")
	write(t, watched, "<html></html>")

	rec := newRecorder()
	w, err := New(Config{
		Paths:    []string{watched},
		Debounce: 50 * time.Millisecond,
		OnChange: rec.onChange,
		Logger:   quietLogger(),
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	start(t, w)

	// A sibling is not a source.
	write(t, filepath.Join(dir, "other.txt"), "noise")
	select {
	case <-rec.fired:
		t.Fatal("a sibling of a watched file must not fire")
	case <-time.After(300 * time.Millisecond):
	}

	write(t, watched, "<html><body></body></html>")
	select {
	case <-rec.fired:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}
	if _, changed := rec.snapshot(); !slices.Equal(changed, []string{watched}) {
		t.Errorf("changed = %v, want [%s]", changed, watched)
	}
}

func TestWatcher_MissingFileCreation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	later := filepath.Join(dir, "extra.yaml")

	rec := newRecorder()
	w, err := New(Config{
		Paths:    []string{later},
		Debounce: 50 * time.Millisecond,
		OnChange: rec.onChange,
		Logger:   quietLogger(),
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	start(t, w)

	write(t, later, "summary: later\n")
	select {
	case <-rec.fired:
	case <-time.After(5 * time.Second):
		t.Fatal("creating a watched path should fire")
	}
}

func TestWatcher_ExcludeAndIgnore(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	index := filepath.Join(dir, ".index")

	rec := newRecorder()
	w, err := New(Config{
		Paths:    []string{dir},
		Exclude:  []string{index},
		Ignore:   []string{"*.bak"},
		Debounce: 50 * time.Millisecond,
		OnChange: rec.onChange,
		Logger:   quietLogger(),
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	start(t, w)

	write(t, index, "name: widget\n")
	write(t, filepath.Join(dir, "name.bak"), "old")
	write(t, filepath.Join(dir, ".name.swp"), "swap")
	select {
	case <-rec.fired:
		_, changed := rec.snapshot()
		t.Fatalf("excluded and ignored paths fired: %v", changed)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_CallbackErrorKeepsWatching(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	calls := make(chan struct{}, 4)
	w, err := New(Config{
		Paths:    []string{dir},
		Debounce: 30 * time.Millisecond,
		OnChange: func(context.Context, []string) error {
			calls <- struct{}{}
			return errors.New("lock failed")
		},
		Logger: quietLogger(),
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	start(t, w)

	for i := range 2 {
		write(t, filepath.Join(dir, "version"), "1.0.0\n")
		select {
		case <-calls:
		case <-time.After(5 * time.Second):
			t.Fatalf("callback %d did not fire", i+1)
		}
	}
}

func TestWatcher_NewErrors(t *testing.T) {
	t.Parallel()

	if _, err := New(Config{}); !errors.Is(err, ErrNoPaths) {
		t.Errorf("New(no paths) error = %v, want ErrNoPaths", err)
	}
	if _, err := New(Config{Paths: []string{t.TempDir()}, Ignore: []string{"[unclosed"}}); err == nil {
		t.Error("New() should reject an invalid ignore pattern")
	}
	if _, err := New(Config{Paths: []string{"/nonexistent/parent/file.yaml"}}); err == nil {
		t.Error("New() should fail when a path's parent does not exist")
	}
}

func TestWatcher_RunTwice(t *testing.T) {
	t.Parallel()

	w, err := New(Config{Paths: []string{t.TempDir()}, Logger: quietLogger()})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()
	time.Sleep(20 * time.Millisecond)

	if err := w.Run(ctx); err == nil {
		t.Error("second Run() should fail")
	}
	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Run() error on cancel: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancellation")
	}
}

func TestWatcher_DefaultIgnores(t *testing.T) {
	t.Parallel()

	w := &Watcher{ignores: defaultIgnores}
	for _, base := range []string{".version.swp", "name~", ".#summary", ".DS_Store"} {
		if !w.isIgnored(base) {
			t.Errorf("%q should be ignored by default", base)
		}
	}
	for _, base := range []string{"version", "README.html", "meta.index"} {
		if w.isIgnored(base) {
			t.Errorf("%q should not be ignored", base)
		}
	}
}
