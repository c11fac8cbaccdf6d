package watch_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/ifdeflens/pkg/runner"
	"github.com/yaklabco/ifdeflens/pkg/watch"
)

func startWatcher(t *testing.T, dir string, opts watch.Options) <-chan watch.Event {
	t.Helper()

	events := make(chan watch.Event, 32)
	opts.Scan.WorkingDir = dir
	w := watch.New(runner.New(nil), opts, func(_ context.Context, ev watch.Event) {
		events <- ev
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("watcher did not stop")
		}
	})
	return events
}

func next(t *testing.T, events <-chan watch.Event) watch.Event {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
		return watch.Event{}
	}
}

func TestWatcher_InitialAndChange(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "main.js")
	require.NoError(t, os.WriteFile(path, []byte("// #ifdef H5\n// #endif\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))

	events := startWatcher(t, dir, watch.Options{Debounce: 20 * time.Millisecond})

	ev := next(t, events)
	assert.True(t, ev.Initial)
	assert.Equal(t, path, ev.Outcome.Path)
	require.Len(t, ev.Outcome.Blocks, 1)

	require.NoError(t, os.WriteFile(path, []byte("// #ifdef H5\n// #endif\n// #ifdef MP\n// #endif\n"), 0o600))

	ev = next(t, events)
	assert.False(t, ev.Initial)
	assert.Equal(t, path, ev.Outcome.Path)
	assert.Len(t, ev.Outcome.Blocks, 2)

	require.NoError(t, os.WriteFile(path, []byte("// #endif\n"), 0o600))
	ev = next(t, events)
	assert.True(t, ev.Outcome.Malformed())

	require.NoError(t, os.Remove(path))
	ev = next(t, events)
	assert.True(t, ev.Removed)
	assert.Equal(t, path, ev.Outcome.Path)
}

func TestWatcher_NewFileInNewDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	events := startWatcher(t, dir, watch.Options{Debounce: 20 * time.Millisecond, Immediate: true})

	sub := filepath.Join(dir, "pages")
	require.NoError(t, os.Mkdir(sub, 0o755))
	// Give the watcher a moment to register the new directory.
	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(sub, "index.css")
	require.NoError(t, os.WriteFile(path, []byte("/* #ifdef APP */\n/* #endif */\n"), 0o600))

	// The create may be seen before the content lands; wait for the write.
	for {
		ev := next(t, events)
		assert.Equal(t, path, ev.Outcome.Path)
		if len(ev.Outcome.Blocks) == 1 {
			return
		}
	}
}

func TestWatcher_IgnoresExcludedAndUnknown(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "dist"), 0o755))

	events := startWatcher(t, dir, watch.Options{
		Scan:     runner.Options{ExcludeGlobs: []string{"dist/**"}},
		Debounce: 10 * time.Millisecond,
	})

	require.NoError(t, os.WriteFile(filepath.Join(dir, "dist", "app.js"), []byte("// #ifdef H5\n// #endif\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# hi\n"), 0o600))

	select {
	case ev := <-events:
		t.Fatalf("unexpected event for %s", ev.Outcome.Path)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_MissingPath(t *testing.T) {
	t.Parallel()

	w := watch.New(runner.New(nil), watch.Options{
		Scan: runner.Options{WorkingDir: t.TempDir(), Paths: []string{"missing"}},
	}, func(context.Context, watch.Event) {})

	require.Error(t, w.Run(context.Background()))
}

func TestWatcher_SameSizeRewriteWithinTimestamp(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "main.js")
	require.NoError(t, os.WriteFile(path, []byte("// #ifdef H5\n// #endif\n"), 0o600))
	stat, err := os.Stat(path)
	require.NoError(t, err)

	events := startWatcher(t, dir, watch.Options{Debounce: 20 * time.Millisecond})
	ev := next(t, events)
	require.True(t, ev.Initial)

	// Same length, same modification time, different platform.
	require.NoError(t, os.WriteFile(path, []byte("// #ifdef MP\n// #endif\n"), 0o600))
	require.NoError(t, os.Chtimes(path, stat.ModTime(), stat.ModTime()))

	ev = next(t, events)
	assert.False(t, ev.Initial)
	require.Len(t, ev.Outcome.Blocks, 1)
	assert.Equal(t, "MP", ev.Outcome.Blocks[0].Condition)
}
