package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatches(t *testing.T) {
	dir := t.TempDir()
	w := New([]string{
		filepath.Join(dir, "thread.yaml"),
		filepath.Join(dir, "extra", "**", "*.json"),
	}, func() {})

	assert.True(t, w.Matches(filepath.Join(dir, "thread.yaml")))
	assert.False(t, w.Matches(filepath.Join(dir, "thread.yaml.swp")))
	assert.True(t, w.Matches(filepath.Join(dir, "extra", "a.json")))
	assert.True(t, w.Matches(filepath.Join(dir, "extra", "deep", "b.json")))
	assert.False(t, w.Matches(filepath.Join(dir, "extra", "b.yaml")))
}

func TestDirs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "tree", "a", "b"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "flat", "x"), 0755))

	w := New([]string{
		filepath.Join(dir, "thread.yaml"),
		filepath.Join(dir, "tree", "**", "*.yaml"),
		filepath.Join(dir, "flat", "*", "*.yaml"),
	}, func() {})

	assert.ElementsMatch(t, []string{
		dir,
		filepath.Join(dir, "tree"),
		filepath.Join(dir, "tree", "a"),
		filepath.Join(dir, "tree", "a", "b"),
		filepath.Join(dir, "flat"),
		filepath.Join(dir, "flat", "x"),
	}, w.Dirs())
}

func TestWatchDebouncesChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "thread.yaml")
	require.NoError(t, os.WriteFile(path, []byte("[]\n"), 0644))

	changed := make(chan struct{}, 8)
	w := New([]string{filepath.Join(dir, "*.yaml")}, func() {
		changed <- struct{}{}
	}).WithDebounce(50 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errc := make(chan error, 1)
	go func() { errc <- w.Watch(ctx) }()

	// give the watcher time to subscribe
	time.Sleep(100 * time.Millisecond)

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte("- id: A\n  kind: Test\n"), 0644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0644))

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a change notification")
	}

	// the burst collapses into one call
	select {
	case <-changed:
		t.Fatal("expected a single debounced notification")
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	assert.ErrorIs(t, <-errc, context.Canceled)
}
