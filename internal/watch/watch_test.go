package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, dir string, opts ...Option) *Watcher {
	t.Helper()
	w, err := New(dir, append([]Option{WithDebounce(20 * time.Millisecond)}, opts...)...)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		_ = w.Close()
	})
	return w
}

func nextChange(t *testing.T, w *Watcher) Change {
	t.Helper()
	select {
	case change := <-w.Changes():
		return change
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
		return Change{}
	}
}

func TestReportsPluginFilesOnly(t *testing.T) {
	dir := t.TempDir()
	w := startWatcher(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.jar"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.jar.disabled"), nil, 0o644))

	seen := map[string]bool{}
	require.Eventually(t, func() bool {
		select {
		case change := <-w.Changes():
			for _, path := range change.Paths {
				seen[filepath.Base(path)] = true
			}
		default:
		}
		return seen["a.jar"] && seen["b.jar.disabled"]
	}, 5*time.Second, 10*time.Millisecond)
	assert.False(t, seen["notes.txt"])
}

func TestIgnoredPathsAreDropped(t *testing.T) {
	dir := t.TempDir()
	owned := filepath.Join(dir, "owned.jar")
	w := startWatcher(t, dir, WithIgnore(func(path string) bool { return path == owned }))

	require.NoError(t, os.WriteFile(owned, nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "foreign.jar"), nil, 0o644))

	change := nextChange(t, w)
	assert.Equal(t, []string{filepath.Join(dir, "foreign.jar")}, change.Paths)
}

func TestMissingDirectory(t *testing.T) {
	t.Parallel()

	_, err := New(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

func TestChangesClosedAfterCancel(t *testing.T) {
	t.Parallel()

	w, err := New(t.TempDir())
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w.Run(ctx)

	_, ok := <-w.Changes()
	assert.False(t, ok)
}
