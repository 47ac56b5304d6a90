package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"goskim/internal/runner"
	"goskim/internal/skim"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const pySource = `def calculate_sum(a: int, b: int) -> int:
    return a + b
`

// collector is a Handler that records deliveries.
type collector struct {
	mu      sync.Mutex
	results map[string]string
}

func newCollector() *collector {
	return &collector{results: make(map[string]string)}
}

func (c *collector) handle(path string, result *runner.FileResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results[path] = result.Output
}

func (c *collector) get(path string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out, ok := c.results[path]
	return out, ok
}

func newTestWatcher(t *testing.T, root string, h Handler) *Watcher {
	t.Helper()
	r := runner.New(runner.Options{Mode: skim.ModeSignatures})
	w, err := New(root, r, h, nil)
	require.NoError(t, err)
	w.debounceDur = 50 * time.Millisecond
	return w
}

func TestStartStop(t *testing.T) {
	w := newTestWatcher(t, t.TempDir(), nil)

	require.NoError(t, w.Start(context.Background()))
	assert.True(t, w.IsWatching())

	// Second Start is a no-op.
	require.NoError(t, w.Start(context.Background()))

	w.Stop()
	assert.False(t, w.IsWatching())

	// Second Stop is a no-op.
	w.Stop()
}

func TestStartMissingRoot(t *testing.T) {
	w := newTestWatcher(t, filepath.Join(t.TempDir(), "absent"), nil)
	err := w.Start(context.Background())
	require.Error(t, err)
	assert.False(t, w.IsWatching())
	require.NoError(t, w.watcher.Close())
}

func TestWatchedDirsIncludeSubdirectories(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a", "b"), 0o755))

	w := newTestWatcher(t, root, nil)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	assert.Len(t, w.WatchedDirs(), 3)
}

func TestReskimOnChange(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "simple.py")

	c := newCollector()
	w := newTestWatcher(t, root, c.handle)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	require.NoError(t, os.WriteFile(path, []byte(pySource), 0o644))

	require.Eventually(t, func() bool {
		_, ok := c.get(path)
		return ok
	}, 5*time.Second, 20*time.Millisecond, "change never delivered")

	out, _ := c.get(path)
	assert.Equal(t, "def calculate_sum(a: int, b: int) -> int:", out)

	stats := w.GetStats()
	assert.Equal(t, path, stats.LastEventPath)
	assert.GreaterOrEqual(t, stats.SkimsTriggered, 1)
}

func TestIgnoresUnsupportedFiles(t *testing.T) {
	root := t.TempDir()

	c := newCollector()
	w := newTestWatcher(t, root, c.handle)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("plain text"), 0o644))

	// Give the debounce window time to fire; nothing should arrive.
	time.Sleep(300 * time.Millisecond)
	stats := w.GetStats()
	assert.Zero(t, stats.SkimsTriggered)
	assert.Empty(t, stats.LastEventPath)
}
