package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/duckuio/ducku-cli/internal/core/config"
)

type changeCollector struct {
	mu      sync.Mutex
	batches [][]string
	signal  chan struct{}
}

func newCollector() *changeCollector {
	return &changeCollector{signal: make(chan struct{}, 16)}
}

func (c *changeCollector) onChange(paths []string) {
	c.mu.Lock()
	c.batches = append(c.batches, paths)
	c.mu.Unlock()
	c.signal <- struct{}{}
}

func (c *changeCollector) wait(t *testing.T, timeout time.Duration) []string {
	t.Helper()
	select {
	case <-c.signal:
	case <-time.After(timeout):
		t.Fatal("no change batch arrived")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.batches[len(c.batches)-1]
}

func startWatcher(t *testing.T, root string, debounce time.Duration) *changeCollector {
	t.Helper()
	cfg := config.Default()
	cfg.Watch.Debounce = debounce

	collector := newCollector()
	w, err := New(cfg, collector.onChange)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { w.Close() })
	if err := w.Watch(root); err != nil {
		t.Fatal(err)
	}
	return collector
}

func TestWatcherBatchesWrites(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "main.py")
	if err := os.WriteFile(path, []byte("a = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	collector := startWatcher(t, root, 50*time.Millisecond)

	if err := os.WriteFile(path, []byte("a = 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	batch := collector.wait(t, 5*time.Second)

	found := false
	for _, p := range batch {
		if filepath.Base(p) == "main.py" {
			found = true
		}
	}
	if !found {
		t.Fatalf("batch %v missing main.py", batch)
	}
}

func TestWatcherIgnoresUnsupportedFiles(t *testing.T) {
	root := t.TempDir()
	collector := startWatcher(t, root, 50*time.Millisecond)

	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-collector.signal:
		t.Fatal("unsupported file must not trigger a batch")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherSwallowsNoopWrites(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "app.rb")
	content := []byte("puts 1\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	collector := startWatcher(t, root, 50*time.Millisecond)

	// First write establishes the hash and triggers a batch.
	if err := os.WriteFile(path, []byte("puts 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	collector.wait(t, 5*time.Second)

	// Identical rewrite must not trigger another batch.
	if err := os.WriteFile(path, []byte("puts 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-collector.signal:
		t.Fatal("unchanged content must not trigger a batch")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherManifestChangesPass(t *testing.T) {
	root := t.TempDir()
	collector := startWatcher(t, root, 50*time.Millisecond)

	if err := os.WriteFile(filepath.Join(root, "package.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	batch := collector.wait(t, 5*time.Second)
	if len(batch) == 0 {
		t.Fatal("manifest change should trigger a batch")
	}
}
