package watcher

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
	"github.com/zeebo/xxh3"

	"github.com/duckuio/ducku-cli/internal/core/config"
	"github.com/duckuio/ducku-cli/internal/core/scan"
	"github.com/duckuio/ducku-cli/internal/shared/observability"
)

// manifestNames are non-source files whose changes still invalidate the
// analysis: they feed entry point detection and resolution.
var manifestNames = map[string]bool{
	"package.json":        true,
	"composer.json":       true,
	"pyproject.toml":      true,
	"go.mod":              true,
	"dockerfile":          true,
	"docker-compose.yml":  true,
	"docker-compose.yaml": true,
	"compose.yml":         true,
	"compose.yaml":        true,
	"ducku.toml":          true,
	".ducku.yaml":         true,
}

// Watcher batches filesystem events into debounced change sets. Write events
// that leave the content hash unchanged (editor touch, chmod churn) are
// swallowed so watch mode does not rescan for no-op saves.
type Watcher struct {
	fsWatcher    *fsnotify.Watcher
	debounce     time.Duration
	excludeDirs  []glob.Glob
	excludeFiles []glob.Glob
	extFilter    map[string]bool
	onChange     func([]string)
	callbackMu   sync.Mutex

	pending   map[string]bool
	pendingMu sync.Mutex
	timer     *time.Timer

	hashes   map[string]uint64
	hashesMu sync.Mutex
}

func New(cfg *config.Config, onChange func([]string)) (*Watcher, error) {
	if onChange == nil {
		return nil, os.ErrInvalid
	}

	compiledDirs := make([]glob.Glob, 0, len(cfg.Scan.ExcludeDirs))
	for _, pattern := range cfg.Scan.ExcludeDirs {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, err
		}
		compiledDirs = append(compiledDirs, g)
	}
	compiledFiles := make([]glob.Glob, 0, len(cfg.Scan.ExcludeFiles))
	for _, pattern := range cfg.Scan.ExcludeFiles {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, err
		}
		compiledFiles = append(compiledFiles, g)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	extFilter := make(map[string]bool)
	for _, ext := range scan.SupportedExtensions() {
		extFilter[ext] = true
	}

	return &Watcher{
		fsWatcher:    fsw,
		debounce:     cfg.Watch.Debounce,
		excludeDirs:  compiledDirs,
		excludeFiles: compiledFiles,
		extFilter:    extFilter,
		onChange:     onChange,
		pending:      make(map[string]bool),
		hashes:       make(map[string]uint64),
	}, nil
}

func (w *Watcher) Watch(root string) error {
	if err := w.watchRecursive(root); err != nil {
		return err
	}
	go w.run()
	return nil
}

func (w *Watcher) watchRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if w.shouldExcludeDir(path) {
				return filepath.SkipDir
			}
			return w.fsWatcher.Add(path)
		}
		return nil
	})
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			observability.WatcherEventsTotal.Inc()

			if event.Op&fsnotify.Create == fsnotify.Create {
				info, err := os.Stat(event.Name)
				if err == nil && info.IsDir() {
					if !w.shouldExcludeDir(event.Name) {
						if err := w.watchRecursive(event.Name); err != nil {
							slog.Warn("failed to watch new directory", "path", event.Name, "error", err)
						}
						w.scheduleChange(event.Name)
					}
					continue
				}
			}

			if w.shouldExcludeFile(event.Name) {
				continue
			}

			if event.Op&fsnotify.Write == fsnotify.Write ||
				event.Op&fsnotify.Create == fsnotify.Create {
				if !w.contentChanged(event.Name) {
					continue
				}
				w.scheduleChange(event.Name)
				continue
			}
			if event.Op&fsnotify.Remove == fsnotify.Remove ||
				event.Op&fsnotify.Rename == fsnotify.Rename {
				w.forgetHash(event.Name)
				w.scheduleChange(event.Name)
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			slog.Error("watcher error", "error", err)
		}
	}
}

// contentChanged hashes the file and reports whether the digest moved since
// the last event for that path.
func (w *Watcher) contentChanged(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return true
	}
	digest := xxh3.Hash(data)

	w.hashesMu.Lock()
	defer w.hashesMu.Unlock()
	if prev, ok := w.hashes[path]; ok && prev == digest {
		return false
	}
	w.hashes[path] = digest
	return true
}

func (w *Watcher) forgetHash(path string) {
	w.hashesMu.Lock()
	delete(w.hashes, path)
	w.hashesMu.Unlock()
}

func (w *Watcher) scheduleChange(path string) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	w.pending[path] = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flushChanges)
}

func (w *Watcher) flushChanges() {
	w.pendingMu.Lock()
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
	}
	w.pending = make(map[string]bool)
	w.pendingMu.Unlock()

	if len(paths) > 0 {
		w.callbackMu.Lock()
		defer w.callbackMu.Unlock()
		w.onChange(paths)
	}
}

func (w *Watcher) shouldExcludeDir(path string) bool {
	base := filepath.Base(path)
	for _, g := range w.excludeDirs {
		if g.Match(base) {
			return true
		}
	}
	return false
}

func (w *Watcher) shouldExcludeFile(path string) bool {
	base := strings.ToLower(filepath.Base(path))

	if manifestNames[base] {
		return false
	}
	ext := strings.ToLower(filepath.Ext(base))
	if !w.extFilter[ext] {
		return true
	}
	for _, g := range w.excludeFiles {
		if g.Match(base) {
			return true
		}
	}
	return false
}

func (w *Watcher) Close() error {
	if w.timer != nil {
		w.timer.Stop()
	}
	return w.fsWatcher.Close()
}
