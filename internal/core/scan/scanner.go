package scan

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"github.com/duckuio/ducku-cli/internal/core/config"
	"github.com/duckuio/ducku-cli/internal/core/errors"
	"github.com/duckuio/ducku-cli/internal/shared/observability"
	"github.com/duckuio/ducku-cli/internal/shared/util"
)

const sniffLen = 512

// Scanner walks a project tree once and produces an immutable Snapshot.
type Scanner struct {
	maxFileSize  int64
	excludeDirs  []glob.Glob
	excludeFiles []glob.Glob
	include      []glob.Glob
	ignoreRoots  []string // rel prefixes from code_paths_to_ignore
}

func NewScanner(cfg *config.Config, project *config.ProjectConfig) (*Scanner, error) {
	s := &Scanner{
		maxFileSize: cfg.Scan.MaxFileSize,
	}

	var err error
	if s.excludeDirs, err = compileGlobs(cfg.Scan.ExcludeDirs); err != nil {
		return nil, err
	}
	if s.excludeFiles, err = compileGlobs(cfg.Scan.ExcludeFiles); err != nil {
		return nil, err
	}
	if s.include, err = compileGlobs(cfg.Scan.Include); err != nil {
		return nil, err
	}
	if project != nil {
		for _, p := range project.CodePathsToIgnore {
			s.ignoreRoots = append(s.ignoreRoots, util.NormalizeSlashPath(p))
		}
	}
	return s, nil
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeConfig, fmt.Sprintf("invalid exclude pattern %q", p))
		}
		globs = append(globs, g)
	}
	return globs, nil
}

// Scan walks root once. Each physical directory is visited at most once per
// scan (tracked by canonicalized path) so symlink cycles cannot loop forever.
func (s *Scanner) Scan(ctx context.Context, root string) (*Snapshot, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	snap := newSnapshot(absRoot)
	visited := make(map[string]bool)
	if err := s.walkDir(ctx, snap, absRoot, visited); err != nil {
		return nil, err
	}
	snap.finish()

	for _, f := range snap.Files {
		observability.ScannedFilesTotal.WithLabelValues(f.Language).Inc()
	}
	return snap, nil
}

func (s *Scanner) walkDir(ctx context.Context, snap *Snapshot, dir string, visited map[string]bool) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, errors.CodeCancelled, "scan cancelled")
	}

	canonical, err := filepath.EvalSymlinks(dir)
	if err != nil {
		canonical = dir
	}
	if visited[canonical] {
		return nil
	}
	visited[canonical] = true

	entries, err := os.ReadDir(dir)
	if err != nil {
		snap.Warnings = append(snap.Warnings, Warning{
			Path: s.rel(snap, dir), Kind: WarnUnreadable, Detail: err.Error(),
		})
		observability.SkippedFilesTotal.WithLabelValues(string(WarnUnreadable)).Inc()
		return nil
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			continue
		}

		if info.Mode()&os.ModeSymlink != 0 {
			target, err := os.Stat(path)
			if err != nil {
				continue
			}
			info = target
		}

		if info.IsDir() {
			if s.shouldSkipDir(snap, path, entry.Name()) {
				continue
			}
			if err := s.walkDir(ctx, snap, path, visited); err != nil {
				return err
			}
			continue
		}

		s.visitFile(snap, path, info.Size())
	}
	return nil
}

func (s *Scanner) shouldSkipDir(snap *Snapshot, path, base string) bool {
	for _, g := range s.excludeDirs {
		if g.Match(base) {
			return true
		}
	}
	rel := s.rel(snap, path)
	for _, prefix := range s.ignoreRoots {
		if util.HasPathPrefix(rel, prefix) {
			return true
		}
	}
	return false
}

func (s *Scanner) visitFile(snap *Snapshot, path string, size int64) {
	rel := s.rel(snap, path)
	base := filepath.Base(path)

	for _, g := range s.excludeFiles {
		if g.Match(base) {
			return
		}
	}
	for _, prefix := range s.ignoreRoots {
		if util.HasPathPrefix(rel, prefix) {
			return
		}
	}

	lang, shebang := s.detect(path, size)
	if lang == "" {
		snap.addOther(rel)
		return
	}

	if len(s.include) > 0 && !matchAny(s.include, rel, base) {
		return
	}

	if size > s.maxFileSize {
		snap.Warnings = append(snap.Warnings, Warning{
			Path: rel, Kind: WarnOversized,
			Detail: fmt.Sprintf("%d bytes exceeds cap %d", size, s.maxFileSize),
		})
		observability.SkippedFilesTotal.WithLabelValues(string(WarnOversized)).Inc()
		slog.Warn("skipping oversized file", "path", rel, "size", size)
		return
	}

	snap.addSource(SourceFile{Path: path, Rel: rel, Language: lang, Size: size, Shebang: shebang})
}

// detect infers the language and whether the file opens with a shebang line.
// The head is read for every candidate: extension files need it for the
// shebang flag, extensionless ones for interpreter sniffing.
func (s *Scanner) detect(path string, size int64) (string, bool) {
	if size == 0 || size > s.maxFileSize {
		return DetectLanguage(path, nil), false
	}
	head, err := readHead(path, sniffLen)
	if err != nil {
		return DetectLanguage(path, nil), false
	}
	shebang := len(head) > 1 && head[0] == '#' && head[1] == '!'
	return DetectLanguage(path, head), shebang
}

func (s *Scanner) rel(snap *Snapshot, path string) string {
	rel, err := filepath.Rel(snap.Root, path)
	if err != nil {
		return util.NormalizeSlashPath(path)
	}
	return util.NormalizeSlashPath(rel)
}

func matchAny(globs []glob.Glob, rel, base string) bool {
	for _, g := range globs {
		if g.Match(rel) || g.Match(base) {
			return true
		}
	}
	return false
}

func readHead(path string, n int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, n)
	read, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return nil, err
	}
	return buf[:read], nil
}

// IsTestFile mirrors the conventional test layouts across the supported
// languages; matching files are never reported as unused modules.
func IsTestFile(rel string) bool {
	lower := strings.ToLower(rel)
	for _, segment := range []string{"test/", "tests/", "testing/", "spec/", "__tests__/"} {
		if strings.HasPrefix(lower, segment) || strings.Contains(lower, "/"+segment) {
			return true
		}
	}
	base := lower
	if idx := strings.LastIndex(lower, "/"); idx >= 0 {
		base = lower[idx+1:]
	}
	for _, pattern := range []string{"test_", "spec_"} {
		if strings.HasPrefix(base, pattern) {
			return true
		}
	}
	for _, pattern := range []string{"_test.", ".test.", "_spec.", ".spec."} {
		if strings.Contains(base, pattern) {
			return true
		}
	}
	return false
}
