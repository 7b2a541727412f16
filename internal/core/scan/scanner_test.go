package scan

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/duckuio/ducku-cli/internal/core/config"
)

func mustScan(t *testing.T, root string, cfg *config.Config, project *config.ProjectConfig) *Snapshot {
	t.Helper()
	s, err := NewScanner(cfg, project)
	if err != nil {
		t.Fatal(err)
	}
	snap, err := s.Scan(context.Background(), root)
	if err != nil {
		t.Fatal(err)
	}
	return snap
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestScanDetectsLanguages(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"main.py":      "print('hi')",
		"lib/a.rb":     "puts 'a'",
		"web/app.js":   "console.log(1)",
		"Svc.cs":       "namespace Svc {}",
		"notes.txt":    "not code",
		"package.json": "{}",
	})

	snap := mustScan(t, root, config.Default(), nil)

	want := map[string]string{
		"main.py":    "python",
		"lib/a.rb":   "ruby",
		"web/app.js": "javascript",
		"Svc.cs":     "csharp",
	}
	if len(snap.Files) != len(want) {
		t.Fatalf("expected %d source files, got %d: %+v", len(want), len(snap.Files), snap.Files)
	}
	for rel, lang := range want {
		f, ok := snap.Lookup(rel)
		if !ok {
			t.Errorf("missing %s", rel)
			continue
		}
		if f.Language != lang {
			t.Errorf("%s: language %s, want %s", rel, f.Language, lang)
		}
	}

	foundManifest := false
	for _, other := range snap.Others {
		if other == "package.json" {
			foundManifest = true
		}
	}
	if !foundManifest {
		t.Error("package.json should be tracked as a non-source file")
	}
}

func TestScanOrderedByPath(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"z.py": "", "a.py": "", "m/b.py": "",
	})

	snap := mustScan(t, root, config.Default(), nil)
	for i := 1; i < len(snap.Files); i++ {
		if snap.Files[i-1].Rel >= snap.Files[i].Rel {
			t.Fatalf("files not ordered: %s >= %s", snap.Files[i-1].Rel, snap.Files[i].Rel)
		}
	}
}

func TestScanExcludePrecedence(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"node_modules/pkg/index.js": "module.exports = {}",
		"src/keep.js":               "",
		"src/skip.gen.js":           "",
	})

	cfg := config.Default()
	cfg.Scan.ExcludeFiles = []string{"*.gen.js"}
	snap := mustScan(t, root, cfg, nil)

	if snap.Contains("node_modules/pkg/index.js") {
		t.Error("excluded dir content must be absent from the snapshot")
	}
	if snap.Contains("src/skip.gen.js") {
		t.Error("excluded file must be absent from the snapshot")
	}
	if !snap.Contains("src/keep.js") {
		t.Error("src/keep.js should be scanned")
	}
}

func TestScanCodePathsToIgnore(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"generated/x.py": "",
		"src/y.py":       "",
	})

	project := &config.ProjectConfig{CodePathsToIgnore: []string{"generated"}}
	snap := mustScan(t, root, config.Default(), project)

	if snap.Contains("generated/x.py") {
		t.Error("code_paths_to_ignore must exclude files from the snapshot")
	}
	if !snap.Contains("src/y.py") {
		t.Error("src/y.py should be scanned")
	}
}

func TestScanOversizedFileSkippedWithWarning(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"big.py": string(make([]byte, 128))})

	cfg := config.Default()
	cfg.Scan.MaxFileSize = 64
	snap := mustScan(t, root, cfg, nil)

	if snap.Contains("big.py") {
		t.Error("oversized file must be skipped")
	}
	found := false
	for _, w := range snap.Warnings {
		if w.Path == "big.py" && w.Kind == WarnOversized {
			found = true
		}
	}
	if !found {
		t.Errorf("expected oversized warning, got %+v", snap.Warnings)
	}
}

func TestScanSymlinkCycleTerminates(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks not reliable on windows CI")
	}
	root := t.TempDir()
	writeTree(t, root, map[string]string{"sub/a.py": ""})
	if err := os.Symlink(root, filepath.Join(root, "sub", "loop")); err != nil {
		t.Skipf("cannot create symlink: %v", err)
	}

	snap := mustScan(t, root, config.Default(), nil)
	count := 0
	for _, f := range snap.Files {
		if filepath.Base(f.Rel) == "a.py" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected a.py scanned exactly once, got %d", count)
	}
}

func TestScanShebangScript(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"bin/tool": "#!/usr/bin/env python\nprint('x')\n"})

	snap := mustScan(t, root, config.Default(), nil)
	f, ok := snap.Lookup("bin/tool")
	if !ok {
		t.Fatal("extensionless shebang script should be scanned")
	}
	if f.Language != "python" {
		t.Errorf("language = %s, want python", f.Language)
	}
}

func TestScanShebangFlag(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"tool.py":  "#!/usr/bin/env python3\nimport sys\n",
		"plain.py": "import sys\n",
		"bin/job":  "#!/usr/bin/env ruby\nputs 1\n",
	})

	snap := mustScan(t, root, config.Default(), nil)

	cases := map[string]bool{
		"tool.py":  true,
		"plain.py": false,
		"bin/job":  true,
	}
	for rel, want := range cases {
		f, ok := snap.Lookup(rel)
		if !ok {
			t.Fatalf("missing %s", rel)
		}
		if f.Shebang != want {
			t.Errorf("%s: Shebang = %v, want %v", rel, f.Shebang, want)
		}
	}
}

func TestIsTestFile(t *testing.T) {
	cases := map[string]bool{
		"test/unit/test_something.py": true,
		"tests/user_test.py":          true,
		"spec/user_spec.rb":           true,
		"src/models/user.py":          false,
		"app/util.test.js":            true,
		"src/utils.py":                false,
		"config_test.go":              true,
	}
	for rel, want := range cases {
		if got := IsTestFile(rel); got != want {
			t.Errorf("IsTestFile(%q) = %v, want %v", rel, got, want)
		}
	}
}
