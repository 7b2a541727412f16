package entry

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/duckuio/ducku-cli/internal/core/config"
	"github.com/duckuio/ducku-cli/internal/core/scan"
	"github.com/duckuio/ducku-cli/internal/engine/resolve"
)

func detectorFor(t *testing.T, files map[string]string, project *config.ProjectConfig) (*Detector, *scan.Snapshot) {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	scanner, err := scan.NewScanner(config.Default(), project)
	if err != nil {
		t.Fatal(err)
	}
	snap, err := scanner.Scan(context.Background(), root)
	if err != nil {
		t.Fatal(err)
	}
	return NewDetector(snap, resolve.New(snap, ""), project), snap
}

func detect(t *testing.T, d *Detector) []Root {
	t.Helper()
	roots, err := d.Detect(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return roots
}

func rels(roots []Root) []string {
	out := make([]string, len(roots))
	for i, r := range roots {
		out[i] = r.Rel
	}
	return out
}

func containsRoot(roots []Root, rel, reason string) bool {
	for _, r := range roots {
		if r.Rel == rel && (reason == "" || r.Reason == reason) {
			return true
		}
	}
	return false
}

func TestConfiguredEntryPoints(t *testing.T) {
	project := &config.ProjectConfig{EntryPoints: []string{"./src/job.py", "missing.py"}}
	d, _ := detectorFor(t, map[string]string{
		"src/job.py": "print('x')",
	}, project)

	roots := detect(t, d)
	if !containsRoot(roots, "src/job.py", ReasonConfigured) {
		t.Fatalf("configured root missing: %v", rels(roots))
	}
	if containsRoot(roots, "missing.py", "") {
		t.Error("nonexistent configured entry must be skipped")
	}
}

func TestShebangRoots(t *testing.T) {
	d, _ := detectorFor(t, map[string]string{
		"bin/deploy": "#!/usr/bin/env python\nimport sys\n",
		"lib/a.py":   "",
	}, nil)

	roots := detect(t, d)
	if !containsRoot(roots, "bin/deploy", ReasonShebang) {
		t.Fatalf("shebang root missing: %v", rels(roots))
	}
	if containsRoot(roots, "lib/a.py", "") {
		t.Error("plain source file must not become a root")
	}
}

func TestShebangRootsWithExtension(t *testing.T) {
	d, _ := detectorFor(t, map[string]string{
		"tool.py":   "#!/usr/bin/env python3\nimport helper\n",
		"helper.py": "x = 1\n",
	}, nil)

	roots := detect(t, d)
	if !containsRoot(roots, "tool.py", ReasonShebang) {
		t.Fatalf("shebang root with extension missing: %v", rels(roots))
	}
	if containsRoot(roots, "helper.py", "") {
		t.Error("file without shebang must not become a root")
	}
}

func TestPackageJSONRoots(t *testing.T) {
	d, _ := detectorFor(t, map[string]string{
		"package.json": `{
			"main": "src/index",
			"bin": {"tool": "./bin/tool.js"},
			"scripts": {"start": "node src/server.js --port 8080"}
		}`,
		"src/index.js":  "",
		"bin/tool.js":   "",
		"src/server.js": "",
		"src/other.js":  "",
	}, nil)

	roots := detect(t, d)
	for _, want := range []string{"src/index.js", "bin/tool.js", "src/server.js"} {
		if !containsRoot(roots, want, ReasonManifest) {
			t.Errorf("missing manifest root %s in %v", want, rels(roots))
		}
	}
	if containsRoot(roots, "src/other.js", "") {
		t.Error("unreferenced file must not be rooted")
	}
}

func TestPyprojectScriptRoots(t *testing.T) {
	d, _ := detectorFor(t, map[string]string{
		"pyproject.toml": "[project]\nname = \"demo\"\n\n[project.scripts]\ndemo = \"demo.cli:main\"\n",
		"demo/cli.py":    "",
		"demo/util.py":   "",
	}, nil)

	roots := detect(t, d)
	if !containsRoot(roots, "demo/cli.py", ReasonManifest) {
		t.Fatalf("pyproject script root missing: %v", rels(roots))
	}
}

func TestComposerBinRoots(t *testing.T) {
	d, _ := detectorFor(t, map[string]string{
		"composer.json": `{"bin": ["bin/console.php"]}`,
		"bin/console.php": "<?php\n",
	}, nil)

	roots := detect(t, d)
	if !containsRoot(roots, "bin/console.php", ReasonManifest) {
		t.Fatalf("composer bin root missing: %v", rels(roots))
	}
}

func TestDockerfileRoots(t *testing.T) {
	d, _ := detectorFor(t, map[string]string{
		"Dockerfile":  "FROM python:3.12-slim\nCOPY . /app\nENTRYPOINT [\"python\", \"src/main.py\"]\n",
		"src/main.py": "",
	}, nil)

	roots := detect(t, d)
	if !containsRoot(roots, "src/main.py", ReasonContainer) {
		t.Fatalf("dockerfile root missing: %v", rels(roots))
	}
}

func TestDockerfileShellFormAndModuleFlag(t *testing.T) {
	d, _ := detectorFor(t, map[string]string{
		"Dockerfile":      "FROM python:3.12\nCMD python -m app.worker\n",
		"app/worker.py":   "",
		"app/ignored.py":  "",
	}, nil)

	roots := detect(t, d)
	if !containsRoot(roots, "app/worker.py", ReasonContainer) {
		t.Fatalf("-m module root missing: %v", rels(roots))
	}
}

func TestComposeRoots(t *testing.T) {
	d, _ := detectorFor(t, map[string]string{
		"docker-compose.yml": "services:\n  web:\n    command: ruby app/server.rb\n  worker:\n    entrypoint: [\"ruby\", \"app/worker.rb\"]\n",
		"app/server.rb":      "",
		"app/worker.rb":      "",
	}, nil)

	roots := detect(t, d)
	if !containsRoot(roots, "app/server.rb", ReasonContainer) || !containsRoot(roots, "app/worker.rb", ReasonContainer) {
		t.Fatalf("compose roots missing: %v", rels(roots))
	}
}

func TestRootsDeduplicatedAndSorted(t *testing.T) {
	project := &config.ProjectConfig{EntryPoints: []string{"src/main.py"}}
	d, _ := detectorFor(t, map[string]string{
		"Dockerfile":  "FROM python:3.12\nCMD [\"python\", \"src/main.py\"]\n",
		"src/main.py": "",
		"bin/job":     "#!/usr/bin/env python\n",
	}, project)

	roots := detect(t, d)
	count := 0
	for _, r := range roots {
		if r.Rel == "src/main.py" {
			count++
			if r.Reason != ReasonConfigured {
				t.Errorf("first detection reason should win, got %s", r.Reason)
			}
		}
	}
	if count != 1 {
		t.Fatalf("src/main.py rooted %d times, want 1", count)
	}
	for i := 1; i < len(roots); i++ {
		if roots[i-1].Rel >= roots[i].Rel {
			t.Fatalf("roots not sorted: %v", rels(roots))
		}
	}
}

func TestLooksEntryLike(t *testing.T) {
	cases := map[string]bool{
		"src/main.py":        true,
		"cmd/tool/main.go":   true,
		"scripts/migrate.rb": true,
		"app/__main__.py":    true,
		"src/index.ts":       true,
		"web/server.js":      true,
		"lib/helpers.py":     false,
		"src/models/user.py": false,
	}
	for rel, want := range cases {
		if got := LooksEntryLike(rel); got != want {
			t.Errorf("LooksEntryLike(%q) = %v, want %v", rel, got, want)
		}
	}
}

func TestExempt(t *testing.T) {
	cases := []struct {
		rel      string
		language string
		want     bool
	}{
		{"jest.config.js", "javascript", true},
		{"types/global.d.ts", "typescript", true},
		{"src/app.js", "javascript", false},
		{"src/main/java/com/acme/models/User.java", "java", true},
		{"src/main/java/com/acme/svc/Api.java", "java", false},
		{"models/user.py", "python", false},
	}
	for _, c := range cases {
		if got := Exempt(c.rel, c.language); got != c.want {
			t.Errorf("Exempt(%q, %s) = %v, want %v", c.rel, c.language, got, c.want)
		}
	}
}
