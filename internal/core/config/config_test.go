package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/duckuio/ducku-cli/internal/core/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "ducku.toml", "version = 1\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Scan.MaxFileSize != 2<<20 {
		t.Errorf("expected default max_file_size, got %d", cfg.Scan.MaxFileSize)
	}
	if cfg.Scan.ParseTimeout != 10*time.Second {
		t.Errorf("expected default parse_timeout, got %s", cfg.Scan.ParseTimeout)
	}
	if len(cfg.Scan.ExcludeDirs) == 0 {
		t.Error("expected default exclude dirs")
	}
}

func TestLoadRejectsUnknownOption(t *testing.T) {
	path := writeFile(t, t.TempDir(), "ducku.toml", "version = 1\nbogus_key = true\n")

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for unknown option")
	}
	if !errors.IsCode(err, errors.CodeConfig) {
		t.Errorf("expected CONFIG_ERROR, got %v", err)
	}
}

func TestLoadRejectsUnsupportedVersion(t *testing.T) {
	path := writeFile(t, t.TempDir(), "ducku.toml", "version = 99\n")

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unsupported version")
	}
}

func TestLoadProjectMissingFile(t *testing.T) {
	cfg, err := LoadProject(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.UseCaseDisabled(UseCaseUnusedModules) {
		t.Error("zero config must not disable use cases")
	}
}

func TestLoadProject(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ProjectFileName, `
disabled_use_cases:
  - pattern_search
documentation_paths:
  - docs
entry_points:
  - scripts/migrate.py
disabled_pattern_search_patterns:
  - "TCP port"
`)

	cfg, err := LoadProject(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.UseCaseDisabled(UseCasePatternSearch) {
		t.Error("pattern_search should be disabled")
	}
	if cfg.UseCaseDisabled(UseCaseUnusedModules) {
		t.Error("unused_modules should stay enabled")
	}
	if len(cfg.EntryPoints) != 1 || cfg.EntryPoints[0] != "scripts/migrate.py" {
		t.Errorf("unexpected entry points: %v", cfg.EntryPoints)
	}
}

func TestLoadProjectRejectsUnknownUseCase(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ProjectFileName, "disabled_use_cases: [nonsense]\n")

	_, err := LoadProject(dir)
	if !errors.IsCode(err, errors.CodeConfig) {
		t.Fatalf("expected CONFIG_ERROR, got %v", err)
	}
}

func TestLoadProjectRejectsUnknownKey(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ProjectFileName, "documentation_path: docs\n")

	_, err := LoadProject(dir)
	if !errors.IsCode(err, errors.CodeConfig) {
		t.Fatalf("expected CONFIG_ERROR, got %v", err)
	}
}

func TestLoadProjectRejectsUnknownPatternName(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ProjectFileName, "disabled_pattern_search_patterns: [\"FTP port\"]\n")

	_, err := LoadProject(dir)
	if !errors.IsCode(err, errors.CodeConfig) {
		t.Fatalf("expected CONFIG_ERROR, got %v", err)
	}
}
