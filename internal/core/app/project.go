package app

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/duckuio/ducku-cli/internal/core/config"
	"github.com/duckuio/ducku-cli/internal/core/errors"
	"github.com/duckuio/ducku-cli/internal/core/ports"
)

// ToolConfigName is looked up at each project root; a missing file falls back
// to the built-in defaults.
const ToolConfigName = "ducku.toml"

// LoadProject assembles one analysis target from a root directory: the tool
// config, the project config, and a display name.
func LoadProject(root string) (*ports.Project, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeConfig, "project root not accessible")
	}
	if !info.IsDir() {
		return nil, errors.Newf(errors.CodeConfig, "project root %s is not a directory", abs)
	}

	cfg := config.Default()
	tomlPath := filepath.Join(abs, ToolConfigName)
	if _, err := os.Stat(tomlPath); err == nil {
		cfg, err = config.Load(tomlPath)
		if err != nil {
			return nil, err
		}
	}

	project, err := config.LoadProject(abs)
	if err != nil {
		return nil, err
	}

	return &ports.Project{
		Name:    filepath.Base(abs),
		Root:    abs,
		Config:  cfg,
		Project: project,
	}, nil
}

// DiscoverProjects expands a multi-project folder into one target per child
// directory. Hidden directories are skipped; a folder without any child
// directory is a configuration error.
func DiscoverProjects(folder string) ([]*ports.Project, error) {
	abs, err := filepath.Abs(folder)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeConfig, "cannot read multi-project folder")
	}

	var projects []*ports.Project
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		project, err := LoadProject(filepath.Join(abs, e.Name()))
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	if len(projects) == 0 {
		return nil, errors.Newf(errors.CodeConfig, "no projects found under %s", abs)
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].Name < projects[j].Name })
	return projects, nil
}

// DocumentationPaths returns the configured documentation files, falling back
// to auto-detected README files at the project root.
func DocumentationPaths(project *ports.Project) []string {
	if project.Project != nil && len(project.Project.DocumentationPaths) > 0 {
		return project.Project.DocumentationPaths
	}

	entries, err := os.ReadDir(project.Root)
	if err != nil {
		return nil
	}
	var docs []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(strings.ToLower(name), "readme") {
			docs = append(docs, name)
		}
	}
	sort.Strings(docs)
	return docs
}
