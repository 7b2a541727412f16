package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/duckuio/ducku-cli/internal/core/errors"
)

// ProjectFileName is looked up at each project root.
const ProjectFileName = ".ducku.yaml"

// Use case identifiers accepted in disabled_use_cases.
const (
	UseCaseUnusedModules = "unused_modules"
	UseCasePatternSearch = "pattern_search"
	UseCasePartialLists  = "partial_lists"
)

var knownUseCases = map[string]bool{
	UseCaseUnusedModules: true,
	UseCasePatternSearch: true,
	UseCasePartialLists:  true,
}

// Pattern names accepted in disabled_pattern_search_patterns. The pattern
// search use case itself lives outside this subsystem; the loader still
// validates the names so typos fail the run up front.
var knownPatternNames = map[string]bool{
	"Unix path":            true,
	"Windows path":         true,
	"Filename":             true,
	"TCP port":             true,
	"Environment variable": true,
}

// ProjectConfig is the per-project configuration from .ducku.yaml.
// Immutable after load; a missing file yields the zero value.
type ProjectConfig struct {
	DisabledUseCases              []string `yaml:"disabled_use_cases"`
	DocumentationPaths            []string `yaml:"documentation_paths"`
	DocumentationPathsToIgnore    []string `yaml:"documentation_paths_to_ignore"`
	CodePathsToIgnore             []string `yaml:"code_paths_to_ignore"`
	DisabledPatternSearchPatterns []string `yaml:"disabled_pattern_search_patterns"`
	EntryPoints                   []string `yaml:"entry_points"`
}

// LoadProject reads .ducku.yaml from projectRoot. A missing file is not an
// error; any malformed content or unknown option is a CONFIG_ERROR.
func LoadProject(projectRoot string) (*ProjectConfig, error) {
	path := filepath.Join(projectRoot, ProjectFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &ProjectConfig{}, nil
		}
		return nil, err
	}

	var cfg ProjectConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, errors.CodeConfig, fmt.Sprintf("parse %s", path))
	}

	for _, name := range cfg.DisabledUseCases {
		if !knownUseCases[name] {
			return nil, errors.Newf(errors.CodeConfig, "%s: unknown use case %q in disabled_use_cases", path, name)
		}
	}
	for _, name := range cfg.DisabledPatternSearchPatterns {
		if !knownPatternNames[name] {
			return nil, errors.Newf(errors.CodeConfig, "%s: unknown pattern %q in disabled_pattern_search_patterns", path, name)
		}
	}
	return &cfg, nil
}

// UseCaseDisabled reports whether the named use case is switched off.
func (c *ProjectConfig) UseCaseDisabled(name string) bool {
	if c == nil {
		return false
	}
	for _, disabled := range c.DisabledUseCases {
		if disabled == name {
			return true
		}
	}
	return false
}
