package entry

import (
	"encoding/json"
	"log/slog"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

type packageJSON struct {
	Main    string            `json:"main"`
	Bin     json.RawMessage   `json:"bin"`
	Scripts map[string]string `json:"scripts"`
}

// packageJSONRoots reads main, bin, and script commands. Script values are
// shell commands; only tokens that name snapshot files become roots.
func (d *Detector) packageJSONRoots(rel string) []Root {
	data := d.readOther(rel)
	if data == nil {
		return nil
	}
	var manifest packageJSON
	if err := json.Unmarshal(data, &manifest); err != nil {
		slog.Warn("malformed package.json", "path", rel, "err", err)
		return nil
	}

	var roots []Root
	if root, ok := d.rootPath(rel, manifest.Main, "javascript"); ok {
		roots = append(roots, root)
	}

	// bin is either a single path or a name -> path map.
	if len(manifest.Bin) > 0 {
		var single string
		var many map[string]string
		if err := json.Unmarshal(manifest.Bin, &single); err == nil {
			if root, ok := d.rootPath(rel, single, "javascript"); ok {
				roots = append(roots, root)
			}
		} else if err := json.Unmarshal(manifest.Bin, &many); err == nil {
			for _, p := range sortedValues(many) {
				if root, ok := d.rootPath(rel, p, "javascript"); ok {
					roots = append(roots, root)
				}
			}
		}
	}

	for _, command := range sortedValues(manifest.Scripts) {
		roots = append(roots, d.commandRoots(rel, command)...)
	}
	return roots
}

type composerJSON struct {
	Bin []string `json:"bin"`
}

func (d *Detector) composerRoots(rel string) []Root {
	data := d.readOther(rel)
	if data == nil {
		return nil
	}
	var manifest composerJSON
	if err := json.Unmarshal(data, &manifest); err != nil {
		slog.Warn("malformed composer.json", "path", rel, "err", err)
		return nil
	}

	var roots []Root
	for _, p := range manifest.Bin {
		if root, ok := d.rootPath(rel, p, "php"); ok {
			roots = append(roots, root)
		}
	}
	return roots
}

type pyprojectTOML struct {
	Project struct {
		Scripts map[string]string `toml:"scripts"`
	} `toml:"project"`
	Tool struct {
		Poetry struct {
			Scripts map[string]string `toml:"scripts"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

// pyprojectRoots reads [project.scripts] and [tool.poetry.scripts] entries of
// the form "pkg.module:func" and roots the referenced module file.
func (d *Detector) pyprojectRoots(rel string) []Root {
	data := d.readOther(rel)
	if data == nil {
		return nil
	}
	var manifest pyprojectTOML
	if err := toml.Unmarshal(data, &manifest); err != nil {
		slog.Warn("malformed pyproject.toml", "path", rel, "err", err)
		return nil
	}

	var roots []Root
	for _, target := range sortedValues(manifest.Project.Scripts) {
		roots = append(roots, d.pythonScriptRoots(rel, target)...)
	}
	for _, target := range sortedValues(manifest.Tool.Poetry.Scripts) {
		roots = append(roots, d.pythonScriptRoots(rel, target)...)
	}
	return roots
}

func (d *Detector) pythonScriptRoots(manifestRel, target string) []Root {
	module := target
	if idx := strings.Index(module, ":"); idx >= 0 {
		module = module[:idx]
	}
	module = strings.TrimSpace(module)
	if module == "" {
		return nil
	}

	modulePath := strings.ReplaceAll(module, ".", "/")
	var roots []Root
	for _, candidate := range []string{modulePath + ".py", modulePath + "/__init__.py", modulePath + "/__main__.py"} {
		for _, hit := range d.snap.FindBySuffix(candidate) {
			roots = append(roots, Root{Rel: hit, Reason: ReasonManifest, Source: manifestRel})
		}
	}
	return roots
}

// commandRoots scans a shell command for tokens naming snapshot files.
// `python -m pkg.mod` resolves the dotted module form as well.
func (d *Detector) commandRoots(manifestRel, command string) []Root {
	var roots []Root
	tokens := strings.Fields(command)
	for i, token := range tokens {
		if i > 0 && tokens[i-1] == "-m" {
			roots = append(roots, d.pythonScriptRoots(manifestRel, token)...)
			continue
		}
		token = strings.Trim(token, `"'`)
		rel := strings.TrimPrefix(token, "./")
		if d.snap.Contains(rel) {
			roots = append(roots, Root{Rel: rel, Reason: ReasonManifest, Source: manifestRel})
		}
	}
	return roots
}

func sortedValues(m map[string]string) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, m[k])
	}
	return out
}
