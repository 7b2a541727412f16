package entry

import (
	"context"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/duckuio/ducku-cli/internal/core/config"
	"github.com/duckuio/ducku-cli/internal/core/scan"
	"github.com/duckuio/ducku-cli/internal/engine/lang"
	"github.com/duckuio/ducku-cli/internal/engine/resolve"
	"github.com/duckuio/ducku-cli/internal/shared/observability"
)

// Root reasons, also used as metric labels.
const (
	ReasonConfigured = "configured"
	ReasonShebang    = "shebang"
	ReasonManifest   = "manifest"
	ReasonContainer  = "container"
)

// Root is one detected reachability starting point.
type Root struct {
	Rel    string
	Reason string
	Source string // the manifest or config file that contributed the root
}

// Detector finds entry points from project configuration, executable
// conventions, manifests, and container files. It reads manifests from disk
// but checks every candidate against the snapshot, so it never roots a file
// the scan did not accept.
type Detector struct {
	snap     *scan.Snapshot
	resolver *resolve.Resolver
	project  *config.ProjectConfig
}

func NewDetector(snap *scan.Snapshot, resolver *resolve.Resolver, project *config.ProjectConfig) *Detector {
	return &Detector{snap: snap, resolver: resolver, project: project}
}

// Detect returns the sorted, deduplicated root set. A file rooted by several
// sources keeps the first reason in detection order: configured entries win
// over convention-detected ones.
func (d *Detector) Detect(ctx context.Context) ([]Root, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var roots []Root
	roots = append(roots, d.configuredRoots()...)
	roots = append(roots, d.shebangRoots()...)
	roots = append(roots, d.manifestRoots()...)
	roots = append(roots, d.containerRoots()...)

	counts := map[string]int{
		ReasonConfigured: 0,
		ReasonShebang:    0,
		ReasonManifest:   0,
		ReasonContainer:  0,
	}
	seen := make(map[string]bool)
	out := roots[:0]
	for _, r := range roots {
		if seen[r.Rel] {
			continue
		}
		seen[r.Rel] = true
		out = append(out, r)
		counts[r.Reason]++
	}
	// Set, not Inc: every reason label reflects the current run even when a
	// watch-mode rescan detects fewer roots than the previous one.
	for reason, n := range counts {
		observability.RootsTotal.WithLabelValues(reason).Set(float64(n))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rel < out[j].Rel })
	return out, nil
}

func (d *Detector) configuredRoots() []Root {
	if d.project == nil {
		return nil
	}
	var roots []Root
	for _, ep := range d.project.EntryPoints {
		rel := strings.TrimPrefix(strings.TrimSpace(ep), "./")
		if rel == "" {
			continue
		}
		if !d.snap.Contains(rel) {
			slog.Warn("configured entry point not found in scan", "path", rel)
			continue
		}
		roots = append(roots, Root{Rel: rel, Reason: ReasonConfigured, Source: config.ProjectFileName})
	}
	return roots
}

// shebangRoots marks every source file opening with #! as a root, whatever
// its extension. The scanner records the flag during its head read.
func (d *Detector) shebangRoots() []Root {
	var roots []Root
	for _, f := range d.snap.Files {
		if f.Shebang {
			roots = append(roots, Root{Rel: f.Rel, Reason: ReasonShebang, Source: f.Rel})
		}
	}
	return roots
}

func (d *Detector) manifestRoots() []Root {
	var roots []Root
	for _, other := range d.snap.Others {
		switch path.Base(other) {
		case "package.json":
			roots = append(roots, d.packageJSONRoots(other)...)
		case "composer.json":
			roots = append(roots, d.composerRoots(other)...)
		case "pyproject.toml":
			roots = append(roots, d.pyprojectRoots(other)...)
		}
	}
	return roots
}

func (d *Detector) containerRoots() []Root {
	var roots []Root
	for _, other := range d.snap.Others {
		base := strings.ToLower(path.Base(other))
		switch {
		case base == "dockerfile" || strings.HasPrefix(base, "dockerfile.") || strings.HasSuffix(base, ".dockerfile"):
			roots = append(roots, d.dockerfileRoots(other)...)
		case base == "docker-compose.yml" || base == "docker-compose.yaml" || base == "compose.yml" || base == "compose.yaml":
			roots = append(roots, d.composeRoots(other)...)
		}
	}
	return roots
}

func (d *Detector) readOther(rel string) []byte {
	data, err := os.ReadFile(filepath.Join(d.snap.Root, filepath.FromSlash(rel)))
	if err != nil {
		slog.Warn("cannot read manifest", "path", rel, "err", err)
		return nil
	}
	return data
}

// rootPath checks one path-like candidate from a manifest against the
// snapshot. Extensionless candidates go through the language resolver so the
// usual probing conventions apply.
func (d *Detector) rootPath(manifestRel, candidate, language string) (Root, bool) {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return Root{}, false
	}
	rel := strings.TrimPrefix(candidate, "./")

	if d.snap.Contains(rel) {
		return Root{Rel: rel, Reason: ReasonManifest, Source: manifestRel}, true
	}

	if language != "" {
		anchor := scan.SourceFile{Rel: path.Join(path.Dir(manifestRel), "anchor"), Language: language}
		res := d.resolver.Resolve(anchor, lang.RawReference{Specifier: "./" + rel, Relative: true})
		if len(res.Targets) > 0 {
			return Root{Rel: res.Targets[0], Reason: ReasonManifest, Source: manifestRel}, true
		}
	}
	return Root{}, false
}
