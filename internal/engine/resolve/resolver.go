package resolve

import (
	"path"
	"sort"
	"strings"

	"github.com/duckuio/ducku-cli/internal/core/scan"
	"github.com/duckuio/ducku-cli/internal/engine/lang"
)

// Kind classifies the outcome of resolving one reference.
type Kind string

const (
	// ResolvedExact names precisely one module convention target. A Go
	// package import still carries every file of the package.
	ResolvedExact Kind = "exact"
	// ResolvedAmbiguous matched several candidate modules; the graph gets an
	// edge to every candidate so reachability over-approximates.
	ResolvedAmbiguous Kind = "ambiguous"
	// Unresolved points outside the snapshot (third-party or stdlib). No
	// graph node is created for it.
	Unresolved Kind = "unresolved"
)

// Resolution is the outcome for one raw reference.
type Resolution struct {
	Ref     lang.RawReference
	Kind    Kind
	Targets []string // snapshot rel paths, sorted, deduplicated
}

// Resolver maps raw references to snapshot files. It never touches the
// filesystem; every existence check runs against the snapshot, so resolving
// the same reference twice always gives the same answer.
type Resolver struct {
	snap *scan.Snapshot

	// goModule is the module path from the project's go.mod, empty when the
	// project has none.
	goModule string
}

func New(snap *scan.Snapshot, goModule string) *Resolver {
	return &Resolver{snap: snap, goModule: strings.TrimSpace(goModule)}
}

// Resolve maps one reference found in file to snapshot targets.
func (r *Resolver) Resolve(file scan.SourceFile, ref lang.RawReference) Resolution {
	var targets []string
	switch file.Language {
	case "python":
		targets = r.resolvePython(file, ref)
	case "javascript", "typescript":
		targets = r.resolveJSLike(file, ref)
	case "go":
		targets = r.resolveGo(ref)
	case "java":
		targets = r.resolveJava(ref)
	case "csharp":
		targets = r.resolveCSharp(ref)
	case "ruby":
		targets = r.resolveRuby(file, ref)
	case "php":
		targets = r.resolvePHP(file, ref)
	}

	targets = dedupSorted(targets)

	// Self imports carry no reachability information.
	targets = without(targets, file.Rel)

	switch {
	case len(targets) == 0:
		return Resolution{Ref: ref, Kind: Unresolved}
	case len(targets) == 1:
		return Resolution{Ref: ref, Kind: ResolvedExact, Targets: targets}
	default:
		kind := ResolvedAmbiguous
		if file.Language == "go" && sameDir(targets) {
			// One package, many files.
			kind = ResolvedExact
		}
		return Resolution{Ref: ref, Kind: kind, Targets: targets}
	}
}

// joinFrom resolves a relative specifier against the directory of rel.
// References escaping the project root resolve to nothing.
func joinFrom(rel, specifier string) (string, bool) {
	joined := path.Join(path.Dir(rel), specifier)
	if joined == ".." || strings.HasPrefix(joined, "../") {
		return "", false
	}
	if joined == "." {
		return "", false
	}
	return joined, true
}

func dedupSorted(in []string) []string {
	if len(in) < 2 {
		return in
	}
	sort.Strings(in)
	out := in[:1]
	for _, s := range in[1:] {
		if s != out[len(out)-1] {
			out = append(out, s)
		}
	}
	return out
}

func without(targets []string, rel string) []string {
	out := targets[:0]
	for _, t := range targets {
		if t != rel {
			out = append(out, t)
		}
	}
	return out
}

func sameDir(targets []string) bool {
	dir := path.Dir(targets[0])
	for _, t := range targets[1:] {
		if path.Dir(t) != dir {
			return false
		}
	}
	return true
}
