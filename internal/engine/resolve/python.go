package resolve

import (
	"path"
	"strings"

	"github.com/duckuio/ducku-cli/internal/core/scan"
	"github.com/duckuio/ducku-cli/internal/engine/lang"
)

// resolvePython maps dotted module specifiers to files. `a.b.c` tries
// `a/b/c.py` and `a/b/c/__init__.py` as path suffixes anywhere in the
// snapshot; relative imports walk up one directory per extra leading dot.
func (r *Resolver) resolvePython(file scan.SourceFile, ref lang.RawReference) []string {
	spec := ref.Specifier
	if ref.Relative || strings.HasPrefix(spec, ".") {
		return r.resolvePythonRelative(file, spec)
	}

	modulePath := strings.ReplaceAll(spec, ".", "/")
	targets := r.snap.FindBySuffix(modulePath + ".py")
	targets = append(targets, r.snap.FindBySuffix(modulePath+"/__init__.py")...)
	return targets
}

func (r *Resolver) resolvePythonRelative(file scan.SourceFile, spec string) []string {
	dots := 0
	for dots < len(spec) && spec[dots] == '.' {
		dots++
	}
	remainder := spec[dots:]

	// One dot anchors at the file's own package; each extra dot climbs one
	// directory.
	base := path.Dir(file.Rel)
	for i := 1; i < dots; i++ {
		if base == "." || base == "" {
			return nil
		}
		base = path.Dir(base)
	}
	if base == "." {
		base = ""
	}

	if remainder == "" {
		return present(r.snap, path.Join(base, "__init__.py"))
	}
	modulePath := path.Join(base, strings.ReplaceAll(remainder, ".", "/"))
	return present(r.snap, modulePath+".py", modulePath+"/__init__.py")
}

func present(snap *scan.Snapshot, candidates ...string) []string {
	var out []string
	for _, c := range candidates {
		if snap.Contains(c) {
			out = append(out, c)
		}
	}
	return out
}
