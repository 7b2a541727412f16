package resolve

import (
	"strings"

	"github.com/duckuio/ducku-cli/internal/engine/lang"
)

// resolveJava maps `a.b.C` to files whose path ends in `a/b/C.java`. Wildcard
// imports expand to every file of the matched package directories. Static
// member imports drop the member segment and retry as a class import.
func (r *Resolver) resolveJava(ref lang.RawReference) []string {
	spec := ref.Specifier

	if strings.HasSuffix(spec, ".*") {
		pkg := strings.ReplaceAll(strings.TrimSuffix(spec, ".*"), ".", "/")
		var targets []string
		for _, dir := range r.snap.DirsBySuffix(pkg) {
			for _, rel := range r.snap.FilesInDir(dir) {
				if strings.HasSuffix(rel, ".java") {
					targets = append(targets, rel)
				}
			}
		}
		return targets
	}

	modulePath := strings.ReplaceAll(spec, ".", "/")
	if targets := r.snap.FindBySuffix(modulePath + ".java"); len(targets) > 0 {
		return targets
	}

	// import static a.b.C.member
	if idx := strings.LastIndex(modulePath, "/"); idx > 0 {
		return r.snap.FindBySuffix(modulePath[:idx] + ".java")
	}
	return nil
}
