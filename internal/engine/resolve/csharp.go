package resolve

import (
	"strings"

	"github.com/duckuio/ducku-cli/internal/engine/lang"
)

// resolveCSharp maps `using A.B.C` to every .cs file inside directories whose
// path ends in `A/B/C`. C# namespaces follow directory layout by convention
// only, so the match stays a heuristic and multiple directory hits fan out.
func (r *Resolver) resolveCSharp(ref lang.RawReference) []string {
	nsDir := strings.ReplaceAll(ref.Specifier, ".", "/")

	var targets []string
	for _, dir := range r.snap.DirsBySuffix(nsDir) {
		for _, rel := range r.snap.FilesInDir(dir) {
			if strings.HasSuffix(rel, ".cs") {
				targets = append(targets, rel)
			}
		}
	}
	return targets
}
