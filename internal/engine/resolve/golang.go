package resolve

import (
	"strings"

	"github.com/duckuio/ducku-cli/internal/engine/lang"
)

// resolveGo matches import paths under the project's go.mod module path.
// An internal package import targets every .go file of the package directory.
func (r *Resolver) resolveGo(ref lang.RawReference) []string {
	if r.goModule == "" {
		return nil
	}
	spec := ref.Specifier

	var pkgDir string
	switch {
	case spec == r.goModule:
		pkgDir = ""
	case strings.HasPrefix(spec, r.goModule+"/"):
		pkgDir = strings.TrimPrefix(spec, r.goModule+"/")
	default:
		return nil
	}

	var targets []string
	for _, rel := range r.snap.FilesInDir(pkgDir) {
		if strings.HasSuffix(rel, ".go") {
			targets = append(targets, rel)
		}
	}
	return targets
}
