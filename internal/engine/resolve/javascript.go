package resolve

import (
	"strings"

	"github.com/duckuio/ducku-cli/internal/core/scan"
	"github.com/duckuio/ducku-cli/internal/engine/lang"
)

// jsExtensions is the resolution order shared by the javascript and
// typescript conventions.
var jsExtensions = []string{".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx"}

// resolveJSLike handles relative path specifiers with extension probing and
// index-file fallback. Bare specifiers are package imports and stay
// unresolved.
func (r *Resolver) resolveJSLike(file scan.SourceFile, ref lang.RawReference) []string {
	spec := strings.TrimPrefix(ref.Specifier, "node:")
	if !ref.Relative {
		return nil
	}

	base, ok := joinFrom(file.Rel, spec)
	if !ok {
		return nil
	}

	var targets []string
	if r.snap.Contains(base) {
		targets = append(targets, base)
	}
	for _, ext := range jsExtensions {
		if r.snap.Contains(base + ext) {
			targets = append(targets, base+ext)
		}
	}
	for _, ext := range jsExtensions {
		index := base + "/index" + ext
		if r.snap.Contains(index) {
			targets = append(targets, index)
		}
	}
	return targets
}
