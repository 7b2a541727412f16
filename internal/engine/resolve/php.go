package resolve

import (
	"strings"

	"github.com/duckuio/ducku-cli/internal/core/scan"
	"github.com/duckuio/ducku-cli/internal/engine/lang"
)

// resolvePHP handles file includes relative to the including file or the
// project root, and namespace uses through PSR-4 style suffix matching: the
// longest path suffix of the namespace that names existing files wins, so
// `App\Services\Mailer` finds `src/Services/Mailer.php` even though the
// `App` prefix maps onto `src`.
func (r *Resolver) resolvePHP(file scan.SourceFile, ref lang.RawReference) []string {
	spec := ref.Specifier
	if strings.Contains(spec, "\\") {
		return r.resolvePHPNamespace(spec)
	}

	var targets []string
	if joined, ok := joinFrom(file.Rel, spec); ok && r.snap.Contains(joined) {
		targets = append(targets, joined)
	}
	rootRel := strings.TrimPrefix(spec, "./")
	if r.snap.Contains(rootRel) {
		targets = append(targets, rootRel)
	}
	if len(targets) > 0 {
		return targets
	}
	return r.snap.FindBySuffix(spec)
}

func (r *Resolver) resolvePHPNamespace(spec string) []string {
	segments := strings.Split(strings.Trim(spec, "\\"), "\\")
	for start := 0; start < len(segments); start++ {
		suffix := strings.Join(segments[start:], "/") + ".php"
		if targets := r.snap.FindBySuffix(suffix); len(targets) > 0 {
			return targets
		}
	}
	return nil
}
