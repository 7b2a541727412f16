package resolve

import (
	"strings"

	"github.com/duckuio/ducku-cli/internal/core/scan"
	"github.com/duckuio/ducku-cli/internal/engine/lang"
)

// resolveRuby handles require_relative against the file's directory and plain
// require/load against load-path conventions via suffix matching.
func (r *Resolver) resolveRuby(file scan.SourceFile, ref lang.RawReference) []string {
	spec := ref.Specifier
	if !strings.HasSuffix(spec, ".rb") {
		spec += ".rb"
	}

	if ref.Relative {
		joined, ok := joinFrom(file.Rel, spec)
		if !ok {
			return nil
		}
		return present(r.snap, joined)
	}

	// require "lib/parser" finds any file ending in lib/parser.rb; a bare
	// require "json" only matches a project-local json.rb.
	return r.snap.FindBySuffix(spec)
}
