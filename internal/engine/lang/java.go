package lang

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// JavaAdapter extracts import declarations. Wildcard imports keep their
// trailing ".*" so the resolver can expand them against a package directory.
type JavaAdapter struct{}

func (a *JavaAdapter) Language() string { return "java" }

func (a *JavaAdapter) Extract(root *sitter.Node, source []byte) []RawReference {
	w := newWalker(source, map[string]nodeHandler{
		"import_declaration": extractJavaImport,
	})
	w.walk(root)
	return w.refs
}

// import a.b.C;  import static a.b.C.method;  import a.b.*;
func extractJavaImport(w *walker, node *sitter.Node) {
	name := w.firstChildOfKind(node, "scoped_identifier", "identifier")
	if name == nil {
		return
	}
	specifier := w.text(name)
	if w.firstChildOfKind(node, "asterisk") != nil {
		specifier += ".*"
	}
	w.add(specifier, false, name)
}
