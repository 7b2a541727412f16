package lang

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// GoAdapter extracts import specs. Go import paths are always package paths;
// the resolver matches them against the module path from go.mod.
type GoAdapter struct{}

func (a *GoAdapter) Language() string { return "go" }

func (a *GoAdapter) Extract(root *sitter.Node, source []byte) []RawReference {
	w := newWalker(source, map[string]nodeHandler{
		"import_spec": extractGoImportSpec,
	})
	w.walk(root)
	return w.refs
}

func extractGoImportSpec(w *walker, node *sitter.Node) {
	path := node.ChildByFieldName("path")
	if path == nil {
		path = w.firstChildOfKind(node, "interpreted_string_literal", "raw_string_literal")
	}
	if path == nil {
		return
	}
	w.add(trimQuoted(w.text(path)), false, path)
}
