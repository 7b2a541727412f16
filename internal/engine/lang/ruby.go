package lang

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// RubyAdapter extracts require, require_relative, and load calls with literal
// string arguments. Interpolated strings are skipped.
type RubyAdapter struct{}

func (a *RubyAdapter) Language() string { return "ruby" }

func (a *RubyAdapter) Extract(root *sitter.Node, source []byte) []RawReference {
	w := newWalker(source, map[string]nodeHandler{
		"call": extractRubyRequire,
	})
	w.walk(root)
	return w.refs
}

func extractRubyRequire(w *walker, node *sitter.Node) {
	method := node.ChildByFieldName("method")
	if method == nil {
		return
	}
	name := w.text(method)
	if name != "require" && name != "require_relative" && name != "load" {
		return
	}
	if node.ChildByFieldName("receiver") != nil {
		return
	}

	args := node.ChildByFieldName("arguments")
	str := w.firstChildOfKind(args, "string")
	if str == nil {
		return
	}
	if w.firstChildOfKind(str, "interpolation") != nil {
		return
	}

	specifier := w.childText(str, "string_content")
	if specifier == "" {
		specifier = trimQuoted(w.text(str))
	}
	relative := name == "require_relative" || isPathRelative(specifier)
	w.add(specifier, relative, str)
}
