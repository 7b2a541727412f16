package lang

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// CSharpAdapter extracts using directives. Alias directives contribute the
// aliased namespace; using statements (the resource form) are a different
// node kind and never reach the handler.
type CSharpAdapter struct{}

func (a *CSharpAdapter) Language() string { return "csharp" }

func (a *CSharpAdapter) Extract(root *sitter.Node, source []byte) []RawReference {
	w := newWalker(source, map[string]nodeHandler{
		"using_directive": extractCSharpUsing,
	})
	w.walk(root)
	return w.refs
}

// using A.B.C;  using static A.B.C;  using Alias = A.B.C;
func extractCSharpUsing(w *walker, node *sitter.Node) {
	var name *sitter.Node
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "qualified_name", "identifier":
			name = child
		}
	}
	if name == nil {
		return
	}
	w.add(w.text(name), false, name)
}
