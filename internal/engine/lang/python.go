package lang

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// PythonAdapter extracts import and from-import statements. Dotted module
// paths keep their dots; relative imports keep their leading dot prefix so the
// resolver can count levels.
type PythonAdapter struct{}

func (a *PythonAdapter) Language() string { return "python" }

func (a *PythonAdapter) Extract(root *sitter.Node, source []byte) []RawReference {
	w := newWalker(source, map[string]nodeHandler{
		"import_statement":      extractPythonImport,
		"import_from_statement": extractPythonFromImport,
	})
	w.walk(root)
	return w.refs
}

// import a.b, c as d
func extractPythonImport(w *walker, node *sitter.Node) {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "dotted_name", "identifier":
			w.add(w.text(child), false, child)
		case "aliased_import":
			name := w.firstChildOfKind(child, "dotted_name", "identifier")
			if name != nil {
				w.add(w.text(name), false, name)
			}
		}
	}
}

// from a.b import x  /  from . import x  /  from ..pkg import x
//
// Besides the module itself, every imported name is emitted as an implied
// `module.name` reference; the resolver keeps the ones that are submodules.
func extractPythonFromImport(w *walker, node *sitter.Node) {
	module := node.ChildByFieldName("module_name")
	if module == nil {
		return
	}
	text := w.text(module)
	relative := module.Kind() == "relative_import" || strings.HasPrefix(text, ".")
	w.add(text, relative, module)

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.StartByte() == module.StartByte() {
			continue
		}
		var name *sitter.Node
		switch child.Kind() {
		case "dotted_name", "identifier":
			name = child
		case "aliased_import":
			name = w.firstChildOfKind(child, "dotted_name", "identifier")
		default:
			continue
		}
		if name == nil {
			continue
		}
		combined := text + "." + w.text(name)
		if strings.HasSuffix(text, ".") {
			combined = text + w.text(name)
		}
		w.refs = append(w.refs, RawReference{
			Specifier: combined,
			Relative:  relative,
			Implied:   true,
			Location:  w.location(name),
		})
	}
}
