package lang

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// JavaScriptAdapter covers both the javascript and typescript grammars; their
// import surfaces share node kinds. It extracts static imports, re-exports,
// require calls, and dynamic import() calls with literal specifiers.
type JavaScriptAdapter struct {
	language string
}

func (a *JavaScriptAdapter) Language() string { return a.language }

func (a *JavaScriptAdapter) Extract(root *sitter.Node, source []byte) []RawReference {
	w := newWalker(source, map[string]nodeHandler{
		"import_statement": extractJSImportSource,
		"export_statement": extractJSImportSource,
		"call_expression":  extractJSCall,
	})
	w.walk(root)
	return w.refs
}

// import x from "./a"; export { y } from "./b"; import "./side-effect"
func extractJSImportSource(w *walker, node *sitter.Node) {
	source := node.ChildByFieldName("source")
	if source == nil {
		return
	}
	addJSSpecifier(w, source)
}

// require("./a") and import("./a"). Only literal arguments; template strings
// with substitutions are not statically resolvable and are skipped.
func extractJSCall(w *walker, node *sitter.Node) {
	fn := node.ChildByFieldName("function")
	if fn == nil {
		return
	}
	switch fn.Kind() {
	case "identifier":
		if w.text(fn) != "require" {
			return
		}
	case "import":
	default:
		return
	}

	args := node.ChildByFieldName("arguments")
	arg := w.firstChildOfKind(args, "string", "template_string")
	if arg == nil {
		return
	}
	addJSSpecifier(w, arg)
}

func addJSSpecifier(w *walker, node *sitter.Node) {
	raw := w.text(node)
	if node.Kind() == "template_string" && strings.Contains(raw, "${") {
		return
	}
	specifier := trimQuoted(raw)
	w.add(specifier, isPathRelative(specifier), node)
}
