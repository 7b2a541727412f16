package lang

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// PHPAdapter extracts namespace use declarations (resolved later through
// PSR-4 style suffix matching) and require/include expressions with literal
// file paths. Strings containing interpolation are skipped.
type PHPAdapter struct{}

func (a *PHPAdapter) Language() string { return "php" }

func (a *PHPAdapter) Extract(root *sitter.Node, source []byte) []RawReference {
	w := newWalker(source, map[string]nodeHandler{
		"namespace_use_declaration": extractPHPUse,
		"require_expression":        extractPHPInclude,
		"require_once_expression":   extractPHPInclude,
		"include_expression":        extractPHPInclude,
		"include_once_expression":   extractPHPInclude,
	})
	w.walk(root)
	return w.refs
}

// use A\B\C;  use A\B\{C, D};  use function A\b;  use A\B\C as D;
func extractPHPUse(w *walker, node *sitter.Node) {
	prefix := ""
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "namespace_use_clause":
			name := w.firstChildOfKind(child, "qualified_name", "name")
			if name != nil {
				w.add(w.text(name), false, name)
			}
		case "qualified_name", "name", "namespace_name":
			// group prefix in the `use A\B\{...}` form
			prefix = w.text(child)
		case "namespace_use_group":
			extractPHPUseGroup(w, child, prefix)
		}
	}
}

func extractPHPUseGroup(w *walker, group *sitter.Node, prefix string) {
	for i := uint(0); i < group.ChildCount(); i++ {
		clause := group.Child(i)
		if clause.Kind() != "namespace_use_clause" && clause.Kind() != "namespace_use_group_clause" {
			continue
		}
		name := w.firstChildOfKind(clause, "qualified_name", "name", "namespace_name")
		if name == nil {
			continue
		}
		specifier := w.text(name)
		if prefix != "" {
			specifier = strings.TrimSuffix(prefix, "\\") + "\\" + specifier
		}
		w.add(specifier, false, name)
	}
}

// require 'lib/foo.php';  include_once("util.php")
func extractPHPInclude(w *walker, node *sitter.Node) {
	arg := w.firstChildOfKind(node, "string", "encapsed_string")
	if arg == nil {
		if paren := w.firstChildOfKind(node, "parenthesized_expression"); paren != nil {
			arg = w.firstChildOfKind(paren, "string", "encapsed_string")
		}
	}
	if arg == nil {
		return
	}
	raw := w.text(arg)
	if strings.Contains(raw, "$") {
		return
	}
	w.add(trimQuoted(raw), true, arg)
}
