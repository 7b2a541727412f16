package lang

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// nodeHandler processes one node kind for a language adapter.
type nodeHandler func(w *walker, node *sitter.Node)

// walker dispatches node handlers by kind while descending the syntax tree.
// Handlers append to refs through add; the walk order keeps refs in source
// order without an extra sort.
type walker struct {
	source   []byte
	handlers map[string]nodeHandler
	refs     []RawReference
}

func newWalker(source []byte, handlers map[string]nodeHandler) *walker {
	return &walker{source: source, handlers: handlers}
}

func (w *walker) walk(node *sitter.Node) {
	if node == nil {
		return
	}
	if handler, ok := w.handlers[node.Kind()]; ok {
		handler(w, node)
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		w.walk(node.Child(i))
	}
}

func (w *walker) add(specifier string, relative bool, node *sitter.Node) {
	specifier = strings.TrimSpace(specifier)
	if specifier == "" {
		return
	}
	w.refs = append(w.refs, RawReference{
		Specifier: specifier,
		Relative:  relative,
		Location:  w.location(node),
	})
}

func (w *walker) text(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return string(w.source[node.StartByte():node.EndByte()])
}

func (w *walker) location(node *sitter.Node) Location {
	return Location{
		Line:   int(node.StartPosition().Row) + 1,
		Column: int(node.StartPosition().Column) + 1,
	}
}

func (w *walker) childText(node *sitter.Node, kind string) string {
	if node == nil {
		return ""
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() == kind {
			return w.text(child)
		}
	}
	return ""
}

func (w *walker) firstChildOfKind(node *sitter.Node, kinds ...string) *sitter.Node {
	if node == nil {
		return nil
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		for _, kind := range kinds {
			if child.Kind() == kind {
				return child
			}
		}
	}
	return nil
}
