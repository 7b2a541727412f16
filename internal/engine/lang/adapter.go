package lang

import (
	"sort"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Location is a 1-based source position of a reference statement.
type Location struct {
	Line   int
	Column int
}

// RawReference is one import-like statement found in a source file: the
// literal specifier text plus whether it is syntactically relative
// (./-style paths, Python leading dots, Ruby require_relative, PHP includes).
//
// Implied references are speculative: a Python `from pkg import name` emits
// `pkg.name` as implied because name may be a submodule or just a symbol.
// An implied reference that resolves adds an edge; one that does not is
// dropped without counting as an external dependency.
type RawReference struct {
	Specifier string
	Relative  bool
	Implied   bool
	Location  Location
}

// Adapter extracts the ordered reference list for one language. Adapters are
// stateless; the same instance runs concurrently across worker goroutines.
type Adapter interface {
	Language() string
	Extract(root *sitter.Node, source []byte) []RawReference
}

var adapters = map[string]Adapter{
	"python":     &PythonAdapter{},
	"javascript": &JavaScriptAdapter{language: "javascript"},
	"typescript": &JavaScriptAdapter{language: "typescript"},
	"go":         &GoAdapter{},
	"java":       &JavaAdapter{},
	"csharp":     &CSharpAdapter{},
	"ruby":       &RubyAdapter{},
	"php":        &PHPAdapter{},
}

// AdapterFor returns the adapter variant for a language id.
func AdapterFor(language string) (Adapter, bool) {
	a, ok := adapters[language]
	return a, ok
}

// SupportedLanguages returns the adapter language ids in sorted order.
func SupportedLanguages() []string {
	out := make([]string, 0, len(adapters))
	for lang := range adapters {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}

func trimQuoted(value string) string {
	value = strings.TrimSpace(value)
	return strings.Trim(value, "\"'`")
}

func isPathRelative(specifier string) bool {
	return strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../")
}
