package lang

import (
	"context"
	"path"
	"strings"
	"sync"
	"time"

	tree_sitter_c_sharp "github.com/tree-sitter/tree-sitter-c-sharp/bindings/go"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_php "github.com/tree-sitter/tree-sitter-php/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_ruby "github.com/tree-sitter/tree-sitter-ruby/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/duckuio/ducku-cli/internal/core/errors"
	"github.com/duckuio/ducku-cli/internal/shared/observability"
)

// parserPool recycles parser instances for one grammar. Parsers are reset on
// return so no references to previous trees are retained.
type parserPool struct {
	lang *sitter.Language
	pool sync.Pool
}

func newParserPool(lang *sitter.Language) *parserPool {
	p := &parserPool{lang: lang}
	p.pool = sync.Pool{
		New: func() any {
			sp := sitter.NewParser()
			sp.SetLanguage(lang)
			return sp
		},
	}
	return p
}

func (p *parserPool) get() *sitter.Parser {
	sp := p.pool.Get().(*sitter.Parser)
	sp.SetLanguage(p.lang)
	return sp
}

func (p *parserPool) put(sp *sitter.Parser) {
	if sp == nil {
		return
	}
	sp.Reset()
	p.pool.Put(sp)
}

var (
	poolsOnce sync.Once
	pools     map[string]*parserPool
)

// grammarPools builds the per-grammar pools lazily; grammar construction
// crosses into C and is not free.
func grammarPools() map[string]*parserPool {
	poolsOnce.Do(func() {
		pools = map[string]*parserPool{
			"python":     newParserPool(sitter.NewLanguage(tree_sitter_python.Language())),
			"javascript": newParserPool(sitter.NewLanguage(tree_sitter_javascript.Language())),
			"typescript": newParserPool(sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())),
			"tsx":        newParserPool(sitter.NewLanguage(tree_sitter_typescript.LanguageTSX())),
			"go":         newParserPool(sitter.NewLanguage(tree_sitter_go.Language())),
			"java":       newParserPool(sitter.NewLanguage(tree_sitter_java.Language())),
			"csharp":     newParserPool(sitter.NewLanguage(tree_sitter_c_sharp.Language())),
			"ruby":       newParserPool(sitter.NewLanguage(tree_sitter_ruby.Language())),
			"php":        newParserPool(sitter.NewLanguage(tree_sitter_php.LanguagePHPOnly())),
		}
	})
	return pools
}

// grammarKey picks the pool key for a file. TSX files share the typescript
// adapter but need the TSX grammar variant.
func grammarKey(language, rel string) string {
	if language == "typescript" && strings.EqualFold(path.Ext(rel), ".tsx") {
		return "tsx"
	}
	return language
}

type extractResult struct {
	refs    []RawReference
	partial bool
}

// ExtractFile parses one source file and returns its reference list. partial
// reports that the tree contained syntax errors; extraction still covers the
// intact subtrees. The parse itself cannot be interrupted, so on context
// expiry the worker goroutine is abandoned and its result discarded.
func ExtractFile(ctx context.Context, language, rel string, source []byte) ([]RawReference, bool, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		derr := &errors.DomainError{Code: errors.CodeCancelled, Message: "parse interrupted", Err: ctxErr}
		derr.WithContext(errors.CtxPath, rel)
		return nil, false, derr
	}
	adapter, ok := AdapterFor(language)
	if !ok {
		return nil, false, errors.Newf(errors.CodeNotSupported, "no adapter for language %q", language)
	}
	pool, ok := grammarPools()[grammarKey(language, rel)]
	if !ok {
		return nil, false, errors.Newf(errors.CodeNotSupported, "no grammar for language %q", language)
	}

	start := time.Now()
	done := make(chan extractResult, 1)
	go func() {
		sp := pool.get()
		defer pool.put(sp)

		tree := sp.Parse(source, nil)
		if tree == nil {
			done <- extractResult{}
			return
		}
		defer tree.Close()

		root := tree.RootNode()
		done <- extractResult{
			refs:    adapter.Extract(root, source),
			partial: root.HasError(),
		}
	}()

	select {
	case res := <-done:
		observability.ParseDuration.WithLabelValues(language).Observe(time.Since(start).Seconds())
		return res.refs, res.partial, nil
	case <-ctx.Done():
		derr := &errors.DomainError{Code: errors.CodeCancelled, Message: "parse interrupted", Err: ctx.Err()}
		derr.WithContext(errors.CtxPath, rel)
		derr.WithContext(errors.CtxLanguage, language)
		return nil, false, derr
	}
}
