package graph

import (
	"fmt"
	"sort"
	"sync"

	"github.com/duckuio/ducku-cli/internal/engine/lang"
	"github.com/duckuio/ducku-cli/internal/engine/resolve"
	"github.com/duckuio/ducku-cli/internal/shared/observability"
)

// Edge is one resolved dependency between two snapshot files. Ambiguous
// resolutions contribute one edge per candidate.
type Edge struct {
	From      string
	To        string
	Specifier string
	Kind      resolve.Kind
	Location  lang.Location
}

// ExternalRef is a reference that resolved outside the snapshot. Externals
// never become nodes; they are kept for reporting only.
type ExternalRef struct {
	From      string
	Specifier string
	Location  lang.Location
}

// ModuleGraph is the unified cross-language dependency graph. Nodes are the
// snapshot's rel paths; every scanned file is a node even when nothing
// references it.
type ModuleGraph struct {
	mu sync.RWMutex

	nodes    map[string]bool
	language map[string]string

	edges     map[string]Edge            // keyed from|to|specifier
	forward   map[string]map[string]bool // from -> to set
	backward  map[string]map[string]bool // to -> from set
	externals []ExternalRef
}

func New() *ModuleGraph {
	return &ModuleGraph{
		nodes:    make(map[string]bool),
		language: make(map[string]string),
		edges:    make(map[string]Edge),
		forward:  make(map[string]map[string]bool),
		backward: make(map[string]map[string]bool),
	}
}

// AddNode registers a file as a graph node. Safe to call before or after any
// edge touching the file; insertion order never changes the final graph.
func (g *ModuleGraph) AddNode(rel, language string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nodes[rel] = true
	g.language[rel] = language
}

// AddResolution folds one resolution into the graph. Unresolved references
// land in the external list; resolved ones add one deduplicated edge per
// target. Both endpoints are materialized as nodes.
func (g *ModuleGraph) AddResolution(from string, res resolve.Resolution) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.nodes[from] = true
	if res.Kind == resolve.Unresolved {
		if res.Ref.Implied {
			return
		}
		g.externals = append(g.externals, ExternalRef{
			From:      from,
			Specifier: res.Ref.Specifier,
			Location:  res.Ref.Location,
		})
		return
	}

	for _, to := range res.Targets {
		g.nodes[to] = true
		key := edgeKey(from, to, res.Ref.Specifier)
		if _, dup := g.edges[key]; dup {
			continue
		}
		g.edges[key] = Edge{
			From:      from,
			To:        to,
			Specifier: res.Ref.Specifier,
			Kind:      res.Kind,
			Location:  res.Ref.Location,
		}
		if g.forward[from] == nil {
			g.forward[from] = make(map[string]bool)
		}
		g.forward[from][to] = true
		if g.backward[to] == nil {
			g.backward[to] = make(map[string]bool)
		}
		g.backward[to][from] = true
	}
}

func edgeKey(from, to, specifier string) string {
	return fmt.Sprintf("%s|%s|%s", from, to, specifier)
}

// Publish pushes the graph size gauges.
func (g *ModuleGraph) Publish() {
	g.mu.RLock()
	defer g.mu.RUnlock()
	observability.GraphNodes.Set(float64(len(g.nodes)))
	observability.GraphEdges.Set(float64(len(g.edges)))
}

func (g *ModuleGraph) HasNode(rel string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.nodes[rel]
}

// Nodes returns every node rel path in sorted order.
func (g *ModuleGraph) Nodes() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]string, 0, len(g.nodes))
	for rel := range g.nodes {
		out = append(out, rel)
	}
	sort.Strings(out)
	return out
}

// Edges returns every edge ordered by (from, to, specifier).
func (g *ModuleGraph) Edges() []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Edge, 0, len(g.edges))
	for _, e := range g.edges {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		if out[i].To != out[j].To {
			return out[i].To < out[j].To
		}
		return out[i].Specifier < out[j].Specifier
	})
	return out
}

// Externals returns the unresolved references ordered by (from, specifier).
func (g *ModuleGraph) Externals() []ExternalRef {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]ExternalRef, len(g.externals))
	copy(out, g.externals)
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].Specifier < out[j].Specifier
	})
	return out
}

// Dependencies returns the sorted direct targets of rel.
func (g *ModuleGraph) Dependencies(rel string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return sortedSet(g.forward[rel])
}

// Dependents returns the sorted direct sources pointing at rel.
func (g *ModuleGraph) Dependents(rel string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return sortedSet(g.backward[rel])
}

func (g *ModuleGraph) Language(rel string) string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.language[rel]
}

func (g *ModuleGraph) NodeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

func (g *ModuleGraph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.edges)
}

func sortedSet(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for rel := range set {
		out = append(out, rel)
	}
	sort.Strings(out)
	return out
}
