package graph

import "sort"

// Reachability is the result of one BFS sweep from the root set.
type Reachability struct {
	Roots     []string
	Reachable map[string]bool
}

// Reach runs a breadth-first sweep over the forward edges starting from the
// given roots. Roots that are not graph nodes are ignored. Every root is
// reachable by definition; with an empty root set nothing is.
func (g *ModuleGraph) Reach(roots []string) *Reachability {
	g.mu.RLock()
	defer g.mu.RUnlock()

	res := &Reachability{Reachable: make(map[string]bool)}

	var queue []string
	for _, root := range roots {
		if !g.nodes[root] || res.Reachable[root] {
			continue
		}
		res.Roots = append(res.Roots, root)
		res.Reachable[root] = true
		queue = append(queue, root)
	}
	sort.Strings(res.Roots)

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for next := range g.forward[current] {
			if res.Reachable[next] {
				continue
			}
			res.Reachable[next] = true
			queue = append(queue, next)
		}
	}
	return res
}

// Unreachable returns the sorted nodes the sweep never visited.
func (g *ModuleGraph) Unreachable(res *Reachability) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var out []string
	for rel := range g.nodes {
		if !res.Reachable[rel] {
			out = append(out, rel)
		}
	}
	sort.Strings(out)
	return out
}
