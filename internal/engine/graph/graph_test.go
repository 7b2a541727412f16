package graph

import (
	"testing"

	"github.com/duckuio/ducku-cli/internal/engine/lang"
	"github.com/duckuio/ducku-cli/internal/engine/resolve"
)

func exact(spec string, targets ...string) resolve.Resolution {
	return resolve.Resolution{
		Ref:     lang.RawReference{Specifier: spec},
		Kind:    resolve.ResolvedExact,
		Targets: targets,
	}
}

func ambiguous(spec string, targets ...string) resolve.Resolution {
	return resolve.Resolution{
		Ref:     lang.RawReference{Specifier: spec},
		Kind:    resolve.ResolvedAmbiguous,
		Targets: targets,
	}
}

func unresolved(spec string) resolve.Resolution {
	return resolve.Resolution{
		Ref:  lang.RawReference{Specifier: spec},
		Kind: resolve.Unresolved,
	}
}

func TestEdgeDeduplication(t *testing.T) {
	g := New()
	g.AddResolution("a.py", exact("b", "b.py"))
	g.AddResolution("a.py", exact("b", "b.py"))

	if g.EdgeCount() != 1 {
		t.Fatalf("edge count = %d, want 1", g.EdgeCount())
	}
}

func TestDistinctSpecifiersKeepDistinctEdges(t *testing.T) {
	g := New()
	g.AddResolution("a.rb", exact("lib/b", "lib/b.rb"))
	g.AddResolution("a.rb", exact("./lib/b", "lib/b.rb"))

	if g.EdgeCount() != 2 {
		t.Fatalf("edge count = %d, want 2", g.EdgeCount())
	}
}

func TestAmbiguousFansOut(t *testing.T) {
	g := New()
	g.AddResolution("main.py", ambiguous("utils", "a/utils.py", "b/utils.py"))

	deps := g.Dependencies("main.py")
	if len(deps) != 2 {
		t.Fatalf("dependencies = %v, want two candidates", deps)
	}
	if !g.HasNode("a/utils.py") || !g.HasNode("b/utils.py") {
		t.Error("candidate targets must become nodes")
	}
}

func TestExternalsNeverBecomeNodes(t *testing.T) {
	g := New()
	g.AddResolution("main.py", unresolved("numpy"))

	if g.HasNode("numpy") {
		t.Error("unresolved reference must not create a node")
	}
	ext := g.Externals()
	if len(ext) != 1 || ext[0].Specifier != "numpy" {
		t.Fatalf("externals = %+v", ext)
	}
}

func TestImpliedUnresolvedDropped(t *testing.T) {
	g := New()
	g.AddResolution("main.py", resolve.Resolution{
		Ref:  lang.RawReference{Specifier: "lib.helper_func", Implied: true},
		Kind: resolve.Unresolved,
	})

	if len(g.Externals()) != 0 {
		t.Fatalf("implied unresolved reference must not be recorded: %+v", g.Externals())
	}
}

func TestInsertionOrderIrrelevant(t *testing.T) {
	build := func(reversed bool) *ModuleGraph {
		g := New()
		resolutions := []struct {
			from string
			res  resolve.Resolution
		}{
			{"main.py", exact("lib.a", "lib/a.py")},
			{"lib/a.py", exact("lib.b", "lib/b.py")},
		}
		if reversed {
			resolutions[0], resolutions[1] = resolutions[1], resolutions[0]
		}
		for _, r := range resolutions {
			g.AddResolution(r.from, r.res)
		}
		g.AddNode("lib/c.py", "python")
		return g
	}

	a, b := build(false), build(true)
	an, bn := a.Nodes(), b.Nodes()
	if len(an) != len(bn) {
		t.Fatalf("node sets differ: %v vs %v", an, bn)
	}
	for i := range an {
		if an[i] != bn[i] {
			t.Fatalf("node order differs: %v vs %v", an, bn)
		}
	}
	ae, be := a.Edges(), b.Edges()
	if len(ae) != len(be) {
		t.Fatalf("edge sets differ")
	}
	for i := range ae {
		if ae[i] != be[i] {
			t.Fatalf("edge %d differs: %+v vs %+v", i, ae[i], be[i])
		}
	}
}

func TestReachBFS(t *testing.T) {
	g := New()
	g.AddResolution("main.py", exact("lib.a", "lib/a.py"))
	g.AddResolution("lib/a.py", exact("lib.b", "lib/b.py"))
	g.AddNode("lib/c.py", "python")

	res := g.Reach([]string{"main.py"})
	for _, rel := range []string{"main.py", "lib/a.py", "lib/b.py"} {
		if !res.Reachable[rel] {
			t.Errorf("%s should be reachable", rel)
		}
	}

	unused := g.Unreachable(res)
	if len(unused) != 1 || unused[0] != "lib/c.py" {
		t.Fatalf("unreachable = %v, want [lib/c.py]", unused)
	}
}

func TestReachCycle(t *testing.T) {
	g := New()
	g.AddResolution("a.py", exact("b", "b.py"))
	g.AddResolution("b.py", exact("a", "a.py"))
	g.AddNode("island.py", "python")

	res := g.Reach([]string{"a.py"})
	if !res.Reachable["b.py"] {
		t.Error("cycle member should be reachable")
	}
	if res.Reachable["island.py"] {
		t.Error("island should stay unreachable")
	}
}

func TestReachEmptyRootSet(t *testing.T) {
	g := New()
	g.AddNode("a.py", "python")
	g.AddNode("b.py", "python")

	res := g.Reach(nil)
	if len(res.Reachable) != 0 {
		t.Fatalf("nothing should be reachable, got %v", res.Reachable)
	}
	if got := g.Unreachable(res); len(got) != 2 {
		t.Fatalf("unreachable = %v, want both nodes", got)
	}
}

func TestReachIgnoresUnknownRoots(t *testing.T) {
	g := New()
	g.AddNode("a.py", "python")

	res := g.Reach([]string{"missing.py", "a.py"})
	if len(res.Roots) != 1 || res.Roots[0] != "a.py" {
		t.Fatalf("roots = %v, want [a.py]", res.Roots)
	}
}

func TestSelfLoopDoesNotMakeReachable(t *testing.T) {
	g := New()
	g.AddResolution("solo.py", exact("solo", "solo.py"))
	g.AddNode("main.py", "python")

	res := g.Reach([]string{"main.py"})
	if res.Reachable["solo.py"] {
		t.Error("self-referencing module must not reach itself from foreign roots")
	}
}
