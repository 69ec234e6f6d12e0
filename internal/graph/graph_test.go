package graph

import (
	"testing"

	"github.com/golanglink/liblink/internal/testutil"
)

func sym(name string) Symbol {
	return Symbol{Library: "pkg:test", Name: name}
}

func indexOf(order []Symbol, s Symbol) int {
	for i, o := range order {
		if o == s {
			return i
		}
	}
	return -1
}

func TestResolutionOrderDependenciesFirst(t *testing.T) {
	g := New()
	g.AddEdge(sym("c"), sym("b"))
	g.AddEdge(sym("b"), sym("a"))

	order, cycles := g.ResolutionOrder()
	testutil.Len(t, cycles, 0, "acyclic graph has no cycles")
	testutil.Len(t, order, 3)
	testutil.True(t, indexOf(order, sym("a")) < indexOf(order, sym("b")), "a before b")
	testutil.True(t, indexOf(order, sym("b")) < indexOf(order, sym("c")), "b before c")
}

func TestResolutionOrderReportsCycles(t *testing.T) {
	g := New()
	g.AddEdge(sym("a"), sym("b"))
	g.AddEdge(sym("b"), sym("a"))
	g.AddEdge(sym("c"), sym("a"))

	order, cycles := g.ResolutionOrder()
	testutil.Len(t, cycles, 1)
	testutil.Len(t, cycles[0], 2)
	testutil.Len(t, order, 1, "only c resolves")
	testutil.Equal(t, sym("c"), order[0])
}

func TestSelfLoopIsCycle(t *testing.T) {
	g := New()
	g.AddEdge(sym("a"), sym("a"))

	testutil.True(t, g.HasCycles(), "self loop counts as a cycle")
	cyclic := g.CyclicSymbols()
	_, ok := cyclic[sym("a")]
	testutil.True(t, ok, "a is cyclic")
}

func TestCyclicSymbolsSpansComponents(t *testing.T) {
	g := New()
	g.AddEdge(sym("a"), sym("b"))
	g.AddEdge(sym("b"), sym("c"))
	g.AddEdge(sym("c"), sym("a"))
	g.AddNode(sym("lone"))

	cyclic := g.CyclicSymbols()
	testutil.Equal(t, 3, len(cyclic))
	_, ok := cyclic[sym("lone")]
	testutil.False(t, ok, "lone node is not cyclic")
}

func TestDuplicateEdgesIgnored(t *testing.T) {
	g := New()
	g.AddEdge(sym("a"), sym("b"))
	g.AddEdge(sym("a"), sym("b"))
	testutil.Len(t, g.Dependencies(sym("a")), 1)
}

func TestResolutionOrderDeterministic(t *testing.T) {
	build := func() *Graph {
		g := New()
		g.AddEdge(sym("x"), sym("y"))
		g.AddEdge(sym("z"), sym("y"))
		g.AddNode(sym("w"))
		return g
	}
	first, _ := build().ResolutionOrder()
	for i := 0; i < 10; i++ {
		again, _ := build().ResolutionOrder()
		testutil.Len(t, again, len(first))
		for i := range first {
			testutil.Equal(t, first[i], again[i], "order stable across runs")
		}
	}
}
