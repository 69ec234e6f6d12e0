package graph

// CyclicSymbols returns the set of symbols that participate in any cycle,
// including self-loops. The linker degrades these to invalid sentinels
// rather than failing.
func (g *Graph) CyclicSymbols() map[Symbol]struct{} {
	_, cycles := g.ResolutionOrder()
	out := make(map[Symbol]struct{})
	for _, scc := range cycles {
		for _, sym := range scc {
			out[sym] = struct{}{}
		}
	}
	return out
}

// HasCycles reports whether the graph contains any cycles.
func (g *Graph) HasCycles() bool {
	_, cycles := g.ResolutionOrder()
	return len(cycles) > 0
}
