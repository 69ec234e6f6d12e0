package resolver

import (
	"log/slog"

	"github.com/golanglink/liblink/unit"
)

// computeExportScopes runs the batch-wide export-scope fixpoint.
//
// Scopes grow monotonically and are append-only with first-writer-wins, so
// the computation is safe to re-run after macro steps add declarations: a
// recomputation only ever adds the newly reachable names.
//
// The schedule splits exporting libraries into two groups. A library that
// both exports and is exported may sit on an export cycle, so those are
// iterated to a fixpoint. A library that only exports (nothing re-exports
// it) cannot feed names back into the cycle and needs just one merge before
// the iteration and one after, once the cyclic scopes are complete.
func (c *batchContext) computeExportScopes() {
	c.scopeGen++

	// Direct scopes: every top-level declaration under its own name.
	// Re-running after macro rounds picks up generated declarations.
	for _, lib := range c.Units {
		scope := lib.Scope()
		for _, d := range lib.Declarations {
			scope.Add(unit.Reference{Name: d.DeclarationName(), Library: lib.URI, Decl: d})
		}
	}

	var exporters []int
	exported := make(map[int]bool)
	for h := range c.Units {
		if len(c.exportEdges[h]) > 0 {
			exporters = append(exporters, h)
		}
		for _, e := range c.exportEdges[h] {
			exported[e.target] = true
		}
	}

	var cyclic, acyclic []int
	for _, h := range exporters {
		if exported[h] {
			cyclic = append(cyclic, h)
		} else {
			acyclic = append(acyclic, h)
		}
	}

	for _, h := range acyclic {
		c.mergeExports(h)
	}

	rounds := 0
	for {
		rounds++
		changed := false
		for _, h := range cyclic {
			if c.mergeExports(h) {
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	// Cyclic scopes are complete; flush them outward one more time.
	for _, h := range acyclic {
		c.mergeExports(h)
	}

	if c.TraceEnabled() {
		c.Trace("export fixpoint converged",
			slog.Int("rounds", rounds),
			slog.Int("cyclic", len(cyclic)),
			slog.Int("acyclic", len(acyclic)))
	}
}

// mergeExports merges every export edge of h into h's scope, reporting
// whether any name was newly added. Private names never cross an edge.
func (c *batchContext) mergeExports(h int) bool {
	lib := c.arena[h]
	scope := lib.Scope()
	changed := false
	for _, e := range c.exportEdges[h] {
		src := c.arena[e.target].Scope()
		for _, name := range src.Names() {
			if !isPublicName(name) {
				continue
			}
			if e.filter != nil && !e.filter.Allows(name) {
				continue
			}
			ref, _ := src.Get(name)
			if scope.Add(ref) {
				changed = true
			}
		}
	}
	return changed
}
