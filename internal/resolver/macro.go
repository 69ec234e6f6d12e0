package resolver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/golanglink/liblink/element"
	"github.com/golanglink/liblink/internal/types"
	"github.com/golanglink/liblink/unit"
)

// maxMacroRounds bounds the declarations-phase iteration. Generation is
// monotonic (declarations are only ever added, never removed), so a
// well-behaved executor converges long before this; hitting the cap means
// the executor generates unboundedly and the batch degrades with a
// diagnostic instead of spinning.
const maxMacroRounds = 64

// runTypesMacroPhase gives every declaration exactly one types-phase step.
// Generated declarations become visible type shells for later phases; the
// caller recomputes export scopes afterwards.
func (c *batchContext) runTypesMacroPhase(ctx context.Context) {
	if c.executor == nil {
		return
	}
	for _, lib := range c.Units {
		for _, d := range snapshot(lib.Declarations) {
			c.macroStep(ctx, lib, d, element.PhaseTypes)
		}
	}
}

// runDeclarationsMacroPhase iterates declarations-phase steps to a fixpoint.
//
// Any step that introduces a new top-level declaration invalidates every
// export scope in the batch, because a single new name can flow through
// re-export chains into arbitrarily many scopes. The recomputation is
// monotonic and append-only, so running it after each such round is safe
// and keeps the convergence argument simple: rounds continue only while
// something was generated, and generation only ever adds.
func (c *batchContext) runDeclarationsMacroPhase(ctx context.Context) {
	if c.executor == nil {
		return
	}
	for round := 1; ; round++ {
		if round > maxMacroRounds {
			c.EmitDiagnostic(types.DiagMacroRoundsExceeded, element.SeverityError, "", "",
				fmt.Sprintf("macro declarations phase did not converge after %d rounds", maxMacroRounds))
			return
		}

		anyActivity := false
		anyNewTopLevel := false
		for _, lib := range c.Units {
			for _, d := range snapshot(lib.Declarations) {
				switch c.macroStep(ctx, lib, d, element.PhaseDeclarations) {
				case element.StepProgress:
					anyActivity = true
				case element.StepNewTopLevelDeclaration:
					anyActivity = true
					anyNewTopLevel = true
				}
			}
		}

		if anyNewTopLevel {
			c.computeExportScopes()
		}
		if !anyActivity {
			if c.TraceEnabled() {
				c.Trace("macro declarations phase converged", slog.Int("rounds", round))
			}
			return
		}
	}
}

// runTargetedDeclarations drives declarations-phase steps for one specific
// declaration until it reports no activity, applying the same export-scope
// invalidation rule as the batch-wide phase. Used to force materialization
// of a single declaration on demand.
func (c *batchContext) runTargetedDeclarations(ctx context.Context, lib *unit.Library, declName string) {
	if c.executor == nil {
		return
	}
	d := lib.Declaration(declName)
	if d == nil {
		return
	}
	for round := 1; ; round++ {
		if round > maxMacroRounds {
			c.EmitDiagnostic(types.DiagMacroRoundsExceeded, element.SeverityError, lib.URI, declName,
				fmt.Sprintf("targeted macro expansion did not converge after %d rounds", maxMacroRounds))
			return
		}
		step := c.macroStep(ctx, lib, d, element.PhaseDeclarations)
		if step == element.StepNewTopLevelDeclaration {
			c.computeExportScopes()
		}
		if step == element.StepNoActivity {
			return
		}
	}
}

// runDefinitionsMacroPhase gives every declaration one definitions-phase
// step. Definition output arrives as augmentations, merged by the final
// pass; top-level declarations are not accepted this late and are dropped.
func (c *batchContext) runDefinitionsMacroPhase(ctx context.Context) {
	if c.executor == nil {
		return
	}
	for _, lib := range c.Units {
		for _, d := range snapshot(lib.Declarations) {
			c.macroStep(ctx, lib, d, element.PhaseDefinitions)
		}
	}
}

// macroStep runs one executor step and applies its output, classifying the
// result. Executor failure is recorded as a diagnostic on the target
// declaration and never aborts the batch.
func (c *batchContext) macroStep(ctx context.Context, lib *unit.Library, d unit.Declaration, phase element.MacroPhase) element.MacroStep {
	target := element.MacroTarget{
		LibraryURI:  lib.URI,
		Declaration: d.DeclarationName(),
		Phase:       phase,
	}
	out, err := c.executor.Execute(ctx, target)
	if err != nil {
		c.EmitDiagnostic(types.DiagMacroExecutionFailed, element.SeverityError, lib.URI, d.DeclarationName(),
			fmt.Sprintf("macro execution failed in %s phase: %v", phase, err))
		return element.StepNoActivity
	}
	if out.Empty() {
		return element.StepNoActivity
	}

	if c.TraceEnabled() {
		c.Trace("macro step produced output",
			slog.String("library", lib.URI),
			slog.String("declaration", d.DeclarationName()),
			slog.String("phase", phase.String()),
			slog.Int("declarations", len(out.Declarations)),
			slog.Int("augmentations", len(out.Augmentations)))
	}

	step := element.StepProgress
	for _, gen := range out.Declarations {
		if phase == element.PhaseDefinitions {
			// Too late for new declarations; scopes are final.
			continue
		}
		name := gen.DeclarationName()
		if lib.Declaration(name) != nil {
			// The declared name already exists; first writer wins.
			continue
		}
		unit.MarkGenerated(gen)
		lib.AddDeclaration(gen)
		c.buildDeclSkeleton(lib, gen)
		step = element.StepNewTopLevelDeclaration
	}

	for _, aug := range out.Augmentations {
		c.pendingAugs = append(c.pendingAugs, pendingAugmentation{lib: lib, aug: aug})
	}

	return step
}

// snapshot copies a declaration list so a phase iterates the declarations
// that existed when it started, not ones its own steps generate.
func snapshot(decls []unit.Declaration) []unit.Declaration {
	out := make([]unit.Declaration, len(decls))
	copy(out, decls)
	return out
}
