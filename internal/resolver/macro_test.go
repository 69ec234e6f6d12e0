package resolver

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/golanglink/liblink/element"
	"github.com/golanglink/liblink/internal/testutil"
	"github.com/golanglink/liblink/internal/types"
	"github.com/golanglink/liblink/unit"
)

// execFunc adapts a function to the MacroExecutor interface.
type execFunc func(ctx context.Context, target element.MacroTarget) (element.MacroOutput, error)

func (f execFunc) Execute(ctx context.Context, target element.MacroTarget) (element.MacroOutput, error) {
	return f(ctx, target)
}

func linkWith(t *testing.T, units []*unit.Library, exec element.MacroExecutor) *element.Batch {
	t.Helper()
	batch, _, err := Link(context.Background(), units, Options{Executor: exec})
	if err != nil {
		t.Fatalf("Link failed: %v", err)
	}
	return batch
}

func diagsByCode(batch *element.Batch, code string) []element.Diagnostic {
	var out []element.Diagnostic
	for _, d := range batch.Diagnostics() {
		if d.Code == code {
			out = append(out, d)
		}
	}
	return out
}

// A declarations-phase macro adds a constant to its own library; that
// constant must become visible through a re-export chain and be usable by
// another batch library's inference and constant evaluation.
func TestMacroGeneratedNameFlowsThroughReexport(t *testing.T) {
	x := unit.NewLibrary("pkg:x")
	x.AddDeclaration(unit.NewClass("Gen", unit.Synthetic))
	x.AddImport("std:core", nil)

	y := unit.NewLibrary("pkg:y")
	y.AddExport("pkg:x", nil)

	z := unit.NewLibrary("pkg:z")
	z.AddImport("pkg:y", nil)
	z.AddImport("std:core", nil)
	mirrored := unit.NewVariable("mirrored", unit.Synthetic)
	mirrored.Init = unit.Ident{Name: "answer"}
	z.AddDeclaration(mirrored)
	next := unit.NewVariable("next", unit.Synthetic)
	next.IsConst = true
	next.Init = unit.Binary{Op: "+", Left: unit.Ident{Name: "answer"}, Right: unit.IntLit{Value: 1}}
	z.AddDeclaration(next)

	fired := false
	exec := execFunc(func(_ context.Context, target element.MacroTarget) (element.MacroOutput, error) {
		if target.Phase != element.PhaseDeclarations || target.Declaration != "Gen" || fired {
			return element.MacroOutput{}, nil
		}
		fired = true
		answer := unit.NewVariable("answer", unit.Synthetic)
		answer.IsConst = true
		answer.Init = unit.IntLit{Value: 42}
		return element.MacroOutput{Declarations: []unit.Declaration{answer}}, nil
	})

	batch := linkWith(t, []*unit.Library{testutil.CoreLibrary(), x, y, z}, exec)
	testutil.False(t, batch.HasErrors(), "diagnostics: %v", batch.Diagnostics())

	answer := batch.Library("pkg:x").Variable("answer")
	testutil.NotNil(t, answer, "generated constant materialized in pkg:x")
	testutil.Equal(t, int64(42), answer.Value().Int())
	testutil.Equal(t, "int", answer.Type().String(), "generated constant type inferred")

	zlib := batch.Library("pkg:z")
	testutil.Equal(t, "int", zlib.Variable("mirrored").Type().String(),
		"inference sees the generated constant through pkg:y")
	testutil.True(t, zlib.Variable("mirrored").Inferred())
	testutil.Equal(t, int64(43), zlib.Variable("next").Value().Int(),
		"constant evaluation sees the generated constant")
}

// An executor failure degrades only the declaration it failed on; every
// other declaration in the batch still resolves.
func TestMacroFailureIsPerDeclaration(t *testing.T) {
	lib := unit.NewLibrary("pkg:main")
	lib.AddImport("std:core", nil)
	lib.AddDeclaration(unit.NewClass("Broken", unit.Synthetic))
	ok := unit.NewVariable("fine", unit.Synthetic)
	ok.IsConst = true
	ok.Init = unit.IntLit{Value: 7}
	lib.AddDeclaration(ok)

	exec := execFunc(func(_ context.Context, target element.MacroTarget) (element.MacroOutput, error) {
		if target.Phase == element.PhaseDeclarations && target.Declaration == "Broken" {
			return element.MacroOutput{}, errors.New("generation panicked")
		}
		return element.MacroOutput{}, nil
	})

	batch := linkWith(t, []*unit.Library{testutil.CoreLibrary(), lib}, exec)

	diags := diagsByCode(batch, types.DiagMacroExecutionFailed)
	testutil.Len(t, diags, 1)
	testutil.Equal(t, "Broken", diags[0].Declaration)
	testutil.Equal(t, "pkg:main", diags[0].Library)

	fine := batch.Library("pkg:main").Variable("fine")
	testutil.Equal(t, int64(7), fine.Value().Int(), "unrelated declarations still resolve")
	testutil.Equal(t, "int", fine.Type().String())
}

// An executor that generates a fresh name every round never converges; the
// declarations phase must stop at the round cap with a diagnostic instead
// of spinning.
func TestMacroDeclarationsRoundCap(t *testing.T) {
	lib := unit.NewLibrary("pkg:main")
	lib.AddImport("std:core", nil)
	lib.AddDeclaration(unit.NewClass("Seed", unit.Synthetic))

	n := 0
	exec := execFunc(func(_ context.Context, target element.MacroTarget) (element.MacroOutput, error) {
		if target.Phase != element.PhaseDeclarations || target.Declaration != "Seed" {
			return element.MacroOutput{}, nil
		}
		n++
		gen := unit.NewVariable(fmt.Sprintf("gen%d", n), unit.Synthetic)
		gen.IsConst = true
		gen.Init = unit.IntLit{Value: int64(n)}
		return element.MacroOutput{Declarations: []unit.Declaration{gen}}, nil
	})

	batch := linkWith(t, []*unit.Library{testutil.CoreLibrary(), lib}, exec)

	testutil.Len(t, diagsByCode(batch, types.DiagMacroRoundsExceeded), 1)
	testutil.Equal(t, maxMacroRounds, n, "one generation per round up to the cap")
}

// Declarations emitted in the definitions phase arrive after scopes are
// final and are dropped; augmentations are merged.
func TestDefinitionsPhaseDropsDeclarations(t *testing.T) {
	lib := unit.NewLibrary("pkg:main")
	lib.AddImport("std:core", nil)
	lib.AddDeclaration(unit.NewClass("Host", unit.Synthetic))

	exec := execFunc(func(_ context.Context, target element.MacroTarget) (element.MacroOutput, error) {
		if target.Phase != element.PhaseDefinitions || target.Declaration != "Host" {
			return element.MacroOutput{}, nil
		}
		late := unit.NewVariable("tooLate", unit.Synthetic)
		return element.MacroOutput{
			Declarations:  []unit.Declaration{late},
			Augmentations: []element.Augmentation{{Declaration: "Host", Source: "augment class Host {}"}},
		}, nil
	})

	batch := linkWith(t, []*unit.Library{testutil.CoreLibrary(), lib}, exec)

	main := batch.Library("pkg:main")
	testutil.True(t, main.Variable("tooLate") == nil, "definitions-phase declaration dropped")
	testutil.Len(t, main.Augmentations(), 1)
	testutil.Equal(t, "Host", main.Augmentations()[0].Declaration)
}

// A generated declaration whose name already exists is skipped; the
// existing declaration wins.
func TestMacroDuplicateNameSkipped(t *testing.T) {
	lib := unit.NewLibrary("pkg:main")
	lib.AddImport("std:core", nil)
	lib.AddDeclaration(unit.NewClass("Gen", unit.Synthetic))
	existing := unit.NewVariable("taken", unit.Synthetic)
	existing.IsConst = true
	existing.Init = unit.IntLit{Value: 1}
	lib.AddDeclaration(existing)

	fired := false
	exec := execFunc(func(_ context.Context, target element.MacroTarget) (element.MacroOutput, error) {
		if target.Phase != element.PhaseDeclarations || target.Declaration != "Gen" || fired {
			return element.MacroOutput{}, nil
		}
		fired = true
		dup := unit.NewVariable("taken", unit.Synthetic)
		dup.IsConst = true
		dup.Init = unit.IntLit{Value: 99}
		return element.MacroOutput{Declarations: []unit.Declaration{dup}}, nil
	})

	batch := linkWith(t, []*unit.Library{testutil.CoreLibrary(), lib}, exec)
	testutil.Equal(t, int64(1), batch.Library("pkg:main").Variable("taken").Value().Int())
}

// Targeted expansion drives a single declaration to quiescence and applies
// the same export-scope invalidation as the batch-wide phase.
func TestTargetedDeclarationsExpansion(t *testing.T) {
	lib := unit.NewLibrary("pkg:main")
	lib.AddDeclaration(unit.NewClass("Seed", unit.Synthetic))
	other := unit.NewLibrary("pkg:other")
	other.AddExport("pkg:main", nil)

	fired := false
	exec := execFunc(func(_ context.Context, target element.MacroTarget) (element.MacroOutput, error) {
		if target.Declaration != "Seed" || fired {
			return element.MacroOutput{}, nil
		}
		fired = true
		gen := unit.NewVariable("grown", unit.Synthetic)
		return element.MacroOutput{Declarations: []unit.Declaration{gen}}, nil
	})

	c := newBatchContext([]*unit.Library{lib, other}, nil, exec, nil)
	c.buildSkeletons()
	c.computeExportScopes()

	c.runTargetedDeclarations(context.Background(), lib, "Seed")

	testutil.True(t, lib.Declaration("grown") != nil, "declaration materialized")
	_, visible := other.Scope().Get("grown")
	testutil.True(t, visible, "export scopes recomputed after generation")
}

// Targeted expansion of a name that does not exist is a no-op.
func TestTargetedDeclarationsUnknownName(t *testing.T) {
	lib := unit.NewLibrary("pkg:main")
	lib.AddDeclaration(unit.NewClass("Seed", unit.Synthetic))

	called := false
	exec := execFunc(func(_ context.Context, _ element.MacroTarget) (element.MacroOutput, error) {
		called = true
		return element.MacroOutput{}, nil
	})

	c := newBatchContext([]*unit.Library{lib}, nil, exec, nil)
	c.buildSkeletons()
	c.computeExportScopes()

	c.runTargetedDeclarations(context.Background(), lib, "Missing")
	testutil.False(t, called, "no executor step for an unknown declaration")
}
