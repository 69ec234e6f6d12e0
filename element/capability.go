package element

import (
	"context"

	"github.com/golanglink/liblink/unit"
)

// MacroPhase is one of the three ordered code-generation stages.
type MacroPhase int

const (
	// PhaseTypes establishes macro-visible type shells; one pass per node.
	PhaseTypes MacroPhase = iota
	// PhaseDeclarations generates declarations; iterated to a fixpoint.
	PhaseDeclarations
	// PhaseDefinitions generates definition bodies; one pass per node,
	// after constructors and constants are resolved.
	PhaseDefinitions
)

// String returns the lowercase phase name.
func (p MacroPhase) String() string {
	switch p {
	case PhaseTypes:
		return "types"
	case PhaseDeclarations:
		return "declarations"
	case PhaseDefinitions:
		return "definitions"
	default:
		return "unknown"
	}
}

// MacroStep is the tagged outcome of one declaration's step in a phase.
type MacroStep int

const (
	// StepNoActivity means the step generated nothing.
	StepNoActivity MacroStep = iota
	// StepProgress means the step generated output but no new top-level
	// declaration.
	StepProgress
	// StepNewTopLevelDeclaration means the step introduced a top-level
	// declaration, which forces a batch-wide export-scope recomputation.
	StepNewTopLevelDeclaration
)

// String returns the step name.
func (s MacroStep) String() string {
	switch s {
	case StepNoActivity:
		return "no-activity"
	case StepProgress:
		return "progress"
	case StepNewTopLevelDeclaration:
		return "new-top-level-declaration"
	default:
		return "unknown"
	}
}

// MacroTarget identifies one declaration's step in a phase.
type MacroTarget struct {
	LibraryURI  string
	Declaration string
	Phase       MacroPhase
}

// MacroOutput is what one execution step generated. An empty output means
// no activity for the target.
type MacroOutput struct {
	// Declarations are newly generated top-level declarations for the
	// target's library.
	Declarations []unit.Declaration
	// Augmentations are generated definition sources attached to existing
	// declarations; only meaningful in the definitions phase.
	Augmentations []Augmentation
}

// Empty reports whether the step generated nothing.
func (o MacroOutput) Empty() bool {
	return len(o.Declarations) == 0 && len(o.Augmentations) == 0
}

// MacroExecutor runs externally supplied generation code. Execution may be
// backed by out-of-process or asynchronous machinery; the linker only
// requires that Execute is safely re-invocable, including in targeted mode
// against a single declaration.
//
// An error return is recorded as a diagnostic attached to the target
// declaration and does not abort the batch.
type MacroExecutor interface {
	Execute(ctx context.Context, target MacroTarget) (MacroOutput, error)
}

// Serializer consumes the finished element graph, one library at a time in
// input order, and produces an immutable byte artifact.
type Serializer interface {
	WriteLibrary(lib *Library) error
	Finish() ([]byte, error)
}
