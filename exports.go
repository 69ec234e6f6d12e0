package liblink

import "github.com/golanglink/liblink/element"

// Type aliases for the public API - resolved-model types come from the
// element subpackage.

// Batch is the resolved output of one Link invocation.
type Batch = element.Batch

// Library is a resolved library.
type Library = element.Library

// Element is any named member of the resolved model.
type Element = element.Element

// Class is a resolved class declaration.
type Class = element.Class

// Mixin is a resolved mixin declaration.
type Mixin = element.Mixin

// Enum is a resolved enum declaration.
type Enum = element.Enum

// TypeAlias is a resolved type alias declaration.
type TypeAlias = element.TypeAlias

// Function is a resolved top-level function.
type Function = element.Function

// Variable is a resolved top-level variable.
type Variable = element.Variable

// Field is a resolved field.
type Field = element.Field

// Constructor is a resolved constructor.
type Constructor = element.Constructor

// Type is a resolved type.
type Type = element.Type

// NamedType is a resolved reference to a class, mixin, enum, or alias.
type NamedType = element.NamedType

// ConstValue is a resolved constant value.
type ConstValue = element.ConstValue

// Diagnostic is an issue recorded during linking.
type Diagnostic = element.Diagnostic

// Severity classifies a diagnostic.
type Severity = element.Severity

// Diagnostic severity levels.
const (
	SeverityError   = element.SeverityError
	SeverityWarning = element.SeverityWarning
	SeverityInfo    = element.SeverityInfo
)

// MacroExecutor runs externally supplied generation code.
type MacroExecutor = element.MacroExecutor

// MacroTarget identifies one declaration's step in a phase.
type MacroTarget = element.MacroTarget

// MacroOutput is what one execution step generated.
type MacroOutput = element.MacroOutput

// MacroPhase is one of the three ordered code-generation stages.
type MacroPhase = element.MacroPhase

// Macro phases, in execution order.
const (
	PhaseTypes        = element.PhaseTypes
	PhaseDeclarations = element.PhaseDeclarations
	PhaseDefinitions  = element.PhaseDefinitions
)

// Serializer consumes the finished element graph and produces the artifact.
type Serializer = element.Serializer

// Augmentation is a macro-generated definition source.
type Augmentation = element.Augmentation
