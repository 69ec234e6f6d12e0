package types

// Diagnostic codes emitted by the linker phases.
// Centralizing these prevents silent breakage from typos in string literals.

// Macro pipeline diagnostic codes.
const (
	DiagMacroExecutionFailed = "macro-execution-failed"
	DiagMacroRoundsExceeded  = "macro-rounds-exceeded"
)

// Resolution pipeline diagnostic codes.
const (
	DiagTypeUnknown          = "type-unknown"
	DiagTypeArityMismatch    = "type-arity-mismatch"
	DiagNotSimplyBounded     = "not-simply-bounded"
	DiagAliasSelfReference   = "alias-self-reference"
	DiagSupertypeCycle       = "supertype-cycle"
	DiagSuperConstructor     = "super-constructor-not-found"
	DiagRedirectCycle        = "constructor-redirect-cycle"
	DiagRedirectUnknown      = "constructor-redirect-unknown"
	DiagInferenceCycle       = "inference-cycle"
	DiagConstCycle           = "const-cycle"
	DiagConstNotConstant     = "const-not-constant"
	DiagAnnotationUnresolved = "annotation-unresolved"
	DiagFieldFormalUnknown   = "field-formal-unknown"
)

// DiagCodeInfo describes a diagnostic code and the phase that emits it.
type DiagCodeInfo struct {
	Code  string
	Phase string
}

// AllDiagnosticCodes returns all known diagnostic codes grouped by phase.
func AllDiagnosticCodes() []DiagCodeInfo {
	return []DiagCodeInfo{
		// Macro pipeline
		{Code: DiagMacroExecutionFailed, Phase: "macro"},
		{Code: DiagMacroRoundsExceeded, Phase: "macro"},
		// Resolution pipeline
		{Code: DiagTypeUnknown, Phase: "resolver"},
		{Code: DiagTypeArityMismatch, Phase: "resolver"},
		{Code: DiagNotSimplyBounded, Phase: "resolver"},
		{Code: DiagAliasSelfReference, Phase: "resolver"},
		{Code: DiagSupertypeCycle, Phase: "resolver"},
		{Code: DiagSuperConstructor, Phase: "resolver"},
		{Code: DiagRedirectCycle, Phase: "resolver"},
		{Code: DiagRedirectUnknown, Phase: "resolver"},
		{Code: DiagInferenceCycle, Phase: "resolver"},
		{Code: DiagConstCycle, Phase: "resolver"},
		{Code: DiagConstNotConstant, Phase: "resolver"},
		{Code: DiagAnnotationUnresolved, Phase: "resolver"},
		{Code: DiagFieldFormalUnknown, Phase: "resolver"},
	}
}
