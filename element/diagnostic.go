package element

import "strings"

// Severity classifies a diagnostic.
type Severity int

const (
	// SeverityError marks results degraded to a sentinel (invalid type,
	// invalid constant) or a failed macro execution.
	SeverityError Severity = iota
	// SeverityWarning marks suspicious but fully resolved results.
	SeverityWarning
	// SeverityInfo marks informational notes.
	SeverityInfo
)

// String returns the lowercase severity name.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// AtLeast reports whether s is at least as severe as other.
func (s Severity) AtLeast(other Severity) bool {
	return s <= other
}

// Diagnostic is an issue recorded during linking. Linking prefers degraded
// results over failure; callers inspect diagnostics after Link returns.
type Diagnostic struct {
	Severity Severity
	// Code is a stable machine-readable identifier, e.g. "type-unknown".
	Code    string
	Message string
	// Library is the URI of the library the issue belongs to.
	Library string
	// Declaration names the top-level declaration the issue is attached
	// to, or "" for library-level issues.
	Declaration string
}

// String returns "[severity] library(declaration): code: message" with
// location parts omitted when empty.
func (d Diagnostic) String() string {
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(d.Severity.String())
	b.WriteByte(']')
	b.WriteByte(' ')
	if d.Library != "" {
		b.WriteString(d.Library)
		if d.Declaration != "" {
			b.WriteByte('(')
			b.WriteString(d.Declaration)
			b.WriteByte(')')
		}
		b.WriteString(": ")
	}
	if d.Code != "" {
		b.WriteString(d.Code)
		b.WriteString(": ")
	}
	b.WriteString(d.Message)
	return b.String()
}
