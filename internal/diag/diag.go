// Package diag models compiler diagnostics and renders them as text.
//
// A Diagnostic points into the main source through a byte Span. The
// SourceMap built from that source resolves spans to line and column
// positions, and Format turns a list of diagnostics into the text handed
// back to callers, both for failed compilations and for warnings attached
// to successful output.
package diag

import "fmt"

// Severity classifies a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// String returns the lowercase label used in formatted output.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "diagnostic"
	}
}

// Span is a half-open byte range [Start, End) into the main source.
type Span struct {
	Start int
	End   int
}

// Detached is the span of diagnostics that have no source location,
// such as failures while serializing an already compiled document.
var Detached = Span{Start: -1, End: -1}

// IsDetached reports whether the span carries no location.
func (s Span) IsDetached() bool {
	return s.Start < 0
}

// Diagnostic is an error or warning emitted while compiling a document.
type Diagnostic struct {
	Severity Severity
	Span     Span
	Message  string
	Hints    []string
}

// Errorf builds an error diagnostic.
func Errorf(span Span, format string, args ...any) Diagnostic {
	return Diagnostic{Severity: SeverityError, Span: span, Message: fmt.Sprintf(format, args...)}
}

// Warningf builds a warning diagnostic.
func Warningf(span Span, format string, args ...any) Diagnostic {
	return Diagnostic{Severity: SeverityWarning, Span: span, Message: fmt.Sprintf(format, args...)}
}

// WithHint returns a copy of d with hint appended. Empty hints are ignored.
func (d Diagnostic) WithHint(hint string) Diagnostic {
	if hint == "" {
		return d
	}
	hints := make([]string, len(d.Hints), len(d.Hints)+1)
	copy(hints, d.Hints)
	d.Hints = append(hints, hint)
	return d
}

// HasErrors reports whether any diagnostic in diags is an error.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}
