package typeset

import (
	"cmp"
	"slices"

	"github.com/alnah/go-markrender/internal/diag"
	"github.com/alnah/go-markrender/internal/pipeline"
)

// parser is shared by all compilations.
var parser = pipeline.NewParser()

// Result is the outcome of a compilation. Document is nil when Errors is
// not empty. Warnings are reported either way.
type Result struct {
	Document *Document
	Warnings []diag.Diagnostic
	Errors   []diag.Diagnostic
}

// Compile lays out the main source of w. It never panics on malformed
// input; problems come back as diagnostics in source order.
func Compile(w World) *Result {
	e := newEngine(w)
	u := parser.Parse(e.src)
	e.body = u.Body
	e.errors = append(e.errors, u.Diagnostics...)

	e.layout(u)
	e.finish()

	if err := e.m.Err(); err != nil {
		e.errors = append(e.errors, diag.Errorf(diag.Detached, "font unavailable: %v", err))
	}
	if e.overflow {
		e.errors = append(e.errors, diag.Errorf(diag.Detached, "document has more than %d pages", maxPages))
	}

	bySpan := func(a, b diag.Diagnostic) int { return cmp.Compare(a.Span.Start, b.Span.Start) }
	slices.SortStableFunc(e.errors, bySpan)
	slices.SortStableFunc(e.warnings, bySpan)

	res := &Result{Warnings: e.warnings, Errors: e.errors}
	if len(e.errors) == 0 {
		res.Document = &Document{Pages: e.pages}
	}
	return res
}
