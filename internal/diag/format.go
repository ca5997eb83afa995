package diag

import (
	"fmt"
	"strconv"
	"strings"
)

// unknownLocation is printed when a span cannot be resolved.
const unknownLocation = "<unknown location>"

// Format renders diags against m, one block per diagnostic separated by a
// blank line. An empty list formats to the empty string. Spans that do not
// resolve are printed with a placeholder location instead of failing.
func Format(m *SourceMap, diags []Diagnostic) string {
	if len(diags) == 0 {
		return ""
	}

	var b strings.Builder
	for i, d := range diags {
		if i > 0 {
			b.WriteByte('\n')
		}
		writeDiagnostic(&b, m, d)
	}
	return b.String()
}

func writeDiagnostic(b *strings.Builder, m *SourceMap, d Diagnostic) {
	fmt.Fprintf(b, "%s: %s\n", d.Severity, d.Message)

	gutter := " "
	if !d.Span.IsDetached() {
		loc, ok := m.Resolve(d.Span)
		if !ok {
			fmt.Fprintf(b, "  --> %s\n", unknownLocation)
		} else {
			num := strconv.Itoa(loc.Line)
			gutter = strings.Repeat(" ", len(num))
			fmt.Fprintf(b, "  --> %d:%d\n", loc.Line, loc.Column)
			fmt.Fprintf(b, " %s |\n", gutter)
			fmt.Fprintf(b, " %s | %s\n", num, loc.LineText)
			fmt.Fprintf(b, " %s | %s%s\n", gutter, blankPrefix(loc.Prefix), strings.Repeat("^", loc.Width))
		}
	}

	for _, hint := range d.Hints {
		fmt.Fprintf(b, " %s = hint: %s\n", gutter, hint)
	}
}

// blankPrefix keeps tabs so carets line up under tab-indented source.
func blankPrefix(prefix string) string {
	var b strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			b.WriteRune('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}
