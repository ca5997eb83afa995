package diag

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// SourceMap resolves byte spans of one source text to human positions.
// It is immutable and safe for concurrent use.
type SourceMap struct {
	text       string
	lineStarts []int
}

// Location is a resolved span. Line and Column are 1-based; Column and
// Width count runes, not bytes.
type Location struct {
	Line     int
	Column   int
	Width    int
	LineText string
	// Prefix is the part of the line before the span start.
	Prefix string
}

// NewSourceMap indexes the line starts of text.
func NewSourceMap(text string) *SourceMap {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &SourceMap{text: text, lineStarts: starts}
}

// Text returns the indexed source.
func (m *SourceMap) Text() string {
	if m == nil {
		return ""
	}
	return m.text
}

// Resolve maps span to a location. It reports false for detached spans,
// spans outside the text, or inverted spans.
func (m *SourceMap) Resolve(span Span) (Location, bool) {
	if m == nil || span.IsDetached() || span.Start > len(m.text) || span.End < span.Start {
		return Location{}, false
	}
	end := min(span.End, len(m.text))

	line := sort.Search(len(m.lineStarts), func(i int) bool {
		return m.lineStarts[i] > span.Start
	}) - 1
	lineStart := m.lineStarts[line]
	lineEnd := len(m.text)
	if nl := strings.IndexByte(m.text[lineStart:], '\n'); nl >= 0 {
		lineEnd = lineStart + nl
	}

	prefix := m.text[lineStart:span.Start]
	width := utf8.RuneCountInString(m.text[span.Start:min(end, lineEnd)])
	if width < 1 {
		width = 1
	}

	return Location{
		Line:     line + 1,
		Column:   utf8.RuneCountInString(prefix) + 1,
		Width:    width,
		LineText: m.text[lineStart:lineEnd],
		Prefix:   prefix,
	}, true
}
