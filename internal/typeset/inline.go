package typeset

import (
	"image/color"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/alnah/go-markrender/internal/assets"
	"github.com/alnah/go-markrender/internal/diag"
	"github.com/alnah/go-markrender/internal/hints"
)

// style is the look of a run of text.
type style struct {
	variant   assets.Variant
	size      float64
	color     color.NRGBA
	underline bool
	strike    bool
}

// sameFont reports whether a and b can share one Text item.
func (a style) sameFont(b style) bool {
	return a.variant == b.variant && a.size == b.size && a.color == b.color
}

// run is styled text. pos is the source offset of text[0], or -1 for
// generated text such as list markers.
type run struct {
	text  string
	style style
	pos   int
}

// bodyStyle is the style of plain paragraph text.
func (e *engine) bodyStyle() style {
	return style{variant: e.bodyVariant(), size: e.text.size, color: e.text.fill}
}

// inlines flattens the inline children of n into runs. at locates
// diagnostics for generated text.
func (e *engine) inlines(n ast.Node, st style, at diag.Span) []run {
	var runs []run
	e.collect(n, st, at, 0, &runs)
	return runs
}

func (e *engine) collect(parent ast.Node, st style, at diag.Span, depth int, out *[]run) {
	if depth > maxDepth {
		e.tooDeep(at)
		return
	}
	body := e.body
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		switch n := n.(type) {
		case *ast.Text:
			seg := n.Segment
			e.emit(out, string(seg.Value(body)), st, seg.Start, at)
			switch {
			case n.HardLineBreak():
				*out = append(*out, run{text: "\n", style: st, pos: -1})
			case n.SoftLineBreak():
				*out = append(*out, run{text: " ", style: st, pos: -1})
			}
		case *ast.String:
			e.emit(out, string(n.Value), st, -1, at)
		case *ast.CodeSpan:
			cs := st
			cs.variant |= assets.VariantMono
			cs.size = st.size * e.defs.Code.Scale
			e.collect(n, cs, at, depth+1, out)
		case *ast.Emphasis:
			es := st
			if n.Level >= 2 {
				es.variant |= assets.VariantBold
			} else {
				es.variant |= assets.VariantItalic
			}
			e.collect(n, es, at, depth+1, out)
		case *ast.Link:
			e.collect(n, e.linkStyle(st), at, depth+1, out)
		case *ast.AutoLink:
			e.emit(out, string(n.Label(body)), e.linkStyle(st), -1, nodeSpan(n, at))
		case *ast.Image:
			span := nodeSpan(n, at)
			e.warn(diag.Warningf(span, "image `%s` cannot be loaded", n.Destination).WithHint(hints.ForImage()))
			is := st
			is.variant |= assets.VariantItalic
			e.emit(out, "[image: "+plainText(n, body)+"]", is, -1, span)
		case *ast.RawHTML:
			e.warn(diag.Warningf(segmentsSpan(n.Segments, at), "raw HTML is not rendered").WithHint(hints.ForRawHTML()))
		case *east.Strikethrough:
			ss := st
			ss.strike = true
			e.collect(n, ss, at, depth+1, out)
		case *east.TaskCheckBox:
			cs := st
			cs.variant |= assets.VariantMono
			mark := "[ ] "
			if n.IsChecked {
				mark = "[x] "
			}
			e.emit(out, mark, cs, -1, at)
		default:
			e.collect(n, st, at, depth+1, out)
		}
	}
}

func (e *engine) linkStyle(st style) style {
	st.color = e.defs.LinkColor()
	st.underline = true
	return st
}

// emit appends text as a run and reports characters the fonts lack.
// Whitespace and control bytes become spaces, keeping offsets intact.
func (e *engine) emit(out *[]run, s string, st style, pos int, at diag.Span) {
	if s == "" {
		return
	}
	s = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return ' '
		}
		return r
	}, s)
	for i, r := range s {
		if r == ' ' || e.missing[r] || e.m.Has(st.variant, r) {
			continue
		}
		e.missing[r] = true
		span := at
		if pos >= 0 {
			span = diag.Span{Start: pos + i, End: pos + i + max(utf8.RuneLen(r), 1)}
		}
		e.warn(diag.Warningf(span, "no glyph for %q (U+%04X) in the embedded fonts", r, r).
			WithHint(hints.ForMissingGlyph()))
	}
	*out = append(*out, run{text: s, style: st, pos: pos})
}

func (e *engine) tooDeep(at diag.Span) {
	if e.deep {
		return
	}
	e.deep = true
	e.warn(diag.Warningf(at, "content nested deeper than %d levels is omitted", maxDepth))
}

// plainText concatenates the text under n.
func plainText(n ast.Node, body []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch c := c.(type) {
		case *ast.Text:
			b.Write(c.Segment.Value(body))
		case *ast.String:
			b.Write(c.Value)
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

// nodeSpan returns the source range of the text under n, or fallback.
// It scans from both ends of the subtree for the first positioned node.
func nodeSpan(n ast.Node, fallback diag.Span) diag.Span {
	first, ok := scan(n, ast.Node.FirstChild, ast.Node.NextSibling)
	if !ok {
		return fallback
	}
	last, _ := scan(n, ast.Node.LastChild, ast.Node.PreviousSibling)
	return diag.Span{Start: first.Start, End: max(first.Stop, last.Stop)}
}

// scan walks the subtree of root in pre-order, children visited in the
// direction given by down and across, and returns the first segment found.
func scan(root ast.Node, down, across func(ast.Node) ast.Node) (text.Segment, bool) {
	for c := root; c != nil; {
		if seg, ok := segmentOf(c); ok {
			return seg, true
		}
		if d := down(c); d != nil {
			c = d
			continue
		}
		for c != root && across(c) == nil {
			c = c.Parent()
		}
		if c == root {
			break
		}
		c = across(c)
	}
	return text.Segment{}, false
}

// segmentOf returns the source range of a text node or a block with lines.
func segmentOf(n ast.Node) (text.Segment, bool) {
	if t, ok := n.(*ast.Text); ok {
		return t.Segment, true
	}
	if n.Type() != ast.TypeBlock || n.Lines().Len() == 0 {
		return text.Segment{}, false
	}
	lines := n.Lines()
	return text.NewSegment(lines.At(0).Start, lines.At(lines.Len()-1).Stop), true
}

// segmentsSpan returns the range covered by segs, or fallback.
func segmentsSpan(segs *text.Segments, fallback diag.Span) diag.Span {
	if segs == nil || segs.Len() == 0 {
		return fallback
	}
	return diag.Span{Start: segs.At(0).Start, End: segs.At(segs.Len() - 1).Stop}
}
