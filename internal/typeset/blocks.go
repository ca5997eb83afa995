package typeset

import (
	"fmt"
	"math"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"

	"github.com/alnah/go-markrender/internal/assets"
	"github.com/alnah/go-markrender/internal/diag"
	"github.com/alnah/go-markrender/internal/hints"
	"github.com/alnah/go-markrender/internal/pipeline"
)

const (
	barWidth  = 2.0
	ruleWidth = 0.8
)

// layout walks the top-level blocks, applying each directive before the
// first block that starts after it.
func (e *engine) layout(u *pipeline.Unit) {
	next := 0
	for n := u.Root.FirstChild(); n != nil; n = n.NextSibling() {
		if span := nodeSpan(n, diag.Detached); !span.IsDetached() {
			for ; next < len(u.Directives) && u.Directives[next].Span.Start < span.Start; next++ {
				e.apply(u.Directives[next], 0)
			}
		}
		bx := e.rootBox()
		e.gap(e.blockGap(), bx)
		e.block(n, bx, 0)
	}
	for ; next < len(u.Directives); next++ {
		e.apply(u.Directives[next], 0)
	}
}

// blockGap is the space between consecutive blocks.
func (e *engine) blockGap() float64 {
	return e.text.size * 0.8
}

func (e *engine) block(n ast.Node, bx box, depth int) {
	at := nodeSpan(n, diag.Detached)
	if depth > maxDepth {
		e.tooDeep(at)
		return
	}
	switch n := n.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		e.paragraph(e.inlines(n, e.bodyStyle(), at), bx)
	case *ast.Heading:
		e.heading(n, bx, at)
	case *ast.ThematicBreak:
		e.rule(bx)
	case *ast.FencedCodeBlock:
		e.codeBlock(n, string(n.Language(e.body)), bx)
	case *ast.CodeBlock:
		e.codeBlock(n, "", bx)
	case *ast.Blockquote:
		inner := bx
		inner.bars = append(append([]float64(nil), bx.bars...), bx.left)
		e.children(n, inner.indent(e.text.size), depth)
	case *ast.List:
		e.list(n, bx, depth)
	case *ast.HTMLBlock:
		e.warn(diag.Warningf(at, "raw HTML is not rendered").WithHint(hints.ForRawHTML()))
	case *east.Table:
		e.table(n, bx, at)
	default:
		e.children(n, bx, depth)
	}
}

// children lays out the child blocks of n with gaps between them.
func (e *engine) children(n ast.Node, bx box, depth int) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if c != n.FirstChild() {
			e.gap(e.blockGap(), bx)
		}
		e.block(c, bx, depth+1)
	}
}

func (e *engine) paragraph(runs []run, bx box) {
	for _, pieces := range e.wrap(runs, bx.width, false) {
		e.commit(e.buildLine(pieces, bx.left, e.text.size), bx)
	}
}

func (e *engine) heading(n *ast.Heading, bx box, at diag.Span) {
	st := e.bodyStyle()
	st.variant |= assets.VariantBold
	st.size = e.text.size * e.defs.HeadingScale(n.Level)
	e.gap(st.size*0.4, bx)
	e.paragraph(e.inlines(n, st, at), bx)
}

// rule draws a thematic break across the box.
func (e *engine) rule(bx box) {
	l := &line{height: e.leading(e.text.size)}
	r := &Rect{X: bx.left, Y: (l.height - ruleWidth) / 2, W: bx.width, H: ruleWidth, Color: e.muted()}
	if bx.auto() {
		r.W = 0
		l.stretch = append(l.stretch, r)
	}
	l.items = append(l.items, r)
	l.right = bx.left
	e.commit(l, bx)
}

// list lays out items with a marker hanging left of each item's first line.
func (e *engine) list(n *ast.List, bx box, depth int) {
	st := e.bodyStyle()
	indent := e.text.size * 1.8
	inner := bx.indent(indent)
	number := n.Start
	for item := n.FirstChild(); item != nil; item = item.NextSibling() {
		if item != n.FirstChild() && !n.IsTight {
			e.gap(e.blockGap(), bx)
		}
		label := "•"
		if n.IsOrdered() {
			label = fmt.Sprintf("%d%c", number, n.Marker)
			number++
		}
		w := e.m.Width(st.variant, label, st.size)
		e.marker = &Text{
			X:       math.Max(inner.left-w-st.size*0.5, 0),
			Text:    label,
			Variant: st.variant,
			Size:    st.size,
			Color:   st.color,
		}
		e.children(item, inner, depth)
		if e.marker != nil {
			// Empty item: give the marker a line of its own.
			e.commit(e.buildLine(nil, inner.left, st.size), inner)
		}
	}
}
