package typeset

import (
	"math"

	east "github.com/yuin/goldmark/extension/ast"

	"github.com/alnah/go-markrender/internal/assets"
	"github.com/alnah/go-markrender/internal/diag"
)

const borderWidth = 0.5

// cell is a table cell's content and alignment.
type cell struct {
	runs  []run
	align east.Alignment
}

// table lays out a GFM table as a grid. Columns get their natural width,
// scaled down proportionally when the box is too narrow; cell text wraps.
// Each row is placed as one unit.
func (e *engine) table(t *east.Table, bx box, at diag.Span) {
	var rows [][]cell
	cols := 0
	for r := t.FirstChild(); r != nil; r = r.NextSibling() {
		st := e.bodyStyle()
		if _, ok := r.(*east.TableHeader); ok {
			st.variant |= assets.VariantBold
		}
		var row []cell
		for c := r.FirstChild(); c != nil; c = c.NextSibling() {
			tc, ok := c.(*east.TableCell)
			if !ok {
				continue
			}
			row = append(row, cell{runs: e.inlines(tc, st, at), align: tc.Alignment})
		}
		cols = max(cols, len(row))
		rows = append(rows, row)
	}
	if cols == 0 {
		return
	}

	pad := e.text.size * 0.4
	widths := make([]float64, cols)
	for _, row := range rows {
		for i, c := range row {
			for _, pieces := range e.wrap(c.runs, math.Inf(1), false) {
				widths[i] = max(widths[i], lineWidth(pieces)+2*pad)
			}
		}
	}
	total := 0.0
	for _, w := range widths {
		total += w
	}
	if !bx.auto() && total > bx.width {
		for i := range widths {
			widths[i] = max(widths[i]*bx.width/total, 2*pad+minContentWidth)
		}
		total = 0
		for _, w := range widths {
			total += w
		}
	}

	border := e.muted()
	for _, row := range rows {
		l := &line{}
		x := bx.left
		var cellLines [][]*line
		for i := range cols {
			var lines []*line
			if i < len(row) {
				for _, pieces := range e.wrap(row[i].runs, widths[i]-2*pad, false) {
					lx := x + pad + alignOffset(row[i].align, widths[i]-2*pad-lineWidth(pieces))
					lines = append(lines, e.buildLine(pieces, lx, e.text.size))
				}
			}
			h := 0.0
			for _, cl := range lines {
				h += cl.height
			}
			l.height = max(l.height, h+2*pad)
			cellLines = append(cellLines, lines)
			x += widths[i]
		}
		for _, lines := range cellLines {
			y := pad
			for _, cl := range lines {
				for _, it := range cl.items {
					switch it := it.(type) {
					case *Text:
						it.Y += y
					case *Rect:
						it.Y += y
					}
				}
				l.items = append(l.items, cl.items...)
				y += cl.height
			}
		}
		if l.baseline == 0 && len(cellLines) > 0 && len(cellLines[0]) > 0 {
			l.baseline = pad + cellLines[0][0].baseline
		}

		x = bx.left
		l.items = append(l.items, &Rect{X: x, Y: 0, W: total, H: borderWidth, Color: border})
		for i := range cols {
			l.items = append(l.items, &Rect{X: x, Y: 0, W: borderWidth, H: l.height, Color: border})
			x += widths[i]
		}
		l.items = append(l.items, &Rect{X: x - borderWidth, Y: 0, W: borderWidth, H: l.height, Color: border})
		l.right = x
		e.commit(l, bx)
	}

	bottom := &line{height: borderWidth, right: bx.left + total}
	bottom.items = append(bottom.items, &Rect{X: bx.left, Y: 0, W: total, H: borderWidth, Color: border})
	e.commit(bottom, bx)
}

// alignOffset positions a line of width slack short of its cell.
func alignOffset(a east.Alignment, slack float64) float64 {
	switch a {
	case east.AlignRight:
		return max(slack, 0)
	case east.AlignCenter:
		return max(slack/2, 0)
	default:
		return 0
	}
}
