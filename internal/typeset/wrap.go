package typeset

import (
	"strings"

	"github.com/alnah/go-markrender/internal/assets"
)

// piece is a measured fragment of a run.
type piece struct {
	text  string
	style style
	width float64
}

// token is a unit of line breaking: a word made of one or more pieces,
// a run of spaces, or a forced break.
type token struct {
	pieces  []piece
	width   float64
	space   bool
	newline bool
}

// tokenize splits runs at spaces and newlines. Adjacent non-space text
// from different runs forms one word.
func (e *engine) tokenize(runs []run) []token {
	var toks []token
	word := -1 // index of the open word token
	add := func(s string, st style, space bool) {
		p := piece{text: s, style: st, width: e.m.Width(st.variant, s, st.size)}
		if !space && word >= 0 {
			toks[word].pieces = append(toks[word].pieces, p)
			toks[word].width += p.width
			return
		}
		toks = append(toks, token{pieces: []piece{p}, width: p.width, space: space})
		word = -1
		if !space {
			word = len(toks) - 1
		}
	}

	for _, r := range runs {
		if r.text == "\n" {
			toks = append(toks, token{newline: true})
			word = -1
			continue
		}
		s := r.text
		for s != "" {
			i := strings.IndexByte(s, ' ')
			switch {
			case i == 0:
				n := len(s) - len(strings.TrimLeft(s, " "))
				add(s[:n], r.style, true)
				s = s[n:]
			case i < 0:
				add(s, r.style, false)
				s = ""
			default:
				add(s[:i], r.style, false)
				s = s[i:]
			}
		}
	}
	return toks
}

// wrap breaks runs into lines no wider than width. Words longer than a
// line are split between characters. Spaces at line starts are dropped
// unless preserve is set; spaces at line ends are always dropped.
func (e *engine) wrap(runs []run, width float64, preserve bool) [][]piece {
	var (
		lines   [][]piece
		cur     []piece
		w       float64
		pending []piece
		pendW   float64
		started bool
	)
	flush := func() {
		lines = append(lines, cur)
		cur, w = nil, 0
		pending, pendW = nil, 0
		started = false
	}
	place := func(p piece) {
		cur = append(cur, pending...)
		w += pendW
		pending, pendW = nil, 0
		cur = append(cur, p)
		w += p.width
		started = true
	}

	for _, t := range e.tokenize(runs) {
		switch {
		case t.newline:
			flush()
		case t.space:
			if started || preserve {
				pending = append(pending, t.pieces...)
				pendW += t.width
			}
		default:
			if started && w+pendW+t.width > width {
				flush()
			}
			if w+pendW+t.width <= width {
				for _, p := range t.pieces {
					place(p)
				}
				continue
			}
			e.split(t, width, &w, &pendW, place, flush)
		}
	}
	if started || len(lines) == 0 || len(pending) > 0 {
		flush()
	}
	return lines
}

// split places an overlong word character by character.
func (e *engine) split(t token, width float64, w, pendW *float64, place func(piece), flush func()) {
	for _, p := range t.pieces {
		rest := p.text
		for rest != "" {
			avail := width - *w - *pendW
			var head string
			head, rest = e.m.cutWidth(p.style.variant, rest, p.style.size, avail)
			hw := e.m.Width(p.style.variant, head, p.style.size)
			if hw > avail && *w > 0 {
				flush()
				rest = head + rest
				continue
			}
			place(piece{text: head, style: p.style, width: hw})
			if rest != "" {
				flush()
			}
		}
	}
}

// leading returns the line height for a font size.
func (e *engine) leading(size float64) float64 {
	return size * e.defs.Text.Leading
}

// buildLine positions pieces from x. emptySize sets the height of a line
// with no pieces.
func (e *engine) buildLine(pieces []piece, x float64, emptySize float64) *line {
	size := 0.0
	for _, p := range pieces {
		size = max(size, p.style.size)
	}
	if size == 0 {
		size = emptySize
	}
	asc, desc := e.m.VMetrics(assets.VariantRegular)
	l := &line{height: e.leading(size)}
	l.baseline = (l.height-(asc+desc)*size)/2 + asc*size

	var last *Text
	var lastStyle style
	for _, p := range pieces {
		switch {
		case last != nil && p.style.sameFont(lastStyle):
			last.Text += p.text
		case strings.TrimLeft(p.text, " ") == "":
			last = nil
		default:
			last = &Text{X: x, Y: l.baseline, Text: p.text, Variant: p.style.variant, Size: p.style.size, Color: p.style.color}
			lastStyle = p.style
			l.items = append(l.items, last)
		}
		if p.style.underline {
			l.items = append(l.items, &Rect{X: x, Y: l.baseline + p.style.size*0.12, W: p.width, H: max(p.style.size*0.06, 0.5), Color: p.style.color})
		}
		if p.style.strike {
			l.items = append(l.items, &Rect{X: x, Y: l.baseline - p.style.size*0.28, W: p.width, H: max(p.style.size*0.06, 0.5), Color: p.style.color})
		}
		x += p.width
	}
	l.right = x
	return l
}

// lineWidth sums the widths of pieces.
func lineWidth(pieces []piece) float64 {
	var w float64
	for _, p := range pieces {
		w += p.width
	}
	return w
}
