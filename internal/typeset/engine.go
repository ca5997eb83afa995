package typeset

import (
	"image/color"
	"math"

	"github.com/alnah/go-markrender/internal/assets"
	"github.com/alnah/go-markrender/internal/diag"
)

const (
	// maxPages bounds the pages a single compilation may produce.
	maxPages = 4096
	// maxDepth bounds block and inline nesting.
	maxDepth = 64
	// maxImportDepth bounds nested module imports.
	maxImportDepth = 4
	// minContentWidth keeps wrapping finite when margins eat the page.
	minContentWidth = 1.0
)

// pageStyle is the page configuration set by #set page.
type pageStyle struct {
	width, height         float64
	autoWidth, autoHeight bool
	margin                float64
	marginSet             bool
	fill                  *color.NRGBA
}

// marginPt returns the margin, defaulting to 2.5/21 of the shorter side.
func (p pageStyle) marginPt() float64 {
	if p.marginSet {
		return p.margin
	}
	return 2.5 / 21 * min(p.width, p.height)
}

// textStyle is the body text configuration set by #set text.
type textStyle struct {
	size float64
	fill color.NRGBA
	mono bool
}

// engine holds the state of one compilation.
type engine struct {
	src   string
	body  []byte
	world World
	lib   *assets.Library
	defs  *assets.Definitions
	m     *Measurer

	page  pageStyle
	text  textStyle
	theme string

	pages  []*Page
	cur    *pageBuilder
	marker *Text

	errors   []diag.Diagnostic
	warnings []diag.Diagnostic
	missing  map[rune]bool
	deep     bool
	overflow bool

	// importSpan relocates diagnostics raised while applying a module.
	importSpan *diag.Span
	importName string
}

// pageBuilder accumulates the items of the page being laid out.
type pageBuilder struct {
	style   pageStyle
	margin  float64
	items   []Item
	y       float64
	right   float64
	stretch []*Rect
	used    bool
}

// line is a laid out row of items, positioned relative to its top edge.
type line struct {
	height   float64
	baseline float64
	items    []Item
	// right is the rightmost painted extent, used for auto width pages.
	right float64
	// stretch rects extend to the right content edge of an auto width page.
	stretch []*Rect
}

// box is the horizontal region available to a block.
type box struct {
	left  float64
	width float64 // +Inf on auto width pages
	bars  []float64
}

func (b box) auto() bool { return math.IsInf(b.width, 1) }

// indent returns b narrowed by d on the left.
func (b box) indent(d float64) box {
	b.left += d
	if !b.auto() {
		b.width = max(b.width-d, minContentWidth)
	}
	return b
}

func newEngine(w World) *engine {
	lib := w.Library()
	defs := lib.Definitions()
	paper := defs.Papers[defs.Page.Paper]
	return &engine{
		src:   w.Main().Text,
		world: w,
		lib:   lib,
		defs:  defs,
		m:     NewMeasurer(w),
		page:  pageStyle{width: paper.Width, height: paper.Height},
		text: textStyle{
			size: defs.Text.Size,
			fill: color.NRGBA{A: 0xff},
		},
		missing: make(map[rune]bool),
	}
}

func (e *engine) error(d diag.Diagnostic) {
	e.errors = append(e.errors, e.relocate(d))
}

func (e *engine) warn(d diag.Diagnostic) {
	e.warnings = append(e.warnings, e.relocate(d))
}

func (e *engine) relocate(d diag.Diagnostic) diag.Diagnostic {
	if e.importSpan == nil {
		return d
	}
	d.Message += " (in module `" + e.importName + "`)"
	d.Span = *e.importSpan
	return d
}

// rootBox is the content region of the current page style.
func (e *engine) rootBox() box {
	margin := e.page.marginPt()
	if e.page.autoWidth {
		return box{left: margin, width: math.Inf(1)}
	}
	return box{left: margin, width: max(e.page.width-2*margin, minContentWidth)}
}

// open returns the current page, starting one if needed.
func (e *engine) open() *pageBuilder {
	if e.cur == nil {
		if len(e.pages) >= maxPages {
			e.overflow = true
		}
		margin := e.page.marginPt()
		e.cur = &pageBuilder{style: e.page, margin: margin, y: margin, right: margin}
	}
	return e.cur
}

// limit is the lowest y content may reach, or +Inf for auto height.
func (p *pageBuilder) limit() float64 {
	if p.style.autoHeight {
		return math.Inf(1)
	}
	return p.style.height - p.margin
}

// finishPage closes the current page, if any.
func (e *engine) finishPage() {
	p := e.cur
	if p == nil {
		return
	}
	e.cur = nil
	if e.overflow {
		return
	}

	w := p.style.width
	if p.style.autoWidth {
		w = p.right + p.margin
	}
	h := p.style.height
	if p.style.autoHeight {
		h = p.y + p.margin
	}
	edge := w - p.margin
	for _, r := range p.stretch {
		r.W = max(edge-r.X, 0)
	}
	e.pages = append(e.pages, &Page{Size: Size{W: w, H: h}, Fill: p.style.fill, Items: p.items})
}

// pagebreak closes the current page. With no page open it emits an
// empty one, so consecutive breaks produce blank pages.
func (e *engine) pagebreak() {
	e.open()
	e.finishPage()
}

// restyle starts a fresh page for new page settings when the current page
// already has content.
func (e *engine) restyle() {
	if e.cur != nil && !e.cur.used {
		e.cur = nil
	}
	e.finishPage()
}

// commit places l below the previous line, breaking the page when it does
// not fit. A line taller than an empty page is placed anyway.
func (e *engine) commit(l *line, bx box) {
	p := e.open()
	if p.used && p.y+l.height > p.limit() {
		e.finishPage()
		p = e.open()
	}
	if e.overflow {
		return
	}

	if e.marker != nil {
		m := e.marker
		e.marker = nil
		baseline := l.baseline
		if baseline == 0 {
			baseline = l.height * 0.8
		}
		m.Y = baseline
		l.items = append(l.items, m)
	}
	for _, x := range bx.bars {
		l.items = append(l.items, &Rect{X: x, Y: 0, W: barWidth, H: l.height, Color: e.muted()})
	}

	for _, it := range l.items {
		switch it := it.(type) {
		case *Text:
			it.Y += p.y
		case *Rect:
			it.Y += p.y
		}
	}
	p.items = append(p.items, l.items...)
	p.stretch = append(p.stretch, l.stretch...)
	p.y += l.height
	p.right = max(p.right, l.right)
	p.used = true
}

// gap adds vertical space between blocks. It is dropped at the top of a
// page; a gap that does not fit ends the page.
func (e *engine) gap(h float64, bx box) {
	p := e.cur
	if p == nil || !p.used || h <= 0 {
		return
	}
	if p.y+h > p.limit() {
		e.finishPage()
		return
	}
	if len(bx.bars) > 0 {
		e.commit(&line{height: h}, bx)
		return
	}
	p.y += h
}

// finish closes the document. An empty document has one empty page.
func (e *engine) finish() {
	e.marker = nil
	e.finishPage()
	if len(e.pages) == 0 && !e.overflow {
		e.open()
		e.finishPage()
	}
}

// muted is the opaque color of rules, bars and table borders: the text
// color blended toward the page fill, or white on transparent pages.
func (e *engine) muted() color.NRGBA {
	bg := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	if e.page.fill != nil {
		bg = *e.page.fill
	}
	return mix(e.text.fill, bg, 0.35)
}

// mix returns a*t + b*(1-t) per channel, opaque.
func mix(a, b color.NRGBA, t float64) color.NRGBA {
	ch := func(x, y uint8) uint8 {
		return uint8(float64(x)*t + float64(y)*(1-t) + 0.5)
	}
	return color.NRGBA{R: ch(a.R, b.R), G: ch(a.G, b.G), B: ch(a.B, b.B), A: 0xff}
}

// bodyVariant is the base font variant for body text.
func (e *engine) bodyVariant() assets.Variant {
	if e.text.mono {
		return assets.VariantMono
	}
	return assets.VariantRegular
}
