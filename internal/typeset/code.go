package typeset

import (
	"image/color"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark/ast"

	"github.com/alnah/go-markrender/internal/assets"
	"github.com/alnah/go-markrender/internal/diag"
)

// tabWidth is the number of spaces a tab expands to in code.
const tabWidth = 4

// codeTheme returns the chroma style for code blocks: the theme set with
// #set raw, or a light or dark default matching the text color.
func (e *engine) codeTheme() *chroma.Style {
	name := e.theme
	if name == "" {
		name = e.defs.Code.LightTheme
		if luminance(e.text.fill) > 0.5 {
			name = e.defs.Code.DarkTheme
		}
	}
	return styles.Get(name)
}

// codeSource maps offsets in a code block's text back to the source.
type codeSource struct {
	text   string
	starts []int // text offset where each segment begins
	segs   []int // source offset of each segment
}

func newCodeSource(n ast.Node, body []byte) codeSource {
	var cs codeSource
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		cs.starts = append(cs.starts, b.Len())
		cs.segs = append(cs.segs, seg.Start)
		b.Write(seg.Value(body))
	}
	cs.text = strings.TrimRight(b.String(), "\n")
	return cs
}

// pos returns the source offset of text offset k.
func (cs codeSource) pos(k int) int {
	i := len(cs.starts) - 1
	for i > 0 && cs.starts[i] > k {
		i--
	}
	if i < 0 {
		return -1
	}
	return cs.segs[i] + k - cs.starts[i]
}

// codeBlock lays out a block of code on a padded background panel,
// highlighted with chroma.
func (e *engine) codeBlock(n ast.Node, lang string, bx box) {
	cs := newCodeSource(n, e.body)
	at := nodeSpan(n, diag.Detached)
	theme := e.codeTheme()
	size := e.text.size * e.defs.Code.Scale
	pad := size * 0.6

	bg := color.NRGBA{R: 0xf6, G: 0xf8, B: 0xfa, A: 0xff}
	if c := theme.Get(chroma.Background).Background; c.IsSet() {
		bg = colourOf(c)
	}
	fg := e.text.fill
	if c := theme.Get(chroma.Text).Colour; c.IsSet() {
		fg = colourOf(c)
	}

	var runs []run
	offset := 0
	for _, tok := range e.tokenise(lang, cs.text) {
		entry := theme.Get(tok.Type)
		st := style{variant: assets.VariantMono, size: size, color: fg}
		if entry.Colour.IsSet() {
			st.color = colourOf(entry.Colour)
		}
		if entry.Bold == chroma.Yes {
			st.variant |= assets.VariantBold
		}
		if entry.Italic == chroma.Yes {
			st.variant |= assets.VariantItalic
		}
		for i, part := range strings.Split(tok.Value, "\n") {
			if i > 0 {
				runs = append(runs, run{text: "\n", style: st, pos: -1})
				offset++
			}
			pos := -1
			if offset < len(cs.text) {
				pos = cs.pos(offset)
			}
			e.emit(&runs, strings.ReplaceAll(part, "\t", strings.Repeat(" ", tabWidth)), st, pos, at)
			offset += len(part)
		}
	}

	inner := bx.indent(pad)
	if !inner.auto() {
		inner.width = max(inner.width-pad, minContentWidth)
	}
	e.panel(pad, bg, bx)
	for _, pieces := range e.wrap(runs, inner.width, true) {
		l := e.buildLine(pieces, inner.left, size)
		l.right += pad
		e.commit(e.withPanel(l, bg, bx), bx)
	}
	e.panel(pad, bg, bx)
}

// tokenise splits code into chroma tokens, falling back to plain text.
func (e *engine) tokenise(lang, code string) []chroma.Token {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	it, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return []chroma.Token{{Type: chroma.Text, Value: code}}
	}
	toks := it.Tokens()
	// Lexers may append a final newline.
	if k := len(toks) - 1; k >= 0 && !strings.HasSuffix(code, "\n") {
		toks[k].Value = strings.TrimSuffix(toks[k].Value, "\n")
	}
	return toks
}

// withPanel puts a background rect spanning the box behind l.
func (e *engine) withPanel(l *line, bg color.NRGBA, bx box) *line {
	r := &Rect{X: bx.left, Y: 0, W: bx.width, H: l.height, Color: bg}
	if bx.auto() {
		r.W = 0
		l.stretch = append(l.stretch, r)
	}
	l.items = append([]Item{r}, l.items...)
	return l
}

// panel commits a blank strip of background, used as padding.
func (e *engine) panel(h float64, bg color.NRGBA, bx box) {
	l := e.withPanel(&line{height: h}, bg, bx)
	l.right = bx.left
	p := e.cur
	if p != nil && p.used && p.y+h > p.limit() {
		return
	}
	e.commit(l, bx)
}

func colourOf(c chroma.Colour) color.NRGBA {
	return color.NRGBA{R: c.Red(), G: c.Green(), B: c.Blue(), A: 0xff}
}
