package pdf

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/alnah/go-markrender/internal/assets"
	"github.com/alnah/go-markrender/internal/typeset"
)

// content builds one page's content stream. PDF user space has its origin
// at the bottom-left, so every y is flipped against the page height.
type content struct {
	buf    bytes.Buffer
	height float64
	// alphas names an ExtGState per non-opaque alpha, in first use order.
	alphas     map[uint8]string
	alphaOrder []uint8
}

func newContent(height float64) *content {
	return &content{height: height, alphas: make(map[uint8]string)}
}

func (c *content) page(p *typeset.Page, m *typeset.Measurer, fonts map[assets.Variant]*fontUse) {
	if p.Fill != nil {
		c.rect(0, 0, p.Size.W, p.Size.H, *p.Fill)
	}
	for _, it := range p.Items {
		switch it := it.(type) {
		case *typeset.Rect:
			c.rect(it.X, it.Y, it.W, it.H, it.Color)
		case *typeset.Text:
			c.text(it, m, fonts[it.Variant])
		}
	}
}

func (c *content) rect(x, y, w, h float64, col color.NRGBA) {
	if w <= 0 || h <= 0 || col.A == 0 {
		return
	}
	c.buf.WriteString("q ")
	c.fill(col)
	fmt.Fprintf(&c.buf, "%s %s %s %s re f Q\n", num(x), num(c.height-y-h), num(w), num(h))
}

func (c *content) text(t *typeset.Text, m *typeset.Measurer, fu *fontUse) {
	if fu == nil || t.Color.A == 0 || t.Text == "" {
		return
	}
	var hex bytes.Buffer
	for _, r := range t.Text {
		idx, adv := m.Glyph(t.Variant, r)
		gid := uint16(idx)
		if _, ok := fu.glyphs[gid]; !ok {
			fu.glyphs[gid] = glyph{r: r, advance: adv}
		}
		fmt.Fprintf(&hex, "%04X", gid)
	}
	c.buf.WriteString("q ")
	c.fill(t.Color)
	fmt.Fprintf(&c.buf, "BT /%s %s Tf 1 0 0 1 %s %s Tm <%s> Tj ET Q\n",
		fu.name, num(t.Size), num(t.X), num(c.height-t.Y), hex.Bytes())
}

// fill sets the non-stroking colour and, for translucent colours, the
// matching graphics state.
func (c *content) fill(col color.NRGBA) {
	if col.A != 0xff {
		name, ok := c.alphas[col.A]
		if !ok {
			name = fmt.Sprintf("GS%d", len(c.alphaOrder))
			c.alphas[col.A] = name
			c.alphaOrder = append(c.alphaOrder, col.A)
		}
		fmt.Fprintf(&c.buf, "/%s gs ", name)
	}
	fmt.Fprintf(&c.buf, "%s %s %s rg ", num(float64(col.R)/255), num(float64(col.G)/255), num(float64(col.B)/255))
}
