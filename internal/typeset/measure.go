package typeset

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/alnah/go-markrender/internal/assets"
)

// FontSource provides parsed fonts by variant.
type FontSource interface {
	Font(v assets.Variant) (*opentype.Font, error)
}

// Measurer answers glyph questions in em units. Layout and both output
// backends use it, so text is positioned identically everywhere.
// A Measurer is not safe for concurrent use.
type Measurer struct {
	fonts FontSource
	buf   sfnt.Buffer
	faces [8]*faceInfo
	err   error
}

type faceInfo struct {
	font    *sfnt.Font
	upem    float64
	ascent  float64
	descent float64
	glyphs  map[rune]glyphInfo
}

type glyphInfo struct {
	index   sfnt.GlyphIndex
	advance float64
}

// NewMeasurer creates a Measurer over fonts.
func NewMeasurer(fonts FontSource) *Measurer {
	return &Measurer{fonts: fonts}
}

// Err returns the first font loading error.
func (m *Measurer) Err() error {
	return m.err
}

func (m *Measurer) face(v assets.Variant) *faceInfo {
	i := int(v & (assets.VariantBold | assets.VariantItalic | assets.VariantMono))
	if f := m.faces[i]; f != nil {
		return f
	}
	f, err := m.fonts.Font(v)
	if err != nil {
		if m.err == nil {
			m.err = err
		}
		return nil
	}
	upem := fixed.Int26_6(f.UnitsPerEm()) << 6
	info := &faceInfo{font: f, upem: float64(upem), glyphs: make(map[rune]glyphInfo)}
	if met, err := f.Metrics(&m.buf, upem, font.HintingNone); err == nil {
		info.ascent = float64(met.Ascent) / info.upem
		info.descent = float64(met.Descent) / info.upem
	}
	m.faces[i] = info
	return info
}

// Glyph returns the glyph index of r and its advance in em. Index 0 means
// the font has no glyph for r.
func (m *Measurer) Glyph(v assets.Variant, r rune) (sfnt.GlyphIndex, float64) {
	f := m.face(v)
	if f == nil {
		return 0, 0
	}
	if g, ok := f.glyphs[r]; ok {
		return g.index, g.advance
	}
	var g glyphInfo
	if idx, err := f.font.GlyphIndex(&m.buf, r); err == nil {
		g.index = idx
	}
	if adv, err := f.font.GlyphAdvance(&m.buf, g.index, fixed.Int26_6(f.upem), font.HintingNone); err == nil {
		g.advance = float64(adv) / f.upem
	}
	f.glyphs[r] = g
	return g.index, g.advance
}

// Has reports whether the font for v covers r.
func (m *Measurer) Has(v assets.Variant, r rune) bool {
	idx, _ := m.Glyph(v, r)
	return idx != 0
}

// Advance returns the advance of r in em.
func (m *Measurer) Advance(v assets.Variant, r rune) float64 {
	_, adv := m.Glyph(v, r)
	return adv
}

// Width returns the width of s in points at size.
func (m *Measurer) Width(v assets.Variant, s string, size float64) float64 {
	var w float64
	for _, r := range s {
		w += m.Advance(v, r)
	}
	return w * size
}

// VMetrics returns the ascent and descent of the font for v in em.
func (m *Measurer) VMetrics(v assets.Variant) (ascent, descent float64) {
	f := m.face(v)
	if f == nil {
		return 0.8, 0.2
	}
	return f.ascent, f.descent
}

// cutWidth returns the longest prefix of s, at least one rune, that fits
// in width points.
func (m *Measurer) cutWidth(v assets.Variant, s string, size, width float64) (string, string) {
	var w float64
	for i, r := range s {
		w += m.Advance(v, r) * size
		if w > width && i > 0 {
			return s[:i], s[i:]
		}
	}
	return s, ""
}
