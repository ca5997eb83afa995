package pdf

import (
	"bytes"
	"fmt"
	"slices"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/alnah/go-markrender/internal/assets"
	"github.com/alnah/go-markrender/internal/typeset"
)

// bfcharChunk is the most entries a beginbfchar section may hold.
const bfcharChunk = 100

type glyph struct {
	r       rune
	advance float64 // em
}

// fontUse tracks one embedded variant: its resource name, the reserved
// Type0 object number and the glyphs the content streams reference.
type fontUse struct {
	variant assets.Variant
	name    string
	num     int
	glyphs  map[uint16]glyph
}

// baseFont returns the PostScript name of the embedded Go font.
func baseFont(v assets.Variant) string {
	family := "Go"
	if v&assets.VariantMono != 0 {
		family = "GoMono"
	}
	style := "Regular"
	switch {
	case v&assets.VariantBold != 0 && v&assets.VariantItalic != 0:
		style = "BoldItalic"
	case v&assets.VariantBold != 0:
		style = "Bold"
	case v&assets.VariantItalic != 0:
		style = "Italic"
	}
	return family + "-" + style
}

func (fu *fontUse) write(w *writer, fonts Fonts, m *typeset.Measurer) error {
	data := fonts.Data(fu.variant)
	if len(data) == 0 {
		return fmt.Errorf("%w: %s", assets.ErrFontNotFound, fu.variant)
	}
	f, err := fonts.Font(fu.variant)
	if err != nil {
		return err
	}

	file, err := w.stream(data, fmt.Sprintf(" /Length1 %d", len(data)))
	if err != nil {
		return err
	}

	var buf sfnt.Buffer
	upem := fixed.I(int(f.UnitsPerEm()))
	bbox := [4]float64{0, -200, 1000, 900}
	if b, err := f.Bounds(&buf, upem, font.HintingNone); err == nil {
		// sfnt bounds grow downwards.
		scale := 1000 / float64(upem)
		bbox = [4]float64{
			float64(b.Min.X) * scale, -float64(b.Max.Y) * scale,
			float64(b.Max.X) * scale, -float64(b.Min.Y) * scale,
		}
	}
	ascent, descent := m.VMetrics(fu.variant)

	flags := 32
	italicAngle := 0
	if fu.variant&assets.VariantMono != 0 {
		flags |= 1
	}
	if fu.variant&assets.VariantItalic != 0 {
		flags |= 64
		italicAngle = -12
	}
	stemV := 80
	if fu.variant&assets.VariantBold != 0 {
		stemV = 140
	}
	name := baseFont(fu.variant)

	descriptor := w.add(fmt.Appendf(nil,
		"<< /Type /FontDescriptor /FontName /%s /Flags %d /FontBBox [%s %s %s %s] /ItalicAngle %d"+
			" /Ascent %s /Descent %s /CapHeight %s /StemV %d /FontFile2 %d 0 R >>",
		name, flags, num(bbox[0]), num(bbox[1]), num(bbox[2]), num(bbox[3]), italicAngle,
		num(ascent*1000), num(-descent*1000), num(ascent*700), stemV, file))

	cid := w.add(fmt.Appendf(nil,
		"<< /Type /Font /Subtype /CIDFontType2 /BaseFont /%s"+
			" /CIDSystemInfo << /Registry (Adobe) /Ordering (Identity) /Supplement 0 >>"+
			" /FontDescriptor %d 0 R /DW 1000 /W %s /CIDToGIDMap /Identity >>",
		name, descriptor, fu.widths()))

	toUnicode, err := w.stream(fu.toUnicode(), "")
	if err != nil {
		return err
	}

	w.set(fu.num, fmt.Appendf(nil,
		"<< /Type /Font /Subtype /Type0 /BaseFont /%s /Encoding /Identity-H"+
			" /DescendantFonts [%d 0 R] /ToUnicode %d 0 R >>",
		name, cid, toUnicode))
	return nil
}

func (fu *fontUse) sorted() []uint16 {
	ids := make([]uint16, 0, len(fu.glyphs))
	for id := range fu.glyphs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// widths builds the W array, grouping consecutive glyph ids.
func (fu *fontUse) widths() string {
	var buf bytes.Buffer
	buf.WriteByte('[')
	ids := fu.sorted()
	for i := 0; i < len(ids); {
		j := i + 1
		for j < len(ids) && ids[j] == ids[j-1]+1 {
			j++
		}
		fmt.Fprintf(&buf, " %d [", ids[i])
		for k := i; k < j; k++ {
			if k > i {
				buf.WriteByte(' ')
			}
			buf.WriteString(num(fu.glyphs[ids[k]].advance * 1000))
		}
		buf.WriteByte(']')
		i = j
	}
	buf.WriteString(" ]")
	return buf.String()
}

// toUnicode builds the CMap mapping glyph ids back to text.
func (fu *fontUse) toUnicode() []byte {
	var buf bytes.Buffer
	buf.WriteString("/CIDInit /ProcSet findresource begin\n12 dict begin\nbegincmap\n")
	buf.WriteString("/CIDSystemInfo << /Registry (Adobe) /Ordering (UCS) /Supplement 0 >> def\n")
	buf.WriteString("/CMapName /Adobe-Identity-UCS def\n/CMapType 2 def\n")
	buf.WriteString("1 begincodespacerange\n<0000> <FFFF>\nendcodespacerange\n")

	var ids []uint16
	for _, id := range fu.sorted() {
		if id != 0 {
			ids = append(ids, id)
		}
	}
	for chunk := range slices.Chunk(ids, bfcharChunk) {
		fmt.Fprintf(&buf, "%d beginbfchar\n", len(chunk))
		for _, id := range chunk {
			fmt.Fprintf(&buf, "<%04X> <%s>\n", id, utf16Hex(fu.glyphs[id].r))
		}
		buf.WriteString("endbfchar\n")
	}
	buf.WriteString("endcmap\nCMapName currentdict /CMap defineresource pop\nend\nend\n")
	return buf.Bytes()
}

// utf16Hex encodes r as big-endian UTF-16 hex.
func utf16Hex(r rune) string {
	if r < 0x10000 {
		return fmt.Sprintf("%04X", r)
	}
	r -= 0x10000
	return fmt.Sprintf("%04X%04X", 0xD800+(r>>10), 0xDC00+(r&0x3FF))
}
