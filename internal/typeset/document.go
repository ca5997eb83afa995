package typeset

import (
	"image/color"

	"github.com/alnah/go-markrender/internal/assets"
)

// Size is a page size in points.
type Size struct {
	W float64
	H float64
}

// Document is a compiled document. It is read-only after compilation.
type Document struct {
	Pages []*Page
}

// Page is one laid out page. Coordinates are in points from the top-left
// corner, y growing downwards.
type Page struct {
	Size Size
	// Fill is the background, or nil for a transparent page.
	Fill  *color.NRGBA
	Items []Item
}

// Item is a drawing operation: *Text or *Rect. Items paint in order.
type Item interface {
	isItem()
}

// Text is a run of glyphs from one font, placed on a baseline. Glyphs
// advance by Measurer.Advance without kerning.
type Text struct {
	X, Y    float64 // baseline origin
	Text    string
	Variant assets.Variant
	Size    float64
	Color   color.NRGBA
}

// Rect is a filled rectangle.
type Rect struct {
	X, Y, W, H float64
	Color      color.NRGBA
}

func (*Text) isItem() {}
func (*Rect) isItem() {}

// Variants lists the font variants used by the document, ascending.
func (d *Document) Variants() []assets.Variant {
	var used [8]bool
	for _, p := range d.Pages {
		for _, it := range p.Items {
			if t, ok := it.(*Text); ok {
				used[t.Variant&(assets.VariantBold|assets.VariantItalic|assets.VariantMono)] = true
			}
		}
	}
	var out []assets.Variant
	for v, ok := range used {
		if ok {
			out = append(out, assets.Variant(v))
		}
	}
	return out
}
