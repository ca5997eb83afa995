// Package raster paints laid out pages into pixel images.
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/alnah/go-markrender/internal/assets"
	"github.com/alnah/go-markrender/internal/typeset"
)

// MaxGlyphPixels is the largest em size, in pixels, that is drawn. Larger
// glyphs are skipped to bound the glyph mask allocation.
const MaxGlyphPixels = 4096

// ErrInvalidScale indicates a non-positive or non-finite pixels per point.
var ErrInvalidScale = errors.New("invalid pixels per point")

// Dimensions returns the pixel size of a page at ppp: each side is the
// point size times ppp, rounded up, and at least 1.
func Dimensions(size typeset.Size, ppp float64) (int, int) {
	side := func(pt float64) int {
		return max(int(math.Ceil(pt*ppp)), 1)
	}
	return side(size.W), side(size.H)
}

// Rasterizer paints pages. It caches font faces and is not safe for
// concurrent use.
type Rasterizer struct {
	fonts   typeset.FontSource
	measure *typeset.Measurer
	faces   map[faceKey]font.Face
	vec     vector.Rasterizer
}

type faceKey struct {
	variant assets.Variant
	size    float64
}

// New creates a Rasterizer drawing glyphs from fonts.
func New(fonts typeset.FontSource) *Rasterizer {
	return &Rasterizer{
		fonts:   fonts,
		measure: typeset.NewMeasurer(fonts),
		faces:   make(map[faceKey]font.Face),
	}
}

// Close releases the cached font faces.
func (r *Rasterizer) Close() error {
	var errs []error
	for k, f := range r.faces {
		errs = append(errs, f.Close())
		delete(r.faces, k)
	}
	return errors.Join(errs...)
}

// Rasterize paints page at ppp pixels per point. Items paint in order over
// the page fill, or over transparent pixels when the page has none.
func (r *Rasterizer) Rasterize(page *typeset.Page, ppp float64) (*image.NRGBA, error) {
	if !(ppp > 0) || math.IsInf(ppp, 1) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScale, ppp)
	}
	w, h := Dimensions(page.Size, ppp)
	var bg color.NRGBA
	if page.Fill != nil {
		bg = *page.Fill
	}
	img := imaging.New(w, h, bg)

	for _, it := range page.Items {
		switch it := it.(type) {
		case *typeset.Rect:
			r.rect(img, it, ppp)
		case *typeset.Text:
			if err := r.text(img, it, ppp); err != nil {
				return nil, err
			}
		}
	}
	return img, nil
}

// rect fills an axis-aligned rectangle with antialiased edges. The vector
// rasterizer covers only the rectangle's pixel bounds.
func (r *Rasterizer) rect(img *image.NRGBA, rc *typeset.Rect, ppp float64) {
	x0, y0 := rc.X*ppp, rc.Y*ppp
	x1, y1 := (rc.X+rc.W)*ppp, (rc.Y+rc.H)*ppp
	bounds := image.Rect(
		int(math.Floor(x0)), int(math.Floor(y0)),
		int(math.Ceil(x1)), int(math.Ceil(y1)),
	).Intersect(img.Bounds())
	if bounds.Empty() {
		return
	}
	ox, oy := float32(bounds.Min.X), float32(bounds.Min.Y)
	clamp := func(v, lo, hi float64) float32 {
		return float32(min(max(v, lo), hi))
	}
	fx0 := clamp(x0, float64(bounds.Min.X), float64(bounds.Max.X)) - ox
	fy0 := clamp(y0, float64(bounds.Min.Y), float64(bounds.Max.Y)) - oy
	fx1 := clamp(x1, float64(bounds.Min.X), float64(bounds.Max.X)) - ox
	fy1 := clamp(y1, float64(bounds.Min.Y), float64(bounds.Max.Y)) - oy

	r.vec.Reset(bounds.Dx(), bounds.Dy())
	r.vec.DrawOp = draw.Over
	r.vec.MoveTo(fx0, fy0)
	r.vec.LineTo(fx1, fy0)
	r.vec.LineTo(fx1, fy1)
	r.vec.LineTo(fx0, fy1)
	r.vec.ClosePath()
	r.vec.Draw(img, bounds, image.NewUniform(rc.Color), image.Point{})
}

// text draws a run glyph by glyph, advancing by the layout's metrics.
func (r *Rasterizer) text(img *image.NRGBA, t *typeset.Text, ppp float64) error {
	px := t.Size * ppp
	if px <= 0 || px > MaxGlyphPixels {
		return nil
	}
	bounds := img.Bounds()
	baseline := t.Y * ppp
	if baseline+px < 0 || baseline-px > float64(bounds.Max.Y) {
		return nil
	}
	face, err := r.face(t.Variant, px)
	if err != nil {
		return err
	}

	src := image.NewUniform(t.Color)
	x := t.X * ppp
	for _, ch := range t.Text {
		if x > float64(bounds.Max.X) {
			break
		}
		if ch != ' ' {
			dot := fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(baseline * 64)}
			if dr, mask, mp, _, ok := face.Glyph(dot, ch); ok && dr.Overlaps(bounds) {
				draw.DrawMask(img, dr, src, image.Point{}, mask, mp, draw.Over)
			}
		}
		x += r.measure.Advance(t.Variant, ch) * px
	}
	return nil
}

func (r *Rasterizer) face(v assets.Variant, px float64) (font.Face, error) {
	key := faceKey{variant: v, size: px}
	if f, ok := r.faces[key]; ok {
		return f, nil
	}
	f, err := r.fonts.Font(v)
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: px, DPI: 72, Hinting: font.HintingNone})
	if err != nil {
		return nil, fmt.Errorf("creating %s face: %w", v, err)
	}
	r.faces[key] = face
	return face, nil
}
