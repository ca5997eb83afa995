package raster

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/alnah/go-markrender/internal/assets"
	"github.com/alnah/go-markrender/internal/typeset"
)

var (
	white = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	black = color.NRGBA{A: 0xff}
	blue  = color.NRGBA{B: 0xff, A: 0xff}
)

func newRasterizer(t *testing.T) *Rasterizer {
	t.Helper()
	r := New(assets.DefaultFontBook())
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestDimensions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		size  typeset.Size
		ppp   float64
		wantW int
		wantH int
	}{
		{name: "exact", size: typeset.Size{W: 100, H: 50}, ppp: 2, wantW: 200, wantH: 100},
		{name: "rounds up", size: typeset.Size{W: 10.1, H: 10.9}, ppp: 1, wantW: 11, wantH: 11},
		{name: "zero area", size: typeset.Size{W: 0, H: 0}, ppp: 30, wantW: 1, wantH: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w, h := Dimensions(tt.size, tt.ppp)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("Dimensions() = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestRasterize_Fill(t *testing.T) {
	t.Parallel()

	r := newRasterizer(t)
	size := typeset.Size{W: 10, H: 10}

	img, err := r.Rasterize(&typeset.Page{Size: size, Fill: &white}, 3)
	if err != nil {
		t.Fatal(err)
	}
	if got := img.Bounds(); got != image.Rect(0, 0, 30, 30) {
		t.Errorf("Bounds() = %v", got)
	}
	if got := img.NRGBAAt(15, 15); got != white {
		t.Errorf("filled pixel = %v, want white", got)
	}

	img, err = r.Rasterize(&typeset.Page{Size: size}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got := img.NRGBAAt(5, 5); got.A != 0 {
		t.Errorf("unfilled pixel = %v, want transparent", got)
	}
}

func TestRasterize_Rect(t *testing.T) {
	t.Parallel()

	page := &typeset.Page{
		Size:  typeset.Size{W: 40, H: 40},
		Fill:  &white,
		Items: []typeset.Item{&typeset.Rect{X: 10, Y: 10, W: 10, H: 10, Color: blue}},
	}
	img, err := newRasterizer(t).Rasterize(page, 2)
	if err != nil {
		t.Fatal(err)
	}
	if got := img.NRGBAAt(30, 30); got != blue {
		t.Errorf("inside pixel = %v, want blue", got)
	}
	if got := img.NRGBAAt(10, 10); got != white {
		t.Errorf("outside pixel = %v, want white", got)
	}
	if got := img.NRGBAAt(41, 30); got != white {
		t.Errorf("pixel right of rect = %v, want white", got)
	}
}

func TestRasterize_RectClipped(t *testing.T) {
	t.Parallel()

	page := &typeset.Page{
		Size: typeset.Size{W: 10, H: 10},
		Items: []typeset.Item{
			&typeset.Rect{X: -5, Y: -5, W: 100, H: 100, Color: blue},
			&typeset.Rect{X: 50, Y: 50, W: 10, H: 10, Color: black},
		},
	}
	img, err := newRasterizer(t).Rasterize(page, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got := img.NRGBAAt(0, 0); got != blue {
		t.Errorf("corner = %v, want blue", got)
	}
}

func TestRasterize_Text(t *testing.T) {
	t.Parallel()

	page := &typeset.Page{
		Size: typeset.Size{W: 100, H: 30},
		Fill: &white,
		Items: []typeset.Item{&typeset.Text{
			X: 5, Y: 20, Text: "Hello", Variant: assets.VariantBold, Size: 14, Color: black,
		}},
	}
	img, err := newRasterizer(t).Rasterize(page, 2)
	if err != nil {
		t.Fatal(err)
	}
	dark := 0
	for y := 0; y < img.Bounds().Dy(); y++ {
		for x := 0; x < img.Bounds().Dx(); x++ {
			if c := img.NRGBAAt(x, y); c.R < 0x80 {
				dark++
				if y > 44 {
					t.Fatalf("ink at (%d, %d), below the baseline area", x, y)
				}
			}
		}
	}
	if dark < 50 {
		t.Errorf("got %d dark pixels, want visible text", dark)
	}
}

func TestRasterize_HugeGlyphSkipped(t *testing.T) {
	t.Parallel()

	page := &typeset.Page{
		Size:  typeset.Size{W: 10, H: 10},
		Items: []typeset.Item{&typeset.Text{X: 0, Y: 5, Text: "W", Size: 5000, Color: black}},
	}
	img, err := newRasterizer(t).Rasterize(page, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got := img.NRGBAAt(5, 5); got.A != 0 {
		t.Errorf("pixel = %v, want the glyph skipped", got)
	}
}

func TestRasterize_InvalidScale(t *testing.T) {
	t.Parallel()

	r := newRasterizer(t)
	for _, ppp := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := r.Rasterize(&typeset.Page{Size: typeset.Size{W: 1, H: 1}}, ppp); !errors.Is(err, ErrInvalidScale) {
			t.Errorf("Rasterize(ppp=%v) error = %v, want ErrInvalidScale", ppp, err)
		}
	}
}

func TestRasterize_CompiledPage(t *testing.T) {
	t.Parallel()

	res := typeset.Compile(testWorld("#set page(width: 120pt, height: auto, margin: 5pt, fill: white)\n# Hi\n\n- a\n- b\n\n```\ncode\n```\n"))
	if len(res.Errors) > 0 {
		t.Fatalf("Compile() errors: %+v", res.Errors)
	}
	page := res.Document.Pages[0]
	img, err := newRasterizer(t).Rasterize(page, 2)
	if err != nil {
		t.Fatal(err)
	}
	w, h := Dimensions(page.Size, 2)
	if img.Bounds().Dx() != w || img.Bounds().Dy() != h {
		t.Errorf("Bounds() = %v, want %dx%d", img.Bounds(), w, h)
	}
}
