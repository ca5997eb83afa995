package assets

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Variant selects a face of the embedded font families. Bits combine.
type Variant uint8

const (
	VariantBold Variant = 1 << iota
	VariantItalic
	VariantMono
)

// VariantRegular is the upright sans face.
const VariantRegular Variant = 0

const variantCount = 8

// String names the variant, e.g. "mono-bold-italic".
func (v Variant) String() string {
	parts := []string{"sans"}
	if v&VariantMono != 0 {
		parts[0] = "mono"
	}
	if v&VariantBold != 0 {
		parts = append(parts, "bold")
	}
	if v&VariantItalic != 0 {
		parts = append(parts, "italic")
	}
	return strings.Join(parts, "-")
}

// index maps the variant bits onto [0, variantCount).
func (v Variant) index() int {
	return int(v & (VariantBold | VariantItalic | VariantMono))
}

// fontData is indexed by Variant.index.
var fontData = [variantCount][]byte{
	goregular.TTF,
	gobold.TTF,
	goitalic.TTF,
	gobolditalic.TTF,
	gomono.TTF,
	gomonobold.TTF,
	gomonoitalic.TTF,
	gomonobolditalic.TTF,
}

// FontBook holds the parsed embedded fonts. The parsed fonts are immutable;
// callers that need glyph data pass their own sfnt.Buffer.
type FontBook struct {
	fonts [variantCount]*opentype.Font
}

// NewFontBook parses every embedded font.
func NewFontBook() (*FontBook, error) {
	var b FontBook
	for i, data := range fontData {
		f, err := opentype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parsing font %d: %w", i, err)
		}
		b.fonts[i] = f
	}
	return &b, nil
}

var (
	defaultFontBook     *FontBook
	defaultFontBookErr  error
	defaultFontBookOnce sync.Once
)

// DefaultFontBook returns the process-wide font book, parsed on first use.
// It panics if the embedded fonts cannot be parsed, which is a build defect.
func DefaultFontBook() *FontBook {
	defaultFontBookOnce.Do(func() {
		defaultFontBook, defaultFontBookErr = NewFontBook()
	})
	if defaultFontBookErr != nil {
		panic(fmt.Sprintf("assets: embedded fonts: %v", defaultFontBookErr))
	}
	return defaultFontBook
}

// Font returns the parsed font for v.
func (b *FontBook) Font(v Variant) (*opentype.Font, error) {
	i := v.index()
	if b == nil || b.fonts[i] == nil {
		return nil, fmt.Errorf("%w: %s", ErrFontNotFound, v)
	}
	return b.fonts[i], nil
}

// Data returns the raw TrueType bytes for v, for embedding in documents.
func (b *FontBook) Data(v Variant) []byte {
	return fontData[v.index()]
}
