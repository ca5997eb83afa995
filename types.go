package markrender

import (
	"fmt"
	"math"
	"strings"
)

// Output budgets and limits.
const (
	// PageLimit is the most pages returned by a raster render.
	PageLimit = 5
	// BytesLimit caps the summed size of the encoded raster pages.
	BytesLimit = 25 << 20
	// DesiredResolution is the default density: the pixel count a page of
	// any aspect ratio aims for is DesiredResolution squared.
	DesiredResolution = 3000.0
	// MaxSize is the largest page side, in points, that is rasterized.
	MaxSize = 30000.0
	// MaxPixelsPerPoint caps the scale of small pages.
	MaxPixelsPerPoint = 30.0
	// MaxDensityOverride bounds a caller supplied density.
	MaxDensityOverride = 6000.0
)

// OutputFormat selects the output backend.
type OutputFormat int

const (
	// FormatPNG renders each page to a PNG image.
	FormatPNG OutputFormat = iota
	// FormatPDF renders the whole document to one PDF file.
	FormatPDF
)

func (f OutputFormat) String() string {
	if f == FormatPDF {
		return "pdf"
	}
	return "png"
}

// ParseOutputFormat maps a format name to an OutputFormat. "pdf" and its
// alias "vector" select FormatPDF; matching ignores case and surrounding
// whitespace. Any other name, including "", falls back to FormatPNG.
func ParseOutputFormat(s string) OutputFormat {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pdf", "vector":
		return FormatPDF
	default:
		return FormatPNG
	}
}

// Input contains render parameters.
type Input struct {
	Source string       // markup source (may be empty)
	Format OutputFormat // default FormatPNG
	// Density overrides DesiredResolution for raster output. Zero means
	// the default. Ignored for FormatPDF.
	Density float64
}

// Validate checks the density override.
func (in Input) Validate() error {
	return validateDensity(in.Density, true)
}

// validateDensity accepts finite values in (0, MaxDensityOverride], and
// zero when allowZero is set.
func validateDensity(d float64, allowZero bool) error {
	switch {
	case d == 0 && allowZero:
		return nil
	case math.IsNaN(d) || math.IsInf(d, 0):
		return fmt.Errorf("%w: must be a finite number", ErrInvalidDensity)
	case d <= 0 || d > MaxDensityOverride:
		return fmt.Errorf("%w: %g (must be greater than 0 and at most %g)", ErrInvalidDensity, d, MaxDensityOverride)
	}
	return nil
}

// ValidateDensity checks an explicitly supplied density.
func ValidateDensity(d float64) error {
	return validateDensity(d, false)
}

// Rendered is the result of a render.
type Rendered struct {
	// Blobs holds one PNG per page, or a single PDF.
	Blobs [][]byte
	// MorePages counts compiled pages left out by the page or byte budget.
	// Always zero for FormatPDF.
	MorePages int
	// Warnings is the formatted warning report, "" when there are none.
	Warnings string
	Format   OutputFormat
}
