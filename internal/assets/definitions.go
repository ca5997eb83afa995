package assets

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/alnah/go-markrender/internal/yamlutil"
)

// Definitions are the named values of the standard library.
type Definitions struct {
	Page     PageDefaults      `yaml:"page"`
	Papers   map[string]Paper  `yaml:"papers"`
	Colors   map[string]string `yaml:"colors"`
	Text     TextDefaults      `yaml:"text"`
	Headings []float64         `yaml:"headings"`
	Code     CodeDefaults      `yaml:"code"`
}

// PageDefaults names the paper used when the source sets none.
type PageDefaults struct {
	Paper string `yaml:"paper"`
}

// Paper is a named page size in points.
type Paper struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// TextDefaults configures body text.
type TextDefaults struct {
	Size      float64 `yaml:"size"`      // points
	Leading   float64 `yaml:"leading"`   // line height as a multiple of the size
	LinkColor string  `yaml:"linkColor"` // hex
}

// CodeDefaults configures code blocks and spans.
type CodeDefaults struct {
	Scale      float64 `yaml:"scale"`      // relative to the body size
	LightTheme string  `yaml:"lightTheme"` // chroma style on light pages
	DarkTheme  string  `yaml:"darkTheme"`  // chroma style when text is light
}

func loadDefinitions() (*Definitions, error) {
	f, err := library.Open(definitionsFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDefinitions, err)
	}
	defer f.Close()

	var defs Definitions
	if err := yamlutil.ReadStrict(f, &defs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDefinitions, err)
	}
	if err := defs.validate(); err != nil {
		return nil, err
	}
	return &defs, nil
}

func (d *Definitions) validate() error {
	if _, ok := d.Papers[d.Page.Paper]; !ok {
		return fmt.Errorf("%w: default paper %q is not defined", ErrDefinitions, d.Page.Paper)
	}
	if d.Text.Size <= 0 || d.Text.Leading <= 0 || d.Code.Scale <= 0 {
		return fmt.Errorf("%w: text size, leading and code scale must be positive", ErrDefinitions)
	}
	if len(d.Headings) != 6 {
		return fmt.Errorf("%w: want 6 heading scales, got %d", ErrDefinitions, len(d.Headings))
	}
	if _, err := ParseHex(d.Text.LinkColor); err != nil {
		return fmt.Errorf("%w: text.linkColor: %v", ErrDefinitions, err)
	}
	for name, hex := range d.Colors {
		if _, err := ParseHex(hex); err != nil {
			return fmt.Errorf("%w: colors.%s: %v", ErrDefinitions, name, err)
		}
	}
	return nil
}

// Color looks up a named color.
func (d *Definitions) Color(name string) (color.NRGBA, bool) {
	hex, ok := d.Colors[name]
	if !ok {
		return color.NRGBA{}, false
	}
	c, err := ParseHex(hex)
	return c, err == nil
}

// ColorNames lists the named colors.
func (d *Definitions) ColorNames() []string {
	return keys(d.Colors)
}

// PaperNames lists the named papers.
func (d *Definitions) PaperNames() []string {
	return keys(d.Papers)
}

// LinkColor returns the accent color used for links.
func (d *Definitions) LinkColor() color.NRGBA {
	c, _ := ParseHex(d.Text.LinkColor)
	return c
}

// HeadingScale returns the size multiplier for a heading level (1-6).
// Levels outside the range are clamped.
func (d *Definitions) HeadingScale(level int) float64 {
	level = min(max(level, 1), len(d.Headings))
	return d.Headings[level-1]
}

// ParseHex parses "#rrggbb" or "#rgb" into an opaque color.
func ParseHex(s string) (color.NRGBA, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return color.NRGBA{}, fmt.Errorf("color %q must start with #", s)
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.NRGBA{}, fmt.Errorf("color %q must have 3 or 6 hex digits", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("color %q is not hexadecimal", s)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
