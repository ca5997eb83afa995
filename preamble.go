package markrender

import (
	"fmt"
	"strings"
)

// Theme selects the page and text colors prepended to a source.
type Theme string

const (
	ThemeTransparent Theme = "transparent"
	ThemeLight       Theme = "light"
	ThemeDark        Theme = "dark"
)

// DefaultTheme is used when no theme is given.
const DefaultTheme = ThemeDark

// ParseTheme accepts full names and the one-letter forms t, l and d.
// The empty string yields DefaultTheme.
func ParseTheme(s string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultTheme, nil
	case "transparent", "t":
		return ThemeTransparent, nil
	case "light", "l":
		return ThemeLight, nil
	case "dark", "d":
		return ThemeDark, nil
	}
	return "", fmt.Errorf("%w: %q (use transparent, light or dark)", ErrInvalidTheme, s)
}

func (t Theme) block() string {
	switch t {
	case ThemeLight:
		return "#set page(fill: white)\n"
	case ThemeDark:
		return "#set page(fill: rgb(49, 51, 56))\n" +
			"#set text(fill: rgb(219, 222, 225))\n"
	}
	return ""
}

// PageSize selects the page geometry prepended to a source.
type PageSize string

const (
	// PageSizePreview is a 300pt wide page that grows with its content.
	PageSizePreview PageSize = "preview"
	// PageSizeAuto sizes the page to its content on both axes.
	PageSizeAuto PageSize = "auto"
	// PageSizeDefault keeps the document's own page setup.
	PageSizeDefault PageSize = "default"
)

// DefaultPageSize is used when no page size is given.
const DefaultPageSize = PageSizePreview

// ParsePageSize accepts full names and the one-letter forms p, a and d.
// The empty string yields DefaultPageSize.
func ParsePageSize(s string) (PageSize, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultPageSize, nil
	case "preview", "p":
		return PageSizePreview, nil
	case "auto", "a":
		return PageSizeAuto, nil
	case "default", "d":
		return PageSizeDefault, nil
	}
	return "", fmt.Errorf("%w: %q (use preview, auto or default)", ErrInvalidPageSize, s)
}

func (p PageSize) block() string {
	switch p {
	case PageSizePreview:
		return "#set page(width: 300pt, height: auto, margin: 10pt)\n"
	case PageSizeAuto:
		return "#set page(width: auto, height: auto, margin: 10pt)\n"
	}
	return ""
}

// Preamble returns the text prepended to a source for the given page size
// and theme, or "" when neither contributes a directive.
func Preamble(size PageSize, theme Theme) string {
	ps, th := size.block(), theme.block()
	if ps == "" && th == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString("// Begin preamble\n")
	b.WriteString("// Page size:\n")
	b.WriteString(ps)
	b.WriteString("// Theme:\n")
	b.WriteString(th)
	b.WriteString("// End preamble\n")
	return b.String()
}

// WithPreamble prepends the preamble for size and theme to source.
func WithPreamble(source string, size PageSize, theme Theme) string {
	return Preamble(size, theme) + source
}
