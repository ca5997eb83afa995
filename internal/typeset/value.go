package typeset

import (
	"image/color"
	"regexp"
	"strconv"
	"strings"

	"github.com/alnah/go-markrender/internal/assets"
	"github.com/alnah/go-markrender/internal/diag"
	"github.com/alnah/go-markrender/internal/hints"
	"github.com/alnah/go-markrender/internal/pipeline"
)

var (
	lengthPattern = regexp.MustCompile(`^(\d+(?:\.\d*)?|\.\d+)\s*(pt|mm|cm|in)?$`)
	callPattern   = regexp.MustCompile(`^([a-z]+)\s*\((.*)\)$`)
)

// pointsPer converts a length unit to points.
var pointsPer = map[string]float64{
	"":   1,
	"pt": 1,
	"mm": 72 / 25.4,
	"cm": 72 / 2.54,
	"in": 72,
}

func isAuto(a pipeline.Arg) bool { return a.Value == "auto" }
func isNone(a pipeline.Arg) bool { return a.Value == "none" }

// parseLength reads a non-negative length in points.
func parseLength(a pipeline.Arg) (float64, *diag.Diagnostic) {
	m := lengthPattern.FindStringSubmatch(a.Value)
	if m == nil {
		e := diag.Errorf(a.ValueSpan, "expected a length for `%s`, found `%s`", a.Name, a.Value).
			WithHint(hints.ForLength())
		return 0, &e
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		e := diag.Errorf(a.ValueSpan, "invalid number `%s`", m[1])
		return 0, &e
	}
	return v * pointsPer[m[2]], nil
}

// parseString reads a quoted string or a bare word.
func parseString(a pipeline.Arg) (string, *diag.Diagnostic) {
	if s, ok := pipeline.Unquote(a.Value); ok {
		return s, nil
	}
	if strings.IndexFunc(a.Value, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-' || r == '_')
	}) < 0 {
		return a.Value, nil
	}
	e := diag.Errorf(a.ValueSpan, "expected a string for `%s`, found `%s`", a.Name, a.Value)
	return "", &e
}

// parseColor reads a color name, rgb(r, g, b), luma(n) or a "#rrggbb" string.
func parseColor(a pipeline.Arg, defs *assets.Definitions) (color.NRGBA, *diag.Diagnostic) {
	value := a.Value
	if s, ok := pipeline.Unquote(value); ok {
		value = s
	}
	if strings.HasPrefix(value, "#") {
		c, err := assets.ParseHex(value)
		if err != nil {
			e := diag.Errorf(a.ValueSpan, "%v", err).WithHint(hints.ForColor())
			return color.NRGBA{}, &e
		}
		return c, nil
	}
	if m := callPattern.FindStringSubmatch(value); m != nil {
		return parseColorCall(a, m[1], m[2])
	}
	if c, ok := defs.Color(value); ok {
		return c, nil
	}
	e := diag.Errorf(a.ValueSpan, "unknown color `%s`", value).
		WithHint(hints.ForColor()).
		WithHint(hints.ForUnknownName(defs.ColorNames()))
	return color.NRGBA{}, &e
}

func parseColorCall(a pipeline.Arg, fn, args string) (color.NRGBA, *diag.Diagnostic) {
	parts := strings.Split(args, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	switch {
	case fn == "rgb" && len(parts) == 1:
		if s, ok := pipeline.Unquote(parts[0]); ok {
			if c, err := assets.ParseHex(s); err == nil {
				return c, nil
			}
		}
	case fn == "rgb" && len(parts) == 3:
		var ch [3]uint8
		for i, p := range parts {
			v, bad := parseComponent(a, p)
			if bad != nil {
				return color.NRGBA{}, bad
			}
			ch[i] = v
		}
		return color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: 0xff}, nil
	case fn == "luma" && len(parts) == 1:
		v, bad := parseComponent(a, parts[0])
		if bad != nil {
			return color.NRGBA{}, bad
		}
		return color.NRGBA{R: v, G: v, B: v, A: 0xff}, nil
	}
	e := diag.Errorf(a.ValueSpan, "invalid color `%s`", a.Value).WithHint(hints.ForColor())
	return color.NRGBA{}, &e
}

// parseComponent reads an integer in [0, 255] or a percentage.
func parseComponent(a pipeline.Arg, s string) (uint8, *diag.Diagnostic) {
	if pct, ok := strings.CutSuffix(s, "%"); ok {
		v, err := strconv.ParseFloat(pct, 64)
		if err == nil && v >= 0 && v <= 100 {
			return uint8(v/100*255 + 0.5), nil
		}
	} else if v, err := strconv.Atoi(s); err == nil && v >= 0 && v <= 255 {
		return uint8(v), nil
	}
	e := diag.Errorf(a.ValueSpan, "color component `%s` must be between 0 and 255", s)
	return 0, &e
}

// luminance returns the relative luminance of c in [0, 1].
func luminance(c color.NRGBA) float64 {
	return (0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)) / 255
}
