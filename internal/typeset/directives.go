package typeset

import (
	"errors"
	"strings"

	"github.com/alecthomas/chroma/v2/styles"

	"github.com/alnah/go-markrender/internal/assets"
	"github.com/alnah/go-markrender/internal/diag"
	"github.com/alnah/go-markrender/internal/hints"
	"github.com/alnah/go-markrender/internal/pipeline"
)

// stdPrefix marks standard library module paths.
const stdPrefix = "@std/"

// Arguments accepted by each settable element.
var (
	pageArgs = []string{"width", "height", "margin", "fill", "paper"}
	textArgs = []string{"size", "fill", "font"}
	rawArgs  = []string{"theme"}
	elements = []string{"page", "text", "raw"}
)

// apply executes a directive. depth counts enclosing imports.
func (e *engine) apply(d pipeline.Directive, depth int) {
	switch d.Kind {
	case pipeline.KindSet:
		switch d.Target {
		case "page":
			e.setPage(d)
		case "text":
			e.setText(d)
		case "raw":
			e.setRaw(d)
		default:
			e.error(diag.Errorf(d.TargetSpan, "unknown element `%s`", d.Target).
				WithHint(hints.ForUnknownName(elements)))
		}
	case pipeline.KindImport:
		e.importModule(d, depth)
	case pipeline.KindPagebreak:
		e.pagebreak()
	}
}

// unknownArg reports an argument the element does not accept.
func (e *engine) unknownArg(a pipeline.Arg, element string, known []string) {
	e.error(diag.Errorf(a.NameSpan, "unknown argument `%s` for %s", a.Name, element).
		WithHint(hints.ForUnknownName(known)))
}

// setPage applies #set page. A paper is applied before explicit sizes.
// New settings on a page that already has content start a new page.
func (e *engine) setPage(d pipeline.Directive) {
	next := e.page
	failed := false
	fail := func(bad *diag.Diagnostic) {
		e.error(*bad)
		failed = true
	}

	if a, ok := d.Arg("paper"); ok {
		name, bad := parseString(a)
		if bad != nil {
			fail(bad)
		} else if paper, ok := e.defs.Papers[name]; ok {
			next.width, next.height = paper.Width, paper.Height
			next.autoWidth, next.autoHeight = false, false
		} else {
			e.error(diag.Errorf(a.ValueSpan, "unknown paper `%s`", name).
				WithHint(hints.ForUnknownName(e.defs.PaperNames())))
			failed = true
		}
	}

	for _, a := range d.Args {
		switch a.Name {
		case "paper":
		case "width", "height":
			auto, v := isAuto(a), 0.0
			if !auto {
				var bad *diag.Diagnostic
				if v, bad = parseLength(a); bad != nil {
					fail(bad)
					continue
				}
				if v <= 0 {
					e.error(diag.Errorf(a.ValueSpan, "page %s must be greater than zero", a.Name))
					failed = true
					continue
				}
			}
			if a.Name == "width" {
				next.autoWidth = auto
				if !auto {
					next.width = v
				}
			} else {
				next.autoHeight = auto
				if !auto {
					next.height = v
				}
			}
		case "margin":
			if isAuto(a) {
				next.marginSet = false
				continue
			}
			v, bad := parseLength(a)
			if bad != nil {
				fail(bad)
				continue
			}
			next.margin, next.marginSet = v, true
		case "fill":
			if isNone(a) {
				next.fill = nil
				continue
			}
			c, bad := parseColor(a, e.defs)
			if bad != nil {
				fail(bad)
				continue
			}
			next.fill = &c
		default:
			e.unknownArg(a, "page", pageArgs)
			failed = true
		}
	}
	if failed {
		return
	}
	e.restyle()
	e.page = next
}

// setText applies #set text.
func (e *engine) setText(d pipeline.Directive) {
	next := e.text
	failed := false
	for _, a := range d.Args {
		var bad *diag.Diagnostic
		switch a.Name {
		case "size":
			var v float64
			if v, bad = parseLength(a); bad == nil && v <= 0 {
				e.error(diag.Errorf(a.ValueSpan, "text size must be greater than zero"))
				failed = true
				continue
			}
			next.size = v
		case "fill":
			next.fill, bad = parseColor(a, e.defs)
		case "font":
			var name string
			if name, bad = parseString(a); bad == nil {
				switch name {
				case "sans":
					next.mono = false
				case "mono":
					next.mono = true
				default:
					e.error(diag.Errorf(a.ValueSpan, "unknown font `%s`", name).
						WithHint(hints.ForUnknownName([]string{"sans", "mono"})).
						WithHint(hints.ForMissingGlyph()))
					failed = true
				}
			}
		default:
			e.unknownArg(a, "text", textArgs)
			failed = true
		}
		if bad != nil {
			e.error(*bad)
			failed = true
		}
	}
	if !failed {
		e.text = next
	}
}

// setRaw applies #set raw, selecting the code highlighting theme.
func (e *engine) setRaw(d pipeline.Directive) {
	theme := e.theme
	for _, a := range d.Args {
		if a.Name != "theme" {
			e.unknownArg(a, "raw", rawArgs)
			return
		}
		name, bad := parseString(a)
		if bad != nil {
			e.error(*bad)
			return
		}
		if name == "auto" {
			theme = ""
			continue
		}
		if _, ok := styles.Registry[name]; !ok {
			e.error(diag.Errorf(a.ValueSpan, "unknown theme `%s`", name).
				WithHint(hints.ForUnknownName(styles.Names())))
			return
		}
		theme = name
	}
	e.theme = theme
}

// importModule applies the directives of a library module. Module bodies
// carry no content; only their directives take effect.
func (e *engine) importModule(d pipeline.Directive, depth int) {
	path := d.Target
	if !strings.ContainsAny(path, "/.:\\") {
		path = stdPrefix + path
	}
	if depth >= maxImportDepth {
		e.error(diag.Errorf(d.TargetSpan, "modules are nested more than %d levels deep", maxImportDepth))
		return
	}

	data, err := e.world.File(path)
	if err != nil {
		bad := diag.Errorf(d.TargetSpan, "cannot import `%s`: %v", d.Target, err)
		switch {
		case errors.Is(err, ErrNetworkDenied):
			bad = bad.WithHint(hints.ForNetwork())
		case errors.Is(err, ErrAccessDenied):
			bad = bad.WithHint(hints.ForSandboxFile())
		case errors.Is(err, assets.ErrModuleNotFound), errors.Is(err, assets.ErrInvalidAssetName):
			bad = bad.WithHint(hints.ForUnknownModule(e.lib.Modules()))
		}
		e.error(bad)
		return
	}

	u := parser.Parse(pipeline.NormalizeLineEndings(string(data)))

	outerSpan, outerName := e.importSpan, e.importName
	if outerSpan == nil {
		e.importSpan, e.importName = &d.TargetSpan, strings.TrimPrefix(path, stdPrefix)
	}
	defer func() { e.importSpan, e.importName = outerSpan, outerName }()

	for _, bad := range u.Diagnostics {
		e.error(bad)
	}
	for _, md := range u.Directives {
		e.apply(md, depth+1)
	}
}
