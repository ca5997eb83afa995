// Package hints provides actionable hint texts for diagnostics and command errors.
// Diagnostic hints are plain sentences; Suffix formats a hint as "\n  hint: <text>"
// for appending to error messages printed by the command line tools.
package hints

import (
	"sort"
	"strings"
)

// maxListed caps how many alternatives a hint enumerates.
const maxListed = 8

// ForUnknownName lists the accepted names for an unknown argument, element or color.
func ForUnknownName(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return "available: " + list(available)
}

// ForUnknownModule lists the library modules that can be imported.
func ForUnknownModule(available []string) string {
	if len(available) == 0 {
		return "the library has no modules"
	}
	return "library modules: " + list(available)
}

// ForSandboxFile explains why a path outside the library cannot be read.
func ForSandboxFile() string {
	return "the renderer has no file system access; only @std/ library modules can be imported"
}

// ForNetwork explains why remote resources are unavailable.
func ForNetwork() string {
	return "the renderer has no network access"
}

// ForImage explains how image references are rendered.
func ForImage() string {
	return "images are replaced by their alt text"
}

// ForRawHTML explains that inline HTML is dropped.
func ForRawHTML() string {
	return "raw HTML is not rendered; use Markdown syntax instead"
}

// ForMissingGlyph names the embedded font families.
func ForMissingGlyph() string {
	return "embedded fonts are Go (sans) and Go Mono"
}

// ForLength shows the accepted length syntax.
func ForLength() string {
	return "lengths are numbers with an optional unit: pt, mm, cm, in"
}

// ForColor shows the accepted color syntax.
func ForColor() string {
	return `colors are names, rgb(r, g, b), luma(n) or "#rrggbb"`
}

// ForTimeout returns a hint about raising the render timeout.
func ForTimeout() string {
	return Suffix("for large documents, use --timeout flag")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config and the user config directory when it was searched.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-markrender") {
			hint += " or create " + p
			break
		}
	}

	return Suffix(hint)
}

// ForTooBig suggests how to keep pages within the raster size limit.
func ForTooBig() string {
	return Suffix("set an explicit page width, or wrap long lines when using width: auto")
}

// Suffix creates a single hint string for appending to an error message.
func Suffix(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// list sorts names and joins at most maxListed of them.
func list(names []string) string {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	if len(sorted) > maxListed {
		return strings.Join(sorted[:maxListed], ", ") + ", ..."
	}
	return strings.Join(sorted, ", ")
}
