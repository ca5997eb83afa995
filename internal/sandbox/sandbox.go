// Package sandbox provides the isolated environment compilations run in.
//
// A Sandbox exposes only what is embedded in the binary: the standard
// library definitions and modules, and the Go font family. It performs no
// file system or network I/O. One Sandbox is shared by every request;
// WithSource derives a cheap request-local World from it.
package sandbox

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/image/font/opentype"

	"github.com/alnah/go-markrender/internal/assets"
	"github.com/alnah/go-markrender/internal/diag"
	"github.com/alnah/go-markrender/internal/pipeline"
	"github.com/alnah/go-markrender/internal/typeset"
)

// StdPrefix marks importable standard library paths.
const StdPrefix = "@std/"

// Sandbox is immutable and safe for concurrent use.
type Sandbox struct {
	lib   *assets.Library
	fonts *assets.FontBook
}

var (
	shared     *Sandbox
	sharedOnce sync.Once
)

// New returns the process-wide Sandbox. Embedded resources are loaded on
// the first call.
func New() *Sandbox {
	sharedOnce.Do(func() {
		shared = &Sandbox{lib: assets.Default(), fonts: assets.DefaultFontBook()}
	})
	return shared
}

// WithSource returns a World whose main file is source. Line endings are
// normalized to \n.
func (s *Sandbox) WithSource(source string) *World {
	text := pipeline.NormalizeLineEndings(source)
	return &World{
		sandbox: s,
		main:    typeset.Source{Text: text, Map: diag.NewSourceMap(text)},
	}
}

// World is the view of a Sandbox for one source text.
type World struct {
	sandbox *Sandbox
	main    typeset.Source
}

// Main returns the source being compiled.
func (w *World) Main() typeset.Source {
	return w.main
}

// File serves standard library modules under "@std/". Any other path is
// refused: URLs with typeset.ErrNetworkDenied, everything else with
// typeset.ErrAccessDenied.
func (w *World) File(path string) ([]byte, error) {
	if isURL(path) {
		return nil, fmt.Errorf("%w: %s", typeset.ErrNetworkDenied, path)
	}
	name, ok := strings.CutPrefix(path, StdPrefix)
	if !ok {
		return nil, fmt.Errorf("%w: %s", typeset.ErrAccessDenied, path)
	}
	src, err := w.sandbox.lib.Module(name)
	if err != nil {
		return nil, err
	}
	return []byte(src), nil
}

// Font returns an embedded font.
func (w *World) Font(v assets.Variant) (*opentype.Font, error) {
	return w.sandbox.fonts.Font(v)
}

// Library returns the embedded standard library.
func (w *World) Library() *assets.Library {
	return w.sandbox.lib
}

// Fonts returns the embedded font book, for output backends that embed
// font programs.
func (w *World) Fonts() *assets.FontBook {
	return w.sandbox.fonts
}

func isURL(path string) bool {
	if strings.Contains(path, "://") {
		return true
	}
	lower := strings.ToLower(path)
	return strings.HasPrefix(lower, "http:") || strings.HasPrefix(lower, "https:") ||
		strings.HasPrefix(lower, "ftp:") || strings.HasPrefix(lower, "//")
}

// Compile-time interface check.
var _ typeset.World = (*World)(nil)
