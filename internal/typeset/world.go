package typeset

import (
	"golang.org/x/image/font/opentype"

	"github.com/alnah/go-markrender/internal/assets"
	"github.com/alnah/go-markrender/internal/diag"
)

// Source is the main file of a compilation.
type Source struct {
	Text string
	Map  *diag.SourceMap
}

// World is everything a compilation can see.
type World interface {
	// Main returns the source being compiled.
	Main() Source
	// File reads an importable file by path.
	File(path string) ([]byte, error)
	// Font returns an embedded font face.
	Font(v assets.Variant) (*opentype.Font, error)
	// Library returns the standard library definitions and modules.
	Library() *assets.Library
}
