package raster

import (
	"golang.org/x/image/font/opentype"

	"github.com/alnah/go-markrender/internal/assets"
	"github.com/alnah/go-markrender/internal/diag"
	"github.com/alnah/go-markrender/internal/typeset"
)

// world is a minimal typeset.World without imports.
type world string

func testWorld(src string) world { return world(src) }

func (w world) Main() typeset.Source {
	return typeset.Source{Text: string(w), Map: diag.NewSourceMap(string(w))}
}

func (w world) File(path string) ([]byte, error) {
	return nil, typeset.ErrAccessDenied
}

func (w world) Font(v assets.Variant) (*opentype.Font, error) {
	return assets.DefaultFontBook().Font(v)
}

func (w world) Library() *assets.Library {
	return assets.Default()
}
