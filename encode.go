package markrender

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// pngEncoder encodes rasterized pages.
type pngEncoder struct {
	level png.CompressionLevel
}

func (e pngEncoder) Encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG, imaging.PNGCompressionLevel(e.level)); err != nil {
		return nil, fmt.Errorf("%w: png: %v", ErrEncode, err)
	}
	return buf.Bytes(), nil
}
