package markrender

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"time"

	"github.com/rs/zerolog"

	"github.com/alnah/go-markrender/internal/diag"
	"github.com/alnah/go-markrender/internal/pdf"
	"github.com/alnah/go-markrender/internal/raster"
	"github.com/alnah/go-markrender/internal/sandbox"
	"github.com/alnah/go-markrender/internal/typeset"
)

// Compile-time interface implementation checks.
var (
	_ pageRasterizer = (*raster.Rasterizer)(nil)
	_ imageEncoder   = pngEncoder{}
	_ documentWriter = pdfWriter{}
)

// pageRasterizer paints one page. Instances are used by one render.
type pageRasterizer interface {
	Rasterize(page *typeset.Page, ppp float64) (*image.NRGBA, error)
	Close() error
}

type imageEncoder interface {
	Encode(img image.Image) ([]byte, error)
}

type documentWriter interface {
	Write(doc *typeset.Document, fonts pdf.Fonts) ([]byte, error)
}

type pdfWriter struct{}

func (pdfWriter) Write(doc *typeset.Document, fonts pdf.Fonts) ([]byte, error) {
	return pdf.Write(doc, fonts)
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger used for per-render debug events.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Renderer) {
		r.logger = l
	}
}

// WithPNGCompression sets the zlib level of PNG output.
func WithPNGCompression(level png.CompressionLevel) Option {
	return func(r *Renderer) {
		r.encoder = pngEncoder{level: level}
	}
}

// Renderer compiles sources and encodes the resulting pages. It is safe for
// concurrent use; every Render call works on its own state.
type Renderer struct {
	sandbox       *sandbox.Sandbox
	logger        zerolog.Logger
	newRasterizer func(typeset.FontSource) pageRasterizer
	encoder       imageEncoder
	vector        documentWriter
	pageLimit     int
	bytesLimit    int
}

// NewRenderer creates a Renderer over the shared sandbox.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		sandbox: sandbox.New(),
		logger:  zerolog.Nop(),
		newRasterizer: func(fonts typeset.FontSource) pageRasterizer {
			return raster.New(fonts)
		},
		encoder:    pngEncoder{level: png.DefaultCompression},
		vector:     pdfWriter{},
		pageLimit:  PageLimit,
		bytesLimit: BytesLimit,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render compiles input.Source and encodes it in input.Format.
//
// Compile errors come back as a *DiagnosticError, a raster page beyond
// MaxSize as a *TooBigError. Raster output holds at most PageLimit pages
// and stops before the page that would push the encoded total past
// BytesLimit; Rendered.MorePages counts what was left out. The context is
// checked between pages. Internal panics are recovered into errors.
func (r *Renderer) Render(ctx context.Context, input Input) (out *Rendered, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			out, err = nil, fmt.Errorf("internal error: %v", rec)
		}
	}()

	if err := input.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	world := r.sandbox.WithSource(input.Source)
	res := typeset.Compile(world)
	sm := world.Main().Map
	if len(res.Errors) > 0 {
		r.logger.Debug().Int("errors", len(res.Errors)).Msg("compilation failed")
		return nil, &DiagnosticError{Message: diag.Format(sm, res.Errors)}
	}
	r.logger.Debug().
		Int("pages", len(res.Document.Pages)).
		Int("warnings", len(res.Warnings)).
		Dur("elapsed", time.Since(start)).
		Msg("compiled")
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out = &Rendered{Format: input.Format, Warnings: diag.Format(sm, res.Warnings)}
	switch input.Format {
	case FormatPDF:
		blob, err := r.vector.Write(res.Document, world.Fonts())
		if err != nil {
			return nil, &DiagnosticError{Message: "failed to write PDF: " + err.Error()}
		}
		// One blob holds every page, so MorePages stays 0 rather than
		// counting pages beyond the first.
		out.Blobs = [][]byte{blob}
	default:
		if err := r.rasterize(ctx, res.Document, input.Density, world.Fonts(), out); err != nil {
			return nil, err
		}
	}

	r.logger.Debug().
		Str("format", out.Format.String()).
		Int("blobs", len(out.Blobs)).
		Int("more_pages", out.MorePages).
		Dur("elapsed", time.Since(start)).
		Msg("rendered")
	return out, nil
}

// rasterize encodes pages in order until the page or byte budget runs out.
func (r *Renderer) rasterize(ctx context.Context, doc *typeset.Document, density float64, fonts typeset.FontSource, out *Rendered) error {
	if density == 0 {
		density = DesiredResolution
	}
	rz := r.newRasterizer(fonts)
	defer func() { _ = rz.Close() }()

	total := 0
	for i, page := range doc.Pages {
		if i >= r.pageLimit {
			break
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		ppp, err := PixelsPerPoint(Size{W: page.Size.W, H: page.Size.H}, density)
		if err != nil {
			return err
		}
		img, err := rz.Rasterize(page, ppp)
		if err != nil {
			return fmt.Errorf("%w: page %d: %v", ErrEncode, i+1, err)
		}
		blob, err := r.encoder.Encode(img)
		if err != nil {
			return fmt.Errorf("page %d: %w", i+1, err)
		}
		if total+len(blob) > r.bytesLimit {
			r.logger.Debug().Int("page", i+1).Int("bytes", total).Msg("byte budget exhausted")
			break
		}
		total += len(blob)
		out.Blobs = append(out.Blobs, blob)
	}
	out.MorePages = len(doc.Pages) - len(out.Blobs)
	return nil
}
