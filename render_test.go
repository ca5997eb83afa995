package markrender

import (
	"bytes"
	"context"
	"errors"
	"image"
	"strings"
	"sync"
	"testing"

	"github.com/alnah/go-markrender/internal/pdf"
	"github.com/alnah/go-markrender/internal/typeset"
)

const mib = 1 << 20

// fakeRasterizer records the scales it was asked for and returns 1x1
// images.
type fakeRasterizer struct {
	mu     sync.Mutex
	scales []float64
	err    error
}

func (f *fakeRasterizer) Rasterize(_ *typeset.Page, ppp float64) (*image.NRGBA, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scales = append(f.scales, ppp)
	if f.err != nil {
		return nil, f.err
	}
	return image.NewNRGBA(image.Rect(0, 0, 1, 1)), nil
}

func (f *fakeRasterizer) Close() error { return nil }

// sizedEncoder returns blobs of the given sizes in turn.
type sizedEncoder struct {
	sizes []int
	calls int
}

func (e *sizedEncoder) Encode(image.Image) ([]byte, error) {
	n := e.sizes[e.calls%len(e.sizes)]
	e.calls++
	return make([]byte, n), nil
}

type failingWriter struct{}

func (failingWriter) Write(*typeset.Document, pdf.Fonts) ([]byte, error) {
	return nil, errors.New("disk on fire")
}

func newFakeRenderer(rz *fakeRasterizer, enc imageEncoder) *Renderer {
	r := NewRenderer()
	r.newRasterizer = func(typeset.FontSource) pageRasterizer { return rz }
	if enc != nil {
		r.encoder = enc
	}
	return r
}

// pages returns a source of n pages.
func pages(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "page"
	}
	return strings.Join(parts, "\n\n#pagebreak()\n\n")
}

func TestRender_PageLimit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pages         int
		wantBlobs     int
		wantMorePages int
	}{
		{pages: 1, wantBlobs: 1, wantMorePages: 0},
		{pages: 5, wantBlobs: 5, wantMorePages: 0},
		{pages: 6, wantBlobs: 5, wantMorePages: 1},
		{pages: 12, wantBlobs: 5, wantMorePages: 7},
	}

	for _, tt := range tests {
		t.Run(strings.Repeat("p", tt.pages), func(t *testing.T) {
			t.Parallel()

			r := newFakeRenderer(&fakeRasterizer{}, &sizedEncoder{sizes: []int{100}})
			out, err := r.Render(context.Background(), Input{Source: pages(tt.pages)})
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if len(out.Blobs) != tt.wantBlobs || out.MorePages != tt.wantMorePages {
				t.Errorf("Render() = %d blobs, %d more, want %d, %d", len(out.Blobs), out.MorePages, tt.wantBlobs, tt.wantMorePages)
			}
			if out.Format != FormatPNG {
				t.Errorf("Format = %v, want png", out.Format)
			}
		})
	}
}

func TestRender_ByteBudget(t *testing.T) {
	t.Parallel()

	enc := &sizedEncoder{sizes: []int{10 * mib, 10 * mib, 10 * mib, 1 * mib, 1 * mib}}
	r := newFakeRenderer(&fakeRasterizer{}, enc)

	out, err := r.Render(context.Background(), Input{Source: pages(5)})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if len(out.Blobs) != 2 {
		t.Errorf("got %d blobs, want 2", len(out.Blobs))
	}
	if out.MorePages != 3 {
		t.Errorf("MorePages = %d, want 3", out.MorePages)
	}
	if enc.calls != 3 {
		t.Errorf("encoder called %d times, want 3", enc.calls)
	}
}

func TestRender_Density(t *testing.T) {
	t.Parallel()

	src := "#set page(width: 100pt, height: 100pt)\n\nx\n\n#pagebreak()\n\n#set page(width: 1000pt, height: 1000pt)\ny\n"
	tests := []struct {
		name    string
		density float64
		want    []float64
	}{
		{name: "default", density: 0, want: []float64{30, 3}},
		{name: "override", density: 500, want: []float64{5, 0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rz := &fakeRasterizer{}
			r := newFakeRenderer(rz, nil)
			if _, err := r.Render(context.Background(), Input{Source: src, Density: tt.density}); err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if len(rz.scales) != len(tt.want) {
				t.Fatalf("scales = %v, want %v", rz.scales, tt.want)
			}
			for i := range tt.want {
				if rz.scales[i] != tt.want[i] {
					t.Errorf("scale[%d] = %v, want %v", i, rz.scales[i], tt.want[i])
				}
			}
		})
	}
}

func TestRender_TooBig(t *testing.T) {
	t.Parallel()

	rz := &fakeRasterizer{}
	r := newFakeRenderer(rz, nil)
	src := "first\n\n#pagebreak()\n\n#set page(width: 40000pt, height: 100pt)\nwide\n"

	_, err := r.Render(context.Background(), Input{Source: src})
	var tb *TooBigError
	if !errors.As(err, &tb) {
		t.Fatalf("Render() error = %v, want *TooBigError", err)
	}
	if tb.Axis != AxisX || tb.Size != 40000 {
		t.Errorf("TooBigError = %+v", tb)
	}
	if len(rz.scales) != 1 {
		t.Errorf("rasterized %d pages before failing, want 1", len(rz.scales))
	}
}

func TestRender_Diagnostics(t *testing.T) {
	t.Parallel()

	r := newFakeRenderer(&fakeRasterizer{}, nil)
	_, err := r.Render(context.Background(), Input{Source: "ok\n#set page(colour: red)\n"})
	if !errors.Is(err, ErrCompile) {
		t.Fatalf("Render() error = %v, want ErrCompile", err)
	}
	msg := err.Error()
	for _, want := range []string{"error: unknown argument `colour` for page", "--> 2:11", "#set page(colour: red)"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error message missing %q:\n%s", want, msg)
		}
	}
}

func TestRender_Warnings(t *testing.T) {
	t.Parallel()

	r := newFakeRenderer(&fakeRasterizer{}, nil)
	out, err := r.Render(context.Background(), Input{Source: "![logo](logo.png)\n"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.Warnings, "warning: image `logo.png` cannot be loaded") {
		t.Errorf("Warnings = %q", out.Warnings)
	}

	out, err = r.Render(context.Background(), Input{Source: "clean"})
	if err != nil {
		t.Fatal(err)
	}
	if out.Warnings != "" {
		t.Errorf("Warnings = %q, want empty", out.Warnings)
	}
}

func TestRender_InvalidDensity(t *testing.T) {
	t.Parallel()

	_, err := NewRenderer().Render(context.Background(), Input{Density: -3})
	if !errors.Is(err, ErrInvalidDensity) {
		t.Errorf("Render() error = %v, want ErrInvalidDensity", err)
	}
}

func TestRender_RasterFailure(t *testing.T) {
	t.Parallel()

	r := newFakeRenderer(&fakeRasterizer{err: errors.New("no memory")}, nil)
	_, err := r.Render(context.Background(), Input{Source: "x"})
	if !errors.Is(err, ErrEncode) {
		t.Errorf("Render() error = %v, want ErrEncode", err)
	}
}

func TestRender_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newFakeRenderer(&fakeRasterizer{}, nil).Render(ctx, Input{Source: "x"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Render() error = %v, want context.Canceled", err)
	}
}

func TestRender_PDF(t *testing.T) {
	t.Parallel()

	rz := &fakeRasterizer{}
	r := newFakeRenderer(rz, nil)
	out, err := r.Render(context.Background(), Input{Source: pages(7), Format: FormatPDF, Density: 100})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if len(out.Blobs) != 1 || out.MorePages != 0 {
		t.Fatalf("Render() = %d blobs, %d more, want 1, 0", len(out.Blobs), out.MorePages)
	}
	if !bytes.HasPrefix(out.Blobs[0], []byte("%PDF-")) {
		t.Error("blob is not a PDF")
	}
	if got := bytes.Count(out.Blobs[0], []byte("/Type /Page ")); got != 7 {
		t.Errorf("PDF has %d pages, want 7", got)
	}
	if len(rz.scales) != 0 {
		t.Error("PDF render rasterized pages")
	}
	if out.Format != FormatPDF {
		t.Errorf("Format = %v, want pdf", out.Format)
	}
}

func TestRender_PDFFailure(t *testing.T) {
	t.Parallel()

	r := NewRenderer()
	r.vector = failingWriter{}
	_, err := r.Render(context.Background(), Input{Source: "x", Format: FormatPDF})
	if !errors.Is(err, ErrCompile) || !strings.Contains(err.Error(), "disk on fire") {
		t.Errorf("Render() error = %v, want a diagnostic error", err)
	}
}

func TestRender_PNG(t *testing.T) {
	t.Parallel()

	src := WithPreamble("# Hello\n\nSmall *page*.", PageSizePreview, ThemeLight)
	out, err := NewRenderer().Render(context.Background(), Input{Source: src, Density: 300})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if len(out.Blobs) != 1 {
		t.Fatalf("got %d blobs, want 1", len(out.Blobs))
	}
	img, format, err := image.Decode(bytes.NewReader(out.Blobs[0]))
	if err != nil || format != "png" {
		t.Fatalf("decoding blob: format %q, err %v", format, err)
	}
	if img.Bounds().Dx() < 100 {
		t.Errorf("image width = %d, want a readable page", img.Bounds().Dx())
	}
}

func TestRender_Concurrent(t *testing.T) {
	t.Parallel()

	r := NewRenderer()
	src := WithPreamble("# Title\n\n```go\nfunc main() {}\n```\n", PageSizeAuto, ThemeDark)

	var wg sync.WaitGroup
	results := make([][]byte, 6)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := r.Render(context.Background(), Input{Source: src, Format: FormatPDF})
			if err != nil {
				t.Errorf("Render() error = %v", err)
				return
			}
			results[i] = out.Blobs[0]
		}()
	}
	wg.Wait()
	for i := 1; i < len(results); i++ {
		if !bytes.Equal(results[0], results[i]) {
			t.Fatalf("render %d differs from render 0", i)
		}
	}
}
