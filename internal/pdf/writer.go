package pdf

import (
	"bytes"
	"compress/zlib"
	"errors"
	"fmt"
	"math"
	"strconv"

	"golang.org/x/image/font/opentype"

	"github.com/alnah/go-markrender/internal/assets"
	"github.com/alnah/go-markrender/internal/typeset"
)

// Version is the PDF version written in the header.
const Version = "1.7"

const producer = "markrender"

// ErrNoPages indicates a document without pages.
var ErrNoPages = errors.New("document has no pages")

// Fonts supplies parsed fonts for measuring and raw font programs for
// embedding. *assets.FontBook implements it.
type Fonts interface {
	Font(v assets.Variant) (*opentype.Font, error)
	Data(v assets.Variant) []byte
}

// writer collects numbered objects. Numbers are 1-based and may be
// reserved before their body is known.
type writer struct {
	objects [][]byte
}

func (w *writer) reserve() int {
	w.objects = append(w.objects, nil)
	return len(w.objects)
}

func (w *writer) set(num int, body []byte) {
	w.objects[num-1] = body
}

func (w *writer) add(body []byte) int {
	num := w.reserve()
	w.set(num, body)
	return num
}

// stream adds a Flate-compressed stream object. extra is inserted into
// the stream dictionary.
func (w *writer) stream(data []byte, extra string) (int, error) {
	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return 0, err
	}
	if _, err := zw.Write(data); err != nil {
		return 0, err
	}
	if err := zw.Close(); err != nil {
		return 0, err
	}

	var obj bytes.Buffer
	fmt.Fprintf(&obj, "<< /Length %d /Filter /FlateDecode%s >>\nstream\n", buf.Len(), extra)
	obj.Write(buf.Bytes())
	obj.WriteString("\nendstream")
	return w.add(obj.Bytes()), nil
}

// bytes serializes the file: header, objects, xref table and trailer.
func (w *writer) bytes(root, info int) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%%PDF-%s\n", Version)
	buf.WriteString("%\xE2\xE3\xCF\xD3\n")

	offsets := make([]int, len(w.objects))
	for i, obj := range w.objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n", i+1)
		buf.Write(obj)
		buf.WriteString("\nendobj\n")
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(w.objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root %d 0 R /Info %d 0 R >>\n", len(w.objects)+1, root, info)
	fmt.Fprintf(&buf, "startxref\n%d\n%%%%EOF\n", xref)
	return buf.Bytes()
}

// Write serializes doc. Text is measured with fonts so glyph widths match
// the layout.
func Write(doc *typeset.Document, fonts Fonts) ([]byte, error) {
	if doc == nil || len(doc.Pages) == 0 {
		return nil, ErrNoPages
	}

	var w writer
	catalog := w.reserve()
	pagesNum := w.reserve()

	m := typeset.NewMeasurer(fonts)
	used := make(map[assets.Variant]*fontUse)
	var order []*fontUse
	for _, v := range doc.Variants() {
		fu := &fontUse{variant: v, name: fmt.Sprintf("F%d", len(order)), num: w.reserve(), glyphs: make(map[uint16]glyph)}
		used[v] = fu
		order = append(order, fu)
	}

	kids := make([]int, 0, len(doc.Pages))
	for i, page := range doc.Pages {
		c := newContent(page.Size.H)
		c.page(page, m, used)
		if err := m.Err(); err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		contents, err := w.stream(c.buf.Bytes(), "")
		if err != nil {
			return nil, fmt.Errorf("page %d: compressing contents: %w", i+1, err)
		}

		var res bytes.Buffer
		res.WriteString("<< /Font <<")
		for _, fu := range order {
			fmt.Fprintf(&res, " /%s %d 0 R", fu.name, fu.num)
		}
		res.WriteString(" >>")
		if len(c.alphas) > 0 {
			res.WriteString(" /ExtGState <<")
			for _, a := range c.alphaOrder {
				fmt.Fprintf(&res, " /%s << /Type /ExtGState /ca %s /CA %s >>", c.alphas[a], num(float64(a)/255), num(float64(a)/255))
			}
			res.WriteString(" >>")
		}
		res.WriteString(" >>")

		kids = append(kids, w.add(fmt.Appendf(nil,
			"<< /Type /Page /Parent %d 0 R /MediaBox [0 0 %s %s] /Resources %s /Contents %d 0 R >>",
			pagesNum, num(page.Size.W), num(page.Size.H), res.Bytes(), contents)))
	}

	for _, fu := range order {
		if err := fu.write(&w, fonts, m); err != nil {
			return nil, fmt.Errorf("embedding %s font: %w", fu.variant, err)
		}
	}

	var kidsArr bytes.Buffer
	for i, k := range kids {
		if i > 0 {
			kidsArr.WriteByte(' ')
		}
		fmt.Fprintf(&kidsArr, "%d 0 R", k)
	}
	w.set(pagesNum, fmt.Appendf(nil, "<< /Type /Pages /Kids [%s] /Count %d >>", kidsArr.Bytes(), len(kids)))
	w.set(catalog, fmt.Appendf(nil, "<< /Type /Catalog /Pages %d 0 R >>", pagesNum))
	info := w.add(fmt.Appendf(nil, "<< /Producer (%s) >>", producer))

	return w.bytes(catalog, info), nil
}

// num formats a coordinate with at most three decimals.
func num(f float64) string {
	v := math.Round(f*1000) / 1000
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
