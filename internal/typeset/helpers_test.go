package typeset

import (
	"fmt"
	"strings"

	"golang.org/x/image/font/opentype"

	"github.com/alnah/go-markrender/internal/assets"
	"github.com/alnah/go-markrender/internal/diag"
)

// testWorld serves the embedded library and fonts over a source string.
type testWorld struct {
	src string
}

func (w testWorld) Main() Source {
	return Source{Text: w.src, Map: diag.NewSourceMap(w.src)}
}

func (w testWorld) File(path string) ([]byte, error) {
	if strings.Contains(path, "://") {
		return nil, fmt.Errorf("%w: %s", ErrNetworkDenied, path)
	}
	name, ok := strings.CutPrefix(path, stdPrefix)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAccessDenied, path)
	}
	src, err := assets.Default().Module(name)
	if err != nil {
		return nil, err
	}
	return []byte(src), nil
}

func (w testWorld) Font(v assets.Variant) (*opentype.Font, error) {
	return assets.DefaultFontBook().Font(v)
}

func (w testWorld) Library() *assets.Library {
	return assets.Default()
}

func compile(src string) *Result {
	return Compile(testWorld{src: src})
}

// texts returns the text of every Text item on p, in paint order.
func texts(p *Page) []string {
	var out []string
	for _, it := range p.Items {
		if t, ok := it.(*Text); ok {
			out = append(out, t.Text)
		}
	}
	return out
}

func joined(p *Page) string {
	return strings.Join(texts(p), " ")
}
