package pipeline

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/alnah/go-markrender/internal/diag"
)

// crlfOrCR matches Windows and classic Mac line endings.
var crlfOrCR = regexp.MustCompile(`\r\n?`)

// NormalizeLineEndings converts \r\n and \r to \n.
func NormalizeLineEndings(content string) string {
	if !strings.Contains(content, "\r") {
		return content
	}
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// Unit is a parsed source file.
type Unit struct {
	// Body is the source with directive and comment lines blanked. It has
	// the same length as the source, and the syntax tree points into it.
	Body []byte
	// Root is the Markdown document node.
	Root ast.Node
	// Directives are in source order.
	Directives []Directive
	// Diagnostics holds directive syntax errors.
	Diagnostics []diag.Diagnostic
}

// Parser parses source text. A Parser is safe for concurrent use.
type Parser struct {
	md goldmark.Markdown
}

// NewParser creates a Parser with GFM extensions: tables, strikethrough,
// autolinks and task lists.
func NewParser() *Parser {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
	)
	return &Parser{md: md}
}

// Parse splits src into directives and a Markdown tree. src must already
// have normalized line endings.
func (p *Parser) Parse(src string) *Unit {
	u := &Unit{Body: []byte(src)}
	var fence fenceState

	for start := 0; start < len(src); {
		end := strings.IndexByte(src[start:], '\n')
		if end < 0 {
			end = len(src)
		} else {
			end += start
		}
		line := src[start:end]

		switch {
		case fence.update(line):
			// Code block content is never a directive.
		case strings.HasPrefix(line, "//"):
			blank(u.Body[start:end])
		default:
			if kind, ok := keyword(line); ok {
				d, bad := parseDirective(kind, line, start)
				if bad != nil {
					u.Diagnostics = append(u.Diagnostics, *bad)
				} else {
					u.Directives = append(u.Directives, d)
				}
				blank(u.Body[start:end])
			}
		}
		start = end + 1
	}

	u.Root = p.md.Parser().Parse(text.NewReader(u.Body))
	return u
}

func blank(b []byte) {
	for i := range b {
		b[i] = ' '
	}
}

// fenceState tracks whether the scanner is inside a fenced code block.
type fenceState struct {
	char byte
	size int
}

// update consumes line and reports whether it belongs to a fenced code
// block, including the opening and closing fence lines.
func (f *fenceState) update(line string) bool {
	char, size, rest := fenceOf(line)
	if f.size > 0 {
		if char == f.char && size >= f.size && strings.TrimSpace(rest) == "" {
			f.size = 0
		}
		return true
	}
	if size == 0 || (char == '`' && strings.ContainsRune(rest, '`')) {
		return false
	}
	f.char, f.size = char, size
	return true
}

// fenceOf returns the fence character and run length that start line, after
// at most three spaces of indentation, or size 0 if there is none.
func fenceOf(line string) (char byte, size int, rest string) {
	indent := 0
	for indent < len(line) && indent < 3 && line[indent] == ' ' {
		indent++
	}
	line = line[indent:]
	if line == "" || (line[0] != '`' && line[0] != '~') {
		return 0, 0, ""
	}
	char = line[0]
	for size < len(line) && line[size] == char {
		size++
	}
	if size < 3 {
		return 0, 0, ""
	}
	return char, size, line[size:]
}
