package pipeline

import (
	"strconv"
	"strings"

	"github.com/alnah/go-markrender/internal/diag"
)

// Kind identifies a directive.
type Kind int

const (
	KindSet Kind = iota
	KindImport
	KindPagebreak
)

// String returns the directive keyword.
func (k Kind) String() string {
	switch k {
	case KindSet:
		return "set"
	case KindImport:
		return "import"
	case KindPagebreak:
		return "pagebreak"
	default:
		return "unknown"
	}
}

// keywords maps the word after '#' to a directive kind. Any other word
// leaves the line as ordinary text.
var keywords = map[string]Kind{
	"set":       KindSet,
	"import":    KindImport,
	"pagebreak": KindPagebreak,
}

// Directive is one parsed directive line.
type Directive struct {
	Kind Kind
	// Target is the element name for #set and the module path for #import.
	Target     string
	TargetSpan diag.Span
	Args       []Arg
	// Span covers the whole line, without its newline.
	Span diag.Span
}

// Arg is a named argument of a #set directive. Value is the raw text,
// trimmed; interpretation belongs to the element being set.
type Arg struct {
	Name      string
	NameSpan  diag.Span
	Value     string
	ValueSpan diag.Span
}

// Arg returns the last argument named name.
func (d *Directive) Arg(name string) (Arg, bool) {
	for i := len(d.Args) - 1; i >= 0; i-- {
		if d.Args[i].Name == name {
			return d.Args[i], true
		}
	}
	return Arg{}, false
}

// cursor walks one line; base is the line's offset in the source.
type cursor struct {
	s    string
	i    int
	base int
}

func (c *cursor) eof() bool { return c.i >= len(c.s) }

func (c *cursor) peek() byte {
	if c.eof() {
		return 0
	}
	return c.s[c.i]
}

func (c *cursor) skipSpace() {
	for !c.eof() && (c.s[c.i] == ' ' || c.s[c.i] == '\t') {
		c.i++
	}
}

func (c *cursor) span(from, to int) diag.Span {
	return diag.Span{Start: c.base + from, End: c.base + to}
}

// here is a one byte span at the cursor, or the last byte at end of line.
func (c *cursor) here() diag.Span {
	at := min(c.i, max(len(c.s)-1, 0))
	return c.span(at, at+1)
}

func (c *cursor) ident() string {
	start := c.i
	for !c.eof() && isIdentByte(c.s[c.i], c.i == start) {
		c.i++
	}
	return c.s[start:c.i]
}

func isIdentByte(b byte, first bool) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z':
		return true
	case b >= '0' && b <= '9', b == '-', b == '_':
		return !first
	}
	return false
}

// atEnd reports whether only blanks or a trailing line comment remain.
func (c *cursor) atEnd() bool {
	c.skipSpace()
	return c.eof() || strings.HasPrefix(c.s[c.i:], "//")
}

// keyword returns the directive keyword of line, if it starts with one.
func keyword(line string) (Kind, bool) {
	if !strings.HasPrefix(line, "#") {
		return 0, false
	}
	end := 1
	for end < len(line) && line[end] >= 'a' && line[end] <= 'z' {
		end++
	}
	if end < len(line) && isIdentByte(line[end], false) {
		return 0, false
	}
	kind, ok := keywords[line[1:end]]
	return kind, ok
}

// parseDirective parses a line already known to start with a keyword.
// On a syntax error the directive is discarded and one error is returned.
func parseDirective(kind Kind, line string, base int) (Directive, *diag.Diagnostic) {
	c := &cursor{s: line, base: base}
	c.i = 1 + len(kind.String())
	d := Directive{Kind: kind, Span: c.span(0, len(line))}

	var bad *diag.Diagnostic
	switch kind {
	case KindSet:
		bad = parseSet(c, &d)
	case KindImport:
		bad = parseImport(c, &d)
	case KindPagebreak:
		bad = parsePagebreak(c)
	}
	if bad != nil {
		return Directive{}, bad
	}
	if !c.atEnd() {
		e := diag.Errorf(c.span(c.i, len(line)), "unexpected text after #%s", kind)
		return Directive{}, &e
	}
	return d, nil
}

func parseSet(c *cursor, d *Directive) *diag.Diagnostic {
	c.skipSpace()
	start := c.i
	d.Target = c.ident()
	if d.Target == "" {
		e := diag.Errorf(c.here(), "expected an element name after #set")
		return &e
	}
	d.TargetSpan = c.span(start, c.i)
	c.skipSpace()
	if c.peek() != '(' {
		e := diag.Errorf(c.here(), "expected `(` after #set %s", d.Target)
		return &e
	}
	c.i++
	args, bad := parseArgs(c)
	d.Args = args
	return bad
}

// parseArgs reads "name: value, ..." up to and including the closing ')'.
func parseArgs(c *cursor) ([]Arg, *diag.Diagnostic) {
	var args []Arg
	for {
		c.skipSpace()
		if c.peek() == ')' {
			c.i++
			return args, nil
		}
		if c.eof() {
			e := diag.Errorf(c.here(), "unclosed argument list").WithHint("add `)` at the end of the line")
			return nil, &e
		}
		nameStart := c.i
		name := c.ident()
		if name == "" {
			e := diag.Errorf(c.here(), "expected an argument name").WithHint("arguments are written as `name: value`")
			return nil, &e
		}
		arg := Arg{Name: name, NameSpan: c.span(nameStart, c.i)}
		c.skipSpace()
		if c.peek() != ':' {
			e := diag.Errorf(c.here(), "expected `:` after argument `%s`", name)
			return nil, &e
		}
		c.i++
		c.skipSpace()

		valueStart := c.i
		valueEnd, bad := scanValue(c)
		if bad != nil {
			return nil, bad
		}
		if valueEnd == valueStart {
			e := diag.Errorf(arg.NameSpan, "missing value for `%s`", name)
			return nil, &e
		}
		arg.Value = c.s[valueStart:valueEnd]
		arg.ValueSpan = c.span(valueStart, valueEnd)
		args = append(args, arg)

		if c.peek() == ',' {
			c.i++
		}
	}
}

// scanValue advances to the ',' or ')' ending a value at nesting depth
// zero, skipping over quoted strings. It returns the trimmed value end.
func scanValue(c *cursor) (int, *diag.Diagnostic) {
	depth := 0
	end := c.i
	for !c.eof() {
		switch b := c.s[c.i]; b {
		case '"':
			start := c.i
			if !skipString(c) {
				e := diag.Errorf(c.span(start, len(c.s)), "unterminated string")
				return 0, &e
			}
			end = c.i
			continue
		case '(':
			depth++
		case ')':
			if depth == 0 {
				return end, nil
			}
			depth--
		case ',':
			if depth == 0 {
				return end, nil
			}
		}
		c.i++
		if b := c.s[c.i-1]; b != ' ' && b != '\t' {
			end = c.i
		}
	}
	return end, nil
}

// skipString moves past a double-quoted string starting at the cursor.
func skipString(c *cursor) bool {
	for c.i++; !c.eof(); c.i++ {
		switch c.s[c.i] {
		case '\\':
			c.i++
		case '"':
			c.i++
			return true
		}
	}
	return false
}

func parseImport(c *cursor, d *Directive) *diag.Diagnostic {
	c.skipSpace()
	start := c.i
	if c.peek() != '"' || !skipString(c) {
		e := diag.Errorf(c.here(), "expected a quoted module name after #import").
			WithHint(`for example: #import "@std/slides"`)
		return &e
	}
	path, err := strconv.Unquote(c.s[start:c.i])
	if err != nil {
		e := diag.Errorf(c.span(start, c.i), "invalid string literal")
		return &e
	}
	d.Target = path
	d.TargetSpan = c.span(start, c.i)
	return nil
}

func parsePagebreak(c *cursor) *diag.Diagnostic {
	if c.peek() != '(' {
		return nil
	}
	open := c.i
	c.i++
	c.skipSpace()
	if c.peek() != ')' {
		end := len(c.s)
		if rparen := strings.IndexByte(c.s[c.i:], ')'); rparen >= 0 {
			end = c.i + rparen + 1
		}
		e := diag.Errorf(c.span(open, end), "pagebreak takes no arguments")
		return &e
	}
	c.i++
	return nil
}

// Unquote strips the quotes from a string argument value. ok is false if
// value is not a string literal.
func Unquote(value string) (s string, ok bool) {
	if len(value) < 2 || value[0] != '"' {
		return "", false
	}
	s, err := strconv.Unquote(value)
	return s, err == nil
}
