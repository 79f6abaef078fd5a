package texttable

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/encoding"

	"github.com/brltty-go/bridge"
)

// Loader resolves an `include` directive's argument to source text,
// letting callers back it with a filesystem, an embedded FS, or a map in
// tests.
type Loader interface {
	Load(name string) (string, error)
}

// Compile parses a declarative text table (spec §4.1) and returns an
// immutable Table. name identifies the root source for error locations
// and for include-cycle detection; loader resolves `include` arguments.
func Compile(loader Loader, name, source string) (*Table, error) {
	t := newTable()
	c := &compiler{table: t, loader: loader, seen: map[string]bool{name: true}}
	if err := c.compileSource(name, source); err != nil {
		return nil, err
	}
	return t, nil
}

type compiler struct {
	table  *Table
	loader Loader
	seen   map[string]bool // include-cycle guard
}

type compileError struct {
	source string
	line   int
	msg    string
}

func (e *compileError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.source, e.line, e.msg)
}

func (c *compiler) errf(source string, line int, format string, args ...any) error {
	return bridge.NewError(bridge.KindInput, "texttable.compile",
		&compileError{source: source, line: line, msg: fmt.Sprintf(format, args...)})
}

func (c *compiler) compileSource(source, text string) error {
	scanner := bufio.NewScanner(strings.NewReader(text))
	lineNo := 0
	// pendingGuard holds a one-line conditional (ifglyph/ifnotglyph/
	// ifinput/ifnotinput) that applies only to the directive
	// immediately following it (this module's resolution of the
	// otherwise-unspecified scoping of these directives).
	var pendingGuard func() bool
	for scanner.Scan() {
		lineNo++
		line := stripComment(scanner.Text())
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		directive := strings.ToLower(fields[0])
		args := fields[1:]

		if guard, ok := conditionalDirective(directive); ok {
			if len(args) != 1 {
				return c.errf(source, lineNo, "%s requires one argument", directive)
			}
			ch, err := parseCharLiteral(args[0])
			if err != nil {
				return c.errf(source, lineNo, "%s: %v", directive, err)
			}
			pendingGuard = func() bool { return guard(c.table, ch) }
			continue
		}

		apply := true
		if pendingGuard != nil {
			apply = pendingGuard()
			pendingGuard = nil
		}

		switch directive {
		case "include":
			if !apply {
				continue
			}
			if len(args) != 1 {
				return c.errf(source, lineNo, "include requires one argument")
			}
			if err := c.include(source, lineNo, args[0]); err != nil {
				return err
			}
		case "char", "glyph", "input":
			if len(args) != 2 {
				return c.errf(source, lineNo, "%s requires a character and a cell", directive)
			}
			if !apply {
				continue
			}
			ch, err := parseCharLiteral(args[0])
			if err != nil {
				return c.errf(source, lineNo, "%v", err)
			}
			cell, isNone, err := parseCell(args[1])
			if err != nil {
				return c.errf(source, lineNo, "%v", err)
			}
			if isNone {
				continue
			}
			if e, ok := c.table.lookup(ch); ok && !e.aliased {
				return c.errf(source, lineNo, "duplicate definition for %q", ch)
			}
			c.table.insert(ch, cell, false)
			if directive != "input" {
				c.table.byCell[cell] = ch
				c.table.cellKnown[cell] = true
			}
		case "byte":
			if len(args) != 2 {
				return c.errf(source, lineNo, "byte requires a byte value and a cell")
			}
			if !apply {
				continue
			}
			b, err := parseByteLiteral(args[0])
			if err != nil {
				return c.errf(source, lineNo, "%v", err)
			}
			cell, isNone, err := parseCell(args[1])
			if err != nil {
				return c.errf(source, lineNo, "%v", err)
			}
			if isNone {
				continue
			}
			ch, err := decodeLegacyByte(b)
			if err != nil {
				return c.errf(source, lineNo, "%v", err)
			}
			c.table.insert(ch, cell, false)
			c.table.byCell[cell] = ch
			c.table.cellKnown[cell] = true
		case "alias":
			if len(args) != 2 {
				return c.errf(source, lineNo, "alias requires from and to characters")
			}
			if !apply {
				continue
			}
			from, err := parseCharLiteral(args[0])
			if err != nil {
				return c.errf(source, lineNo, "%v", err)
			}
			to, err := parseCharLiteral(args[1])
			if err != nil {
				return c.errf(source, lineNo, "%v", err)
			}
			c.table.aliases[from] = to
		default:
			return c.errf(source, lineNo, "unsupported directive %q", fields[0])
		}
	}
	return nil
}

func (c *compiler) include(source string, line int, name string) error {
	if c.seen[name] {
		return c.errf(source, line, "include cycle at %q", name)
	}
	c.seen[name] = true
	if c.loader == nil {
		return c.errf(source, line, "include %q: no loader configured", name)
	}
	text, err := c.loader.Load(name)
	if err != nil {
		return c.errf(source, line, "include %q: %v", name, err)
	}
	return c.compileSource(name, text)
}

func conditionalDirective(directive string) (func(*Table, rune) bool, bool) {
	switch directive {
	case "ifglyph":
		return func(t *Table, ch rune) bool { return t.IsDefined(ch) }, true
	case "ifnotglyph":
		return func(t *Table, ch rune) bool { return !t.IsDefined(ch) }, true
	case "ifinput":
		return func(t *Table, ch rune) bool { return t.IsDefined(ch) }, true
	case "ifnotinput":
		return func(t *Table, ch rune) bool { return !t.IsDefined(ch) }, true
	default:
		return nil, false
	}
}

func stripComment(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		return line[:i]
	}
	return line
}

// parseCharLiteral accepts 'A' (single-quoted rune), U+0041, 0x41 or a
// bare decimal code point.
func parseCharLiteral(tok string) (rune, error) {
	if len(tok) >= 3 && tok[0] == '\'' && tok[len(tok)-1] == '\'' {
		runes := []rune(tok[1 : len(tok)-1])
		if len(runes) != 1 {
			return 0, fmt.Errorf("invalid character literal %q", tok)
		}
		return runes[0], nil
	}
	v, err := parseIntLiteral(tok)
	if err != nil {
		return 0, fmt.Errorf("invalid character literal %q: %w", tok, err)
	}
	return rune(v), nil
}

func parseByteLiteral(tok string) (byte, error) {
	v, err := parseIntLiteral(tok)
	if err != nil || v < 0 || v > 0xFF {
		return 0, fmt.Errorf("invalid byte literal %q", tok)
	}
	return byte(v), nil
}

func parseIntLiteral(tok string) (int64, error) {
	switch {
	case strings.HasPrefix(tok, "U+") || strings.HasPrefix(tok, "u+"):
		return strconv.ParseInt(tok[2:], 16, 32)
	case strings.HasPrefix(tok, "0x") || strings.HasPrefix(tok, "0X"):
		return strconv.ParseInt(tok[2:], 16, 32)
	default:
		return strconv.ParseInt(tok, 10, 32)
	}
}

// parseCell parses a dot-number list ("1-3-5"), "(0)" for the explicitly
// empty cell, or "0" for "no mapping" (isNone=true).
func parseCell(tok string) (cell bridge.BrailleCell, isNone bool, err error) {
	if tok == "0" {
		return 0, true, nil
	}
	if tok == "(0)" {
		return 0, false, nil
	}
	if len(tok) >= 2 && tok[0] == '(' && tok[len(tok)-1] == ')' {
		tok = tok[1 : len(tok)-1]
	}
	for _, part := range strings.Split(tok, "-") {
		n, err := strconv.Atoi(part)
		if err != nil || n < 1 || n > 8 {
			return 0, false, fmt.Errorf("invalid dot number in cell %q", tok)
		}
		cell |= bridge.BrailleCell(1 << uint(n-1))
	}
	return cell, false, nil
}

// decodeLegacyByte decodes a single byte of a legacy 8-bit code page
// into a Unicode rune, using gdamore/encoding's ISO-8859-1 charmap as
// the table compiler's reference code page. `byte` directives addressing
// another code page should instead use an `include`d table expressed
// with `char`/U+ literals.
func decodeLegacyByte(b byte) (rune, error) {
	dec := encoding.ISO8859_1.NewDecoder()
	out, err := dec.Bytes([]byte{b})
	if err != nil || len(out) == 0 {
		return 0, fmt.Errorf("cannot decode byte 0x%02x", b)
	}
	r, _ := decodeFirstRune(out)
	return r, nil
}

func decodeFirstRune(b []byte) (rune, int) {
	for _, r := range string(b) {
		return r, len(string(r))
	}
	return 0, 0
}
