// Package parser extracts table schemas and row tuples from the
// statements produced by the scan package.
//
// Only the two statement shapes a dump conversion needs are parsed:
// CREATE TABLE for column order and INSERT/REPLACE INTO for data.
// Everything else (SET, LOCK TABLES, DROP TABLE, ...) is classified as
// Other and skipped by the pipeline.
package parser

import "strings"

type StatementKind int

const (
	KindOther StatementKind = iota
	KindCreateTable
	KindInsert
)

// Classify decides how a statement should be handled. REPLACE INTO is
// grammatically identical to INSERT INTO in a dump and is treated the
// same way.
func Classify(text string) StatementKind {
	c := &cursor{s: text}
	switch {
	case c.keyword("CREATE"):
		if c.keyword("TABLE") {
			return KindCreateTable
		}
	case c.keyword("INSERT"), c.keyword("REPLACE"):
		return KindInsert
	}
	return KindOther
}

// cursor is a small consuming reader over one statement's text
type cursor struct {
	s   string
	pos int
}

func (c *cursor) skipSpace() {
	for c.pos < len(c.s) && isSpace(c.s[c.pos]) {
		c.pos++
	}
}

func (c *cursor) eof() bool {
	c.skipSpace()
	return c.pos >= len(c.s)
}

// keyword consumes word if it appears next, case-insensitively and on a
// word boundary
func (c *cursor) keyword(word string) bool {
	c.skipSpace()
	end := c.pos + len(word)
	if end > len(c.s) {
		return false
	}
	if !strings.EqualFold(c.s[c.pos:end], word) {
		return false
	}
	if end < len(c.s) && isWordByte(c.s[end]) {
		return false
	}
	c.pos = end
	return true
}

// consume eats b if it is the next non-space byte
func (c *cursor) consume(b byte) bool {
	c.skipSpace()
	if c.pos < len(c.s) && c.s[c.pos] == b {
		c.pos++
		return true
	}
	return false
}

// identifier reads the next identifier: backtick-quoted, double-quoted
// (ANSI_QUOTES dumps) or bare. Qualified names like `db`.`tbl` collapse
// to their final component. quoted reports whether any component was
// quoted, which callers use to tell a column named "key" from the KEY
// constraint keyword.
func (c *cursor) identifier() (name string, quoted bool, ok bool) {
	for {
		part, partQuoted, partOK := c.identifierPart()
		if !partOK {
			return "", false, false
		}
		name = part
		quoted = quoted || partQuoted
		if c.pos < len(c.s) && c.s[c.pos] == '.' {
			c.pos++
			continue
		}
		return name, quoted, true
	}
}

func (c *cursor) identifierPart() (string, bool, bool) {
	c.skipSpace()
	if c.pos >= len(c.s) {
		return "", false, false
	}
	switch q := c.s[c.pos]; q {
	case '`', '"':
		end, ok := skipLiteral(c.s, c.pos)
		if !ok {
			return "", false, false
		}
		inner := c.s[c.pos+1 : end-1]
		inner = strings.ReplaceAll(inner, string([]byte{q, q}), string(q))
		c.pos = end
		return inner, true, inner != ""
	default:
		start := c.pos
		for c.pos < len(c.s) && isWordByte(c.s[c.pos]) {
			c.pos++
		}
		if c.pos == start {
			return "", false, false
		}
		return c.s[start:c.pos], false, true
	}
}

// parenBody consumes a parenthesized group whose opening paren has
// already been eaten and returns the text between the parens. Nested
// parens (DECIMAL(10,2), ENUM('a','b')) and quoted content are respected.
func (c *cursor) parenBody() (string, bool) {
	depth := 1
	start := c.pos
	for c.pos < len(c.s) {
		switch c.s[c.pos] {
		case '\'', '"', '`':
			end, ok := skipLiteral(c.s, c.pos)
			if !ok {
				return "", false
			}
			c.pos = end
		case '(':
			depth++
			c.pos++
		case ')':
			depth--
			c.pos++
			if depth == 0 {
				return c.s[start : c.pos-1], true
			}
		default:
			c.pos++
		}
	}
	return "", false
}

// rest returns the unconsumed remainder of the statement
func (c *cursor) rest() string {
	return strings.TrimSpace(c.s[c.pos:])
}

// skipLiteral steps over the quoted literal opening at s[i] and returns
// the index just past its closing quote. Backslash escapes are honored
// for ' and " but not for backticks; a doubled quote is an escaped quote
// in all three forms.
func skipLiteral(s string, i int) (int, bool) {
	q := s[i]
	i++
	for i < len(s) {
		c := s[i]
		switch {
		case c == '\\' && q != '`':
			i += 2
		case c == q:
			if i+1 < len(s) && s[i+1] == q {
				i += 2
				continue
			}
			return i + 1, true
		default:
			i++
		}
	}
	return i, false
}

// splitTopLevel splits s on sep, ignoring separators nested inside
// parentheses or quoted literals
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	start := 0
	i := 0
	for i < len(s) {
		switch s[i] {
		case '\'', '"', '`':
			end, ok := skipLiteral(s, i)
			if !ok {
				i = len(s)
				continue
			}
			i = end
		case '(':
			depth++
			i++
		case ')':
			depth--
			i++
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
			i++
		default:
			i++
		}
	}
	parts = append(parts, s[start:])
	return parts
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isWordByte(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' || c == '_' || c == '$'
}
