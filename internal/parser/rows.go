package parser

import (
	"fmt"
	"strings"

	"github.com/leengari/dumpcsv/internal/dump"
	"github.com/leengari/dumpcsv/internal/scan"
)

// Insert holds the rows extracted from one INSERT or REPLACE statement
type Insert struct {
	Table   string
	Columns []string // explicit column list, nil when the dump omits it
	Rows    []dump.Row
	Line    int
}

// ParseInsert extracts the target table and ordered value tuples from an
// INSERT INTO ... VALUES (...), (...) statement. Tuple elements are
// classified as NULL, number (original text preserved) or string
// (escapes resolved, outer quotes stripped).
func ParseInsert(stmt scan.Statement) (*Insert, error) {
	c := &cursor{s: stmt.Text}

	if !c.keyword("INSERT") && !c.keyword("REPLACE") {
		return nil, rowErr("", stmt, -1, "statement is not INSERT or REPLACE")
	}
	c.keyword("IGNORE") // INSERT IGNORE shows up in --insert-ignore dumps
	if !c.keyword("INTO") {
		return nil, rowErr("", stmt, -1, "expected INTO")
	}

	name, _, ok := c.identifier()
	if !ok {
		return nil, rowErr("", stmt, -1, "missing table name")
	}

	ins := &Insert{Table: name, Line: stmt.Line}

	// --complete-insert dumps spell out the column list
	if c.consume('(') {
		body, ok := c.parenBody()
		if !ok {
			return nil, rowErr(name, stmt, -1, "unbalanced parentheses in column list")
		}
		for _, part := range splitTopLevel(body, ',') {
			pc := &cursor{s: part}
			col, _, ok := pc.identifier()
			if !ok || !pc.eof() {
				return nil, rowErr(name, stmt, -1, fmt.Sprintf("cannot read column name %q", strings.TrimSpace(part)))
			}
			ins.Columns = append(ins.Columns, col)
		}
	}

	if !c.keyword("VALUES") && !c.keyword("VALUE") {
		return nil, rowErr(name, stmt, -1, "expected VALUES")
	}

	for {
		if !c.consume('(') {
			return nil, rowErr(name, stmt, len(ins.Rows), "expected a parenthesized tuple")
		}
		body, ok := c.parenBody()
		if !ok {
			return nil, rowErr(name, stmt, len(ins.Rows), "unbalanced parentheses in tuple")
		}

		parts := splitTopLevel(body, ',')
		row := make(dump.Row, 0, len(parts))
		for _, part := range parts {
			val, err := classifyValue(part)
			if err != nil {
				return nil, rowErr(name, stmt, len(ins.Rows), err.Error())
			}
			row = append(row, val)
		}
		ins.Rows = append(ins.Rows, row)

		if c.consume(',') {
			continue
		}
		break
	}

	if !c.eof() {
		return nil, rowErr(name, stmt, -1, fmt.Sprintf("unexpected trailing text %q", dump.Preview(c.rest())))
	}
	if len(ins.Rows) == 0 {
		return nil, rowErr(name, stmt, -1, "empty VALUES list")
	}
	return ins, nil
}

// classifyValue turns one raw tuple element into a Value
func classifyValue(raw string) (dump.Value, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return dump.Value{}, fmt.Errorf("empty value")
	}
	if strings.EqualFold(v, "NULL") {
		return dump.Null(), nil
	}
	if v[0] == '\'' || v[0] == '"' {
		q := v[0]
		if len(v) < 2 || v[len(v)-1] != q {
			return dump.Value{}, fmt.Errorf("unterminated string %s", dump.Preview(v))
		}
		return dump.String(unescape(v[1:len(v)-1], q)), nil
	}
	if isNumericLiteral(v) {
		return dump.Number(v), nil
	}
	return dump.Value{}, fmt.Errorf("unparseable literal %q", dump.Preview(v))
}

// isNumericLiteral accepts the numeric forms mysqldump emits: optional
// sign, digits with optional fraction, optional exponent
func isNumericLiteral(s string) bool {
	if s == "" {
		return false
	}
	i := 0
	if s[i] == '+' || s[i] == '-' {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return false
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		expDigits := 0
		for i < len(s) && isDigit(s[i]) {
			i++
			expDigits++
		}
		if expDigits == 0 {
			return false
		}
	}
	return i == len(s)
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func rowErr(table string, stmt scan.Statement, tuple int, reason string) *dump.RowParseError {
	return &dump.RowParseError{
		Table:  table,
		Line:   stmt.Line,
		Tuple:  tuple,
		Reason: reason,
	}
}
