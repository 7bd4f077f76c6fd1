package parser

import (
	"strings"

	"github.com/leengari/dumpcsv/internal/dump"
	"github.com/leengari/dumpcsv/internal/scan"
)

// constraintLeaders are the first words of table-level definitions that
// are not columns. A bare first word matching one of these means the
// whole definition is skipped; a quoted identifier is always a column,
// so `key` the column survives while KEY the index does not.
var constraintLeaders = map[string]bool{
	"CONSTRAINT": true,
	"PRIMARY":    true,
	"FOREIGN":    true,
	"UNIQUE":     true,
	"KEY":        true,
	"INDEX":      true,
	"FULLTEXT":   true,
	"SPATIAL":    true,
	"CHECK":      true,
}

// ParseCreateTable extracts the table name and ordered column names from
// a CREATE TABLE statement.
func ParseCreateTable(stmt scan.Statement) (*dump.Table, error) {
	c := &cursor{s: stmt.Text}

	if !c.keyword("CREATE") || !c.keyword("TABLE") {
		return nil, schemaErr("", stmt, "statement is not CREATE TABLE")
	}
	if c.keyword("IF") {
		if !c.keyword("NOT") || !c.keyword("EXISTS") {
			return nil, schemaErr("", stmt, "expected IF NOT EXISTS")
		}
	}

	name, _, ok := c.identifier()
	if !ok {
		return nil, schemaErr("", stmt, "missing table name")
	}

	if !c.consume('(') {
		return nil, schemaErr(name, stmt, "missing column definition list")
	}
	body, ok := c.parenBody()
	if !ok {
		return nil, schemaErr(name, stmt, "unbalanced parentheses in column definition list")
	}

	var columns []string
	for _, def := range splitTopLevel(body, ',') {
		def = strings.TrimSpace(def)
		if def == "" {
			continue
		}
		dc := &cursor{s: def}
		colName, quoted, ok := dc.identifier()
		if !ok {
			return nil, schemaErr(name, stmt, "cannot read column name in "+strings.Fields(def)[0])
		}
		if !quoted && constraintLeaders[strings.ToUpper(colName)] {
			continue
		}
		columns = append(columns, colName)
	}
	if len(columns) == 0 {
		return nil, schemaErr(name, stmt, "no columns found")
	}

	return &dump.Table{Name: name, Columns: columns, Line: stmt.Line}, nil
}

func schemaErr(table string, stmt scan.Statement, reason string) *dump.SchemaParseError {
	return &dump.SchemaParseError{
		Table:     table,
		Line:      stmt.Line,
		Statement: stmt.Text,
		Reason:    reason,
	}
}
