package dump

import (
	"fmt"
	"strings"
)

// previewLen bounds how much of an offending statement an error message quotes
const previewLen = 60

// Preview returns a short single-line fragment of a statement suitable
// for inclusion in error messages.
func Preview(statement string) string {
	s := strings.Join(strings.Fields(statement), " ")
	if len(s) > previewLen {
		s = s[:previewLen] + "..."
	}
	return s
}

// MalformedDumpError reports dump text that cannot be split into
// statements, typically an unterminated string literal or comment.
type MalformedDumpError struct {
	Line   int // line where the offending construct started
	Reason string
}

func (e *MalformedDumpError) Error() string {
	return fmt.Sprintf("malformed dump at line %d: %s", e.Line, e.Reason)
}

// SchemaParseError reports a CREATE TABLE statement that does not match
// the expected shape, or a duplicate table definition.
type SchemaParseError struct {
	Table     string // empty when the name itself could not be read
	Line      int
	Statement string // leading fragment of the offending statement
	Reason    string
}

func (e *SchemaParseError) Error() string {
	var parts []string
	if e.Table != "" {
		parts = append(parts, fmt.Sprintf("cannot parse schema for table %q", e.Table))
	} else {
		parts = append(parts, "cannot parse CREATE TABLE statement")
	}
	parts = append(parts, fmt.Sprintf("at line %d", e.Line))
	if e.Reason != "" {
		parts = append(parts, e.Reason)
	}
	if e.Statement != "" {
		parts = append(parts, fmt.Sprintf("in %q", Preview(e.Statement)))
	}
	return strings.Join(parts, ": ")
}

// RowParseError reports an INSERT tuple that cannot be converted into a
// row, either an arity mismatch against the table's schema or an
// unparseable literal.
type RowParseError struct {
	Table  string
	Line   int
	Tuple  int // 0-based position in the VALUES list, -1 if unknown
	Reason string
}

func (e *RowParseError) Error() string {
	var parts []string
	if e.Table != "" {
		parts = append(parts, fmt.Sprintf("cannot parse rows for table %q at line %d", e.Table, e.Line))
	} else {
		parts = append(parts, fmt.Sprintf("cannot parse INSERT statement at line %d", e.Line))
	}
	if e.Tuple >= 0 {
		parts = append(parts, fmt.Sprintf("tuple %d", e.Tuple+1))
	}
	if e.Reason != "" {
		parts = append(parts, e.Reason)
	}
	return strings.Join(parts, ": ")
}

// UnknownTableError reports an INSERT referencing a table with no prior
// CREATE TABLE in the dump. mysqldump always emits the definition first,
// so this is an input-ordering problem, not something to tolerate.
type UnknownTableError struct {
	Table string
	Line  int
}

func (e *UnknownTableError) Error() string {
	return fmt.Sprintf("INSERT into unknown table %q at line %d: no prior CREATE TABLE in dump", e.Table, e.Line)
}

// OutputWriteError reports a filesystem failure while producing a CSV
// file. All output errors are fatal; there is no partial success.
type OutputWriteError struct {
	Table string
	Path  string
	Err   error
}

func (e *OutputWriteError) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("cannot write output for table %q (%s): %v", e.Table, e.Path, e.Err)
	}
	return fmt.Sprintf("cannot write output (%s): %v", e.Path, e.Err)
}

func (e *OutputWriteError) Unwrap() error {
	return e.Err
}
