package scan

import (
	"errors"
	"strings"
	"testing"

	"github.com/leengari/dumpcsv/internal/dump"
)

func TestScanStatements(t *testing.T) {
	input := `-- mysqldump header
CREATE TABLE users (id INT);
INSERT INTO users VALUES (1, 'a;b');
# trailing comment
INSERT INTO users VALUES (2, "x;y");
`

	tests := []struct {
		text string
		line int
	}{
		{"CREATE TABLE users (id INT)", 2},
		{"INSERT INTO users VALUES (1, 'a;b')", 3},
		{`INSERT INTO users VALUES (2, "x;y")`, 5},
	}

	s := New(input)
	for i, tt := range tests {
		if !s.Scan() {
			t.Fatalf("tests[%d] - Scan returned false, err=%v", i, s.Err())
		}
		got := s.Statement()
		if got.Text != tt.text {
			t.Fatalf("tests[%d] - text wrong. expected=%q, got=%q", i, tt.text, got.Text)
		}
		if got.Line != tt.line {
			t.Fatalf("tests[%d] - line wrong. expected=%d, got=%d", i, tt.line, got.Line)
		}
	}
	if s.Scan() {
		t.Fatalf("expected end of input, got %q", s.Statement().Text)
	}
	if err := s.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestScanQuotedSemicolons(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"single quotes", `INSERT INTO t VALUES ('a;b');`, `INSERT INTO t VALUES ('a;b')`},
		{"double quotes", `INSERT INTO t VALUES ("a;b");`, `INSERT INTO t VALUES ("a;b")`},
		{"backticks", "CREATE TABLE `odd;name` (id INT);", "CREATE TABLE `odd;name` (id INT)"},
		{"escaped quote then semicolon", `INSERT INTO t VALUES ('it\'s; fine');`, `INSERT INTO t VALUES ('it\'s; fine')`},
		{"doubled quote then semicolon", `INSERT INTO t VALUES ('it''s; fine');`, `INSERT INTO t VALUES ('it''s; fine')`},
		{"escaped backslash before close", `INSERT INTO t VALUES ('c:\\');`, `INSERT INTO t VALUES ('c:\\')`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.input)
			if !s.Scan() {
				t.Fatalf("Scan returned false, err=%v", s.Err())
			}
			if got := s.Statement().Text; got != tt.want {
				t.Fatalf("text wrong. expected=%q, got=%q", tt.want, got)
			}
			if s.Scan() {
				t.Fatalf("expected a single statement, got another: %q", s.Statement().Text)
			}
		})
	}
}

func TestScanComments(t *testing.T) {
	input := "/*!40101 SET NAMES utf8 */;\n" +
		"CREATE TABLE t (id INT); -- inline note\n" +
		"SELECT 1 /* block; with ; semicolons */ + 1;\n"

	s := New(input)

	var texts []string
	for s.Scan() {
		texts = append(texts, s.Statement().Text)
	}
	if err := s.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The conditional comment statement reduces to nothing and is dropped
	want := []string{
		"CREATE TABLE t (id INT)",
		"SELECT 1   + 1",
	}
	if len(texts) != len(want) {
		t.Fatalf("statement count wrong. expected=%d, got=%d (%q)", len(want), len(texts), texts)
	}
	for i := range want {
		if texts[i] != want[i] {
			t.Fatalf("texts[%d] wrong. expected=%q, got=%q", i, want[i], texts[i])
		}
	}
}

func TestScanDashesInsideExpression(t *testing.T) {
	// A double dash without trailing whitespace is not a comment
	s := New("SELECT 1--2;")
	if !s.Scan() {
		t.Fatalf("Scan returned false, err=%v", s.Err())
	}
	if got := s.Statement().Text; got != "SELECT 1--2" {
		t.Fatalf("text wrong. got=%q", got)
	}
}

func TestScanMalformed(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		line   int
		reason string
	}{
		{"unterminated single quote", "INSERT INTO t VALUES (1);\nINSERT INTO t VALUES ('abc;", 2, "unterminated string literal"},
		{"unterminated backtick", "CREATE TABLE `oops (id INT);", 1, "unterminated quoted identifier"},
		{"unterminated block comment", "SELECT 1; /* never closed\nmore text", 1, "unterminated block comment"},
		{"missing final semicolon", "CREATE TABLE t (id INT);\nINSERT INTO t VALUES (1)", 2, "missing its terminating semicolon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.input)
			for s.Scan() {
			}
			err := s.Err()
			if err == nil {
				t.Fatal("expected an error, got none")
			}
			var mde *dump.MalformedDumpError
			if !errors.As(err, &mde) {
				t.Fatalf("expected MalformedDumpError, got %T: %v", err, err)
			}
			if mde.Line != tt.line {
				t.Fatalf("line wrong. expected=%d, got=%d", tt.line, mde.Line)
			}
			if !strings.Contains(mde.Reason, tt.reason) {
				t.Fatalf("reason wrong. expected substring %q, got %q", tt.reason, mde.Reason)
			}
		})
	}
}

func TestScanStripsByteOrderMark(t *testing.T) {
	s := New("\uFEFFCREATE TABLE t (id INT);")
	if !s.Scan() {
		t.Fatalf("Scan returned false, err=%v", s.Err())
	}
	if got := s.Statement().Text; got != "CREATE TABLE t (id INT)" {
		t.Fatalf("text wrong. got=%q", got)
	}
}
