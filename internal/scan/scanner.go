// Package scan splits MySQL dump text into individual SQL statements.
//
// Splitting cannot be done with a regular expression because semicolons,
// quote characters and comment markers may all appear inside string
// literals. The scanner is an explicit state machine over bytes: bare
// text, single-quoted literal, double-quoted literal, backtick-quoted
// identifier, line comment and block comment.
package scan

import (
	"fmt"
	"strings"

	"github.com/leengari/dumpcsv/internal/dump"
)

// Statement is one semicolon-terminated SQL command cut out of a dump.
// The terminator is removed and comments are stripped.
type Statement struct {
	Text string
	Line int // 1-based line of the statement's first content byte
}

type state int

const (
	stateBare state = iota
	stateSingleQuote
	stateDoubleQuote
	stateBacktick
	stateLineComment
	stateBlockComment
)

// Scanner produces statements one Scan call at a time, in the manner of
// bufio.Scanner. After Scan returns false, Err reports whether the input
// ended cleanly.
type Scanner struct {
	input string
	pos   int
	line  int
	stmt  Statement
	err   error
	done  bool
}

func New(input string) *Scanner {
	// mysqldump output occasionally starts with a UTF-8 BOM
	input = strings.TrimPrefix(input, "\uFEFF")
	return &Scanner{input: input, line: 1}
}

// Statement returns the statement produced by the last successful Scan
func (s *Scanner) Statement() Statement {
	return s.stmt
}

// Err returns the error that stopped scanning, if any
func (s *Scanner) Err() error {
	return s.err
}

// Scan advances to the next statement. It returns false at end of input
// or on a malformed dump; the two cases are told apart via Err.
func (s *Scanner) Scan() bool {
	if s.done {
		return false
	}

	var buf strings.Builder
	st := stateBare
	startLine := 0 // line of the first content byte, 0 until seen
	openLine := 0  // line where the current literal or comment opened
	escaped := false
	star := false // previous block-comment byte was '*'

	for s.pos < len(s.input) {
		c := s.input[s.pos]
		curLine := s.line
		s.pos++
		if c == '\n' {
			s.line++
		}

		switch st {
		case stateBare:
			switch {
			case c == ';':
				if text := strings.TrimSpace(buf.String()); text != "" {
					s.stmt = Statement{Text: text, Line: startLine}
					return true
				}
				buf.Reset()
				startLine = 0

			case c == '#':
				buf.WriteByte(' ')
				st = stateLineComment

			case c == '-' && s.startsDashComment():
				s.pos++ // second dash
				buf.WriteByte(' ')
				st = stateLineComment

			case c == '/' && s.peek() == '*':
				s.pos++ // the '*'
				buf.WriteByte(' ')
				st = stateBlockComment
				openLine = curLine
				star = false

			case c == '\'' || c == '"' || c == '`':
				if startLine == 0 {
					startLine = curLine
				}
				buf.WriteByte(c)
				openLine = curLine
				switch c {
				case '\'':
					st = stateSingleQuote
				case '"':
					st = stateDoubleQuote
				default:
					st = stateBacktick
				}

			default:
				if startLine == 0 && !isSpace(c) {
					startLine = curLine
				}
				buf.WriteByte(c)
			}

		case stateSingleQuote, stateDoubleQuote:
			buf.WriteByte(c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '\'' && st == stateSingleQuote:
				st = stateBare
			case c == '"' && st == stateDoubleQuote:
				st = stateBare
			}

		case stateBacktick:
			// MySQL does not process backslash escapes inside backticks
			buf.WriteByte(c)
			if c == '`' {
				st = stateBare
			}

		case stateLineComment:
			if c == '\n' {
				st = stateBare
			}

		case stateBlockComment:
			switch {
			case c == '/' && star:
				st = stateBare
				star = false
			case c == '*':
				star = true
			default:
				star = false
			}
		}
	}

	s.done = true

	switch st {
	case stateSingleQuote, stateDoubleQuote:
		s.err = &dump.MalformedDumpError{Line: openLine, Reason: "unterminated string literal"}
	case stateBacktick:
		s.err = &dump.MalformedDumpError{Line: openLine, Reason: "unterminated quoted identifier"}
	case stateBlockComment:
		s.err = &dump.MalformedDumpError{Line: openLine, Reason: "unterminated block comment"}
	default:
		if text := strings.TrimSpace(buf.String()); text != "" {
			s.err = &dump.MalformedDumpError{
				Line:   startLine,
				Reason: fmt.Sprintf("statement %q is missing its terminating semicolon", dump.Preview(text)),
			}
		}
	}
	return false
}

// startsDashComment reports whether the '-' just consumed opens a "-- "
// comment. MySQL requires whitespace (or end of line) after the double
// dash; "a--b" is an expression, not a comment.
func (s *Scanner) startsDashComment() bool {
	if s.pos >= len(s.input) || s.input[s.pos] != '-' {
		return false
	}
	if s.pos+1 >= len(s.input) {
		return true
	}
	next := s.input[s.pos+1]
	return next == ' ' || next == '\t' || next == '\n' || next == '\r'
}

func (s *Scanner) peek() byte {
	if s.pos >= len(s.input) {
		return 0
	}
	return s.input[s.pos]
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
