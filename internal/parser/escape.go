package parser

import "strings"

// unescape resolves MySQL escape sequences inside a string literal whose
// surrounding quotes (quote) have already been stripped. A doubled quote
// character is the SQL-standard escape for the quote itself; backslash
// sequences follow MySQL's table, with \% and \_ kept verbatim (they
// only have meaning in LIKE patterns) and unknown sequences dropping the
// backslash, as the server does.
func unescape(s string, quote byte) string {
	if !strings.ContainsAny(s, "\\"+string(quote)) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == quote && i+1 < len(s) && s[i+1] == quote:
			b.WriteByte(quote)
			i++
		case c == '\\' && i+1 < len(s):
			i++
			switch e := s[i]; e {
			case '0':
				b.WriteByte(0x00)
			case 'b':
				b.WriteByte('\b')
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case 'Z':
				b.WriteByte(0x1a)
			case '%', '_':
				b.WriteByte('\\')
				b.WriteByte(e)
			default:
				// covers \' \" \\ and any unknown sequence
				b.WriteByte(e)
			}
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
