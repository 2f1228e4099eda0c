package scan

import (
	"iter"
	"strings"
)

// LiteralStrings yields the decoded contents of PDF literal strings, i.e.
// balanced "(...)" groups. Nested parentheses are kept in the text and only
// the matching close ends the group. Escapes follow the PDF rules we care
// about:
//
//	\n      newline
//	\t      space
//	\r      dropped
//	\ddd    octal byte (1-3 digits), kept only if it is a text byte
//	\x      x itself when printable
//
// Raw bytes outside printable ASCII are dropped. A group that is still open at
// the end of the buffer is discarded.
func LiteralStrings(buf []byte) iter.Seq[Segment] {
	return func(yield func(Segment) bool) {
		for i := 0; i < len(buf); i++ {
			if buf[i] != '(' {
				continue
			}
			text, end, ok := readLiteral(buf, i+1)
			if !ok {
				return
			}
			if !yield(Segment{Text: text, Span: Span{Start: i + 1, End: end}}) {
				return
			}
			i = end // closing ')'
		}
	}
}

// readLiteral decodes from just after an opening '(' and returns the text,
// the index of the closing ')' and whether one was found.
func readLiteral(buf []byte, from int) (string, int, bool) {
	var b strings.Builder
	depth := 1
	j := from
	for j < len(buf) {
		c := buf[j]
		switch {
		case c == '\\':
			j++
			if j >= len(buf) {
				return "", 0, false
			}
			j = decodeEscape(buf, j, &b)
		case c == '(':
			depth++
			b.WriteByte(c)
			j++
		case c == ')':
			depth--
			if depth == 0 {
				return b.String(), j, true
			}
			b.WriteByte(c)
			j++
		default:
			if Printable(c) {
				b.WriteByte(c)
			}
			j++
		}
	}
	return "", 0, false
}

// decodeEscape handles the byte(s) after a backslash at buf[j] and returns
// the index of the next unread byte.
func decodeEscape(buf []byte, j int, b *strings.Builder) int {
	c := buf[j]
	switch {
	case c == 'n':
		b.WriteByte('\n')
		return j + 1
	case c == 't':
		b.WriteByte(' ')
		return j + 1
	case c == 'r':
		return j + 1
	case c >= '0' && c <= '7':
		v, k := 0, j
		for k < len(buf) && k-j < 3 && buf[k] >= '0' && buf[k] <= '7' {
			v = v*8 + int(buf[k]-'0')
			k++
		}
		if v <= 0xff && TextByte(byte(v)) {
			b.WriteByte(byte(v))
		}
		return k
	default:
		if Printable(c) {
			b.WriteByte(c)
		}
		return j + 1
	}
}
