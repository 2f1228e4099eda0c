// Package scan holds the byte-level primitives the PDF text extractors are
// built on. Everything here is pure and works on a caller-owned buffer that is
// never modified.
package scan

import (
	"bytes"
	"iter"
	"strings"
)

// Span is a half-open byte range [Start, End) into the scanned buffer.
type Span struct {
	Start int
	End   int
}

func (s Span) Len() int { return s.End - s.Start }

// Segment is a candidate chunk of human-readable text and where it came from.
type Segment struct {
	Text string
	Span Span
}

// Printable reports whether b is in the printable ASCII range [32,126].
func Printable(b byte) bool { return b >= 32 && b <= 126 }

// TextByte is Printable plus tab, CR and LF.
func TextByte(b byte) bool { return Printable(b) || b == '\t' || b == '\r' || b == '\n' }

func isLetter(b byte) bool { return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') }

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == '\v'
}

// HasLetterRun reports whether s contains at least n consecutive ASCII letters.
func HasLetterRun(s string, n int) bool {
	run := 0
	for i := 0; i < len(s); i++ {
		if isLetter(s[i]) {
			run++
			if run >= n {
				return true
			}
			continue
		}
		run = 0
	}
	return false
}

// HasSpace reports whether s contains any ASCII whitespace.
func HasSpace(s string) bool {
	for i := 0; i < len(s); i++ {
		if isSpace(s[i]) {
			return true
		}
	}
	return false
}

// Sanitize keeps printable ASCII plus tab/CR/LF and drops everything else,
// including every non-ASCII rune.
func Sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if TextByte(s[i]) {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// PrintableOnly keeps bytes in [32,126].
func PrintableOnly(buf []byte) string {
	var b strings.Builder
	b.Grow(len(buf))
	for _, c := range buf {
		if Printable(c) {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// PrintableRuns yields maximal runs of printable ASCII at least min bytes long.
func PrintableRuns(buf []byte, min int) iter.Seq[Span] {
	return func(yield func(Span) bool) {
		start := -1
		for i := 0; i <= len(buf); i++ {
			if i < len(buf) && Printable(buf[i]) {
				if start < 0 {
					start = i
				}
				continue
			}
			if start >= 0 && i-start >= min {
				if !yield(Span{Start: start, End: i}) {
					return
				}
			}
			start = -1
		}
	}
}

// LetterRuns yields maximal runs of ASCII letters at least min bytes long.
func LetterRuns(buf []byte, min int) iter.Seq[Span] {
	return func(yield func(Span) bool) {
		start := -1
		for i := 0; i <= len(buf); i++ {
			if i < len(buf) && isLetter(buf[i]) {
				if start < 0 {
					start = i
				}
				continue
			}
			if start >= 0 && i-start >= min {
				if !yield(Span{Start: start, End: i}) {
					return
				}
			}
			start = -1
		}
	}
}

// MarkerPairs yields the content ranges between start and end markers,
// left to right and non-overlapping. The first end marker after a start
// closes it; there is no nesting. A start marker with no end marker after it
// stops the scan without yielding anything for it.
func MarkerPairs(buf, start, end []byte) iter.Seq[Span] {
	return func(yield func(Span) bool) {
		if len(start) == 0 || len(end) == 0 {
			return
		}
		pos := 0
		for pos < len(buf) {
			i := bytes.Index(buf[pos:], start)
			if i < 0 {
				return
			}
			from := pos + i + len(start)
			j := bytes.Index(buf[from:], end)
			if j < 0 {
				return
			}
			to := from + j
			if !yield(Span{Start: from, End: to}) {
				return
			}
			pos = to + len(end)
		}
	}
}

// StripControl drops C0 control characters other than tab/CR/LF, and DEL.
// Non-ASCII runes are kept; use it on text that a real parser decoded.
func StripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if (r < 32 && r != '\t' && r != '\n' && r != '\r') || r == 127 {
			return -1
		}
		return r
	}, s)
}
