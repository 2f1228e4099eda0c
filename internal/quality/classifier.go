// Package quality decides whether extracted text reads like text or like
// binary/encoded noise.
package quality

import (
	"strings"
	"unicode/utf8"

	"github.com/joseph-ayodele/doccontext/internal/scan"
)

const (
	MinLength       = 10
	SampleSize      = 1000
	SymbolWindow    = 100
	MinPrintable    = 0.7
	suspiciousChars = "%@^~{}[]"
)

// Verdict is the outcome of Classify. Reason is empty when Meaningful.
type Verdict struct {
	Meaningful     bool
	PrintableRatio float64
	Reason         string
}

// IsMeaningful is Classify(text).Meaningful.
func IsMeaningful(text string) bool { return Classify(text).Meaningful }

// Classify applies the gate: any single failing check disqualifies the text.
// Symbol-heavy text such as code or tables is rejected too; that is known.
func Classify(text string) Verdict {
	n := utf8.RuneCountInString(text)
	if n < MinLength {
		return Verdict{Reason: "too short"}
	}

	var printable, sample int
	for _, r := range text {
		if sample == SampleSize {
			break
		}
		sample++
		if (r >= 32 && r <= 126) || r == '\t' || r == '\n' || r == '\r' {
			printable++
		}
	}
	v := Verdict{PrintableRatio: float64(printable) / float64(sample)}

	switch {
	case v.PrintableRatio < MinPrintable:
		v.Reason = "low printable ratio"
	case !scan.HasLetterRun(text, 2):
		v.Reason = "no words"
	case !scan.HasSpace(text):
		v.Reason = "no whitespace"
	case strings.ContainsAny(head(text, SymbolWindow), suspiciousChars):
		v.Reason = "suspicious symbols"
	default:
		v.Meaningful = true
	}
	return v
}

// head returns the first n runes of s.
func head(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
