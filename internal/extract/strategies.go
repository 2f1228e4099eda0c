package extract

import (
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/joseph-ayodele/doccontext/internal/scan"
)

// Strategy names.
const (
	NameLiteralStrings = "literal-strings"
	NameTextBlocks     = "text-blocks"
	NameStreams        = "streams"
	NameASCIIWords     = "ascii-words"
	NamePhrases        = "phrases"
	NamePDFPages       = "pdf-pages"
)

// LiteralStrings recovers text from PDF literal strings "(...)", which is
// where most visible text of uncompressed PDFs lives.
func LiteralStrings() Strategy {
	return StrategyFunc{ID: NameLiteralStrings, Fn: ExtractLiteralStrings}
}

// ExtractLiteralStrings keeps segments longer than 2 bytes with a two-letter
// run, longest first, drops any segment contained in (or containing) one
// already kept, and joins them. A paragraph break is inserted when the
// previous segment ends a sentence and the next one starts with a capital.
func ExtractLiteralStrings(data []byte) string {
	var segs []string
	for seg := range scan.LiteralStrings(data) {
		if len(seg.Text) > 2 && scan.HasLetterRun(seg.Text, 2) {
			segs = append(segs, seg.Text)
		}
	}
	if len(segs) == 0 {
		return ""
	}

	slices.SortStableFunc(segs, func(a, b string) int { return len(b) - len(a) })

	unique := make([]string, 0, len(segs))
	for _, s := range segs {
		dup := false
		for _, u := range unique {
			if strings.Contains(s, u) || strings.Contains(u, s) {
				dup = true
				break
			}
		}
		if !dup {
			unique = append(unique, s)
		}
	}

	var b strings.Builder
	for i, s := range unique {
		if i > 0 {
			if endsSentence(unique[i-1]) && startsUpper(s) {
				b.WriteString("\n\n")
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteString(s)
	}
	return b.String()
}

func endsSentence(s string) bool {
	if s == "" {
		return false
	}
	switch s[len(s)-1] {
	case '.', '!', '?':
		return true
	}
	return false
}

func startsUpper(s string) bool { return s != "" && s[0] >= 'A' && s[0] <= 'Z' }

// MarkerPair delimits a region of interest, e.g. BT/ET text objects.
type MarkerPair struct {
	Start []byte
	End   []byte
}

// DefaultTextBlockMarkers are the PDF begin/end text object operators.
var DefaultTextBlockMarkers = []MarkerPair{{Start: []byte("BT"), End: []byte("ET")}}

// TextBlocks extracts printable content between marker pairs. With no pairs
// it uses DefaultTextBlockMarkers.
func TextBlocks(pairs ...MarkerPair) Strategy {
	if len(pairs) == 0 {
		pairs = DefaultTextBlockMarkers
	}
	return StrategyFunc{ID: NameTextBlocks, Fn: func(data []byte) string {
		return ExtractTextBlocks(data, pairs...)
	}}
}

// ExtractTextBlocks keeps blocks longer than 3 printable bytes that contain a
// two-letter run. Pairs are scanned one after another.
func ExtractTextBlocks(data []byte, pairs ...MarkerPair) string {
	var blocks []string
	for _, p := range pairs {
		for sp := range scan.MarkerPairs(data, p.Start, p.End) {
			text := scan.PrintableOnly(data[sp.Start:sp.End])
			if len(text) > 3 && scan.HasLetterRun(text, 2) {
				blocks = append(blocks, text)
			}
		}
	}
	return strings.Join(blocks, " ")
}

// Streams extracts readable stream bodies.
func Streams() Strategy {
	return StrategyFunc{ID: NameStreams, Fn: ExtractStreams}
}

var (
	streamStart = []byte("stream")
	streamEnd   = []byte("endstream")
)

// ExtractStreams decodes each stream...endstream body as UTF-8 and keeps the
// ones with a three-letter word and whitespace. Compressed streams never pass.
func ExtractStreams(data []byte) string {
	var chunks []string
	for sp := range scan.MarkerPairs(data, streamStart, streamEnd) {
		body := data[sp.Start:sp.End]
		text := scan.Sanitize(strings.ToValidUTF8(string(body), string(utf8.RuneError)))
		if scan.HasLetterRun(text, 3) && scan.HasSpace(text) {
			chunks = append(chunks, text)
		}
	}
	return strings.Join(chunks, "\n\n")
}

// ASCIIWords is the statistical last resort: every run of 3+ letters.
func ASCIIWords() Strategy {
	return StrategyFunc{ID: NameASCIIWords, Fn: ExtractASCIIWords}
}

// ExtractASCIIWords space-joins all ASCII letter runs longer than 2 bytes.
func ExtractASCIIWords(data []byte) string {
	var words []string
	for sp := range scan.LetterRuns(data, 3) {
		words = append(words, string(data[sp.Start:sp.End]))
	}
	return strings.Join(words, " ")
}

var rePhrase = regexp.MustCompile(`[a-zA-Z]{3,}[a-zA-Z\s.,:;!?]{2,}`)

// Phrases treats the file as plain text and collects word-like sequences.
func Phrases() Strategy {
	return StrategyFunc{ID: NamePhrases, Fn: ExtractPhrases}
}

// ExtractPhrases space-joins every match of a loose "words and punctuation"
// pattern over the raw bytes.
func ExtractPhrases(data []byte) string {
	matches := rePhrase.FindAll(data, -1)
	if len(matches) == 0 {
		return ""
	}
	parts := make([]string, len(matches))
	for i, m := range matches {
		parts[i] = scan.Sanitize(string(m))
	}
	return strings.Join(parts, " ")
}
