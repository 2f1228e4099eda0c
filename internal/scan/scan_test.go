package scan

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func spans(buf []byte, seq func(func(Span) bool)) []string {
	var out []string
	for s := range seq {
		out = append(out, string(buf[s.Start:s.End]))
	}
	return out
}

func literals(buf []byte) []string {
	var out []string
	for seg := range LiteralStrings(buf) {
		out = append(out, seg.Text)
	}
	return out
}

func TestMarkerPairs(t *testing.T) {
	t.Run("non overlapping left to right", func(t *testing.T) {
		buf := []byte("xx BT one ET yy BT two ET zz")
		got := spans(buf, MarkerPairs(buf, []byte("BT"), []byte("ET")))
		require.Equal(t, []string{" one ", " two "}, got)
	})

	t.Run("first end closes", func(t *testing.T) {
		buf := []byte("stream a endstream b endstream")
		got := spans(buf, MarkerPairs(buf, []byte("stream"), []byte("endstream")))
		require.Equal(t, []string{" a "}, got)
	})

	t.Run("unterminated pair dropped", func(t *testing.T) {
		buf := []byte("BT ok ET BT never closed")
		got := spans(buf, MarkerPairs(buf, []byte("BT"), []byte("ET")))
		require.Equal(t, []string{" ok "}, got)
	})

	t.Run("empty and short buffers", func(t *testing.T) {
		require.Empty(t, spans(nil, MarkerPairs(nil, []byte("BT"), []byte("ET"))))
		buf := []byte("B")
		require.Empty(t, spans(buf, MarkerPairs(buf, []byte("BT"), []byte("ET"))))
	})

	t.Run("stops when consumer stops", func(t *testing.T) {
		buf := []byte("BT a ET BT b ET")
		var n int
		for range MarkerPairs(buf, []byte("BT"), []byte("ET")) {
			n++
			break
		}
		require.Equal(t, 1, n)
	})
}

func TestLiteralStrings(t *testing.T) {
	t.Run("plain", func(t *testing.T) {
		require.Equal(t, []string{"Hello World"}, literals([]byte("1 0 obj (Hello World) Tj endobj")))
	})

	t.Run("nested parens kept", func(t *testing.T) {
		require.Equal(t, []string{"a (b) c"}, literals([]byte("(a (b) c)")))
	})

	t.Run("escaped parens do not change depth", func(t *testing.T) {
		require.Equal(t, []string{"a ) b"}, literals([]byte(`(a \) b)`)))
	})

	t.Run("escape sequences", func(t *testing.T) {
		got := literals([]byte(`(line\nnext\tTab\rX\101\\)`))
		require.Equal(t, []string{"line\nnext TabXA\\"}, got)
	})

	t.Run("non text octal dropped", func(t *testing.T) {
		require.Equal(t, []string{"ab"}, literals([]byte(`(a\351b)`)))
	})

	t.Run("raw control bytes dropped", func(t *testing.T) {
		require.Equal(t, []string{"ab"}, literals([]byte{'(', 'a', 0x01, 0xff, 'b', ')'}))
	})

	t.Run("unterminated dropped", func(t *testing.T) {
		require.Equal(t, []string{"ok"}, literals([]byte("(ok) (never closed")))
	})

	t.Run("trailing backslash", func(t *testing.T) {
		require.Empty(t, literals([]byte(`(abc\`)))
	})

	t.Run("offsets", func(t *testing.T) {
		var segs []Segment
		for s := range LiteralStrings([]byte("xx(ab)")) {
			segs = append(segs, s)
		}
		require.Equal(t, []Segment{{Text: "ab", Span: Span{Start: 3, End: 5}}}, segs)
	})
}

func TestRuns(t *testing.T) {
	buf := []byte("ab\x00abcd\x01xyz12")
	require.Equal(t, []string{"abcd", "xyz12"}, spans(buf, PrintableRuns(buf, 3)))
	require.Equal(t, []string{"abcd", "xyz"}, spans(buf, LetterRuns(buf, 3)))
}

func TestHelpers(t *testing.T) {
	require.True(t, HasLetterRun("a1bc", 2))
	require.False(t, HasLetterRun("a1b2", 2))
	require.True(t, HasSpace("a\tb"))
	require.False(t, HasSpace("ab"))
	require.Equal(t, "a\tb\nc", Sanitize("a\tb\x00\ncé"))
	require.Equal(t, "ab", PrintableOnly([]byte{'a', '\n', 'b', 0x90}))
	require.True(t, slices.ContainsFunc([]byte("x\ty"), func(b byte) bool { return TextByte(b) && !Printable(b) }))
}
