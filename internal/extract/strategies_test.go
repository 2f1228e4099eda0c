package extract

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/doccontext/internal/quality"
)

// samplePDF wraps show-text operators in a minimal uncompressed content stream.
func samplePDF(lines ...string) []byte {
	var b bytes.Buffer
	b.WriteString("%PDF-1.4\n1 0 obj\n<< /Length 0 >>\nstream\nBT\n/F1 12 Tf\n")
	for _, l := range lines {
		fmt.Fprintf(&b, "(%s) Tj\n", l)
	}
	b.WriteString("ET\nendstream\nendobj\n%%EOF\n")
	return b.Bytes()
}

func TestExtractLiteralStrings(t *testing.T) {
	t.Run("hello world round trip", func(t *testing.T) {
		data := []byte("1 0 obj\n<< >>\nstream\nBT (Hello World) Tj ET\nendstream\nendobj")
		require.Contains(t, ExtractLiteralStrings(data), "Hello World")
	})

	t.Run("paragraph break after sentence", func(t *testing.T) {
		got := ExtractLiteralStrings([]byte("(Alpha beta gamma.) (Delta epsilon)"))
		require.Equal(t, "Alpha beta gamma.\n\nDelta epsilon", got)
	})

	t.Run("space when no sentence boundary", func(t *testing.T) {
		got := ExtractLiteralStrings([]byte("(Alpha beta gamma) (delta eps)"))
		require.Equal(t, "Alpha beta gamma delta eps", got)
	})

	t.Run("longest first with substring dedupe", func(t *testing.T) {
		got := ExtractLiteralStrings([]byte("(World) (Hello World) (Hello)"))
		require.Equal(t, "Hello World", got)
	})

	t.Run("short and letterless segments dropped", func(t *testing.T) {
		require.Empty(t, ExtractLiteralStrings([]byte("(ab) (1234) (a1b2c3)")))
	})

	t.Run("empty", func(t *testing.T) {
		require.Empty(t, ExtractLiteralStrings(nil))
	})
}

func TestExtractTextBlocks(t *testing.T) {
	t.Run("default markers", func(t *testing.T) {
		got := ExtractTextBlocks([]byte("q BT\n/F1 12 Tf (Hi) Tj\nET Q BT 1 2 ET"), DefaultTextBlockMarkers...)
		require.Equal(t, "/F1 12 Tf (Hi) Tj", got)
	})

	t.Run("custom markers", func(t *testing.T) {
		s := TextBlocks(MarkerPair{Start: []byte("<<"), End: []byte(">>")})
		res, err := s.Extract([]byte("<< /Title (Report) >> << 12 >>"))
		require.NoError(t, err)
		require.Equal(t, NameTextBlocks, res.Strategy)
		require.Equal(t, " /Title (Report) ", res.Text)
	})

	t.Run("control bytes stripped", func(t *testing.T) {
		got := ExtractTextBlocks([]byte("BT\x00ab\x01cd ET"), DefaultTextBlockMarkers...)
		require.Equal(t, "abcd ", got)
	})

	t.Run("no markers", func(t *testing.T) {
		require.Empty(t, ExtractTextBlocks([]byte("nothing here"), DefaultTextBlockMarkers...))
	})
}

func TestExtractStreams(t *testing.T) {
	t.Run("scenario", func(t *testing.T) {
		data := []byte("stream\n(Test Content)\nendstream")
		got := ExtractStreams(data)
		require.Contains(t, got, "Test Content")
		require.True(t, quality.IsMeaningful(got))
		require.Contains(t, ExtractLiteralStrings(data), "Test Content")
	})

	t.Run("binary stream skipped", func(t *testing.T) {
		data := []byte("stream\n\x78\x9c\x01\x02\x03\nendstream stream\nplain words here\nendstream")
		require.Equal(t, "\nplain words here\n", ExtractStreams(data))
	})

	t.Run("non ascii dropped", func(t *testing.T) {
		require.Equal(t, " caf au lait ", ExtractStreams([]byte("stream café au lait endstream")))
	})
}

func TestExtractASCIIWords(t *testing.T) {
	require.Equal(t, "abc defg xyz", ExtractASCIIWords([]byte("ab abc\x00defg hi 12xyz")))
	require.Empty(t, ExtractASCIIWords([]byte{0x00, 0xff, 'a', 'b'}))
	require.Empty(t, ExtractASCIIWords(nil))
}

func TestExtractPhrases(t *testing.T) {
	got := ExtractPhrases([]byte("\x00\x01Hello there, friend.\x02\x03ok"))
	require.Equal(t, "Hello there, friend.", got)
	require.Empty(t, ExtractPhrases([]byte("a1 b2")))
}

func TestEmptyBufferAllStrategiesEmpty(t *testing.T) {
	for _, s := range []Strategy{LiteralStrings(), TextBlocks(), Streams(), ASCIIWords(), Phrases()} {
		res, err := s.Extract([]byte{})
		require.NoError(t, err, s.Name())
		require.Empty(t, res.Text, s.Name())
		require.Zero(t, res.Length, s.Name())
	}
}

func TestStrategiesOnSamplePDF(t *testing.T) {
	data := samplePDF("Quarterly revenue grew.", "Costs fell sharply.")
	require.Contains(t, ExtractLiteralStrings(data), "Quarterly revenue grew.")
	require.Contains(t, ExtractTextBlocks(data, DefaultTextBlockMarkers...), "Costs fell sharply.")
	require.Contains(t, ExtractASCIIWords(data), "Quarterly revenue grew")
}
