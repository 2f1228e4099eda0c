package constants

// Placeholders returned in place of document text. Callers can compare
// against these to tell real content from a degraded result.
const (
	PlaceholderUnavailable = "[The content of this document could not be extracted.]"
	PlaceholderScanned     = "[This PDF document appears to contain images or scanned text that couldn't be extracted. You may ask questions about what you can see in the PDF document.]"
)

// IsPlaceholder reports whether s is one of the fixed placeholder strings.
func IsPlaceholder(s string) bool {
	return s == PlaceholderUnavailable || s == PlaceholderScanned
}
