package constants

import (
	"path/filepath"
	"strings"
)

// Format is the coarse document family used to route extraction.
type Format string

const (
	PDF         Format = "PDF"
	TEXT        Format = "TEXT"
	WORD        Format = "WORD"        // legacy word-processor files, never parsed
	SPREADSHEET Format = "SPREADSHEET" // xlsx workbooks
)

var mimeFormats = map[string]Format{
	"application/pdf":    PDF,
	"application/msword": WORD,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": WORD,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":       SPREADSHEET,
}

var extFormats = map[string]Format{
	"pdf":  PDF,
	"doc":  WORD,
	"docx": WORD,
	"xlsx": SPREADSHEET,
	"txt":  TEXT,
	"md":   TEXT,
	"csv":  TEXT,
	"json": TEXT,
}

// AllowedExtensions holds the extensions the inbox watcher picks up.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"doc":  {},
	"docx": {},
	"xlsx": {},
	"txt":  {},
	"md":   {},
	"csv":  {},
	"json": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// NormalizeMIME drops parameters ("; charset=...") and lowercases.
func NormalizeMIME(mime string) string {
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	return strings.ToLower(strings.TrimSpace(mime))
}

// MapExtToFormat returns "" for extensions we have no explicit route for.
func MapExtToFormat(ext string) Format {
	return extFormats[NormalizeExt(ext)]
}

// DetectFormat prefers the MIME type and falls back to the file extension.
// Anything unrecognised is treated as text, like a browser readAsText.
func DetectFormat(name, mime string) Format {
	if f, ok := mimeFormats[NormalizeMIME(mime)]; ok {
		return f
	}
	if f := MapExtToFormat(filepath.Ext(name)); f != "" {
		return f
	}
	return TEXT
}

// MIMEForExt guesses a content type for files picked up from disk.
func MIMEForExt(ext string) string {
	switch NormalizeExt(ext) {
	case "pdf":
		return "application/pdf"
	case "doc":
		return "application/msword"
	case "docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case "xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case "json":
		return "application/json"
	case "csv":
		return "text/csv"
	case "md":
		return "text/markdown"
	default:
		return "text/plain"
	}
}
