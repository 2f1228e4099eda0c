package content

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// maxDocumentXML caps how much of word/document.xml is inflated.
const maxDocumentXML = 64 << 20

var errNoDocumentXML = errors.New("word/document.xml not found")

type docxDocument struct {
	Body struct {
		Paragraphs []docxParagraph `xml:"p"`
	} `xml:"body"`
}

type docxParagraph struct {
	Runs []docxRun `xml:"r"`
}

type docxRun struct {
	Text  []string   `xml:"t"`
	Tab   []struct{} `xml:"tab"`
	Break []struct{} `xml:"br"`
}

// docxText returns the body paragraphs of an Office Open XML document, one
// per line. Table contents, headers and footers are not read.
func docxText(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}

	var raw []byte
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("open document.xml: %w", err)
		}
		raw, err = io.ReadAll(io.LimitReader(rc, maxDocumentXML))
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("read document.xml: %w", err)
		}
		break
	}
	if raw == nil {
		return "", errNoDocumentXML
	}

	var doc docxDocument
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return "", fmt.Errorf("parse document.xml: %w", err)
	}

	lines := make([]string, 0, len(doc.Body.Paragraphs))
	for _, p := range doc.Body.Paragraphs {
		lines = append(lines, docxParagraphText(p))
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

func docxParagraphText(p docxParagraph) string {
	var b strings.Builder
	for _, r := range p.Runs {
		for _, t := range r.Text {
			b.WriteString(t)
		}
		for range r.Tab {
			b.WriteByte('\t')
		}
		for range r.Break {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
