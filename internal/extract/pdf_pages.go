package extract

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// PageSource is a page-oriented view of a parsed PDF. Pages are 1-based.
type PageSource interface {
	NumPages() int
	PageItems(n int) ([]string, error)
}

// PageOpener parses raw bytes into a PageSource.
type PageOpener interface {
	Open(data []byte) (PageSource, error)
}

// PDFPages opens documents with github.com/ledongthuc/pdf.
type PDFPages struct{}

func (PDFPages) Open(data []byte) (src PageSource, err error) {
	if len(data) == 0 {
		return nil, errors.New("empty pdf")
	}
	// The reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			src, err = nil, fmt.Errorf("open pdf: %v", r)
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	return &pdfSource{r: r}, nil
}

type pdfSource struct {
	r *pdf.Reader
}

func (s *pdfSource) NumPages() int { return s.r.NumPage() }

// PageItems returns the page's plain text as a single item.
func (s *pdfSource) PageItems(n int) (items []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			items, err = nil, fmt.Errorf("page %d: %v", n, r)
		}
	}()
	page := s.r.Page(n)
	if page.V.IsNull() {
		return nil, fmt.Errorf("page %d: missing", n)
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", n, err)
	}
	return []string{text}, nil
}
