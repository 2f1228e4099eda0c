// Package content turns an uploaded document into text for the assistant.
package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/doccontext/constants"
	"github.com/joseph-ayodele/doccontext/internal/extract"
	"github.com/joseph-ayodele/doccontext/internal/remote"
)

var ErrUnsupportedFormat = errors.New("unsupported document format")

// Extraction methods that are not PDF strategy names.
const (
	MethodRemote      = "remote"
	MethodText        = "text"
	MethodSpreadsheet = "spreadsheet"
	MethodWord        = "docx"
	MethodPlaceholder = "placeholder"
)

// Remote is an external processor tried before local extraction.
type Remote interface {
	Process(ctx context.Context, name, mimeType string, data []byte) (string, error)
}

// PDFExtractor recovers text from raw PDF bytes.
type PDFExtractor interface {
	Extract(ctx context.Context, data []byte) (extract.Result, error)
}

// Extraction is the outcome of turning one file into text.
type Extraction struct {
	Text        string
	Method      string
	Format      constants.Format
	Placeholder bool
	// Err is the cause when Placeholder is set.
	Err error
}

type Service struct {
	remote Remote
	pdf    PDFExtractor
	word   bool
	logger *slog.Logger
}

type Option func(*Service)

// WithRemote enables the remote processor. Pass nothing to keep it off.
func WithRemote(r Remote) Option {
	return func(s *Service) { s.remote = r }
}

func WithPDFExtractor(p PDFExtractor) Option {
	return func(s *Service) { s.pdf = p }
}

// WithWordDocuments reads the paragraph text of .docx files instead of
// returning the unavailable placeholder. Legacy binary .doc files still get
// the placeholder.
func WithWordDocuments() Option {
	return func(s *Service) { s.word = true }
}

func NewService(logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	if s.pdf == nil {
		s.pdf = extract.NewOrchestrator(logger)
	}
	return s
}

// GetContent returns the document text or one of the fixed placeholders.
// It never fails.
func (s *Service) GetContent(ctx context.Context, f File) string {
	return s.Resolve(ctx, f).Text
}

// Resolve is GetContent with the method and cause attached.
func (s *Service) Resolve(ctx context.Context, f File) Extraction {
	ex, err := s.Extract(ctx, f)
	if err == nil {
		return ex
	}

	text := constants.PlaceholderUnavailable
	if errors.Is(err, extract.ErrExtractionFailed) {
		text = constants.PlaceholderScanned
	}
	s.logger.WarnContext(ctx, "content.placeholder",
		"name", f.Name(), "format", ex.Format, "error", err)
	return Extraction{
		Text:        text,
		Method:      MethodPlaceholder,
		Format:      ex.Format,
		Placeholder: true,
		Err:         err,
	}
}

// Extract returns the document text or an error saying why there is none.
// The returned Extraction carries the detected format even on error.
func (s *Service) Extract(ctx context.Context, f File) (Extraction, error) {
	start := time.Now()
	name, mime := f.Name(), f.ContentType()
	ex := Extraction{Format: constants.DetectFormat(name, mime)}

	data, err := f.Bytes(ctx)
	if err != nil {
		return ex, fmt.Errorf("read %s: %w", name, err)
	}

	if s.remote != nil {
		text, err := s.remote.Process(ctx, name, mime, data)
		if err == nil {
			ex.Text, ex.Method = text, MethodRemote
			s.logger.InfoContext(ctx, "content.ok", "name", name, "method", ex.Method,
				"length", len(ex.Text), "elapsed_ms", time.Since(start).Milliseconds())
			return ex, nil
		}
		s.logger.WarnContext(ctx, "content.remote.fallback", "name", name,
			"service_error", remote.IsServiceError(err), "error", err)
	}

	switch ex.Format {
	case constants.PDF:
		res, err := s.pdf.Extract(ctx, data)
		if err != nil {
			return ex, fmt.Errorf("pdf %s: %w", name, err)
		}
		ex.Text, ex.Method = res.Text, res.Strategy
	case constants.WORD:
		if !s.word {
			return ex, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
		}
		text, err := docxText(data)
		if err != nil {
			return ex, fmt.Errorf("%w: %s: %v", ErrUnsupportedFormat, name, err)
		}
		if text == "" {
			return ex, fmt.Errorf("%w: %s: no paragraph text", ErrUnsupportedFormat, name)
		}
		ex.Text, ex.Method = text, MethodWord
	case constants.SPREADSHEET:
		text, err := spreadsheetText(data)
		if err != nil {
			return ex, fmt.Errorf("spreadsheet %s: %w", name, err)
		}
		ex.Text, ex.Method = text, MethodSpreadsheet
	default:
		text, err := decodeText(data)
		if err != nil {
			return ex, fmt.Errorf("text %s: %w", name, err)
		}
		ex.Text, ex.Method = text, MethodText
	}

	s.logger.InfoContext(ctx, "content.ok", "name", name, "method", ex.Method,
		"format", ex.Format, "length", len(ex.Text), "elapsed_ms", time.Since(start).Milliseconds())
	return ex, nil
}
