// Package server exposes document extraction and assistant sessions over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/joseph-ayodele/doccontext/internal/common"
	"github.com/joseph-ayodele/doccontext/internal/content"
	"github.com/joseph-ayodele/doccontext/internal/pipeline"
	"github.com/joseph-ayodele/doccontext/internal/repository"
	"github.com/joseph-ayodele/doccontext/internal/session"
)

// ContentResolver turns an upload into text; content.Service implements it.
type ContentResolver interface {
	Resolve(ctx context.Context, f content.File) content.Extraction
}

// DocumentPipeline stores an upload; pipeline.Pipeline implements it.
type DocumentPipeline interface {
	Run(ctx context.Context, f content.File) (pipeline.Result, error)
}

// Exporter renders stored documents as a workbook; export.Service implements it.
type Exporter interface {
	ExportDocumentsXLSX(ctx context.Context, limit int) ([]byte, error)
}

type Server struct {
	content   ContentResolver
	pipeline  DocumentPipeline
	docs      repository.DocumentRepository
	sessions  *session.Store
	exporter  Exporter
	logger    *slog.Logger
	maxUpload int64
}

type Option func(*Server)

// WithMaxUploadBytes caps request bodies. The base64 overhead counts.
func WithMaxUploadBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxUpload = n
		}
	}
}

// WithExporter enables GET /documents/export.
func WithExporter(e Exporter) Option {
	return func(s *Server) { s.exporter = e }
}

func NewServer(c ContentResolver, p DocumentPipeline, docs repository.DocumentRepository, sessions *session.Store, logger *slog.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if sessions == nil {
		sessions = session.NewStore()
	}
	s := &Server{
		content:   c,
		pipeline:  p,
		docs:      docs,
		sessions:  sessions,
		logger:    logger,
		maxUpload: 32 << 20,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)

	r.Get("/health", s.health)
	r.Post("/process-document", s.processDocument)

	r.Post("/documents", s.createDocument)
	r.Get("/documents", s.listDocuments)
	r.Get("/documents/export", s.exportDocuments)
	r.Get("/documents/{id}", s.getDocument)

	r.Post("/sessions", s.createSession)
	r.Get("/sessions/{id}", s.getSession)
	r.Delete("/sessions/{id}", s.deleteSession)
	r.Put("/sessions/{id}/context", s.attachContext)
	r.Delete("/sessions/{id}/context", s.clearContext)
	r.Put("/sessions/{id}/voice", s.setVoice)

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := middleware.GetReqID(r.Context())
		r = r.WithContext(common.WithRequestID(r.Context(), reqID))
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("http.request",
			"req_id", reqID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{"status": "healthy"}, http.StatusOK)
}

// Start serves until ctx ends, then shuts down within timeout.
func (s *Server) Start(ctx context.Context, addr string, timeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, value any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(value)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := common.HTTPStatus(err)
	msg := "internal error"
	var appErr *common.AppError
	switch {
	case errors.As(err, &appErr):
		msg = appErr.Message
	case code != http.StatusInternalServerError:
		msg = err.Error()
	}
	if code >= 500 {
		s.logger.ErrorContext(r.Context(), "http.error", "req_id", common.RequestIDFromContext(r.Context()), "error", err)
	}
	writeJSON(w, errorResponse{Error: msg}, code)
}

// decodeJSON reads a JSON body into dst, capped at the upload limit.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if r.Body == nil {
		return common.InvalidArgumentError("Request must be JSON")
	}
	body := http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return common.InvalidArgumentErrorf("request body exceeds %d bytes", tooLarge.Limit)
		}
		return common.InvalidArgumentError("Request must be JSON")
	}
	return nil
}
