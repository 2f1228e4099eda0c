package server

import (
	"encoding/base64"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/doccontext/constants"
	"github.com/joseph-ayodele/doccontext/internal/common"
	"github.com/joseph-ayodele/doccontext/internal/content"
	"github.com/joseph-ayodele/doccontext/internal/remote"
)

// uploadRequest mirrors remote.Request with presence tracking: an empty
// type is allowed, a missing one is not.
type uploadRequest struct {
	Name    *string `json:"name"`
	Type    *string `json:"type"`
	Content *string `json:"content"`
}

func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (content.File, error) {
	if !strings.HasPrefix(strings.ToLower(r.Header.Get("Content-Type")), "application/json") {
		return nil, common.InvalidArgumentError("Request must be JSON")
	}
	var req uploadRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		return nil, err
	}
	if req.Name == nil || req.Type == nil || req.Content == nil {
		return nil, common.InvalidArgumentError("Missing required fields: name, type, content")
	}
	if err := common.NewValidator().
		Field("name", *req.Name, common.Required, common.MaxLength(512)).
		Field("type", *req.Type, common.MaxLength(255)).
		Err(); err != nil {
		return nil, err
	}

	data, err := decodeContent(*req.Content)
	if err != nil {
		return nil, common.InvalidArgumentError("content must be base64")
	}
	return content.FromBytes(*req.Name, *req.Type, data), nil
}

// decodeContent accepts plain base64 or a data URL ("data:...;base64,....").
func decodeContent(s string) ([]byte, error) {
	if strings.Contains(s, ";base64,") {
		if _, after, ok := strings.Cut(s, ","); ok {
			s = after
		}
	}
	return base64.StdEncoding.DecodeString(strings.TrimSpace(s))
}

func (s *Server) processDocument(w http.ResponseWriter, r *http.Request) {
	f, err := s.readUpload(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.InfoContext(r.Context(), "document.process", "name", f.Name(), "type", f.ContentType())

	ex := s.content.Resolve(r.Context(), f)
	writeJSON(w, remote.Reply{Success: true, Text: ex.Text, FileName: f.Name()}, http.StatusOK)
}

func (s *Server) createDocument(w http.ResponseWriter, r *http.Request) {
	f, err := s.readUpload(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.pipeline.Run(r.Context(), f)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	code := http.StatusCreated
	if res.Existing {
		code = http.StatusOK
	}
	writeJSON(w, res.Document, code)
}

func (s *Server) getDocument(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	doc, err := s.docs.GetByID(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, doc, http.StatusOK)
}

func queryLimit(r *http.Request) (int, error) {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return 50, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 || n > 500 {
		return 0, common.InvalidArgumentError("limit must be between 1 and 500")
	}
	return n, nil
}

func (s *Server) listDocuments(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	docs, err := s.docs.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"documents": docs}, http.StatusOK)
}

func pathUUID(r *http.Request, key string) (uuid.UUID, error) {
	raw := chi.URLParam(r, key)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, common.InvalidArgumentErrorf("%s must be a valid UUID", key)
	}
	return id, nil
}

func (s *Server) exportDocuments(w http.ResponseWriter, r *http.Request) {
	if s.exporter == nil {
		s.writeError(w, r, common.NotFoundError("export is not enabled"))
		return
	}
	limit, err := queryLimit(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out, err := s.exporter.ExportDocumentsXLSX(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", constants.MIMEForExt("xlsx"))
	w.Header().Set("Content-Disposition", `attachment; filename="documents.xlsx"`)
	_, _ = w.Write(out)
}
