package server

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/doccontext/internal/common"
)

type attachContextRequest struct {
	DocumentID string `json:"document_id"`
}

type voiceRequest struct {
	Enabled *bool `json:"enabled"`
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.sessions.Create(r.Context()), http.StatusCreated)
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sess, err := s.sessions.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, sess, http.StatusOK)
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.sessions.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) attachContext(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req attachContextRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := common.NewValidator().Field("document_id", req.DocumentID, common.Required, common.UUID).Err(); err != nil {
		s.writeError(w, r, err)
		return
	}

	// Fail on an unknown session before touching the store.
	if _, err := s.sessions.Get(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	doc, err := s.docs.GetByID(r.Context(), uuid.MustParse(req.DocumentID))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sess, err := s.sessions.AttachContext(r.Context(), id, doc)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, sess, http.StatusOK)
}

func (s *Server) clearContext(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sess, err := s.sessions.ClearContext(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, sess, http.StatusOK)
}

func (s *Server) setVoice(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req voiceRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := common.NewValidator().Field("enabled", req.Enabled, common.Required).Err(); err != nil {
		s.writeError(w, r, err)
		return
	}
	sess, err := s.sessions.SetVoiceInput(r.Context(), id, *req.Enabled)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, sess, http.StatusOK)
}
