// Package session keeps per-conversation assistant state: the attached
// document context and whether voice input is on.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/doccontext/internal/common"
	"github.com/joseph-ayodele/doccontext/internal/entity"
)

// Context is a document attached to a session.
type Context struct {
	DocumentID uuid.UUID `json:"document_id"`
	Name       string    `json:"name"`
	Text       string    `json:"text"`
}

type Session struct {
	ID         uuid.UUID `json:"id"`
	Context    *Context  `json:"context,omitempty"`
	VoiceInput bool      `json:"voice_input"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Store holds sessions in memory. Returned sessions are copies.
type Store struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[uuid.UUID]*Session),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Create(_ context.Context) Session {
	now := s.now()
	sess := &Session{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return clone(sess)
}

func (s *Store) Get(_ context.Context, id uuid.UUID) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, notFound(id)
	}
	return clone(sess), nil
}

// AttachContext replaces the session's document context.
func (s *Store) AttachContext(_ context.Context, id uuid.UUID, doc *entity.Document) (Session, error) {
	return s.update(id, func(sess *Session) {
		sess.Context = &Context{DocumentID: doc.ID, Name: doc.Name, Text: doc.Text}
	})
}

func (s *Store) ClearContext(_ context.Context, id uuid.UUID) (Session, error) {
	return s.update(id, func(sess *Session) { sess.Context = nil })
}

// SetVoiceInput toggles voice input without touching the context.
func (s *Store) SetVoiceInput(_ context.Context, id uuid.UUID, enabled bool) (Session, error) {
	return s.update(id, func(sess *Session) { sess.VoiceInput = enabled })
}

func (s *Store) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return notFound(id)
	}
	delete(s.sessions, id)
	return nil
}

func (s *Store) update(id uuid.UUID, fn func(*Session)) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, notFound(id)
	}
	fn(sess)
	sess.UpdatedAt = s.now()
	return clone(sess), nil
}

func clone(s *Session) Session {
	out := *s
	if s.Context != nil {
		c := *s.Context
		out.Context = &c
	}
	return out
}

func notFound(id uuid.UUID) error {
	return fmt.Errorf("session %s: %w", id, common.ErrNotFound)
}
