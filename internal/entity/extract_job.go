package entity

import (
	"time"

	"github.com/google/uuid"
)

// ExtractJob records one extraction attempt for a document.
type ExtractJob struct {
	ID           uuid.UUID  `json:"id"`
	DocumentName string     `json:"document_name"`
	SHA256       string     `json:"sha256"`
	Format       string     `json:"format"`
	Status       string     `json:"status"`
	Method       string     `json:"method,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	DocumentID   *uuid.UUID `json:"document_id,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
}
