package entity

import (
	"time"

	"github.com/google/uuid"
)

// Document is extracted context stored for reuse, one row per distinct content hash.
type Document struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	MimeType  string    `json:"mime_type"`
	Format    string    `json:"format"`
	SHA256    string    `json:"sha256"`
	Text      string    `json:"text"`
	Method    string    `json:"method"`
	Status    string    `json:"status"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}
