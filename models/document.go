package models

import (
	"time"

	"github.com/google/uuid"
)

// Document represents an uploaded plain-text legal document
type Document struct {
	ID          uuid.UUID `json:"id"`
	Filename    string    `json:"filename"`
	MimeType    string    `json:"mime_type"`
	Size        int64     `json:"size"`
	Checksum    string    `json:"checksum"`
	StoragePath string    `json:"storage_path"`
	CreatedAt   time.Time `json:"created_at"`
}
