package models

import (
	"time"

	"github.com/google/uuid"
)

type Document struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	Title      string    `json:"title"`
	FileName   string    `json:"file_name"`
	FilePath   string    `json:"-"`
	TotalPages int       `json:"total_pages"`
	Status     string    `json:"status"` // "processing" | "ready" | "failed"
	Chapters   []Chapter `json:"chapters"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Chapter is a named page range inside a document. Ranges are kept in the
// order the client sent them; overlaps are tolerated and resolved first-match.
type Chapter struct {
	Title     string `json:"title"`
	StartPage int    `json:"start_page"`
	EndPage   int    `json:"end_page"`
}

type SetChaptersRequest struct {
	Chapters []Chapter `json:"chapters"`
}

// ProcessTask is the payload pushed on the processing queue after an upload.
type ProcessTask struct {
	DocumentID uuid.UUID `json:"document_id"`
	UserID     uuid.UUID `json:"user_id"`
	FilePath   string    `json:"file_path"`
}
