package models

import (
	"time"

	"github.com/google/uuid"
)

type Highlight struct {
	ID         uuid.UUID `json:"id"`
	DocumentID uuid.UUID `json:"document_id"`
	UserID     uuid.UUID `json:"user_id"`
	Text       string    `json:"text"`
	Page       int       `json:"page"`
	Position   Position  `json:"position"`
	Color      string    `json:"color"`
	Note       *string   `json:"note,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Position is the highlight's bounding box on its page, in page coordinates.
type Position struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type CreateHighlightRequest struct {
	Text     string   `json:"text"`
	Page     int      `json:"page"`
	Position Position `json:"position"`
	Color    string   `json:"color"`
}

type SetNoteRequest struct {
	Note string `json:"note"`
}
