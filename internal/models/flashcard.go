package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

type Flashcard struct {
	ID                uuid.UUID  `json:"id"`
	DocumentID        uuid.UUID  `json:"document_id"`
	UserID            uuid.UUID  `json:"user_id"`
	Question          string     `json:"question"`
	Answer            string     `json:"answer"`
	Page              int        `json:"page"`
	Chapter           *string    `json:"chapter,omitempty"`
	Difficulty        string     `json:"difficulty"` // easy | medium | hard
	CorrectCount      int        `json:"correct_count"`
	IncorrectCount    int        `json:"incorrect_count"`
	LastReviewedAt    *time.Time `json:"last_reviewed_at,omitempty"`
	SourceHighlightID *uuid.UUID `json:"source_highlight_id,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// FlashcardDraft is the unsaved form of a card, produced by manual authoring
// or by deriving from a highlight.
type FlashcardDraft struct {
	Question          string     `json:"question"`
	Answer            string     `json:"answer"`
	Page              int        `json:"page"`
	Chapter           *string    `json:"chapter,omitempty"`
	Difficulty        string     `json:"difficulty"`
	SourceHighlightID *uuid.UUID `json:"source_highlight_id,omitempty"`
}

// FlashcardUpdate carries content-only edits. Review counters are deliberately
// absent: those move through RecordOutcome alone.
type FlashcardUpdate struct {
	Question   *string `json:"question,omitempty"`
	Answer     *string `json:"answer,omitempty"`
	Difficulty *string `json:"difficulty,omitempty"`
}

// ReviewStats is the post-increment counter state returned by RecordOutcome.
type ReviewStats struct {
	CorrectCount   int       `json:"correct_count"`
	IncorrectCount int       `json:"incorrect_count"`
	LastReviewedAt time.Time `json:"last_reviewed_at"`
}
