// Package store defines the persistence contracts the study engine works
// against, plus an in-memory implementation used for guest sessions and tests.
// The pgx-backed implementations live in internal/repository.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"pagemark-backend/internal/models"
)

var (
	// ErrNotFound signals that the referenced entity does not exist or is not
	// visible to the calling user. Callers decide whether to skip or refresh.
	ErrNotFound = errors.New("entity not found")

	// ErrUnavailable wraps transient backend failures. Safe to retry, but a
	// caller must re-read before retrying a counter mutation.
	ErrUnavailable = errors.New("store unavailable")
)

type DocumentStore interface {
	Create(ctx context.Context, d *models.Document) error
	GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Document, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Document, error)
	SetChapters(ctx context.Context, id, userID uuid.UUID, chapters []models.Chapter) error
	SetPageCount(ctx context.Context, id uuid.UUID, totalPages int, status string) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

type HighlightStore interface {
	Create(ctx context.Context, h *models.Highlight) error
	GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Highlight, error)
	ListByDocument(ctx context.Context, documentID, userID uuid.UUID) ([]models.Highlight, error)
	SetNote(ctx context.Context, id, userID uuid.UUID, note *string) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

type FlashcardStore interface {
	Create(ctx context.Context, c *models.Flashcard) error
	GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Flashcard, error)
	ListByDocument(ctx context.Context, documentID, userID uuid.UUID) ([]models.Flashcard, error)
	Update(ctx context.Context, id, userID uuid.UUID, upd models.FlashcardUpdate) error
	Delete(ctx context.Context, id, userID uuid.UUID) error

	// RecordOutcome bumps exactly one counter and stamps last_reviewed_at.
	// Implementations must increment against the stored value, never write an
	// absolute count computed by the caller.
	RecordOutcome(ctx context.Context, id, userID uuid.UUID, correct bool) (*models.ReviewStats, error)
}
