package study

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"pagemark-backend/internal/events"
	"pagemark-backend/internal/models"
	"pagemark-backend/internal/store"
)

// Length of the highlight excerpt quoted inside a derived question.
const questionPreviewLen = 100

type HighlightManager struct {
	scope  Scope
	store  store.HighlightStore
	broker events.Broker
}

func NewHighlightManager(scope Scope, st store.HighlightStore, broker events.Broker) *HighlightManager {
	return &HighlightManager{scope: scope, store: st, broker: broker}
}

func (m *HighlightManager) Create(ctx context.Context, doc *models.Document, req models.CreateHighlightRequest) (*models.Highlight, error) {
	fields := make(map[string]string)
	if strings.TrimSpace(req.Text) == "" {
		fields["text"] = "Highlight text is required"
	}
	if req.Page < 1 {
		fields["page"] = "Page must be at least 1"
	} else if doc.TotalPages > 0 && req.Page > doc.TotalPages {
		fields["page"] = fmt.Sprintf("Page must be between 1 and %d", doc.TotalPages)
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	color := req.Color
	if color == "" {
		color = "#fef08a"
	}

	h := &models.Highlight{
		DocumentID: m.scope.DocumentID,
		UserID:     m.scope.UserID,
		Text:       req.Text,
		Page:       req.Page,
		Position:   req.Position,
		Color:      color,
	}
	if err := m.store.Create(ctx, h); err != nil {
		return nil, err
	}

	m.publish(ctx, events.ActionCreated, h.ID, h)
	return h, nil
}

func (m *HighlightManager) Get(ctx context.Context, id uuid.UUID) (*models.Highlight, error) {
	return m.store.GetByID(ctx, id, m.scope.UserID)
}

func (m *HighlightManager) List(ctx context.Context) ([]models.Highlight, error) {
	return m.store.ListByDocument(ctx, m.scope.DocumentID, m.scope.UserID)
}

// SetNote attaches a note to a highlight; a blank note clears it. Idempotent.
func (m *HighlightManager) SetNote(ctx context.Context, id uuid.UUID, note string) error {
	var val *string
	if trimmed := strings.TrimSpace(note); trimmed != "" {
		val = &trimmed
	}
	if err := m.store.SetNote(ctx, id, m.scope.UserID, val); err != nil {
		return err
	}
	m.publish(ctx, events.ActionUpdated, id, map[string]interface{}{"note": val})
	return nil
}

// Delete removes the highlight for good. Flashcards derived from it keep
// their source_highlight_id and are never touched.
func (m *HighlightManager) Delete(ctx context.Context, id uuid.UUID) error {
	if err := m.store.Delete(ctx, id, m.scope.UserID); err != nil {
		return err
	}
	m.publish(ctx, events.ActionDeleted, id, nil)
	return nil
}

// DeriveFlashcard builds a card draft from a highlight. Pure: the caller
// decides whether to persist the draft via FlashcardManager.Create.
func DeriveFlashcard(h *models.Highlight, doc *models.Document) models.FlashcardDraft {
	preview := []rune(h.Text)
	if len(preview) > questionPreviewLen {
		preview = preview[:questionPreviewLen]
	}

	answer := h.Text
	if h.Note != nil && *h.Note != "" {
		answer += "\n\nNote: " + *h.Note
	}

	draft := models.FlashcardDraft{
		Question:          `What is the significance of: "` + string(preview) + `..."?`,
		Answer:            answer,
		Page:              h.Page,
		Difficulty:        models.DifficultyMedium,
		SourceHighlightID: &h.ID,
	}
	if title, ok := ResolveChapter(h.Page, doc.Chapters); ok {
		draft.Chapter = &title
	}
	return draft
}

func (m *HighlightManager) publish(ctx context.Context, action string, id uuid.UUID, payload interface{}) {
	ev := events.Event{
		Collection: events.CollectionHighlights,
		Action:     action,
		DocumentID: m.scope.DocumentID,
		EntityID:   id,
		Payload:    payload,
	}
	if err := m.broker.Publish(ctx, m.scope.UserID, ev); err != nil {
		log.Printf("highlights: failed to publish %s event: %v", action, err)
	}
}
