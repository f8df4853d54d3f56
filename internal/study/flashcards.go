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

type FlashcardManager struct {
	scope  Scope
	store  store.FlashcardStore
	broker events.Broker
}

func NewFlashcardManager(scope Scope, st store.FlashcardStore, broker events.Broker) *FlashcardManager {
	return &FlashcardManager{scope: scope, store: st, broker: broker}
}

func validDifficulty(d string) bool {
	return d == models.DifficultyEasy || d == models.DifficultyMedium || d == models.DifficultyHard
}

func (m *FlashcardManager) Create(ctx context.Context, doc *models.Document, draft models.FlashcardDraft) (*models.Flashcard, error) {
	fields := make(map[string]string)
	if strings.TrimSpace(draft.Question) == "" {
		fields["question"] = "Question is required"
	}
	if strings.TrimSpace(draft.Answer) == "" {
		fields["answer"] = "Answer is required"
	}
	if draft.Page < 1 {
		fields["page"] = "Page must be at least 1"
	} else if doc.TotalPages > 0 && draft.Page > doc.TotalPages {
		fields["page"] = fmt.Sprintf("Page must be between 1 and %d", doc.TotalPages)
	}
	difficulty := draft.Difficulty
	if difficulty == "" {
		difficulty = models.DifficultyMedium
	}
	if !validDifficulty(difficulty) {
		fields["difficulty"] = "Difficulty must be easy, medium, or hard"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	chapter := draft.Chapter
	if chapter == nil {
		if title, ok := ResolveChapter(draft.Page, doc.Chapters); ok {
			chapter = &title
		}
	}

	card := &models.Flashcard{
		DocumentID:        m.scope.DocumentID,
		UserID:            m.scope.UserID,
		Question:          draft.Question,
		Answer:            draft.Answer,
		Page:              draft.Page,
		Chapter:           chapter,
		Difficulty:        difficulty,
		SourceHighlightID: draft.SourceHighlightID,
	}
	if err := m.store.Create(ctx, card); err != nil {
		return nil, err
	}

	m.publish(ctx, events.ActionCreated, card.ID, card)
	return card, nil
}

func (m *FlashcardManager) Get(ctx context.Context, id uuid.UUID) (*models.Flashcard, error) {
	return m.store.GetByID(ctx, id, m.scope.UserID)
}

func (m *FlashcardManager) List(ctx context.Context) ([]models.Flashcard, error) {
	return m.store.ListByDocument(ctx, m.scope.DocumentID, m.scope.UserID)
}

// Update applies content-only edits. Review counters have exactly one write
// path, RecordOutcome, and are not reachable from here.
func (m *FlashcardManager) Update(ctx context.Context, id uuid.UUID, upd models.FlashcardUpdate) error {
	fields := make(map[string]string)
	if upd.Question != nil && strings.TrimSpace(*upd.Question) == "" {
		fields["question"] = "Question cannot be empty"
	}
	if upd.Answer != nil && strings.TrimSpace(*upd.Answer) == "" {
		fields["answer"] = "Answer cannot be empty"
	}
	if upd.Difficulty != nil && !validDifficulty(*upd.Difficulty) {
		fields["difficulty"] = "Difficulty must be easy, medium, or hard"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	if err := m.store.Update(ctx, id, m.scope.UserID, upd); err != nil {
		return err
	}
	m.publish(ctx, events.ActionUpdated, id, upd)
	return nil
}

func (m *FlashcardManager) Delete(ctx context.Context, id uuid.UUID) error {
	if err := m.store.Delete(ctx, id, m.scope.UserID); err != nil {
		return err
	}
	m.publish(ctx, events.ActionDeleted, id, nil)
	return nil
}

// RecordOutcome bumps the card's correct or incorrect counter and stamps the
// review time. The increment happens at the store against the latest value,
// so two racing reviews both land.
func (m *FlashcardManager) RecordOutcome(ctx context.Context, id uuid.UUID, correct bool) (*models.ReviewStats, error) {
	stats, err := m.store.RecordOutcome(ctx, id, m.scope.UserID, correct)
	if err != nil {
		return nil, err
	}
	m.publish(ctx, events.ActionUpdated, id, stats)
	return stats, nil
}

// FilterByPage returns the cards pinned to page, preserving input order.
func FilterByPage(cards []models.Flashcard, page int) []models.Flashcard {
	var out []models.Flashcard
	for _, c := range cards {
		if c.Page == page {
			out = append(out, c)
		}
	}
	return out
}

// FilterByChapter returns the cards tagged with chapter, preserving input order.
func FilterByChapter(cards []models.Flashcard, chapter string) []models.Flashcard {
	var out []models.Flashcard
	for _, c := range cards {
		if c.Chapter != nil && *c.Chapter == chapter {
			out = append(out, c)
		}
	}
	return out
}

func (m *FlashcardManager) publish(ctx context.Context, action string, id uuid.UUID, payload interface{}) {
	ev := events.Event{
		Collection: events.CollectionFlashcards,
		Action:     action,
		DocumentID: m.scope.DocumentID,
		EntityID:   id,
		Payload:    payload,
	}
	if err := m.broker.Publish(ctx, m.scope.UserID, ev); err != nil {
		log.Printf("flashcards: failed to publish %s event: %v", action, err)
	}
}
