package study

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"pagemark-backend/internal/events"
	"pagemark-backend/internal/models"
	"pagemark-backend/internal/store"
)

func newFlashcardFixture(t *testing.T) (*FlashcardManager, *models.Document) {
	t.Helper()
	userID := uuid.New()
	doc := testDoc(userID)
	mgr := NewFlashcardManager(Scope{UserID: userID, DocumentID: doc.ID}, store.NewMemory().Flashcards(), events.NewMemoryBroker())
	return mgr, doc
}

func TestFlashcardManager_CreateValidation(t *testing.T) {
	mgr, doc := newFlashcardFixture(t)

	tests := []struct {
		name  string
		draft models.FlashcardDraft
		field string
	}{
		{"empty question", models.FlashcardDraft{Question: " ", Answer: "a", Page: 1}, "question"},
		{"empty answer", models.FlashcardDraft{Question: "q", Answer: "", Page: 1}, "answer"},
		{"page zero", models.FlashcardDraft{Question: "q", Answer: "a", Page: 0}, "page"},
		{"page past the end", models.FlashcardDraft{Question: "q", Answer: "a", Page: 51}, "page"},
		{"bad difficulty", models.FlashcardDraft{Question: "q", Answer: "a", Page: 1, Difficulty: "impossible"}, "difficulty"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := mgr.Create(context.Background(), doc, tc.draft)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Expected ValidationError, got %v", err)
			}
			if _, ok := ve.Fields[tc.field]; !ok {
				t.Errorf("Expected a field error on %q, got %v", tc.field, ve.Fields)
			}
		})
	}
}

func TestFlashcardManager_CreateDefaults(t *testing.T) {
	mgr, doc := newFlashcardFixture(t)

	card, err := mgr.Create(context.Background(), doc, models.FlashcardDraft{
		Question: "What is a limit?", Answer: "The value a function approaches", Page: 5,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if card.Difficulty != models.DifficultyMedium {
		t.Errorf("Expected default medium difficulty, got %q", card.Difficulty)
	}
	if card.Chapter == nil || *card.Chapter != "Limits" {
		t.Errorf("Expected chapter resolved from page 5, got %v", card.Chapter)
	}
	if card.CorrectCount != 0 || card.IncorrectCount != 0 || card.LastReviewedAt != nil {
		t.Error("Expected fresh review counters")
	}

	// An explicit chapter wins over page resolution
	custom := "Custom"
	card, err = mgr.Create(context.Background(), doc, models.FlashcardDraft{
		Question: "q", Answer: "a", Page: 5, Chapter: &custom,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if card.Chapter == nil || *card.Chapter != "Custom" {
		t.Errorf("Expected explicit chapter kept, got %v", card.Chapter)
	}
}

func TestFlashcardManager_UpdateValidation(t *testing.T) {
	mgr, doc := newFlashcardFixture(t)

	card, err := mgr.Create(context.Background(), doc, models.FlashcardDraft{Question: "q", Answer: "a", Page: 1})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	empty := "  "
	err = mgr.Update(context.Background(), card.ID, models.FlashcardUpdate{Question: &empty})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Expected ValidationError for blank question, got %v", err)
	}

	newQ, newD := "Updated?", models.DifficultyHard
	if err := mgr.Update(context.Background(), card.ID, models.FlashcardUpdate{Question: &newQ, Difficulty: &newD}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, _ := mgr.Get(context.Background(), card.ID)
	if got.Question != "Updated?" || got.Difficulty != models.DifficultyHard {
		t.Errorf("Expected updated fields, got %q / %q", got.Question, got.Difficulty)
	}
	if got.Answer != "a" {
		t.Errorf("Expected untouched answer, got %q", got.Answer)
	}
}

func TestFlashcardManager_RecordOutcome(t *testing.T) {
	mgr, doc := newFlashcardFixture(t)

	card, err := mgr.Create(context.Background(), doc, models.FlashcardDraft{Question: "q", Answer: "a", Page: 1})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	for _, correct := range []bool{true, true, false} {
		if _, err := mgr.RecordOutcome(context.Background(), card.ID, correct); err != nil {
			t.Fatalf("RecordOutcome failed: %v", err)
		}
	}

	got, _ := mgr.Get(context.Background(), card.ID)
	if got.CorrectCount != 2 || got.IncorrectCount != 1 {
		t.Errorf("Expected 2 correct / 1 incorrect, got %d/%d", got.CorrectCount, got.IncorrectCount)
	}
	if got.LastReviewedAt == nil {
		t.Error("Expected last_reviewed_at stamped")
	}

	if _, err := mgr.RecordOutcome(context.Background(), uuid.New(), true); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown card, got %v", err)
	}
}

func TestFilterByPageAndChapter(t *testing.T) {
	a, b := "A", "B"
	cards := []models.Flashcard{
		{ID: uuid.New(), Page: 1, Chapter: &a},
		{ID: uuid.New(), Page: 2, Chapter: &a},
		{ID: uuid.New(), Page: 1, Chapter: &b},
		{ID: uuid.New(), Page: 3},
	}

	byPage := FilterByPage(cards, 1)
	if len(byPage) != 2 {
		t.Fatalf("Expected 2 cards on page 1, got %d", len(byPage))
	}
	if byPage[0].ID != cards[0].ID || byPage[1].ID != cards[2].ID {
		t.Error("Expected input order preserved")
	}

	byChapter := FilterByChapter(cards, "A")
	if len(byChapter) != 2 {
		t.Fatalf("Expected 2 cards in chapter A, got %d", len(byChapter))
	}

	// Untagged cards never match a chapter filter
	if got := FilterByChapter(cards, ""); len(got) != 0 {
		t.Errorf("Expected no matches for empty chapter, got %d", len(got))
	}

	if got := FilterByPage(cards, 9); len(got) != 0 {
		t.Errorf("Expected no matches, got %d", len(got))
	}
}
