package store

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"pagemark-backend/internal/models"
)

func TestMemoryDocuments_OwnershipScoping(t *testing.T) {
	memory := NewMemory()
	docs := memory.Documents()
	owner, stranger := uuid.New(), uuid.New()

	d := &models.Document{UserID: owner, Title: "Notes", Status: "ready"}
	if err := docs.Create(context.Background(), d); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if d.ID == uuid.Nil {
		t.Fatal("Expected an assigned ID")
	}

	if _, err := docs.GetByID(context.Background(), d.ID, owner); err != nil {
		t.Errorf("Owner read failed: %v", err)
	}
	if _, err := docs.GetByID(context.Background(), d.ID, stranger); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for another user, got %v", err)
	}
	if err := docs.Delete(context.Background(), d.ID, stranger); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected delete by another user to miss, got %v", err)
	}

	list, err := docs.ListByUser(context.Background(), stranger)
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("Expected empty list for another user, got %d", len(list))
	}
}

func TestMemoryDocuments_SetChaptersAndPageCount(t *testing.T) {
	memory := NewMemory()
	docs := memory.Documents()
	owner := uuid.New()

	d := &models.Document{UserID: owner, Title: "Notes", Status: "processing"}
	if err := docs.Create(context.Background(), d); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	chapters := []models.Chapter{{Title: "One", StartPage: 1, EndPage: 9}}
	if err := docs.SetChapters(context.Background(), d.ID, owner, chapters); err != nil {
		t.Fatalf("SetChapters failed: %v", err)
	}
	if err := docs.SetPageCount(context.Background(), d.ID, 42, "ready"); err != nil {
		t.Fatalf("SetPageCount failed: %v", err)
	}

	got, err := docs.GetByID(context.Background(), d.ID, owner)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.TotalPages != 42 || got.Status != "ready" {
		t.Errorf("Expected 42 pages ready, got %d %q", got.TotalPages, got.Status)
	}
	if len(got.Chapters) != 1 || got.Chapters[0].Title != "One" {
		t.Errorf("Expected stored chapters, got %v", got.Chapters)
	}
}

func TestMemoryHighlights_NoteLifecycle(t *testing.T) {
	memory := NewMemory()
	highlights := memory.Highlights()
	owner := uuid.New()
	docID := uuid.New()

	h := &models.Highlight{DocumentID: docID, UserID: owner, Text: "x", Page: 1}
	if err := highlights.Create(context.Background(), h); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	note := "check this"
	if err := highlights.SetNote(context.Background(), h.ID, owner, &note); err != nil {
		t.Fatalf("SetNote failed: %v", err)
	}
	got, _ := highlights.GetByID(context.Background(), h.ID, owner)
	if got.Note == nil || *got.Note != "check this" {
		t.Errorf("Expected note set, got %v", got.Note)
	}

	if err := highlights.SetNote(context.Background(), h.ID, owner, nil); err != nil {
		t.Fatalf("SetNote clear failed: %v", err)
	}
	got, _ = highlights.GetByID(context.Background(), h.ID, owner)
	if got.Note != nil {
		t.Error("Expected note cleared")
	}

	if err := highlights.Delete(context.Background(), h.ID, owner); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := highlights.GetByID(context.Background(), h.ID, owner); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemoryFlashcards_RecordOutcomeIncrements(t *testing.T) {
	memory := NewMemory()
	cards := memory.Flashcards()
	owner := uuid.New()

	c := &models.Flashcard{DocumentID: uuid.New(), UserID: owner, Question: "q", Answer: "a", Page: 1, Difficulty: "medium"}
	if err := cards.Create(context.Background(), c); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	stats, err := cards.RecordOutcome(context.Background(), c.ID, owner, true)
	if err != nil {
		t.Fatalf("RecordOutcome failed: %v", err)
	}
	if stats.CorrectCount != 1 || stats.IncorrectCount != 0 {
		t.Errorf("Expected 1/0, got %d/%d", stats.CorrectCount, stats.IncorrectCount)
	}

	stats, err = cards.RecordOutcome(context.Background(), c.ID, owner, false)
	if err != nil {
		t.Fatalf("RecordOutcome failed: %v", err)
	}
	if stats.CorrectCount != 1 || stats.IncorrectCount != 1 {
		t.Errorf("Expected 1/1, got %d/%d", stats.CorrectCount, stats.IncorrectCount)
	}
	if stats.LastReviewedAt.IsZero() {
		t.Error("Expected last_reviewed_at stamped")
	}

	if _, err := cards.RecordOutcome(context.Background(), c.ID, uuid.New(), true); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for another user, got %v", err)
	}
}

func TestMemoryFlashcards_UpdatePartial(t *testing.T) {
	memory := NewMemory()
	cards := memory.Flashcards()
	owner := uuid.New()

	c := &models.Flashcard{DocumentID: uuid.New(), UserID: owner, Question: "q", Answer: "a", Page: 1, Difficulty: "easy"}
	if err := cards.Create(context.Background(), c); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	answer := "better answer"
	if err := cards.Update(context.Background(), c.ID, owner, models.FlashcardUpdate{Answer: &answer}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, _ := cards.GetByID(context.Background(), c.ID, owner)
	if got.Answer != "better answer" {
		t.Errorf("Expected updated answer, got %q", got.Answer)
	}
	if got.Question != "q" || got.Difficulty != "easy" {
		t.Error("Expected untouched fields to survive a partial update")
	}
}
