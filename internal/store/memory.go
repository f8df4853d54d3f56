package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"pagemark-backend/internal/models"
)

// Memory keeps every collection in process memory. Guest users get their
// writes routed here so nothing they create outlives the server; tests use it
// to exercise the managers without Postgres.
type Memory struct {
	mu         sync.RWMutex
	documents  map[uuid.UUID]models.Document
	highlights map[uuid.UUID]models.Highlight
	flashcards map[uuid.UUID]models.Flashcard
}

func NewMemory() *Memory {
	return &Memory{
		documents:  make(map[uuid.UUID]models.Document),
		highlights: make(map[uuid.UUID]models.Highlight),
		flashcards: make(map[uuid.UUID]models.Flashcard),
	}
}

// Documents, Highlights and Flashcards expose the per-collection views so the
// same Memory instance can back all three store interfaces.
func (m *Memory) Documents() DocumentStore   { return (*memDocuments)(m) }
func (m *Memory) Highlights() HighlightStore { return (*memHighlights)(m) }
func (m *Memory) Flashcards() FlashcardStore { return (*memFlashcards)(m) }

type memDocuments Memory

func (s *memDocuments) Create(ctx context.Context, d *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d.ID = uuid.New()
	d.UploadedAt = time.Now()
	if d.Chapters == nil {
		d.Chapters = []models.Chapter{}
	}
	s.documents[d.ID] = *d
	return nil
}

func (s *memDocuments) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.documents[id]
	if !ok || d.UserID != userID {
		return nil, ErrNotFound
	}
	return &d, nil
}

func (s *memDocuments) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var docs []models.Document
	for _, d := range s.documents {
		if d.UserID == userID {
			docs = append(docs, d)
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].UploadedAt.After(docs[j].UploadedAt) })
	return docs, nil
}

func (s *memDocuments) SetChapters(ctx context.Context, id, userID uuid.UUID, chapters []models.Chapter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.documents[id]
	if !ok || d.UserID != userID {
		return ErrNotFound
	}
	d.Chapters = chapters
	s.documents[id] = d
	return nil
}

func (s *memDocuments) SetPageCount(ctx context.Context, id uuid.UUID, totalPages int, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.documents[id]
	if !ok {
		return ErrNotFound
	}
	d.TotalPages = totalPages
	d.Status = status
	s.documents[id] = d
	return nil
}

func (s *memDocuments) Delete(ctx context.Context, id, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.documents[id]
	if !ok || d.UserID != userID {
		return ErrNotFound
	}
	delete(s.documents, id)
	return nil
}

type memHighlights Memory

func (s *memHighlights) Create(ctx context.Context, h *models.Highlight) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	h.ID = uuid.New()
	h.CreatedAt = time.Now()
	s.highlights[h.ID] = *h
	return nil
}

func (s *memHighlights) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Highlight, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.highlights[id]
	if !ok || h.UserID != userID {
		return nil, ErrNotFound
	}
	return &h, nil
}

func (s *memHighlights) ListByDocument(ctx context.Context, documentID, userID uuid.UUID) ([]models.Highlight, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var list []models.Highlight
	for _, h := range s.highlights {
		if h.DocumentID == documentID && h.UserID == userID {
			list = append(list, h)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (s *memHighlights) SetNote(ctx context.Context, id, userID uuid.UUID, note *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.highlights[id]
	if !ok || h.UserID != userID {
		return ErrNotFound
	}
	h.Note = note
	s.highlights[id] = h
	return nil
}

func (s *memHighlights) Delete(ctx context.Context, id, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.highlights[id]
	if !ok || h.UserID != userID {
		return ErrNotFound
	}
	delete(s.highlights, id)
	return nil
}

type memFlashcards Memory

func (s *memFlashcards) Create(ctx context.Context, c *models.Flashcard) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	s.flashcards[c.ID] = *c
	return nil
}

func (s *memFlashcards) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Flashcard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.flashcards[id]
	if !ok || c.UserID != userID {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (s *memFlashcards) ListByDocument(ctx context.Context, documentID, userID uuid.UUID) ([]models.Flashcard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var list []models.Flashcard
	for _, c := range s.flashcards {
		if c.DocumentID == documentID && c.UserID == userID {
			list = append(list, c)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (s *memFlashcards) Update(ctx context.Context, id, userID uuid.UUID, upd models.FlashcardUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.flashcards[id]
	if !ok || c.UserID != userID {
		return ErrNotFound
	}
	if upd.Question != nil {
		c.Question = *upd.Question
	}
	if upd.Answer != nil {
		c.Answer = *upd.Answer
	}
	if upd.Difficulty != nil {
		c.Difficulty = *upd.Difficulty
	}
	s.flashcards[id] = c
	return nil
}

func (s *memFlashcards) Delete(ctx context.Context, id, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.flashcards[id]
	if !ok || c.UserID != userID {
		return ErrNotFound
	}
	delete(s.flashcards, id)
	return nil
}

func (s *memFlashcards) RecordOutcome(ctx context.Context, id, userID uuid.UUID, correct bool) (*models.ReviewStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.flashcards[id]
	if !ok || c.UserID != userID {
		return nil, ErrNotFound
	}
	if correct {
		c.CorrectCount++
	} else {
		c.IncorrectCount++
	}
	now := time.Now()
	c.LastReviewedAt = &now
	s.flashcards[id] = c
	return &models.ReviewStats{
		CorrectCount:   c.CorrectCount,
		IncorrectCount: c.IncorrectCount,
		LastReviewedAt: now,
	}, nil
}
