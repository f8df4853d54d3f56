package study

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"pagemark-backend/internal/models"
)

// Quiz selector modes.
const (
	SelectAll     = "all"
	SelectChapter = "chapter"
	SelectPage    = "page"
)

// Selector narrows the candidate pool for a quiz run.
type Selector struct {
	Mode    string
	Chapter string
	Page    int
}

// QuizSession is one linear pass over a shuffled card pool. It lives only in
// memory: created by StartQuiz, advanced by SubmitAnswer, and discarded when
// the owner walks away. There is no way back from completed; a new run means
// a new session.
type QuizSession struct {
	ID             uuid.UUID   `json:"id"`
	UserID         uuid.UUID   `json:"-"`
	DocumentID     uuid.UUID   `json:"document_id"`
	CardIDs        []uuid.UUID `json:"card_ids"`
	CurrentIndex   int         `json:"current_index"`
	Score          int         `json:"score"`
	TotalQuestions int         `json:"total_questions"`
	Completed      bool        `json:"completed"`
	StartedAt      time.Time   `json:"started_at"`

	mu         sync.Mutex
	lastActive time.Time
}

// OutcomeRecorder is the one write path for review stats; FlashcardManager
// satisfies it.
type OutcomeRecorder interface {
	RecordOutcome(ctx context.Context, id uuid.UUID, correct bool) (*models.ReviewStats, error)
}

// StartQuiz applies the selector to the caller's pool snapshot, shuffles the
// survivors, and returns a fresh in-progress session. ErrEmptyPool if nothing
// matched. No I/O happens here.
func StartQuiz(userID uuid.UUID, pool []models.Flashcard, sel Selector) (*QuizSession, error) {
	candidates := pool
	switch sel.Mode {
	case "", SelectAll:
	case SelectChapter:
		candidates = FilterByChapter(pool, sel.Chapter)
	case SelectPage:
		candidates = FilterByPage(pool, sel.Page)
	default:
		return nil, &ValidationError{Fields: map[string]string{"mode": "Mode must be all, chapter, or page"}}
	}
	if len(candidates) == 0 {
		return nil, ErrEmptyPool
	}

	ids := make([]uuid.UUID, len(candidates))
	for i, c := range candidates {
		ids[i] = c.ID
	}
	rand.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })

	now := time.Now()
	return &QuizSession{
		ID:             uuid.New(),
		UserID:         userID,
		CardIDs:        ids,
		TotalQuestions: len(ids),
		StartedAt:      now,
		lastActive:     now,
	}, nil
}

// CurrentQuestion resolves the card the session is waiting on against the
// caller's latest snapshot. Nil when the session is completed or the card was
// deleted mid-run; the caller skips or aborts, never crashes.
func (s *QuizSession) CurrentQuestion(cards []models.Flashcard) *models.Flashcard {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Completed {
		return nil
	}
	id := s.CardIDs[s.CurrentIndex]
	for i := range cards {
		if cards[i].ID == id {
			return &cards[i]
		}
	}
	return nil
}

// SubmitAnswer records the outcome on the current card, then advances the
// session. The stat write goes first: if it fails the session is left exactly
// as it was, which keeps score <= currentIndex and lets the caller re-check
// the card's stats before retrying.
func (s *QuizSession) SubmitAnswer(ctx context.Context, recorder OutcomeRecorder, correct bool) (*models.ReviewStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Completed {
		return nil, ErrSessionCompleted
	}

	stats, err := recorder.RecordOutcome(ctx, s.CardIDs[s.CurrentIndex], correct)
	if err != nil {
		return nil, err
	}

	s.CurrentIndex++
	if correct {
		s.Score++
	}
	s.Completed = s.CurrentIndex == s.TotalQuestions
	s.lastActive = time.Now()
	return stats, nil
}

// Summary is only defined once the session has completed. TotalQuestions is
// never zero because StartQuiz rejects empty pools.
func (s *QuizSession) Summary() (*models.QuizSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.Completed {
		return nil, ErrSessionActive
	}
	return &models.QuizSummary{
		Score:          s.Score,
		TotalQuestions: s.TotalQuestions,
		Percentage:     int(math.Round(float64(s.Score) / float64(s.TotalQuestions) * 100)),
	}, nil
}

func (s *QuizSession) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}
