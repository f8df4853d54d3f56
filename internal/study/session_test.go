package study

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"pagemark-backend/internal/models"
)

type stubRecorder struct {
	err   error
	calls []uuid.UUID
}

func (s *stubRecorder) RecordOutcome(ctx context.Context, id uuid.UUID, correct bool) (*models.ReviewStats, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.calls = append(s.calls, id)
	return &models.ReviewStats{CorrectCount: 1}, nil
}

func makePool(n int) []models.Flashcard {
	chapter := "Intro"
	pool := make([]models.Flashcard, n)
	for i := range pool {
		pool[i] = models.Flashcard{
			ID:       uuid.New(),
			Question: "q",
			Answer:   "a",
			Page:     i + 1,
			Chapter:  &chapter,
		}
	}
	return pool
}

func TestStartQuiz_EmptyPool(t *testing.T) {
	_, err := StartQuiz(uuid.New(), nil, Selector{Mode: SelectAll})
	if !errors.Is(err, ErrEmptyPool) {
		t.Errorf("Expected ErrEmptyPool, got %v", err)
	}

	// A selector that filters everything out is just as empty
	pool := makePool(3)
	_, err = StartQuiz(uuid.New(), pool, Selector{Mode: SelectPage, Page: 99})
	if !errors.Is(err, ErrEmptyPool) {
		t.Errorf("Expected ErrEmptyPool for page with no cards, got %v", err)
	}
}

func TestStartQuiz_InvalidMode(t *testing.T) {
	_, err := StartQuiz(uuid.New(), makePool(3), Selector{Mode: "random"})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
	if _, ok := ve.Fields["mode"]; !ok {
		t.Error("Expected a field error on mode")
	}
}

func TestStartQuiz_ShufflePreservesCards(t *testing.T) {
	pool := makePool(10)
	session, err := StartQuiz(uuid.New(), pool, Selector{})
	if err != nil {
		t.Fatalf("StartQuiz failed: %v", err)
	}

	if session.TotalQuestions != 10 {
		t.Errorf("Expected 10 questions, got %d", session.TotalQuestions)
	}
	if session.CurrentIndex != 0 || session.Score != 0 || session.Completed {
		t.Error("Expected a fresh session")
	}

	want := make(map[uuid.UUID]bool, len(pool))
	for _, c := range pool {
		want[c.ID] = true
	}
	for _, id := range session.CardIDs {
		if !want[id] {
			t.Errorf("Session holds unknown card %s", id)
		}
		delete(want, id)
	}
	if len(want) != 0 {
		t.Errorf("%d cards from the pool are missing", len(want))
	}
}

func TestStartQuiz_Selectors(t *testing.T) {
	chapterA, chapterB := "A", "B"
	pool := []models.Flashcard{
		{ID: uuid.New(), Page: 1, Chapter: &chapterA},
		{ID: uuid.New(), Page: 2, Chapter: &chapterA},
		{ID: uuid.New(), Page: 3, Chapter: &chapterB},
	}

	session, err := StartQuiz(uuid.New(), pool, Selector{Mode: SelectChapter, Chapter: "A"})
	if err != nil {
		t.Fatalf("StartQuiz failed: %v", err)
	}
	if session.TotalQuestions != 2 {
		t.Errorf("Expected 2 cards for chapter A, got %d", session.TotalQuestions)
	}

	session, err = StartQuiz(uuid.New(), pool, Selector{Mode: SelectPage, Page: 3})
	if err != nil {
		t.Fatalf("StartQuiz failed: %v", err)
	}
	if session.TotalQuestions != 1 {
		t.Errorf("Expected 1 card for page 3, got %d", session.TotalQuestions)
	}
}

func TestQuizSession_PerfectRun(t *testing.T) {
	pool := makePool(3)
	session, err := StartQuiz(uuid.New(), pool, Selector{})
	if err != nil {
		t.Fatalf("StartQuiz failed: %v", err)
	}

	recorder := &stubRecorder{}
	for i := 0; i < 3; i++ {
		if _, err := session.SubmitAnswer(context.Background(), recorder, true); err != nil {
			t.Fatalf("SubmitAnswer %d failed: %v", i, err)
		}
	}

	if !session.Completed {
		t.Fatal("Expected session completed after last answer")
	}
	if len(recorder.calls) != 3 {
		t.Errorf("Expected 3 recorded outcomes, got %d", len(recorder.calls))
	}

	summary, err := session.Summary()
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if summary.Score != 3 || summary.TotalQuestions != 3 || summary.Percentage != 100 {
		t.Errorf("Expected 3/3 (100%%), got %d/%d (%d%%)", summary.Score, summary.TotalQuestions, summary.Percentage)
	}
}

func TestQuizSession_PercentageRounds(t *testing.T) {
	tests := []struct {
		name     string
		answers  []bool
		expected int
	}{
		{"one of three", []bool{true, false, false}, 33},
		{"two of three", []bool{true, true, false}, 67},
		{"none", []bool{false, false, false}, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			session, err := StartQuiz(uuid.New(), makePool(len(tc.answers)), Selector{})
			if err != nil {
				t.Fatalf("StartQuiz failed: %v", err)
			}
			recorder := &stubRecorder{}
			for _, correct := range tc.answers {
				if _, err := session.SubmitAnswer(context.Background(), recorder, correct); err != nil {
					t.Fatalf("SubmitAnswer failed: %v", err)
				}
			}
			summary, err := session.Summary()
			if err != nil {
				t.Fatalf("Summary failed: %v", err)
			}
			if summary.Percentage != tc.expected {
				t.Errorf("Expected %d%%, got %d%%", tc.expected, summary.Percentage)
			}
		})
	}
}

func TestQuizSession_SubmitAfterCompleted(t *testing.T) {
	session, err := StartQuiz(uuid.New(), makePool(1), Selector{})
	if err != nil {
		t.Fatalf("StartQuiz failed: %v", err)
	}

	recorder := &stubRecorder{}
	if _, err := session.SubmitAnswer(context.Background(), recorder, true); err != nil {
		t.Fatalf("SubmitAnswer failed: %v", err)
	}

	_, err = session.SubmitAnswer(context.Background(), recorder, true)
	if !errors.Is(err, ErrSessionCompleted) {
		t.Errorf("Expected ErrSessionCompleted, got %v", err)
	}
	if session.Score != 1 || session.CurrentIndex != 1 {
		t.Error("Rejected submit must not change the session")
	}
	if len(recorder.calls) != 1 {
		t.Errorf("Expected no outcome recorded after completion, got %d calls", len(recorder.calls))
	}
}

func TestQuizSession_FailedRecorderLeavesSessionUnchanged(t *testing.T) {
	session, err := StartQuiz(uuid.New(), makePool(2), Selector{})
	if err != nil {
		t.Fatalf("StartQuiz failed: %v", err)
	}

	recorder := &stubRecorder{err: errors.New("backend down")}
	_, err = session.SubmitAnswer(context.Background(), recorder, true)
	if err == nil {
		t.Fatal("Expected an error from the failing recorder")
	}

	if session.CurrentIndex != 0 || session.Score != 0 || session.Completed {
		t.Error("Failed stat write must leave the session exactly as it was")
	}

	// Same answer succeeds once the backend recovers
	recorder.err = nil
	if _, err := session.SubmitAnswer(context.Background(), recorder, true); err != nil {
		t.Fatalf("Retry failed: %v", err)
	}
	if session.CurrentIndex != 1 || session.Score != 1 {
		t.Errorf("Expected index 1 score 1 after retry, got %d/%d", session.CurrentIndex, session.Score)
	}
}

func TestQuizSession_ScoreNeverExceedsIndex(t *testing.T) {
	session, err := StartQuiz(uuid.New(), makePool(5), Selector{})
	if err != nil {
		t.Fatalf("StartQuiz failed: %v", err)
	}

	recorder := &stubRecorder{}
	answers := []bool{true, false, true, true, false}
	for _, correct := range answers {
		if session.Score > session.CurrentIndex {
			t.Fatalf("Invariant broken: score %d > index %d", session.Score, session.CurrentIndex)
		}
		if _, err := session.SubmitAnswer(context.Background(), recorder, correct); err != nil {
			t.Fatalf("SubmitAnswer failed: %v", err)
		}
	}
	if session.Score != 3 {
		t.Errorf("Expected score 3, got %d", session.Score)
	}
}

func TestQuizSession_SummaryWhileActive(t *testing.T) {
	session, err := StartQuiz(uuid.New(), makePool(2), Selector{})
	if err != nil {
		t.Fatalf("StartQuiz failed: %v", err)
	}

	_, err = session.Summary()
	if !errors.Is(err, ErrSessionActive) {
		t.Errorf("Expected ErrSessionActive, got %v", err)
	}
}

func TestQuizSession_CurrentQuestion(t *testing.T) {
	pool := makePool(2)
	session, err := StartQuiz(uuid.New(), pool, Selector{})
	if err != nil {
		t.Fatalf("StartQuiz failed: %v", err)
	}

	q := session.CurrentQuestion(pool)
	if q == nil {
		t.Fatal("Expected a current question")
	}
	if q.ID != session.CardIDs[0] {
		t.Error("Expected the first shuffled card")
	}

	// The current card vanished from the snapshot mid-run
	var without []models.Flashcard
	for _, c := range pool {
		if c.ID != session.CardIDs[0] {
			without = append(without, c)
		}
	}
	if session.CurrentQuestion(without) != nil {
		t.Error("Expected nil for a deleted card")
	}

	// Completed sessions have no current question
	recorder := &stubRecorder{}
	session.SubmitAnswer(context.Background(), recorder, true)
	session.SubmitAnswer(context.Background(), recorder, false)
	if session.CurrentQuestion(pool) != nil {
		t.Error("Expected nil after completion")
	}
}

func TestSessionRegistry_Ownership(t *testing.T) {
	registry := NewSessionRegistry(time.Hour)

	owner := uuid.New()
	session, err := StartQuiz(owner, makePool(1), Selector{})
	if err != nil {
		t.Fatalf("StartQuiz failed: %v", err)
	}
	registry.Put(session)

	if _, ok := registry.Get(session.ID, owner); !ok {
		t.Error("Owner should see their session")
	}
	if _, ok := registry.Get(session.ID, uuid.New()); ok {
		t.Error("Another user must not see the session")
	}
	if _, ok := registry.Get(uuid.New(), owner); ok {
		t.Error("Unknown session ID must miss")
	}

	registry.Remove(session.ID)
	if _, ok := registry.Get(session.ID, owner); ok {
		t.Error("Removed session should be gone")
	}
}
