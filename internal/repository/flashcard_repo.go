package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"pagemark-backend/internal/models"
	"pagemark-backend/internal/store"
)

type FlashcardRepo struct {
	pool *pgxpool.Pool
}

func NewFlashcardRepo(pool *pgxpool.Pool) *FlashcardRepo {
	return &FlashcardRepo{pool: pool}
}

func (r *FlashcardRepo) Create(ctx context.Context, c *models.Flashcard) error {
	c.ID = uuid.New()

	query := `INSERT INTO flashcards (id, document_id, user_id, question, answer, page, chapter, difficulty, correct_count, incorrect_count, source_highlight_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, 0, $9) RETURNING created_at`

	return mapError(r.pool.QueryRow(ctx, query,
		c.ID, c.DocumentID, c.UserID, c.Question, c.Answer, c.Page, c.Chapter, c.Difficulty, c.SourceHighlightID,
	).Scan(&c.CreatedAt))
}

func (r *FlashcardRepo) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Flashcard, error) {
	c := &models.Flashcard{}
	query := `SELECT id, document_id, user_id, question, answer, page, chapter, difficulty,
		correct_count, incorrect_count, last_reviewed_at, source_highlight_id, created_at
		FROM flashcards WHERE id = $1 AND user_id = $2`

	err := r.pool.QueryRow(ctx, query, id, userID).Scan(
		&c.ID, &c.DocumentID, &c.UserID, &c.Question, &c.Answer, &c.Page, &c.Chapter,
		&c.Difficulty, &c.CorrectCount, &c.IncorrectCount, &c.LastReviewedAt, &c.SourceHighlightID, &c.CreatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

func (r *FlashcardRepo) ListByDocument(ctx context.Context, documentID, userID uuid.UUID) ([]models.Flashcard, error) {
	query := `SELECT id, document_id, user_id, question, answer, page, chapter, difficulty,
		correct_count, incorrect_count, last_reviewed_at, source_highlight_id, created_at
		FROM flashcards WHERE document_id = $1 AND user_id = $2 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, documentID, userID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var cards []models.Flashcard
	for rows.Next() {
		c := models.Flashcard{}
		err := rows.Scan(
			&c.ID, &c.DocumentID, &c.UserID, &c.Question, &c.Answer, &c.Page, &c.Chapter,
			&c.Difficulty, &c.CorrectCount, &c.IncorrectCount, &c.LastReviewedAt, &c.SourceHighlightID, &c.CreatedAt,
		)
		if err != nil {
			return nil, mapError(err)
		}
		cards = append(cards, c)
	}
	return cards, nil
}

func (r *FlashcardRepo) Update(ctx context.Context, id, userID uuid.UUID, upd models.FlashcardUpdate) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE flashcards
		SET question = COALESCE($1, question),
			answer = COALESCE($2, answer),
			difficulty = COALESCE($3, difficulty)
		WHERE id = $4 AND user_id = $5
	`, upd.Question, upd.Answer, upd.Difficulty, id, userID)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *FlashcardRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM flashcards WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// RecordOutcome increments in SQL against the stored counters, so concurrent
// reviews from two sessions both count instead of overwriting each other.
func (r *FlashcardRepo) RecordOutcome(ctx context.Context, id, userID uuid.UUID, correct bool) (*models.ReviewStats, error) {
	stats := &models.ReviewStats{}
	query := `
		UPDATE flashcards
		SET correct_count = correct_count + CASE WHEN $1 THEN 1 ELSE 0 END,
			incorrect_count = incorrect_count + CASE WHEN $1 THEN 0 ELSE 1 END,
			last_reviewed_at = NOW()
		WHERE id = $2 AND user_id = $3
		RETURNING correct_count, incorrect_count, last_reviewed_at
	`

	err := r.pool.QueryRow(ctx, query, correct, id, userID).Scan(
		&stats.CorrectCount, &stats.IncorrectCount, &stats.LastReviewedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return stats, nil
}
