package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"pagemark-backend/internal/models"
	"pagemark-backend/internal/store"
)

type HighlightRepo struct {
	pool *pgxpool.Pool
}

func NewHighlightRepo(pool *pgxpool.Pool) *HighlightRepo {
	return &HighlightRepo{pool: pool}
}

func (r *HighlightRepo) Create(ctx context.Context, h *models.Highlight) error {
	h.ID = uuid.New()
	positionJSON, err := json.Marshal(h.Position)
	if err != nil {
		return fmt.Errorf("failed to encode position: %w", err)
	}

	query := `INSERT INTO highlights (id, document_id, user_id, text, page, position_json, color, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING created_at`

	return mapError(r.pool.QueryRow(ctx, query,
		h.ID, h.DocumentID, h.UserID, h.Text, h.Page, positionJSON, h.Color, h.Note,
	).Scan(&h.CreatedAt))
}

func (r *HighlightRepo) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Highlight, error) {
	h := &models.Highlight{}
	var positionJSON []byte
	query := `SELECT id, document_id, user_id, text, page, position_json, color, note, created_at
		FROM highlights WHERE id = $1 AND user_id = $2`

	err := r.pool.QueryRow(ctx, query, id, userID).Scan(
		&h.ID, &h.DocumentID, &h.UserID, &h.Text, &h.Page, &positionJSON, &h.Color, &h.Note, &h.CreatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	if err := json.Unmarshal(positionJSON, &h.Position); err != nil {
		return nil, fmt.Errorf("failed to decode position: %w", err)
	}
	return h, nil
}

func (r *HighlightRepo) ListByDocument(ctx context.Context, documentID, userID uuid.UUID) ([]models.Highlight, error) {
	query := `SELECT id, document_id, user_id, text, page, position_json, color, note, created_at
		FROM highlights WHERE document_id = $1 AND user_id = $2 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, documentID, userID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var list []models.Highlight
	for rows.Next() {
		h := models.Highlight{}
		var positionJSON []byte
		err := rows.Scan(&h.ID, &h.DocumentID, &h.UserID, &h.Text, &h.Page, &positionJSON, &h.Color, &h.Note, &h.CreatedAt)
		if err != nil {
			return nil, mapError(err)
		}
		if err := json.Unmarshal(positionJSON, &h.Position); err != nil {
			return nil, fmt.Errorf("failed to decode position: %w", err)
		}
		list = append(list, h)
	}
	return list, nil
}

func (r *HighlightRepo) SetNote(ctx context.Context, id, userID uuid.UUID, note *string) error {
	tag, err := r.pool.Exec(ctx,
		"UPDATE highlights SET note = $1 WHERE id = $2 AND user_id = $3",
		note, id, userID,
	)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *HighlightRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM highlights WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
