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

type DocumentRepo struct {
	pool *pgxpool.Pool
}

func NewDocumentRepo(pool *pgxpool.Pool) *DocumentRepo {
	return &DocumentRepo{pool: pool}
}

func (r *DocumentRepo) Create(ctx context.Context, d *models.Document) error {
	d.ID = uuid.New()
	if d.Chapters == nil {
		d.Chapters = []models.Chapter{}
	}
	chaptersJSON, err := json.Marshal(d.Chapters)
	if err != nil {
		return fmt.Errorf("failed to encode chapters: %w", err)
	}

	query := `INSERT INTO documents (id, user_id, title, file_name, file_path, total_pages, status, chapters_json)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING uploaded_at`

	return mapError(r.pool.QueryRow(ctx, query,
		d.ID, d.UserID, d.Title, d.FileName, d.FilePath, d.TotalPages, d.Status, chaptersJSON,
	).Scan(&d.UploadedAt))
}

func (r *DocumentRepo) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Document, error) {
	d := &models.Document{}
	var chaptersJSON []byte
	query := `SELECT id, user_id, title, file_name, file_path, total_pages, status, chapters_json, uploaded_at
		FROM documents WHERE id = $1 AND user_id = $2`

	err := r.pool.QueryRow(ctx, query, id, userID).Scan(
		&d.ID, &d.UserID, &d.Title, &d.FileName, &d.FilePath, &d.TotalPages, &d.Status, &chaptersJSON, &d.UploadedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	if err := json.Unmarshal(chaptersJSON, &d.Chapters); err != nil {
		return nil, fmt.Errorf("failed to decode chapters: %w", err)
	}
	return d, nil
}

func (r *DocumentRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Document, error) {
	query := `SELECT id, user_id, title, file_name, file_path, total_pages, status, chapters_json, uploaded_at
		FROM documents WHERE user_id = $1 ORDER BY uploaded_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		d := models.Document{}
		var chaptersJSON []byte
		err := rows.Scan(&d.ID, &d.UserID, &d.Title, &d.FileName, &d.FilePath, &d.TotalPages, &d.Status, &chaptersJSON, &d.UploadedAt)
		if err != nil {
			return nil, mapError(err)
		}
		if err := json.Unmarshal(chaptersJSON, &d.Chapters); err != nil {
			return nil, fmt.Errorf("failed to decode chapters: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, nil
}

func (r *DocumentRepo) SetChapters(ctx context.Context, id, userID uuid.UUID, chapters []models.Chapter) error {
	if chapters == nil {
		chapters = []models.Chapter{}
	}
	chaptersJSON, err := json.Marshal(chapters)
	if err != nil {
		return fmt.Errorf("failed to encode chapters: %w", err)
	}

	tag, err := r.pool.Exec(ctx,
		"UPDATE documents SET chapters_json = $1 WHERE id = $2 AND user_id = $3",
		chaptersJSON, id, userID,
	)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *DocumentRepo) SetPageCount(ctx context.Context, id uuid.UUID, totalPages int, status string) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE documents SET total_pages = $1, status = $2 WHERE id = $3",
		totalPages, status, id,
	)
	return mapError(err)
}

func (r *DocumentRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM documents WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
