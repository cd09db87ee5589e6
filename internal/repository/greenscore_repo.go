package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"ecopulse/internal/models"
)

// GreenScoreRepository persists per-event green score history.
type GreenScoreRepository struct {
	db *sql.DB
}

// NewGreenScoreRepository returns repository instance.
func NewGreenScoreRepository(db *sql.DB) *GreenScoreRepository {
	return &GreenScoreRepository{db: db}
}

// Create inserts a score entry.
func (r *GreenScoreRepository) Create(ctx context.Context, entry *models.GreenScoreEntry) error {
	const query = `
		INSERT INTO green_scores (user_id, score, reason)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query, entry.UserID, entry.Score, entry.Reason).
		Scan(&entry.ID, &entry.CreatedAt)
}

// FindByUser returns the user's most recent score entries.
func (r *GreenScoreRepository) FindByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.GreenScoreEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `
		SELECT id, user_id, created_at, score, reason
		FROM green_scores
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.GreenScoreEntry
	for rows.Next() {
		var e models.GreenScoreEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.CreatedAt, &e.Score, &e.Reason); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
