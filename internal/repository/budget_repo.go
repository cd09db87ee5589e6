package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"ecopulse/internal/models"
)

// ErrBudgetNotFound represents missing budget rows.
var ErrBudgetNotFound = errors.New("budget not found")

// BudgetRepository handles persistence of carbon budgets.
type BudgetRepository struct {
	db *sql.DB
}

// NewBudgetRepository returns repository instance.
func NewBudgetRepository(db *sql.DB) *BudgetRepository {
	return &BudgetRepository{db: db}
}

// Create inserts a budget.
func (r *BudgetRepository) Create(ctx context.Context, budget *models.CarbonBudget) error {
	const query = `
		INSERT INTO carbon_budgets (user_id, period_start, period_end, co2_grams_limit)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query,
		budget.UserID,
		budget.PeriodStart,
		budget.PeriodEnd,
		budget.CO2GramsLimit,
	).Scan(&budget.ID, &budget.CreatedAt)
}

// FindByUser returns the user's budgets, newest period first.
func (r *BudgetRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]models.CarbonBudget, error) {
	const query = `
		SELECT id, user_id, period_start, period_end, co2_grams_limit, created_at
		FROM carbon_budgets
		WHERE user_id = $1
		ORDER BY period_start DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var budgets []models.CarbonBudget
	for rows.Next() {
		var b models.CarbonBudget
		if err := rows.Scan(&b.ID, &b.UserID, &b.PeriodStart, &b.PeriodEnd, &b.CO2GramsLimit, &b.CreatedAt); err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return budgets, nil
}

// FindByID fetches a single budget.
func (r *BudgetRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.CarbonBudget, error) {
	const query = `
		SELECT id, user_id, period_start, period_end, co2_grams_limit, created_at
		FROM carbon_budgets
		WHERE id = $1
		LIMIT 1
	`
	var b models.CarbonBudget
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&b.ID, &b.UserID, &b.PeriodStart, &b.PeriodEnd, &b.CO2GramsLimit, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBudgetNotFound
		}
		return nil, err
	}
	return &b, nil
}
