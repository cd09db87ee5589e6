package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ecopulse/internal/models"
)

// Budget errors. Access denial is deliberate and final: a budget query for
// another user's budget returns no partial data.
var (
	ErrBudgetAccessDenied = errors.New("budget: access denied")
	ErrInvalidPeriod      = errors.New("budget: period start must precede period end")
	ErrInvalidLimit       = errors.New("budget: co2 limit must be positive")
)

// BudgetStore is the persistence contract for budgets.
type BudgetStore interface {
	Create(ctx context.Context, budget *models.CarbonBudget) error
	FindByUser(ctx context.Context, userID uuid.UUID) ([]models.CarbonBudget, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.CarbonBudget, error)
}

// EmissionAggregator sums accounted CO2 over an inclusive window.
type EmissionAggregator interface {
	SumCO2GramsBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) (decimal.Decimal, error)
}

// BudgetService tracks user-declared CO2 caps. Usage is never stored on the
// budget; every status query recomputes it from the emission ledger.
type BudgetService struct {
	budgets   BudgetStore
	emissions EmissionAggregator
	logger    *zap.Logger
}

// NewBudgetService builds the tracker.
func NewBudgetService(budgets BudgetStore, emissions EmissionAggregator, logger *zap.Logger) *BudgetService {
	return &BudgetService{budgets: budgets, emissions: emissions, logger: logger}
}

// CreateBudgetInput declares a new cap.
type CreateBudgetInput struct {
	PeriodStart   time.Time
	PeriodEnd     time.Time
	CO2GramsLimit decimal.Decimal
}

// Create validates and stores a budget.
func (s *BudgetService) Create(ctx context.Context, userID uuid.UUID, input CreateBudgetInput) (*models.CarbonBudget, error) {
	if !input.PeriodStart.Before(input.PeriodEnd) {
		return nil, ErrInvalidPeriod
	}
	if input.CO2GramsLimit.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidLimit
	}

	budget := &models.CarbonBudget{
		UserID:        userID,
		PeriodStart:   input.PeriodStart.UTC(),
		PeriodEnd:     input.PeriodEnd.UTC(),
		CO2GramsLimit: input.CO2GramsLimit,
	}
	if err := s.budgets.Create(ctx, budget); err != nil {
		return nil, err
	}
	return budget, nil
}

// List returns the user's budgets, newest period first.
func (s *BudgetService) List(ctx context.Context, userID uuid.UUID) ([]models.CarbonBudget, error) {
	return s.budgets.FindByUser(ctx, userID)
}

// BudgetStatus reports a budget against the usage accounted in its window.
// Remaining may be negative; an overrun is a reportable state, not an error.
type BudgetStatus struct {
	Budget            models.CarbonBudget `json:"budget"`
	UsedCO2Grams      decimal.Decimal     `json:"used_co2_grams"`
	RemainingCO2Grams decimal.Decimal     `json:"remaining_co2_grams"`
}

// Status recomputes usage for the budget's inclusive window [start, end].
func (s *BudgetService) Status(ctx context.Context, userID, budgetID uuid.UUID) (*BudgetStatus, error) {
	budget, err := s.budgets.FindByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	if budget.UserID != userID {
		return nil, ErrBudgetAccessDenied
	}

	used, err := s.emissions.SumCO2GramsBetween(ctx, userID, budget.PeriodStart, budget.PeriodEnd)
	if err != nil {
		return nil, err
	}

	return &BudgetStatus{
		Budget:            *budget,
		UsedCO2Grams:      used,
		RemainingCO2Grams: budget.CO2GramsLimit.Sub(used),
	}, nil
}
