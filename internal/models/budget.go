package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CarbonBudget is a user-declared CO2 cap for a time window. Usage is never
// stored on the row; it is recomputed from emission records at query time.
type CarbonBudget struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	UserID        uuid.UUID       `db:"user_id" json:"user_id"`
	PeriodStart   time.Time       `db:"period_start" json:"period_start"`
	PeriodEnd     time.Time       `db:"period_end" json:"period_end"`
	CO2GramsLimit decimal.Decimal `db:"co2_grams_limit" json:"co2_grams_limit"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}
