package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"ecopulse/internal/models"
)

// EmissionRepository persists the append-only emission ledger. Records are
// inserted once and never updated.
type EmissionRepository struct {
	db *sql.DB
}

// NewEmissionRepository returns repository instance.
func NewEmissionRepository(db *sql.DB) *EmissionRepository {
	return &EmissionRepository{db: db}
}

// Create appends a record to the ledger.
func (r *EmissionRepository) Create(ctx context.Context, record *models.EmissionRecord) error {
	const query = `
		INSERT INTO emission_records (
			user_id, model, region, tokens, runtime_seconds,
			model_power_factor, region_carbon_intensity, water_factor,
			energy_kwh, co2_grams, water_liters, green_score
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query,
		record.UserID,
		record.Model,
		record.Region,
		record.Tokens,
		record.RuntimeSeconds,
		record.ModelPowerFactor,
		record.RegionCarbonIntensity,
		record.WaterFactor,
		record.EnergyKWh,
		record.CO2Grams,
		record.WaterLiters,
		record.GreenScore,
	).Scan(&record.ID, &record.CreatedAt)
}

// FindByUser returns the user's most recent records.
func (r *EmissionRepository) FindByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.EmissionRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `
		SELECT id, user_id, created_at, model, region, tokens, runtime_seconds,
		       model_power_factor, region_carbon_intensity, water_factor,
		       energy_kwh, co2_grams, water_liters, green_score
		FROM emission_records
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.EmissionRecord
	for rows.Next() {
		var rec models.EmissionRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.UserID,
			&rec.CreatedAt,
			&rec.Model,
			&rec.Region,
			&rec.Tokens,
			&rec.RuntimeSeconds,
			&rec.ModelPowerFactor,
			&rec.RegionCarbonIntensity,
			&rec.WaterFactor,
			&rec.EnergyKWh,
			&rec.CO2Grams,
			&rec.WaterLiters,
			&rec.GreenScore,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// SumCO2GramsBetween aggregates CO2 over the inclusive window [from, to].
// The window sum runs in the database against the (user_id, created_at)
// index rather than scanning a bounded page of recent rows.
func (r *EmissionRepository) SumCO2GramsBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	const query = `
		SELECT COALESCE(SUM(co2_grams), 0)
		FROM emission_records
		WHERE user_id = $1
		  AND created_at >= $2
		  AND created_at <= $3
	`
	var total decimal.Decimal
	if err := r.db.QueryRowContext(ctx, query, userID, from, to).Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// UsageTotals aggregates a user's footprint, optionally bounded by time.
type UsageTotals struct {
	Tokens      int64           `json:"tokens"`
	EnergyKWh   decimal.Decimal `json:"energy_kwh"`
	CO2Grams    decimal.Decimal `json:"co2_grams"`
	WaterLiters decimal.Decimal `json:"water_liters"`
}

// SummarizeBetween totals tokens, energy, CO2 and water for the user. Nil
// bounds leave that side of the window open.
func (r *EmissionRepository) SummarizeBetween(ctx context.Context, userID uuid.UUID, from, to *time.Time) (UsageTotals, error) {
	const query = `
		SELECT COALESCE(SUM(tokens), 0),
		       COALESCE(SUM(energy_kwh), 0),
		       COALESCE(SUM(co2_grams), 0),
		       COALESCE(SUM(water_liters), 0)
		FROM emission_records
		WHERE user_id = $1
		  AND ($2::timestamptz IS NULL OR created_at >= $2)
		  AND ($3::timestamptz IS NULL OR created_at <= $3)
	`
	var totals UsageTotals
	if err := r.db.QueryRowContext(ctx, query, userID, from, to).Scan(
		&totals.Tokens,
		&totals.EnergyKWh,
		&totals.CO2Grams,
		&totals.WaterLiters,
	); err != nil {
		return UsageTotals{}, err
	}
	return totals, nil
}
