package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EmissionRecord is one accounted usage event. Records are append-only:
// every input and every computed quantity is snapshotted at accounting time
// so totals stay reproducible even when regional data changes later.
type EmissionRecord struct {
	ID                    uuid.UUID       `db:"id" json:"id"`
	UserID                uuid.UUID       `db:"user_id" json:"user_id"`
	CreatedAt             time.Time       `db:"created_at" json:"created_at"`
	Model                 string          `db:"model" json:"model"`
	Region                string          `db:"region" json:"region"`
	Tokens                int64           `db:"tokens" json:"tokens"`
	RuntimeSeconds        float64         `db:"runtime_seconds" json:"runtime_seconds"`
	ModelPowerFactor      decimal.Decimal `db:"model_power_factor" json:"model_power_factor"`
	RegionCarbonIntensity decimal.Decimal `db:"region_carbon_intensity" json:"region_carbon_intensity"`
	WaterFactor           decimal.Decimal `db:"water_factor" json:"water_factor"`
	EnergyKWh             decimal.Decimal `db:"energy_kwh" json:"energy_kwh"`
	CO2Grams              decimal.Decimal `db:"co2_grams" json:"co2_grams"`
	WaterLiters           decimal.Decimal `db:"water_liters" json:"water_liters"`
	GreenScore            int             `db:"green_score" json:"green_score"`
}

// GreenScoreEntry tracks the score derived for a single accounting event.
type GreenScoreEntry struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	Score     int       `db:"score" json:"score"`
	Reason    string    `db:"reason" json:"reason"`
}
