package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ecopulse/internal/engine"
	"ecopulse/internal/models"
	"ecopulse/internal/repository"
)

// Validation errors for accounting input. These are caller mistakes and are
// the only way Account can fail besides storage.
var (
	ErrInvalidTokens      = errors.New("emissions: tokens must be positive")
	ErrInvalidRuntime     = errors.New("emissions: runtime seconds must be positive")
	ErrMissingPowerFactor = errors.New("emissions: model power factor must be positive")
)

const (
	// quantityScale fixes every stored quantity at 8 fractional digits so
	// repeated summation over the ledger is reproducible.
	quantityScale = 8
	// runtimeScale keeps the seconds-to-hours intermediate precise enough
	// that the final rounding is the only rounding that matters.
	runtimeScale = 12

	greenScoreReason = "derived from emissions"
)

var defaultWaterFactorLPerKWh = decimal.RequireFromString("1.8")

// AccountUsageInput carries one usage event to be accounted. Intensity and
// water factor are optional overrides; when absent they are resolved.
type AccountUsageInput struct {
	Model                 string
	Region                string
	Tokens                int64
	RuntimeSeconds        float64
	ModelPowerFactor      decimal.Decimal
	RegionCarbonIntensity *decimal.Decimal
	WaterFactor           *decimal.Decimal
}

// EmissionCalcEngine is the slice of the engine gateway the accountant uses.
type EmissionCalcEngine interface {
	CalculateEmissions(ctx context.Context, req engine.EmissionCalcRequest) engine.Result[engine.EmissionCalcResponse]
}

// IntensityResolver resolves a region to its carbon intensity.
type IntensityResolver interface {
	Resolve(ctx context.Context, region string) IntensityResult
}

// EmissionStore is the ledger contract the accountant writes to.
type EmissionStore interface {
	Create(ctx context.Context, record *models.EmissionRecord) error
	FindByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.EmissionRecord, error)
	SummarizeBetween(ctx context.Context, userID uuid.UUID, from, to *time.Time) (repository.UsageTotals, error)
}

// GreenScoreStore records and serves per-event score history.
type GreenScoreStore interface {
	Create(ctx context.Context, entry *models.GreenScoreEntry) error
	FindByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.GreenScoreEntry, error)
}

// RecordPublisher pushes freshly accounted records to live subscribers.
type RecordPublisher interface {
	PublishRecord(record models.EmissionRecord)
}

// EmissionService is the single source of truth for what a usage event cost.
// It prefers the external engine for the numbers but always produces a
// complete record: when the engine is unavailable it switches to the local
// deterministic formula, so remote outages never surface to callers.
type EmissionService struct {
	records   EmissionStore
	scores    GreenScoreStore
	intensity IntensityResolver
	engine    EmissionCalcEngine
	feed      RecordPublisher
	logger    *zap.Logger
}

// NewEmissionService builds the accountant. feed may be nil.
func NewEmissionService(
	records EmissionStore,
	scores GreenScoreStore,
	intensity IntensityResolver,
	eng EmissionCalcEngine,
	feed RecordPublisher,
	logger *zap.Logger,
) *EmissionService {
	return &EmissionService{
		records:   records,
		scores:    scores,
		intensity: intensity,
		engine:    eng,
		feed:      feed,
		logger:    logger,
	}
}

// Account computes and persists one emission record.
func (s *EmissionService) Account(ctx context.Context, userID uuid.UUID, input AccountUsageInput) (*models.EmissionRecord, error) {
	if input.Tokens <= 0 {
		return nil, ErrInvalidTokens
	}
	if input.RuntimeSeconds <= 0 {
		return nil, ErrInvalidRuntime
	}
	if input.ModelPowerFactor.LessThanOrEqual(decimal.Zero) {
		return nil, ErrMissingPowerFactor
	}

	var regionIntensity decimal.Decimal
	if input.RegionCarbonIntensity != nil {
		regionIntensity = *input.RegionCarbonIntensity
	} else {
		regionIntensity = s.intensity.Resolve(ctx, input.Region).GramsPerKWh
	}

	waterFactor := defaultWaterFactorLPerKWh
	if input.WaterFactor != nil {
		waterFactor = *input.WaterFactor
	}

	calc, remote := s.engine.CalculateEmissions(ctx, engine.EmissionCalcRequest{
		Model:                 input.Model,
		Region:                input.Region,
		Tokens:                input.Tokens,
		RuntimeSeconds:        input.RuntimeSeconds,
		ModelPowerFactor:      input.ModelPowerFactor,
		RegionCarbonIntensity: regionIntensity,
		WaterFactor:           waterFactor,
	}).Get()
	if !remote {
		calc = computeLocal(input.Tokens, input.ModelPowerFactor, input.RuntimeSeconds, regionIntensity, waterFactor)
	}

	score := 0
	if calc.GreenScore != nil {
		score = *calc.GreenScore
	} else {
		score = GreenScoreFor(calc.CO2Grams, input.Tokens)
	}

	record := &models.EmissionRecord{
		UserID:                userID,
		Model:                 input.Model,
		Region:                input.Region,
		Tokens:                input.Tokens,
		RuntimeSeconds:        input.RuntimeSeconds,
		ModelPowerFactor:      input.ModelPowerFactor,
		RegionCarbonIntensity: regionIntensity,
		WaterFactor:           waterFactor,
		EnergyKWh:             calc.EnergyKWh,
		CO2Grams:              calc.CO2Grams,
		WaterLiters:           calc.WaterLiters,
		GreenScore:            score,
	}

	if err := s.records.Create(ctx, record); err != nil {
		return nil, err
	}

	// Score history and the live feed are best-effort; the ledger row is the
	// authoritative outcome.
	if err := s.scores.Create(ctx, &models.GreenScoreEntry{
		UserID: userID,
		Score:  score,
		Reason: greenScoreReason,
	}); err != nil {
		s.logger.Warn("failed to record green score entry", zap.Stringer("user_id", userID), zap.Error(err))
	}

	if s.feed != nil {
		s.feed.PublishRecord(*record)
	}

	s.logger.Info("usage accounted",
		zap.Stringer("user_id", userID),
		zap.String("model", input.Model),
		zap.String("region", input.Region),
		zap.Int64("tokens", input.Tokens),
		zap.Bool("engine", remote),
		zap.Int("green_score", score))

	return record, nil
}

// History returns the user's most recent records.
func (s *EmissionService) History(ctx context.Context, userID uuid.UUID, limit int) ([]models.EmissionRecord, error) {
	return s.records.FindByUser(ctx, userID, limit)
}

// ScoreHistory returns the user's most recent green score entries.
func (s *EmissionService) ScoreHistory(ctx context.Context, userID uuid.UUID, limit int) ([]models.GreenScoreEntry, error) {
	return s.scores.FindByUser(ctx, userID, limit)
}

// Summary totals the user's footprint within the optional window.
func (s *EmissionService) Summary(ctx context.Context, userID uuid.UUID, from, to *time.Time) (repository.UsageTotals, error) {
	return s.records.SummarizeBetween(ctx, userID, from, to)
}

// computeLocal applies the canonical formula:
//
//	energy (kWh) = tokens × powerFactor × (runtimeSeconds / 3600)
//	co2 (g)      = energy × regionCarbonIntensity
//	water (L)    = energy × waterFactor
//
// Every output is rounded half-up to 8 fractional digits.
func computeLocal(tokens int64, powerFactor decimal.Decimal, runtimeSeconds float64, regionIntensity, waterFactor decimal.Decimal) engine.EmissionCalcResponse {
	runtimeHours := decimal.NewFromFloat(runtimeSeconds).
		DivRound(decimal.NewFromInt(3600), runtimeScale)

	energy := decimal.NewFromInt(tokens).
		Mul(powerFactor).
		Mul(runtimeHours).
		Round(quantityScale)

	co2 := energy.Mul(regionIntensity).Round(quantityScale)
	water := energy.Mul(waterFactor).Round(quantityScale)

	return engine.EmissionCalcResponse{
		EnergyKWh:   energy,
		CO2Grams:    co2,
		WaterLiters: water,
	}
}

// GreenScoreFor rates carbon efficiency on a 0-100 scale: 50 g CO2 per 1000
// tokens or less scores 100, 500 g or more scores 0, linear in between.
func GreenScoreFor(co2Grams decimal.Decimal, tokens int64) int {
	denom := tokens
	if denom < 1 {
		denom = 1
	}
	per1k := co2Grams.
		DivRound(decimal.NewFromInt(denom), runtimeScale).
		Mul(decimal.NewFromInt(1000))

	x := per1k.InexactFloat64()
	score := int(math.Round(100 - ((x - 50) / (500 - 50) * 100)))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
