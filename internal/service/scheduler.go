package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"ecopulse/internal/engine"
)

// ErrNoCandidateRegions is returned when a scheduling request carries no
// regions to choose from.
var ErrNoCandidateRegions = errors.New("scheduler: candidate regions required")

const scheduleFallbackRationale = "fallback: chose lowest carbon intensity region"

// ScheduleEngine is the slice of the engine gateway the scheduler uses.
type ScheduleEngine interface {
	Schedule(ctx context.Context, req engine.ScheduleRequest) engine.Result[engine.ScheduleResponse]
}

// SchedulerService recommends where and when to run a workload. With the
// engine down it degrades to picking the lowest-intensity candidate region.
type SchedulerService struct {
	engine    ScheduleEngine
	intensity IntensityResolver
	logger    *zap.Logger
	now       func() time.Time
}

// NewSchedulerService builds the scheduler.
func NewSchedulerService(eng ScheduleEngine, intensity IntensityResolver, logger *zap.Logger) *SchedulerService {
	return &SchedulerService{
		engine:    eng,
		intensity: intensity,
		logger:    logger,
		now:       time.Now,
	}
}

// ScheduleInput describes the workload to place.
type ScheduleInput struct {
	Model            string
	Tokens           int64
	RuntimeSeconds   float64
	CandidateRegions []string
	NotBefore        *time.Time
	NotAfter         *time.Time
}

// Recommend returns the engine's recommendation when available, otherwise
// the candidate with the lowest resolved carbon intensity. Ties keep the
// earliest candidate in input order.
func (s *SchedulerService) Recommend(ctx context.Context, input ScheduleInput) (*engine.ScheduleResponse, error) {
	if len(input.CandidateRegions) == 0 {
		return nil, ErrNoCandidateRegions
	}

	if resp, ok := s.engine.Schedule(ctx, engine.ScheduleRequest{
		Model:            input.Model,
		Tokens:           input.Tokens,
		RuntimeSeconds:   input.RuntimeSeconds,
		CandidateRegions: input.CandidateRegions,
		NotBefore:        input.NotBefore,
		NotAfter:         input.NotAfter,
	}).Get(); ok {
		return &resp, nil
	}

	best := input.CandidateRegions[0]
	bestIntensity := s.intensity.Resolve(ctx, best).GramsPerKWh
	for _, region := range input.CandidateRegions[1:] {
		resolved := s.intensity.Resolve(ctx, region)
		if resolved.GramsPerKWh.LessThan(bestIntensity) {
			best = region
			bestIntensity = resolved.GramsPerKWh
		}
	}

	s.logger.Debug("scheduler fell back to local recommendation",
		zap.String("region", best),
		zap.String("intensity_g_per_kwh", bestIntensity.String()))

	return &engine.ScheduleResponse{
		RecommendedRegion:    best,
		RecommendedStartTime: s.now().UTC(),
		Rationale:            scheduleFallbackRationale,
	}, nil
}
