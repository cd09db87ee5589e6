package service

import (
	"context"
	"math"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ecopulse/internal/engine"
	"ecopulse/internal/kvstore"
)

const (
	greenModeKeyPrefix        = "greenmode:"
	optimizeFallbackRationale = "fallback: reduce tokens by 10%"
)

// OptimizeEngine is the slice of the engine gateway the optimizer uses.
type OptimizeEngine interface {
	Optimize(ctx context.Context, req engine.OptimizeRequest) engine.Result[engine.OptimizeResponse]
}

// GreenModeService owns the per-user green mode toggle and the usage
// optimization path. The toggle is plain key-value state; optimization
// degrades to a conservative fixed reduction when the engine is down.
type GreenModeService struct {
	engine OptimizeEngine
	kv     kvstore.Store
	logger *zap.Logger
}

// NewGreenModeService builds the optimizer.
func NewGreenModeService(eng OptimizeEngine, kv kvstore.Store, logger *zap.Logger) *GreenModeService {
	return &GreenModeService{engine: eng, kv: kv, logger: logger}
}

// Enabled reports whether the user has green mode switched on.
func (s *GreenModeService) Enabled(ctx context.Context, userID uuid.UUID) (bool, error) {
	value, found, err := s.kv.Get(ctx, greenModeKey(userID))
	if err != nil {
		return false, err
	}
	return found && value == "1", nil
}

// SetEnabled flips the toggle. Disabling removes the key entirely.
func (s *GreenModeService) SetEnabled(ctx context.Context, userID uuid.UUID, enabled bool) error {
	key := greenModeKey(userID)
	if enabled {
		return s.kv.Set(ctx, key, "1", 0)
	}
	return s.kv.Delete(ctx, key)
}

// OptimizeInput describes the usage to make greener.
type OptimizeInput struct {
	Model          string
	Region         string
	Tokens         int64
	RuntimeSeconds float64
	Constraints    []string
}

// Optimize returns the engine's recommendation when available. The fallback
// keeps model and region and trims tokens by 10%, never below one.
func (s *GreenModeService) Optimize(ctx context.Context, input OptimizeInput) *engine.OptimizeResponse {
	if resp, ok := s.engine.Optimize(ctx, engine.OptimizeRequest{
		Model:          input.Model,
		Region:         input.Region,
		Tokens:         input.Tokens,
		RuntimeSeconds: input.RuntimeSeconds,
		Constraints:    input.Constraints,
	}).Get(); ok {
		return &resp
	}

	reduced := int64(math.Round(float64(input.Tokens) * 0.9))
	if reduced < 1 {
		reduced = 1
	}

	return &engine.OptimizeResponse{
		RecommendedModel:  input.Model,
		RecommendedRegion: input.Region,
		RecommendedTokens: reduced,
		Rationale:         optimizeFallbackRationale,
	}
}

func greenModeKey(userID uuid.UUID) string {
	return greenModeKeyPrefix + userID.String()
}
