package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ecopulse/internal/engine"
	"ecopulse/internal/kvstore"
)

const (
	advisorCachePrefix = "advisor:"
	advisorCacheTTL    = 10 * time.Minute
)

// AdviseEngine is the slice of the engine gateway the advisor uses.
type AdviseEngine interface {
	Advise(ctx context.Context, req engine.AdvisorRequest) engine.Result[engine.AdvisorResponse]
}

// AdvisorService produces usage-reduction advice. Responses are cached per
// model/region/token-count; with the engine down it serves a static set of
// generally applicable recommendations.
type AdvisorService struct {
	engine AdviseEngine
	cache  kvstore.Store
	logger *zap.Logger
}

// NewAdvisorService builds the advisor.
func NewAdvisorService(eng AdviseEngine, cache kvstore.Store, logger *zap.Logger) *AdvisorService {
	return &AdvisorService{engine: eng, cache: cache, logger: logger}
}

// AdviseInput describes the usage to get advice for.
type AdviseInput struct {
	Model          string
	Region         string
	Tokens         int64
	RuntimeSeconds float64
	CO2Grams       decimal.Decimal
	EnergyKWh      decimal.Decimal
}

// Advise returns advice for the given usage profile. It never fails; cache
// problems and engine outages both degrade gracefully.
func (s *AdvisorService) Advise(ctx context.Context, input AdviseInput) engine.AdvisorResponse {
	key := fmt.Sprintf("%s%s:%s:%d", advisorCachePrefix, input.Model, input.Region, input.Tokens)

	if raw, found, err := s.cache.Get(ctx, key); err != nil {
		s.logger.Warn("advisor cache read failed", zap.Error(err))
	} else if found {
		var cached engine.AdvisorResponse
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return cached
		}
		if err := s.cache.Delete(ctx, key); err != nil {
			s.logger.Warn("advisor cache delete failed", zap.Error(err))
		}
	}

	response, ok := s.engine.Advise(ctx, engine.AdvisorRequest{
		Model:          input.Model,
		Region:         input.Region,
		Tokens:         input.Tokens,
		RuntimeSeconds: input.RuntimeSeconds,
		CO2Grams:       input.CO2Grams,
		EnergyKWh:      input.EnergyKWh,
	}).Get()
	if !ok {
		response = staticAdvice()
	}

	if data, err := json.Marshal(response); err == nil {
		if err := s.cache.Set(ctx, key, string(data), advisorCacheTTL); err != nil {
			s.logger.Warn("advisor cache write failed", zap.Error(err))
		}
	}
	return response
}

func staticAdvice() engine.AdvisorResponse {
	return engine.AdvisorResponse{
		Recommendations: []string{
			"Use a smaller model for simple tasks",
			"Batch requests and enable caching for repeated prompts",
			"Prefer low-carbon regions during off-peak hours",
		},
		ModelSuggestions: []string{"gpt-4o-mini", "gemini-1.5-flash"},
		TokenOptimizationTips: []string{
			"Trim context window",
			"Summarize history",
			"Use system prompts sparingly",
		},
	}
}
