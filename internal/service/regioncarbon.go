package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ecopulse/internal/engine"
	"ecopulse/internal/kvstore"
)

// Intensity sources recorded on resolved values.
const (
	SourceEngine   = "engine"
	SourceFallback = "fallback"
)

const (
	intensityCachePrefix = "region-carbon:"
	intensityCacheTTL    = 10 * time.Minute
)

// defaultIntensityGPerKWh is used for regions absent from the fallback table.
var defaultIntensityGPerKWh = decimal.NewFromInt(400)

// fallbackIntensityGPerKWh holds published grid averages for the regions the
// platform sees most. Values are grams CO2 per kWh.
var fallbackIntensityGPerKWh = map[string]decimal.Decimal{
	"asia-south1":   decimal.NewFromInt(710),
	"asia-east1":    decimal.NewFromInt(520),
	"us-central1":   decimal.NewFromInt(410),
	"us-east1":      decimal.NewFromInt(360),
	"europe-west1":  decimal.NewFromInt(220),
	"europe-north1": decimal.NewFromInt(110),
}

// IntensityResult is a resolved carbon intensity for a region, tagged with
// where the value came from.
type IntensityResult struct {
	Region      string          `json:"region"`
	GramsPerKWh decimal.Decimal `json:"carbon_intensity_g_per_kwh"`
	Source      string          `json:"source"`
}

// IntensityLookupEngine is the slice of the engine gateway the resolver uses.
type IntensityLookupEngine interface {
	RegionCarbon(ctx context.Context, region string) engine.Result[engine.RegionCarbonResponse]
}

// RegionCarbonService resolves region identifiers to carbon intensity. Engine
// values and fallback values are cached under the same TTL so a dead engine
// does not turn every request into a fresh lookup attempt.
type RegionCarbonService struct {
	engine IntensityLookupEngine
	cache  kvstore.Store
	ttl    time.Duration
	logger *zap.Logger
}

// NewRegionCarbonService builds the resolver.
func NewRegionCarbonService(eng IntensityLookupEngine, cache kvstore.Store, logger *zap.Logger) *RegionCarbonService {
	return &RegionCarbonService{
		engine: eng,
		cache:  cache,
		ttl:    intensityCacheTTL,
		logger: logger,
	}
}

// Resolve returns the carbon intensity for region. It never fails: cache
// problems degrade to a fresh lookup and an unreachable engine degrades to
// the static table. A blank region resolves like any other unknown region.
func (s *RegionCarbonService) Resolve(ctx context.Context, region string) IntensityResult {
	normalized := normalizeRegion(region)
	key := intensityCachePrefix + normalized

	raw, found, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("intensity cache read failed", zap.String("region", normalized), zap.Error(err))
	} else if found {
		var cached IntensityResult
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return cached
		}
		// Corrupted entry: drop it and resolve from scratch.
		if err := s.cache.Delete(ctx, key); err != nil {
			s.logger.Warn("intensity cache delete failed", zap.String("region", normalized), zap.Error(err))
		}
	}

	result := s.lookup(ctx, normalized)

	if data, err := json.Marshal(result); err == nil {
		if err := s.cache.Set(ctx, key, string(data), s.ttl); err != nil {
			s.logger.Warn("intensity cache write failed", zap.String("region", normalized), zap.Error(err))
		}
	}
	return result
}

func (s *RegionCarbonService) lookup(ctx context.Context, normalized string) IntensityResult {
	if resp, ok := s.engine.RegionCarbon(ctx, normalized).Get(); ok && resp.CarbonIntensityGPerKWh != nil {
		return IntensityResult{
			Region:      normalized,
			GramsPerKWh: *resp.CarbonIntensityGPerKWh,
			Source:      SourceEngine,
		}
	}

	intensity, ok := fallbackIntensityGPerKWh[normalized]
	if !ok {
		intensity = defaultIntensityGPerKWh
	}
	return IntensityResult{Region: normalized, GramsPerKWh: intensity, Source: SourceFallback}
}

// FallbackIntensities exposes a copy of the static table for the meta surface.
func FallbackIntensities() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(fallbackIntensityGPerKWh))
	for region, intensity := range fallbackIntensityGPerKWh {
		out[region] = intensity
	}
	return out
}

func normalizeRegion(region string) string {
	return strings.ToLower(strings.TrimSpace(region))
}
