package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ecopulse/internal/engine"
	"ecopulse/internal/kvstore"
)

type optimizeEngineStub struct {
	resp engine.Result[engine.OptimizeResponse]
}

func (s *optimizeEngineStub) Optimize(ctx context.Context, req engine.OptimizeRequest) engine.Result[engine.OptimizeResponse] {
	return s.resp
}

func optimizerDown() *optimizeEngineStub {
	return &optimizeEngineStub{resp: engine.Unavailable[engine.OptimizeResponse]()}
}

func TestGreenModeToggle(t *testing.T) {
	svc := NewGreenModeService(optimizerDown(), kvstore.NewMemoryStore(), zap.NewNop())
	ctx := context.Background()
	userID := uuid.New()

	enabled, err := svc.Enabled(ctx, userID)
	require.NoError(t, err)
	require.False(t, enabled)

	require.NoError(t, svc.SetEnabled(ctx, userID, true))
	enabled, err = svc.Enabled(ctx, userID)
	require.NoError(t, err)
	require.True(t, enabled)

	// The toggle is per user.
	enabled, err = svc.Enabled(ctx, uuid.New())
	require.NoError(t, err)
	require.False(t, enabled)

	require.NoError(t, svc.SetEnabled(ctx, userID, false))
	enabled, err = svc.Enabled(ctx, userID)
	require.NoError(t, err)
	require.False(t, enabled)
}

func TestOptimizeUsesEngineResponse(t *testing.T) {
	eng := &optimizeEngineStub{resp: engine.Available(engine.OptimizeResponse{
		RecommendedModel:  "gpt-4o-mini",
		RecommendedRegion: "europe-north1",
		RecommendedTokens: 700,
		Rationale:         "smaller model covers this workload",
	})}
	svc := NewGreenModeService(eng, kvstore.NewMemoryStore(), zap.NewNop())

	resp := svc.Optimize(context.Background(), OptimizeInput{Model: "gpt-4o", Region: "us-east1", Tokens: 1000})
	require.Equal(t, "gpt-4o-mini", resp.RecommendedModel)
	require.Equal(t, int64(700), resp.RecommendedTokens)
}

func TestOptimizeFallbackTrimsTokens(t *testing.T) {
	svc := NewGreenModeService(optimizerDown(), kvstore.NewMemoryStore(), zap.NewNop())

	resp := svc.Optimize(context.Background(), OptimizeInput{Model: "gpt-4o", Region: "us-east1", Tokens: 1000})
	require.Equal(t, "gpt-4o", resp.RecommendedModel)
	require.Equal(t, "us-east1", resp.RecommendedRegion)
	require.Equal(t, int64(900), resp.RecommendedTokens)
	require.Equal(t, "fallback: reduce tokens by 10%", resp.Rationale)
}

func TestOptimizeFallbackNeverDropsBelowOneToken(t *testing.T) {
	svc := NewGreenModeService(optimizerDown(), kvstore.NewMemoryStore(), zap.NewNop())

	resp := svc.Optimize(context.Background(), OptimizeInput{Model: "gpt-4o", Region: "us-east1", Tokens: 1})
	require.Equal(t, int64(1), resp.RecommendedTokens)
}
