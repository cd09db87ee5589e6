package engine

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestClientRegionCarbonSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/region-carbon", r.URL.Path)
		require.Equal(t, "europe-west1", r.URL.Query().Get("region"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"region":"europe-west1","carbonIntensityGPerKwh":215.4,"source":"live"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, zap.NewNop())
	result := client.RegionCarbon(context.Background(), "europe-west1")

	require.True(t, result.Available())
	resp := result.Value()
	require.Equal(t, "europe-west1", resp.Region)
	require.NotNil(t, resp.CarbonIntensityGPerKWh)
	require.True(t, decimal.RequireFromString("215.4").Equal(*resp.CarbonIntensityGPerKWh))
}

func TestClientRetriesServerErrors(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"recommendedModel":"gpt-4o-mini","recommendedRegion":"europe-north1","recommendedTokens":800,"rationale":"smaller model"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, zap.NewNop())
	result := client.Optimize(context.Background(), OptimizeRequest{Model: "gpt-4o", Tokens: 1000})

	require.True(t, result.Available())
	require.Equal(t, int64(800), result.Value().RecommendedTokens)
	require.Equal(t, int64(3), calls.Load())
}

func TestClientGivesUpAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, zap.NewNop())
	result := client.RegionCarbon(context.Background(), "us-east1")

	require.False(t, result.Available())
	require.Equal(t, int64(3), calls.Load())
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	client := NewClient(server.URL, zap.NewNop())
	result := client.Advise(context.Background(), AdvisorRequest{Model: "gpt-4"})

	require.False(t, result.Available())
	require.Equal(t, int64(1), calls.Load())
}

func TestClientMalformedResponseIsUnavailable(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"energyKwh": not-json`))
	}))
	defer server.Close()

	client := NewClient(server.URL, zap.NewNop())
	result := client.CalculateEmissions(context.Background(), EmissionCalcRequest{})

	require.False(t, result.Available())
	require.Equal(t, int64(1), calls.Load())
}

func TestClientUnreachableHostRetriesThenUnavailable(t *testing.T) {
	// Reserve a port and close it so connections are refused immediately.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()

	client := NewClient(addr, zap.NewNop())
	result := client.RegionCarbon(context.Background(), "us-central1")

	require.False(t, result.Available())
}

func TestClientHonorsContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(server.URL, zap.NewNop())
	result := client.RegionCarbon(ctx, "us-central1")

	require.False(t, result.Available())
}
