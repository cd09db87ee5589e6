package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	lookupTimeout  = 5 * time.Second
	computeTimeout = 6 * time.Second

	maxAttempts    = 3
	backoffInitial = 200 * time.Millisecond
	backoffCeiling = time.Second
)

// Client is the gateway to the external estimation engine. Every method runs
// the remote call under a bounded deadline with retries for transient
// failures and reports the outcome as a Result: the engine being down is a
// normal condition here, not an error the caller has to propagate.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient returns an engine gateway rooted at baseURL.
func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		// Per-call deadlines are enforced through context; the client-wide
		// timeout only guards against a leaked call without one.
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// RegionCarbon looks up carbon intensity for a region.
func (c *Client) RegionCarbon(ctx context.Context, region string) Result[RegionCarbonResponse] {
	path := "/region-carbon?region=" + url.QueryEscape(region)
	return call[RegionCarbonResponse](c, ctx, http.MethodGet, path, nil, lookupTimeout)
}

// CalculateEmissions asks the engine for a full emission breakdown.
func (c *Client) CalculateEmissions(ctx context.Context, req EmissionCalcRequest) Result[EmissionCalcResponse] {
	return call[EmissionCalcResponse](c, ctx, http.MethodPost, "/emissions/calculate", req, computeTimeout)
}

// Advise requests usage-reduction advice.
func (c *Client) Advise(ctx context.Context, req AdvisorRequest) Result[AdvisorResponse] {
	return call[AdvisorResponse](c, ctx, http.MethodPost, "/advisor", req, computeTimeout)
}

// Schedule requests a region/start-time recommendation.
func (c *Client) Schedule(ctx context.Context, req ScheduleRequest) Result[ScheduleResponse] {
	return call[ScheduleResponse](c, ctx, http.MethodPost, "/scheduler", req, computeTimeout)
}

// Optimize requests a greener variant of a planned usage.
func (c *Client) Optimize(ctx context.Context, req OptimizeRequest) Result[OptimizeResponse] {
	return call[OptimizeResponse](c, ctx, http.MethodPost, "/green-mode/optimize", req, computeTimeout)
}

// callError classifies a failed attempt. Connection-level failures and 5xx
// responses are worth retrying; anything else terminates the attempt loop.
type callError struct {
	err       error
	retryable bool
}

func (e *callError) Error() string { return e.err.Error() }

func call[T any](c *Client, ctx context.Context, method, path string, body interface{}, timeout time.Duration) Result[T] {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			c.logger.Error("engine request marshal failed", zap.String("path", path), zap.Error(err))
			return Unavailable[T]()
		}
		payload = data
	}

	backoff := backoffInitial
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		value, cerr := doOnce[T](c, ctx, method, path, payload, timeout)
		if cerr == nil {
			return Available(value)
		}

		if !cerr.retryable || attempt == maxAttempts {
			c.logger.Warn("engine unavailable",
				zap.String("path", path),
				zap.Int("attempts", attempt),
				zap.Bool("retryable", cerr.retryable),
				zap.Error(cerr.err))
			return Unavailable[T]()
		}

		c.logger.Debug("engine call failed, retrying",
			zap.String("path", path),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", backoff),
			zap.Error(cerr.err))

		select {
		case <-ctx.Done():
			return Unavailable[T]()
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > backoffCeiling {
			backoff = backoffCeiling
		}
	}
	return Unavailable[T]()
}

func doOnce[T any](c *Client, ctx context.Context, method, path string, payload []byte, timeout time.Duration) (T, *callError) {
	var zero T

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(callCtx, method, c.baseURL+path, reader)
	if err != nil {
		return zero, &callError{err: err, retryable: false}
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Unreachable host, reset connection, pre-response timeout.
		return zero, &callError{err: err, retryable: true}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		io.Copy(io.Discard, resp.Body)
		return zero, &callError{err: fmt.Errorf("engine returned %d", resp.StatusCode), retryable: true}
	}
	if resp.StatusCode >= 400 {
		io.Copy(io.Discard, resp.Body)
		return zero, &callError{err: fmt.Errorf("engine rejected request with %d", resp.StatusCode), retryable: false}
	}

	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return zero, &callError{err: fmt.Errorf("decode engine response: %w", err), retryable: false}
	}
	return out, nil
}
