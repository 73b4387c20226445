package httputil

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/idxlab/terminal/pkg/logger"
)

// Client wraps http.Client with bounded retries and client-side rate
// limiting. Retries use a fixed small delay between attempts; external data
// sources here throttle on burstiness, not on sustained load, so growing
// backoff buys nothing over a flat pause.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *logger.Logger

	maxRetries int
	retryDelay time.Duration
	userAgent  string
}

// New creates a client with the given timeout. Retries default to 3 with a
// one second pause; no rate limiting until WithRateLimit is called.
func New(timeout time.Duration, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		logger:     log,
		maxRetries: 3,
		retryDelay: time.Second,
		userAgent:  "idx-terminal/1.0",
	}
}

// WithRetry sets the retry count and the fixed delay between attempts.
func (c *Client) WithRetry(maxRetries int, delay time.Duration) *Client {
	c.maxRetries = maxRetries
	c.retryDelay = delay
	return c
}

// WithRateLimit caps outgoing requests per second.
func (c *Client) WithRateLimit(perSec float64) *Client {
	c.limiter = rate.NewLimiter(rate.Limit(perSec), 1)
	return c
}

// Get performs a GET with retries. The caller owns the response body.
func (c *Client) Get(ctx context.Context, rawURL string) (*http.Response, error) {
	return c.do(ctx, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	})
}

// GetJSON performs a GET and decodes the body into dest.
func (c *Client) GetJSON(ctx context.Context, rawURL string, dest interface{}) error {
	resp, err := c.Get(ctx, rawURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("decode JSON response: %w", err)
	}
	return nil
}

// PostForm performs a form POST with retries.
func (c *Client) PostForm(ctx context.Context, rawURL string, values url.Values) (*http.Response, error) {
	return c.do(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL,
			strings.NewReader(values.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	})
}

// do runs a request with rate limiting and fixed-delay retries. Retries
// cover transport errors and 5xx/429 responses; other status codes are the
// caller's problem.
func (c *Client) do(ctx context.Context, build func() (*http.Request, error)) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.retryDelay):
			}
		}

		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		req, err := build()
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			c.logger.WithFields(map[string]interface{}{
				"url":     req.URL.String(),
				"attempt": attempt + 1,
				"error":   err.Error(),
			}).Warn("HTTP request failed")
			continue
		}

		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			lastErr = fmt.Errorf("unexpected status %d", resp.StatusCode)
			c.logger.WithFields(map[string]interface{}{
				"url":     req.URL.String(),
				"status":  resp.StatusCode,
				"attempt": attempt + 1,
			}).Warn("HTTP request retrying")
			continue
		}

		return resp, nil
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", c.maxRetries+1, lastErr)
}
