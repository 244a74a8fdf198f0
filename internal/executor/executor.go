// Package executor issues the HTTP GET requests of a pagination session and
// decodes their JSON bodies, retrying per the configured policy.
package executor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/miraclx/qparas/internal/auth"
	"github.com/miraclx/qparas/internal/config"
	"github.com/miraclx/qparas/internal/query"
)

// sleepFunc pauses execution between retry attempts. Injectable for tests.
type sleepFunc func(time.Duration)

// Client fetches JSON documents from one API endpoint. It satisfies
// paginate.Fetcher.
type Client struct {
	http     *http.Client
	endpoint string
	authType string
	creds    map[string]string
	token    string
	retry    config.RetryConfig
	logger   zerolog.Logger
	sleep    sleepFunc
}

// New creates a Client for one endpoint path under the configured base URL.
func New(httpClient *http.Client, cfg *config.Config, path string, logger zerolog.Logger) *Client {
	return &Client{
		http:     httpClient,
		endpoint: strings.TrimSuffix(cfg.BaseURL, "/") + "/" + strings.TrimPrefix(path, "/"),
		authType: cfg.Auth.Type,
		creds:    cfg.Auth.Credentials,
		token:    auth.Token(),
		retry:    cfg.Retry,
		logger:   logger,
		sleep:    time.Sleep,
	}
}

// Fetch issues one GET with the given query parameters and returns the
// decoded body. A body that is not valid JSON is a fatal error regardless of
// status code; a decodable error payload flows back to the caller as a
// regular value.
func (c *Client) Fetch(ctx context.Context, params query.Params) (gjson.Result, error) {
	target := c.endpoint
	if encoded := params.Encode(); encoded != "" {
		target += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to create request: %w", err)
	}
	if err := auth.ApplyHeaders(req, c.authType, c.creds, c.token); err != nil {
		return gjson.Result{}, fmt.Errorf("failed to apply auth headers: %w", err)
	}

	c.logger.Debug().Str("url", target).Msg("send request")

	resp, body, err := c.execute(req)
	if err != nil {
		return gjson.Result{}, err
	}
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, fmt.Errorf("invalid JSON response (status %d): %s", resp.StatusCode, snippet(body))
	}
	return gjson.ParseBytes(body), nil
}

// execute sends the request, retrying network failures and retryable 5xx
// statuses up to the configured attempt count with a fixed backoff.
func (c *Client) execute(req *http.Request) (*http.Response, []byte, error) {
	maxAttempts := c.retry.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	backoff := time.Duration(c.retry.Backoff) * time.Second

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("request failed: %w", err)
			c.logger.Warn().Err(err).Int("attempt", attempt).Msg("request attempt failed")
			if attempt < maxAttempts {
				c.sleep(backoff)
			}
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			// Body read errors are not retried; the response is gone.
			return resp, nil, fmt.Errorf("failed to read response body (status %d): %w", resp.StatusCode, readErr)
		}

		if !c.retryableStatus(resp.StatusCode) {
			return resp, body, nil
		}

		lastErr = fmt.Errorf("received retryable status code %d", resp.StatusCode)
		c.logger.Warn().Int("status", resp.StatusCode).Int("attempt", attempt).Msg("request attempt failed")
		if attempt < maxAttempts {
			c.sleep(backoff)
		}
	}

	return nil, nil, fmt.Errorf("request failed after %d attempts: %w", maxAttempts, lastErr)
}

func (c *Client) retryableStatus(status int) bool {
	if status < 500 || status > 599 {
		return false
	}
	for _, excluded := range c.retry.ExcludeErrors {
		if status == excluded {
			return false
		}
	}
	return true
}

// snippet returns a short body prefix for error messages.
func snippet(b []byte) string {
	const maxLen = 200
	runes := []rune(string(b))
	if len(runes) > maxLen {
		return string(runes[:maxLen]) + "..."
	}
	return string(b)
}
