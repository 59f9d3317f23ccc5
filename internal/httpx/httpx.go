// Package httpx wraps net/http with bounded retries for the two kinds of
// requests this service makes: catalog resource GETs and statistics POSTs.
// 4xx responses are never retried; transient network errors, 429 and 5xx
// are, with capped exponential backoff.
package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"time"
)

// StatusError carries the status of a non-2xx response so callers can tell
// "no content" and client errors apart from transport trouble.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
}

// Client is a retrying HTTP client. The zero value is not usable; use New.
type Client struct {
	http        *http.Client
	maxAttempts int
	baseDelay   time.Duration
	maxDelay    time.Duration
}

// New returns a Client with sane defaults for a request/response API:
// 3 attempts, 300ms base backoff, 5s cap, 15s per-request timeout.
func New() *Client {
	return &Client{
		http:        &http.Client{Timeout: 15 * time.Second},
		maxAttempts: 3,
		baseDelay:   300 * time.Millisecond,
		maxDelay:    5 * time.Second,
	}
}

// NewWith returns a Client using the given underlying http.Client and
// attempt budget. Used by tests to remove the backoff delays.
func NewWith(hc *http.Client, maxAttempts int, baseDelay time.Duration) *Client {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	return &Client{
		http:        hc,
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		maxDelay:    5 * time.Second,
	}
}

// GetJSON fetches url and unmarshals the body into out. A 204 response (or
// a 200 with an empty body) returns (false, nil) with out untouched; any
// decoded payload returns (true, nil).
func (c *Client) GetJSON(ctx context.Context, url string, out any) (bool, error) {
	return c.doJSON(ctx, http.MethodGet, url, nil, out)
}

// PostJSON sends body as JSON to url and unmarshals the response into out,
// with the same no-content convention as GetJSON.
func (c *Client) PostJSON(ctx context.Context, url string, body, out any) (bool, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return false, fmt.Errorf("encode request: %w", err)
	}
	return c.doJSON(ctx, http.MethodPost, url, payload, out)
}

func (c *Client) doJSON(ctx context.Context, method, url string, payload []byte, out any) (bool, error) {
	var lastErr error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if attempt > 1 {
			if err := c.sleep(ctx, attempt); err != nil {
				return false, err
			}
		}

		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return false, err
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			if retryableNetErr(err) {
				lastErr = err
				continue
			}
			return false, err
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		switch {
		case resp.StatusCode == http.StatusNoContent:
			return false, nil
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			if len(bytes.TrimSpace(body)) == 0 {
				return false, nil
			}
			if err := json.Unmarshal(body, out); err != nil {
				return false, fmt.Errorf("decode response from %s: %w", url, err)
			}
			return true, nil
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			lastErr = &StatusError{StatusCode: resp.StatusCode, URL: url}
			continue
		default:
			return false, &StatusError{StatusCode: resp.StatusCode, URL: url}
		}
	}

	if lastErr == nil {
		lastErr = errors.New("request failed")
	}
	return false, lastErr
}

func (c *Client) sleep(ctx context.Context, attempt int) error {
	delay := c.baseDelay * time.Duration(1<<(attempt-2))
	if delay > c.maxDelay {
		delay = c.maxDelay
	}
	if delay > 0 {
		// jitter up to half the delay to avoid lockstep retries
		delay += time.Duration(rand.Int63n(int64(delay/2) + 1))
	}
	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func retryableNetErr(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}
