// Package httpretry provides bounded retry with exponential backoff for
// outbound catalog requests. Network errors, 429 and 5xx responses are
// retried; a Retry-After header on a retried response overrides the
// computed backoff. Any other response is returned to the caller as is.
package httpretry

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"
)

const (
	DefaultMaxAttempts = 3
	DefaultBaseBackoff = 500 * time.Millisecond
)

// Policy bounds the retry loop for one adapter. The zero value retries
// DefaultMaxAttempts times starting from DefaultBaseBackoff.
type Policy struct {
	// Name labels retry log lines with the owning adapter.
	Name        string
	MaxAttempts int
	BaseBackoff time.Duration
}

func (p Policy) normalized() Policy {
	if p.Name == "" {
		p.Name = "httpretry"
	}
	if p.MaxAttempts < 1 {
		p.MaxAttempts = DefaultMaxAttempts
	}
	if p.BaseBackoff <= 0 {
		p.BaseBackoff = DefaultBaseBackoff
	}
	return p
}

// Do issues req through client, retrying transient failures until the
// policy's attempt budget runs out. A request body is buffered once so it
// can be replayed on every attempt; the request's context cancels both
// in-flight attempts and backoff sleeps.
func (p Policy) Do(client *http.Client, req *http.Request) (*http.Response, error) {
	p = p.normalized()

	if req.Body != nil && req.GetBody == nil {
		buffered, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, fmt.Errorf("%s: read request body: %w", p.Name, err)
		}
		_ = req.Body.Close()
		req.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(buffered)), nil
		}
	}

	ctx := req.Context()
	var lastErr error
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		if attempt > 0 {
			log.Printf("WARN %s: retry attempt %d/%d: %v", p.Name, attempt+1, p.MaxAttempts, lastErr)
		}
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%s: request canceled: %w", p.Name, err)
		}

		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, fmt.Errorf("%s: rewind request body: %w", p.Name, err)
			}
			req.Body = body
		}

		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			if sleepErr := Sleep(ctx, p.backoff(attempt, 0)); sleepErr != nil {
				return nil, fmt.Errorf("%s: %w", p.Name, sleepErr)
			}
			continue
		}
		if !transient(resp.StatusCode) {
			return resp, nil
		}

		retryAfter := retryAfterDelay(resp)
		_ = resp.Body.Close()
		lastErr = fmt.Errorf("status %d", resp.StatusCode)
		if sleepErr := Sleep(ctx, p.backoff(attempt, retryAfter)); sleepErr != nil {
			return nil, fmt.Errorf("%s: %w", p.Name, sleepErr)
		}
	}

	return nil, fmt.Errorf("%s: request failed after %d attempts: %w", p.Name, p.MaxAttempts, lastErr)
}

// backoff doubles the base delay per attempt unless the server asked for a
// specific wait. The final attempt gets no trailing sleep.
func (p Policy) backoff(attempt int, retryAfter time.Duration) time.Duration {
	if attempt >= p.MaxAttempts-1 {
		return 0
	}
	if retryAfter > 0 {
		return retryAfter
	}
	return p.BaseBackoff * time.Duration(1<<attempt)
}

func transient(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

// retryAfterDelay reads the Retry-After header, which carries either a
// delay in seconds or an HTTP date.
func retryAfterDelay(resp *http.Response) time.Duration {
	raw := resp.Header.Get("Retry-After")
	if raw == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(raw); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	if when, err := http.ParseTime(raw); err == nil {
		if until := time.Until(when); until > 0 {
			return until
		}
	}
	return 0
}

// Sleep blocks for delay or until ctx is canceled, whichever comes first.
func Sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
