package opendata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// Fetch downloads one file and returns its bytes.
//
// Payloads are served from the payload cache when fresh, and concurrent
// fetches of the same URL are coalesced into a single request.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	if data, ok := c.payloadCache.Get(url); ok {
		c.log().Debug("payload cache hit", "url", url)
		return data, nil
	}

	result, err, _ := c.group.Do(url, func() (any, error) {
		// Double-check after acquiring the flight: another goroutine
		// may have populated the cache while we waited.
		if data, ok := c.payloadCache.Get(url); ok {
			return data, nil
		}
		data, err := c.doGet(ctx, url)
		if err != nil {
			return nil, err
		}
		c.payloadCache.Put(url, data) //nolint:errcheck // caching is opportunistic
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	data, _ := result.([]byte)
	return data, nil
}

// doGet performs one resilient GET: the request runs inside the circuit
// breaker, transient failures are retried with doubling backoff, and
// the wait between attempts honors ctx.
func (c *Client) doGet(ctx context.Context, url string) ([]byte, error) {
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		body, status, err := c.attempt(ctx, url)
		if err == nil {
			return body, nil
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
		}
		if !retryableStatus(status) || attempt >= c.maxRetries {
			return nil, err
		}

		delay := c.backoffDelay(attempt)
		c.log().Debug("retrying request", "url", url, "attempt", attempt+1, "delay", delay, "error", err)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

// attempt runs a single GET through the breaker. The returned status is
// the HTTP status code of the attempt, or zero when the attempt failed
// before a status arrived.
func (c *Client) attempt(ctx context.Context, url string) ([]byte, int, error) {
	var status int
	result, err := c.breaker.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		if c.userAgent != "" {
			req.Header.Set("User-Agent", c.userAgent)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			status = resp.StatusCode
			// Drain so the connection can be reused.
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil, fmt.Errorf("%w %d for %s", ErrStatus, resp.StatusCode, url)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		return body, nil
	})
	if err != nil {
		return nil, status, err
	}
	body, _ := result.([]byte)
	return body, status, nil
}

// retryableStatus reports whether an attempt ending with the given HTTP
// status is worth repeating: rate limits and server errors are, other
// client errors are not. Zero means the attempt failed before a status
// arrived (transport error), which is always retryable.
func retryableStatus(status int) bool {
	return status == 0 || status == http.StatusTooManyRequests || status >= 500
}

// backoffDelay doubles the initial interval per attempt, capped at the
// configured maximum.
func (c *Client) backoffDelay(attempt int) time.Duration {
	delay := c.initialInterval
	for i := 0; i < attempt; i++ {
		delay *= 2
		if delay >= c.maxInterval {
			return c.maxInterval
		}
	}
	return delay
}
