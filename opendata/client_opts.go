package opendata

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// Option configures a Client.
type Option func(*Client) error

// WithBaseURL points the client at a different server root.
// This is useful for mirrors and local fixtures.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) error {
		if baseURL == "" {
			return errors.New("base URL is empty")
		}
		c.baseURL = baseURL
		return nil
	}
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) error {
		if httpClient == nil {
			return errors.New("http client is nil")
		}
		c.httpClient = httpClient
		return nil
	}
}

// WithUserAgent sets the User-Agent header for all requests.
func WithUserAgent(ua string) Option {
	return func(c *Client) error {
		c.userAgent = ua
		return nil
	}
}

// WithMaxRetries sets how many times a retryable failure is attempted
// again. Use 0 to disable retries.
func WithMaxRetries(n int) Option {
	return func(c *Client) error {
		if n < 0 {
			return errors.New("max retries must be >= 0")
		}
		c.maxRetries = n
		return nil
	}
}

// WithRetryInterval sets the initial and maximum backoff delays. The
// delay doubles per attempt from initial up to max.
func WithRetryInterval(initial, max time.Duration) Option {
	return func(c *Client) error {
		if initial <= 0 {
			return errors.New("initial retry interval must be positive")
		}
		if max < initial {
			return errors.New("max retry interval must be >= initial")
		}
		c.initialInterval = initial
		c.maxInterval = max
		return nil
	}
}

// WithBreaker replaces the default circuit breaker.
func WithBreaker(breaker *gobreaker.CircuitBreaker) Option {
	return func(c *Client) error {
		if breaker == nil {
			return errors.New("breaker is nil")
		}
		c.breaker = breaker
		return nil
	}
}

// WithPayloadCache sets the cache for downloaded file bytes.
func WithPayloadCache(cache ByteCache) Option {
	return func(c *Client) error {
		if cache == nil {
			return errors.New("payload cache is nil")
		}
		c.payloadCache = cache
		return nil
	}
}

// WithListingCache sets the cache for directory pages.
func WithListingCache(cache ByteCache) Option {
	return func(c *Client) error {
		if cache == nil {
			return errors.New("listing cache is nil")
		}
		c.listingCache = cache
		return nil
	}
}

// WithLogger sets a logger for the client.
// If nil, a discard logger is used (default behavior).
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		c.logger = logger
		return nil
	}
}
