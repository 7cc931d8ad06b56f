package opendata

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/sync/singleflight"
)

// Defaults for the open-data transport.
const (
	// DefaultBaseURL is the public DWD open-data server.
	DefaultBaseURL = "https://opendata.dwd.de"

	DefaultMaxRetries      = 3
	DefaultInitialInterval = 500 * time.Millisecond
	DefaultMaxInterval     = 10 * time.Second

	// DefaultPayloadTTL bounds how long downloaded file bytes are
	// reused. Published archives are immutable for their name, so the
	// TTL only limits memory, not staleness.
	DefaultPayloadTTL = 12 * time.Hour

	// DefaultListingTTL bounds how long a directory page is reused.
	// Recent directories gain files every few minutes.
	DefaultListingTTL = 5 * time.Minute
)

// Client fetches listings and files from the open-data server.
//
// A Client is safe for concurrent use. All methods honor their context
// for cancellation, including retry backoff waits.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string

	breaker         *gobreaker.CircuitBreaker
	maxRetries      int
	initialInterval time.Duration
	maxInterval     time.Duration

	payloadCache ByteCache
	listingCache ByteCache
	group        singleflight.Group

	logger *slog.Logger
}

// New creates a transport client with the given options.
func New(opts ...Option) (*Client, error) {
	c := &Client{
		baseURL:         DefaultBaseURL,
		httpClient:      http.DefaultClient,
		maxRetries:      DefaultMaxRetries,
		initialInterval: DefaultInitialInterval,
		maxInterval:     DefaultMaxInterval,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.breaker == nil {
		c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{Name: "opendata"})
	}
	if c.payloadCache == nil {
		c.payloadCache = NewMemoryCache(DefaultPayloadTTL)
	}
	if c.listingCache == nil {
		c.listingCache = NewMemoryCache(DefaultListingTTL)
	}
	c.baseURL = strings.TrimRight(c.baseURL, "/")
	return c, nil
}

// log returns the configured logger, or a discard logger if none is set.
func (c *Client) log() *slog.Logger {
	if c.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.logger
}
