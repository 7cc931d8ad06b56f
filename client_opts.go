package dwdradar

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/meigma/dwdradar/opendata"
	"github.com/meigma/dwdradar/opendata/diskcache"
	"github.com/meigma/dwdradar/store"
)

// Option configures a Client.
type Option func(*Client) error

// Default cache size limits for WithCacheDir.
const (
	DefaultPayloadCacheSize int64 = 1 << 30  // 1 GB
	DefaultListingCacheSize int64 = 10 << 20 // 10 MB
)

// --- Transport Options ---

// WithOpenData sets the transport used for listings and downloads.
// It takes precedence over the transport options below.
func WithOpenData(open OpenData) Option {
	return func(c *Client) error {
		if open == nil {
			return errors.New("open-data transport is nil")
		}
		c.open = open
		return nil
	}
}

// WithBaseURL points the default transport at a different server root.
// This is useful for mirrors and local fixtures.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) error {
		c.openOpts = append(c.openOpts, opendata.WithBaseURL(baseURL))
		return nil
	}
}

// WithUserAgent sets the User-Agent header for archive requests.
func WithUserAgent(ua string) Option {
	return func(c *Client) error {
		c.openOpts = append(c.openOpts, opendata.WithUserAgent(ua))
		return nil
	}
}

// --- Caching Options ---

// WithCacheDir enables disk-backed transport caches in subdirectories
// of dir.
//
// This creates:
//   - dir/payloads/ - downloaded archives (1 GB, 12 h TTL)
//   - dir/listings/ - directory pages (10 MB, 5 min TTL)
//
// Without this option the default transport caches in memory and loses
// its state on restart.
func WithCacheDir(dir string) Option {
	return func(c *Client) error {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return err
		}

		payloads, err := diskcache.New(
			filepath.Join(dir, "payloads"),
			opendata.DefaultPayloadTTL,
			diskcache.WithMaxBytes(DefaultPayloadCacheSize),
		)
		if err != nil {
			return err
		}
		listings, err := diskcache.New(
			filepath.Join(dir, "listings"),
			opendata.DefaultListingTTL,
			diskcache.WithMaxBytes(DefaultListingCacheSize),
		)
		if err != nil {
			return err
		}
		c.openOpts = append(c.openOpts,
			opendata.WithPayloadCache(payloads),
			opendata.WithListingCache(listings),
		)
		return nil
	}
}

// --- Store Options ---

// WithStore attaches a local payload store.
//
// A store alone changes nothing; combine it with WithWriteLocal to
// persist collected payloads and WithPreferLocal to read them back
// before going to the network.
// Import github.com/meigma/dwdradar/store/disk for the disk implementation.
func WithStore(s store.Store) Option {
	return func(c *Client) error {
		c.store = s
		return nil
	}
}

// WithPreferLocal makes Collect try the store before the remote
// archive. Requires WithStore.
func WithPreferLocal(enabled bool) Option {
	return func(c *Client) error {
		c.preferLocal = enabled
		return nil
	}
}

// WithWriteLocal persists every extracted payload to the store.
// Requires WithStore.
func WithWriteLocal(enabled bool) Option {
	return func(c *Client) error {
		c.writeLocal = enabled
		return nil
	}
}

// WithLogger sets a logger for the client.
// The logger is propagated to the default transport.
// If nil, a discard logger is used (default behavior).
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		c.logger = logger
		return nil
	}
}
