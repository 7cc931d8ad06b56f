package dwdradar

import (
	"context"
	"errors"
	"log/slog"

	"github.com/meigma/dwdradar/opendata"
	"github.com/meigma/dwdradar/store"
)

// OpenData is the remote archive capability the client consumes:
// recursive directory listing plus single-file download.
type OpenData interface {
	Lister
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Client retrieves radar payloads from the DWD open-data archive.
//
// With no options the client talks to https://opendata.dwd.de using the
// transport defaults (in-memory caches, retries, circuit breaker). A
// local payload store is optional; see WithStore, WithPreferLocal, and
// WithWriteLocal.
type Client struct {
	open     OpenData
	openOpts []opendata.Option

	store       store.Store
	preferLocal bool
	writeLocal  bool

	logger *slog.Logger
}

// NewClient creates a new archive client with the given options.
func NewClient(opts ...Option) (*Client, error) {
	c := &Client{}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if (c.preferLocal || c.writeLocal) && c.store == nil {
		return nil, errors.New("local store options require WithStore")
	}
	if c.open == nil {
		if c.logger != nil {
			c.openOpts = append(c.openOpts, opendata.WithLogger(c.logger))
		}
		open, err := opendata.New(c.openOpts...)
		if err != nil {
			return nil, err
		}
		c.open = open
	}
	return c, nil
}

// log returns the configured logger, or a discard logger if none is set.
func (c *Client) log() *slog.Logger {
	if c.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.logger
}
