package dwdradar

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/meigma/dwdradar/store"
)

// Result is one collected payload with the instant it answers.
type Result struct {
	Timestamp time.Time
	Payload   []byte
}

// Collect resolves the request and yields one Result per timestamp.
//
// Collection is lazy: the index is built once on first use, each
// payload is downloaded only when the consumer advances the iterator,
// and breaking out of the loop stops all further downloads.
//
// Failures are scoped to a single timestamp. An instant absent from the
// index is logged and skipped without a yield; download and extraction
// failures are yielded as errors carrying the instant, and the batch
// continues. Only an index that cannot be built at all ends the
// sequence with a single error.
func (c *Client) Collect(ctx context.Context, req *Request) iter.Seq2[Result, error] {
	return func(yield func(Result, error) bool) {
		index, err := BuildIndex(ctx, c.open, req)
		if err != nil {
			yield(Result{}, err)
			return
		}

		if !req.sel.product.IsGrid() {
			c.collectMarker(ctx, index, yield)
			return
		}

		timestamps := req.timestamps
		if req.latest {
			entry, err := index.ResolveLatest()
			if err != nil {
				yield(Result{}, err)
				return
			}
			timestamps = []time.Time{entry.Timestamp}
		}

		for _, t := range timestamps {
			if err := ctx.Err(); err != nil {
				yield(Result{}, err)
				return
			}
			if !c.collectOne(ctx, index, req, t, yield) {
				return
			}
		}
	}
}

// Latest collects the single most recent payload for the request.
func (c *Client) Latest(ctx context.Context, req *Request) (Result, error) {
	for res, err := range c.Collect(ctx, req) {
		return res, err
	}
	return Result{}, fmt.Errorf("%w: nothing collected", ErrNotFound)
}

// collectMarker serves non-grid products, which resolve to a single
// most-recent file. The file is delivered as published, without
// extraction; real-time products are raw, not gzip-wrapped.
func (c *Client) collectMarker(ctx context.Context, index *FileIndex, yield func(Result, error) bool) {
	entry, err := index.ResolveLatest()
	if err != nil {
		yield(Result{}, err)
		return
	}
	payload, err := c.open.Fetch(ctx, entry.URL)
	if err != nil {
		yield(Result{}, fmt.Errorf("fetch %s: %w", entry.URL, err))
		return
	}
	ts := entry.Timestamp
	if ts.IsZero() {
		// Marker files carry no instant of their own.
		ts = time.Now().UTC()
	}
	yield(Result{Timestamp: ts, Payload: payload}, nil)
}

// collectOne delivers the payload for one grid instant. It reports
// whether the consumer wants more results.
func (c *Client) collectOne(ctx context.Context, index *FileIndex, req *Request, t time.Time, yield func(Result, error) bool) bool {
	key := store.RadarKey(string(req.sel.product), string(req.sel.resolution), t)

	if c.preferLocal {
		payload, err := c.store.Get(key)
		switch {
		case err == nil:
			c.log().Info("payload restored from local store", "timestamp", t, "key", key.String())
			return yield(Result{Timestamp: t, Payload: payload}, nil)
		case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrStoreNotFound):
			c.log().Debug("payload not stored locally, collecting from remote", "timestamp", t)
		default:
			c.log().Warn("local store read failed", "timestamp", t, "error", err)
		}
	}

	entry, err := index.Resolve(t)
	if err != nil {
		c.log().Warn("timestamp not in index, skipping", "timestamp", t)
		return true
	}

	raw, err := c.open.Fetch(ctx, entry.URL)
	if err != nil {
		return yield(Result{Timestamp: t}, fmt.Errorf("fetch %s: %w", entry.URL, err))
	}

	payload, err := Extract(t, raw)
	if err != nil {
		return yield(Result{Timestamp: t}, err)
	}

	if c.writeLocal {
		if err := c.store.Put(key, payload); err != nil {
			c.log().Warn("local store write failed", "timestamp", t, "error", err)
		} else {
			c.log().Debug("payload stored locally", "timestamp", t, "key", key.String())
		}
	}

	return yield(Result{Timestamp: t, Payload: payload}, nil)
}
