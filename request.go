package dwdradar

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// Request is one validated query against the archive.
//
// A Request is immutable after construction: the route is resolved and
// the timestamp list normalized exactly once, so a request can be
// collected repeatedly and shared across goroutines.
type Request struct {
	sel        selector
	rt         route
	timestamps []time.Time
	latest     bool
}

// NewRequest validates the product and qualifiers against the archive
// layout and normalizes the requested instants.
//
// Exactly one of WithTimestamps, WithRange, or Latest must be given.
// Only the grid product is addressable by timestamp; every other
// product is published as a rolling window without a queryable history,
// so non-latest requests for them fail with ErrLatestOnly.
//
// Instants are normalized to UTC, deduplicated, and sorted ascending.
// Hourly and daily grids are published at minute 50; timestamps for
// them snap to the enclosing hour's provision instant.
func NewRequest(product Product, opts ...RequestOption) (*Request, error) {
	cfg := requestConfig{step: DefaultRangeStep}
	for _, opt := range opts {
		opt(&cfg)
	}

	sel := selector{
		product:    product,
		site:       cfg.site,
		format:     cfg.format,
		resolution: cfg.resolution,
		period:     cfg.period,
	}
	rt, err := routeFor(sel)
	if err != nil {
		return nil, err
	}
	req := &Request{sel: sel, rt: rt, latest: cfg.latest}

	modes := 0
	if len(cfg.timestamps) > 0 {
		modes++
	}
	if cfg.hasRange {
		modes++
	}
	if cfg.latest {
		modes++
	}
	if modes != 1 {
		return nil, errors.New("dwdradar: exactly one of timestamps, a range, or latest must be given")
	}

	if !product.IsGrid() && !cfg.latest {
		return nil, fmt.Errorf("%w: %s", ErrLatestOnly, product)
	}
	if cfg.latest {
		return req, nil
	}

	timestamps := cfg.timestamps
	if cfg.hasRange {
		timestamps, err = expandRange(cfg.start, cfg.end, cfg.step)
		if err != nil {
			return nil, err
		}
	}
	req.timestamps = normalizeTimestamps(timestamps, req.snapsToProvision())
	return req, nil
}

// Product returns the requested product.
func (r *Request) Product() Product { return r.sel.product }

// Site returns the requested radar site, empty for nationwide products.
func (r *Request) Site() Site { return r.sel.site }

// Format returns the requested file format, empty for the default.
func (r *Request) Format() Format { return r.sel.format }

// Resolution returns the requested grid resolution, empty for
// non-grid products.
func (r *Request) Resolution() Resolution { return r.sel.resolution }

// Period returns the requested grid period, empty for non-grid
// products.
func (r *Request) Period() Period { return r.sel.period }

// Timestamps returns the normalized instants in ascending order. The
// returned slice is a copy.
func (r *Request) Timestamps() []time.Time { return slices.Clone(r.timestamps) }

// IsLatest reports whether the request targets the most recent file.
func (r *Request) IsLatest() bool { return r.latest }

// snapsToProvision reports whether requested instants snap to the
// RADOLAN provision minute. Hourly and daily grids are published at
// HH:50; sub-hourly grids carry their own minute marks.
func (r *Request) snapsToProvision() bool {
	return r.sel.product.IsGrid() && !r.sel.resolution.subHourly()
}

func expandRange(start, end time.Time, step time.Duration) ([]time.Time, error) {
	if step <= 0 {
		return nil, errors.New("dwdradar: range step must be positive")
	}
	if end.Before(start) {
		return nil, errors.New("dwdradar: range end precedes start")
	}
	var timestamps []time.Time
	for t := start; !t.After(end); t = t.Add(step) {
		timestamps = append(timestamps, t)
	}
	return timestamps, nil
}

func normalizeTimestamps(timestamps []time.Time, snap bool) []time.Time {
	out := make([]time.Time, 0, len(timestamps))
	for _, t := range timestamps {
		t = t.UTC()
		if snap {
			t = t.Truncate(time.Hour).Add(50 * time.Minute)
		}
		out = append(out, t)
	}
	slices.SortFunc(out, time.Time.Compare)
	return slices.CompactFunc(out, time.Time.Equal)
}
