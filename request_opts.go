package dwdradar

import "time"

// RequestOption configures a Request.
type RequestOption func(*requestConfig)

type requestConfig struct {
	site       Site
	format     Format
	resolution Resolution
	period     Period
	timestamps []time.Time
	start, end time.Time
	hasRange   bool
	step       time.Duration
	latest     bool
}

// DefaultRangeStep is the interval WithRange expands at unless
// WithRangeStep overrides it.
const DefaultRangeStep = 24 * time.Hour

// WithSite selects the radar site for per-site products.
func WithSite(site Site) RequestOption {
	return func(cfg *requestConfig) {
		cfg.site = site
	}
}

// WithFormat selects the published file format. Products that exist in
// a single format accept the empty default.
func WithFormat(format Format) RequestOption {
	return func(cfg *requestConfig) {
		cfg.format = format
	}
}

// WithResolution selects the grid resolution.
func WithResolution(resolution Resolution) RequestOption {
	return func(cfg *requestConfig) {
		cfg.resolution = resolution
	}
}

// WithPeriod selects the recent or historical grid archive.
func WithPeriod(period Period) RequestOption {
	return func(cfg *requestConfig) {
		cfg.period = period
	}
}

// WithTimestamps requests the given instants. Repeated use appends.
func WithTimestamps(timestamps ...time.Time) RequestOption {
	return func(cfg *requestConfig) {
		cfg.timestamps = append(cfg.timestamps, timestamps...)
	}
}

// WithRange requests every instant from start to end inclusive, stepping
// by DefaultRangeStep unless WithRangeStep overrides it.
func WithRange(start, end time.Time) RequestOption {
	return func(cfg *requestConfig) {
		cfg.start = start
		cfg.end = end
		cfg.hasRange = true
	}
}

// WithRangeStep sets the interval WithRange expands at.
func WithRangeStep(step time.Duration) RequestOption {
	return func(cfg *requestConfig) {
		cfg.step = step
	}
}

// Latest requests the most recent available file.
func Latest() RequestOption {
	return func(cfg *requestConfig) {
		cfg.latest = true
	}
}
