package dwdradar

import "errors"

// Sentinel errors for request construction and the retrieval pipeline.
var (
	// ErrUnsupportedCombination is returned when a product, site, format,
	// resolution, and period selection has no route on the open-data server.
	ErrUnsupportedCombination = errors.New("dwdradar: unsupported combination")

	// ErrLatestOnly is returned when explicit timestamps are requested for a
	// product family that only publishes rolling files.
	ErrLatestOnly = errors.New("dwdradar: product supports latest only")

	// ErrNotFound is returned when a requested timestamp has no matching
	// index entry.
	ErrNotFound = errors.New("dwdradar: timestamp not in index")

	// ErrAmbiguousLatest is returned when latest is requested against an
	// index holding only month bundles.
	ErrAmbiguousLatest = errors.New("dwdradar: latest is ambiguous for bundled archives")

	// ErrTimestampNotInArchive is returned when the resolved bundle does not
	// contain a member for the requested timestamp.
	ErrTimestampNotInArchive = errors.New("dwdradar: timestamp not in archive")

	// ErrCorruptArchive is returned when archive bytes cannot be
	// decompressed or a probed container cannot be read.
	ErrCorruptArchive = errors.New("dwdradar: corrupt archive")
)
