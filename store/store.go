// Package store persists extracted payloads under deterministic keys.
//
// A Key composes the identity of a logical request, so storing and
// restoring the same request round-trips through the same location
// regardless of which store backs it.
package store

import (
	"errors"
	"fmt"
	"path"
	"time"
)

var (
	// ErrNotFound is returned when no payload is stored under a key.
	ErrNotFound = errors.New("store: key not found")

	// ErrStoreNotFound is returned when the store itself is missing or
	// unreadable, as opposed to a single absent key.
	ErrStoreNotFound = errors.New("store: store not found")
)

// Key identifies one stored payload.
type Key struct {
	Parameter  string
	Resolution string
	// Period is empty for radar payloads, which have no
	// historical/recent split once extracted.
	Period string
	Entity string
}

// String renders the key as a slash-separated relative path:
// parameter/resolution[/period]/entity.
func (k Key) String() string {
	if k.Period == "" {
		return path.Join(k.Parameter, k.Resolution, k.Entity)
	}
	return path.Join(k.Parameter, k.Resolution, k.Period, k.Entity)
}

// radarTimeLayout is the compact instant token in radar entity names.
const radarTimeLayout = "200601021504"

// RadarKey builds the key for one radar payload. The entity name embeds
// the product, resolution, and instant, so a directory of payloads
// stays unambiguous even when copied out of its keyed tree.
func RadarKey(product, resolution string, t time.Time) Key {
	return Key{
		Parameter:  product,
		Resolution: resolution,
		Entity:     fmt.Sprintf("%s_%s_%s", product, resolution, t.UTC().Format(radarTimeLayout)),
	}
}

// StationKey builds the key for one station observation series.
func StationKey(parameter, resolution, period string, stationID int) Key {
	return Key{
		Parameter:  parameter,
		Resolution: resolution,
		Period:     period,
		Entity:     fmt.Sprintf("station_id_%d", stationID),
	}
}

// Store is a byte-oriented payload store.
type Store interface {
	// Put persists a payload under key, overwriting any previous
	// payload. Storing an empty payload is a no-op, not an error.
	Put(key Key, payload []byte) error

	// Get restores the payload stored under key. A missing key is
	// reported with ErrNotFound, a missing store with ErrStoreNotFound;
	// both are recoverable for callers that can fall back to the remote
	// archive.
	Get(key Key) ([]byte, error)
}
