package dwdradar

import (
	"fmt"
	"time"
)

// Resolve returns the entry answering t.
//
// An exact timestamp match wins, first occurrence on ties. When the
// index holds no timestamped entries at all, the bundle covering t's
// month answers instead; a bundle never shadows an exact match.
func (ix *FileIndex) Resolve(t time.Time) (IndexEntry, error) {
	t = t.UTC()
	timestamped := false
	for _, e := range ix.entries {
		if e.Timestamp.IsZero() {
			continue
		}
		timestamped = true
		if e.Timestamp.Equal(t) {
			return e, nil
		}
	}
	if !timestamped {
		for _, e := range ix.entries {
			if e.Kind == KindBundle && e.Year == t.Year() && e.Month == t.Month() {
				return e, nil
			}
		}
	}
	return IndexEntry{}, fmt.Errorf("%w: %s", ErrNotFound, t.Format(time.RFC3339))
}

// ResolveLatest returns the most recent entry.
//
// A server-side "-latest-" marker always wins. Without a marker the
// timestamped entry with the greatest instant answers. An index holding
// only month bundles cannot name a single file and fails with
// ErrAmbiguousLatest; an empty index fails with ErrNotFound.
func (ix *FileIndex) ResolveLatest() (IndexEntry, error) {
	for _, e := range ix.entries {
		if e.Kind == KindLatestMarker {
			return e, nil
		}
	}
	var best IndexEntry
	found := false
	for _, e := range ix.entries {
		if e.Timestamp.IsZero() {
			continue
		}
		if !found || e.Timestamp.After(best.Timestamp) {
			best = e
			found = true
		}
	}
	if found {
		return best, nil
	}
	for _, e := range ix.entries {
		if e.Kind == KindBundle {
			return IndexEntry{}, fmt.Errorf("%w: index holds only month bundles", ErrAmbiguousLatest)
		}
	}
	return IndexEntry{}, fmt.Errorf("%w: empty index", ErrNotFound)
}
