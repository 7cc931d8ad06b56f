package dwdradar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flatEntry(url string, ts time.Time) IndexEntry {
	return IndexEntry{URL: url, Timestamp: ts, Kind: KindFlat}
}

func bundleEntry(url string, year int, month time.Month) IndexEntry {
	return IndexEntry{URL: url, Year: year, Month: month, Kind: KindBundle}
}

func TestResolve_ExactMatch(t *testing.T) {
	t.Parallel()

	ix := &FileIndex{entries: []IndexEntry{
		flatEntry("a", time.Date(2019, 8, 8, 0, 50, 0, 0, time.UTC)),
		flatEntry("b", time.Date(2019, 8, 8, 0, 55, 0, 0, time.UTC)),
	}}

	e, err := ix.Resolve(time.Date(2019, 8, 8, 0, 50, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "a", e.URL)

	_, err = ix.Resolve(time.Date(2019, 8, 8, 0, 47, 0, 0, time.UTC))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolve_ExactMatchTieKeepsFirst(t *testing.T) {
	t.Parallel()

	ts := time.Date(2019, 8, 8, 0, 50, 0, 0, time.UTC)
	ix := &FileIndex{entries: []IndexEntry{
		flatEntry("first", ts),
		flatEntry("second", ts),
	}}

	e, err := ix.Resolve(ts)
	require.NoError(t, err)
	assert.Equal(t, "first", e.URL)
}

func TestResolve_BundleByMonth(t *testing.T) {
	t.Parallel()

	ix := &FileIndex{entries: []IndexEntry{
		bundleEntry("jul", 2019, time.July),
		bundleEntry("aug", 2019, time.August),
	}}

	// Any instant inside the month resolves to its bundle.
	e, err := ix.Resolve(time.Date(2019, 8, 8, 0, 50, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "aug", e.URL)

	// Month boundaries stay exact.
	e, err = ix.Resolve(time.Date(2019, 7, 31, 23, 50, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "jul", e.URL)

	_, err = ix.Resolve(time.Date(2019, 9, 1, 0, 50, 0, 0, time.UTC))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolve_BundleNeverShadowsInstants(t *testing.T) {
	t.Parallel()

	// A mixed index answers by instant only: the bundle for the right
	// month must not catch timestamps that have no flat file.
	ix := &FileIndex{entries: []IndexEntry{
		bundleEntry("aug-bundle", 2019, time.August),
		flatEntry("flat", time.Date(2019, 8, 8, 0, 50, 0, 0, time.UTC)),
	}}

	e, err := ix.Resolve(time.Date(2019, 8, 8, 0, 50, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "flat", e.URL)

	_, err = ix.Resolve(time.Date(2019, 8, 9, 0, 50, 0, 0, time.UTC))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolve_NormalizesZone(t *testing.T) {
	t.Parallel()

	ix := &FileIndex{entries: []IndexEntry{
		flatEntry("a", time.Date(2019, 8, 8, 0, 50, 0, 0, time.UTC)),
	}}

	berlin := time.FixedZone("CEST", 2*60*60)
	e, err := ix.Resolve(time.Date(2019, 8, 8, 2, 50, 0, 0, berlin))
	require.NoError(t, err)
	assert.Equal(t, "a", e.URL)
}

func TestResolveLatest_MarkerWins(t *testing.T) {
	t.Parallel()

	ix := &FileIndex{entries: []IndexEntry{
		{URL: "marker", Kind: KindLatestMarker},
		flatEntry("newest", time.Date(2019, 8, 8, 23, 50, 0, 0, time.UTC)),
	}}

	e, err := ix.ResolveLatest()
	require.NoError(t, err)
	assert.Equal(t, "marker", e.URL)
}

func TestResolveLatest_MaxTimestamp(t *testing.T) {
	t.Parallel()

	ix := &FileIndex{entries: []IndexEntry{
		flatEntry("old", time.Date(2019, 8, 8, 0, 50, 0, 0, time.UTC)),
		flatEntry("new", time.Date(2019, 8, 8, 1, 50, 0, 0, time.UTC)),
		flatEntry("mid", time.Date(2019, 8, 8, 1, 0, 0, 0, time.UTC)),
	}}

	e, err := ix.ResolveLatest()
	require.NoError(t, err)
	assert.Equal(t, "new", e.URL)

	// Resolving latest twice against the same index is idempotent.
	again, err := ix.ResolveLatest()
	require.NoError(t, err)
	assert.Equal(t, e, again)
}

func TestResolveLatest_BundlesAmbiguous(t *testing.T) {
	t.Parallel()

	ix := &FileIndex{entries: []IndexEntry{
		bundleEntry("jul", 2019, time.July),
		bundleEntry("aug", 2019, time.August),
	}}

	_, err := ix.ResolveLatest()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAmbiguousLatest)
}

func TestResolveLatest_EmptyIndex(t *testing.T) {
	t.Parallel()

	ix := &FileIndex{}
	_, err := ix.ResolveLatest()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}
