package dwdradar

import (
	"context"
	"fmt"
	"iter"
	"net/url"
	"path"
	"slices"
	"strings"
	"time"
)

// Kind classifies how a file in the archive encodes time.
type Kind uint8

const (
	// KindFlat is a single-instant file, one gzip layer deep.
	KindFlat Kind = iota
	// KindBundle is a monthly tar.gz bundle of per-instant members.
	KindBundle
	// KindLatestMarker is a server-side "-latest-" pointer to the most
	// recent file in its directory.
	KindLatestMarker
)

// String returns the kind's name for logs.
func (k Kind) String() string {
	switch k {
	case KindFlat:
		return "flat"
	case KindBundle:
		return "bundle"
	case KindLatestMarker:
		return "latest-marker"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Compact timestamp layouts used across the archive.
const (
	// bundleTokenLayout is the YYYYMM token in monthly bundle names.
	bundleTokenLayout = "200601"
	// flatTokenLayout is the yymmddHHMM token in flat file names.
	flatTokenLayout = "0601021504"
	// memberTokenLayout is the YYYYMMDDHHmm token in bundle member names.
	memberTokenLayout = "200601021504"

	bundleTokenLen = len(bundleTokenLayout)
	flatTokenLen   = len(flatTokenLayout)
)

// IndexEntry is one file in the archive.
type IndexEntry struct {
	// URL is the absolute location of the file on the server.
	URL string
	// Timestamp is the instant encoded in the filename, UTC. Zero for
	// bundles and latest markers.
	Timestamp time.Time
	// Year and Month identify the span covered by a bundle. Zero for
	// flat files and markers.
	Year  int
	Month time.Month
	// Kind tells flat files, bundles, and latest markers apart.
	Kind Kind
}

// sortTime orders entries chronologically: flat files by instant,
// bundles by the first of their month, markers before everything.
func (e IndexEntry) sortTime() time.Time {
	switch {
	case !e.Timestamp.IsZero():
		return e.Timestamp
	case e.Year != 0:
		return time.Date(e.Year, e.Month, 1, 0, 0, 0, 0, time.UTC)
	}
	return time.Time{}
}

// FileIndex is the parsed listing of one route: every retrievable file
// with its decoded time metadata, sorted ascending.
type FileIndex struct {
	entries []IndexEntry
}

// Len returns the number of indexed files.
func (ix *FileIndex) Len() int { return len(ix.entries) }

// Entries returns an iterator over the index in chronological order.
func (ix *FileIndex) Entries() iter.Seq[IndexEntry] {
	return func(yield func(IndexEntry) bool) {
		for _, e := range ix.entries {
			if !yield(e) {
				return
			}
		}
	}
}

// Lister lists a remote directory tree. Implementations return absolute
// file URLs.
type Lister interface {
	ListRecursive(ctx context.Context, dir string) ([]string, error)
}

// BuildIndex lists the request's route and parses the result into a
// FileIndex. An empty directory yields an empty index, not an error.
func BuildIndex(ctx context.Context, lister Lister, req *Request) (*FileIndex, error) {
	urls, err := lister.ListRecursive(ctx, req.rt.path)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", req.rt.path, err)
	}
	return newFileIndex(urls, req.rt), nil
}

// newFileIndex parses raw listing URLs under the route's filename
// rules. Files without a usable time token are dropped; duplicate URLs
// keep their first occurrence.
func newFileIndex(urls []string, rt route) *FileIndex {
	entries := make([]IndexEntry, 0, len(urls))
	seen := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		e, ok := parseIndexEntry(u, rt)
		if !ok {
			continue
		}
		if _, dup := seen[e.URL]; dup {
			continue
		}
		seen[e.URL] = struct{}{}
		entries = append(entries, e)
	}
	slices.SortStableFunc(entries, func(a, b IndexEntry) int {
		return a.sortTime().Compare(b.sortTime())
	})
	return &FileIndex{entries: entries}
}

func parseIndexEntry(rawURL string, rt route) (IndexEntry, bool) {
	p := urlPath(rawURL)
	if rt.grid {
		// Grid directories mix archives with PDFs and station lists;
		// only gzip files under a bin/ subdirectory are data.
		if !strings.Contains(p, "/bin/") || !strings.HasSuffix(p, ".gz") {
			return IndexEntry{}, false
		}
	} else if strings.Contains(path.Base(p), "-latest-") {
		return IndexEntry{URL: rawURL, Kind: KindLatestMarker}, true
	}

	token, ok := timestampToken(p)
	if !ok {
		return IndexEntry{}, false
	}
	if len(token) == bundleTokenLen {
		ts, err := time.Parse(bundleTokenLayout, token)
		if err != nil {
			return IndexEntry{}, false
		}
		return IndexEntry{URL: rawURL, Year: ts.Year(), Month: ts.Month(), Kind: KindBundle}, true
	}
	ts, err := time.Parse(flatTokenLayout, token)
	if err != nil {
		return IndexEntry{}, false
	}
	return IndexEntry{URL: rawURL, Timestamp: ts, Kind: KindFlat}, true
}

// timestampToken returns the first maximal digit run of exactly six
// (YYYYMM bundle) or ten (yymmddHHMM instant) characters in p. Runs of
// any other length never qualify, so four-digit years in directory
// names and five-digit station numbers are passed over.
func timestampToken(p string) (string, bool) {
	for i := 0; i < len(p); {
		if !isDigit(p[i]) {
			i++
			continue
		}
		j := i
		for j < len(p) && isDigit(p[j]) {
			j++
		}
		if n := j - i; n == bundleTokenLen || n == flatTokenLen {
			return p[i:j], true
		}
		i = j
	}
	return "", false
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// urlPath strips the scheme and host so digit runs in a hostname or
// port never qualify as timestamp tokens.
func urlPath(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		return u.Path
	}
	return rawURL
}
