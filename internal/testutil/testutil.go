// Package testutil provides fixtures shared by dwdradar tests: canned
// archive bytes in the shapes the open-data server publishes, and a
// fake server that lists them.
package testutil

import (
	"archive/tar"
	"bytes"
	"time"

	"github.com/klauspost/compress/gzip"
)

// GzipBytes compresses data with a single gzip layer, the shape of a
// flat single-instant archive.
func GzipBytes(data []byte) []byte {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, _ = zw.Write(data)
	_ = zw.Close()
	return buf.Bytes()
}

// Member is one file inside a bundle fixture.
type Member struct {
	Name string
	Data []byte
}

// TarGzBytes builds a gzip-compressed tar holding the given members in
// order, the shape of a historical monthly bundle.
func TarGzBytes(members ...Member) []byte {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for _, m := range members {
		_ = tw.WriteHeader(&tar.Header{
			Name:    m.Name,
			Mode:    0o644,
			Size:    int64(len(m.Data)),
			ModTime: time.Unix(0, 0),
		})
		_, _ = tw.Write(m.Data)
	}
	_ = tw.Close()
	return GzipBytes(buf.Bytes())
}

// FixedClock returns a clock frozen at t, advanced by calling the
// returned function.
func FixedClock(t time.Time) (clock func() time.Time, advance func(d time.Duration)) {
	now := t
	return func() time.Time { return now },
		func(d time.Duration) { now = now.Add(d) }
}
