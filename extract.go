package dwdradar

import (
	"archive/tar"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
)

// Extract decompresses a downloaded archive and returns the payload
// answering t.
//
// Every archive carries one gzip layer. Historical bundles additionally
// wrap a tar of per-instant members; the member whose name contains t
// in the compact YYYYMMDDHHmm form is returned. Flat files are fully
// unwrapped by the gzip layer and returned whole. The shapes are told
// apart by probing the decompressed bytes for the tar magic.
func Extract(t time.Time, raw []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptArchive, err)
	}
	decompressed, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptArchive, err)
	}
	_ = zr.Close()

	if !isTarContainer(decompressed) {
		return decompressed, nil
	}
	return extractMember(t, decompressed)
}

// extractMember walks a tar stream for the member matching t.
func extractMember(t time.Time, archive []byte) ([]byte, error) {
	token := t.UTC().Format(memberTokenLayout)
	tr := tar.NewReader(bytes.NewReader(archive))
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptArchive, err)
		}
		if hdr.Typeflag != tar.TypeReg || !strings.Contains(hdr.Name, token) {
			continue
		}
		payload, err := io.ReadAll(tr)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptArchive, err)
		}
		return payload, nil
	}
	return nil, fmt.Errorf("%w: no member matches %s", ErrTimestampNotInArchive, token)
}

// isTarContainer reports whether b starts a tar stream, checking for
// the ustar magic at its fixed header offset.
func isTarContainer(b []byte) bool {
	const (
		magic       = "ustar"
		magicOffset = 257
	)
	return len(b) >= magicOffset+len(magic) && string(b[magicOffset:magicOffset+len(magic)]) == magic
}
