package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
)

// Server fakes the open-data server for tests. It serves a canned file
// tree: known paths return their bytes, everything else renders an
// autoindex-style directory page listing its immediate children.
// Requests are counted per path.
type Server struct {
	*httptest.Server

	mu    sync.Mutex
	files map[string][]byte
	hits  map[string]int
}

// NewServer starts a fake server over the given files, keyed by
// slash-separated path relative to the server root. The server shuts
// down when the test ends.
func NewServer(tb testing.TB, files map[string][]byte) *Server {
	tb.Helper()
	s := &Server{
		files: make(map[string][]byte, len(files)),
		hits:  make(map[string]int),
	}
	for p, data := range files {
		s.files[strings.Trim(p, "/")] = data
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	tb.Cleanup(s.Close)
	return s
}

// Hits reports how many times path was requested.
func (s *Server) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[strings.Trim(path, "/")]
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	p := strings.Trim(r.URL.Path, "/")

	s.mu.Lock()
	s.hits[p]++
	s.mu.Unlock()

	if data, ok := s.files[p]; ok {
		_, _ = w.Write(data)
		return
	}

	subdirs, names, found := s.children(p)
	if !found && p != "" {
		http.NotFound(w, r)
		return
	}

	var b strings.Builder
	b.WriteString("<html><head><title>Index</title></head><body>\n")
	b.WriteString("<a href=\"../\">../</a>\n")
	// Autoindex sort links; clients must not follow these.
	b.WriteString("<a href=\"?C=M;O=A\">Last modified</a>\n")
	for _, d := range subdirs {
		fmt.Fprintf(&b, "<a href=%q>%s</a>\n", d, d)
	}
	for _, n := range names {
		fmt.Fprintf(&b, "<a href=%q>%s</a>\n", n, n)
	}
	b.WriteString("</body></html>\n")

	w.Header().Set("Content-Type", "text/html")
	_, _ = fmt.Fprint(w, b.String())
}

// children returns the immediate subdirectories and files under p, and
// whether p is a prefix of any known path.
func (s *Server) children(p string) (subdirs, names []string, found bool) {
	prefix := p
	if prefix != "" {
		prefix += "/"
	}
	seen := make(map[string]bool)
	for fp := range s.files {
		if !strings.HasPrefix(fp, prefix) {
			continue
		}
		found = true
		rest := strings.TrimPrefix(fp, prefix)
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			child := rest[:i+1]
			if !seen[child] {
				seen[child] = true
				subdirs = append(subdirs, child)
			}
		} else if !seen[rest] {
			seen[rest] = true
			names = append(names, rest)
		}
	}
	sort.Strings(subdirs)
	sort.Strings(names)
	return subdirs, names, found
}
