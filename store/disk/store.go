// Package disk provides a filesystem-backed payload store.
package disk

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/meigma/dwdradar/store"
)

const defaultDirPerm = 0o750

// Store persists payloads as plain files under a root directory, one
// file per key path. The layout mirrors Key.String, so a stored tree is
// browsable with ordinary filesystem tools.
type Store struct {
	dir     string
	dirPerm os.FileMode
}

// Option configures a Store.
type Option func(*Store)

// WithDirPerm sets the permissions used for created directories.
func WithDirPerm(mode os.FileMode) Option {
	return func(s *Store) {
		s.dirPerm = mode
	}
}

// New creates a disk store rooted at dir, creating it if needed.
func New(dir string, opts ...Option) (*Store, error) {
	if dir == "" {
		return nil, errors.New("store dir is empty")
	}
	s := &Store{dir: dir, dirPerm: defaultDirPerm}
	for _, opt := range opts {
		opt(s)
	}
	if err := os.MkdirAll(dir, s.dirPerm); err != nil {
		return nil, err
	}
	return s, nil
}

// Interface compliance.
var _ store.Store = (*Store)(nil)

// Put writes the payload under the key's path, creating parent
// directories on demand. Writes go through a temp file and rename so a
// concurrent Get never sees a partial payload. Empty payloads are
// skipped.
func (s *Store) Put(key store.Key, payload []byte) error {
	if len(payload) == 0 {
		return nil
	}

	path := filepath.FromSlash(key.String())
	root, err := os.OpenRoot(s.dir)
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrStoreNotFound, err)
	}
	defer root.Close()

	dir := filepath.Dir(path)
	if dir != "." {
		if err := root.MkdirAll(dir, s.dirPerm); err != nil {
			return fmt.Errorf("create store dir: %w", err)
		}
	}

	tmp, tmpPath, err := createTemp(root, dir, "payload-*")
	if err != nil {
		return fmt.Errorf("create temp store file: %w", err)
	}
	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		_ = root.Remove(tmpPath)
		return fmt.Errorf("write store file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = root.Remove(tmpPath)
		return fmt.Errorf("close store file: %w", err)
	}
	if err := root.Rename(tmpPath, path); err != nil {
		_ = root.Remove(tmpPath)
		return fmt.Errorf("rename store file: %w", err)
	}
	return nil
}

// Get reads the payload stored under key. Reads are confined to the
// store root.
func (s *Store) Get(key store.Key) ([]byte, error) {
	root, err := os.OpenRoot(s.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrStoreNotFound, err)
	}
	defer root.Close()

	data, err := root.ReadFile(filepath.FromSlash(key.String()))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", store.ErrNotFound, key)
		}
		return nil, err
	}
	return data, nil
}

func createTemp(root *os.Root, dir, pattern string) (*os.File, string, error) {
	if pattern == "" {
		pattern = "tmp"
	}
	if !strings.Contains(pattern, "*") {
		pattern += "*"
	}
	if dir == "" {
		dir = "."
	}

	for tries := 0; tries < 10000; tries++ {
		var randBytes [8]byte
		if _, err := rand.Read(randBytes[:]); err != nil {
			return nil, "", err
		}
		name := strings.Replace(pattern, "*", hex.EncodeToString(randBytes[:]), 1)
		path := filepath.Join(dir, name)
		f, err := root.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o600)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return nil, "", err
		}
		return f, path, nil
	}

	return nil, "", errors.New("failed to create temp file")
}
