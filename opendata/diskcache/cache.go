// Package diskcache provides a disk-backed TTL cache for the open-data
// transport.
//
// Keys are hashed with SHA256 to create safe filenames, since URLs
// contain special characters like ':', '/', and '?'. Entries are
// sharded by hash prefix to keep directories small. An entry's age is
// its file modification time; stale entries are deleted on read and
// evicted first when the cache exceeds its size limit.
package diskcache

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/meigma/dwdradar/opendata"
)

const (
	defaultShardPrefixLen = 2
	defaultDirPerm        = 0o700
)

// Cache stores transport responses on disk with mtime-based expiry.
type Cache struct {
	dir            string
	ttl            time.Duration
	clock          opendata.Clock
	shardPrefixLen int
	dirPerm        os.FileMode
	maxBytes       int64
	bytes          atomic.Int64
	pruneMu        sync.Mutex
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock replaces the cache's time source.
func WithClock(clock opendata.Clock) Option {
	return func(c *Cache) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithShardPrefixLen sets the number of hex characters used for sharding.
// Use 0 to disable sharding. Defaults to 2.
func WithShardPrefixLen(n int) Option {
	return func(c *Cache) {
		c.shardPrefixLen = n
	}
}

// WithDirPerm sets the directory permissions used for cache directories.
func WithDirPerm(mode os.FileMode) Option {
	return func(c *Cache) {
		c.dirPerm = mode
	}
}

// WithMaxBytes sets the maximum cache size in bytes.
// Values < 0 are invalid. Use 0 to disable the limit.
func WithMaxBytes(n int64) Option {
	return func(c *Cache) {
		c.maxBytes = n
	}
}

// New creates a disk cache rooted at dir whose entries expire ttl after
// they are written. A ttl of zero disables expiration.
func New(dir string, ttl time.Duration, opts ...Option) (*Cache, error) {
	if dir == "" {
		return nil, errors.New("cache dir is empty")
	}
	if ttl < 0 {
		return nil, errors.New("ttl must be >= 0")
	}
	c := &Cache{
		dir:            dir,
		ttl:            ttl,
		clock:          time.Now,
		shardPrefixLen: defaultShardPrefixLen,
		dirPerm:        defaultDirPerm,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.shardPrefixLen < 0 {
		return nil, errors.New("shard prefix length must be >= 0")
	}
	if c.maxBytes < 0 {
		return nil, errors.New("max bytes must be >= 0")
	}
	if err := os.MkdirAll(dir, c.dirPerm); err != nil {
		return nil, err
	}
	if size, err := dirSize(dir); err == nil {
		c.bytes.Store(size)
	} else {
		return nil, err
	}
	return c, nil
}

// Interface compliance.
var _ opendata.ByteCache = (*Cache)(nil)

// Get returns the bytes stored under key if present and fresh. A stale
// entry is deleted and reported as a miss.
func (c *Cache) Get(key string) ([]byte, bool) {
	path := c.path(key)
	root, err := os.OpenRoot(c.dir)
	if err != nil {
		return nil, false
	}
	defer root.Close()

	info, err := root.Stat(path)
	if err != nil {
		return nil, false
	}
	if c.expired(info.ModTime()) {
		_ = c.deleteByPath(root, path)
		return nil, false
	}

	data, err := root.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Put stores data under key. A fresh entry for the same key is kept; a
// stale one is replaced. Writes go through a temp file and rename so
// readers never see a partial entry.
func (c *Cache) Put(key string, data []byte) error {
	path := c.path(key)
	root, err := os.OpenRoot(c.dir)
	if err != nil {
		return fmt.Errorf("open cache root: %w", err)
	}
	defer root.Close()

	var replaced int64
	if info, err := root.Stat(path); err == nil {
		if !c.expired(info.ModTime()) {
			return nil
		}
		replaced = info.Size()
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat cache entry: %w", err)
	}

	written := int64(len(data))
	if ok, err := c.ensureCapacity(written - replaced); err != nil {
		return err
	} else if !ok {
		return nil // Cache full, skip silently
	}

	dir := filepath.Dir(path)
	if dir != "." {
		if err := root.MkdirAll(dir, c.dirPerm); err != nil {
			return fmt.Errorf("create cache dir: %w", err)
		}
	}

	tmp, tmpPath, err := createTemp(root, dir, "entry-*")
	if err != nil {
		return fmt.Errorf("create temp cache file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = root.Remove(tmpPath)
		return fmt.Errorf("write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = root.Remove(tmpPath)
		return fmt.Errorf("close cache file: %w", err)
	}
	if err := root.Rename(tmpPath, path); err != nil {
		_ = root.Remove(tmpPath)
		return fmt.Errorf("rename cache file: %w", err)
	}

	c.bytes.Add(written - replaced)
	return nil
}

func (c *Cache) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	hexHash := hex.EncodeToString(sum[:])
	if c.shardPrefixLen <= 0 {
		return hexHash
	}
	prefixLen := min(c.shardPrefixLen, len(hexHash))
	return filepath.Join(hexHash[:prefixLen], hexHash)
}

func (c *Cache) expired(modTime time.Time) bool {
	return c.ttl > 0 && c.clock().Sub(modTime) > c.ttl
}

// Delete removes a cached entry.
func (c *Cache) Delete(key string) error {
	path := c.path(key)
	root, err := os.OpenRoot(c.dir)
	if err != nil {
		return fmt.Errorf("open cache root: %w", err)
	}
	defer root.Close()
	return c.deleteByPath(root, path)
}

// MaxBytes returns the configured cache size limit (0 = unlimited).
func (c *Cache) MaxBytes() int64 {
	return c.maxBytes
}

// SizeBytes returns the current cache size in bytes.
func (c *Cache) SizeBytes() int64 {
	return c.bytes.Load()
}

// Prune removes entries until the cache is at or below targetBytes,
// oldest first. Stale entries go before fresh ones by construction,
// since expiry and eviction both follow modification time.
func (c *Cache) Prune(targetBytes int64) (int64, error) {
	if targetBytes < 0 {
		targetBytes = 0
	}
	c.pruneMu.Lock()
	defer c.pruneMu.Unlock()

	freed, remaining, err := pruneDir(c.dir, targetBytes)
	if err != nil {
		return 0, err
	}
	c.bytes.Store(remaining)
	return freed, nil
}

// PruneExpired removes every stale entry and returns the bytes freed.
func (c *Cache) PruneExpired() (int64, error) {
	if c.ttl <= 0 {
		return 0, nil
	}
	c.pruneMu.Lock()
	defer c.pruneMu.Unlock()

	freed, remaining, err := pruneExpiredDir(c.dir, c.clock().Add(-c.ttl))
	if err != nil {
		return 0, err
	}
	c.bytes.Store(remaining)
	return freed, nil
}

func (c *Cache) ensureCapacity(need int64) (bool, error) {
	if c.maxBytes <= 0 {
		return true, nil
	}
	if need > c.maxBytes {
		return false, nil
	}
	if c.SizeBytes()+need <= c.maxBytes {
		return true, nil
	}
	if _, err := c.Prune(c.maxBytes - need); err != nil {
		return false, err
	}
	return c.SizeBytes()+need <= c.maxBytes, nil
}

func (c *Cache) deleteByPath(root *os.Root, path string) error {
	info, err := root.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := root.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	c.bytes.Add(-info.Size())
	return nil
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
