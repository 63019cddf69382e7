package cache

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"time"
)

// FileCache keeps rendered diagram responses on the local filesystem,
// sharded into subdirectories by key hash. Render payloads are binary
// (png) or large text (svg), so each entry is a one-line JSON header
// followed by the raw payload rather than a payload encoded into JSON.
type FileCache struct {
	dir string
}

// NewFileCache opens a cache rooted at dir, creating it if needed.
func NewFileCache(dir string) (Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// entryHeader is the first line of an entry file. The original key is
// kept to detect hash collisions and stale layouts.
type entryHeader struct {
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// Get returns the payload stored under key. Expired, truncated, and
// colliding entries are evicted and reported as misses.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	line, err := r.ReadBytes('\n')
	var hdr entryHeader
	if err != nil || json.Unmarshal(line, &hdr) != nil || hdr.Key != key {
		_ = os.Remove(path)
		return nil, false, nil
	}
	if !hdr.ExpiresAt.IsZero() && time.Now().After(hdr.ExpiresAt) {
		_ = os.Remove(path)
		return nil, false, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set stores the payload under key, replacing any previous entry.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	hdr := entryHeader{Key: key}
	if ttl > 0 {
		hdr.ExpiresAt = time.Now().Add(ttl)
	}
	line, err := json.Marshal(hdr)
	if err != nil {
		return err
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	entry := append(append(line, '\n'), data...)
	return os.WriteFile(path, entry, 0o644)
}

// Delete removes the entry for key. Missing entries are not an error.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	err := os.Remove(c.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Close is a no-op; entries persist across runs.
func (c *FileCache) Close() error {
	return nil
}

// path shards entries by the first hash byte so a long-lived cache
// never piles thousands of files into one directory.
func (c *FileCache) path(key string) string {
	hash := Hash([]byte(key))
	return filepath.Join(c.dir, hash[:2], hash[2:]+".entry")
}

var _ Cache = (*FileCache)(nil)
