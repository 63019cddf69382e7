// Package cache provides pluggable byte caches for rendered diagram
// responses.
//
// The render client stores fetched images keyed by diagram token and output
// format, so repeated renders of an unchanged schema never hit the render
// server. Three backends are provided:
//
//   - FileCache: entries on disk under the XDG cache directory (CLI default)
//   - RedisCache: shared cache for the HTTP service mode
//   - NullCache: no-op, used when caching is disabled
//
// Keys are arbitrary strings; backends hash them as needed. Entries carry a
// TTL; a TTL of zero means the entry never expires.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Key builds a cache key from a prefix and the parts that identify a
// render: typically the diagram token, encoding tag, and format.
func Key(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(sum[:]))
}

// Hash returns the hex SHA-256 of data. Backends use it to derive
// filesystem-safe names from arbitrary keys.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Cache stores opaque byte values under string keys with optional expiry.
type Cache interface {
	// Get retrieves a value. The second return is false on a miss;
	// expired entries are treated as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// NullCache discards everything; every lookup misses. It backs the
// --no-cache flag and the "none" cache backend, and is the render
// client's default until a real cache is attached.
type NullCache struct{}

// NewNullCache returns the no-op cache.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (NullCache) Delete(context.Context, string) error { return nil }

func (NullCache) Close() error { return nil }

var _ Cache = NullCache{}
