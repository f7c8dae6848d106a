// Package cache provides caching for computed layouts.
//
// Laying out a canvas is deterministic for a given document and engine
// configuration, so results are cached under a key derived from the
// document content hash and the layout options. Three backends are
// provided:
//   - FileCache: file-based storage for CLI usage
//   - RedisCache: Redis-backed storage for the HTTP service
//   - NullCache: no-op backend for tests or disabled caching
//
// Keys are generated through the Keyer interface so multi-tenant
// deployments can namespace entries with a ScopedKeyer.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Cache stores opaque byte values under string keys with optional TTL.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was found; expired or corrupt entries count as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend.
	Close() error
}

// =============================================================================
// Keys
// =============================================================================

// layoutKeyPrefix starts every layout result key. The digest after the
// prefix identifies one document-plus-options combination and doubles as
// the FileCache shard name.
const layoutKeyPrefix = "layout:"

// LayoutKeyOpts are the engine parameters that distinguish one layout
// result from another for the same document.
type LayoutKeyOpts struct {
	Width      float64
	Height     float64
	Padding    float64
	Iterations int
	Gravity    float64
	MaxStep    float64
	Seed       int64
}

// Keyer generates cache keys.
type Keyer interface {
	// LayoutKey generates a key for a layout result given the document
	// content hash and the engine parameters.
	LayoutKey(docHash string, opts LayoutKeyOpts) string
}

// DefaultKeyer generates unscoped cache keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// LayoutKey generates a key of the form "layout:<digest>", where the
// digest covers the document hash and every simulation parameter. Any
// option change, including the seed, yields a different key.
func (k *DefaultKeyer) LayoutKey(docHash string, opts LayoutKeyOpts) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%g|%g|%g|%d|%g|%g|%d",
		docHash,
		opts.Width, opts.Height, opts.Padding,
		opts.Iterations, opts.Gravity, opts.MaxStep, opts.Seed)
	return layoutKeyPrefix + hex.EncodeToString(h.Sum(nil))
}

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
//
// Example usage:
//
//	userKeyer := NewScopedKeyer(NewDefaultKeyer(), "user:abc123:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// LayoutKey generates a prefixed key for a layout result.
func (k *ScopedKeyer) LayoutKey(docHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(docHash, opts)
}

// Hash computes the SHA-256 content hash of a marshaled document as a
// 64-character hex string.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// =============================================================================
// Null Backend
// =============================================================================

// NullCache discards every write, so layout runs always recompute.
// Used by tests and by --no-cache.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache {
	return NullCache{}
}

// Get always reports a miss.
func (NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set discards the value.
func (NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

// Delete does nothing.
func (NullCache) Delete(ctx context.Context, key string) error {
	return nil
}

// Close does nothing.
func (NullCache) Close() error {
	return nil
}

// Ensure NullCache implements Cache.
var _ Cache = NullCache{}
