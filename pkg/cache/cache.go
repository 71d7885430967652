// Package cache provides content-addressed storage for computed layouts.
//
// A layout pass is pure: identical normalized input always yields identical
// output. Results can therefore be keyed by a hash of that input and reused
// across CLI runs or server requests.
//
// # Backends
//
//   - [FileCache]: one file per entry under a directory, for the CLI
//   - [RedisCache]: shared storage for multi-instance servers
//   - [NullCache]: caching disabled
//
// # Keys
//
// A [Keyer] derives keys from a request hash and the options that affect the
// result. Wrap it in [NewScopedKeyer] to isolate namespaces.
package cache

import (
	"context"
	"time"
)

// Default entry lifetimes.
const (
	// TTLLayout is how long computed layouts are kept.
	TTLLayout = 7 * 24 * time.Hour

	// TTLPreview is how long rendered previews are kept.
	TTLPreview = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiration.
type Cache interface {
	// Get returns the stored value and whether it was found.
	// Expired entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

// =============================================================================
// Keys
// =============================================================================

// LayoutKeyOpts lists the options that change a layout for the same input.
type LayoutKeyOpts struct {
	Unit         string  `json:"unit"`
	Offset       float64 `json:"offset"`
	Gap          float64 `json:"gap"`
	MaxInstances int     `json:"max_instances"`
	Overlaps     bool    `json:"overlaps"`
}

// PreviewKeyOpts lists the options that change a rendered preview.
type PreviewKeyOpts struct {
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Labels bool   `json:"labels"`
}

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey returns the key for a layout of the request with the given hash.
	LayoutKey(requestHash string, opts LayoutKeyOpts) string

	// PreviewKey returns the key for a preview rendered from the layout with
	// the given hash.
	PreviewKey(layoutHash string, opts PreviewKeyOpts) string
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns "layout:<sha256>".
func (DefaultKeyer) LayoutKey(requestHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", requestHash, opts)
}

// PreviewKey returns "preview:<sha256>".
func (DefaultKeyer) PreviewKey(layoutHash string, opts PreviewKeyOpts) string {
	return hashKey("preview", layoutHash, opts)
}

var _ Keyer = DefaultKeyer{}
