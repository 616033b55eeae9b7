// Package cache stores ordering results keyed by graph content and options.
//
// Three backends implement [Cache]:
//   - [FileCache]: one JSON file per entry, used by the CLI
//   - [RedisCache]: shared storage for server deployments
//   - [NullCache]: never stores anything
//
// Keys come from a [Keyer]. [DefaultKeyer] hashes the graph digest together
// with every option that can change the result, so two requests that could
// produce different layerings never share an entry.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the stored value and true, or nil and false on a miss.
	// Expired entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default TTLs.
const (
	// TTLOrder is how long an ordering result stays cached. Results are a
	// pure function of their key, so the TTL only bounds storage growth.
	TTLOrder = 7 * 24 * time.Hour
)

// OrderKeyOpts lists the options that influence an ordering result.
type OrderKeyOpts struct {
	Quality   string        `json:"quality,omitempty"`
	MaxSweeps int           `json:"max_sweeps,omitempty"`
	MaxStale  int           `json:"max_stale,omitempty"`
	Timeout   time.Duration `json:"timeout,omitempty"`
	Parallel  bool          `json:"parallel,omitempty"`
	Bias      string        `json:"bias,omitempty"`
	Init      string        `json:"init,omitempty"`
	Normalize bool          `json:"normalize,omitempty"`
}

// Keyer generates cache keys.
type Keyer interface {
	// OrderKey returns the key for an ordering of the graph with the given
	// content hash under opts.
	OrderKey(graphHash string, opts OrderKeyOpts) string
}

// DefaultKeyer produces keys of the form "order:v1:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// OrderKey implements Keyer.
func (DefaultKeyer) OrderKey(graphHash string, opts OrderKeyOpts) string {
	return orderKey(graphHash, opts)
}

var _ Keyer = DefaultKeyer{}
