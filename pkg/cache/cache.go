// Package cache stores rendered chart artifacts between runs.
//
// Rendering a large dataset to PNG or PDF shells out to rsvg-convert, so the
// pipeline keys every artifact on the dataset content, the chart geometry and
// the output format, and reuses earlier results when all three match.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP server
//   - [NullCache]: stores nothing, for --no-cache and tests
//
// # Keys
//
// A [Keyer] derives keys. [DatasetHash] fingerprints a record slice and
// [Keyer.ArtifactKey] combines that fingerprint with the render options.
// [ScopedKeyer] prefixes every key so several deployments can share one
// Redis database.
package cache

import (
	"context"
	"time"
)

// TTLArtifact is how long rendered artifacts stay cached.
const TTLArtifact = 7 * 24 * time.Hour

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is reported
	// as hit == false with a nil error.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}
