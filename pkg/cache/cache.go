// Package cache provides byte caches for rendered artifacts and loaded POI
// sources.
//
// Three backends implement [Cache]:
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: shared cache for the preview server
//   - [NullCache]: caching disabled
//
// Keys are produced by a [Keyer] so every backend sees the same layout:
//
//	artifact:<sha256(scene hash, format, stamps)>
//	source:<sha256(source uri, query)>
package cache

import (
	"context"
	"time"
)

// TTLs for cached entries.
const (
	TTLArtifact = 24 * time.Hour
	TTLSource   = time.Hour
)

// Cache stores opaque byte values by key.
type Cache interface {
	// Get returns the value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores a value. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// ArtifactKeyOpts are the render inputs that are not part of the scene.
type ArtifactKeyOpts struct {
	Format      string `json:"format"`
	IconsStamp  string `json:"icons_stamp,omitempty"`
	Background  string `json:"background_stamp,omitempty"`
	LinkedAsset bool   `json:"linked_asset,omitempty"`
}

// SourceKeyOpts identify a remote POI query.
type SourceKeyOpts struct {
	Collection string `json:"collection,omitempty"`
	Table      string `json:"table,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string
	SourceKey(uri string, opts SourceKeyOpts) string
}
