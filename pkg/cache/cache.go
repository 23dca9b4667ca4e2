// Package cache stores fetched datasets and rendered artifacts.
//
// # Backends
//
// Every backend implements [Cache], a byte-oriented key/value store with
// per-entry TTLs:
//
//   - [FileCache]: one JSON file per entry under a local directory (CLI default)
//   - [RedisCache]: a shared Redis instance, for several viewers behind a proxy
//   - [MongoCache]: a MongoDB collection with a TTL index
//   - [NullCache]: stores nothing, used for --no-cache
//
// [Open] picks a backend by name from a [Config].
//
// # Keys
//
// Keys are built by a [Keyer] so that every caller agrees on the layout:
//
//	keyer := cache.NewDefaultKeyer()
//	raw := keyer.DatasetKey("https://example.com/data.json")
//	scene := keyer.SceneKey(cache.Hash(body), cache.SceneKeyOpts{Width: 960, Height: 570})
//	svg := keyer.ArtifactKey(cache.Hash(sceneJSON), cache.ArtifactKeyOpts{Format: "svg"})
//
// [ScopedKeyer] prefixes every key, which lets several deployments share one
// Redis or MongoDB without colliding.
package cache

import (
	"context"
	"time"
)

// Default lifetimes for cached entries.
const (
	DatasetTTL  = 24 * time.Hour
	SceneTTL    = 7 * 24 * time.Hour
	ArtifactTTL = 7 * 24 * time.Hour
)

// Cache is a key/value store for raw bytes.
//
// Get reports a miss with ok=false and a nil error; errors are reserved for
// backend failures. A ttl of zero means the entry does not expire.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
