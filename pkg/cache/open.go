package cache

import (
	"context"
	"fmt"
	"strings"
)

// Backend names accepted by Open.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// Config selects and configures a backend.
type Config struct {
	Backend  string // file (default), redis, mongo or none
	Dir      string // file: directory, DefaultDir() when empty
	RedisURL string // redis: redis://host:port/db
	MongoURI string // mongo: mongodb://host:port
	Database string // mongo: database name, "treemap" when empty
}

// Open returns the backend described by cfg.
func Open(ctx context.Context, cfg Config) (Cache, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", BackendFile:
		dir := cfg.Dir
		if dir == "" {
			d, err := DefaultDir()
			if err != nil {
				return nil, fmt.Errorf("get cache dir: %w", err)
			}
			dir = d
		}
		return NewFileCache(dir)
	case BackendRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("%w: redis url", ErrMissingAddress)
		}
		return NewRedisCache(ctx, cfg.RedisURL)
	case BackendMongo:
		if cfg.MongoURI == "" {
			return nil, fmt.Errorf("%w: mongo uri", ErrMissingAddress)
		}
		db := cfg.Database
		if db == "" {
			db = "treemap"
		}
		return NewMongoCache(ctx, cfg.MongoURI, db)
	case BackendNone:
		return NewNullCache(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
