// Package config loads treemap settings.
//
// Values are layered, later sources winning:
//
//  1. built-in defaults
//  2. a TOML file (treemap.toml in the working directory, or --config)
//  3. TREEMAP_* environment variables (TREEMAP_CACHE_BACKEND=redis)
//  4. command-line flags that the user actually set
//
// Nested keys use dots (cache.backend). Environment variables and flags spell
// the dots as underscores and dashes respectively.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/matzehuels/treemap/pkg/cache"
	apperr "github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/render"
	"github.com/matzehuels/treemap/pkg/source"
	"github.com/matzehuels/treemap/pkg/treemap"
)

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = "treemap.toml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "TREEMAP_"

// Config holds all settings.
type Config struct {
	Dataset string  `koanf:"dataset"`
	Width   float64 `koanf:"width"`
	Height  float64 `koanf:"height"`
	Padding float64 `koanf:"padding"`
	Strict  bool    `koanf:"strict"`

	Legend LegendConfig `koanf:"legend"`
	Fetch  FetchConfig  `koanf:"fetch"`
	Cache  CacheConfig  `koanf:"cache"`
	Serve  ServeConfig  `koanf:"serve"`
}

// LegendConfig sets the legend grid geometry.
type LegendConfig struct {
	Columns  int     `koanf:"columns"`
	Swatch   float64 `koanf:"swatch"`
	HSpacing float64 `koanf:"hspacing"`
	VSpacing float64 `koanf:"vspacing"`
}

// FetchConfig controls dataset downloads.
type FetchConfig struct {
	Timeout  time.Duration `koanf:"timeout"`
	Attempts int           `koanf:"attempts"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Backend  string        `koanf:"backend"`
	Dir      string        `koanf:"dir"`
	TTL      time.Duration `koanf:"ttl"`
	Redis    string        `koanf:"redis"`
	Mongo    string        `koanf:"mongo"`
	Database string        `koanf:"database"`
	Prefix   string        `koanf:"prefix"`
}

// ServeConfig configures the HTTP viewer.
type ServeConfig struct {
	Addr string `koanf:"addr"`
}

// Defaults returns the built-in settings as a nested map.
func Defaults() map[string]any {
	grid := render.DefaultLegendGrid
	return map[string]any{
		"dataset": source.DefaultPreset,
		"width":   treemap.DefaultWidth,
		"height":  treemap.DefaultHeight,
		"padding": treemap.DefaultPadding,
		"strict":  true,
		"legend": map[string]any{
			"columns":  grid.PerRow,
			"swatch":   grid.RectSize,
			"hspacing": grid.HSpacing,
			"vspacing": grid.VSpacing,
		},
		"fetch": map[string]any{
			"timeout":  source.DefaultTimeout.String(),
			"attempts": 1,
		},
		"cache": map[string]any{
			"backend":  cache.BackendFile,
			"dir":      "",
			"ttl":      cache.DatasetTTL.String(),
			"redis":    "",
			"mongo":    "",
			"database": "treemap",
			"prefix":   "",
		},
		"serve": map[string]any{
			"addr": "localhost:8080",
		},
	}
}

// Load reads the layered configuration. path names an explicit config file;
// when empty, DefaultFile is used if it exists. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(mapProvider(Defaults()), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.Wrap(apperr.ErrCodeInvalidConfig, err, "read %s", path)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithValue(flags, ".", k, flagKey), nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidConfig, err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".")
}

// flagKey maps "cache-backend" to "cache.backend".
func flagKey(name, value string) (string, any) {
	return strings.ReplaceAll(name, "-", "."), value
}

// Validate checks values that would otherwise fail deep inside the pipeline.
func (c *Config) Validate() error {
	if err := apperr.ValidateDimensions(c.Width, c.Height, c.Padding); err != nil {
		return err
	}
	if c.Legend.Columns < 1 {
		return apperr.New(apperr.ErrCodeInvalidConfig, "legend.columns must be at least 1, got %d", c.Legend.Columns)
	}
	if c.Fetch.Attempts < 1 {
		return apperr.New(apperr.ErrCodeInvalidConfig, "fetch.attempts must be at least 1, got %d", c.Fetch.Attempts)
	}
	switch c.Cache.Backend {
	case cache.BackendFile, cache.BackendRedis, cache.BackendMongo, cache.BackendNone:
	default:
		return apperr.New(apperr.ErrCodeInvalidConfig, "unknown cache.backend %q", c.Cache.Backend)
	}
	return nil
}

// LegendGrid converts the legend settings.
func (c *Config) LegendGrid() render.LegendGrid {
	return render.LegendGrid{
		PerRow:   c.Legend.Columns,
		RectSize: c.Legend.Swatch,
		HSpacing: c.Legend.HSpacing,
		VSpacing: c.Legend.VSpacing,
	}
}

// CacheBackend converts the cache settings for cache.Open.
func (c *Config) CacheBackend() cache.Config {
	return cache.Config{
		Backend:  c.Cache.Backend,
		Dir:      c.Cache.Dir,
		RedisURL: c.Cache.Redis,
		MongoURI: c.Cache.Mongo,
		Database: c.Cache.Database,
	}
}

// CacheKeyer returns the keyer for cache entries. A non-empty cache.prefix
// scopes every key so several deployments can share one redis or mongo.
func (c *Config) CacheKeyer() cache.Keyer {
	if c.Cache.Prefix == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(nil, c.Cache.Prefix)
}

// ConfigPath reports which file Load would read for path.
func ConfigPath(path string) (string, bool) {
	if path == "" {
		path = DefaultFile
	}
	_, err := os.Stat(path)
	return path, err == nil
}

type mapProvider map[string]any

func (p mapProvider) Read() (map[string]any, error) { return p, nil }

func (p mapProvider) ReadBytes() ([]byte, error) {
	return nil, errors.New("not implemented")
}
