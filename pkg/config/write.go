package config

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
)

// fileConfig mirrors Config with TOML tags and durations as strings, which
// is the form the loader accepts back.
type fileConfig struct {
	Dataset string  `toml:"dataset"`
	Width   float64 `toml:"width"`
	Height  float64 `toml:"height"`
	Padding float64 `toml:"padding"`
	Strict  bool    `toml:"strict"`

	Legend struct {
		Columns  int     `toml:"columns"`
		Swatch   float64 `toml:"swatch"`
		HSpacing float64 `toml:"hspacing"`
		VSpacing float64 `toml:"vspacing"`
	} `toml:"legend"`

	Fetch struct {
		Timeout  string `toml:"timeout"`
		Attempts int    `toml:"attempts"`
	} `toml:"fetch"`

	Cache struct {
		Backend  string `toml:"backend"`
		Dir      string `toml:"dir,omitempty"`
		TTL      string `toml:"ttl"`
		Redis    string `toml:"redis,omitempty"`
		Mongo    string `toml:"mongo,omitempty"`
		Database string `toml:"database"`
		Prefix   string `toml:"prefix,omitempty"`
	} `toml:"cache"`

	Serve struct {
		Addr string `toml:"addr"`
	} `toml:"serve"`
}

const fileHeader = `# treemap configuration
#
# Every key can be overridden with a TREEMAP_* environment variable
# (TREEMAP_CACHE_BACKEND=redis) or the matching command-line flag.

`

// Write encodes cfg as TOML.
func Write(w io.Writer, cfg *Config) error {
	var f fileConfig
	f.Dataset = cfg.Dataset
	f.Width, f.Height, f.Padding = cfg.Width, cfg.Height, cfg.Padding
	f.Strict = cfg.Strict
	f.Legend.Columns = cfg.Legend.Columns
	f.Legend.Swatch = cfg.Legend.Swatch
	f.Legend.HSpacing = cfg.Legend.HSpacing
	f.Legend.VSpacing = cfg.Legend.VSpacing
	f.Fetch.Timeout = cfg.Fetch.Timeout.String()
	f.Fetch.Attempts = cfg.Fetch.Attempts
	f.Cache.Backend = cfg.Cache.Backend
	f.Cache.Dir = cfg.Cache.Dir
	f.Cache.TTL = cfg.Cache.TTL.String()
	f.Cache.Redis = cfg.Cache.Redis
	f.Cache.Mongo = cfg.Cache.Mongo
	f.Cache.Database = cfg.Cache.Database
	f.Cache.Prefix = cfg.Cache.Prefix
	f.Serve.Addr = cfg.Serve.Addr

	if _, err := io.WriteString(w, fileHeader); err != nil {
		return err
	}
	return toml.NewEncoder(w).Encode(f)
}

// WriteFile writes cfg to path. It refuses to replace an existing file
// unless force is set.
func WriteFile(path string, cfg *Config, force bool) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		return err
	}
	if err := Write(f, cfg); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
