// Package cli implements the treemap command-line interface.
//
// Commands share one layered configuration (see pkg/config) and one pipeline
// runner, so "render", "legend", "browse" and "serve" always agree on the
// layout they produce for the same settings.
//
// # Commands
//
//   - render: run the pipeline and write SVG, HTML, JSON, PNG, PDF or DOT files
//   - legend: print the category legend with per-category totals
//   - browse: step through tiles in the terminal and inspect their tooltips
//   - serve: serve the interactive chart over HTTP
//   - cache: inspect or clear the local cache
//   - config: write a starter treemap.toml
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
package cli

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/treemap/pkg/buildinfo"
	"github.com/matzehuels/treemap/pkg/cache"
	"github.com/matzehuels/treemap/pkg/config"
	"github.com/matzehuels/treemap/pkg/pipeline"
	"github.com/matzehuels/treemap/pkg/render"
	"github.com/matzehuels/treemap/pkg/source"
	"github.com/matzehuels/treemap/pkg/treemap"
)

const (
	// appName is the application name used for directories and display.
	appName = "treemap"

	// retryDelay is the base delay between fetch attempts.
	retryDelay = 500 * time.Millisecond
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Treemap draws hierarchical sales data as nested rectangles",
		Long:         `Treemap fetches a hierarchical dataset (video game, movie or Kickstarter sales), lays it out as a squarified treemap and renders it as SVG, HTML, PNG or PDF, or serves it as an interactive chart.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ./"+config.DefaultFile+" if present)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.legendCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// addSettingsFlags registers the flags that override config keys. Flag names
// spell config keys with dashes, so --legend-columns sets legend.columns.
func addSettingsFlags(fs *pflag.FlagSet) {
	grid := render.DefaultLegendGrid
	fs.Float64("width", treemap.DefaultWidth, "canvas width")
	fs.Float64("height", treemap.DefaultHeight, "canvas height")
	fs.Float64("padding", treemap.DefaultPadding, "gap between sibling tiles")
	fs.Bool("strict", true, "reject records with unusable values instead of treating them as zero")
	fs.Int("legend-columns", grid.PerRow, "legend entries per row")
	fs.Float64("legend-swatch", grid.RectSize, "legend swatch size")
	fs.Float64("legend-hspacing", grid.HSpacing, "horizontal legend spacing")
	fs.Float64("legend-vspacing", grid.VSpacing, "vertical legend spacing")
	fs.Duration("fetch-timeout", source.DefaultTimeout, "HTTP timeout for dataset downloads")
	fs.Int("fetch-attempts", 1, "attempts for transient download failures")
	fs.String("cache-backend", cache.BackendFile, "cache backend: file, redis, mongo, none")
	fs.String("cache-dir", "", "file cache directory")
	fs.Duration("cache-ttl", cache.DatasetTTL, "how long downloaded datasets stay cached")
	fs.String("cache-redis", "", "redis URL for the redis backend")
	fs.String("cache-mongo", "", "mongo URI for the mongo backend")
	fs.String("cache-prefix", "", "prefix for every cache key")
}

// loadConfig reads the layered configuration, with cmd's flags on top.
// A positional dataset argument overrides the configured dataset.
func (c *CLI) loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg, err := config.Load(c.configPath, cmd.Flags())
	if err != nil {
		return nil, err
	}
	if len(args) > 0 {
		cfg.Dataset = args[0]
	}
	if path, ok := config.ConfigPath(c.configPath); ok {
		loggerFromContext(cmd.Context()).Debug("loaded config", "file", path)
	}
	return cfg, nil
}

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, noCache bool) (*pipeline.Runner, error) {
	logger := loggerFromContext(ctx)

	backend := cfg.CacheBackend()
	if noCache {
		backend.Backend = cache.BackendNone
	}
	ch, err := cache.Open(ctx, backend)
	if err != nil {
		logger.Warn("cache unavailable, continuing without", "backend", backend.Backend, "err", err)
		ch = cache.NewNullCache()
	}

	keyer := cfg.CacheKeyer()
	fetcher := source.NewClient(
		source.WithCache(ch, keyer),
		source.WithTTL(cfg.Cache.TTL),
		source.WithTimeout(cfg.Fetch.Timeout),
		source.WithAttempts(cfg.Fetch.Attempts, retryDelay),
		source.WithHeader("User-Agent", buildinfo.UserAgent()),
		source.WithLogger(logger),
	)
	return pipeline.NewRunner(ch, keyer, fetcher, logger), nil
}

// pipelineOptions maps config onto pipeline options.
func pipelineOptions(ctx context.Context, cfg *config.Config) pipeline.Options {
	padding := cfg.Padding
	return pipeline.Options{
		Source:  cfg.Dataset,
		Lenient: !cfg.Strict,
		Width:   cfg.Width,
		Height:  cfg.Height,
		Padding: &padding,
		Legend:  cfg.LegendGrid(),
		Logger:  loggerFromContext(ctx),
	}
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}
