package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/treemap/pkg/cache"
	"github.com/matzehuels/treemap/pkg/hierarchy"
	"github.com/matzehuels/treemap/pkg/observability"
	"github.com/matzehuels/treemap/pkg/render"
	"github.com/matzehuels/treemap/pkg/source"
)

// Fetcher retrieves and decodes datasets. *source.Client implements it.
type Fetcher interface {
	FetchBytes(ctx context.Context, location string) ([]byte, bool, error)
	Invalidate(ctx context.Context, location string) error
}

// Runner executes the pipeline with caching.
//
// The Runner holds no per-run state; several goroutines may share one
// Runner with different options.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	Fetcher Fetcher
	Logger  *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer uses
// DefaultKeyer and a nil fetcher uses a source.Client over the same cache.
func NewRunner(c cache.Cache, keyer cache.Keyer, fetcher Fetcher, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	if fetcher == nil {
		fetcher = source.NewClient(source.WithCache(c, keyer), source.WithLogger(logger))
	}
	return &Runner{
		Cache:   c,
		Keyer:   keyer,
		Fetcher: fetcher,
		Logger:  logger,
	}
}

// Execute runs the complete fetch → build → layout → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		RunID:  uuid.NewString(),
		Source: source.Resolve(opts.Source),
	}
	logger := opts.Logger.With("run", result.RunID[:8])

	// Stage 1: Fetch
	fetchStart := time.Now()
	raw, body, hit, err := r.Fetch(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.DatasetHash = cache.Hash(body)
	result.Stats.Bytes = len(body)
	result.Stats.FetchTime = time.Since(fetchStart)
	result.CacheInfo.DatasetHit = hit

	logger.Info("fetched dataset",
		"source", source.Describe(opts.Source),
		"bytes", len(body),
		"cached", hit,
		"duration", result.Stats.FetchTime)

	// Stage 2: Build
	buildStart := time.Now()
	tree, err := Build(ctx, raw, opts)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Tree = tree
	result.Stats.Stats = tree.Stats()
	result.Stats.Nodes = tree.Len()
	result.Stats.Warnings = len(tree.Warnings)
	result.Stats.BuildTime = time.Since(buildStart)

	// Stage 3: Layout
	layoutStart := time.Now()
	result.Layout, result.Scene = ComputeScene(ctx, tree, opts)
	result.Stats.Categories = len(result.Scene.Legend)
	result.Stats.LayoutTime = time.Since(layoutStart)

	logger.Info("computed layout",
		"leaves", result.Stats.Leaves,
		"categories", result.Stats.Categories,
		"total", result.Stats.Total,
		"duration", result.Stats.BuildTime+result.Stats.LayoutTime)

	// Stage 4: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, result.DatasetHash, tree, result.Scene, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Fetch retrieves and decodes the dataset named by opts.Source. With
// opts.Refresh the cached body is dropped first.
func (r *Runner) Fetch(ctx context.Context, opts Options) (hierarchy.RawRecord, []byte, bool, error) {
	opts.SetDefaults()
	if opts.Refresh {
		if err := r.Fetcher.Invalidate(ctx, opts.Source); err != nil {
			r.Logger.Warn("cache invalidation failed", "err", err)
		}
	}

	body, hit, err := r.Fetcher.FetchBytes(ctx, opts.Source)
	if err != nil {
		return hierarchy.RawRecord{}, nil, false, err
	}
	raw, err := hierarchy.Parse(body)
	if err != nil {
		return hierarchy.RawRecord{}, nil, false, malformed(err, opts.Source)
	}
	return raw, body, hit, nil
}

// RenderWithCacheInfo renders every requested format, serving artifacts
// from the cache when all of them are present.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, datasetHash string, tree *hierarchy.Tree, scene render.Scene, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	sceneKey := r.Keyer.SceneKey(datasetHash, opts.SceneKeyOpts())

	artifacts := make(map[string][]byte, len(opts.Formats))
	allCached := !opts.Refresh
	for _, format := range opts.Formats {
		if !allCached {
			break
		}
		key := r.Keyer.ArtifactKey(sceneKey, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil || !hit {
			allCached = false
			break
		}
		artifacts[format] = data
	}
	if allCached && len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return artifacts, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	rendered, err := Render(ctx, tree, scene, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(sceneKey, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.ArtifactTTL); err != nil {
			r.Logger.Debug("artifact cache write failed", "format", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return rendered, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
