// Package server implements the HTTP treemap viewer behind "treemap serve".
//
// The server runs the pipeline once at startup and keeps the result in an
// atomically swapped snapshot, so requests never observe a half-built scene.
// With watching enabled, edits to a local dataset file trigger a reload.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/treemap/pkg/pipeline"
	"github.com/matzehuels/treemap/pkg/render/sink"
	"github.com/matzehuels/treemap/pkg/source"
)

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 5 * time.Second

// snapshot is an immutable view of one pipeline run.
type snapshot struct {
	result   *pipeline.Result
	legend   []byte
	loadedAt time.Time
}

// Server serves one dataset.
type Server struct {
	runner *pipeline.Runner
	opts   pipeline.Options
	logger *log.Logger

	current atomic.Pointer[snapshot]
	reloads atomic.Int64
}

// New creates a server. Call Load before serving.
func New(runner *pipeline.Runner, opts pipeline.Options, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	opts.Formats = []string{pipeline.FormatSVG, pipeline.FormatHTML, pipeline.FormatJSON}
	opts.VizType = pipeline.VizTypeTreemap
	return &Server{runner: runner, opts: opts, logger: logger}
}

// Load runs the pipeline and swaps in the new result. On failure the
// previous snapshot keeps being served.
func (s *Server) Load(ctx context.Context) error {
	return s.load(ctx, false)
}

// Reload is Load with the dataset cache bypassed.
func (s *Server) Reload(ctx context.Context) error {
	return s.load(ctx, true)
}

func (s *Server) load(ctx context.Context, refresh bool) error {
	opts := s.opts
	opts.Refresh = refresh
	res, err := s.runner.Execute(ctx, opts)
	if err != nil {
		return err
	}
	s.current.Store(&snapshot{
		result:   res,
		legend:   sink.RenderLegendSVG(res.Scene),
		loadedAt: time.Now(),
	})
	s.reloads.Add(1)
	s.logger.Info("dataset loaded", "run", res.RunID, "tiles", len(res.Scene.Tiles))
	return nil
}

func (s *Server) loaded() *snapshot { return s.current.Load() }

// Run serves on addr until ctx is cancelled. When watch is set and the
// dataset is a local file, the file is watched and reloaded on change.
func (s *Server) Run(ctx context.Context, addr string, watch bool) error {
	if s.loaded() == nil {
		if err := s.Load(ctx); err != nil {
			return err
		}
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("serving treemap", "addr", "http://"+addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	resolved := source.Resolve(s.opts.Source)
	if watch {
		if source.IsRemote(resolved) {
			s.logger.Warn("--watch ignored for remote datasets", "source", resolved)
		} else {
			g.Go(func() error {
				return s.watch(ctx, source.LocalPath(resolved))
			})
		}
	}

	return g.Wait()
}

func (s *Server) watch(ctx context.Context, path string) error {
	w, err := NewWatcher(path, DefaultDebounce)
	if err != nil {
		return err
	}
	s.logger.Info("watching dataset", "path", path)
	return w.Run(ctx, func() {
		if err := s.Reload(ctx); err != nil {
			s.logger.Error("reload failed, keeping previous dataset", "err", err)
		}
	})
}
