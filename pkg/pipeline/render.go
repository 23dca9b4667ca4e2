package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/treemap/pkg/hierarchy"
	"github.com/matzehuels/treemap/pkg/observability"
	"github.com/matzehuels/treemap/pkg/render"
	"github.com/matzehuels/treemap/pkg/render/nodelink"
	"github.com/matzehuels/treemap/pkg/render/sink"
)

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, tree *hierarchy.Tree, scene render.Scene, opts Options) (artifacts map[string][]byte, err error) {
	opts.SetDefaults()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	defer func() {
		observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	}()

	if opts.VizType == VizTypeNodelink {
		return renderNodelink(ctx, tree, scene, opts)
	}
	return renderTreemap(ctx, tree, scene, opts)
}

func renderTreemap(ctx context.Context, tree *hierarchy.Tree, scene render.Scene, opts Options) (map[string][]byte, error) {
	svgOpts := buildSVGOptions(opts)
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(scene, svgOpts...)
		case FormatHTML:
			data, err = sink.RenderHTML(scene, sink.WithTitle(opts.Title), sink.WithDescription(opts.Description), sink.WithChartOptions(svgOpts...))
		case FormatJSON:
			data, err = sink.RenderJSON(scene)
		case FormatPNG:
			data, err = sink.RenderPNG(ctx, scene, sink.WithScale(opts.Scale), sink.WithPNGSVGOptions(svgOpts...))
		case FormatPDF:
			data, err = sink.RenderPDF(ctx, scene, svgOpts...)
		case FormatDOT:
			data = []byte(nodelink.ToDOT(tree, dotOptions(scene, opts)))
		default:
			return nil, fmt.Errorf("unsupported treemap format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderNodelink(ctx context.Context, tree *hierarchy.Tree, scene render.Scene, opts Options) (map[string][]byte, error) {
	dot := nodelink.ToDOT(tree, dotOptions(scene, opts))
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatDOT:
			data = []byte(dot)
		case FormatSVG:
			data, err = nodelink.RenderSVG(ctx, dot)
		case FormatPNG:
			data, err = nodelink.RenderPNG(ctx, dot, opts.Scale)
		case FormatPDF:
			data, err = nodelink.RenderPDF(ctx, dot)
		default:
			return nil, fmt.Errorf("unsupported nodelink format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// dotOptions colors diagram leaves like their tiles by replaying the
// legend order through a fresh colorizer.
func dotOptions(scene render.Scene, opts Options) nodelink.Options {
	colors := render.DefaultColorizer()
	for _, item := range scene.Legend {
		colors.ColorOf(item.Category)
	}
	return nodelink.Options{Detailed: opts.Detailed, Colors: colors}
}

func buildSVGOptions(opts Options) []sink.SVGOption {
	if opts.Static {
		return []sink.SVGOption{sink.WithoutInteraction()}
	}
	return nil
}
