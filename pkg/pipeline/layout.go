package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/treemap/pkg/hierarchy"
	"github.com/matzehuels/treemap/pkg/observability"
	"github.com/matzehuels/treemap/pkg/render"
	"github.com/matzehuels/treemap/pkg/treemap"
)

// ComputeScene lays out a sorted tree and turns it into draw commands.
// Every call gets a fresh colorizer, so colors follow the order in which
// this tree's categories first appear.
func ComputeScene(ctx context.Context, tree *hierarchy.Tree, opts Options) (treemap.Result, render.Scene) {
	opts.SetDefaults()
	observability.Pipeline().OnLayoutStart(ctx, opts.VizType, tree.Len())
	start := time.Now()

	layout := treemap.Layout(tree, opts.Width, opts.Height, opts.PaddingValue())
	scene := render.NewScene(tree, layout,
		render.WithColorizer(render.DefaultColorizer()),
		render.WithLegendGrid(opts.Legend),
		render.WithTitle(opts.Title),
	)

	observability.Pipeline().OnLayoutComplete(ctx, opts.VizType, time.Since(start), nil)
	return layout, scene
}
