// Package pkg provides the libraries behind the treemap command.
//
// # Overview
//
// Treemap draws a hierarchical sales dataset (platforms of video games,
// genres of movies, categories of Kickstarter campaigns) as nested
// rectangles whose areas are proportional to sales. The pkg directory is
// organized into three areas:
//
//  1. Domain logic: [hierarchy], [treemap] and [render]
//  2. Infrastructure: [source], [cache], [config], [errors], [observability]
//  3. Orchestration: [pipeline]
//
// # Architecture
//
// The data flow for one run:
//
//	preset name, URL or file
//	         ↓
//	    [source] (fetch, cached)
//	         ↓
//	    [hierarchy] (build tree, aggregate values, sort siblings)
//	         ↓
//	    [treemap] (squarified layout)
//	         ↓
//	    [render] (colors, labels, legend → Scene)
//	         ↓
//	    [render/sink] SVG/HTML/JSON/PNG/PDF, or [render/nodelink] DOT
//
// # Quick Start
//
//	raw, _, err := source.NewClient().Fetch(ctx, "videogames")
//	tree, err := hierarchy.Build(raw)
//	tree.Sort()
//
//	layout := treemap.Layout(tree, 960, 570, 1.5)
//	scene := render.NewScene(tree, layout, render.WithTitle("Video Game Sales"))
//	svg := sink.RenderSVG(scene)
//
// Or run every stage with caching through the pipeline:
//
//	runner := pipeline.NewRunner(nil, nil, nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{Source: "movies", Formats: []string{"html"}})
//
// # Main Packages
//
// [hierarchy] - Validates raw records, derives dotted ids, sums group values
// and orders siblings by height then value.
//
// [treemap] - Squarified layout with golden-ratio aspect target and inner
// padding between siblings.
//
// [render] - Category colorizer, legend grid, label splitting, tooltip state
// and the Scene draw-command list.
//
// [render/sink] - Scene output as SVG, standalone HTML, JSON, PNG and PDF.
//
// [render/nodelink] - The hierarchy as a Graphviz node-link diagram.
//
// [source] - Dataset presets and the fetch client.
//
// [cache] - Cache interface with file, Redis, MongoDB and null backends.
//
// [pipeline] - fetch → build → layout → render, shared by every command
// and the HTTP viewer.
package pkg
