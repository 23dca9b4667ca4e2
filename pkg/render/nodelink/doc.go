// Package nodelink renders a dataset hierarchy as a node-link diagram.
//
// # Overview
//
// A treemap hides the grouping structure inside nested rectangles. This
// package draws the same tree with Graphviz, one box per record and an
// arrow from every group to its children, which makes it easy to check how
// a dataset was grouped before looking at the treemap itself.
//
// # Usage
//
//	dot := nodelink.ToDOT(tree, nodelink.Options{Colors: render.DefaultColorizer()})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
