package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/treemap/pkg/hierarchy"
	"github.com/matzehuels/treemap/pkg/render"
)

// Options configures hierarchy diagram rendering.
type Options struct {
	// Detailed adds value, height and depth to every label.
	// When false, only the node name is shown.
	Detailed bool

	// MaxDepth stops the diagram below this depth. Zero draws every level.
	MaxDepth int

	// Colors fills leaves with their category color. Nil leaves them white.
	Colors *render.Colorizer
}

// ToDOT converts a hierarchy tree to Graphviz DOT format. Groups are drawn
// as rounded boxes and leaves as filled boxes, with an edge from every group
// to each of its children in child order.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
func ToDOT(t *hierarchy.Tree, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.1;\n")
	buf.WriteString("\n")

	if t == nil || t.Len() == 0 {
		buf.WriteString("}\n")
		return buf.String()
	}

	var edges []string
	t.Walk(func(n *hierarchy.Node) bool {
		label := fmtLabel(*n, opts.Detailed)
		attrs := fmtAttrs(*n, label, opts.Colors)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
		if n.Parent != hierarchy.NoParent {
			edges = append(edges, fmt.Sprintf("  %q -> %q;\n", t.Nodes[n.Parent].ID, n.ID))
		}
		return opts.MaxDepth == 0 || n.Depth < opts.MaxDepth
	})

	buf.WriteString("\n")
	for _, e := range edges {
		buf.WriteString(e)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n hierarchy.Node, detailed bool) string {
	if !detailed {
		return n.Name
	}

	parts := []string{"value: " + render.FormatValue(n.Value)}
	if n.IsLeaf() {
		parts = append(parts, "category: "+n.Category)
	} else {
		parts = append(parts, fmt.Sprintf("height: %d", n.Height))
	}
	parts = append(parts, fmt.Sprintf("depth: %d", n.Depth))

	return n.Name + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(n hierarchy.Node, label string, colors *render.Colorizer) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if !n.IsLeaf() {
		attrs = append(attrs, "style=\"rounded,filled,bold\"", "fillcolor=\"#f0f0f0\"")
		return attrs
	}
	attrs = append(attrs, "style=filled")
	if colors != nil {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", colors.ColorOf(n.Category)))
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
