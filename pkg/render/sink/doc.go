// Package sink writes treemap scenes in concrete output formats.
//
// # Overview
//
// A "sink" transforms a computed [render.Scene] into a final output format:
//
//   - SVG: the chart ([RenderSVG]) and the legend ([RenderLegendSVG])
//   - HTML: a standalone page with chart, legend and tooltip ([RenderHTML])
//   - JSON: the scene's draw commands for external tools ([RenderJSON])
//   - PDF and PNG: print and raster output (requires rsvg-convert)
//
// # SVG Output
//
// Every tile is a rect with class "tile" carrying data-name, data-category
// and data-value attributes, followed by its label as stacked tspans. Legend
// swatches carry class "legend-item".
//
//	svg := sink.RenderSVG(scene)
//	legend := sink.RenderLegendSVG(scene)
//
// # HTML Output
//
// [RenderHTML] inlines both SVGs and adds a #tooltip element. Moving over a
// tile shows its name, category and value next to the pointer; leaving the
// tile hides it again.
//
// [render.Scene]: github.com/matzehuels/treemap/pkg/render.Scene
package sink
