// Package render turns a laid-out treemap into draw commands.
//
// # Overview
//
// Rendering is split into a pure part and an output part. This package is
// the pure part:
//
//   - [Colorizer] assigns palette colors to categories
//   - [BuildLegend] and [LegendGrid] produce the category legend
//   - [SplitLabel] and [LabelLines] break tile names into stacked lines
//   - [NewScene] combines all of the above into a [Scene]
//
// A Scene is plain data. It can be drawn onto any [Target], serialized, or
// handed to the SVG and HTML writers in the [sink] subpackage.
//
//	tree.Sort()
//	res := treemap.Layout(tree, 960, 570, 1.5)
//	scene := render.NewScene(tree, res)
//	svg := sink.RenderSVG(scene)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
// # Hierarchy Diagrams
//
// The [nodelink] subpackage draws the dataset hierarchy as a Graphviz tree,
// which is handy for checking how records were grouped.
//
// [sink]: github.com/matzehuels/treemap/pkg/render/sink
// [nodelink]: github.com/matzehuels/treemap/pkg/render/nodelink
package render
