// Package treemap computes squarified treemap layouts.
//
// [Layout] takes a sorted [hierarchy.Tree] and a canvas size and returns a
// [Result] holding one [Rect] per node. The tiling follows the squarified
// algorithm of Bruls, Huizing and van Wijk: siblings are packed into rows
// whose worst aspect ratio stays close to the golden ratio, alternating
// between horizontal and vertical rows as the remaining space changes shape.
//
//	tree.Sort()
//	res := treemap.Layout(tree, 960, 570, 1.5)
//	for _, idx := range tree.Leaves() {
//	    r := res.Rects[idx]
//	    fmt.Println(tree.Nodes[idx].ID, r.X0, r.Y0, r.Width(), r.Height())
//	}
//
// Inner padding separates siblings by exactly the requested number of pixels.
// The outer edge of the canvas is never padded.
//
// [hierarchy.Tree]: github.com/matzehuels/treemap/pkg/hierarchy.Tree
package treemap
