package treemap

import (
	"gonum.org/v1/gonum/floats"

	"github.com/matzehuels/treemap/pkg/hierarchy"
)

const eps = 1e-9

// Default canvas geometry.
const (
	DefaultWidth   = 960.0
	DefaultHeight  = 570.0
	DefaultPadding = 1.5
)

// Result holds the rectangles computed by Layout. Rects is indexed by node
// index, so Rects[i] belongs to Tree.Nodes[i]. A Result never changes after
// Layout returns; laying the same tree out again yields a fresh Result.
type Result struct {
	Width   float64
	Height  float64
	Padding float64
	Rects   []Rect

	tree *hierarchy.Tree
}

type engine struct {
	tree    *hierarchy.Tree
	rects   []Rect
	padding float64
	ratio   float64
}

// Layout tiles t onto a width×height canvas.
//
// The root receives the whole canvas. Each group's rectangle is subdivided
// among its children in child order, proportionally to their values, with
// padding pixels between neighbouring siblings and none along the outer edge
// of the root. Children with value 0 receive an empty rectangle.
//
// The tree is expected to be sorted with [hierarchy.Tree.Sort] beforehand;
// Layout itself never reorders or mutates nodes.
func Layout(t *hierarchy.Tree, width, height, padding float64) Result {
	res := Result{Width: width, Height: height, Padding: padding, tree: t}
	if t == nil || t.Len() == 0 {
		return res
	}

	e := &engine{
		tree:    t,
		rects:   make([]Rect, t.Len()),
		padding: padding,
		ratio:   Phi,
	}

	e.rects[0] = Rect{X1: width, Y1: height}
	e.position(0, 0)
	res.Rects = e.rects
	return res
}

// position finalizes node idx, whose rectangle was assigned by its parent,
// and tiles its children. inset is the half-gap owed to the node's siblings.
func (e *engine) position(idx int, inset float64) {
	r := e.rects[idx].inset(inset)
	e.rects[idx] = r

	n := &e.tree.Nodes[idx]
	if n.IsLeaf() {
		return
	}

	p := e.padding / 2
	area := r.inset(-p)
	e.squarify(idx, area.X0, area.Y0, area.X1, area.Y1)
	for _, c := range n.Children {
		e.position(c, p)
	}
}

// Rect returns the rectangle for node index i.
func (r Result) Rect(i int) Rect { return r.Rects[i] }

// ByID maps node ids to rectangles. When ids collide the first node wins.
func (r Result) ByID() map[string]Rect {
	out := make(map[string]Rect, len(r.Rects))
	if r.tree == nil {
		return out
	}
	for i, rect := range r.Rects {
		id := r.tree.Nodes[i].ID
		if _, ok := out[id]; !ok {
			out[id] = rect
		}
	}
	return out
}

// LeafRects returns the rectangles of the tree's leaves in render order.
func (r Result) LeafRects() []Rect {
	if r.tree == nil {
		return nil
	}
	leaves := r.tree.Leaves()
	out := make([]Rect, len(leaves))
	for i, idx := range leaves {
		out[i] = r.Rects[idx]
	}
	return out
}

// Coverage is the fraction of the canvas covered by leaf tiles. It is below
// 1 by the area lost to padding.
func (r Result) Coverage() float64 {
	canvas := r.Width * r.Height
	if canvas <= 0 {
		return 0
	}
	rects := r.LeafRects()
	areas := make([]float64, len(rects))
	for i, rect := range rects {
		areas[i] = rect.Area()
	}
	return floats.Sum(areas) / canvas
}
