package treemap

// Rect is an axis-aligned rectangle in canvas pixels. Y grows downward.
type Rect struct {
	X0, Y0 float64
	X1, Y1 float64
}

// Width returns the horizontal span of the rectangle.
func (r Rect) Width() float64 { return r.X1 - r.X0 }

// Height returns the vertical span of the rectangle.
func (r Rect) Height() float64 { return r.Y1 - r.Y0 }

// Area returns Width * Height.
func (r Rect) Area() float64 { return r.Width() * r.Height() }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.X1 <= r.X0 || r.Y1 <= r.Y0 }

// Overlaps reports whether the interiors of r and o intersect. Rectangles
// that only share an edge do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.X0 < o.X1-eps && o.X0 < r.X1-eps && r.Y0 < o.Y1-eps && o.Y0 < r.Y1-eps
}

// Contains reports whether o lies within r.
func (r Rect) Contains(o Rect) bool {
	return o.X0 >= r.X0-eps && o.Y0 >= r.Y0-eps && o.X1 <= r.X1+eps && o.Y1 <= r.Y1+eps
}

// inset shrinks r by p on every side, collapsing an inverted axis to its
// midline.
func (r Rect) inset(p float64) Rect {
	out := Rect{X0: r.X0 + p, Y0: r.Y0 + p, X1: r.X1 - p, Y1: r.Y1 - p}
	if out.X1 < out.X0 {
		mid := (out.X0 + out.X1) / 2
		out.X0, out.X1 = mid, mid
	}
	if out.Y1 < out.Y0 {
		mid := (out.Y0 + out.Y1) / 2
		out.Y0, out.Y1 = mid, mid
	}
	return out
}
