package treemap

import "math"

// Phi is the golden ratio, the default target aspect ratio for squarified
// rows.
var Phi = (1 + math.Sqrt(5)) / 2

// squarify tiles the children of parent into the rectangle [x0,x1]×[y0,y1].
//
// Children are consumed in order and packed into rows. A row keeps growing
// while adding the next child does not worsen its worst aspect ratio; it is
// then laid out along the shorter side of the remaining space, and the rest
// of the rectangle is tiled with the remaining children.
func (e *engine) squarify(parent int, x0, y0, x1, y1 float64) {
	nodes := e.tree.Nodes[parent].Children
	n := len(nodes)
	value := e.tree.Nodes[parent].Value

	i0, i1 := 0, 0
	for i0 < n {
		dx, dy := x1-x0, y1-y0

		// Find the next non-empty node.
		var sum float64
		for {
			sum = e.value(nodes[i1])
			i1++
			if sum != 0 || i1 >= n {
				break
			}
		}
		minValue, maxValue := sum, sum
		alpha := max(dy/dx, dx/dy) / (value * e.ratio)
		beta := sum * sum * alpha
		minRatio := max(maxValue/beta, beta/minValue)

		for ; i1 < n; i1++ {
			v := e.value(nodes[i1])
			sum += v
			minValue = min(minValue, v)
			maxValue = max(maxValue, v)
			beta = sum * sum * alpha
			ratio := max(maxValue/beta, beta/minValue)
			if ratio > minRatio {
				sum -= v
				break
			}
			minRatio = ratio
		}

		row := nodes[i0:i1]
		if dx < dy {
			y := y1
			if value != 0 {
				y = y0 + dy*sum/value
			}
			e.dice(row, sum, x0, y0, x1, y)
			if value != 0 {
				y0 = y
			}
		} else {
			x := x1
			if value != 0 {
				x = x0 + dx*sum/value
			}
			e.slice(row, sum, x0, y0, x, y1)
			if value != 0 {
				x0 = x
			}
		}
		value -= sum
		i0 = i1
	}
}

func (e *engine) value(idx int) float64 { return e.tree.Nodes[idx].Value }

// dice lays out row left to right across [x0,x1], each child spanning the
// full [y0,y1].
func (e *engine) dice(row []int, total, x0, y0, x1, y1 float64) {
	var k float64
	if total != 0 {
		k = (x1 - x0) / total
	}
	for _, idx := range row {
		w := e.value(idx) * k
		e.rects[idx] = Rect{X0: x0, Y0: y0, X1: x0 + w, Y1: y1}
		x0 += w
	}
}

// slice lays out row top to bottom across [y0,y1], each child spanning the
// full [x0,x1].
func (e *engine) slice(row []int, total, x0, y0, x1, y1 float64) {
	var k float64
	if total != 0 {
		k = (y1 - y0) / total
	}
	for _, idx := range row {
		h := e.value(idx) * k
		e.rects[idx] = Rect{X0: x0, Y0: y0, X1: x1, Y1: y0 + h}
		y0 += h
	}
}
