package render

import "github.com/matzehuels/treemap/pkg/hierarchy"

// LegendEntry is one distinct category with its color and its position in
// the legend sequence.
type LegendEntry struct {
	Category  string `json:"category"`
	Color     string `json:"color"`
	GridIndex int    `json:"grid_index"`
}

// BuildLegend collects the categories of leaves in the order given, keeping
// only the first occurrence of each. Entries are not sorted: a category's
// GridIndex is the position where it first appeared.
func BuildLegend(t *hierarchy.Tree, leaves []int, colors *Colorizer) []LegendEntry {
	seen := make(map[string]bool)
	var out []LegendEntry
	for _, idx := range leaves {
		cat := t.Nodes[idx].Category
		if seen[cat] {
			continue
		}
		seen[cat] = true
		out = append(out, LegendEntry{
			Category:  cat,
			Color:     colors.ColorOf(cat),
			GridIndex: len(out),
		})
	}
	return out
}

// LegendGrid places legend entries on a fixed-width grid.
type LegendGrid struct {
	PerRow   int     `json:"per_row"`
	RectSize float64 `json:"rect_size"`
	HSpacing float64 `json:"h_spacing"`
	VSpacing float64 `json:"v_spacing"`
}

// DefaultLegendGrid lays out four 20px swatches per row.
var DefaultLegendGrid = LegendGrid{PerRow: 4, RectSize: 20, HSpacing: 140, VSpacing: 7}

// Position returns the top-left corner of entry i.
func (g LegendGrid) Position(i int) (x, y float64) {
	per := max(g.PerRow, 1)
	col, row := i%per, i/per
	return float64(col) * g.HSpacing, float64(row) * (g.RectSize + g.VSpacing)
}

// Rows returns how many rows n entries occupy.
func (g LegendGrid) Rows(n int) int {
	per := max(g.PerRow, 1)
	return (n + per - 1) / per
}

// Size returns the width and height needed for n entries.
func (g LegendGrid) Size(n int) (w, h float64) {
	if n == 0 {
		return 0, 0
	}
	cols := min(n, max(g.PerRow, 1))
	rows := g.Rows(n)
	return float64(cols) * g.HSpacing, float64(rows)*(g.RectSize+g.VSpacing) - g.VSpacing
}
