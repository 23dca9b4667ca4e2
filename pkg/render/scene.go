package render

import (
	"github.com/matzehuels/treemap/pkg/hierarchy"
	"github.com/matzehuels/treemap/pkg/treemap"
)

// Tile is the draw command for one leaf.
type Tile struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Category string      `json:"category"`
	Value    float64     `json:"value"`
	X        float64     `json:"x"`
	Y        float64     `json:"y"`
	Width    float64     `json:"width"`
	Height   float64     `json:"height"`
	Color    string      `json:"color"`
	Lines    []LabelLine `json:"lines"`
}

// LegendItem is the draw command for one legend entry.
type LegendItem struct {
	LegendEntry
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Scene is everything needed to draw a treemap, as plain data. Building a
// Scene does not touch any output surface; pass it to Draw or to one of the
// sink renderers.
type Scene struct {
	Title  string       `json:"title,omitempty"`
	Width  float64      `json:"width"`
	Height float64      `json:"height"`
	Tiles  []Tile       `json:"tiles"`
	Legend []LegendItem `json:"legend"`
	Grid   LegendGrid   `json:"grid"`
}

// Target receives draw commands.
type Target interface {
	DrawTile(Tile)
	DrawLegendEntry(LegendItem)
}

// SceneOption configures NewScene.
type SceneOption func(*sceneConfig)

type sceneConfig struct {
	colors *Colorizer
	grid   LegendGrid
	title  string
}

// WithColorizer sets the category colorizer. The default is DefaultColorizer.
func WithColorizer(c *Colorizer) SceneOption {
	return func(cfg *sceneConfig) { cfg.colors = c }
}

// WithLegendGrid sets the legend grid geometry.
func WithLegendGrid(g LegendGrid) SceneOption {
	return func(cfg *sceneConfig) { cfg.grid = g }
}

// WithTitle sets the scene title.
func WithTitle(title string) SceneOption {
	return func(cfg *sceneConfig) { cfg.title = title }
}

// NewScene turns a laid-out tree into draw commands: one tile per leaf in
// traversal order, then one legend item per distinct category. Colors are
// assigned as tiles are emitted, so the legend lists categories in the same
// order their colors were handed out.
func NewScene(t *hierarchy.Tree, layout treemap.Result, opts ...SceneOption) Scene {
	cfg := sceneConfig{grid: DefaultLegendGrid}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.colors == nil {
		cfg.colors = DefaultColorizer()
	}

	s := Scene{
		Title:  cfg.title,
		Width:  layout.Width,
		Height: layout.Height,
		Grid:   cfg.grid,
	}
	if t == nil || t.Len() == 0 {
		return s
	}

	leaves := t.Leaves()
	s.Tiles = make([]Tile, 0, len(leaves))
	for _, idx := range leaves {
		n := &t.Nodes[idx]
		r := layout.Rects[idx]
		s.Tiles = append(s.Tiles, Tile{
			ID:       n.ID,
			Name:     n.Name,
			Category: n.Category,
			Value:    n.Value,
			X:        r.X0,
			Y:        r.Y0,
			Width:    r.Width(),
			Height:   r.Height(),
			Color:    cfg.colors.ColorOf(n.Category),
			Lines:    LabelLines(n.Name),
		})
	}

	for _, e := range BuildLegend(t, leaves, cfg.colors) {
		x, y := cfg.grid.Position(e.GridIndex)
		s.Legend = append(s.Legend, LegendItem{LegendEntry: e, X: x, Y: y})
	}
	return s
}

// Draw sends every tile, then every legend item, to target.
func (s Scene) Draw(target Target) {
	for _, t := range s.Tiles {
		target.DrawTile(t)
	}
	for _, l := range s.Legend {
		target.DrawLegendEntry(l)
	}
}

// Tile looks a tile up by id.
func (s Scene) Tile(id string) (Tile, bool) {
	for _, t := range s.Tiles {
		if t.ID == id {
			return t, true
		}
	}
	return Tile{}, false
}

// CategoryTotal aggregates the tiles of one category.
type CategoryTotal struct {
	Category string  `json:"category"`
	Color    string  `json:"color"`
	Count    int     `json:"count"`
	Value    float64 `json:"value"`
}

// Totals sums tile values per category, in legend order.
func (s Scene) Totals() []CategoryTotal {
	pos := make(map[string]int, len(s.Legend))
	out := make([]CategoryTotal, len(s.Legend))
	for i, l := range s.Legend {
		pos[l.Category] = i
		out[i] = CategoryTotal{Category: l.Category, Color: l.Color}
	}
	for _, t := range s.Tiles {
		i, ok := pos[t.Category]
		if !ok {
			continue
		}
		out[i].Count++
		out[i].Value += t.Value
	}
	return out
}
